// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package csvadapter reads delimited text files into datatable datasets.
// Column types are inferred by Arrow's CSV reader.
package csvadapter

import (
	"bufio"
	"bytes"
	stdcsv "encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"

	arrowadapter "github.com/magpierre/tableview/adapters/arrow"
)

// Config controls how a file is parsed.
type Config struct {
	// HasHeaders treats the first line as column names.
	HasHeaders bool
	// Delimiter separates fields. Zero detects it from the first line.
	Delimiter rune
	// Comment marks lines to skip. Zero disables comments.
	Comment rune
	// NullValues are read as missing cells.
	NullValues []string
	// LazyQuotes accepts quotes inside unquoted fields.
	LazyQuotes bool
}

// DefaultConfig expects a header line and detects the delimiter.
func DefaultConfig() Config {
	return Config{
		HasHeaders: true,
		NullValues: []string{"", "NULL", "null", "NA"},
	}
}

// Source is the result of reading a CSV input.
type Source struct {
	*arrowadapter.Source
	// Delimiter is the separator that was used.
	Delimiter rune
}

// NewFromFile reads the file at path.
func NewFromFile(path string, config Config) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return NewFromReader(f, config)
}

// NewFromReader reads CSV text from r.
func NewFromReader(r io.Reader, config Config) (*Source, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	firstLine, err := peekLine(br)
	if err != nil {
		return nil, fmt.Errorf("failed to read first line: %w", err)
	}
	if strings.TrimSpace(firstLine) == "" {
		return nil, fmt.Errorf("CSV input is empty")
	}

	sep := config.Delimiter
	if sep == 0 {
		sep = DetectSeparator(firstLine)
	}

	opts := []csv.Option{
		csv.WithComma(sep),
		csv.WithAllocator(memory.NewGoAllocator()),
		csv.WithChunk(-1),
		csv.WithNullReader(true, config.NullValues...),
		csv.WithLazyQuotes(config.LazyQuotes),
	}
	if config.Comment != 0 {
		opts = append(opts, csv.WithComment(config.Comment))
	}

	var reader *csv.Reader
	if config.HasHeaders {
		reader = csv.NewInferringReader(br, append(opts, csv.WithHeader(true))...)
	} else {
		n, err := fieldCount(firstLine, sep)
		if err != nil {
			return nil, fmt.Errorf("failed to parse first line: %w", err)
		}
		reader = csv.NewReader(br, positionalSchema(n), append(opts, csv.WithHeader(false))...)
	}
	defer reader.Release()

	var recs []arrow.Record
	defer func() {
		for _, rec := range recs {
			rec.Release()
		}
	}()
	for reader.Next() {
		rec := reader.Record()
		rec.Retain()
		recs = append(recs, rec)
	}
	if err := reader.Err(); err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	table := array.NewTableFromRecords(reader.Schema(), recs)
	defer table.Release()
	src, err := arrowadapter.NewFromArrowTable(table)
	if err != nil {
		return nil, err
	}
	return &Source{Source: src, Delimiter: sep}, nil
}

// positionalSchema names the columns of a headerless file "Column 1",
// "Column 2" and so on, all read as text.
func positionalSchema(n int) *arrow.Schema {
	fields := make([]arrow.Field, n)
	for i := range fields {
		fields[i] = arrow.Field{
			Name:     fmt.Sprintf("Column %d", i+1),
			Type:     arrow.BinaryTypes.String,
			Nullable: true,
		}
	}
	return arrow.NewSchema(fields, nil)
}

func peekLine(br *bufio.Reader) (string, error) {
	b, err := br.Peek(br.Size())
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return "", err
	}
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[:i]
	}
	return strings.TrimRight(string(b), "\r"), nil
}

func fieldCount(line string, sep rune) (int, error) {
	r := stdcsv.NewReader(strings.NewReader(line))
	r.Comma = sep
	r.LazyQuotes = true
	fields, err := r.Read()
	if err != nil {
		return 0, err
	}
	return len(fields), nil
}

// DetectSeparator returns the most frequent of , ; tab and | in line,
// or a comma when none occurs.
func DetectSeparator(line string) rune {
	best, bestCount := ',', 0
	for _, sep := range []rune{',', ';', '\t', '|'} {
		if n := strings.Count(line, string(sep)); n > bestCount {
			best, bestCount = sep, n
		}
	}
	return best
}

// SeparatorName returns a human-readable name for sep.
func SeparatorName(sep rune) string {
	switch sep {
	case ',':
		return "comma"
	case ';':
		return "semicolon"
	case '\t':
		return "tab"
	case '|':
		return "pipe"
	default:
		return string(sep)
	}
}
