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

// Package loader opens data files and Delta Sharing tables as datatable
// sources.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	arrowadapter "github.com/magpierre/tableview/adapters/arrow"
	csvadapter "github.com/magpierre/tableview/adapters/csv"
	sliceadapter "github.com/magpierre/tableview/adapters/slice"
	"github.com/magpierre/tableview/datatable"
)

// FileType represents the type of data file
type FileType int

const (
	FileTypeUnknown FileType = iota
	FileTypeCSV
	FileTypeParquet
	FileTypeJSON
	FileTypeDeltaSharingProfile
	// FileTypeDeltaTable marks results loaded through a profile.
	FileTypeDeltaTable
)

func (t FileType) String() string {
	switch t {
	case FileTypeCSV:
		return "CSV"
	case FileTypeParquet:
		return "Parquet"
	case FileTypeJSON:
		return "JSON"
	case FileTypeDeltaSharingProfile:
		return "Delta Sharing profile"
	case FileTypeDeltaTable:
		return "Delta Sharing table"
	default:
		return "unknown"
	}
}

// Source is what every adapter provides.
type Source interface {
	datatable.Dataset
	Registry() (*datatable.Registry, error)
	RowCount() int
	ColumnCount() int
}

// Result is a loaded table.
type Result struct {
	// Name is shown as the tab title.
	Name   string
	Type   FileType
	Source Source
	// Detail is a short status note, such as the detected CSV separator.
	Detail string
}

// Status returns a one-line summary for a status bar.
func (r *Result) Status() string {
	s := fmt.Sprintf("Loaded %s: %s (%d rows, %d columns", r.Type, r.Name,
		r.Source.RowCount(), r.Source.ColumnCount())
	if r.Detail != "" {
		s += ", " + r.Detail
	}
	return s + ")"
}

// DetectFileType determines the type of file based on extension and, for
// JSON-like files, content.
func DetectFileType(path string, content []byte) FileType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return FileTypeCSV
	case ".parquet":
		return FileTypeParquet
	case ".json", ".share", ".txt":
		if IsDeltaSharingProfile(content) {
			return FileTypeDeltaSharingProfile
		}
		return FileTypeJSON
	default:
		return FileTypeUnknown
	}
}

// IsDeltaSharingProfile reports whether content is a JSON object carrying
// shareCredentialsVersion, endpoint and bearerToken.
func IsDeltaSharingProfile(content []byte) bool {
	var profile map[string]any
	if err := json.Unmarshal(content, &profile); err != nil {
		return false
	}
	_, hasVersion := profile["shareCredentialsVersion"]
	_, hasEndpoint := profile["endpoint"]
	_, hasBearerToken := profile["bearerToken"]
	return hasVersion && hasEndpoint && hasBearerToken
}

// Loader reads files into sources.
type Loader struct {
	logger *zap.Logger
	csv    csvadapter.Config
}

// New returns a loader. A nil logger discards log output.
func New(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger, csv: csvadapter.DefaultConfig()}
}

// LoadFile loads path with the adapter matching its type. Delta Sharing
// profiles are rejected with ErrUnsupportedFile; open them with
// NewDeltaSharing instead.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Result, error) {
	var content []byte
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" || ext == ".share" || ext == ".txt" {
		var err error
		if content, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
	}

	fileType := DetectFileType(path, content)
	l.logger.Debug("loading file", zap.String("path", path), zap.Stringer("type", fileType))

	var (
		res *Result
		err error
	)
	switch fileType {
	case FileTypeCSV:
		res, err = l.loadCSV(path)
	case FileTypeParquet:
		res, err = l.loadParquet(ctx, path)
	case FileTypeJSON:
		res, err = l.loadJSON(path, content)
	case FileTypeDeltaSharingProfile:
		return nil, fmt.Errorf("%w: %s is a Delta Sharing profile", datatable.ErrUnsupportedFile, filepath.Base(path))
	default:
		return nil, fmt.Errorf("%w: %s", datatable.ErrUnsupportedFile, filepath.Base(path))
	}
	if err != nil {
		return nil, err
	}
	l.logger.Info("file loaded", zap.String("path", path),
		zap.Int("rows", res.Source.RowCount()), zap.Int("columns", res.Source.ColumnCount()))
	return res, nil
}

func (l *Loader) loadCSV(path string) (*Result, error) {
	src, err := csvadapter.NewFromFile(path, l.csv)
	if err != nil {
		return nil, fmt.Errorf("failed to load CSV file: %w", err)
	}
	return &Result{
		Name:   filepath.Base(path),
		Type:   FileTypeCSV,
		Source: src,
		Detail: "separator: " + csvadapter.SeparatorName(src.Delimiter),
	}, nil
}

func (l *Loader) loadParquet(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	table, err := ReadParquet(ctx, f)
	if err != nil {
		return nil, err
	}
	defer table.Release()

	src, err := arrowadapter.NewFromArrowTable(table)
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow data source: %w", err)
	}
	return &Result{
		Name:   filepath.Base(path),
		Type:   FileTypeParquet,
		Source: src,
		Detail: fmt.Sprintf("%.2f MB", float64(info.Size())/(1024*1024)),
	}, nil
}

// ReadParquet reads a whole Parquet file into an Arrow table. The caller
// releases the table.
func ReadParquet(ctx context.Context, r parquet.ReaderAtSeeker) (arrow.Table, error) {
	pf, err := file.NewParquetReader(r, file.WithReadProps(&parquet.ReaderProperties{}))
	if err != nil {
		return nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pf.Close()

	arrowReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}
	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	return table, nil
}

func (l *Loader) loadJSON(path string, content []byte) (*Result, error) {
	src, err := sliceadapter.NewFromJSON(content)
	if err != nil {
		return nil, fmt.Errorf("failed to load JSON file: %w", err)
	}
	return &Result{Name: filepath.Base(path), Type: FileTypeJSON, Source: src}, nil
}
