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

// Package export writes what a table view shows (filtered and sorted rows,
// visible columns in display order) to CSV, JSON or Parquet.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	json "github.com/goccy/go-json"

	"github.com/magpierre/tableview/datatable"
)

// ExportFormat represents the supported export formats
type ExportFormat int

const (
	FormatParquet ExportFormat = iota
	FormatCSV
	FormatJSON
)

func (f ExportFormat) String() string {
	switch f {
	case FormatParquet:
		return "Parquet"
	case FormatCSV:
		return "CSV"
	case FormatJSON:
		return "JSON"
	}
	return fmt.Sprintf("ExportFormat(%d)", int(f))
}

// Extension returns the file extension of the format, with the dot.
func (f ExportFormat) Extension() string {
	return "." + strings.ToLower(f.String())
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (ExportFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return FormatParquet, nil
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("%w: %q", datatable.ErrUnsupportedFile, filepath.Ext(path))
}

// View is a snapshot of the rows and columns to write.
type View struct {
	Columns []datatable.Column
	Rows    []datatable.Row
}

// FromModel captures every row passing the model's filters, in sort order
// and across all pages, with the visible columns in display order.
func FromModel(m *datatable.TableModel) View {
	v := m.View()
	ds := m.Dataset()
	indices := m.SelectedRows()
	rows := make([]datatable.Row, len(indices))
	for i, idx := range indices {
		rows[i] = ds.Row(idx)
	}
	return View{Columns: v.State.VisibleColumns(v.Registry), Rows: rows}
}

// ToFile writes v to path in the format given by its extension.
func ToFile(path string, v View) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: failed to create %s file: %w", datatable.ErrExportFailed, format, err)
	}
	if err := Write(file, format, v); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: %w", datatable.ErrExportFailed, err)
	}
	return nil
}

// Write writes v to w in format.
func Write(w io.Writer, format ExportFormat, v View) error {
	var err error
	switch format {
	case FormatParquet:
		err = ToParquet(w, v)
	case FormatCSV:
		err = ToCSV(w, v)
	case FormatJSON:
		err = ToJSON(w, v)
	default:
		return fmt.Errorf("%w: %s", datatable.ErrUnsupportedFile, format)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", datatable.ErrExportFailed, err)
	}
	return nil
}

// ToParquet writes v as a Snappy-compressed Parquet file that carries its
// Arrow schema.
func ToParquet(w io.Writer, v View) error {
	rec := Record(memory.NewGoAllocator(), v)
	defer rec.Release()

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(rec.Schema(), w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write table to parquet: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// ToCSV writes v as comma separated text with a header line of column ids.
// Missing values are written as empty fields.
func ToCSV(w io.Writer, v View) error {
	rec := Record(memory.NewGoAllocator(), v)
	defer rec.Release()

	writer := csv.NewWriter(w, rec.Schema(),
		csv.WithHeader(true), csv.WithComma(','), csv.WithNullWriter(""))
	if err := writer.Write(rec); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// ToJSON writes v as an indented array of objects keyed by column id.
func ToJSON(w io.Writer, v View) error {
	records := make([]map[string]any, len(v.Rows))
	for i, row := range v.Rows {
		record := make(map[string]any, len(v.Columns))
		for _, col := range v.Columns {
			record[col.ID] = jsonValue(row[col.ID])
		}
		records[i] = record
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func jsonValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// Record converts v into one Arrow record. Fields are named by column id
// and carry the column label and value tag as metadata.
func Record(mem memory.Allocator, v View) arrow.Record {
	fields := make([]arrow.Field, len(v.Columns))
	for i, col := range v.Columns {
		fields[i] = arrow.Field{
			Name:     col.ID,
			Type:     ArrowType(col.Tag),
			Nullable: true,
			Metadata: arrow.NewMetadata(
				[]string{"label", "tag"},
				[]string{col.Title(), col.Tag.String()},
			),
		}
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()
	for i, col := range v.Columns {
		fb := b.Field(i)
		for _, row := range v.Rows {
			appendValue(fb, col.Tag, row[col.ID])
		}
	}
	return b.NewRecord()
}

// ArrowType is the Arrow type a column of tag is written as.
func ArrowType(tag datatable.ValueTag) arrow.DataType {
	switch tag {
	case datatable.TagInt:
		return arrow.PrimitiveTypes.Int64
	case datatable.TagBool:
		return arrow.FixedWidthTypes.Boolean
	case datatable.TagDate:
		return arrow.FixedWidthTypes.Date32
	case datatable.TagDateTime:
		return arrow.FixedWidthTypes.Timestamp_ms
	case datatable.TagBinary:
		return arrow.BinaryTypes.Binary
	}
	if tag.Numeric() {
		return arrow.PrimitiveTypes.Float64
	}
	return arrow.BinaryTypes.String
}
