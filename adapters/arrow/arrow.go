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

// Package arrowadapter exposes Apache Arrow tables as datatable datasets.
package arrowadapter

import (
	"bytes"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	json "github.com/goccy/go-json"

	"github.com/magpierre/tableview/datatable"
)

// Source is a datatable.Dataset holding the rows of an Arrow table.
// Values are copied out of the Arrow buffers, so the table may be released
// once the source is built.
type Source struct {
	schema  *arrow.Schema
	columns []datatable.Column
	rows    datatable.Rows
}

// NewFromArrowTable reads every row of table.
func NewFromArrowTable(table arrow.Table) (*Source, error) {
	if table == nil {
		return nil, datatable.ErrNoDataSource
	}
	s, err := newSource(table.Schema(), int(table.NumRows()))
	if err != nil {
		return nil, err
	}

	chunk := table.NumRows()
	if chunk <= 0 {
		chunk = 1
	}
	tr := array.NewTableReader(table, chunk)
	defer tr.Release()
	for tr.Next() {
		s.appendRecord(tr.Record())
	}
	if err := tr.Err(); err != nil {
		return nil, fmt.Errorf("error reading table: %w", err)
	}
	return s, nil
}

// NewFromRecords reads the rows of recs, which must all share schema.
func NewFromRecords(schema *arrow.Schema, recs ...arrow.Record) (*Source, error) {
	if schema == nil {
		return nil, datatable.ErrNoDataSource
	}
	var n int64
	for _, rec := range recs {
		n += rec.NumRows()
	}
	s, err := newSource(schema, int(n))
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if !rec.Schema().Equal(schema) {
			return nil, fmt.Errorf("record schema %s does not match %s", rec.Schema(), schema)
		}
		s.appendRecord(rec)
	}
	return s, nil
}

func newSource(schema *arrow.Schema, capacity int) (*Source, error) {
	columns := Columns(schema)
	if _, err := datatable.NewRegistry(columns...); err != nil {
		return nil, fmt.Errorf("invalid arrow schema: %w", err)
	}
	return &Source{
		schema:  schema,
		columns: columns,
		rows:    make(datatable.Rows, 0, capacity),
	}, nil
}

func (s *Source) appendRecord(rec arrow.Record) {
	cols := rec.Columns()
	for i := 0; i < int(rec.NumRows()); i++ {
		row := make(datatable.Row, len(cols))
		for c, col := range cols {
			row[s.columns[c].ID] = Value(col, i)
		}
		s.rows = append(s.rows, row)
	}
}

// Len implements datatable.Dataset.
func (s *Source) Len() int { return len(s.rows) }

// Row implements datatable.Dataset.
func (s *Source) Row(i int) datatable.Row { return s.rows[i] }

// RowCount returns the number of rows read.
func (s *Source) RowCount() int { return len(s.rows) }

// ColumnCount returns the number of schema fields.
func (s *Source) ColumnCount() int { return len(s.columns) }

// Schema returns the Arrow schema the rows were read with.
func (s *Source) Schema() *arrow.Schema { return s.schema }

// Columns returns one column per schema field, in field order.
func (s *Source) Columns() []datatable.Column {
	return append([]datatable.Column(nil), s.columns...)
}

// Registry returns a new registry of the source's columns.
func (s *Source) Registry() (*datatable.Registry, error) {
	return datatable.NewRegistry(s.columns...)
}

// Columns derives registry columns from schema. Field names are both id
// and label.
func Columns(schema *arrow.Schema) []datatable.Column {
	fields := schema.Fields()
	columns := make([]datatable.Column, len(fields))
	for i, f := range fields {
		columns[i] = datatable.NewColumn(f.Name, f.Name, TagOf(f.Type))
	}
	return columns
}

// TagOf maps an Arrow type to the value tag of its cells.
func TagOf(dt arrow.DataType) datatable.ValueTag {
	switch dt.ID() {
	case arrow.BINARY, arrow.LARGE_BINARY, arrow.FIXED_SIZE_BINARY:
		return datatable.TagBinary
	case arrow.BOOL:
		return datatable.TagBool
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return datatable.TagInt
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return datatable.TagFloat
	case arrow.DECIMAL128, arrow.DECIMAL256:
		return datatable.TagDecimal
	case arrow.DATE32, arrow.DATE64:
		return datatable.TagDate
	case arrow.TIMESTAMP:
		return datatable.TagDateTime
	case arrow.TIME32, arrow.TIME64:
		return datatable.TagTime
	case arrow.STRUCT:
		return datatable.TagStruct
	case arrow.LIST, arrow.LARGE_LIST, arrow.FIXED_SIZE_LIST:
		return datatable.TagList
	case arrow.MAP:
		return datatable.TagJSON
	}
	return datatable.TagText
}

// Value returns the cell at pos as a Go value matching TagOf: int64 for
// integers (uint64 stays unsigned), float64 for floats and decimals,
// time.Time for dates and times, []byte for binary, and decoded JSON
// (map[string]any or []any) for nested types. Nulls are nil.
func Value(col arrow.Array, pos int) any {
	if col.IsNull(pos) {
		return nil
	}

	switch c := col.(type) {
	case *array.String:
		return c.Value(pos)
	case *array.LargeString:
		return c.Value(pos)
	case *array.Binary:
		return bytes.Clone(c.Value(pos))
	case *array.LargeBinary:
		return bytes.Clone(c.Value(pos))
	case *array.FixedSizeBinary:
		return bytes.Clone(c.Value(pos))
	case *array.Boolean:
		return c.Value(pos)
	case *array.Int8:
		return int64(c.Value(pos))
	case *array.Int16:
		return int64(c.Value(pos))
	case *array.Int32:
		return int64(c.Value(pos))
	case *array.Int64:
		return c.Value(pos)
	case *array.Uint8:
		return int64(c.Value(pos))
	case *array.Uint16:
		return int64(c.Value(pos))
	case *array.Uint32:
		return int64(c.Value(pos))
	case *array.Uint64:
		return c.Value(pos)
	case *array.Float16:
		return float64(c.Value(pos).Float32())
	case *array.Float32:
		return float64(c.Value(pos))
	case *array.Float64:
		return c.Value(pos)
	case *array.Decimal128:
		dt := c.DataType().(*arrow.Decimal128Type)
		return c.Value(pos).ToFloat64(dt.Scale)
	case *array.Date32:
		return c.Value(pos).ToTime()
	case *array.Date64:
		return c.Value(pos).ToTime()
	case *array.Timestamp:
		dt := c.DataType().(*arrow.TimestampType)
		return c.Value(pos).ToTime(dt.Unit)
	case *array.Time32:
		dt := c.DataType().(*arrow.Time32Type)
		return c.Value(pos).ToTime(dt.Unit)
	case *array.Time64:
		dt := c.DataType().(*arrow.Time64Type)
		return c.Value(pos).ToTime(dt.Unit)
	case *array.Struct, *array.List, *array.LargeList, *array.FixedSizeList, *array.Map:
		return nested(col, pos)
	}
	return col.ValueStr(pos)
}

// nested decodes a struct or list cell into plain Go maps and slices.
func nested(col arrow.Array, pos int) any {
	b, err := json.Marshal(col.GetOneForMarshal(pos))
	if err != nil {
		return col.ValueStr(pos)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return string(b)
	}
	return v
}
