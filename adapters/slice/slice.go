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

// Package sliceadapter builds datatable datasets from in-memory records,
// such as decoded JSON documents.
package sliceadapter

import (
	"fmt"
	"math"
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"github.com/magpierre/tableview/datatable"
)

// Source is a datatable.Dataset over a slice of records.
type Source struct {
	columns []datatable.Column
	rows    datatable.Rows
}

// NewFromMaps wraps data. Columns are the union of the record keys: keys
// of earlier records come first, keys within a record in sorted order.
// A column's tag is inferred from its non-nil values.
func NewFromMaps(data []map[string]any) (*Source, error) {
	var ids []string
	seen := map[string]bool{}
	for _, rec := range data {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			if !seen[k] {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			seen[k] = true
			ids = append(ids, k)
		}
	}

	columns := make([]datatable.Column, len(ids))
	for i, id := range ids {
		columns[i] = datatable.NewColumn(id, id, inferTag(data, id))
	}
	return NewFromRows(columns, data)
}

// NewFromRows wraps data with explicit columns. Keys missing from a record
// read as nil.
func NewFromRows(columns []datatable.Column, data []map[string]any) (*Source, error) {
	if _, err := datatable.NewRegistry(columns...); err != nil {
		return nil, fmt.Errorf("invalid columns: %w", err)
	}
	rows := make(datatable.Rows, len(data))
	for i, rec := range data {
		rows[i] = datatable.Row(rec)
	}
	return &Source{columns: columns, rows: rows}, nil
}

// NewFromJSON decodes an array of objects, or a single object, into a source.
func NewFromJSON(content []byte) (*Source, error) {
	var data []map[string]any
	if err := json.Unmarshal(content, &data); err != nil {
		var single map[string]any
		if err := json.Unmarshal(content, &single); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		data = []map[string]any{single}
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("JSON document has no records")
	}
	return NewFromMaps(data)
}

// Len implements datatable.Dataset.
func (s *Source) Len() int { return len(s.rows) }

// Row implements datatable.Dataset.
func (s *Source) Row(i int) datatable.Row { return s.rows[i] }

// RowCount returns the number of records.
func (s *Source) RowCount() int { return len(s.rows) }

// ColumnCount returns the number of columns.
func (s *Source) ColumnCount() int { return len(s.columns) }

// Columns returns the columns in order.
func (s *Source) Columns() []datatable.Column {
	return append([]datatable.Column(nil), s.columns...)
}

// Registry returns a new registry of the source's columns.
func (s *Source) Registry() (*datatable.Registry, error) {
	return datatable.NewRegistry(s.columns...)
}

// inferTag picks the tag shared by every non-nil value of key. Mixed or
// unknown kinds fall back to text.
func inferTag(data []map[string]any, key string) datatable.ValueTag {
	tag, found := datatable.TagText, false
	for _, rec := range data {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		t := tagOf(v)
		switch {
		case !found:
			tag, found = t, true
		case tag == datatable.TagInt && t == datatable.TagFloat:
			tag = datatable.TagFloat
		case tag == datatable.TagFloat && t == datatable.TagInt:
		case tag != t:
			return datatable.TagText
		}
	}
	return tag
}

func tagOf(v any) datatable.ValueTag {
	switch n := v.(type) {
	case bool:
		return datatable.TagBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return datatable.TagInt
	case float32:
		return tagOfFloat(float64(n))
	case float64:
		return tagOfFloat(n)
	case time.Time:
		return datatable.TagDateTime
	case []byte:
		return datatable.TagBinary
	case map[string]any:
		return datatable.TagStruct
	case []any:
		return datatable.TagList
	}
	return datatable.TagText
}

// JSON numbers decode as float64; whole ones count as integers.
func tagOfFloat(f float64) datatable.ValueTag {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return datatable.TagInt
	}
	return datatable.TagFloat
}
