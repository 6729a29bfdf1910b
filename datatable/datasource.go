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

package datatable

// Row is one record of a dataset, keyed by column id.
// Values have the Go type implied by the column's ValueTag.
type Row map[string]any

// Dataset provides read-only, ordered access to rows.
// The engine never mutates a dataset; it only derives views over it, so one
// dataset may back several table views at once.
type Dataset interface {
	// Len returns the number of rows.
	Len() int

	// Row returns the row at position i, 0 <= i < Len().
	Row(i int) Row
}

// Rows is an in-memory Dataset.
type Rows []Row

// Len implements Dataset.
func (r Rows) Len() int { return len(r) }

// Row implements Dataset.
func (r Rows) Row(i int) Row { return r[i] }

// Filter is a predicate description attached to one column.
// A row passes the filter stage iff every active filter matches.
type Filter interface {
	// Match reports whether the column value (and, if needed, the whole row) passes.
	Match(value any, row Row) bool

	// Description returns a human-readable form of the predicate.
	Description() string
}

// FilterFunc adapts a plain function to a Filter.
type FilterFunc struct {
	Desc string
	Fn   func(value any) bool
}

// Match implements Filter.
func (f FilterFunc) Match(value any, _ Row) bool { return f.Fn(value) }

// Description implements Filter.
func (f FilterFunc) Description() string { return f.Desc }
