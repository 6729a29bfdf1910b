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

// Package filter builds datatable filters from typed comparisons, query
// strings and interpreted Go expressions.
package filter

import (
	"fmt"
	"strings"

	"github.com/magpierre/tableview/datatable"
)

// LogicOp represents a logical operator for combining filters.
type LogicOp int

const (
	// LogicAND requires all filters to pass.
	LogicAND LogicOp = iota
	// LogicOR requires at least one filter to pass.
	LogicOR
)

// String returns the string representation of a LogicOp.
func (op LogicOp) String() string {
	switch op {
	case LogicAND:
		return "AND"
	case LogicOR:
		return "OR"
	default:
		return fmt.Sprintf("unknown(%d)", op)
	}
}

// CompositeFilter combines multiple filters with AND or OR logic.
// Every member sees the same column value and row.
type CompositeFilter struct {
	Filters []datatable.Filter
	Logic   LogicOp
}

// And returns a composite requiring every filter.
func And(filters ...datatable.Filter) *CompositeFilter {
	return &CompositeFilter{Filters: filters, Logic: LogicAND}
}

// Or returns a composite requiring any filter.
func Or(filters ...datatable.Filter) *CompositeFilter {
	return &CompositeFilter{Filters: filters, Logic: LogicOR}
}

// Match implements datatable.Filter. An empty composite passes every row.
func (f *CompositeFilter) Match(value any, row datatable.Row) bool {
	if len(f.Filters) == 0 {
		return true
	}
	if f.Logic == LogicOR {
		for _, sub := range f.Filters {
			if sub.Match(value, row) {
				return true
			}
		}
		return false
	}
	for _, sub := range f.Filters {
		if !sub.Match(value, row) {
			return false
		}
	}
	return true
}

// Description implements datatable.Filter.
func (f *CompositeFilter) Description() string {
	if len(f.Filters) == 0 {
		return "empty filter"
	}
	if len(f.Filters) == 1 {
		return f.Filters[0].Description()
	}

	descriptions := make([]string, len(f.Filters))
	for i, sub := range f.Filters {
		descriptions[i] = sub.Description()
	}
	return "(" + strings.Join(descriptions, " "+f.Logic.String()+" ") + ")"
}
