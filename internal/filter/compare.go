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

package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/magpierre/tableview/datatable"
)

// CompOp is a comparison operator.
type CompOp int

const (
	OpEqual CompOp = iota
	OpNotEqual
	OpGreater
	OpLess
	OpGreaterEqual
	OpLessEqual
	OpContains
)

// Longer symbols first so ">=" is not read as ">".
var operators = []struct {
	op     CompOp
	symbol string
}{
	{OpGreaterEqual, ">="},
	{OpLessEqual, "<="},
	{OpNotEqual, "!="},
	{OpEqual, "="},
	{OpGreater, ">"},
	{OpLess, "<"},
	{OpContains, "~"},
}

// String returns the operator symbol.
func (op CompOp) String() string {
	for _, o := range operators {
		if o.op == op {
			return o.symbol
		}
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// Comparison tests one cell against a literal. Text compares ignore case;
// ordering operators compare numerically when both sides parse as numbers.
type Comparison struct {
	// Column, when set, selects the cell from the row instead of the value
	// handed to Match. Filters stored under another column id need it.
	Column string
	Op     CompOp
	Value  string
}

// Compare returns a comparison against a column value.
func Compare(op CompOp, value string) *Comparison {
	return &Comparison{Op: op, Value: value}
}

// Match implements datatable.Filter.
func (c *Comparison) Match(value any, row datatable.Row) bool {
	if c.Column != "" {
		value = row[c.Column]
	}
	cell := datatable.DisplayText(value)

	switch c.Op {
	case OpEqual:
		return strings.EqualFold(cell, c.Value)
	case OpNotEqual:
		return !strings.EqualFold(cell, c.Value)
	case OpContains:
		return strings.Contains(strings.ToLower(cell), strings.ToLower(c.Value))
	case OpGreater, OpLess, OpGreaterEqual, OpLessEqual:
		if value == nil {
			return false
		}
		return ordered(compareText(cell, c.Value), c.Op)
	}
	return false
}

// Description implements datatable.Filter.
func (c *Comparison) Description() string {
	if c.Column == "" {
		return fmt.Sprintf("%s %q", c.Op, c.Value)
	}
	return fmt.Sprintf("%s %s %q", c.Column, c.Op, c.Value)
}

func compareText(cell, literal string) int {
	a, errA := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	b, errB := strconv.ParseFloat(strings.TrimSpace(literal), 64)
	if errA == nil && errB == nil {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(cell), strings.ToLower(literal))
}

func ordered(cmp int, op CompOp) bool {
	switch op {
	case OpGreater:
		return cmp > 0
	case OpLess:
		return cmp < 0
	case OpGreaterEqual:
		return cmp >= 0
	case OpLessEqual:
		return cmp <= 0
	}
	return false
}

// RowContains passes rows where any cell contains Term, ignoring case.
type RowContains struct {
	Term string
}

// Match implements datatable.Filter.
func (r *RowContains) Match(_ any, row datatable.Row) bool {
	term := strings.ToLower(r.Term)
	for _, v := range row {
		if strings.Contains(strings.ToLower(datatable.DisplayText(v)), term) {
			return true
		}
	}
	return false
}

// Description implements datatable.Filter.
func (r *RowContains) Description() string {
	return fmt.Sprintf("any column ~ %q", r.Term)
}
