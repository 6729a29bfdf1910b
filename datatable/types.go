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

// Package datatable holds the column and view state engine behind an
// interactive table view: column order, widths, visibility, sorting,
// filtering and pagination, derived from user gestures and kept consistent
// against a read-only dataset.
package datatable

import (
	"fmt"
	"strings"
)

// ValueTag describes the kind of value a column holds and how a renderer
// should present it.
type ValueTag int

const (
	// TagText represents plain string data.
	TagText ValueTag = iota
	// TagInt represents integer data (any size).
	TagInt
	// TagFloat represents floating-point data (any precision).
	TagFloat
	// TagBool represents boolean data.
	TagBool
	// TagDate represents date data (without time).
	TagDate
	// TagDateTime represents timestamp data (date + time).
	TagDateTime
	// TagTime represents a time of day.
	TagTime
	// TagBinary represents binary/blob data.
	TagBinary
	// TagDecimal represents decimal/numeric data (fixed precision).
	TagDecimal
	// TagStruct represents structured data (nested fields).
	TagStruct
	// TagList represents list/array data.
	TagList
	// TagMoney is a currency amount.
	TagMoney
	// TagPercent is a ratio rendered as a percentage (0.25 -> 25.00%).
	TagPercent
	// TagDigit is a number rendered with digit grouping.
	TagDigit
	// TagSecond is a duration in seconds rendered as h:mm:ss.
	TagSecond
	// TagProgress is a 0-100 completion value.
	TagProgress
	// TagRate is a star rating.
	TagRate
	// TagSelect maps raw values to option labels.
	TagSelect
	// TagPassword is masked on display.
	TagPassword
	// TagCode is rendered verbatim in a monospace style.
	TagCode
	// TagJSON is structured data rendered as JSON text.
	TagJSON
	// TagImage is an image URL.
	TagImage
)

var valueTagNames = [...]string{
	TagText:     "Text",
	TagInt:      "Int",
	TagFloat:    "Float",
	TagBool:     "Bool",
	TagDate:     "Date",
	TagDateTime: "DateTime",
	TagTime:     "Time",
	TagBinary:   "Binary",
	TagDecimal:  "Decimal",
	TagStruct:   "Struct",
	TagList:     "List",
	TagMoney:    "Money",
	TagPercent:  "Percent",
	TagDigit:    "Digit",
	TagSecond:   "Second",
	TagProgress: "Progress",
	TagRate:     "Rate",
	TagSelect:   "Select",
	TagPassword: "Password",
	TagCode:     "Code",
	TagJSON:     "JSON",
	TagImage:    "Image",
}

// String returns the string representation of a ValueTag.
func (t ValueTag) String() string {
	if t >= 0 && int(t) < len(valueTagNames) {
		return valueTagNames[t]
	}
	return fmt.Sprintf("Unknown(%d)", int(t))
}

// ParseValueTag returns the tag whose name matches s, ignoring case.
func ParseValueTag(s string) (ValueTag, error) {
	for i, name := range valueTagNames {
		if strings.EqualFold(name, s) {
			return ValueTag(i), nil
		}
	}
	return TagText, fmt.Errorf("unknown value tag %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (t ValueTag) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ValueTag) UnmarshalText(text []byte) error {
	parsed, err := ParseValueTag(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Numeric reports whether values of this tag compare as numbers.
func (t ValueTag) Numeric() bool {
	switch t {
	case TagInt, TagFloat, TagDecimal, TagMoney, TagPercent, TagDigit,
		TagSecond, TagProgress, TagRate:
		return true
	}
	return false
}

// SortDirection specifies the direction of sorting.
type SortDirection int

const (
	// SortNone indicates no sorting.
	SortNone SortDirection = iota
	// SortAscending indicates ascending sort order.
	SortAscending
	// SortDescending indicates descending sort order.
	SortDescending
)

// String returns the string representation of a SortDirection.
func (sd SortDirection) String() string {
	switch sd {
	case SortNone:
		return "None"
	case SortAscending:
		return "Ascending"
	case SortDescending:
		return "Descending"
	default:
		return fmt.Sprintf("Unknown(%d)", sd)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (sd SortDirection) MarshalText() ([]byte, error) {
	switch sd {
	case SortAscending:
		return []byte("asc"), nil
	case SortDescending:
		return []byte("desc"), nil
	default:
		return []byte("none"), nil
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (sd *SortDirection) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "asc", "ascending":
		*sd = SortAscending
	case "desc", "descending":
		*sd = SortDescending
	case "", "none":
		*sd = SortNone
	default:
		return fmt.Errorf("unknown sort direction %q", text)
	}
	return nil
}

// next returns the direction a header click moves to:
// none -> ascending -> descending -> none.
func (sd SortDirection) next() SortDirection {
	switch sd {
	case SortNone:
		return SortAscending
	case SortAscending:
		return SortDescending
	default:
		return SortNone
	}
}

// SortKey is one entry of a sort specification.
type SortKey struct {
	ColumnID  string        `json:"column"`
	Direction SortDirection `json:"direction"`
}

// Choice labels one raw value of a select-like column.
type Choice struct {
	Label string `json:"label" toml:"label"`
	Value any    `json:"value" toml:"value"`
}

// Point is a screen position, used to anchor context menus.
type Point struct {
	X, Y float32
}
