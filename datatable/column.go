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

import (
	"fmt"
	"math"
	"unicode/utf8"
)

const (
	// DefaultMaxWidth is the width ceiling used when a column leaves MaxWidth at zero.
	DefaultMaxWidth float32 = 800

	// minHeaderWidth is the floor of the label-derived minimum width.
	minHeaderWidth float32 = 100
)

// Column describes one column of the table schema.
type Column struct {
	ID    string
	Label string
	Tag   ValueTag

	CanSort   bool
	CanResize bool
	CanHide   bool

	// MinWidth and MaxWidth bound every width the view may assign.
	// A zero MaxWidth means DefaultMaxWidth.
	MinWidth float32
	MaxWidth float32

	// Width is the initial width used until the view holds an override.
	// Zero means MinWidth.
	Width float32

	// Choices label raw values for select-like tags.
	Choices []Choice
}

// NewColumn returns a sortable, resizable, hideable column whose minimum
// width is derived from its label.
func NewColumn(id, label string, tag ValueTag) Column {
	minWidth := LabelMinWidth(label)
	return Column{
		ID:        id,
		Label:     label,
		Tag:       tag,
		CanSort:   true,
		CanResize: true,
		CanHide:   true,
		MinWidth:  minWidth,
		MaxWidth:  DefaultMaxWidth,
		Width:     minWidth,
	}
}

// LabelMinWidth is the compact header width for a label: eight pixels per
// character plus room for the drag grip and sort indicator.
func LabelMinWidth(label string) float32 {
	w := float32(utf8.RuneCountInString(label))*8 + 60
	return float32(math.Max(float64(w), float64(minHeaderWidth)))
}

// Title returns the header text, falling back to the id.
func (c Column) Title() string {
	if c.Label != "" {
		return c.Label
	}
	return c.ID
}

// Clamp bounds w to the column's width constraints.
func (c Column) Clamp(w float32) float32 {
	if math.IsNaN(float64(w)) || w < c.MinWidth {
		return c.MinWidth
	}
	if w > c.MaxWidth {
		return c.MaxWidth
	}
	return w
}

// DefaultWidth is the width shown when no override exists.
func (c Column) DefaultWidth() float32 {
	if c.Width == 0 {
		return c.MinWidth
	}
	return c.Clamp(c.Width)
}

// Registry is the immutable set of columns for one schema version.
// A schema change produces a new Registry; a live one is never edited.
type Registry struct {
	columns []Column
	index   map[string]int
}

// NewRegistry validates and registers columns in the given order.
func NewRegistry(columns ...Column) (*Registry, error) {
	r := &Registry{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, col := range columns {
		if col.ID == "" {
			return nil, fmt.Errorf("%w: column %q", ErrEmptyColumnID, col.Label)
		}
		if _, dup := r.index[col.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumnID, col.ID)
		}
		if col.MaxWidth == 0 {
			col.MaxWidth = DefaultMaxWidth
		}
		if col.MinWidth < 0 || col.MinWidth > col.MaxWidth {
			return nil, fmt.Errorf("%w: column %q min width %v exceeds max width %v",
				ErrInvalidConstraint, col.ID, col.MinWidth, col.MaxWidth)
		}
		if len(col.Choices) > 0 {
			col.Choices = append([]Choice(nil), col.Choices...)
		}
		r.index[col.ID] = len(r.columns)
		r.columns = append(r.columns, col)
	}
	return r, nil
}

// Len returns the number of registered columns.
func (r *Registry) Len() int { return len(r.columns) }

// Lookup returns the column registered under id.
func (r *Registry) Lookup(id string) (Column, bool) {
	i, ok := r.index[id]
	if !ok {
		return Column{}, false
	}
	return r.columns[i], true
}

// Column is Lookup returning ErrUnknownColumn for unregistered ids.
func (r *Registry) Column(id string) (Column, error) {
	col, ok := r.Lookup(id)
	if !ok {
		return Column{}, fmt.Errorf("%w: %q", ErrUnknownColumn, id)
	}
	return col, nil
}

// Contains reports whether id is registered.
func (r *Registry) Contains(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Columns returns the columns in registration order.
func (r *Registry) Columns() []Column {
	return append([]Column(nil), r.columns...)
}

// IDs returns the column ids in registration order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.columns))
	for i, col := range r.columns {
		ids[i] = col.ID
	}
	return ids
}
