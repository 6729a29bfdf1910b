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
	"maps"
	"slices"
)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 10

// Pagination is the page cursor of a view.
type Pagination struct {
	PageIndex int `json:"pageIndex"`
	PageSize  int `json:"pageSize"`
}

// ViewState is the mutable part of a table view: column order, width
// overrides, visibility, sort, filters and the page cursor.
//
// A ViewState is a value. Mutators in this package return a new state and
// never modify their argument, so a failed mutation leaves the caller's
// state untouched.
type ViewState struct {
	order      []string
	sizing     map[string]float32
	autoSized  map[string]bool
	visibility map[string]bool
	sort       []SortKey
	filters    map[string]Filter
	pagination Pagination
}

// NewViewState returns the default state for reg: registration order, no
// overrides, no sort or filters, first page. defaults seeds the visibility
// map; every key must be registered and only hideable columns may default
// to hidden.
func NewViewState(reg *Registry, pageSize int, defaults map[string]bool) (ViewState, error) {
	if pageSize <= 0 {
		return ViewState{}, fmt.Errorf("%w: %d", ErrInvalidPageSize, pageSize)
	}
	visibility, err := checkVisibility(reg, defaults)
	if err != nil {
		return ViewState{}, err
	}
	return ViewState{
		order:      reg.IDs(),
		sizing:     map[string]float32{},
		autoSized:  map[string]bool{},
		visibility: visibility,
		filters:    map[string]Filter{},
		pagination: Pagination{PageSize: pageSize},
	}, nil
}

func checkVisibility(reg *Registry, m map[string]bool) (map[string]bool, error) {
	out := make(map[string]bool, len(m))
	for id, visible := range m {
		col, err := reg.Column(id)
		if err != nil {
			return nil, err
		}
		if !visible && !col.CanHide {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotHideable, id)
		}
		out[id] = visible
	}
	return out, nil
}

func (s ViewState) clone() ViewState {
	return ViewState{
		order:      slices.Clone(s.order),
		sizing:     cloneMap(s.sizing),
		autoSized:  cloneMap(s.autoSized),
		visibility: cloneMap(s.visibility),
		sort:       slices.Clone(s.sort),
		filters:    cloneMap(s.filters),
		pagination: s.pagination,
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	maps.Copy(out, m)
	return out
}

// Order returns the column ids in display order.
func (s ViewState) Order() []string { return slices.Clone(s.order) }

// Sizing returns the explicit width overrides.
func (s ViewState) Sizing() map[string]float32 { return cloneMap(s.sizing) }

// Override returns the width override of id, if any.
func (s ViewState) Override(id string) (float32, bool) {
	w, ok := s.sizing[id]
	return w, ok
}

// HasManualWidth reports whether id's width was set by a resize rather
// than by auto-fit.
func (s ViewState) HasManualWidth(id string) bool {
	_, ok := s.sizing[id]
	return ok && !s.autoSized[id]
}

// Width returns the effective width of a column: its override or its default.
func (s ViewState) Width(col Column) float32 {
	if w, ok := s.sizing[col.ID]; ok {
		return w
	}
	return col.DefaultWidth()
}

// Visibility returns the explicit visibility entries.
func (s ViewState) Visibility() map[string]bool { return cloneMap(s.visibility) }

// IsVisible reports whether id is shown. Absent entries are visible.
func (s ViewState) IsVisible(id string) bool {
	visible, ok := s.visibility[id]
	return !ok || visible
}

// Sort returns the sort specification, primary key first.
func (s ViewState) Sort() []SortKey { return slices.Clone(s.sort) }

// SortDirectionOf returns the direction id is sorted in, or SortNone.
func (s ViewState) SortDirectionOf(id string) SortDirection {
	for _, key := range s.sort {
		if key.ColumnID == id {
			return key.Direction
		}
	}
	return SortNone
}

// Filters returns the active filters by column id.
func (s ViewState) Filters() map[string]Filter { return cloneMap(s.filters) }

// Filter returns the filter on id, if any.
func (s ViewState) Filter(id string) (Filter, bool) {
	f, ok := s.filters[id]
	return f, ok
}

// Pagination returns the page cursor.
func (s ViewState) Pagination() Pagination { return s.pagination }

// VisibleColumns returns the shown columns in display order.
func (s ViewState) VisibleColumns(reg *Registry) []Column {
	cols := make([]Column, 0, len(s.order))
	for _, id := range s.order {
		col, ok := reg.Lookup(id)
		if ok && s.IsVisible(id) {
			cols = append(cols, col)
		}
	}
	return cols
}

// Rebase carries the state over to a new schema. Order is reset to the new
// registration order; sizing, visibility, sort keys and filters are kept for
// ids that still exist, keyed by id rather than position. Widths are
// re-clamped to the new constraints and the page index returns to 0.
func (s ViewState) Rebase(reg *Registry) ViewState {
	next := ViewState{
		order:      reg.IDs(),
		sizing:     map[string]float32{},
		autoSized:  map[string]bool{},
		visibility: map[string]bool{},
		filters:    map[string]Filter{},
		pagination: Pagination{PageSize: s.pagination.PageSize},
	}
	if next.pagination.PageSize <= 0 {
		next.pagination.PageSize = DefaultPageSize
	}
	for id, w := range s.sizing {
		col, ok := reg.Lookup(id)
		if !ok {
			continue
		}
		next.sizing[id] = col.Clamp(w)
		if s.autoSized[id] {
			next.autoSized[id] = true
		}
	}
	for id, visible := range s.visibility {
		col, ok := reg.Lookup(id)
		if !ok || (!visible && !col.CanHide) {
			continue
		}
		next.visibility[id] = visible
	}
	for _, key := range s.sort {
		if col, ok := reg.Lookup(key.ColumnID); ok && col.CanSort {
			next.sort = append(next.sort, key)
		}
	}
	for id, f := range s.filters {
		if reg.Contains(id) {
			next.filters[id] = f
		}
	}
	return next
}

// Snapshot is the serializable layout of a view, for collaborators that
// save and restore layouts. Filters are not part of it. AutoSized names
// the Sizing entries written by auto-fit rather than a resize.
type Snapshot struct {
	Order      []string           `json:"order"`
	Sizing     map[string]float32 `json:"sizing,omitempty"`
	AutoSized  []string           `json:"auto_sized,omitempty"`
	Visibility map[string]bool    `json:"visibility,omitempty"`
	Sort       []SortKey          `json:"sort,omitempty"`
	Pagination Pagination         `json:"pagination"`
}

// Snapshot captures the layout of s.
func (s ViewState) Snapshot() Snapshot {
	return Snapshot{
		Order:      s.Order(),
		Sizing:     s.Sizing(),
		AutoSized:  s.autoSizedIDs(),
		Visibility: s.Visibility(),
		Sort:       s.Sort(),
		Pagination: s.pagination,
	}
}

func (s ViewState) autoSizedIDs() []string {
	var ids []string
	for _, id := range s.order {
		if _, ok := s.sizing[id]; ok && s.autoSized[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// RestoreSnapshot rebuilds a state from snap, validating it against reg.
// Ids missing from snap.Order are appended in registration order; unknown
// ids are rejected.
func RestoreSnapshot(reg *Registry, snap Snapshot) (ViewState, error) {
	s, err := NewViewState(reg, snap.Pagination.PageSize, snap.Visibility)
	if err != nil {
		return ViewState{}, err
	}
	if snap.Pagination.PageIndex < 0 {
		return ViewState{}, fmt.Errorf("%w: %d", ErrPageOutOfRange, snap.Pagination.PageIndex)
	}
	s.pagination.PageIndex = snap.Pagination.PageIndex

	seen := make(map[string]bool, reg.Len())
	order := make([]string, 0, reg.Len())
	for _, id := range snap.Order {
		if !reg.Contains(id) {
			return ViewState{}, fmt.Errorf("%w: %q", ErrUnknownColumn, id)
		}
		if seen[id] {
			return ViewState{}, fmt.Errorf("%w: %q", ErrDuplicateColumnID, id)
		}
		seen[id] = true
		order = append(order, id)
	}
	for _, id := range reg.IDs() {
		if !seen[id] {
			order = append(order, id)
		}
	}
	s.order = order

	for id, w := range snap.Sizing {
		col, err := reg.Column(id)
		if err != nil {
			return ViewState{}, err
		}
		s.sizing[id] = col.Clamp(w)
	}
	for _, id := range snap.AutoSized {
		if _, ok := s.sizing[id]; ok {
			s.autoSized[id] = true
		}
	}
	sorted, err := checkSort(reg, snap.Sort)
	if err != nil {
		return ViewState{}, err
	}
	s.sort = sorted
	return s, nil
}
