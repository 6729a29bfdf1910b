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
	"context"
	"fmt"
	"slices"
)

// Reorder moves fromID to the position currently held by toID. Moving right
// lands it after toID, moving left lands it before.
func Reorder(s ViewState, fromID, toID string) (ViewState, error) {
	from := slices.Index(s.order, fromID)
	if from < 0 {
		return s, fmt.Errorf("%w: %q", ErrUnknownColumn, fromID)
	}
	to := slices.Index(s.order, toID)
	if to < 0 {
		return s, fmt.Errorf("%w: %q", ErrUnknownColumn, toID)
	}
	if from == to {
		return s, nil
	}
	next := s.clone()
	next.order = moveItem(next.order, from, to)
	return next, nil
}

func moveItem(ids []string, from, to int) []string {
	id := ids[from]
	ids = slices.Delete(ids, from, from+1)
	return slices.Insert(ids, to, id)
}

// Resize sets a manual width override. Widths outside the column bounds are
// clamped, since drag deltas routinely overshoot.
func Resize(s ViewState, reg *Registry, id string, width float32) (ViewState, error) {
	col, err := reg.Column(id)
	if err != nil {
		return s, err
	}
	if !col.CanResize {
		return s, fmt.Errorf("%w: %q", ErrColumnNotResizable, id)
	}
	next := s.clone()
	next.sizing[id] = col.Clamp(width)
	delete(next.autoSized, id)
	return next, nil
}

// ResizeBy grows (or shrinks, for negative delta) the effective width of id.
func ResizeBy(s ViewState, reg *Registry, id string, delta float32) (ViewState, error) {
	col, err := reg.Column(id)
	if err != nil {
		return s, err
	}
	return Resize(s, reg, id, s.Width(col)+delta)
}

// ResetWidth drops the override of id so it returns to its default width.
func ResetWidth(s ViewState, reg *Registry, id string) (ViewState, error) {
	if _, err := reg.Column(id); err != nil {
		return s, err
	}
	next := s.clone()
	delete(next.sizing, id)
	delete(next.autoSized, id)
	return next, nil
}

// ToggleSort advances id through none -> ascending -> descending -> none.
// The result sorts by id alone: the last clicked column wins.
func ToggleSort(s ViewState, reg *Registry, id string) (ViewState, error) {
	col, err := reg.Column(id)
	if err != nil {
		return s, err
	}
	if !col.CanSort {
		return s, fmt.Errorf("%w: %q", ErrColumnNotSortable, id)
	}
	next := s.clone()
	next.sort = nil
	if dir := s.SortDirectionOf(id).next(); dir != SortNone {
		next.sort = []SortKey{{ColumnID: id, Direction: dir}}
	}
	next.pagination.PageIndex = 0
	return next, nil
}

// SetSort replaces the sort specification with keys, primary key first.
func SetSort(s ViewState, reg *Registry, keys []SortKey) (ViewState, error) {
	sorted, err := checkSort(reg, keys)
	if err != nil {
		return s, err
	}
	next := s.clone()
	next.sort = sorted
	next.pagination.PageIndex = 0
	return next, nil
}

// ClearSort removes every sort key.
func ClearSort(s ViewState) ViewState {
	next := s.clone()
	next.sort = nil
	next.pagination.PageIndex = 0
	return next
}

func checkSort(reg *Registry, keys []SortKey) ([]SortKey, error) {
	seen := make(map[string]bool, len(keys))
	out := make([]SortKey, 0, len(keys))
	for _, key := range keys {
		col, err := reg.Column(key.ColumnID)
		if err != nil {
			return nil, err
		}
		if !col.CanSort {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotSortable, key.ColumnID)
		}
		if seen[key.ColumnID] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSortColumn, key.ColumnID)
		}
		seen[key.ColumnID] = true
		if key.Direction == SortNone {
			continue
		}
		out = append(out, key)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// SetFilter installs f as the filter of column id. A nil f clears it.
// Changing filters returns the view to the first page.
func SetFilter(s ViewState, id string, f Filter) (ViewState, error) {
	if !slices.Contains(s.order, id) {
		return s, fmt.Errorf("%w: %q", ErrUnknownColumn, id)
	}
	next := s.clone()
	if f == nil {
		delete(next.filters, id)
	} else {
		next.filters[id] = f
	}
	next.pagination.PageIndex = 0
	return next, nil
}

// ClearFilter removes the filter of column id.
func ClearFilter(s ViewState, id string) (ViewState, error) {
	return SetFilter(s, id, nil)
}

// ClearFilters removes every filter.
func ClearFilters(s ViewState) ViewState {
	next := s.clone()
	next.filters = map[string]Filter{}
	next.pagination.PageIndex = 0
	return next
}

// ReplaceFilters swaps the whole filter set. Every id is checked before
// anything changes; nil filters are skipped.
func ReplaceFilters(s ViewState, filters map[string]Filter) (ViewState, error) {
	for id := range filters {
		if !slices.Contains(s.order, id) {
			return s, fmt.Errorf("%w: %q", ErrUnknownColumn, id)
		}
	}
	next := s.clone()
	next.filters = make(map[string]Filter, len(filters))
	for id, f := range filters {
		if f != nil {
			next.filters[id] = f
		}
	}
	next.pagination.PageIndex = 0
	return next, nil
}

// SetVisibility shows or hides id. Showing is always allowed; hiding a
// column that cannot be hidden fails.
func SetVisibility(s ViewState, reg *Registry, id string, visible bool) (ViewState, error) {
	col, err := reg.Column(id)
	if err != nil {
		return s, err
	}
	if !visible && !col.CanHide {
		return s, fmt.Errorf("%w: %q", ErrColumnNotHideable, id)
	}
	next := s.clone()
	next.visibility[id] = visible
	return next, nil
}

// ToggleVisibility flips the visibility of id.
func ToggleVisibility(s ViewState, reg *Registry, id string) (ViewState, error) {
	return SetVisibility(s, reg, id, !s.IsVisible(id))
}

// ShowAll makes every column visible.
func ShowAll(s ViewState, reg *Registry) ViewState {
	next := s.clone()
	next.visibility = make(map[string]bool, reg.Len())
	for _, id := range reg.IDs() {
		next.visibility[id] = true
	}
	return next
}

// ResetVisibility restores the default visibility: defaults[id] when
// present, visible otherwise.
func ResetVisibility(s ViewState, reg *Registry, defaults map[string]bool) (ViewState, error) {
	checked, err := checkVisibility(reg, defaults)
	if err != nil {
		return s, err
	}
	next := s.clone()
	next.visibility = make(map[string]bool, reg.Len())
	for _, id := range reg.IDs() {
		visible, ok := checked[id]
		next.visibility[id] = !ok || visible
	}
	return next, nil
}

// AutoFitTargets resolves which columns an auto-fit writes. With no
// explicit targets it picks every resizable column without a manual
// override; explicitly named columns are fitted even when overridden.
func AutoFitTargets(s ViewState, reg *Registry, targets []string) ([]Column, error) {
	if len(targets) == 0 {
		cols := make([]Column, 0, reg.Len())
		for _, col := range reg.Columns() {
			if col.CanResize && !s.HasManualWidth(col.ID) {
				cols = append(cols, col)
			}
		}
		return cols, nil
	}
	cols := make([]Column, 0, len(targets))
	for _, id := range targets {
		col, err := reg.Column(id)
		if err != nil {
			return nil, err
		}
		if !col.CanResize {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotResizable, id)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// MeasureColumns estimates a width for each column over the rows the view
// currently selects: filtered and sorted, but across every page. The
// pagination switch of opts is ignored.
func MeasureColumns(ctx context.Context, s ViewState, est *WidthEstimator, ds Dataset, cols []Column, opts PipelineOptions) (map[string]float32, error) {
	indices := selectRows(ds, s, opts)
	widths := make(map[string]float32, len(cols))
	samples := make([]string, len(indices))
	for _, col := range cols {
		for i, idx := range indices {
			samples[i] = DisplayText(ds.Row(idx)[col.ID])
		}
		w, err := est.EstimateContext(ctx, col.Title(), samples,
			WidthConstraints{Min: col.MinWidth, Max: col.MaxWidth})
		if err != nil {
			return nil, err
		}
		widths[col.ID] = w
	}
	return widths, nil
}

// ApplyAutoFit writes measured widths as auto-fit overrides.
func ApplyAutoFit(s ViewState, reg *Registry, widths map[string]float32) ViewState {
	next := s.clone()
	for id, w := range widths {
		col, ok := reg.Lookup(id)
		if !ok {
			continue
		}
		next.sizing[id] = col.Clamp(w)
		next.autoSized[id] = true
	}
	return next
}

// AutoFit sizes columns to their content. See AutoFitTargets for which
// columns are written.
func AutoFit(s ViewState, reg *Registry, est *WidthEstimator, ds Dataset, targets ...string) (ViewState, error) {
	return AutoFitContext(context.Background(), s, reg, est, ds, targets...)
}

// AutoFitContext is AutoFit that gives up when ctx is done, returning s
// unchanged.
func AutoFitContext(ctx context.Context, s ViewState, reg *Registry, est *WidthEstimator, ds Dataset, targets ...string) (ViewState, error) {
	if ds == nil {
		return s, ErrNoDataSource
	}
	cols, err := AutoFitTargets(s, reg, targets)
	if err != nil {
		return s, err
	}
	widths, err := MeasureColumns(ctx, s, est, ds, cols, AllStages)
	if err != nil {
		return s, err
	}
	return ApplyAutoFit(s, reg, widths), nil
}

// SetPage moves to pageIndex. Indices past the last page are allowed and
// yield an empty window; the valid range depends on filters that may have
// changed since the caller last looked.
func SetPage(s ViewState, pageIndex int) (ViewState, error) {
	if pageIndex < 0 {
		return s, fmt.Errorf("%w: %d", ErrPageOutOfRange, pageIndex)
	}
	next := s.clone()
	next.pagination.PageIndex = pageIndex
	return next, nil
}

// SetPageSize changes the page size and returns to the first page.
func SetPageSize(s ViewState, pageSize int) (ViewState, error) {
	if pageSize <= 0 {
		return s, fmt.Errorf("%w: %d", ErrInvalidPageSize, pageSize)
	}
	next := s.clone()
	next.pagination = Pagination{PageIndex: 0, PageSize: pageSize}
	return next, nil
}
