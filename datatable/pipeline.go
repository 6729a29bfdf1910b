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
	"slices"
)

// PipelineOptions switches individual row pipeline stages on or off.
// A disabled stage passes rows through unchanged.
type PipelineOptions struct {
	Filtering  bool
	Sorting    bool
	Pagination bool
}

// AllStages enables filter, sort and paginate.
var AllStages = PipelineOptions{Filtering: true, Sorting: true, Pagination: true}

// VisibleWindow is the page of rows a view currently shows. It is derived
// from a dataset and a ViewState and never edited on its own.
type VisibleWindow struct {
	// Rows are the rows of the current page, in display order.
	Rows []Row
	// Indices are the dataset positions of Rows.
	Indices []int
	// TotalFilteredCount counts rows passing the filters, across all pages.
	TotalFilteredCount int
	// PageCount is ceil(TotalFilteredCount / PageSize).
	PageCount int
	PageIndex int
	PageSize  int
}

// Compute runs filter, sort and paginate, in that order.
func Compute(ds Dataset, s ViewState, reg *Registry) VisibleWindow {
	return ComputeWith(ds, s, reg, AllStages)
}

// ComputeWith is Compute with stages switched by opts.
func ComputeWith(ds Dataset, s ViewState, reg *Registry, opts PipelineOptions) VisibleWindow {
	if reg != nil {
		s = s.withinRegistry(reg)
	}
	indices := selectRows(ds, s, opts)
	total := len(indices)

	win := VisibleWindow{
		TotalFilteredCount: total,
		PageIndex:          s.pagination.PageIndex,
		PageSize:           s.pagination.PageSize,
	}
	if opts.Pagination && win.PageSize > 0 {
		win.PageCount = pageCount(total, win.PageSize)
		indices = pageOf(indices, win.PageIndex, win.PageSize)
	} else {
		win.PageIndex = 0
		if total > 0 {
			win.PageCount = 1
		}
	}

	win.Indices = indices
	win.Rows = make([]Row, len(indices))
	for i, idx := range indices {
		win.Rows[i] = ds.Row(idx)
	}
	return win
}

// pageCount is ceil(total / size) for size > 0.
func pageCount(total, size int) int {
	n := total / size
	if total%size != 0 {
		n++
	}
	return n
}

// pageOf returns page index of indices. Products of index and size can
// exceed int, so bounds are checked by division first.
func pageOf(indices []int, index, size int) []int {
	if index < 0 || index >= pageCount(len(indices), size) {
		return indices[:0]
	}
	start := index * size
	end := start + min(size, len(indices)-start)
	return indices[start:end]
}

// withinRegistry drops sort keys and filters naming columns reg does not know.
func (s ViewState) withinRegistry(reg *Registry) ViewState {
	clean := true
	for _, key := range s.sort {
		if !reg.Contains(key.ColumnID) {
			clean = false
		}
	}
	for id := range s.filters {
		if !reg.Contains(id) {
			clean = false
		}
	}
	if clean {
		return s
	}
	next := s.clone()
	next.sort = slices.DeleteFunc(next.sort, func(k SortKey) bool { return !reg.Contains(k.ColumnID) })
	for id := range next.filters {
		if !reg.Contains(id) {
			delete(next.filters, id)
		}
	}
	return next
}

// selectRows returns the dataset positions passing the filter stage, in
// sort order. Positions, not rows, are sorted so that the final tie-break
// is the original dataset order.
func selectRows(ds Dataset, s ViewState, opts PipelineOptions) []int {
	if ds == nil {
		return nil
	}
	n := ds.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if !opts.Filtering || passes(ds.Row(i), s.filters) {
			indices = append(indices, i)
		}
	}
	if opts.Sorting && len(s.sort) > 0 {
		sortIndices(ds, indices, s.sort)
	}
	return indices
}

func passes(row Row, filters map[string]Filter) bool {
	for id, f := range filters {
		if !f.Match(row[id], row) {
			return false
		}
	}
	return true
}

func sortIndices(ds Dataset, indices []int, keys []SortKey) {
	c := newComparator()
	slices.SortStableFunc(indices, func(a, b int) int {
		ra, rb := ds.Row(a), ds.Row(b)
		for _, key := range keys {
			r := c.compare(ra[key.ColumnID], rb[key.ColumnID])
			if key.Direction == SortDescending {
				r = -r
			}
			if r != 0 {
				return r
			}
		}
		return 0
	})
}
