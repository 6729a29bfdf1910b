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
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState(t *testing.T, reg *Registry) ViewState {
	t.Helper()
	s, err := NewViewState(reg, DefaultPageSize, nil)
	require.NoError(t, err)
	return s
}

func TestReorder(t *testing.T) {
	reg := testRegistry(t)
	s := newState(t, reg)

	// Moving right lands after the target.
	next, err := Reorder(s, "id", "name")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "id", "city"}, next.Order())

	// Moving left lands before it.
	next, err = Reorder(s, "city", "id")
	require.NoError(t, err)
	assert.Equal(t, []string{"city", "id", "name"}, next.Order())

	// The argument is untouched.
	assert.Equal(t, []string{"id", "name", "city"}, s.Order())
}

func TestReorderSameIDIsNoop(t *testing.T) {
	reg := testRegistry(t)
	s := newState(t, reg)
	next, err := Reorder(s, "name", "name")
	require.NoError(t, err)
	assert.Equal(t, s.Order(), next.Order())
}

func TestReorderUnknownColumn(t *testing.T) {
	reg := testRegistry(t)
	s := newState(t, reg)
	_, err := Reorder(s, "missing", "id")
	assert.ErrorIs(t, err, ErrUnknownColumn)
	_, err = Reorder(s, "id", "missing")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestReorderKeepsPermutation(t *testing.T) {
	cols := make([]Column, 0, 8)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		cols = append(cols, NewColumn(id, id, TagText))
	}
	reg := testRegistry(t, cols...)
	s := newState(t, reg)
	ids := reg.IDs()

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		from := ids[rng.Intn(len(ids))]
		to := ids[rng.Intn(len(ids))]
		next, err := Reorder(s, from, to)
		require.NoError(t, err)
		s = next

		order := s.Order()
		require.Len(t, order, len(ids))
		slices.Sort(order)
		require.Equal(t, ids, order)
	}
}

func TestResizeClamps(t *testing.T) {
	reg := testRegistry(t, Column{ID: "a", CanResize: true, MinWidth: 50, MaxWidth: 300})
	s := newState(t, reg)

	for _, w := range []float32{-100, 0, 49, 50, 120, 300, 301, 1e9} {
		next, err := Resize(s, reg, "a", w)
		require.NoError(t, err)
		got, ok := next.Override("a")
		require.True(t, ok)
		assert.GreaterOrEqual(t, got, float32(50))
		assert.LessOrEqual(t, got, float32(300))
		assert.True(t, next.HasManualWidth("a"))
	}
}

func TestResizeErrors(t *testing.T) {
	reg := testRegistry(t,
		Column{ID: "fixed", MinWidth: 50, MaxWidth: 300},
		NewColumn("a", "A", TagText),
	)
	s := newState(t, reg)

	_, err := Resize(s, reg, "fixed", 100)
	assert.ErrorIs(t, err, ErrColumnNotResizable)
	_, err = Resize(s, reg, "missing", 100)
	assert.ErrorIs(t, err, ErrUnknownColumn)
	assert.Empty(t, s.Sizing())
}

func TestResizeByAndReset(t *testing.T) {
	reg := testRegistry(t)
	s := newState(t, reg)
	col, _ := reg.Lookup("name")

	next, err := ResizeBy(s, reg, "name", 40)
	require.NoError(t, err)
	assert.Equal(t, col.DefaultWidth()+40, next.Width(col))

	next, err = ResetWidth(next, reg, "name")
	require.NoError(t, err)
	_, ok := next.Override("name")
	assert.False(t, ok)
	assert.Equal(t, col.DefaultWidth(), next.Width(col))
}

func TestToggleSortCycle(t *testing.T) {
	reg := testRegistry(t)
	s := newState(t, reg)
	require.Empty(t, s.Sort())

	want := []SortDirection{SortAscending, SortDescending, SortNone}
	for _, dir := range want {
		next, err := ToggleSort(s, reg, "name")
		require.NoError(t, err)
		s = next
		assert.Equal(t, dir, s.SortDirectionOf("name"))
	}
	assert.Empty(t, s.Sort())
}

func TestToggleSortLastClickedWins(t *testing.T) {
	reg := testRegistry(t)
	s := newState(t, reg)
	s, err := ToggleSort(s, reg, "name")
	require.NoError(t, err)
	s, err = ToggleSort(s, reg, "city")
	require.NoError(t, err)
	assert.Equal(t, []SortKey{{ColumnID: "city", Direction: SortAscending}}, s.Sort())
}

func TestToggleSortErrors(t *testing.T) {
	fixed := NewColumn("fixed", "Fixed", TagText)
	fixed.CanSort = false
	reg := testRegistry(t, fixed)
	s := newState(t, reg)

	_, err := ToggleSort(s, reg, "fixed")
	assert.ErrorIs(t, err, ErrColumnNotSortable)
	_, err = ToggleSort(s, reg, "missing")
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestSetSort(t *testing.T) {
	reg := testRegistry(t)
	s := newState(t, reg)

	next, err := SetSort(s, reg, []SortKey{
		{ColumnID: "city", Direction: SortAscending},
		{ColumnID: "name", Direction: SortNone},
		{ColumnID: "id", Direction: SortDescending},
	})
	require.NoError(t, err)
	assert.Equal(t, []SortKey{
		{ColumnID: "city", Direction: SortAscending},
		{ColumnID: "id", Direction: SortDescending},
	}, next.Sort())

	_, err = SetSort(s, reg, []SortKey{
		{ColumnID: "city", Direction: SortAscending},
		{ColumnID: "city", Direction: SortDescending},
	})
	assert.ErrorIs(t, err, ErrDuplicateSortColumn)

	assert.Empty(t, ClearSort(next).Sort())
}

func TestSortAndFilterResetPage(t *testing.T) {
	reg := testRegistry(t)
	s := newState(t, reg)
	s, err := SetPage(s, 3)
	require.NoError(t, err)

	sorted, err := ToggleSort(s, reg, "name")
	require.NoError(t, err)
	assert.Equal(t, 0, sorted.Pagination().PageIndex)

	filtered, err := SetFilter(s, "name", notEqual("x"))
	require.NoError(t, err)
	assert.Equal(t, 0, filtered.Pagination().PageIndex)
}

func TestSetFilter(t *testing.T) {
	reg := testRegistry(t)
	s := newState(t, reg)

	next, err := SetFilter(s, "name", notEqual("x"))
	require.NoError(t, err)
	f, ok := next.Filter("name")
	require.True(t, ok)
	assert.Equal(t, `!= "x"`, f.Description())

	cleared, err := ClearFilter(next, "name")
	require.NoError(t, err)
	assert.Empty(t, cleared.Filters())

	_, err = SetFilter(s, "missing", notEqual("x"))
	assert.ErrorIs(t, err, ErrUnknownColumn)

	next, _ = SetFilter(next, "city", notEqual("y"))
	assert.Empty(t, ClearFilters(next).Filters())
}

func TestReplaceFilters(t *testing.T) {
	reg := testRegistry(t)
	s := newState(t, reg)
	s, _ = SetFilter(s, "name", notEqual("x"))
	s, _ = SetPage(s, 3)

	_, err := ReplaceFilters(s, map[string]Filter{"city": notEqual("y"), "missing": notEqual("z")})
	assert.ErrorIs(t, err, ErrUnknownColumn)
	assert.Len(t, s.Filters(), 1)

	next, err := ReplaceFilters(s, map[string]Filter{"city": notEqual("y"), "id": nil})
	require.NoError(t, err)
	assert.Len(t, next.Filters(), 1)
	_, ok := next.Filter("name")
	assert.False(t, ok)
	_, ok = next.Filter("city")
	assert.True(t, ok)
	assert.Equal(t, 0, next.Pagination().PageIndex)

	cleared, err := ReplaceFilters(next, nil)
	require.NoError(t, err)
	assert.Empty(t, cleared.Filters())
}

func TestSetVisibility(t *testing.T) {
	pinned := NewColumn("pinned", "Pinned", TagText)
	pinned.CanHide = false
	reg := testRegistry(t, pinned, NewColumn("a", "A", TagText))
	s := newState(t, reg)

	next, err := SetVisibility(s, reg, "a", false)
	require.NoError(t, err)
	assert.False(t, next.IsVisible("a"))
	assert.Len(t, next.VisibleColumns(reg), 1)

	next, err = ToggleVisibility(next, reg, "a")
	require.NoError(t, err)
	assert.True(t, next.IsVisible("a"))

	// Showing a pinned column is allowed, hiding it is not.
	_, err = SetVisibility(s, reg, "pinned", true)
	require.NoError(t, err)
	before := s.Visibility()
	_, err = SetVisibility(s, reg, "pinned", false)
	assert.ErrorIs(t, err, ErrColumnNotHideable)
	assert.Equal(t, before, s.Visibility())
}

func TestShowAllAndResetVisibility(t *testing.T) {
	reg := testRegistry(t)
	s, err := NewViewState(reg, DefaultPageSize, map[string]bool{"city": false})
	require.NoError(t, err)
	require.False(t, s.IsVisible("city"))

	all := ShowAll(s, reg)
	assert.Equal(t, map[string]bool{"id": true, "name": true, "city": true}, all.Visibility())

	reset, err := ResetVisibility(all, reg, map[string]bool{"city": false})
	require.NoError(t, err)
	assert.False(t, reset.IsVisible("city"))
	assert.True(t, reset.IsVisible("name"))

	_, err = ResetVisibility(all, reg, map[string]bool{"missing": false})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestAutoFitSkipsManualOverrides(t *testing.T) {
	reg := testRegistry(t)
	ds := Rows{
		{"id": 1, "name": "a rather long name indeed", "city": "Oslo"},
		{"id": 2, "name": "short", "city": "a city with a long name"},
	}
	s := newState(t, reg)
	s, err := Resize(s, reg, "name", 150)
	require.NoError(t, err)

	fitted, err := AutoFit(s, reg, NewWidthEstimator(nil), ds)
	require.NoError(t, err)

	w, _ := fitted.Override("name")
	assert.Equal(t, float32(150), w)
	assert.True(t, fitted.HasManualWidth("name"))

	w, ok := fitted.Override("city")
	require.True(t, ok)
	assert.Equal(t, float32(23*8+48), w)
	assert.False(t, fitted.HasManualWidth("city"))

	// Naming the column overrides the manual width.
	fitted, err = AutoFit(s, reg, NewWidthEstimator(nil), ds, "name")
	require.NoError(t, err)
	w, _ = fitted.Override("name")
	assert.Equal(t, float32(25*8+48), w)
	_, ok = fitted.Override("city")
	assert.False(t, ok)
}

func TestAutoFitAgainReplacesAutoWidths(t *testing.T) {
	reg := testRegistry(t)
	s := newState(t, reg)
	est := NewWidthEstimator(nil)

	s, err := AutoFit(s, reg, est, Rows{{"name": "a rather long name indeed"}})
	require.NoError(t, err)
	s, err = AutoFit(s, reg, est, Rows{{"name": "tiny"}})
	require.NoError(t, err)
	// The header is now the widest text.
	w, _ := s.Override("name")
	assert.Equal(t, float32(4*8+88), w)
}

func TestAutoFitMeasuresAllFilteredRows(t *testing.T) {
	reg := testRegistry(t)
	ds := make(Rows, 0, 30)
	for i := 0; i < 30; i++ {
		ds = append(ds, Row{"id": i, "name": "x"})
	}
	// Beyond the first page, and filtered out afterwards.
	ds[25]["name"] = "a long name on the third page"
	ds[26]["name"] = "an even longer name that is filtered away"

	s := newState(t, reg)
	s, err := SetFilter(s, "name", notEqual("an even longer name that is filtered away"))
	require.NoError(t, err)

	fitted, err := AutoFit(s, reg, NewWidthEstimator(nil), ds, "name")
	require.NoError(t, err)
	w, _ := fitted.Override("name")
	assert.Equal(t, float32(29*8+48), w)
}

func TestAutoFitErrors(t *testing.T) {
	fixed := Column{ID: "fixed", MinWidth: 50, MaxWidth: 300}
	reg := testRegistry(t, fixed, NewColumn("a", "A", TagText))
	s := newState(t, reg)

	_, err := AutoFit(s, reg, NewWidthEstimator(nil), nil)
	assert.ErrorIs(t, err, ErrNoDataSource)
	_, err = AutoFit(s, reg, NewWidthEstimator(nil), Rows{}, "fixed")
	assert.ErrorIs(t, err, ErrColumnNotResizable)
	_, err = AutoFit(s, reg, NewWidthEstimator(nil), Rows{}, "missing")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	cols, err := AutoFitTargets(s, reg, nil)
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "a", cols[0].ID)
}

func TestAutoFitContextCancelledLeavesState(t *testing.T) {
	reg := testRegistry(t)
	s := newState(t, reg)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	next, err := AutoFitContext(ctx, s, reg, NewWidthEstimator(nil), Rows{{"name": "x"}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, next.Sizing())
}

func TestSetPage(t *testing.T) {
	s := newState(t, testRegistry(t))
	_, err := SetPage(s, -1)
	assert.ErrorIs(t, err, ErrPageOutOfRange)

	next, err := SetPage(s, 99)
	require.NoError(t, err)
	assert.Equal(t, 99, next.Pagination().PageIndex)
}

func TestSetPageSize(t *testing.T) {
	s := newState(t, testRegistry(t))
	s, _ = SetPage(s, 4)

	_, err := SetPageSize(s, 0)
	assert.ErrorIs(t, err, ErrInvalidPageSize)

	next, err := SetPageSize(s, 25)
	require.NoError(t, err)
	assert.Equal(t, Pagination{PageIndex: 0, PageSize: 25}, next.Pagination())
}

func notEqual(v string) Filter {
	return FilterFunc{
		Desc: `!= "` + v + `"`,
		Fn:   func(value any) bool { return value != v },
	}
}
