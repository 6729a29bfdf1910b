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
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewViewState(t *testing.T) {
	reg := testRegistry(t)
	s := newState(t, reg)
	assert.Equal(t, reg.IDs(), s.Order())
	assert.Empty(t, s.Sizing())
	assert.Empty(t, s.Visibility())
	assert.Empty(t, s.Sort())
	assert.Empty(t, s.Filters())
	assert.Equal(t, Pagination{PageIndex: 0, PageSize: DefaultPageSize}, s.Pagination())

	_, err := NewViewState(reg, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidPageSize)
	_, err = NewViewState(reg, 10, map[string]bool{"missing": true})
	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestNewViewStateRejectsHiddenPinnedColumn(t *testing.T) {
	pinned := NewColumn("pinned", "Pinned", TagText)
	pinned.CanHide = false
	reg := testRegistry(t, pinned)
	_, err := NewViewState(reg, 10, map[string]bool{"pinned": false})
	assert.ErrorIs(t, err, ErrColumnNotHideable)
}

func TestAccessorsReturnCopies(t *testing.T) {
	reg := testRegistry(t)
	s := newState(t, reg)
	s, _ = Resize(s, reg, "name", 200)

	order := s.Order()
	order[0] = "changed"
	sizing := s.Sizing()
	sizing["name"] = 1

	assert.Equal(t, "id", s.Order()[0])
	w, _ := s.Override("name")
	assert.Equal(t, float32(200), w)
}

func TestRebase(t *testing.T) {
	reg := testRegistry(t)
	s := newState(t, reg)
	s, _ = Reorder(s, "city", "id")
	s, _ = Resize(s, reg, "name", 700)
	s, _ = Resize(s, reg, "city", 300)
	s, _ = SetVisibility(s, reg, "city", false)
	s, _ = ToggleSort(s, reg, "name")
	s, _ = SetFilter(s, "city", notEqual("x"))
	s, _ = SetPage(s, 2)

	narrow := NewColumn("name", "Name", TagText)
	narrow.MaxWidth = 400
	next := testRegistry(t, narrow, NewColumn("country", "Country", TagText), NewColumn("id", "ID", TagInt))

	rebased := s.Rebase(next)
	assert.Equal(t, []string{"name", "country", "id"}, rebased.Order())
	assert.Equal(t, map[string]float32{"name": 400}, rebased.Sizing())
	assert.Empty(t, rebased.Visibility())
	assert.Equal(t, []SortKey{{ColumnID: "name", Direction: SortAscending}}, rebased.Sort())
	assert.Empty(t, rebased.Filters())
	assert.Equal(t, 0, rebased.Pagination().PageIndex)
	assert.Equal(t, DefaultPageSize, rebased.Pagination().PageSize)
}

func TestSnapshotRoundTrip(t *testing.T) {
	reg := testRegistry(t)
	s := newState(t, reg)
	s, _ = Reorder(s, "city", "id")
	s, _ = Resize(s, reg, "name", 250)
	s, _ = SetVisibility(s, reg, "id", false)
	s, _ = ToggleSort(s, reg, "city")
	s, _ = SetPageSize(s, 25)

	data, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"direction":"asc"`)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	restored, err := RestoreSnapshot(reg, snap)
	require.NoError(t, err)

	assert.Equal(t, s.Order(), restored.Order())
	assert.Equal(t, s.Sizing(), restored.Sizing())
	assert.Equal(t, s.Visibility(), restored.Visibility())
	assert.Equal(t, s.Sort(), restored.Sort())
	assert.Equal(t, s.Pagination(), restored.Pagination())
}

func TestSnapshotKeepsAutoFitWidths(t *testing.T) {
	reg := testRegistry(t)
	s := newState(t, reg)
	s, _ = Resize(s, reg, "name", 250)
	s = ApplyAutoFit(s, reg, map[string]float32{"city": 180})

	snap := s.Snapshot()
	assert.Equal(t, []string{"city"}, snap.AutoSized)

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))
	restored, err := RestoreSnapshot(reg, decoded)
	require.NoError(t, err)

	assert.True(t, restored.HasManualWidth("name"))
	assert.False(t, restored.HasManualWidth("city"))
	w, ok := restored.Override("city")
	require.True(t, ok)
	assert.Equal(t, s.Sizing()["city"], w)

	// An auto-sized id without a width is ignored.
	restored, err = RestoreSnapshot(reg, Snapshot{AutoSized: []string{"id"}, Pagination: Pagination{PageSize: 5}})
	require.NoError(t, err)
	assert.False(t, restored.HasManualWidth("id"))
	assert.Empty(t, restored.Sizing())
}

func TestRestoreSnapshotValidates(t *testing.T) {
	reg := testRegistry(t)

	restored, err := RestoreSnapshot(reg, Snapshot{Order: []string{"city"}, Pagination: Pagination{PageSize: 5}})
	require.NoError(t, err)
	assert.Equal(t, []string{"city", "id", "name"}, restored.Order())

	_, err = RestoreSnapshot(reg, Snapshot{Order: []string{"nope"}, Pagination: Pagination{PageSize: 5}})
	assert.ErrorIs(t, err, ErrUnknownColumn)
	_, err = RestoreSnapshot(reg, Snapshot{Order: []string{"id", "id"}, Pagination: Pagination{PageSize: 5}})
	assert.ErrorIs(t, err, ErrDuplicateColumnID)
	_, err = RestoreSnapshot(reg, Snapshot{Pagination: Pagination{PageSize: 0}})
	assert.ErrorIs(t, err, ErrInvalidPageSize)
	_, err = RestoreSnapshot(reg, Snapshot{Pagination: Pagination{PageIndex: -1, PageSize: 5}})
	assert.ErrorIs(t, err, ErrPageOutOfRange)
}
