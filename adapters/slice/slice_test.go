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

package sliceadapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magpierre/tableview/datatable"
)

func tags(t *testing.T, s *Source) map[string]datatable.ValueTag {
	t.Helper()
	out := map[string]datatable.ValueTag{}
	for _, col := range s.Columns() {
		out[col.ID] = col.Tag
	}
	return out
}

func TestNewFromMaps(t *testing.T) {
	src, err := NewFromMaps([]map[string]any{
		{"name": "Ann", "age": 34.0, "active": true},
		{"name": "Bob", "age": 27.5, "tags": []any{"x"}},
		{"name": nil, "extra": map[string]any{"a": 1.0}},
	})
	require.NoError(t, err)

	reg, err := src.Registry()
	require.NoError(t, err)
	assert.Equal(t, []string{"active", "age", "name", "tags", "extra"}, reg.IDs())
	assert.Equal(t, map[string]datatable.ValueTag{
		"active": datatable.TagBool,
		"age":    datatable.TagFloat,
		"name":   datatable.TagText,
		"tags":   datatable.TagList,
		"extra":  datatable.TagStruct,
	}, tags(t, src))

	assert.Equal(t, 3, src.Len())
	assert.Nil(t, src.Row(2)["age"])
}

func TestInferMixed(t *testing.T) {
	src, err := NewFromMaps([]map[string]any{
		{"n": 1.0, "v": "x"},
		{"n": 2.0, "v": 3.0},
	})
	require.NoError(t, err)
	assert.Equal(t, datatable.TagInt, tags(t, src)["n"])
	assert.Equal(t, datatable.TagText, tags(t, src)["v"])
}

func TestNewFromJSON(t *testing.T) {
	src, err := NewFromJSON([]byte(`[{"city":"Oslo","pop":709000},{"city":"Bergen","pop":291000}]`))
	require.NoError(t, err)
	assert.Equal(t, 2, src.RowCount())
	assert.Equal(t, datatable.TagInt, tags(t, src)["pop"])

	reg, err := src.Registry()
	require.NoError(t, err)
	s, err := datatable.NewViewState(reg, 10, nil)
	require.NoError(t, err)
	s, err = datatable.ToggleSort(s, reg, "pop")
	require.NoError(t, err)
	win := datatable.Compute(src, s, reg)
	assert.Equal(t, "Bergen", win.Rows[0]["city"])

	single, err := NewFromJSON([]byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, 1, single.Len())

	_, err = NewFromJSON([]byte(`[]`))
	assert.Error(t, err)
	_, err = NewFromJSON([]byte(`not json`))
	assert.Error(t, err)
}

func TestNewFromRowsRejectsDuplicates(t *testing.T) {
	col := datatable.NewColumn("a", "A", datatable.TagText)
	_, err := NewFromRows([]datatable.Column{col, col}, nil)
	assert.ErrorIs(t, err, datatable.ErrDuplicateColumnID)
}
