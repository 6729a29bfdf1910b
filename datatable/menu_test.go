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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actionKeys(actions []Action) []string {
	keys := make([]string, len(actions))
	for i, a := range actions {
		keys[i] = a.Key
	}
	return keys
}

func TestHeaderActions(t *testing.T) {
	pinned := NewColumn("id", "ID", TagInt)
	pinned.CanHide = false
	reg := testRegistry(t, pinned, NewColumn("name", "Name", TagText))
	s := newState(t, reg)
	s, _ = SetVisibility(s, reg, "name", false)

	actions := DefaultConfig().MenuBuilder().HeaderActions(s, reg, "name")
	assert.Equal(t, []string{
		ActionShowDefaultColumns,
		ActionShowAllColumns,
		ActionAutoFitColumns,
		ActionSeparator,
		"toggle-id",
		"toggle-name",
	}, actionKeys(actions))

	assert.True(t, actions[3].Separator)

	id := actions[4]
	assert.Equal(t, "Hide ID", id.Label)
	assert.True(t, id.Checked)
	assert.True(t, id.Disabled)

	name := actions[5]
	assert.Equal(t, "Show Name", name.Label)
	assert.False(t, name.Checked)
	assert.False(t, name.Disabled)
	assert.Equal(t, "name", name.ColumnID)
}

func TestHeaderActionsWithoutTarget(t *testing.T) {
	reg := testRegistry(t)
	actions := DefaultConfig().MenuBuilder().HeaderActions(newState(t, reg), reg, "")
	assert.Equal(t, []string{ActionShowDefaultColumns, ActionShowAllColumns, ActionAutoFitColumns}, actionKeys(actions))
}

func TestHeaderActionsGroups(t *testing.T) {
	reg := testRegistry(t)
	s := newState(t, reg)

	cfg := DefaultConfig()
	cfg.HeaderMenu.ShowDefaultColumns = false
	cfg.HeaderMenu.ShowAllColumns = false
	cfg.Features.AutoFit = false
	// No fixed group, so no separator either.
	actions := cfg.MenuBuilder().HeaderActions(s, reg, "id")
	assert.Equal(t, []string{"toggle-id", "toggle-name", "toggle-city"}, actionKeys(actions))

	cfg.Features.ContextMenu = false
	assert.Empty(t, cfg.MenuBuilder().HeaderActions(s, reg, "id"))
}

func TestRowActions(t *testing.T) {
	b := DefaultConfig().MenuBuilder()
	assert.Equal(t, []string{ActionView, ActionEdit, ActionDelete}, actionKeys(b.RowActions(Row{}, 0)))

	b.Row.Items = func(row Row, idx int) []Action {
		return []Action{{Key: "open", Label: row["name"].(string)}}
	}
	actions := b.RowActions(Row{"name": "alice"}, 3)
	require.Len(t, actions, 1)
	assert.Equal(t, "alice", actions[0].Label)

	b.Row.Enabled = false
	assert.Empty(t, b.RowActions(Row{}, 0))
}

func TestToggleActionKey(t *testing.T) {
	id, ok := ParseToggleActionKey(ToggleActionKey("name"))
	require.True(t, ok)
	assert.Equal(t, "name", id)

	_, ok = ParseToggleActionKey(ActionShowAllColumns)
	assert.False(t, ok)
}
