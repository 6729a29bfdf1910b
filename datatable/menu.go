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

import "strings"

// Built-in action keys.
const (
	ActionShowDefaultColumns = "show-default-columns"
	ActionShowAllColumns     = "show-all-columns"
	ActionAutoFitColumns     = "auto-fit-columns"
	ActionSeparator          = "divider-1"
	ActionView               = "view"
	ActionEdit               = "edit"
	ActionDelete             = "delete"

	toggleActionPrefix = "toggle-"
)

// MenuScope tells which part of the table a context menu was opened on.
type MenuScope int

const (
	// ScopeHeader is a column header.
	ScopeHeader MenuScope = iota
	// ScopeRow is a data row.
	ScopeRow
)

// String returns the string representation of a MenuScope.
func (s MenuScope) String() string {
	if s == ScopeRow {
		return "row"
	}
	return "header"
}

// Action is one entry of a context menu. Invoking it is up to the caller;
// the builder only describes it.
type Action struct {
	Key      string
	Label    string
	Icon     string
	Disabled bool
	// Separator marks a non-selectable divider.
	Separator bool
	// Checked is set on per-column entries whose column is visible.
	Checked bool
	// ColumnID names the column a per-column entry toggles.
	ColumnID string
}

// ToggleActionKey returns the key of the per-column show/hide entry.
func ToggleActionKey(columnID string) string {
	return toggleActionPrefix + columnID
}

// ParseToggleActionKey returns the column id of a per-column entry key.
func ParseToggleActionKey(key string) (string, bool) {
	if !strings.HasPrefix(key, toggleActionPrefix) {
		return "", false
	}
	return strings.TrimPrefix(key, toggleActionPrefix), true
}

// HeaderMenuConfig switches the groups of the header menu.
type HeaderMenuConfig struct {
	Enabled            bool `toml:"enabled"`
	ShowDefaultColumns bool `toml:"show_default_columns"`
	ShowAllColumns     bool `toml:"show_all_columns"`
	AutoFitColumns     bool `toml:"auto_fit_columns"`
	ColumnVisibility   bool `toml:"column_visibility"`
}

// RowActionsFunc generates the row menu for one row.
type RowActionsFunc func(row Row, rowIndex int) []Action

// RowMenuConfig configures the row menu.
type RowMenuConfig struct {
	Enabled bool `toml:"enabled"`
	// Items replaces the default row actions when set.
	Items RowActionsFunc `toml:"-"`
}

// MenuBuilder produces context menus from the current view. It performs no
// I/O and has no side effects.
type MenuBuilder struct {
	Header HeaderMenuConfig
	Row    RowMenuConfig
	// AutoFit is false when the auto-fit capability is disabled.
	AutoFit bool
}

// HeaderActions builds the header menu. The fixed group (reset visibility,
// show all, auto-fit) comes first; the per-column list follows only when a
// target column is given, separated from the fixed group when both are
// non-empty.
func (b MenuBuilder) HeaderActions(s ViewState, reg *Registry, targetColumnID string) []Action {
	if !b.Header.Enabled {
		return nil
	}
	var fixed []Action
	if b.Header.ShowDefaultColumns {
		fixed = append(fixed, Action{Key: ActionShowDefaultColumns, Label: "Show default columns", Icon: "home"})
	}
	if b.Header.ShowAllColumns {
		fixed = append(fixed, Action{Key: ActionShowAllColumns, Label: "Show all columns", Icon: "visibility"})
	}
	if b.Header.AutoFitColumns && b.AutoFit {
		fixed = append(fixed, Action{Key: ActionAutoFitColumns, Label: "Auto-fit column widths", Icon: "view-fullscreen"})
	}

	var perColumn []Action
	if b.Header.ColumnVisibility && targetColumnID != "" {
		for _, col := range reg.Columns() {
			id := col.ID
			visible := s.IsVisible(id)
			action := Action{
				Key:      ToggleActionKey(id),
				Checked:  visible,
				ColumnID: id,
			}
			if visible {
				action.Label = "Hide " + col.Title()
				action.Icon = "visibility"
				action.Disabled = !col.CanHide
			} else {
				action.Label = "Show " + col.Title()
				action.Icon = "visibility-off"
			}
			perColumn = append(perColumn, action)
		}
	}

	actions := fixed
	if len(fixed) > 0 && len(perColumn) > 0 {
		actions = append(actions, Action{Key: ActionSeparator, Separator: true, Disabled: true})
	}
	return append(actions, perColumn...)
}

// RowActions builds the row menu, delegating to the configured generator
// when present.
func (b MenuBuilder) RowActions(row Row, rowIndex int) []Action {
	if !b.Row.Enabled {
		return nil
	}
	if b.Row.Items != nil {
		return b.Row.Items(row, rowIndex)
	}
	return DefaultRowActions()
}

// DefaultRowActions is the row menu used without a caller generator.
func DefaultRowActions() []Action {
	return []Action{
		{Key: ActionView, Label: "View", Icon: "visibility"},
		{Key: ActionEdit, Label: "Edit", Icon: "document-create"},
		{Key: ActionDelete, Label: "Delete", Icon: "delete"},
	}
}
