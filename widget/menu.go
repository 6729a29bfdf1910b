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

package widget

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/magpierre/tableview/datatable"
)

// menuIcons maps action icon names to theme resources.
var menuIcons = map[string]func() fyne.Resource{
	"home":            theme.HomeIcon,
	"visibility":      theme.VisibilityIcon,
	"visibility-off":  theme.VisibilityOffIcon,
	"view-fullscreen": theme.ViewFullScreenIcon,
	"document-create": theme.DocumentCreateIcon,
	"delete":          theme.DeleteIcon,
}

// menuItems turns actions into fyne menu items. Choosing an item sends
// MenuActionChosen to the model.
func (dt *DataTable) menuItems(actions []datatable.Action) []*fyne.MenuItem {
	items := make([]*fyne.MenuItem, 0, len(actions))
	for _, a := range actions {
		if a.Separator {
			items = append(items, fyne.NewMenuItemSeparator())
			continue
		}
		key := a.Key
		item := fyne.NewMenuItem(a.Label, func() {
			dt.popup = nil
			dt.dispatch(datatable.MenuActionChosen{ActionKey: key})
		})
		item.Disabled = a.Disabled
		item.Checked = a.Checked
		if icon, ok := menuIcons[a.Icon]; ok {
			item.Icon = icon()
		}
		items = append(items, item)
	}
	return items
}

func (dt *DataTable) showMenu(e datatable.MenuOpened) {
	dt.hideMenu()
	c := fyne.CurrentApp().Driver().CanvasForObject(dt)
	if c == nil {
		return
	}
	menu := fyne.NewMenu("", dt.menuItems(e.Actions)...)
	pop := widget.NewPopUpMenu(menu, c)
	dismiss := pop.OnDismiss
	pop.OnDismiss = func() {
		if dismiss != nil {
			dismiss()
		}
		// The popup is dismissed before an item action runs; report the
		// dismissal only if no action claimed the menu.
		go fyne.Do(func() {
			if dt.popup == pop {
				dt.popup = nil
				dt.dispatch(datatable.MenuDismissed{})
			}
		})
	}
	dt.popup = pop
	pop.ShowAtPosition(fyne.NewPos(e.ScreenPoint.X, e.ScreenPoint.Y))
}

func (dt *DataTable) hideMenu() {
	if pop := dt.popup; pop != nil {
		dt.popup = nil
		pop.Hide()
	}
}
