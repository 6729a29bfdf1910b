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

// Package widget shows a datatable.TableModel as a fyne widget. The model
// owns every piece of view state; the widget renders it and turns pointer,
// keyboard and menu input into gestures.
package widget

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/magpierre/tableview/datatable"
	"github.com/magpierre/tableview/internal/filter"
	"github.com/magpierre/tableview/internal/format"
)

// DataTable is a paginated, sortable, filterable table widget.
type DataTable struct {
	widget.BaseWidget

	model  *datatable.TableModel
	config Config
	format *format.Formatter

	view    datatable.View
	columns []datatable.Column
	cells   [][]format.Cell

	parser    *filter.Parser
	parserReg *datatable.Registry

	table     *widget.Table
	filterBar *widget.Entry
	status    *widget.Label
	paginator *paginator
	content   fyne.CanvasObject

	selected int
	message  string
	popup    *widget.PopUpMenu
	window   fyne.Window

	onCellSelected func(row, col int)
	onAction       func(datatable.ActionInvoked)
	unsubscribe    func()
}

// NewDataTable creates a table over model with DefaultConfig.
func NewDataTable(model *datatable.TableModel) *DataTable {
	return NewDataTableWithConfig(model, DefaultConfig())
}

// NewDataTableWithConfig creates a table over model.
func NewDataTableWithConfig(model *datatable.TableModel, config Config) *DataTable {
	dt := &DataTable{
		model:    model,
		config:   config,
		format:   format.New(config.Language),
		selected: -1,
	}
	dt.ExtendBaseWidget(dt)
	dt.build()
	dt.unsubscribe = model.Subscribe(dt.notify)
	dt.sync()
	return dt
}

func (dt *DataTable) build() {
	dt.table = widget.NewTable(dt.size, dt.createCell, dt.updateCell)
	dt.table.ShowHeaderRow = true
	dt.table.CreateHeader = dt.createHeader
	dt.table.UpdateHeader = dt.updateHeader

	dt.filterBar = widget.NewEntry()
	dt.filterBar.SetPlaceHolder("Filter: name = Oslo AND pop >= 100000, or go: num(row[\"pop\"]) > 1e5")
	dt.filterBar.OnSubmitted = func(text string) {
		if err := dt.applyQuery(text); err != nil {
			dt.setMessage(err.Error())
		}
	}
	clearButton := widget.NewButton("Clear", func() {
		dt.filterBar.SetText("")
		if err := dt.applyQuery(""); err != nil {
			dt.setMessage(err.Error())
		}
	})

	dt.status = widget.NewLabel("")
	dt.status.Truncation = fyne.TextTruncateEllipsis
	dt.paginator = newPaginator(dt)

	var top, bottom fyne.CanvasObject
	if dt.config.ShowFilterBar && dt.model.Config().Features.Filtering {
		top = container.NewBorder(nil, nil, nil, clearButton, dt.filterBar)
	}
	var bars []fyne.CanvasObject
	if dt.config.ShowPaginator && dt.model.Config().Features.Pagination {
		bars = append(bars, dt.paginator.content)
	}
	if dt.config.ShowStatusBar {
		bars = append(bars, dt.status)
	}
	if len(bars) > 0 {
		bottom = container.NewVBox(bars...)
	}
	dt.content = container.NewBorder(top, bottom, nil, nil, dt.table)
}

// CreateRenderer implements fyne.Widget.
func (dt *DataTable) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(dt.content)
}

// Model returns the model the table shows.
func (dt *DataTable) Model() *datatable.TableModel { return dt.model }

// OnCellSelected sets the callback for a tapped cell. row is the position
// in the current page.
func (dt *DataTable) OnCellSelected(fn func(row, col int)) {
	dt.onCellSelected = fn
}

// OnAction sets the callback for menu entries the model does not handle
// itself, such as the row actions.
func (dt *DataTable) OnAction(fn func(datatable.ActionInvoked)) {
	dt.onAction = fn
}

// SetWindow attaches the table to a window for keyboard shortcuts and the
// clipboard.
func (dt *DataTable) SetWindow(w fyne.Window) {
	dt.window = w
	w.Canvas().AddShortcut(&fyne.ShortcutCopy{}, func(fyne.Shortcut) {
		if text := dt.SelectedText(); text != "" {
			w.Clipboard().SetContent(text)
			dt.setMessage("Copied row to clipboard")
		}
	})
}

// Release detaches the table from its model.
func (dt *DataTable) Release() {
	if dt.unsubscribe != nil {
		dt.unsubscribe()
		dt.unsubscribe = nil
	}
	dt.hideMenu()
}

// SelectedRow returns the selected row of the current page and its dataset
// position, or false when nothing is selected.
func (dt *DataTable) SelectedRow() (datatable.Row, int, bool) {
	win := dt.view.Window
	if dt.selected < 0 || dt.selected >= len(win.Rows) {
		return nil, 0, false
	}
	return win.Rows[dt.selected], win.Indices[dt.selected], true
}

// SelectedText returns the visible cells of the selected row, tab separated.
func (dt *DataTable) SelectedText() string {
	if dt.selected < 0 || dt.selected >= len(dt.cells) {
		return ""
	}
	texts := make([]string, len(dt.cells[dt.selected]))
	for i, cell := range dt.cells[dt.selected] {
		texts[i] = cell.Text
	}
	return strings.Join(texts, "\t")
}

func (dt *DataTable) notify(n datatable.Notification) {
	switch e := n.(type) {
	case datatable.VisibleWindowChanged:
		dt.selected = -1
		dt.sync()
	case datatable.ViewStateChanged:
		dt.sync()
	case datatable.MenuOpened:
		dt.showMenu(e)
	case datatable.MenuClosed:
		dt.hideMenu()
	case datatable.ActionInvoked:
		if dt.onAction != nil {
			dt.onAction(e)
		}
	}
}

// sync re-reads the model and refreshes everything derived from it.
func (dt *DataTable) sync() {
	dt.view = dt.model.View()
	dt.columns = dt.view.State.VisibleColumns(dt.view.Registry)
	dt.cells = datatable.RenderWindow(dt.view.Window, dt.view.State, dt.view.Registry, dt.format.Render)
	if dt.parserReg != dt.view.Registry {
		dt.parser = filter.NewParser(dt.view.Registry)
		dt.parserReg = dt.view.Registry
	}

	for i, col := range dt.columns {
		dt.table.SetColumnWidth(i, dt.view.State.Width(col))
	}
	dt.paginator.update(dt.view.Window)
	dt.status.SetText(dt.statusText())
	dt.table.Refresh()
}

func (dt *DataTable) size() (int, int) {
	return len(dt.cells), len(dt.columns)
}

func (dt *DataTable) setMessage(msg string) {
	dt.message = msg
	dt.status.SetText(dt.statusText())
}

func (dt *DataTable) statusText() string {
	win := dt.view.Window
	text := fmt.Sprintf("%d columns x %d rows", len(dt.columns), win.TotalFilteredCount)
	if total := dt.model.Dataset().Len(); total != win.TotalFilteredCount {
		text += fmt.Sprintf(" (filtered from %d)", total)
	}
	if keys := dt.view.State.Sort(); len(keys) > 0 {
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, dt.columnTitle(key.ColumnID)+" "+sortIndicator(key.Direction))
		}
		text += " | Sorted: " + strings.Join(parts, ", ")
	}
	if n := len(dt.view.State.Filters()); n > 0 {
		text += fmt.Sprintf(" | Filters: %d", n)
	}
	if dt.message != "" {
		text += " | " + dt.message
	}
	return text
}

func (dt *DataTable) columnTitle(id string) string {
	if col, ok := dt.view.Registry.Lookup(id); ok {
		return col.Title()
	}
	return id
}

func sortIndicator(d datatable.SortDirection) string {
	switch d {
	case datatable.SortAscending:
		return "↑"
	case datatable.SortDescending:
		return "↓"
	}
	return ""
}

// dispatch sends g to the model and shows a rejection in the status bar.
func (dt *DataTable) dispatch(g datatable.Gesture) {
	if err := dt.model.Dispatch(g); err != nil {
		dt.setMessage(err.Error())
		return
	}
	if dt.message != "" {
		dt.setMessage("")
	}
}

// applyQuery replaces every filter with the parsed query. A "go:" prefix
// compiles the rest as a Go boolean expression over row.
func (dt *DataTable) applyQuery(text string) error {
	text = strings.TrimSpace(text)
	var filters map[string]datatable.Filter
	anchor := ""
	if len(dt.columns) > 0 {
		anchor = dt.columns[0].ID
	} else if ids := dt.view.Registry.IDs(); len(ids) > 0 {
		anchor = ids[0]
	}

	switch {
	case text == "":
	case strings.HasPrefix(text, "go:"):
		expr, err := filter.NewExpr(strings.TrimSpace(strings.TrimPrefix(text, "go:")))
		if err != nil {
			return err
		}
		filters = map[string]datatable.Filter{anchor: expr}
	default:
		q, err := dt.parser.Parse(text)
		if err != nil {
			return err
		}
		filters = q.Split(anchor)
	}

	if err := dt.model.ReplaceFilters(filters); err != nil {
		return err
	}
	dt.setMessage("")
	return nil
}

func (dt *DataTable) selectRow(row, col int) {
	if dt.config.SelectionMode == SelectionModeNone || row < 0 || row >= len(dt.cells) {
		return
	}
	dt.selected = row
	dt.table.Refresh()
	if dt.onCellSelected != nil {
		dt.onCellSelected(row, col)
	}
}

// reorderTarget returns the id of the column a header dragged by offset
// pixels from display position col lands on.
func (dt *DataTable) reorderTarget(col int, offset float32) string {
	if col < 0 || col >= len(dt.columns) {
		return ""
	}
	target := col
	if offset > 0 {
		remaining := offset
		for target+1 < len(dt.columns) {
			w := dt.view.State.Width(dt.columns[target+1])
			if remaining < w/2 {
				break
			}
			remaining -= w
			target++
		}
	} else {
		remaining := -offset
		for target > 0 {
			w := dt.view.State.Width(dt.columns[target-1])
			if remaining < w/2 {
				break
			}
			remaining -= w
			target--
		}
	}
	return dt.columns[target].ID
}
