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
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"github.com/magpierre/tableview/datatable"
	"github.com/magpierre/tableview/internal/format"
)

// headerCell is a column header. A tap sorts, a secondary tap opens the
// header menu, and a drag either resizes (from the right edge) or moves
// the column.
type headerCell struct {
	ttwidget.Label
	dt  *DataTable
	col int

	dragging bool
	resizing bool
	offset   float32
}

func newHeaderCell(dt *DataTable) *headerCell {
	h := &headerCell{dt: dt, col: -1}
	h.Truncation = fyne.TextTruncateEllipsis
	h.ExtendBaseWidget(h)
	return h
}

func (h *headerCell) column() (datatable.Column, bool) {
	if h.col < 0 || h.col >= len(h.dt.columns) {
		return datatable.Column{}, false
	}
	return h.dt.columns[h.col], true
}

func (h *headerCell) bind(col int) {
	h.col = col
	c, ok := h.column()
	if !ok {
		h.SetText("")
		h.SetToolTip("")
		return
	}
	text := c.Title()
	if arrow := sortArrow(h.dt.view.State.SortDirectionOf(c.ID)); arrow != "" {
		text += " " + arrow
	}
	tip := c.Title()
	f, filtered := h.dt.view.State.Filter(c.ID)
	if filtered {
		tip += "\nFilter: " + f.Description()
	}
	h.TextStyle.Bold = filtered
	h.SetToolTip(tip)
	h.SetText(text)
}

func sortArrow(d datatable.SortDirection) string {
	switch d {
	case datatable.SortAscending:
		return "▲"
	case datatable.SortDescending:
		return "▼"
	}
	return ""
}

// Tapped toggles the sort of the column.
func (h *headerCell) Tapped(*fyne.PointEvent) {
	if c, ok := h.column(); ok {
		h.dt.dispatch(datatable.HeaderClicked{ColumnID: c.ID})
	}
}

// TappedSecondary opens the header menu.
func (h *headerCell) TappedSecondary(e *fyne.PointEvent) {
	c, ok := h.column()
	if !ok {
		return
	}
	h.dt.dispatch(datatable.ContextMenuRequested{
		Scope:       datatable.ScopeHeader,
		ColumnID:    c.ID,
		ScreenPoint: datatable.Point{X: e.AbsolutePosition.X, Y: e.AbsolutePosition.Y},
	})
}

// Dragged resizes the column live, or tracks a move until DragEnd.
func (h *headerCell) Dragged(e *fyne.DragEvent) {
	c, ok := h.column()
	if !ok {
		return
	}
	if !h.dragging {
		h.dragging = true
		h.offset = 0
		start := e.Position.X - e.Dragged.DX
		h.resizing = start >= h.Size().Width-h.dt.config.ResizeHandleWidth
	}
	if h.resizing {
		h.dt.dispatch(datatable.ResizeDelta{ColumnID: c.ID, DeltaPixels: e.Dragged.DX})
		return
	}
	h.offset += e.Dragged.DX
}

// DragEnd commits a move.
func (h *headerCell) DragEnd() {
	wasResize := h.resizing
	h.dragging, h.resizing = false, false
	if wasResize {
		return
	}
	c, ok := h.column()
	if !ok {
		return
	}
	if target := h.dt.reorderTarget(h.col, h.offset); target != "" && target != c.ID {
		h.dt.dispatch(datatable.ReorderCommitted{DraggedID: c.ID, TargetID: target})
	}
	h.offset = 0
}

// rowCell shows one rendered value. Progress values are drawn as a bar.
type rowCell struct {
	widget.BaseWidget
	dt       *DataTable
	row, col int

	background *canvas.Rectangle
	label      *widget.Label
	bar        *widget.ProgressBar
	text       string
}

func newRowCell(dt *DataTable) *rowCell {
	c := &rowCell{
		dt:         dt,
		row:        -1,
		background: canvas.NewRectangle(color.Transparent),
		label:      widget.NewLabel(""),
		bar:        widget.NewProgressBar(),
	}
	c.label.Truncation = fyne.TextTruncateEllipsis
	c.bar.Max = 1
	c.bar.TextFormatter = func() string { return c.text }
	c.bar.Hide()
	c.ExtendBaseWidget(c)
	return c
}

// CreateRenderer implements fyne.Widget.
func (c *rowCell) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(c.background, c.label, c.bar))
}

func (c *rowCell) bind(row, col int, cell format.Cell, selected bool) {
	c.row, c.col = row, col
	c.text = cell.Text
	if selected {
		c.background.FillColor = theme.Color(theme.ColorNameSelection)
	} else {
		c.background.FillColor = color.Transparent
	}
	c.background.Refresh()

	if cell.Kind == format.KindProgress {
		c.label.Hide()
		c.bar.Show()
		c.bar.SetValue(cell.Fraction)
		return
	}
	c.bar.Hide()
	c.label.Show()
	c.label.TextStyle = fyne.TextStyle{Monospace: cell.Kind == format.KindCode}
	c.label.SetText(cell.Text)
}

// Tapped selects the row.
func (c *rowCell) Tapped(*fyne.PointEvent) {
	c.dt.selectRow(c.row, c.col)
}

// TappedSecondary selects the row and opens the row menu.
func (c *rowCell) TappedSecondary(e *fyne.PointEvent) {
	win := c.dt.view.Window
	if c.row < 0 || c.row >= len(win.Rows) {
		return
	}
	c.dt.selectRow(c.row, c.col)
	c.dt.dispatch(datatable.ContextMenuRequested{
		Scope:       datatable.ScopeRow,
		Row:         win.Rows[c.row],
		RowIndex:    win.Indices[c.row],
		ScreenPoint: datatable.Point{X: e.AbsolutePosition.X, Y: e.AbsolutePosition.Y},
	})
}

func (dt *DataTable) createHeader() fyne.CanvasObject {
	return newHeaderCell(dt)
}

func (dt *DataTable) updateHeader(id widget.TableCellID, o fyne.CanvasObject) {
	if h, ok := o.(*headerCell); ok {
		h.bind(id.Col)
	}
}

func (dt *DataTable) createCell() fyne.CanvasObject {
	return newRowCell(dt)
}

func (dt *DataTable) updateCell(id widget.TableCellID, o fyne.CanvasObject) {
	c, ok := o.(*rowCell)
	if !ok || id.Row < 0 || id.Row >= len(dt.cells) || id.Col < 0 || id.Col >= len(dt.cells[id.Row]) {
		return
	}
	c.bind(id.Row, id.Col, dt.cells[id.Row][id.Col], id.Row == dt.selected)
}
