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

package windows

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/magpierre/tableview/datatable"
	"github.com/magpierre/tableview/loader"
	dtwidget "github.com/magpierre/tableview/widget"
)

// Data is one open table.
type Data struct {
	Result *loader.Result
	Model  *datatable.TableModel
	Table  *dtwidget.DataTable
	tab    *container.TabItem

	unsubscribe func()
}

// DataBrowser shows every open table in its own tab.
type DataBrowser struct {
	window fyne.Window
	config datatable.Config
	logger *zap.Logger

	tabs   *container.DocTabs
	byTab  map[*container.TabItem]*Data
	status func(string)
}

// NewDataBrowser creates an empty browser. status receives one-line
// summaries for the window's status bar.
func NewDataBrowser(w fyne.Window, cfg datatable.Config, logger *zap.Logger, status func(string)) *DataBrowser {
	b := &DataBrowser{
		window: w,
		config: cfg,
		logger: logger,
		tabs:   container.NewDocTabs(),
		byTab:  map[*container.TabItem]*Data{},
		status: status,
	}
	b.tabs.CloseIntercept = b.close
	b.tabs.OnSelected = func(ti *container.TabItem) {
		if d := b.byTab[ti]; d != nil {
			b.status(b.summary(d))
		}
	}
	return b
}

// Content is the tab container.
func (b *DataBrowser) Content() fyne.CanvasObject { return b.tabs }

// Current returns the table in the selected tab, or nil.
func (b *DataBrowser) Current() *Data {
	return b.byTab[b.tabs.Selected()]
}

// Len returns the number of open tables.
func (b *DataBrowser) Len() int { return len(b.byTab) }

// Open shows res in a new tab and selects it.
func (b *DataBrowser) Open(res *loader.Result) (*Data, error) {
	return b.OpenWithConfig(res, b.config)
}

// OpenWithConfig is Open with a view configuration for this tab only.
func (b *DataBrowser) OpenWithConfig(res *loader.Result, cfg datatable.Config) (*Data, error) {
	reg, err := res.Source.Registry()
	if err != nil {
		return nil, err
	}
	opts := append(dtwidget.ModelOptions(),
		datatable.WithConfig(cfg),
		datatable.WithLogger(b.logger.With(zap.String("table", res.Name))),
	)
	model, err := datatable.NewTableModel(reg, res.Source, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create table model: %w", err)
	}

	table := dtwidget.NewDataTable(model)
	table.SetWindow(b.window)

	d := &Data{Result: res, Model: model, Table: table}
	d.tab = container.NewTabItem(res.Name, table)
	b.byTab[d.tab] = d

	table.OnAction(func(a datatable.ActionInvoked) { b.rowAction(d, a) })
	d.unsubscribe = model.Subscribe(func(n datatable.Notification) {
		if _, ok := n.(datatable.VisibleWindowChanged); ok && b.Current() == d {
			b.status(b.summary(d))
		}
	})

	b.tabs.Append(d.tab)
	b.tabs.Select(d.tab)
	b.status(res.Status())
	return d, nil
}

func (b *DataBrowser) close(ti *container.TabItem) {
	if d := b.byTab[ti]; d != nil {
		d.unsubscribe()
		d.Table.Release()
		d.Model.CancelAutoFit()
		delete(b.byTab, ti)
	}
	b.tabs.Remove(ti)
	if d := b.Current(); d != nil {
		b.status(b.summary(d))
	} else {
		b.status("Ready")
	}
}

func (b *DataBrowser) summary(d *Data) string {
	win := d.Model.Window()
	cols := len(d.Model.State().VisibleColumns(d.Model.Registry()))
	total := d.Result.Source.RowCount()
	if win.TotalFilteredCount != total || cols != d.Result.Source.ColumnCount() {
		return fmt.Sprintf("Table %s (showing %d/%d columns x %d/%d rows)",
			d.Result.Name, cols, d.Result.Source.ColumnCount(), win.TotalFilteredCount, total)
	}
	return fmt.Sprintf("Table %s (%d columns x %d rows)", d.Result.Name, cols, total)
}

// rowAction handles the row menu. Tables are read-only, so only View
// does something beyond a status note.
func (b *DataBrowser) rowAction(d *Data, a datatable.ActionInvoked) {
	switch a.ActionKey {
	case datatable.ActionView:
		b.showRow(d, a.Row, a.RowIndex)
	case datatable.ActionEdit, datatable.ActionDelete:
		b.status(fmt.Sprintf("%s is read-only", d.Result.Name))
	default:
		b.logger.Debug("unhandled action", zap.String("action", a.ActionKey))
	}
}

func (b *DataBrowser) showRow(d *Data, row datatable.Row, index int) {
	reg := d.Model.Registry()
	items := make([]*widget.FormItem, 0, reg.Len())
	for _, col := range d.Model.State().VisibleColumns(reg) {
		text := widget.NewLabel(datatable.DisplayText(row[col.ID]))
		text.Wrapping = fyne.TextWrapWord
		items = append(items, widget.NewFormItem(col.Title(), text))
	}
	for _, col := range reg.Columns() {
		if d.Model.State().IsVisible(col.ID) {
			continue
		}
		hidden := widget.NewLabel(datatable.DisplayText(row[col.ID]))
		hidden.Importance = widget.LowImportance
		items = append(items, widget.NewFormItem(col.Title(), hidden))
	}
	scroll := container.NewVScroll(widget.NewForm(items...))
	scroll.SetMinSize(fyne.NewSize(420, 360))
	dialog.ShowCustom(fmt.Sprintf("%s, row %d", d.Result.Name, index+1), "Close", scroll, b.window)
}
