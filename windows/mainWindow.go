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

// Package windows is the table viewer application: a navigation tree of
// Delta Sharing tables, one tab per open table, and a status bar.
package windows

import (
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	delta_sharing "github.com/magpierre/go_delta_sharing_client"
	"go.uber.org/zap"

	"github.com/magpierre/tableview/datatable"
	"github.com/magpierre/tableview/export"
	"github.com/magpierre/tableview/loader"
)

// Options configures a MainWindow.
type Options struct {
	Title   string
	Config  datatable.Config
	Logger  *zap.Logger
	Timeout time.Duration
	Dense   bool
}

// MainWindow is the application window.
type MainWindow struct {
	a fyne.App
	w fyne.Window

	config  datatable.Config
	logger  *zap.Logger
	timeout time.Duration

	loader  *loader.Loader
	sharing *loader.DeltaSharing
	browser *DataBrowser

	left      *fyne.Container
	statusBar *widget.Label
}

// NewMainWindow builds the window on a. Call ShowAndRun to start.
func NewMainWindow(a fyne.App, opts Options) *MainWindow {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Title == "" {
		opts.Title = "Table Viewer"
	}
	t := &MainWindow{
		a:       a,
		config:  opts.Config,
		logger:  opts.Logger,
		timeout: opts.Timeout,
		loader:  loader.New(opts.Logger),
	}
	a.Settings().SetTheme(TableTheme{Dense: opts.Dense})
	t.w = a.NewWindow(opts.Title)
	t.w.Resize(fyne.NewSize(1100, 700))

	t.statusBar = widget.NewLabel("Ready")
	t.statusBar.TextStyle = fyne.TextStyle{Italic: true}
	t.statusBar.Truncation = fyne.TextTruncateEllipsis

	t.browser = NewDataBrowser(t.w, t.config, t.logger, t.SetStatus)

	placeholder := widget.NewLabel("Open a Delta Sharing profile to browse shared tables")
	placeholder.Wrapping = fyne.TextWrapWord
	t.left = container.NewStack(placeholder)
	t.left.Hide()

	split := container.NewHSplit(t.left, t.browser.Content())
	split.Offset = 0.22

	content := container.NewBorder(t.toolbar(), t.statusBar, nil, nil, split)
	t.w.SetMainMenu(t.mainMenu())
	t.w.SetContent(fynetooltip.AddWindowToolTipLayer(content, t.w.Canvas()))
	return t
}

// Window returns the fyne window.
func (t *MainWindow) Window() fyne.Window { return t.w }

// Browser returns the tab manager.
func (t *MainWindow) Browser() *DataBrowser { return t.browser }

// ShowAndRun shows the window and runs the application.
func (t *MainWindow) ShowAndRun() {
	t.w.ShowAndRun()
}

// SetStatus updates the status bar message.
func (t *MainWindow) SetStatus(message string) {
	t.statusBar.SetText(message)
}

func (t *MainWindow) toolbar() fyne.CanvasObject {
	return widget.NewToolbar(
		widget.NewToolbarAction(theme.MenuIcon(), func() {
			if t.left.Visible() {
				t.left.Hide()
			} else {
				t.left.Show()
			}
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.FileIcon(), func() {
			NewFileDialog(t.w, "Open data file", dataExtensions, t.OpenFile).Show()
		}),
		widget.NewToolbarAction(theme.StorageIcon(), func() {
			NewFileDialog(t.w, "Select Delta Sharing profile", profileExtensions, t.OpenProfile).Show()
		}),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() { t.exportCurrent(export.FormatCSV) }),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.HelpIcon(), t.showHelp),
	)
}

func (t *MainWindow) mainMenu() *fyne.MainMenu {
	return fyne.NewMainMenu(
		fyne.NewMenu("File", t.fileMenuItems()...),
		t.exportMenu(),
		fyne.NewMenu("Help", fyne.NewMenuItem("Table controls", t.showHelp)),
	)
}

// setNavigation replaces the left pane with the tree of nav.
func (t *MainWindow) setNavigation(nav *NavigationTree) {
	nav.OnTableSelected = func(table delta_sharing.Table) {
		t.LoadTable(table, LoadOptions{})
	}
	nav.OnTableMenu = func(table delta_sharing.Table, e *fyne.PointEvent) {
		menu := fyne.NewMenu("",
			fyne.NewMenuItem("Load with options...", func() { t.loadTableWithOptions(table) }),
			fyne.NewMenuItem("Load first file", func() { t.LoadTable(table, LoadOptions{}) }),
		)
		widget.ShowPopUpMenuAtPosition(menu, t.w.Canvas(), e.AbsolutePosition)
	}
	tree := nav.Widget()
	t.left.Objects = []fyne.CanvasObject{widget.NewCard("", "Shares", tree)}
	t.left.Show()
	t.left.Refresh()
}

func (t *MainWindow) showHelp() {
	text := widget.NewRichTextFromMarkdown(helpText)
	text.Wrapping = fyne.TextWrapWord
	scroll := container.NewVScroll(text)
	scroll.SetMinSize(fyne.NewSize(480, 300))
	dialog.ShowCustom("Table controls", "Close", scroll, t.w)
}

const helpText = `**Headers**: click to sort (ascending, descending, off). Drag the right edge to resize, drag elsewhere to move the column. Right-click for column visibility and auto-fit.

**Rows**: click to select, Ctrl+C copies the row. Right-click for row actions.

**Filter**: ` + "`name = Oslo AND pop >= 100000`" + `, ` + "`city ~ berg OR city ~ oslo`" + `, a bare word searches every column, and ` + "`go: num(row[\"pop\"]) > 1e5`" + ` evaluates a Go expression per row.`
