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
	"os"
	"path/filepath"
	"slices"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var (
	profileExtensions = []string{".share", ".json", ".txt"}
	dataExtensions    = []string{".csv", ".tsv", ".parquet", ".json"}
)

// FileDialog browses the local file system for one file with a given
// extension. It opens in the last directory it was used in.
type FileDialog struct {
	window     fyne.Window
	title      string
	extensions []string
	onChosen   func(path string)

	dir     string
	home    string
	entries []os.DirEntry

	dialog   dialog.Dialog
	list     *widget.List
	pathText *widget.Label
}

// NewFileDialog creates a dialog that calls onChosen with the picked path.
func NewFileDialog(w fyne.Window, title string, extensions []string, onChosen func(path string)) *FileDialog {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	dir, err := os.Getwd()
	if err != nil {
		dir = home
	}
	return &FileDialog{
		window:     w,
		title:      title,
		extensions: extensions,
		onChosen:   onChosen,
		dir:        dir,
		home:       home,
	}
}

// Show opens the dialog.
func (fd *FileDialog) Show() {
	fd.pathText = widget.NewLabel("")
	fd.pathText.Truncation = fyne.TextTruncateEllipsis
	fd.pathText.TextStyle = fyne.TextStyle{Bold: true}

	fd.list = widget.NewList(
		func() int { return len(fd.entries) },
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewIcon(theme.FileIcon()), widget.NewLabel("template"))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			row := obj.(*fyne.Container)
			entry := fd.entries[id]
			icon := theme.FileIcon()
			if entry.IsDir() {
				icon = theme.FolderIcon()
			}
			row.Objects[0].(*widget.Icon).SetResource(icon)
			row.Objects[1].(*widget.Label).SetText(entry.Name())
		},
	)
	fd.list.OnSelected = func(id widget.ListItemID) {
		entry := fd.entries[id]
		path := filepath.Join(fd.dir, entry.Name())
		fd.list.UnselectAll()
		if entry.IsDir() {
			fd.open(path)
			return
		}
		fd.dialog.Hide()
		fd.onChosen(path)
	}

	home := widget.NewButtonWithIcon("Home", theme.HomeIcon(), func() { fd.open(fd.home) })
	up := widget.NewButtonWithIcon("Up", theme.NavigateBackIcon(), func() { fd.open(filepath.Dir(fd.dir)) })
	refresh := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), func() { fd.open(fd.dir) })

	hint := widget.NewLabel("Showing folders and " + strings.Join(fd.extensions, ", ") + " files")
	hint.TextStyle = fyne.TextStyle{Italic: true}

	content := container.NewBorder(
		container.NewVBox(
			container.NewBorder(nil, nil, container.NewHBox(home, up, refresh), nil, fd.pathText),
			widget.NewSeparator(),
			hint,
		),
		nil, nil, nil,
		fd.list,
	)
	fd.dialog = dialog.NewCustom(fd.title, "Close", content, fd.window)
	fd.dialog.Resize(fyne.NewSize(800, 600))
	fd.open(fd.dir)
	fd.dialog.Show()
}

func (fd *FileDialog) open(dir string) {
	entries, err := listDir(dir, fd.extensions)
	if err != nil {
		dialog.ShowError(err, fd.window)
		return
	}
	fd.dir = dir
	fd.entries = entries
	fd.pathText.SetText(dir)
	fd.list.Refresh()
}

// listDir returns the visible folders of dir, then its files with one of
// extensions, each group sorted by name.
func listDir(dir string, extensions []string) ([]os.DirEntry, error) {
	all, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var dirs, files []os.DirEntry
	for _, e := range all {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if e.IsDir() {
			dirs = append(dirs, e)
		} else if slices.Contains(extensions, strings.ToLower(filepath.Ext(e.Name()))) {
			files = append(files, e)
		}
	}
	return append(dirs, files...), nil
}
