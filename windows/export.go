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
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"go.uber.org/zap"

	"github.com/magpierre/tableview/export"
)

// exportMenu lists one entry per export format for the current tab.
func (t *MainWindow) exportMenu() *fyne.Menu {
	formats := []export.ExportFormat{export.FormatCSV, export.FormatJSON, export.FormatParquet}
	items := make([]*fyne.MenuItem, len(formats))
	for i, f := range formats {
		items[i] = fyne.NewMenuItem("Export as "+f.String()+"...", func() { t.exportCurrent(f) })
	}
	return fyne.NewMenu("Export", items...)
}

// exportCurrent writes the filtered, sorted rows and visible columns of
// the selected tab to a file the user picks.
func (t *MainWindow) exportCurrent(format export.ExportFormat) {
	d := t.browser.Current()
	if d == nil {
		dialog.ShowInformation("Export", "Open a table first", t.w)
		return
	}
	view := export.FromModel(d.Model)
	if len(view.Rows) == 0 {
		dialog.ShowInformation("Export", "No rows to export", t.w)
		return
	}

	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, t.w)
			return
		}
		if writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()

		runWithProgress(t.w, "Exporting...", func(context.Context) (string, error) {
			return path, export.ToFile(path, view)
		}, func(path string, err error) {
			if err != nil {
				t.logger.Error("export failed", zap.String("path", path), zap.Error(err))
				dialog.ShowError(err, t.w)
				return
			}
			t.logger.Info("exported", zap.String("path", path), zap.Int("rows", len(view.Rows)))
			t.SetStatus(fmt.Sprintf("Exported %d rows to %s", len(view.Rows), path))
		})
	}, t.w)
	save.SetFileName(cleanFilename(d.Result.Name) + format.Extension())
	save.Show()
}
