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
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	delta_sharing "github.com/magpierre/go_delta_sharing_client"

	"github.com/magpierre/tableview/datatable"
)

// LoadOptions picks how a Delta Sharing table is opened.
type LoadOptions struct {
	// FileID is the data file to load; empty means the first one.
	FileID   string
	PageSize int
}

// Validate checks the page size.
func (o LoadOptions) Validate() error {
	if o.PageSize <= 0 {
		return fmt.Errorf("%w: %d", datatable.ErrInvalidPageSize, o.PageSize)
	}
	return nil
}

// showLoadOptions asks for a data file and a page size before loading
// table. files are the table's data file ids.
func showLoadOptions(w fyne.Window, table delta_sharing.Table, files []string, pageSize int, onLoad func(LoadOptions)) {
	fileSelect := widget.NewSelect(files, nil)
	if len(files) > 0 {
		fileSelect.SetSelectedIndex(0)
	}

	sizeEntry := widget.NewEntry()
	sizeEntry.SetText(strconv.Itoa(pageSize))
	sizeEntry.Validator = func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		return LoadOptions{PageSize: n}.Validate()
	}

	items := []*widget.FormItem{
		widget.NewFormItem("Data file", fileSelect),
		widget.NewFormItem("Rows per page", sizeEntry),
	}
	items[0].HintText = fmt.Sprintf("%d files in %s.%s", len(files), table.Share, table.Schema)

	d := dialog.NewForm("Load "+table.Name, "Load", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		n, _ := strconv.Atoi(sizeEntry.Text)
		onLoad(LoadOptions{FileID: fileSelect.Selected, PageSize: n})
	}, w)
	d.Resize(fyne.NewSize(520, 240))
	d.Show()
}
