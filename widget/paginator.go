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
	"fmt"
	"slices"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/magpierre/tableview/datatable"
)

type paginator struct {
	dt *DataTable

	first, prev, next, last *widget.Button
	label                   *widget.Label
	pageSize                *widget.Select
	content                 fyne.CanvasObject

	updating bool
}

func newPaginator(dt *DataTable) *paginator {
	p := &paginator{dt: dt, label: widget.NewLabel("")}
	p.first = widget.NewButtonWithIcon("", theme.MediaSkipPreviousIcon(), func() {
		p.dt.dispatch(datatable.PageRequested{PageIndex: 0})
	})
	p.prev = widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() {
		p.dt.dispatch(datatable.PageRequested{PageIndex: p.dt.view.Window.PageIndex - 1})
	})
	p.next = widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() {
		p.dt.dispatch(datatable.PageRequested{PageIndex: p.dt.view.Window.PageIndex + 1})
	})
	p.last = widget.NewButtonWithIcon("", theme.MediaSkipNextIcon(), func() {
		p.dt.dispatch(datatable.PageRequested{PageIndex: p.dt.view.Window.PageCount - 1})
	})

	sizes := slices.Clone(dt.config.PageSizes)
	if size := dt.model.Config().PageSize; !slices.Contains(sizes, size) {
		sizes = append(sizes, size)
		slices.Sort(sizes)
	}
	options := make([]string, len(sizes))
	for i, size := range sizes {
		options[i] = strconv.Itoa(size)
	}
	p.pageSize = widget.NewSelect(options, func(s string) {
		if p.updating {
			return
		}
		if size, err := strconv.Atoi(s); err == nil {
			p.dt.dispatch(datatable.PageSizeRequested{PageSize: size})
		}
	})

	p.content = container.NewHBox(
		p.first, p.prev, p.label, p.next, p.last,
		widget.NewLabel("Rows per page"), p.pageSize,
	)
	return p
}

func (p *paginator) update(win datatable.VisibleWindow) {
	page := win.PageIndex + 1
	if win.PageCount == 0 {
		page = 0
	}
	p.label.SetText(fmt.Sprintf("Page %d of %d", page, win.PageCount))

	atStart := win.PageIndex <= 0
	atEnd := win.PageIndex >= win.PageCount-1
	setEnabled(p.first, !atStart)
	setEnabled(p.prev, !atStart)
	setEnabled(p.next, !atEnd)
	setEnabled(p.last, !atEnd)

	p.updating = true
	p.pageSize.SetSelected(strconv.Itoa(win.PageSize))
	p.updating = false
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}
