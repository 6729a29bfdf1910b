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
	"golang.org/x/text/language"

	"github.com/magpierre/tableview/datatable"
)

// SelectionMode controls what a click on a cell selects.
type SelectionMode int

const (
	// SelectionModeNone disables selection.
	SelectionModeNone SelectionMode = iota
	// SelectionModeRow selects whole rows.
	SelectionModeRow
)

// Config holds the presentation options of a DataTable.
type Config struct {
	ShowFilterBar bool
	ShowStatusBar bool
	ShowPaginator bool

	SelectionMode SelectionMode

	// PageSizes are offered by the paginator.
	PageSizes []int

	// ResizeHandleWidth is the strip at the right edge of a header that
	// starts a resize drag instead of a reorder.
	ResizeHandleWidth float32

	// Language drives number grouping in rendered cells.
	Language language.Tag
}

// DefaultConfig shows every bar and selects rows.
func DefaultConfig() Config {
	return Config{
		ShowFilterBar:     true,
		ShowStatusBar:     true,
		ShowPaginator:     true,
		SelectionMode:     SelectionModeRow,
		PageSizes:         []int{10, 25, 50, 100},
		ResizeHandleWidth: 8,
		Language:          language.English,
	}
}

// MeasureText measures text in the theme's body font. It is the pixel
// accurate datatable.Measurer for fyne views.
func MeasureText(text string) float32 {
	return fyne.MeasureText(text, theme.TextSize(), fyne.TextStyle{}).Width
}

// ModelOptions wires a model to fyne: widths are measured with the theme
// font and background auto-fit results are applied on the UI goroutine.
func ModelOptions() []datatable.Option {
	return []datatable.Option{
		datatable.WithEstimator(datatable.NewWidthEstimator(MeasureText)),
		datatable.WithDispatcher(func(f func()) { fyne.Do(f) }),
	}
}
