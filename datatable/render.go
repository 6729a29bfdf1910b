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

package datatable

// RenderOptions is the per-column context handed to a cell renderer.
type RenderOptions struct {
	Choices []Choice
	Width   float32
}

// RenderFunc turns a cell value into something displayable.
type RenderFunc[D any] func(value any, tag ValueTag, opts RenderOptions) D

// RenderWindow renders the visible cells of win: one call per row of the
// window and visible column, and none for anything outside it. The result
// is indexed [row][column] in display order.
func RenderWindow[D any](win VisibleWindow, s ViewState, reg *Registry, render RenderFunc[D]) [][]D {
	cols := s.VisibleColumns(reg)
	opts := make([]RenderOptions, len(cols))
	for i, col := range cols {
		opts[i] = RenderOptions{Choices: col.Choices, Width: s.Width(col)}
	}
	out := make([][]D, len(win.Rows))
	for r, row := range win.Rows {
		cells := make([]D, len(cols))
		for c, col := range cols {
			cells[c] = render(row[col.ID], col.Tag, opts[c])
		}
		out[r] = cells
	}
	return out
}
