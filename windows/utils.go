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
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// runWithProgress runs work off the UI goroutine behind a modal progress
// dialog. Cancel stops it through ctx. done runs on the UI goroutine.
func runWithProgress[T any](w fyne.Window, title string, work func(context.Context) (T, error), done func(T, error)) {
	ctx, cancel := context.WithCancel(context.Background())

	bar := widget.NewProgressBarInfinite()
	d := dialog.NewCustom(title, "Cancel", bar, w)
	d.SetOnClosed(cancel)
	d.Resize(fyne.NewSize(300, 100))
	d.Show()

	go func() {
		result, err := work(ctx)
		fyne.Do(func() {
			d.SetOnClosed(nil)
			d.Hide()
			cancel()
			done(result, err)
		})
	}()
}

// cleanFilename keeps letters, digits, '-' and '_' and turns spaces into
// underscores.
func cleanFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "table"
	}
	return b.String()
}
