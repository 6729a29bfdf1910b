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
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// palette holds the colors one variant overrides.
type palette map[fyne.ThemeColorName]color.Color

var (
	lightPalette = palette{
		theme.ColorNameBackground:       color.NRGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff},
		theme.ColorNameHeaderBackground: color.NRGBA{R: 0xe3, G: 0xe8, B: 0xee, A: 0xff},
		theme.ColorNamePrimary:          color.NRGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0xff},
		theme.ColorNameHover:            color.NRGBA{R: 0x64, G: 0xb5, B: 0xf6, A: 0x40},
		theme.ColorNameFocus:            color.NRGBA{R: 0x19, G: 0x76, B: 0xd2, A: 0xff},
		theme.ColorNameForeground:       color.NRGBA{R: 0x21, G: 0x21, B: 0x21, A: 0xff},
		theme.ColorNameInputBackground:  color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		theme.ColorNameSelection:        color.NRGBA{R: 0xbb, G: 0xde, B: 0xfb, A: 0xff},
		theme.ColorNameSeparator:        color.NRGBA{R: 0xd0, G: 0xd4, B: 0xd9, A: 0xff},
	}
	darkPalette = palette{
		theme.ColorNameBackground:       color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff},
		theme.ColorNameHeaderBackground: color.NRGBA{R: 0x2a, G: 0x30, B: 0x38, A: 0xff},
		theme.ColorNamePrimary:          color.NRGBA{R: 0x42, G: 0xa5, B: 0xf5, A: 0xff},
		theme.ColorNameHover:            color.NRGBA{R: 0x64, G: 0xb5, B: 0xf6, A: 0x40},
		theme.ColorNameFocus:            color.NRGBA{R: 0x90, G: 0xca, B: 0xf9, A: 0xff},
		theme.ColorNameForeground:       color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff},
		theme.ColorNameInputBackground:  color.NRGBA{R: 0x2d, G: 0x2d, B: 0x2d, A: 0xff},
		theme.ColorNameSelection:        color.NRGBA{R: 0x1e, G: 0x58, B: 0x95, A: 0xff},
		theme.ColorNameSeparator:        color.NRGBA{R: 0x3a, G: 0x3f, B: 0x46, A: 0xff},
	}
)

// TableTheme is a blue theme with tighter padding than the default, so
// more rows fit on a page. Dense shrinks it further.
type TableTheme struct {
	Dense bool
}

// Color implements fyne.Theme.
func (t TableTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	p := darkPalette
	if variant == theme.VariantLight {
		p = lightPalette
	}
	if c, ok := p[name]; ok {
		return c
	}
	return theme.DefaultTheme().Color(name, variant)
}

// Icon implements fyne.Theme.
func (t TableTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Font implements fyne.Theme.
func (t TableTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Size implements fyne.Theme.
func (t TableTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		if t.Dense {
			return 2
		}
		return 4
	case theme.SizeNameInnerPadding:
		if t.Dense {
			return 4
		}
		return 6
	case theme.SizeNameText:
		if t.Dense {
			return 12
		}
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameSeparatorThickness:
		return 1
	}
	return theme.DefaultTheme().Size(name)
}
