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

package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/magpierre/tableview/datatable"
)

func TestRenderText(t *testing.T) {
	f := New(language.English)
	noOpts := datatable.RenderOptions{}
	when := time.Date(2024, 5, 17, 13, 4, 5, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		tag   datatable.ValueTag
		want  string
	}{
		{"text", "hello", datatable.TagText, "hello"},
		{"nil text", nil, datatable.TagText, ""},
		{"nil number", nil, datatable.TagInt, Empty},
		{"int", 42, datatable.TagInt, "42"},
		{"bool", true, datatable.TagBool, "true"},
		{"date", when, datatable.TagDate, "2024-05-17"},
		{"datetime", when, datatable.TagDateTime, "2024-05-17 13:04:05"},
		{"time", when, datatable.TagTime, "13:04:05"},
		{"date string", "2024-05-17T13:04:05Z", datatable.TagDate, "2024-05-17"},
		{"date millis", when.UnixMilli(), datatable.TagDateTime, "2024-05-17 13:04:05"},
		{"unparsable date", "soon", datatable.TagDate, "soon"},
		{"money", 1234.5, datatable.TagMoney, "$1,234.50"},
		{"negative money", -3, datatable.TagMoney, "-$3.00"},
		{"money text", "abc", datatable.TagMoney, Empty},
		{"percent", 0.25, datatable.TagPercent, "25.00%"},
		{"digit", 1234567, datatable.TagDigit, "1,234,567"},
		{"short seconds", 125, datatable.TagSecond, "2:05"},
		{"long seconds", 3725, datatable.TagSecond, "1:02:05"},
		{"progress", 120, datatable.TagProgress, "100%"},
		{"rate", 3, datatable.TagRate, "★★★☆☆"},
		{"password", "secret", datatable.TagPassword, "********"},
		{"json", map[string]any{"a": []any{1, 2}}, datatable.TagJSON, `{"a":[1,2]}`},
		{"list", []any{"x", "y"}, datatable.TagList, `["x","y"]`},
		{"binary", []byte{0xde, 0xad}, datatable.TagBinary, "0xdead"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Text(tt.value, tt.tag, noOpts))
		})
	}
}

func TestRenderSelect(t *testing.T) {
	f := New(language.English)
	opts := datatable.RenderOptions{Choices: []datatable.Choice{
		{Label: "Open", Value: 1},
		{Label: "Closed", Value: 2},
	}}
	assert.Equal(t, "Closed", f.Text(int64(2), datatable.TagSelect, opts))
	assert.Equal(t, "3", f.Text(3, datatable.TagSelect, opts))
}

func TestRenderKinds(t *testing.T) {
	f := New(language.English)
	cell := f.Render(40, datatable.TagProgress, datatable.RenderOptions{})
	assert.Equal(t, KindProgress, cell.Kind)
	assert.InDelta(t, 0.4, cell.Fraction, 1e-9)

	assert.Equal(t, KindCode, f.Render("x := 1", datatable.TagCode, datatable.RenderOptions{}).Kind)
	assert.Equal(t, KindImage, f.Render("https://example.com/a.png", datatable.TagImage, datatable.RenderOptions{}).Kind)
	assert.Equal(t, KindMasked, f.Render(nil, datatable.TagPassword, datatable.RenderOptions{}).Kind)
}

func TestRenderLocation(t *testing.T) {
	f := New(language.English)
	f.Location = time.FixedZone("UTC+2", 2*60*60)
	when := time.Date(2024, 5, 17, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-05-18", f.Text(when, datatable.TagDate, datatable.RenderOptions{}))
}

func TestRenderWindowWithFormatter(t *testing.T) {
	reg, err := datatable.NewRegistry(
		datatable.NewColumn("price", "Price", datatable.TagMoney),
		datatable.NewColumn("share", "Share", datatable.TagPercent),
	)
	assert.NoError(t, err)
	s, err := datatable.NewViewState(reg, 10, nil)
	assert.NoError(t, err)
	ds := datatable.Rows{{"price": 10, "share": 0.5}}

	cells := datatable.RenderWindow(datatable.Compute(ds, s, reg), s, reg, New(language.English).Text)
	assert.Equal(t, [][]string{{"$10.00", "50.00%"}}, cells)
}
