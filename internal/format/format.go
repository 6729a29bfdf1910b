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

// Package format renders cell values as display text according to their
// value tag.
package format

import (
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/magpierre/tableview/datatable"
)

// Empty is shown for missing values of non-text tags.
const Empty = "-"

// MaxRate is the number of stars of a rating.
const MaxRate = 5

// Kind tells a view which widget suits a rendered cell.
type Kind int

const (
	KindText Kind = iota
	// KindCode is shown in a monospace font.
	KindCode
	// KindProgress is shown as a bar filled to Cell.Fraction.
	KindProgress
	// KindImage carries an image location in Cell.Text.
	KindImage
	// KindMasked hides the value.
	KindMasked
)

// Cell is a rendered value.
type Cell struct {
	Text string
	Kind Kind
	// Fraction is the 0..1 fill of a progress cell.
	Fraction float64
}

// Formatter renders values with locale-aware number grouping.
type Formatter struct {
	printer *message.Printer
	// CurrencySymbol prefixes money amounts.
	CurrencySymbol string
	// Location is applied to timestamps before formatting.
	Location *time.Location
}

// New returns a formatter for lang with a "$" currency symbol and UTC times.
func New(lang language.Tag) *Formatter {
	return &Formatter{
		printer:        message.NewPrinter(lang),
		CurrencySymbol: "$",
		Location:       time.UTC,
	}
}

// Text renders value as plain text.
func (f *Formatter) Text(value any, tag datatable.ValueTag, opts datatable.RenderOptions) string {
	return f.Render(value, tag, opts).Text
}

// Render implements datatable.RenderFunc.
func (f *Formatter) Render(value any, tag datatable.ValueTag, opts datatable.RenderOptions) Cell {
	if value == nil {
		switch tag {
		case datatable.TagText, datatable.TagCode, datatable.TagImage:
			return Cell{Kind: kindOf(tag)}
		case datatable.TagPassword:
			return Cell{Text: strings.Repeat("*", 8), Kind: KindMasked}
		case datatable.TagProgress:
			return Cell{Text: Empty, Kind: KindProgress}
		}
		return Cell{Text: Empty}
	}

	switch tag {
	case datatable.TagDate:
		return Cell{Text: f.formatTime(value, time.DateOnly)}
	case datatable.TagDateTime:
		return Cell{Text: f.formatTime(value, time.DateTime)}
	case datatable.TagTime:
		return Cell{Text: f.formatTime(value, time.TimeOnly)}
	case datatable.TagBinary:
		return Cell{Text: formatBinary(value), Kind: KindCode}
	case datatable.TagStruct, datatable.TagList, datatable.TagJSON:
		return Cell{Text: formatJSON(value), Kind: KindCode}
	case datatable.TagMoney:
		return Cell{Text: f.formatMoney(value)}
	case datatable.TagPercent:
		n, ok := toFloat(value)
		if !ok {
			return Cell{Text: Empty}
		}
		return Cell{Text: f.decimal(n*100, 2) + "%"}
	case datatable.TagDigit:
		n, ok := toFloat(value)
		if !ok {
			return Cell{Text: Empty}
		}
		return Cell{Text: f.printer.Sprint(number.Decimal(n))}
	case datatable.TagSecond:
		n, ok := toFloat(value)
		if !ok {
			return Cell{Text: Empty}
		}
		return Cell{Text: formatSeconds(n)}
	case datatable.TagProgress:
		n, _ := toFloat(value)
		n = math.Min(math.Max(n, 0), 100)
		return Cell{Text: strconv.FormatFloat(n, 'f', -1, 64) + "%", Kind: KindProgress, Fraction: n / 100}
	case datatable.TagRate:
		n, _ := toFloat(value)
		stars := int(math.Min(math.Max(n, 0), MaxRate))
		return Cell{Text: strings.Repeat("★", stars) + strings.Repeat("☆", MaxRate-stars)}
	case datatable.TagSelect:
		return Cell{Text: choiceLabel(value, opts.Choices)}
	case datatable.TagPassword:
		return Cell{Text: strings.Repeat("*", 8), Kind: KindMasked}
	}
	return Cell{Text: datatable.DisplayText(value), Kind: kindOf(tag)}
}

func kindOf(tag datatable.ValueTag) Kind {
	switch tag {
	case datatable.TagCode:
		return KindCode
	case datatable.TagImage:
		return KindImage
	}
	return KindText
}

func (f *Formatter) decimal(n float64, digits int) string {
	return f.printer.Sprint(number.Decimal(n,
		number.MinFractionDigits(digits), number.MaxFractionDigits(digits)))
}

func (f *Formatter) formatMoney(value any) string {
	n, ok := toFloat(value)
	if !ok {
		return Empty
	}
	if n < 0 {
		return "-" + f.CurrencySymbol + f.decimal(-n, 2)
	}
	return f.CurrencySymbol + f.decimal(n, 2)
}

var timeLayouts = []string{time.RFC3339Nano, time.DateTime, time.DateOnly, time.TimeOnly}

func (f *Formatter) formatTime(value any, layout string) string {
	var t time.Time
	switch v := value.(type) {
	case time.Time:
		t = v
	case string:
		parsed, ok := parseTime(v)
		if !ok {
			return v
		}
		t = parsed
	case int64:
		// Milliseconds since the epoch.
		t = time.UnixMilli(v)
	case int:
		t = time.UnixMilli(int64(v))
	default:
		return datatable.DisplayText(value)
	}
	if f.Location != nil {
		t = t.In(f.Location)
	}
	return t.Format(layout)
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatSeconds(n float64) string {
	total := int64(math.Floor(n))
	sign := ""
	if total < 0 {
		sign, total = "-", -total
	}
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%s%d:%02d:%02d", sign, hours, minutes, secs)
	}
	return fmt.Sprintf("%s%d:%02d", sign, minutes, secs)
}

const maxBinaryBytes = 16

func formatBinary(value any) string {
	b, ok := value.([]byte)
	if !ok {
		return datatable.DisplayText(value)
	}
	if len(b) > maxBinaryBytes {
		return "0x" + hex.EncodeToString(b[:maxBinaryBytes]) + "…"
	}
	return "0x" + hex.EncodeToString(b)
}

func formatJSON(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	b, err := json.Marshal(value)
	if err != nil {
		return datatable.DisplayText(value)
	}
	return string(b)
}

func choiceLabel(value any, choices []datatable.Choice) string {
	text := datatable.DisplayText(value)
	for _, c := range choices {
		if datatable.DisplayText(c.Value) == text {
			return c.Label
		}
	}
	return text
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
