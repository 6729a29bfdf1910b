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

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/mattn/go-runewidth"
)

const (
	// DefaultCharWidth approximates one terminal cell of 14px body text.
	DefaultCharWidth float32 = 8

	// DefaultHeaderPadding covers horizontal cell padding plus the sort indicator.
	DefaultHeaderPadding float32 = 88

	// DefaultCellPadding covers horizontal cell padding.
	DefaultCellPadding float32 = 48
)

// Measurer returns the rendered width of text in pixels.
// It must be deterministic; negative results are treated as zero.
type Measurer func(text string) float32

// CharWidthMeasurer measures text by display cells: east-asian wide
// runes count as two cells, combining marks as none.
func CharWidthMeasurer(perCell float32) Measurer {
	return func(text string) float32 {
		return float32(runewidth.StringWidth(text)) * perCell
	}
}

// WidthConstraints bounds an estimate.
type WidthConstraints struct {
	Min, Max float32
}

// WidthEstimator recommends a column width from its header label and a
// sample of its cell texts.
type WidthEstimator struct {
	Measure       Measurer
	HeaderPadding float32
	CellPadding   float32
}

// NewWidthEstimator returns an estimator using m with the default paddings.
// A nil m falls back to the character-cell measurer.
func NewWidthEstimator(m Measurer) *WidthEstimator {
	if m == nil {
		m = CharWidthMeasurer(DefaultCharWidth)
	}
	return &WidthEstimator{
		Measure:       m,
		HeaderPadding: DefaultHeaderPadding,
		CellPadding:   DefaultCellPadding,
	}
}

// Estimate returns clamp(max(header, widest sample), c.Min, c.Max).
func (e *WidthEstimator) Estimate(label string, samples []string, c WidthConstraints) float32 {
	w, _ := e.EstimateContext(context.Background(), label, samples, c)
	return w
}

// EstimateContext is Estimate that stops early when ctx is done.
// Measurement may be slow when a real layout pass backs the Measurer.
func (e *WidthEstimator) EstimateContext(ctx context.Context, label string, samples []string, c WidthConstraints) (float32, error) {
	widest := e.measure(label) + e.HeaderPadding
	for i, s := range samples {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		if w := e.measure(s) + e.CellPadding; w > widest {
			widest = w
		}
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return clampWidth(widest, c), nil
}

func (e *WidthEstimator) measure(text string) float32 {
	if text == "" {
		return 0
	}
	w := e.Measure(text)
	if w < 0 || math.IsNaN(float64(w)) {
		return 0
	}
	return w
}

func clampWidth(w float32, c WidthConstraints) float32 {
	if w > c.Max {
		w = c.Max
	}
	if w < c.Min {
		w = c.Min
	}
	return w
}

// DisplayText is the plain text of a cell value used for measurement:
// empty for nil, JSON for maps, slices and structs.
func DisplayText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case time.Time:
		return val.Format(time.DateTime)
	case fmt.Stringer:
		return val.String()
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", val)
	}
}
