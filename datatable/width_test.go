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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharWidthMeasurer(t *testing.T) {
	m := CharWidthMeasurer(8)
	assert.Equal(t, float32(24), m("abc"))
	assert.Equal(t, float32(0), m(""))
	// Wide runes take two cells.
	assert.Equal(t, float32(32), m("漢字"))
}

func TestEstimate(t *testing.T) {
	est := NewWidthEstimator(nil)
	bounds := WidthConstraints{Min: 50, Max: 800}

	// Header wins: 4*8+88 = 120 against 8*8+48 = 112.
	assert.Equal(t, float32(120), est.Estimate("Name", []string{"abc", "abcdefgh"}, bounds))

	// Widest sample wins: 20*8+48 = 208.
	assert.Equal(t, float32(208), est.Estimate("Name", []string{"abcdefghijklmnopqrst"}, bounds))

	// Clamped on both sides.
	assert.Equal(t, float32(150), est.Estimate("N", nil, WidthConstraints{Min: 150, Max: 800}))
	assert.Equal(t, float32(100), est.Estimate("Name", []string{"abcdefghijklmnopqrst"}, WidthConstraints{Min: 50, Max: 100}))
}

func TestEstimateIsDeterministic(t *testing.T) {
	est := NewWidthEstimator(nil)
	samples := []string{"alpha", "beta", "gamma delta"}
	bounds := WidthConstraints{Min: 0, Max: 800}
	assert.Equal(t, est.Estimate("Label", samples, bounds), est.Estimate("Label", samples, bounds))
}

func TestEstimateIgnoresNegativeMeasurements(t *testing.T) {
	est := NewWidthEstimator(func(string) float32 { return -10 })
	assert.Equal(t, float32(DefaultHeaderPadding), est.Estimate("x", []string{"y"}, WidthConstraints{Max: 800}))
}

func TestEstimateContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewWidthEstimator(nil).EstimateContext(ctx, "x", []string{"y"}, WidthConstraints{Max: 800})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDisplayText(t *testing.T) {
	assert.Equal(t, "", DisplayText(nil))
	assert.Equal(t, "abc", DisplayText("abc"))
	assert.Equal(t, "42", DisplayText(42))
	assert.Equal(t, "true", DisplayText(true))
	assert.Equal(t, `{"a":1}`, DisplayText(map[string]any{"a": 1}))
	assert.Equal(t, `[1,"x"]`, DisplayText([]any{1, "x"}))
}
