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

package export

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/magpierre/tableview/datatable"
)

// appendValue appends v to b. Values that do not convert to the builder's
// type are appended as nulls.
func appendValue(b array.Builder, tag datatable.ValueTag, v any) {
	if v == nil {
		b.AppendNull()
		return
	}

	switch fb := b.(type) {
	case *array.Int64Builder:
		if n, ok := toInt64(v); ok {
			fb.Append(n)
			return
		}
	case *array.Float64Builder:
		if f, ok := toFloat64(v); ok {
			fb.Append(f)
			return
		}
	case *array.BooleanBuilder:
		switch val := v.(type) {
		case bool:
			fb.Append(val)
			return
		case string:
			if parsed, err := strconv.ParseBool(val); err == nil {
				fb.Append(parsed)
				return
			}
		}
	case *array.Date32Builder:
		if t, ok := v.(time.Time); ok {
			fb.Append(arrow.Date32FromTime(t))
			return
		}
	case *array.TimestampBuilder:
		if t, ok := v.(time.Time); ok {
			fb.Append(arrow.Timestamp(t.UnixMilli()))
			return
		}
	case *array.BinaryBuilder:
		switch val := v.(type) {
		case []byte:
			fb.Append(val)
			return
		case string:
			fb.AppendString(val)
			return
		}
	case *array.StringBuilder:
		if t, ok := v.(time.Time); ok && tag == datatable.TagTime {
			fb.Append(t.Format(time.TimeOnly))
			return
		}
		fb.Append(datatable.DisplayText(v))
		return
	}
	b.AppendNull()
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint:
		if uint64(n) <= math.MaxInt64 {
			return int64(n), true
		}
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n), true
		}
	case float64:
		if n == math.Trunc(n) && math.Abs(n) < math.MaxInt64 {
			return int64(n), true
		}
	case float32:
		return toInt64(float64(n))
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		return i, err == nil
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	if u, ok := v.(uint64); ok {
		return float64(u), true
	}
	return 0, false
}
