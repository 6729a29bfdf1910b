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

package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magpierre/tableview/datatable"
)

func people() datatable.Rows {
	return datatable.Rows{
		{"name": "Ann", "city": "Oslo", "age": 34},
		{"name": "Bob", "city": "Bergen", "age": 27},
		{"name": "Cid", "city": "Oslo", "age": 41},
		{"name": "Dee", "city": "Tromsø", "age": nil},
	}
}

func registry(t *testing.T) *datatable.Registry {
	t.Helper()
	reg, err := datatable.NewRegistry(
		datatable.NewColumn("name", "Name", datatable.TagText),
		datatable.NewColumn("city", "Home town", datatable.TagText),
		datatable.NewColumn("age", "Age", datatable.TagInt),
	)
	require.NoError(t, err)
	return reg
}

func matching(f datatable.Filter, column string, rows datatable.Rows) []string {
	var names []string
	for _, row := range rows {
		if f.Match(row[column], row) {
			names = append(names, row["name"].(string))
		}
	}
	return names
}

func TestComparison(t *testing.T) {
	rows := people()
	tests := []struct {
		column string
		op     CompOp
		value  string
		want   []string
	}{
		{"city", OpEqual, "oslo", []string{"Ann", "Cid"}},
		{"city", OpNotEqual, "Oslo", []string{"Bob", "Dee"}},
		{"city", OpContains, "RG", []string{"Bob"}},
		{"age", OpGreater, "30", []string{"Ann", "Cid"}},
		{"age", OpLessEqual, "34", []string{"Ann", "Bob"}},
		{"age", OpGreaterEqual, "9", []string{"Ann", "Bob", "Cid"}},
		{"name", OpLess, "c", []string{"Ann", "Bob"}},
	}
	for _, tt := range tests {
		t.Run(tt.column+tt.op.String()+tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, matching(Compare(tt.op, tt.value), tt.column, rows))
		})
	}
}

func TestComparisonWithColumn(t *testing.T) {
	c := &Comparison{Column: "city", Op: OpEqual, Value: "Bergen"}
	// The value handed in is ignored in favour of the row's city.
	assert.Equal(t, []string{"Bob"}, matching(c, "name", people()))
	assert.Equal(t, `city = "Bergen"`, c.Description())
	assert.Equal(t, `~ "x"`, Compare(OpContains, "x").Description())
}

func TestRowContains(t *testing.T) {
	f := &RowContains{Term: "OS"}
	assert.Equal(t, []string{"Ann", "Cid"}, matching(f, "name", people()))
}

func TestCompositeFilter(t *testing.T) {
	rows := people()
	and := And(
		&Comparison{Column: "city", Op: OpEqual, Value: "Oslo"},
		&Comparison{Column: "age", Op: OpGreater, Value: "35"},
	)
	assert.Equal(t, []string{"Cid"}, matching(and, "name", rows))

	or := Or(
		&Comparison{Column: "city", Op: OpEqual, Value: "Bergen"},
		&Comparison{Column: "age", Op: OpGreater, Value: "40"},
	)
	assert.Equal(t, []string{"Bob", "Cid"}, matching(or, "name", rows))
	assert.Equal(t, `(city = "Bergen" OR age > "40")`, or.Description())

	assert.Len(t, matching(And(), "name", rows), 4)
	assert.Equal(t, "empty filter", And().Description())
}

func TestParse(t *testing.T) {
	p := NewParser(registry(t))
	rows := people()

	tests := []struct {
		query string
		want  []string
	}{
		{"city = Oslo", []string{"Ann", "Cid"}},
		{"home town = 'Bergen'", []string{"Bob"}},
		{"CITY = oslo and age > 35", []string{"Cid"}},
		{"city = Bergen OR age >= 41", []string{"Bob", "Cid"}},
		{"tromsø", []string{"Dee"}},
		{"name ~ o OR name ~ e AND age < 30", []string{"Bob"}},
		{"android", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := p.Parse(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, matching(q, "name", rows))
		})
	}
}

func TestParseLeftmostOperator(t *testing.T) {
	p := NewParser(registry(t))

	tests := []struct {
		query string
		want  Comparison
	}{
		{"name ~ a=b", Comparison{Column: "name", Op: OpContains, Value: "a=b"}},
		{"city = x>=y", Comparison{Column: "city", Op: OpEqual, Value: "x>=y"}},
		{"age >= 30", Comparison{Column: "age", Op: OpGreaterEqual, Value: "30"}},
		{"age != 30<", Comparison{Column: "age", Op: OpNotEqual, Value: "30<"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := p.Parse(tt.query)
			require.NoError(t, err)
			require.Len(t, q.Terms, 1)
			assert.Equal(t, &tt.want, q.Terms[0])
		})
	}
}

func TestParseErrors(t *testing.T) {
	p := NewParser(registry(t))

	q, err := p.Parse("   ")
	require.NoError(t, err)
	assert.Nil(t, q)

	_, err = p.Parse("country = Norway")
	assert.ErrorIs(t, err, datatable.ErrUnknownColumn)

	for _, bad := range []string{"AND city = Oslo", "city = Oslo OR", "city = Oslo AND OR age > 3"} {
		_, err = p.Parse(bad)
		assert.ErrorIs(t, err, datatable.ErrInvalidFilter, bad)
	}
}

func TestQuerySplit(t *testing.T) {
	p := NewParser(registry(t))

	q, err := p.Parse("city = Oslo AND age > 30 AND city != Bergen AND ann")
	require.NoError(t, err)
	split := q.Split("name")
	require.Len(t, split, 3)
	assert.IsType(t, &CompositeFilter{}, split["city"])
	assert.IsType(t, &Comparison{}, split["age"])
	assert.IsType(t, &RowContains{}, split["name"])

	q, err = p.Parse("city = Oslo OR age > 30")
	require.NoError(t, err)
	split = q.Split("name")
	require.Len(t, split, 1)
	assert.Same(t, q, split["name"])
	assert.Equal(t, "city = Oslo OR age > 30", split["name"].Description())

	var empty *Query
	assert.Empty(t, empty.Split("name"))
}

func TestQuerySplitInView(t *testing.T) {
	reg := registry(t)
	q, err := NewParser(reg).Parse("city = Oslo AND age > 35")
	require.NoError(t, err)

	s, err := datatable.NewViewState(reg, 10, nil)
	require.NoError(t, err)
	for id, f := range q.Split("name") {
		s, err = datatable.SetFilter(s, id, f)
		require.NoError(t, err)
	}
	win := datatable.Compute(people(), s, reg)
	require.Len(t, win.Rows, 1)
	assert.Equal(t, "Cid", win.Rows[0]["name"])
}

func TestExpr(t *testing.T) {
	e, err := NewExpr(`num(row["age"]) >= 30 && strings.HasPrefix(lower(row["city"]), "o")`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Ann", "Cid"}, matching(e, "name", people()))
	assert.Equal(t, `num(row["age"]) >= 30 && strings.HasPrefix(lower(row["city"]), "o")`, e.Description())
}

func TestExprErrors(t *testing.T) {
	_, err := NewExpr(`row["age"] +`)
	assert.ErrorIs(t, err, datatable.ErrInvalidFilter)

	_, err = NewExpr(`num(row["age"])`)
	assert.ErrorIs(t, err, datatable.ErrInvalidFilter)
}
