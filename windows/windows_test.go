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
	"os"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	delta_sharing "github.com/magpierre/go_delta_sharing_client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	sliceadapter "github.com/magpierre/tableview/adapters/slice"
	"github.com/magpierre/tableview/datatable"
	"github.com/magpierre/tableview/loader"
)

func TestNavigationTree(t *testing.T) {
	nt := NewNavigationTree()
	nt.SetTables([]string{"sales", "empty"}, []delta_sharing.Table{
		{Name: "orders", Share: "sales", Schema: "retail"},
		{Name: "items", Share: "sales", Schema: "retail"},
		{Name: "events", Share: "logs", Schema: "web"},
	})

	assert.Equal(t, []string{"sales", "empty", "logs"}, nt.ChildUIDs(""))
	assert.Equal(t, []string{"sales/retail"}, nt.ChildUIDs("sales"))
	assert.Equal(t, []string{"sales/retail/orders", "sales/retail/items"}, nt.ChildUIDs("sales/retail"))
	assert.Empty(t, nt.ChildUIDs("empty"))
	assert.Nil(t, nt.ChildUIDs("missing"))

	assert.True(t, nt.IsBranch(""))
	assert.True(t, nt.IsBranch("empty"))
	assert.True(t, nt.IsBranch("logs/web"))
	assert.False(t, nt.IsBranch("logs/web/events"))
	assert.False(t, nt.IsBranch("missing"))

	leaf := nt.Node("logs/web/events")
	require.NotNil(t, leaf)
	assert.Equal(t, NodeTable, leaf.Kind)
	assert.Equal(t, "events", leaf.Table.Name)

	nt.SetTables(nil, nil)
	assert.Empty(t, nt.ChildUIDs(""))
}

func TestNavigationTreeSelectsTables(t *testing.T) {
	test.NewTempApp(t)

	nt := NewNavigationTree()
	nt.SetTables(nil, []delta_sharing.Table{{Name: "orders", Share: "sales", Schema: "retail"}})
	var selected []string
	nt.OnTableSelected = func(table delta_sharing.Table) { selected = append(selected, table.Name) }

	tree := nt.Widget()
	tree.Select("sales")
	tree.Select("sales/retail/orders")
	assert.Equal(t, []string{"orders"}, selected)
}

func TestListDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.parquet", "notes.md", ".hidden.csv", "c.CSV"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	entries, err := listDir(dir, dataExtensions)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"sub", "a.parquet", "b.csv", "c.CSV"}, names)

	_, err = listDir(filepath.Join(dir, "missing"), dataExtensions)
	assert.Error(t, err)
}

func TestCleanFilename(t *testing.T) {
	assert.Equal(t, "sales_2024-q1", cleanFilename("sales 2024-q1"))
	assert.Equal(t, "ordersv2", cleanFilename("orders.v2"))
	assert.Equal(t, "table", cleanFilename("../.."))
}

func TestLoadOptionsValidate(t *testing.T) {
	assert.NoError(t, LoadOptions{PageSize: 25}.Validate())
	assert.ErrorIs(t, LoadOptions{}.Validate(), datatable.ErrInvalidPageSize)
	assert.ErrorIs(t, LoadOptions{PageSize: -1}.Validate(), datatable.ErrInvalidPageSize)
}

func peopleResult(t *testing.T) *loader.Result {
	t.Helper()
	src, err := sliceadapter.NewFromRows([]datatable.Column{
		datatable.NewColumn("name", "Name", datatable.TagText),
		datatable.NewColumn("age", "Age", datatable.TagInt),
	}, []map[string]any{
		{"name": "Ada", "age": 36},
		{"name": "Grace", "age": 45},
		{"name": "Linus", "age": 21},
	})
	require.NoError(t, err)
	return &loader.Result{Name: "people", Type: loader.FileTypeJSON, Source: src}
}

func TestDataBrowserOpenAndClose(t *testing.T) {
	test.NewTempApp(t)
	w := test.NewWindow(nil)
	defer w.Close()

	var status string
	b := NewDataBrowser(w, datatable.DefaultConfig(), zap.NewNop(), func(s string) { status = s })
	assert.Nil(t, b.Current())

	d, err := b.Open(peopleResult(t))
	require.NoError(t, err)
	assert.Equal(t, 1, b.Len())
	assert.Same(t, d, b.Current())
	assert.Equal(t, "Loaded JSON: people (3 rows, 2 columns)", status)
	assert.Equal(t, "Table people (2 columns x 3 rows)", b.summary(d))

	require.NoError(t, d.Model.SetVisibility("age", false))
	assert.Equal(t, "Table people (showing 1/2 columns x 3/3 rows)", b.summary(d))

	b.close(d.tab)
	assert.Equal(t, 0, b.Len())
	assert.Nil(t, b.Current())
	assert.Equal(t, "Ready", status)
}

func TestDataBrowserPerTabConfig(t *testing.T) {
	test.NewTempApp(t)
	w := test.NewWindow(nil)
	defer w.Close()

	b := NewDataBrowser(w, datatable.DefaultConfig(), zap.NewNop(), func(string) {})
	cfg := datatable.DefaultConfig()
	cfg.PageSize = 2

	d, err := b.OpenWithConfig(peopleResult(t), cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Model.Config().PageSize)
	assert.Len(t, d.Model.Window().Rows, 2)
}

func TestRowActionReadOnly(t *testing.T) {
	test.NewTempApp(t)
	w := test.NewWindow(nil)
	defer w.Close()

	var status string
	b := NewDataBrowser(w, datatable.DefaultConfig(), zap.NewNop(), func(s string) { status = s })
	d, err := b.Open(peopleResult(t))
	require.NoError(t, err)

	b.rowAction(d, datatable.ActionInvoked{ActionKey: datatable.ActionDelete})
	assert.Equal(t, "people is read-only", status)
}
