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

package csvadapter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magpierre/tableview/datatable"
)

func TestDetectSeparator(t *testing.T) {
	tests := []struct {
		line string
		want rune
	}{
		{"a,b,c", ','},
		{"a;b;c", ';'},
		{"a\tb\tc", '\t'},
		{"a|b|c", '|'},
		{"a;b,c;d", ';'},
		{"single", ','},
		{"", ','},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectSeparator(tt.line), tt.line)
	}
	assert.Equal(t, "semicolon", SeparatorName(';'))
	assert.Equal(t, "tab", SeparatorName('\t'))
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("id;name;score\n1;Ann;3.5\n2;Bob;4\n"), 0o600))

	src, err := NewFromFile(path, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, ';', src.Delimiter)
	assert.Equal(t, 2, src.RowCount())
	assert.Equal(t, 3, src.ColumnCount())

	reg, err := src.Registry()
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "score"}, reg.IDs())
	col, err := reg.Column("id")
	require.NoError(t, err)
	assert.Equal(t, datatable.TagInt, col.Tag)
	col, err = reg.Column("score")
	require.NoError(t, err)
	assert.Equal(t, datatable.TagFloat, col.Tag)

	assert.Equal(t, int64(2), src.Row(1)["id"])
	assert.Equal(t, "Bob", src.Row(1)["name"])
	assert.Equal(t, 4.0, src.Row(1)["score"])
}

func TestHeaderless(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HasHeaders = false
	cfg.Delimiter = ','

	src, err := NewFromReader(strings.NewReader("a,b\nc,d\n"), cfg)
	require.NoError(t, err)
	reg, err := src.Registry()
	require.NoError(t, err)
	assert.Equal(t, []string{"Column 1", "Column 2"}, reg.IDs())
	assert.Equal(t, 2, src.Len())
	assert.Equal(t, "d", src.Row(1)["Column 2"])
}

func TestEmptyInput(t *testing.T) {
	_, err := NewFromReader(strings.NewReader("\n"), DefaultConfig())
	assert.Error(t, err)

	_, err = NewFromFile(filepath.Join(t.TempDir(), "missing.csv"), DefaultConfig())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
