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
	"bytes"
	"fmt"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/magpierre/tableview/datatable"
)

// exprSource wraps a boolean Go expression into a predicate. The helpers
// spare expressions the type assertions on interface{} cells.
const exprSource = `package main

import (
	"fmt"
	"strconv"
	"strings"
)

// num returns v as a float64, or 0 when it is not a number.
func num(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	}
	return 0
}

// str returns v as text, with nil as "".
func str(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// lower returns str(v) in lower case.
func lower(v interface{}) string {
	return strings.ToLower(str(v))
}

func Match(row map[string]interface{}) bool {
	return %s
}
`

// Expr is a filter written as a Go boolean expression over row, e.g.
//
//	num(row["age"]) >= 30 && strings.HasPrefix(lower(row["city"]), "o")
//
// The expression is compiled once with the yaegi interpreter. A panic
// while evaluating a row fails that row.
type Expr struct {
	src string

	mu    sync.Mutex
	match func(map[string]interface{}) bool
}

// NewExpr compiles src. Compilation errors wrap datatable.ErrInvalidFilter.
func NewExpr(src string) (*Expr, error) {
	var stderr bytes.Buffer
	i := interp.New(interp.Options{Stdout: &bytes.Buffer{}, Stderr: &stderr})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib symbols: %w", err)
	}
	if _, err := i.Eval(fmt.Sprintf(exprSource, src)); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", datatable.ErrInvalidFilter, src, err)
	}
	v, err := i.Eval("main.Match")
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", datatable.ErrInvalidFilter, src, err)
	}
	match, ok := v.Interface().(func(map[string]interface{}) bool)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a boolean expression", datatable.ErrInvalidFilter, src)
	}
	return &Expr{src: src, match: match}, nil
}

// Match implements datatable.Filter.
func (e *Expr) Match(_ any, row datatable.Row) (ok bool) {
	// Interpreted code is evaluated one row at a time.
	e.mu.Lock()
	defer e.mu.Unlock()
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return e.match(row)
}

// Description implements datatable.Filter.
func (e *Expr) Description() string {
	return e.src
}
