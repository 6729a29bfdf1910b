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
	"fmt"
	"strings"

	"github.com/magpierre/tableview/datatable"
)

// Parser turns search expressions such as
//
//	city = Oslo AND age >= 30 OR name ~ ann
//
// into filters. Column names match ids or labels, ignoring case. A term
// without an operator searches every column. AND and OR are applied left
// to right without precedence.
type Parser struct {
	columns map[string]string
}

// NewParser creates a parser for the columns of reg.
func NewParser(reg *datatable.Registry) *Parser {
	columns := make(map[string]string, reg.Len()*2)
	for _, col := range reg.Columns() {
		columns[strings.ToLower(col.Title())] = col.ID
	}
	// Ids win over labels that happen to collide with them.
	for _, id := range reg.IDs() {
		columns[strings.ToLower(id)] = id
	}
	return &Parser{columns: columns}
}

// Query is a parsed search expression. It is a datatable.Filter over
// whole rows.
type Query struct {
	Terms []datatable.Filter
	// Ops[i] joins the result so far with Terms[i+1].
	Ops []LogicOp
	src string
}

// Parse parses a query string. An empty string yields a nil query.
func (p *Parser) Parse(queryStr string) (*Query, error) {
	if strings.TrimSpace(queryStr) == "" {
		return nil, nil
	}

	q := &Query{src: strings.TrimSpace(queryStr)}
	expectTerm := true
	for _, part := range splitByLogicOps(queryStr) {
		if part.isOperator != !expectTerm {
			return nil, fmt.Errorf("%w: misplaced %q in %q", datatable.ErrInvalidFilter, part.text, queryStr)
		}
		if part.isOperator {
			if part.text == "AND" {
				q.Ops = append(q.Ops, LogicAND)
			} else {
				q.Ops = append(q.Ops, LogicOR)
			}
		} else {
			term, err := p.parseTerm(part.text)
			if err != nil {
				return nil, err
			}
			q.Terms = append(q.Terms, term)
		}
		expectTerm = !expectTerm
	}
	if expectTerm {
		return nil, fmt.Errorf("%w: %q ends with an operator", datatable.ErrInvalidFilter, queryStr)
	}
	return q, nil
}

type queryPart struct {
	text       string
	isOperator bool
}

// splitByLogicOps splits query by whitespace-delimited AND/OR, keeping the
// operators.
func splitByLogicOps(query string) []queryPart {
	var parts []queryPart
	var current strings.Builder
	flush := func() {
		if text := strings.TrimSpace(current.String()); text != "" {
			parts = append(parts, queryPart{text: text})
		}
		current.Reset()
	}

	for i := 0; i < len(query); {
		matched := false
		for _, op := range []string{"AND", "OR"} {
			end := i + len(op)
			if end > len(query) || !strings.EqualFold(query[i:end], op) {
				continue
			}
			if (i == 0 || isWhitespace(query[i-1])) && (end == len(query) || isWhitespace(query[end])) {
				flush()
				parts = append(parts, queryPart{text: op, isOperator: true})
				i = end
				matched = true
				break
			}
		}
		if !matched {
			current.WriteByte(query[i])
			i++
		}
	}
	flush()
	return parts
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// parseTerm parses a single term like "column = value". The leftmost
// operator splits the term, so values may contain operator symbols.
func (p *Parser) parseTerm(term string) (datatable.Filter, error) {
	at, sym := -1, ""
	var op CompOp
	for _, o := range operators {
		idx := strings.Index(term, o.symbol)
		if idx <= 0 {
			continue
		}
		if at < 0 || idx < at || (idx == at && len(o.symbol) > len(sym)) {
			at, sym, op = idx, o.symbol, o.op
		}
	}
	if at < 0 {
		return &RowContains{Term: strings.Trim(term, "\"'")}, nil
	}

	name := strings.TrimSpace(term[:at])
	value := strings.Trim(strings.TrimSpace(term[at+len(sym):]), "\"'")
	id, ok := p.columns[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", datatable.ErrUnknownColumn, name)
	}
	return &Comparison{Column: id, Op: op, Value: value}, nil
}

// Match implements datatable.Filter.
func (q *Query) Match(value any, row datatable.Row) bool {
	if len(q.Terms) == 0 {
		return true
	}
	result := q.Terms[0].Match(value, row)
	for i, op := range q.Ops {
		next := q.Terms[i+1].Match(value, row)
		if op == LogicAND {
			result = result && next
		} else {
			result = result || next
		}
	}
	return result
}

// Description implements datatable.Filter.
func (q *Query) Description() string {
	return q.src
}

// Split distributes the query over column filters. A pure conjunction puts
// each comparison under its own column, so the view shows which columns
// are filtered. Anything else (an OR, or a search over every column) is
// stored whole under anchor.
func (q *Query) Split(anchor string) map[string]datatable.Filter {
	out := map[string]datatable.Filter{}
	if q == nil || len(q.Terms) == 0 {
		return out
	}
	for _, op := range q.Ops {
		if op == LogicOR {
			out[anchor] = q
			return out
		}
	}

	grouped := map[string][]datatable.Filter{}
	var order []string
	for _, term := range q.Terms {
		key := anchor
		if c, ok := term.(*Comparison); ok {
			key = c.Column
		}
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], term)
	}
	for _, key := range order {
		if terms := grouped[key]; len(terms) == 1 {
			out[key] = terms[0]
		} else {
			out[key] = And(terms...)
		}
	}
	return out
}
