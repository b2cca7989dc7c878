// Copyright 2020-2021 Dolthub, Inc.
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

package sql

import "io"

// Table is a named, in-memory collection of rows sharing one schema.
// It is a concrete struct, not an interface; NewInMemoryTable is its
// constructor.
type Table struct {
	Name   string
	schema Schema
	rows   []*Row
}

// NewInMemoryTable builds a table from a schema and a set of rows. Each
// row's Schema field is rewritten to the table's schema so rows produced
// outside the table (e.g. loaded from CSV) still share one schema object.
func NewInMemoryTable(name string, schema Schema, rows [][]interface{}) *Table {
	schema.SetTablename(name)
	t := &Table{Name: name, schema: schema}
	for _, vals := range rows {
		t.rows = append(t.rows, &Row{Schema: schema, Values: vals})
	}
	return t
}

// Schema returns the table's column descriptors.
func (t *Table) Schema() Schema { return t.schema }

// Len returns the row count, used directly by Stats' cardinality.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns the table's backing row slice directly, letting Scan's
// iterator copy values into a single reused tuple buffer rather than
// allocating a fresh Row per iteration.
func (t *Table) Rows() []*Row { return t.rows }

// ColValues returns every value of the named column, used by Stats to
// compute min/max/distinct counts.
func (t *Table) ColValues(aname string) ([]interface{}, error) {
	idx := t.schema.IndexOfName(aname)
	if idx == UnboundIdx {
		return nil, ErrNoSuchColumn.New(aname)
	}
	out := make([]interface{}, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Values[idx]
	}
	return out, nil
}

// Stats computes and returns this table's statistics, used by the
// optimizer's cardinality/selectivity estimation.
func (t *Table) Stats() (*Stats, error) {
	return newStats(t)
}

// Iterator returns a RowIter walking the table's rows in order.
func (t *Table) Iterator() RowIter {
	return &tableIter{rows: t.rows}
}

type tableIter struct {
	rows []*Row
	pos  int
}

func (it *tableIter) Next() (*Row, error) {
	if it.pos >= len(it.rows) {
		return nil, io.EOF
	}
	r := it.rows[it.pos]
	it.pos++
	return r, nil
}

func (it *tableIter) Close() error { return nil }
