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

package plan

import (
	"fmt"
	"io"

	"github.com/owen6314/databass-public/compiler"
	"github.com/owen6314/databass-public/sql"
)

// Scan reads every row of a catalog table, stamping the output schema
// with an (optionally aliased) tablename. It is a source: it has no
// children and its Consume is never called.
type Scan struct {
	sourceOp
	TableName string
	Alias     string
	table     *sql.Table
}

// NewScan builds a Scan over table, presenting it under alias (or the
// table's own name if alias is "").
func NewScan(table *sql.Table, alias string) *Scan {
	if alias == "" {
		alias = table.Name
	}
	return &Scan{TableName: table.Name, Alias: alias, table: table}
}

// InitSchema implements sql.Node: copies the table's schema and restamps
// it with this scan's alias, so a self-join ("FROM t AS a, t AS b") gets
// two independently-disambiguable schemas.
func (s *Scan) InitSchema() error {
	schema := s.table.Schema().Copy()
	schema.SetTablename(s.Alias)
	s.schema = schema
	return nil
}

// Table returns the catalog table this Scan reads, used by the
// optimizer's cost model to reach per-table statistics.
func (s *Scan) Table() *sql.Table { return s.table }

func (s *Scan) String() string {
	if s.Alias != s.TableName {
		return fmt.Sprintf("Scan(%s AS %s)", s.TableName, s.Alias)
	}
	return fmt.Sprintf("Scan(%s)", s.TableName)
}

// Iterator implements sql.Node: walks the table's rows, reusing a single
// tuple buffer across calls to Next (copy it out before retaining it).
func (s *Scan) Iterator() (sql.RowIter, error) {
	return &scanIter{
		rows: s.table.Rows(),
		out:  &sql.Row{Schema: s.schema, Values: make([]interface{}, len(s.schema))},
	}, nil
}

type scanIter struct {
	rows []*sql.Row
	pos  int
	out  *sql.Row
}

func (it *scanIter) Next() (*sql.Row, error) {
	if it.pos >= len(it.rows) {
		return nil, io.EOF
	}
	copy(it.out.Values, it.rows[it.pos].Values)
	it.pos++
	return it.out, nil
}

func (it *scanIter) Close() error { return nil }

// Produce implements sql.Node: emits a loop over the table's rows and
// invokes the parent's Consume once per iteration, variable-named after
// the original's scan_row/scan_i convention.
func (s *Scan) Produce(ctx *compiler.Context) error {
	rowVar := ctx.Compiler.NewVar("scan_row")
	ctx.Compiler.AddLine("for _, %s := range catalog.MustTable(%q).Rows() {", rowVar, s.TableName)
	return ctx.Compiler.WithIndent(func() error {
		aliasedVar := ctx.Compiler.NewVar("scan_aliased")
		ctx.Compiler.AddLine("%s := &sql.Row{Schema: %s, Values: %s.Values}", aliasedVar, s.schema.CompileConstructor(), rowVar)
		parent := s.Parent()
		if parent == nil {
			return nil
		}
		ctx.RequestVars(map[string]interface{}{"row": aliasedVar})
		err := parent.Consume(ctx, s.schema, s)
		ctx.PopVars()
		return err
	})
}

// Consume implements sql.Node. Scan is a source: nothing ever calls its
// Consume.
func (s *Scan) Consume(ctx *compiler.Context, schema sql.Schema, source sql.Node) error {
	return sql.ErrUnsupportedOperator.New("Scan.Consume is never called")
}
