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

	"github.com/owen6314/databass-public/compiler"
	"github.com/owen6314/databass-public/sql"
)

// TableFunctionSource is a placeholder source for a table-valued function
// (e.g. a future no-FROM-clause `SELECT 1`): the original's equivalent op
// (ops.py's TableFunctionSource) never got an implementation either, and
// per SPEC_FULL.md §3/§7 this module keeps it that way rather than
// inventing table-valued-function semantics the spec never asked for.
type TableFunctionSource struct {
	sourceOp
	Alias string
	Gen   func() ([]*sql.Row, error)
}

// NewTableFunctionSource builds a source presenting schema under alias.
// gen is retained for callers that inspect it, but nothing ever invokes
// it: every execution path returns sql.ErrUnsupportedOperator.
func NewTableFunctionSource(schema sql.Schema, alias string, gen func() ([]*sql.Row, error)) *TableFunctionSource {
	schema = schema.Copy()
	schema.SetTablename(alias)
	return &TableFunctionSource{sourceOp: sourceOp{schema: schema}, Alias: alias, Gen: gen}
}

// InitSchema implements sql.Node: the schema is fixed at construction.
func (t *TableFunctionSource) InitSchema() error { return nil }

func (t *TableFunctionSource) String() string {
	return fmt.Sprintf("TableFunctionSource(%s)", t.Alias)
}

// Iterator implements sql.Node. TableFunctionSource is not implemented,
// matching ops.py's TableFunctionSource.__iter__.
func (t *TableFunctionSource) Iterator() (sql.RowIter, error) {
	return nil, sql.ErrUnsupportedOperator.New("TableFunctionSource: not implemented")
}

// Produce implements sql.Node. TableFunctionSource is not implemented.
func (t *TableFunctionSource) Produce(ctx *compiler.Context) error {
	return sql.ErrUnsupportedOperator.New("TableFunctionSource: not implemented")
}

// Consume implements sql.Node. TableFunctionSource is a source: nothing
// ever calls its Consume.
func (t *TableFunctionSource) Consume(ctx *compiler.Context, schema sql.Schema, source sql.Node) error {
	return sql.ErrUnsupportedOperator.New("TableFunctionSource.Consume is never called")
}
