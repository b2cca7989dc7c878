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

// SubQuerySource wraps a nested query plan and presents its output rows
// under an alias tablename, the way `FROM (SELECT ...) AS alias` does.
// It behaves as a source to whatever wraps it (its Consume is invoked by
// its child subplan's root, not by any Scan directly beneath it) while
// itself delegating Produce downward into the subplan.
type SubQuerySource struct {
	unaryOp
	Alias string
}

// NewSubQuerySource wraps subplan's output under alias.
func NewSubQuerySource(subplan sql.Node, alias string) *SubQuerySource {
	s := &SubQuerySource{Alias: alias}
	s.Child = subplan
	SetParents(s)
	return s
}

// InitSchema implements sql.Node.
func (s *SubQuerySource) InitSchema() error {
	schema := s.Child.Schema().Copy()
	schema.SetTablename(s.Alias)
	s.schema = schema
	return nil
}

func (s *SubQuerySource) String() string {
	return fmt.Sprintf("SubQuerySource(%s AS %s)", s.Child.String(), s.Alias)
}

// Iterator implements sql.Node.
func (s *SubQuerySource) Iterator() (sql.RowIter, error) {
	inner, err := s.Child.Iterator()
	if err != nil {
		return nil, err
	}
	return &subQueryIter{inner: inner, out: &sql.Row{Schema: s.schema}}, nil
}

type subQueryIter struct {
	inner sql.RowIter
	out   *sql.Row
}

func (it *subQueryIter) Next() (*sql.Row, error) {
	r, err := it.inner.Next()
	if err != nil {
		return nil, err
	}
	it.out.Values = r.Values
	return it.out, nil
}

func (it *subQueryIter) Close() error { return it.inner.Close() }

// Produce implements sql.Node: delegates into the subplan, whose root
// operator's own parent-chain (wired by SetParents at construction) ends
// at this node's Consume.
func (s *SubQuerySource) Produce(ctx *compiler.Context) error {
	return s.Child.Produce(ctx)
}

// Consume implements sql.Node: called once per row the subplan produces.
// Re-stamps the row under this source's alias schema and forwards it to
// whatever sits above the SubQuerySource.
func (s *SubQuerySource) Consume(ctx *compiler.Context, schema sql.Schema, source sql.Node) error {
	rowVar := ctx.Get("row").(string)
	aliasedVar := ctx.Compiler.NewVar("subq_row")
	ctx.Compiler.AddLine("%s := &sql.Row{Schema: %s, Values: %s.Values}", aliasedVar, s.schema.CompileConstructor(), rowVar)

	parent := s.Parent()
	if parent == nil {
		return nil
	}
	ctx.RequestVars(map[string]interface{}{"row": aliasedVar})
	err := parent.Consume(ctx, s.schema, s)
	ctx.PopVars()
	return err
}
