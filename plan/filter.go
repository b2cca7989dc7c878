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

// Filter yields only the child rows for which Cond evaluates true. Its
// output schema is identical to its child's.
type Filter struct {
	unaryOp
	Cond sql.Expression
}

// NewFilter builds a Filter over child with the given condition.
func NewFilter(cond sql.Expression, child sql.Node) *Filter {
	f := &Filter{Cond: cond}
	f.Child = child
	SetParents(f)
	return f
}

// InitSchema implements sql.Node: a filter never changes its schema.
func (f *Filter) InitSchema() error {
	f.schema = f.Child.Schema()
	return nil
}

func (f *Filter) String() string {
	return fmt.Sprintf("Filter(%s, %s)", f.Cond.String(), f.Child.String())
}

// Iterator implements sql.Node.
func (f *Filter) Iterator() (sql.RowIter, error) {
	child, err := f.Child.Iterator()
	if err != nil {
		return nil, err
	}
	return &filterIter{child: child, cond: f.Cond}, nil
}

type filterIter struct {
	child sql.RowIter
	cond  sql.Expression
}

func (it *filterIter) Next() (*sql.Row, error) {
	for {
		row, err := it.child.Next()
		if err != nil {
			return nil, err
		}
		ok, err := it.cond.Eval(row)
		if err != nil {
			return nil, err
		}
		if b, _ := ok.(bool); b {
			return row, nil
		}
	}
}

func (it *filterIter) Close() error { return it.child.Close() }

// Produce implements sql.Node: a Filter adds no loop of its own, it only
// intercepts Consume calls from whatever is beneath it.
func (f *Filter) Produce(ctx *compiler.Context) error {
	return f.Child.Produce(ctx)
}

// Consume implements sql.Node: emits the condition check and, on a
// passing row, forwards to the parent's Consume.
func (f *Filter) Consume(ctx *compiler.Context, schema sql.Schema, source sql.Node) error {
	rowVar := ctx.Get("row").(string)
	condVar := ctx.Compiler.NewVar("filter_cond")
	ctx.PushIOVars(rowVar, condVar)
	if err := f.Cond.Compile(ctx); err != nil {
		return err
	}

	ctx.Compiler.AddLine("if %s {", condVar)
	err := ctx.Compiler.WithIndent(func() error {
		parent := f.Parent()
		if parent == nil {
			return nil
		}
		return parent.Consume(ctx, schema, f)
	})
	ctx.Compiler.AddLine("}")
	return err
}
