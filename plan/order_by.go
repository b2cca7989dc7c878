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
	"sort"

	"github.com/owen6314/databass-public/compiler"
	"github.com/owen6314/databass-public/sql"
)

// OrderBy sorts its child's rows ascending by Attrs, materializing them
// fully before yielding the first one. NewOrderBy takes no sort
// direction: every OrderBy sorts ascending, and there is no DESC form to
// request or reject. Neither the original codegen nor this one has a
// DESC comparator.
//
// Known limitation, carried over unchanged from the original: OrderBy
// resolves its Attrs against its immediate child's schema, which may
// already be a Project — so `SELECT a AS b FROM t ORDER BY a` fails to
// resolve `a` once the Project has renamed it away. This mirrors the
// original interpreter's behavior and is not silently fixed here.
type OrderBy struct {
	unaryOp
	Attrs []*sql.Attr
}

// NewOrderBy builds an OrderBy over child, sorting ascending by attrs.
func NewOrderBy(attrs []*sql.Attr, child sql.Node) *OrderBy {
	o := &OrderBy{Attrs: attrs}
	o.Child = child
	SetParents(o)
	return o
}

// InitSchema implements sql.Node: an OrderBy never changes its schema.
func (o *OrderBy) InitSchema() error {
	o.schema = o.Child.Schema()
	for _, a := range o.Attrs {
		idx, err := o.schema.Idx(a)
		if err != nil {
			return err
		}
		a.Idx = idx
	}
	return nil
}

func (o *OrderBy) String() string {
	names := make([]string, len(o.Attrs))
	for i, a := range o.Attrs {
		names[i] = a.String()
	}
	return fmt.Sprintf("OrderBy(%v, %s)", names, o.Child.String())
}

// Iterator implements sql.Node: materializes every child row, sorts
// them, and replays them in order.
func (o *OrderBy) Iterator() (sql.RowIter, error) {
	child, err := o.Child.Iterator()
	if err != nil {
		return nil, err
	}
	defer child.Close()

	var rows []*sql.Row
	for {
		row, err := child.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row.Copy())
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, a := range o.Attrs {
			vi, vj := rows[i].Get(a.Idx), rows[j].Get(a.Idx)
			switch {
			case sql.Less(vi, vj):
				return true
			case sql.Less(vj, vi):
				return false
			}
		}
		return false
	})

	return &orderByIter{rows: rows}, nil
}

type orderByIter struct {
	rows []*sql.Row
	pos  int
}

func (it *orderByIter) Next() (*sql.Row, error) {
	if it.pos >= len(it.rows) {
		return nil, io.EOF
	}
	r := it.rows[it.pos]
	it.pos++
	return r, nil
}

func (it *orderByIter) Close() error { return nil }

// Produce implements sql.Node: an OrderBy materializes, so it is its own
// driving loop rather than a pass-through.
func (o *OrderBy) Produce(ctx *compiler.Context) error {
	bufVar := ctx.Compiler.NewVar("order_buf")
	ctx.Compiler.AddLine("var %s []*sql.Row", bufVar)

	ctx.RequestVars(map[string]interface{}{"orderBuf": bufVar})
	if err := o.Child.Produce(ctx); err != nil {
		ctx.PopVars()
		return err
	}
	ctx.PopVars()

	idxVar := ctx.Compiler.NewVar("order_i")
	jVar := ctx.Compiler.NewVar("order_j")
	ctx.Compiler.AddLine("sort.SliceStable(%s, func(%s, %s int) bool {", bufVar, idxVar, jVar)
	err := ctx.Compiler.WithIndent(func() error {
		for _, a := range o.Attrs {
			viVar := ctx.Compiler.NewVar("vi")
			vjVar := ctx.Compiler.NewVar("vj")
			ctx.Compiler.AddLine("%s, %s := %s[%s].Get(%d), %s[%s].Get(%d)", viVar, vjVar, bufVar, idxVar, a.Idx, bufVar, jVar, a.Idx)
			ctx.Compiler.AddLine("if sql.Less(%s, %s) { return true }", viVar, vjVar)
			ctx.Compiler.AddLine("if sql.Less(%s, %s) { return false }", vjVar, viVar)
		}
		ctx.Compiler.AddLine("return false")
		return nil
	})
	if err != nil {
		return err
	}
	ctx.Compiler.AddLine("})")

	rowVar := ctx.Compiler.NewVar("order_row")
	ctx.Compiler.AddLine("for _, %s := range %s {", rowVar, bufVar)
	return ctx.Compiler.WithIndent(func() error {
		parent := o.Parent()
		if parent == nil {
			return nil
		}
		ctx.RequestVars(map[string]interface{}{"row": rowVar})
		err := parent.Consume(ctx, o.schema, o)
		ctx.PopVars()
		return err
	})
}

// Consume implements sql.Node: buffers the row for the sort performed
// once Produce's child loop completes.
func (o *OrderBy) Consume(ctx *compiler.Context, schema sql.Schema, source sql.Node) error {
	rowVar := ctx.Get("row").(string)
	bufVar := ctx.Get("orderBuf").(string)
	ctx.Compiler.AddLine("%s = append(%s, %s.Copy())", bufVar, bufVar, rowVar)
	return nil
}
