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

// GroupBy buckets its child's rows by KeyAttrs, producing one output row
// per distinct key: the key values themselves, a string hash of the key
// (the synthetic __key__ column), and every member row of the bucket
// (the synthetic __group__ column, an *sql.Group) for any AggFunc
// evaluated above this operator to read.
//
// The original left GroupBy's produce/consume codegen entirely
// unimplemented ("doesn't support compile yet"); the scheme below —
// build a hash index while the child's rows stream through Consume,
// then drive a second loop over the completed index once the child's
// Produce call returns — is this repo's own design, grounded in the
// same two-phase shape OrderBy already uses for operators that
// cannot emit their first output row until they have seen every input
// row.
type GroupBy struct {
	unaryOp
	KeyAttrs []*sql.Attr
}

// NewGroupBy builds a GroupBy over child, bucketing by keyAttrs.
func NewGroupBy(keyAttrs []*sql.Attr, child sql.Node) *GroupBy {
	g := &GroupBy{KeyAttrs: keyAttrs}
	g.Child = child
	SetParents(g)
	return g
}

// InitSchema implements sql.Node: resolves KeyAttrs against the child
// schema and builds the output schema of (key columns..., __key__,
// __group__).
func (g *GroupBy) InitSchema() error {
	childSchema := g.Child.Schema()
	for _, a := range g.KeyAttrs {
		idx, err := childSchema.Idx(a)
		if err != nil {
			return err
		}
		a.Idx = idx
	}

	var attrs []*sql.Attr
	for i, a := range g.KeyAttrs {
		cp := *a
		cp.Idx = i
		attrs = append(attrs, &cp)
	}
	attrs = append(attrs, sql.NewAttr(sql.KeyAttrName, sql.StrType, ""))

	groupAttr := sql.NewAttr(sql.GroupAttrName, sql.UnknownType, "")
	gs := childSchema.Copy()
	groupAttr.GroupSchema = &gs
	attrs = append(attrs, groupAttr)

	g.schema = sql.NewSchema(attrs...)
	g.schema[len(g.schema)-1].GroupSchema = &gs
	return nil
}

func (g *GroupBy) String() string {
	return fmt.Sprintf("GroupBy(%v, %s)", g.KeyAttrs, g.Child.String())
}

// GroupBucket is one bucket of a GroupBy's hash index: the key column
// values that hashed into it, plus every member row seen so far. It is
// exported because GroupBy's generated code constructs and indexes it by
// name (the emitted program imports this package for that purpose
// alone, not to call back into any interpreted-execution code).
type GroupBucket struct {
	KeyVals []interface{}
	Rows    []*sql.Row
}

// Iterator implements sql.Node: materializes every bucket up front, then
// replays them one row per call.
func (g *GroupBy) Iterator() (sql.RowIter, error) {
	child, err := g.Child.Iterator()
	if err != nil {
		return nil, err
	}
	defer child.Close()

	childSchema := g.Child.Schema()
	buckets := map[uint64]*GroupBucket{}
	var order []uint64
	for {
		row, err := child.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		keyVals, err := keyOf(row, g.KeyAttrs)
		if err != nil {
			return nil, err
		}
		h, err := sql.HashValues(keyVals)
		if err != nil {
			return nil, err
		}
		b, ok := buckets[h]
		if !ok {
			b = &GroupBucket{KeyVals: keyVals}
			buckets[h] = b
			order = append(order, h)
		}
		b.Rows = append(b.Rows, row.Copy())
	}

	rows := make([]*sql.Row, len(order))
	for i, h := range order {
		b := buckets[h]
		vals := append(append([]interface{}{}, b.KeyVals...), fmt.Sprintf("%x", h))
		vals = append(vals, &sql.Group{Schema: childSchema, Rows: b.Rows})
		rows[i] = &sql.Row{Schema: g.schema, Values: vals}
	}

	return &groupByIter{rows: rows}, nil
}

type groupByIter struct {
	rows []*sql.Row
	pos  int
}

func (it *groupByIter) Next() (*sql.Row, error) {
	if it.pos >= len(it.rows) {
		return nil, io.EOF
	}
	r := it.rows[it.pos]
	it.pos++
	return r, nil
}

func (it *groupByIter) Close() error { return nil }

// Produce implements sql.Node: drives the child to fill a bucket map,
// then loops over the finished map emitting one row per bucket.
func (g *GroupBy) Produce(ctx *compiler.Context) error {
	bucketsVar := ctx.Compiler.NewVar("gb_buckets")
	orderVar := ctx.Compiler.NewVar("gb_order")
	ctx.Compiler.AddLine("%s := make(map[uint64]*plan.GroupBucket)", bucketsVar)
	ctx.Compiler.AddLine("var %s []uint64", orderVar)

	ctx.RequestVars(map[string]interface{}{"gbBuckets": bucketsVar, "gbOrder": orderVar})
	if err := g.Child.Produce(ctx); err != nil {
		ctx.PopVars()
		return err
	}
	ctx.PopVars()

	childSchemaVar := ctx.Compiler.NewVar("gb_child_schema")
	ctx.Compiler.AddLine("%s := %s", childSchemaVar, g.Child.Schema().CompileConstructor())

	hVar := ctx.Compiler.NewVar("gb_h")
	ctx.Compiler.AddLine("for _, %s := range %s {", hVar, orderVar)
	return ctx.Compiler.WithIndent(func() error {
		bVar := ctx.Compiler.NewVar("gb_bucket")
		ctx.Compiler.AddLine("%s := %s[%s]", bVar, bucketsVar, hVar)

		outVar := ctx.Compiler.NewVar("gb_row")
		ctx.Compiler.AddLine("%s := &sql.Row{Schema: %s, Values: append(append([]interface{}{}, %s.KeyVals...), fmt.Sprintf(\"%%x\", %s), &sql.Group{Schema: %s, Rows: %s.Rows})}",
			outVar, g.schema.CompileConstructor(), bVar, hVar, childSchemaVar, bVar)

		parent := g.Parent()
		if parent == nil {
			return nil
		}
		ctx.RequestVars(map[string]interface{}{"row": outVar})
		err := parent.Consume(ctx, g.schema, g)
		ctx.PopVars()
		return err
	})
}

// Consume implements sql.Node: inserts the incoming row into the bucket
// keyed by KeyAttrs, creating the bucket on first sight of a key.
func (g *GroupBy) Consume(ctx *compiler.Context, schema sql.Schema, source sql.Node) error {
	rowVar := ctx.Get("row").(string)
	bucketsVar := ctx.Get("gbBuckets").(string)
	orderVar := ctx.Get("gbOrder").(string)

	keyVar := ctx.Compiler.NewVar("gb_key")
	ctx.Compiler.AddLine("%s := make([]interface{}, %d)", keyVar, len(g.KeyAttrs))
	for i, a := range g.KeyAttrs {
		ctx.Compiler.AddLine("%s[%d] = %s.Get(%d)", keyVar, i, rowVar, a.Idx)
	}
	hVar := ctx.Compiler.NewVar("gb_h")
	ctx.Compiler.AddLine("%s, _ := sql.HashValues(%s)", hVar, keyVar)

	bVar := ctx.Compiler.NewVar("gb_bucket")
	ctx.Compiler.AddLine("%s, ok := %s[%s]", bVar, bucketsVar, hVar)
	ctx.Compiler.AddLine("if !ok {")
	err := ctx.Compiler.WithIndent(func() error {
		ctx.Compiler.AddLine("%s = &plan.GroupBucket{KeyVals: %s}", bVar, keyVar)
		ctx.Compiler.AddLine("%s[%s] = %s", bucketsVar, hVar, bVar)
		ctx.Compiler.AddLine("%s = append(%s, %s)", orderVar, orderVar, hVar)
		return nil
	})
	if err != nil {
		return err
	}
	ctx.Compiler.AddLine("}")
	ctx.Compiler.AddLine("%s.Rows = append(%s.Rows, %s.Copy())", bVar, bVar, rowVar)
	return nil
}
