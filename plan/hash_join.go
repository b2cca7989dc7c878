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

// HashJoin is an equi-join on LAttrs[i] == RAttrs[i] for every i,
// executed by hashing one side into a bucket index and probing it with
// the other.
//
// The interpreted Iterator path builds its hash index over the RIGHT
// side, matching the original implementation's hash_join iterator.
//
// The generated Produce/Consume path instead builds the index over the
// LEFT side (see SPEC_FULL.md Open Question 1): the original left this
// path entirely unimplemented, and the left side's Produce runs first,
// so its rows are all in the index before the right side's loop probes
// it. Iterator and Produce therefore disagree on which side is
// materialized; both compute the same join result.
type HashJoin struct {
	binaryOp
	LAttrs []*sql.Attr
	RAttrs []*sql.Attr
}

// NewHashJoin builds a HashJoin of l and r on lattrs[i] == rattrs[i].
func NewHashJoin(lattrs, rattrs []*sql.Attr, l, r sql.Node) *HashJoin {
	j := &HashJoin{LAttrs: lattrs, RAttrs: rattrs}
	j.L, j.R = l, r
	SetParents(j)
	return j
}

// InitSchema implements sql.Node.
func (j *HashJoin) InitSchema() error {
	j.schema = append(append(sql.Schema{}, j.L.Schema()...), j.R.Schema()...)
	return nil
}

func (j *HashJoin) String() string {
	return fmt.Sprintf("HashJoin(%v = %v, %s, %s)", j.LAttrs, j.RAttrs, j.L.String(), j.R.String())
}

// Iterator implements sql.Node: builds a hash index over every row of R,
// keyed by RAttrs, then streams L probing it.
func (j *HashJoin) Iterator() (sql.RowIter, error) {
	l, err := j.L.Iterator()
	if err != nil {
		return nil, err
	}
	r, err := j.R.Iterator()
	if err != nil {
		return nil, err
	}
	index := map[uint64][]*sql.Row{}
	for {
		row, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		key, err := keyOf(row, j.RAttrs)
		if err != nil {
			return nil, err
		}
		h, err := sql.HashValues(key)
		if err != nil {
			return nil, err
		}
		index[h] = append(index[h], row.Copy())
	}
	r.Close()

	return &hashJoinIter{j: j, l: l, index: index}, nil
}

func keyOf(row *sql.Row, attrs []*sql.Attr) ([]interface{}, error) {
	vals := make([]interface{}, len(attrs))
	for i, a := range attrs {
		v, err := a.Eval(row)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

type hashJoinIter struct {
	j       *HashJoin
	l       sql.RowIter
	index   map[uint64][]*sql.Row
	lRow    *sql.Row
	matches []*sql.Row
	mPos    int
}

func (it *hashJoinIter) Next() (*sql.Row, error) {
	for {
		if it.mPos < len(it.matches) {
			rRow := it.matches[it.mPos]
			it.mPos++
			vals := append(append([]interface{}{}, it.lRow.Values...), rRow.Values...)
			return &sql.Row{Schema: it.j.schema, Values: vals}, nil
		}
		row, err := it.l.Next()
		if err != nil {
			return nil, err
		}
		it.lRow = row
		key, err := keyOf(row, it.j.LAttrs)
		if err != nil {
			return nil, err
		}
		h, err := sql.HashValues(key)
		if err != nil {
			return nil, err
		}
		it.matches = it.index[h]
		it.mPos = 0
	}
}

func (it *hashJoinIter) Close() error { return it.l.Close() }

// Produce implements sql.Node: builds the hash index over the LEFT
// side's rows (see type doc), then drives the right side's Produce to
// probe it.
func (j *HashJoin) Produce(ctx *compiler.Context) error {
	indexVar := ctx.Compiler.NewVar("hj_index")
	ctx.Compiler.AddLine("%s := make(map[uint64][]*sql.Row)", indexVar)

	ctx.RequestVars(map[string]interface{}{"hashJoinIndex": indexVar, "hashJoinBuild": "left"})
	if err := j.L.Produce(ctx); err != nil {
		ctx.PopVars()
		return err
	}
	ctx.PopVars()

	ctx.RequestVars(map[string]interface{}{"hashJoinIndex": indexVar, "hashJoinBuild": "probe"})
	err := j.R.Produce(ctx)
	ctx.PopVars()
	return err
}

// Consume implements sql.Node: while building (source == j.L), inserts
// the row into the index; while probing (source == j.R), looks up
// matches and forwards each joined row.
func (j *HashJoin) Consume(ctx *compiler.Context, schema sql.Schema, source sql.Node) error {
	indexVar := ctx.Get("hashJoinIndex").(string)
	mode := ctx.Get("hashJoinBuild").(string)

	if mode == "left" {
		lRowVar := ctx.Get("row").(string)
		keyVar := ctx.Compiler.NewVar("hj_key")
		ctx.Compiler.AddLine("%s := make([]interface{}, %d)", keyVar, len(j.LAttrs))
		for i, a := range j.LAttrs {
			ctx.Compiler.AddLine("%s[%d] = %s.Get(%d)", keyVar, i, lRowVar, a.Idx)
		}
		hVar := ctx.Compiler.NewVar("hj_h")
		ctx.Compiler.AddLine("%s, _ := sql.HashValues(%s)", hVar, keyVar)
		ctx.Compiler.AddLine("%s[%s] = append(%s[%s], %s.Copy())", indexVar, hVar, indexVar, hVar, lRowVar)
		return nil
	}

	rRowVar := ctx.Get("row").(string)
	keyVar := ctx.Compiler.NewVar("hj_key")
	ctx.Compiler.AddLine("%s := make([]interface{}, %d)", keyVar, len(j.RAttrs))
	for i, a := range j.RAttrs {
		ctx.Compiler.AddLine("%s[%d] = %s.Get(%d)", keyVar, i, rRowVar, a.Idx)
	}
	hVar := ctx.Compiler.NewVar("hj_h")
	ctx.Compiler.AddLine("%s, _ := sql.HashValues(%s)", hVar, keyVar)

	matchVar := ctx.Compiler.NewVar("hj_match")
	ctx.Compiler.AddLine("for _, %s := range %s[%s] {", matchVar, indexVar, hVar)
	return ctx.Compiler.WithIndent(func() error {
		joinedVar := ctx.Compiler.NewVar("hj_row")
		ctx.Compiler.AddLine("%s := &sql.Row{Schema: %s, Values: append(append([]interface{}{}, %s.Values...), %s.Values...)}",
			joinedVar, j.schema.CompileConstructor(), matchVar, rRowVar)
		parent := j.Parent()
		if parent == nil {
			return nil
		}
		ctx.RequestVars(map[string]interface{}{"row": joinedVar})
		err := parent.Consume(ctx, j.schema, j)
		ctx.PopVars()
		return err
	})
}
