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

// ThetaJoin is the nested-loop join of last resort: for every row of L
// it scans R in full, testing Cond against the concatenated row. The
// optimizer's From-expansion builds every join as a ThetaJoin, equi-joins
// included; it never emits a HashJoin.
type ThetaJoin struct {
	binaryOp
	Cond sql.Expression
}

// NewThetaJoin builds a ThetaJoin of l and r under cond.
func NewThetaJoin(cond sql.Expression, l, r sql.Node) *ThetaJoin {
	j := &ThetaJoin{Cond: cond}
	j.L, j.R = l, r
	SetParents(j)
	return j
}

// InitSchema implements sql.Node: the concatenation of both sides'
// schemas, left then right.
func (j *ThetaJoin) InitSchema() error {
	j.schema = append(append(sql.Schema{}, j.L.Schema()...), j.R.Schema()...)
	return nil
}

func (j *ThetaJoin) String() string {
	return fmt.Sprintf("ThetaJoin(%s, %s, %s)", j.Cond.String(), j.L.String(), j.R.String())
}

// Iterator implements sql.Node: a classic nested-loop join iterator.
// R's rows are copied into a buffer once, up front, since R's own
// Iterator may not support replay; every L row is then paired with
// each buffered R row.
func (j *ThetaJoin) Iterator() (sql.RowIter, error) {
	l, err := j.L.Iterator()
	if err != nil {
		return nil, err
	}
	var rRows []*sql.Row
	r, err := j.R.Iterator()
	if err != nil {
		return nil, err
	}
	for {
		row, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rRows = append(rRows, row.Copy())
	}
	r.Close()

	return &thetaJoinIter{j: j, l: l, rRows: rRows, rPos: len(rRows)}, nil
}

type thetaJoinIter struct {
	j     *ThetaJoin
	l     sql.RowIter
	lRow  *sql.Row
	rRows []*sql.Row
	rPos  int
}

func (it *thetaJoinIter) Next() (*sql.Row, error) {
	for {
		if it.lRow == nil || it.rPos >= len(it.rRows) {
			row, err := it.l.Next()
			if err != nil {
				return nil, err
			}
			it.lRow = row
			it.rPos = 0
		}
		for it.rPos < len(it.rRows) {
			rRow := it.rRows[it.rPos]
			it.rPos++
			vals := append(append([]interface{}{}, it.lRow.Values...), rRow.Values...)
			joined := &sql.Row{Schema: it.j.schema, Values: vals}
			ok, err := it.j.Cond.Eval(joined)
			if err != nil {
				return nil, err
			}
			if b, _ := ok.(bool); b {
				return joined, nil
			}
		}
	}
}

func (it *thetaJoinIter) Close() error { return it.l.Close() }

// Produce implements sql.Node: the left side drives the outer loop, the
// right side's Produce is re-invoked from within L's Consume so that it
// runs once per L row — the textbook nested-loop shape.
func (j *ThetaJoin) Produce(ctx *compiler.Context) error {
	return j.L.Produce(ctx)
}

// Consume implements sql.Node. Two call sites: when source is j.L, it
// stashes the left row and drives R's Produce; when source is j.R, it
// has both rows available, evaluates Cond, and forwards the joined row.
func (j *ThetaJoin) Consume(ctx *compiler.Context, schema sql.Schema, source sql.Node) error {
	if source == j.L {
		lRowVar := ctx.Get("row").(string)
		ctx.RequestVars(map[string]interface{}{"thetaLeftRow": lRowVar})
		err := j.R.Produce(ctx)
		ctx.PopVars()
		return err
	}

	rRowVar := ctx.Get("row").(string)
	lRowVar := ctx.Get("thetaLeftRow").(string)

	joinedVar := ctx.Compiler.NewVar("theta_row")
	ctx.Compiler.AddLine("%s := &sql.Row{Schema: %s, Values: append(append([]interface{}{}, %s.Values...), %s.Values...)}",
		joinedVar, j.schema.CompileConstructor(), lRowVar, rRowVar)

	condVar := ctx.Compiler.NewVar("theta_cond")
	ctx.PushIOVars(joinedVar, condVar)
	if err := j.Cond.Compile(ctx); err != nil {
		return err
	}

	ctx.Compiler.AddLine("if %s {", condVar)
	err := ctx.Compiler.WithIndent(func() error {
		parent := j.Parent()
		if parent == nil {
			return nil
		}
		ctx.RequestVars(map[string]interface{}{"row": joinedVar})
		err := parent.Consume(ctx, j.schema, j)
		ctx.PopVars()
		return err
	})
	ctx.Compiler.AddLine("}")
	return err
}
