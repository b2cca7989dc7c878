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

package expr

import (
	"fmt"

	"github.com/owen6314/databass-public/compiler"
	"github.com/owen6314/databass-public/sql"
)

// Between is `E BETWEEN Lo AND Hi`, inclusive on both bounds. The
// original's iterator evaluator is inclusive on both sides but its
// codegen emits a strict low-bound comparison (an off-by-one in the
// original); this implementation is inclusive-both-sides on both paths,
// matching SQL semantics.
type Between struct {
	E, Lo, Hi sql.Expression
}

// NewBetween builds a BETWEEN node.
func NewBetween(e, lo, hi sql.Expression) *Between {
	return &Between{E: e, Lo: lo, Hi: hi}
}

// GetType implements sql.Expression.
func (b *Between) GetType() sql.Type { return sql.BoolType }

// Eval implements sql.Expression.
func (b *Between) Eval(row *sql.Row) (interface{}, error) {
	ev, err := b.E.Eval(row)
	if err != nil {
		return nil, err
	}
	lov, err := b.Lo.Eval(row)
	if err != nil {
		return nil, err
	}
	hiv, err := b.Hi.Eval(row)
	if err != nil {
		return nil, err
	}

	ef, err := sql.ToFloat64(ev)
	if err != nil {
		return nil, err
	}
	lof, err := sql.ToFloat64(lov)
	if err != nil {
		return nil, err
	}
	hif, err := sql.ToFloat64(hiv)
	if err != nil {
		return nil, err
	}
	return ef >= lof && ef <= hif, nil
}

// Attrs implements sql.Expression.
func (b *Between) Attrs() []*sql.Attr {
	var out []*sql.Attr
	out = append(out, b.E.Attrs()...)
	out = append(out, b.Lo.Attrs()...)
	out = append(out, b.Hi.Attrs()...)
	return out
}

func (b *Between) String() string {
	return fmt.Sprintf("%s BETWEEN %s AND %s", b.E.String(), b.Lo.String(), b.Hi.String())
}

// Compile implements sql.Expression: evaluates e/lo/hi into fresh
// variables and combines them with inclusive comparisons on both sides.
func (b *Between) Compile(ctx *compiler.Context) error {
	vIn, vOut := ctx.PopIOVars()

	vE := ctx.Compiler.NewVar("v")
	ctx.PushIOVars(vIn, vE)
	if err := b.E.Compile(ctx); err != nil {
		return err
	}

	vLo := ctx.Compiler.NewVar("v")
	ctx.PushIOVars(vIn, vLo)
	if err := b.Lo.Compile(ctx); err != nil {
		return err
	}

	vHi := ctx.Compiler.NewVar("v")
	ctx.PushIOVars(vIn, vHi)
	if err := b.Hi.Compile(ctx); err != nil {
		return err
	}

	ctx.Compiler.AddLine("%s = %s >= %s && %s <= %s", vOut, vE, vLo, vE, vHi)
	return nil
}
