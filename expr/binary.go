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

// Op is an arithmetic, comparison or logical operator symbol.
type Op string

const (
	Add Op = "+"
	Sub Op = "-"
	Mul Op = "*"
	Div Op = "/"
	Eq  Op = "="
	Neq Op = "!="
	Lt  Op = "<"
	Lte Op = "<="
	Gt  Op = ">"
	Gte Op = ">="
	And Op = "and"
	Or  Op = "or"
	Not Op = "not"
	Neg Op = "neg"
)

// goOp is the Go source operator each Op lowers to.
var goOp = map[Op]string{
	Add: "+", Sub: "-", Mul: "*", Div: "/",
	Eq: "==", Neq: "!=", Lt: "<", Lte: "<=", Gt: ">", Gte: ">=",
	And: "&&", Or: "||",
}

// binary is the module-level interpreter every BinOp.Eval delegates to,
// mirroring the original's free function of the same name.
func binary(op Op, l, r interface{}) (interface{}, error) {
	switch op {
	case Add, Sub, Mul, Div, Lt, Lte, Gt, Gte:
		if !isNumeric(l) {
			return nil, sql.ErrTypeMismatch.New(op, "num", fmt.Sprintf("%T", l))
		}
		if !isNumeric(r) {
			return nil, sql.ErrTypeMismatch.New(op, "num", fmt.Sprintf("%T", r))
		}
		lf, err := sql.ToFloat64(l)
		if err != nil {
			return nil, sql.ErrTypeMismatch.New(op, "num", fmt.Sprintf("%T", l))
		}
		rf, err := sql.ToFloat64(r)
		if err != nil {
			return nil, sql.ErrTypeMismatch.New(op, "num", fmt.Sprintf("%T", r))
		}
		switch op {
		case Add:
			return lf + rf, nil
		case Sub:
			return lf - rf, nil
		case Mul:
			return lf * rf, nil
		case Div:
			return lf / rf, nil
		case Lt:
			return lf < rf, nil
		case Lte:
			return lf <= rf, nil
		case Gt:
			return lf > rf, nil
		case Gte:
			return lf >= rf, nil
		}
	case Eq:
		return valuesEqual(l, r), nil
	case Neq:
		return !valuesEqual(l, r), nil
	case And:
		lb, rb := asBool(l), asBool(r)
		return lb && rb, nil
	case Or:
		lb, rb := asBool(l), asBool(r)
		return lb || rb, nil
	}
	return nil, sql.ErrUnsupportedOperator.New(string(op))
}

// unary is the module-level interpreter every UnOp.Eval delegates to.
func unary(op Op, v interface{}) (interface{}, error) {
	switch op {
	case Not:
		return !asBool(v), nil
	case Neg:
		f, err := sql.ToFloat64(v)
		if err != nil {
			return nil, sql.ErrTypeMismatch.New(op, "num", fmt.Sprintf("%T", v))
		}
		return -f, nil
	}
	return nil, sql.ErrUnsupportedOperator.New(string(op))
}

func asBool(v interface{}) bool {
	b, ok := v.(bool)
	return ok && b
}

// isNumeric reports whether v is already one of Go's numeric kinds.
// sql.ToFloat64 (backed by spf13/cast) also happily parses numeric-looking
// strings, which is the right behavior for CSV ingestion (sql.Catalog's
// type inference) and ORDER BY comparison, but arithmetic and comparison
// operators must reject a string operand outright so '1' + 2 surfaces
// sql.ErrTypeMismatch instead of silently becoming 3.
func isNumeric(v interface{}) bool {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

func valuesEqual(l, r interface{}) bool {
	if lf, err := sql.ToFloat64(l); err == nil {
		if rf, err := sql.ToFloat64(r); err == nil {
			return lf == rf
		}
	}
	ls, errL := sql.ToStr(l)
	rs, errR := sql.ToStr(r)
	return errL == nil && errR == nil && ls == rs
}

func resultType(op Op) sql.Type {
	switch op {
	case Add, Sub, Mul, Div, Neg:
		return sql.NumType
	default:
		return sql.BoolType
	}
}

// BinOp is a binary operator node: arithmetic, comparison, or logical.
type BinOp struct {
	Op   Op
	L, R sql.Expression
}

// NewBinOp builds a binary operator node.
func NewBinOp(op Op, l, r sql.Expression) *BinOp {
	return &BinOp{Op: op, L: l, R: r}
}

// GetType implements sql.Expression.
func (b *BinOp) GetType() sql.Type { return resultType(b.Op) }

// Eval implements sql.Expression.
func (b *BinOp) Eval(row *sql.Row) (interface{}, error) {
	lv, err := b.L.Eval(row)
	if err != nil {
		return nil, err
	}
	rv, err := b.R.Eval(row)
	if err != nil {
		return nil, err
	}
	return binary(b.Op, lv, rv)
}

// Attrs implements sql.Expression.
func (b *BinOp) Attrs() []*sql.Attr {
	return append(append([]*sql.Attr{}, b.L.Attrs()...), b.R.Attrs()...)
}

func (b *BinOp) String() string {
	return fmt.Sprintf("%s %s %s", b.L.String(), b.Op, b.R.String())
}

// Compile implements sql.Expression: evaluates both operands into fresh
// variables, then combines them with the lowered Go operator.
func (b *BinOp) Compile(ctx *compiler.Context) error {
	vIn, vOut := ctx.PopIOVars()

	vL := ctx.Compiler.NewVar("v")
	ctx.PushIOVars(vIn, vL)
	if err := b.L.Compile(ctx); err != nil {
		return err
	}

	vR := ctx.Compiler.NewVar("v")
	ctx.PushIOVars(vIn, vR)
	if err := b.R.Compile(ctx); err != nil {
		return err
	}

	sym, ok := goOp[b.Op]
	if !ok {
		return sql.ErrUnsupportedOperator.New(string(b.Op))
	}
	ctx.Compiler.AddLine("%s = %s %s %s", vOut, vL, sym, vR)
	return nil
}

// UnOp is a unary operator node: logical NOT or arithmetic negation.
type UnOp struct {
	Op Op
	E  sql.Expression
}

// NewUnOp builds a unary operator node.
func NewUnOp(op Op, e sql.Expression) *UnOp {
	return &UnOp{Op: op, E: e}
}

// GetType implements sql.Expression.
func (u *UnOp) GetType() sql.Type { return resultType(u.Op) }

// Eval implements sql.Expression.
func (u *UnOp) Eval(row *sql.Row) (interface{}, error) {
	v, err := u.E.Eval(row)
	if err != nil {
		return nil, err
	}
	return unary(u.Op, v)
}

// Attrs implements sql.Expression.
func (u *UnOp) Attrs() []*sql.Attr { return u.E.Attrs() }

func (u *UnOp) String() string { return fmt.Sprintf("%s %s", u.Op, u.E.String()) }

// Compile implements sql.Expression.
func (u *UnOp) Compile(ctx *compiler.Context) error {
	vIn, vOut := ctx.PopIOVars()

	vE := ctx.Compiler.NewVar("v")
	ctx.PushIOVars(vIn, vE)
	if err := u.E.Compile(ctx); err != nil {
		return err
	}

	switch u.Op {
	case Not:
		ctx.Compiler.AddLine("%s = !%s", vOut, vE)
	case Neg:
		ctx.Compiler.AddLine("%s = -%s", vOut, vE)
	default:
		return sql.ErrUnsupportedOperator.New(string(u.Op))
	}
	return nil
}
