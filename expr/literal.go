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

// Package expr implements the expression algebra: literals, attribute
// references (sql.Attr), unary/binary operators, BETWEEN, scalar and
// aggregate function calls. Every node supports both row-at-a-time
// evaluation and produce/consume code generation.
package expr

import (
	"fmt"

	"github.com/owen6314/databass-public/compiler"
	"github.com/owen6314/databass-public/sql"
)

// Literal is a constant value fixed at plan-construction time.
type Literal struct {
	Val interface{}
	Typ sql.Type
}

// NewLiteral wraps v, guessing its type the same way a CSV column would.
func NewLiteral(v interface{}) *Literal {
	return &Literal{Val: v, Typ: sql.GuessType(v)}
}

// NewBool wraps a boolean constant, the original's Bool(Literal) subclass.
func NewBool(b bool) *Literal {
	return &Literal{Val: b, Typ: sql.BoolType}
}

// GetType implements sql.Expression.
func (l *Literal) GetType() sql.Type { return l.Typ }

// Eval implements sql.Expression.
func (l *Literal) Eval(*sql.Row) (interface{}, error) { return l.Val, nil }

// Attrs implements sql.Expression: a literal has no attribute leaves.
func (l *Literal) Attrs() []*sql.Attr { return nil }

func (l *Literal) String() string {
	if l.Typ == sql.StrType {
		return fmt.Sprintf("%q", l.Val)
	}
	return fmt.Sprintf("%v", l.Val)
}

// Compile implements sql.Expression: emits v_out = <literal>.
func (l *Literal) Compile(ctx *compiler.Context) error {
	_, vOut := ctx.PopIOVars()
	ctx.Compiler.AddLine("%s = %s", vOut, l.goLiteral())
	return nil
}

func (l *Literal) goLiteral() string {
	switch v := l.Val.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case bool:
		return fmt.Sprintf("%v", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
