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

// Paren wraps an expression purely for String()'s benefit; it is
// otherwise transparent to Eval/Compile/GetType.
type Paren struct {
	Expr sql.Expression
}

// NewParen wraps e.
func NewParen(e sql.Expression) *Paren { return &Paren{Expr: e} }

// GetType implements sql.Expression.
func (p *Paren) GetType() sql.Type { return p.Expr.GetType() }

// Eval implements sql.Expression.
func (p *Paren) Eval(row *sql.Row) (interface{}, error) { return p.Expr.Eval(row) }

// Attrs implements sql.Expression.
func (p *Paren) Attrs() []*sql.Attr { return p.Expr.Attrs() }

// Compile implements sql.Expression.
func (p *Paren) Compile(ctx *compiler.Context) error { return p.Expr.Compile(ctx) }

func (p *Paren) String() string { return fmt.Sprintf("(%s)", p.Expr.String()) }
