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
	"github.com/owen6314/databass-public/compiler"
	"github.com/owen6314/databass-public/sql"
)

// Star is `SELECT *`: it stands for every column of its enclosing
// Project's child schema. It is expanded away by Project.InitSchema
// before disambiguation ever sees it (see plan.Project.expandStars), so
// Eval/Compile are never called on a surviving Star node in a resolved
// plan; they exist only to satisfy sql.Expression while a Star is still
// sitting in a freshly-parsed, unexpanded Project list.
type Star struct{}

// NewStar returns a Star node.
func NewStar() *Star { return &Star{} }

// GetType implements sql.Expression.
func (*Star) GetType() sql.Type { return sql.UnknownType }

// Attrs implements sql.Expression: a Star has no fixed attribute until
// expanded.
func (*Star) Attrs() []*sql.Attr { return nil }

func (*Star) String() string { return "*" }

// Eval implements sql.Expression. Star is expanded before evaluation;
// reaching this is a construction bug, not a data-dependent runtime path.
func (*Star) Eval(*sql.Row) (interface{}, error) {
	return nil, sql.ErrUnsupportedOperator.New("* must be expanded before evaluation")
}

// Compile implements sql.Expression. The original is explicit that
// turning SELECT * into generated code is unsupported; this keeps the
// same limitation rather than inventing variadic codegen the spec never
// asked for.
func (*Star) Compile(*compiler.Context) error {
	return sql.ErrUnsupportedOperator.New("* cannot be compiled directly, expand it first")
}
