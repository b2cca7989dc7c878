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
	"strings"

	"github.com/owen6314/databass-public/compiler"
	"github.com/owen6314/databass-public/sql"
)

// ScalarFunc calls a registered scalar UDF with one evaluated argument
// per slot, row at a time.
type ScalarFunc struct {
	UDF  *sql.UDF
	Args []sql.Expression
}

// NewScalarFunc looks name up in reg and binds args to it.
func NewScalarFunc(reg *sql.Registry, name string, args []sql.Expression) (*ScalarFunc, error) {
	udf, err := reg.Scalar(name)
	if err != nil {
		return nil, err
	}
	return &ScalarFunc{UDF: udf, Args: args}, nil
}

// GetType implements sql.Expression. Scalar UDFs in this engine always
// return either a number or string; lower (the only built-in) is str.
func (f *ScalarFunc) GetType() sql.Type { return sql.StrType }

// Eval implements sql.Expression.
func (f *ScalarFunc) Eval(row *sql.Row) (interface{}, error) {
	args := make([]interface{}, len(f.Args))
	for i, a := range f.Args {
		v, err := a.Eval(row)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return f.UDF.Call(args)
}

// Attrs implements sql.Expression.
func (f *ScalarFunc) Attrs() []*sql.Attr {
	var out []*sql.Attr
	for _, a := range f.Args {
		out = append(out, a.Attrs()...)
	}
	return out
}

func (f *ScalarFunc) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", f.UDF.Name, strings.Join(parts, ", "))
}

// Compile implements sql.Expression: evaluates each argument into a
// fresh variable, then calls the UDF by name (the generated code imports
// the same registry the interpreter uses).
func (f *ScalarFunc) Compile(ctx *compiler.Context) error {
	vIn, vOut := ctx.PopIOVars()

	argVars := make([]string, len(f.Args))
	for i, a := range f.Args {
		v := ctx.Compiler.NewVar("v")
		ctx.PushIOVars(vIn, v)
		if err := a.Compile(ctx); err != nil {
			return err
		}
		argVars[i] = v
	}

	ctx.Compiler.AddLine(
		"%s, _ = registry.MustScalar(%q).Call([]interface{}{%s})",
		vOut, f.UDF.Name, strings.Join(argVars, ", "),
	)
	return nil
}
