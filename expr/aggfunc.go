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

// AggFunc calls a registered aggregate UDF once per GroupBy bucket. Every
// Attr in its argument tree is marked IsAggRef at construction time, so
// the optimizer's disambiguation pass knows to resolve them against the
// child's __group__ member-row schema instead of the child's own schema.
type AggFunc struct {
	UDF  *sql.UDF
	Args []sql.Expression
}

// NewAggFunc looks name up in reg, binds args to it, and marks every Attr
// reachable from args as an aggregate reference.
func NewAggFunc(reg *sql.Registry, name string, args []sql.Expression) (*AggFunc, error) {
	udf, err := reg.Agg(name)
	if err != nil {
		return nil, err
	}
	for _, a := range args {
		for _, attr := range a.Attrs() {
			attr.IsAggRef = true
		}
	}
	return &AggFunc{UDF: udf, Args: args}, nil
}

// GetType implements sql.Expression: every built-in aggregate is numeric.
func (f *AggFunc) GetType() sql.Type { return sql.NumType }

// Attrs implements sql.Expression.
func (f *AggFunc) Attrs() []*sql.Attr {
	var out []*sql.Attr
	for _, a := range f.Args {
		out = append(out, a.Attrs()...)
	}
	return out
}

func (f *AggFunc) String() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", f.UDF.Name, strings.Join(parts, ", "))
}

// groupIdx returns the index of the child's __group__ column in the row
// this AggFunc is evaluated against, found via whichever of its Attrs
// carries it (all of them do, once disambiguation has run).
func (f *AggFunc) groupIdx() int {
	for _, a := range f.Attrs() {
		if a.Gidx != sql.UnboundIdx {
			return a.Gidx
		}
	}
	return sql.UnboundIdx
}

// Eval implements sql.Expression: transposes each argument's per-member
// value into its own column, then calls the aggregate UDF with all
// columns at once, mirroring the original's zip(*args) transposition.
func (f *AggFunc) Eval(row *sql.Row) (interface{}, error) {
	gidx := f.groupIdx()
	if gidx == sql.UnboundIdx {
		return nil, sql.ErrAttrUnbound.New(sql.GroupAttrName)
	}
	grp, ok := row.Get(gidx).(*sql.Group)
	if !ok {
		return nil, sql.ErrTypeMismatch.New("aggregate", "*sql.Group", fmt.Sprintf("%T", row.Get(gidx)))
	}

	cols := make([][]float64, len(f.Args))
	for i, a := range f.Args {
		col := make([]float64, len(grp.Rows))
		for j, member := range grp.Rows {
			v, err := a.Eval(member)
			if err != nil {
				return nil, err
			}
			fv, err := sql.ToFloat64(v)
			if err != nil {
				return nil, err
			}
			col[j] = fv
		}
		cols[i] = col
	}
	return f.UDF.CallAgg(cols)
}

// Compile implements sql.Expression: emits a loop over the bucket's
// member rows per argument, building a []float64 column, then calls the
// aggregate UDF through the registry.
func (f *AggFunc) Compile(ctx *compiler.Context) error {
	vIn, vOut := ctx.PopIOVars()

	grpVar := ctx.Compiler.NewVar("grp")
	ctx.Compiler.AddLine("%s := %s.Get(%d).(*sql.Group)", grpVar, vIn, f.groupIdx())

	argVars := make([]string, len(f.Args))
	for i, a := range f.Args {
		colVar := ctx.Compiler.NewVar("col")
		memberVar := ctx.Compiler.NewVar("member")
		ctx.Compiler.AddLine("%s := make([]float64, 0, len(%s.Rows))", colVar, grpVar)
		ctx.Compiler.AddLine("for _, %s := range %s.Rows {", memberVar, grpVar)
		if err := ctx.Compiler.WithIndent(func() error {
			vArg := ctx.Compiler.NewVar("v")
			ctx.PushIOVars(memberVar, vArg)
			if err := a.Compile(ctx); err != nil {
				return err
			}
			fVar := ctx.Compiler.NewVar("f")
			ctx.Compiler.AddLine("%s, _ := sql.ToFloat64(%s)", fVar, vArg)
			ctx.Compiler.AddLine("%s = append(%s, %s)", colVar, colVar, fVar)
			return nil
		}); err != nil {
			return err
		}
		ctx.Compiler.AddLine("}")
		argVars[i] = colVar
	}

	ctx.Compiler.AddLine(
		"%s, _ = registry.MustAgg(%q).CallAgg([][]float64{%s})",
		vOut, f.UDF.Name, strings.Join(argVars, ", "),
	)
	return nil
}
