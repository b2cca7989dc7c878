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
	"strings"

	"github.com/owen6314/databass-public/compiler"
	"github.com/owen6314/databass-public/expr"
	"github.com/owen6314/databass-public/sql"
)

// Project evaluates a list of expressions per input row, producing a new
// schema out of their (possibly explicit) aliases. A nil Child is the
// `SELECT 1` special case: with no FROM clause, Project evaluates its
// expressions exactly once against an empty row.
type Project struct {
	unaryOp
	Exprs   []sql.Expression
	Aliases []string
}

// NewProject builds a Project. aliases may contain "" entries, which are
// filled in by InitSchema (once the child schema is known, when there is
// a child). child may be nil.
func NewProject(exprs []sql.Expression, aliases []string, child sql.Node) *Project {
	p := &Project{Exprs: exprs, Aliases: aliases}
	p.Child = child
	if child != nil {
		SetParents(p)
	}
	return p
}

// Children implements sql.Node: empty for the no-FROM special case.
func (p *Project) Children() []sql.Node {
	if p.Child == nil {
		return nil
	}
	return []sql.Node{p.Child}
}

// InitSchema implements sql.Node: expands any Star in Exprs against the
// child's schema, fills in default aliases when none was given (an
// Attr's own name, otherwise the expression's String()), and builds the
// output schema.
func (p *Project) InitSchema() error {
	if p.Child != nil {
		if err := p.expandStars(); err != nil {
			return err
		}
	}
	p.setDefaultAliases()

	attrs := make([]*sql.Attr, len(p.Exprs))
	for i, e := range p.Exprs {
		attrs[i] = sql.NewAttr(p.Aliases[i], e.GetType(), "")
	}
	p.schema = sql.NewSchema(attrs...)
	return nil
}

func (p *Project) expandStars() error {
	var newExprs []sql.Expression
	var newAliases []string
	for i, e := range p.Exprs {
		if _, ok := e.(*expr.Star); ok {
			for _, a := range p.Child.Schema() {
				cp := *a
				newExprs = append(newExprs, &cp)
				newAliases = append(newAliases, cp.Aname)
			}
			continue
		}
		newExprs = append(newExprs, e)
		if i < len(p.Aliases) {
			newAliases = append(newAliases, p.Aliases[i])
		} else {
			newAliases = append(newAliases, "")
		}
	}
	p.Exprs = newExprs
	p.Aliases = newAliases
	return nil
}

func (p *Project) setDefaultAliases() {
	for len(p.Aliases) < len(p.Exprs) {
		p.Aliases = append(p.Aliases, "")
	}
	for i, alias := range p.Aliases {
		if alias == "" {
			if a, ok := p.Exprs[i].(*sql.Attr); ok {
				p.Aliases[i] = a.Aname
			} else {
				p.Aliases[i] = p.Exprs[i].String()
			}
		}
	}
}

func (p *Project) String() string {
	parts := make([]string, len(p.Exprs))
	for i, e := range p.Exprs {
		parts[i] = fmt.Sprintf("%s AS %s", e.String(), p.Aliases[i])
	}
	if p.Child == nil {
		return fmt.Sprintf("Project(%s)", strings.Join(parts, ", "))
	}
	return fmt.Sprintf("Project(%s, %s)", strings.Join(parts, ", "), p.Child.String())
}

// Iterator implements sql.Node.
func (p *Project) Iterator() (sql.RowIter, error) {
	if p.Child == nil {
		return &projectNoChildIter{p: p}, nil
	}
	child, err := p.Child.Iterator()
	if err != nil {
		return nil, err
	}
	return &projectIter{p: p, child: child, out: &sql.Row{Schema: p.schema, Values: make([]interface{}, len(p.Exprs))}}, nil
}

type projectNoChildIter struct {
	p    *Project
	done bool
}

func (it *projectNoChildIter) Next() (*sql.Row, error) {
	if it.done {
		return nil, io.EOF
	}
	it.done = true
	vals := make([]interface{}, len(it.p.Exprs))
	for i, e := range it.p.Exprs {
		v, err := e.Eval(nil)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return &sql.Row{Schema: it.p.schema, Values: vals}, nil
}

func (it *projectNoChildIter) Close() error { return nil }

type projectIter struct {
	p     *Project
	child sql.RowIter
	out   *sql.Row
}

func (it *projectIter) Next() (*sql.Row, error) {
	row, err := it.child.Next()
	if err != nil {
		return nil, err
	}
	for i, e := range it.p.Exprs {
		v, err := e.Eval(row)
		if err != nil {
			return nil, err
		}
		it.out.Values[i] = v
	}
	return it.out, nil
}

func (it *projectIter) Close() error { return it.child.Close() }

// Produce implements sql.Node: for the no-child case, emits the
// projected row's computation once with no surrounding loop; otherwise
// delegates downward as every other pass-through pipeline operator does.
func (p *Project) Produce(ctx *compiler.Context) error {
	if p.Child == nil {
		return p.produceNoChild(ctx)
	}
	return p.Child.Produce(ctx)
}

func (p *Project) produceNoChild(ctx *compiler.Context) error {
	outVar := ctx.Compiler.NewVar("proj_row")
	ctx.Compiler.AddLine("%s := &sql.Row{Schema: %s, Values: make([]interface{}, %d)}", outVar, p.schema.CompileConstructor(), len(p.Exprs))
	for i, e := range p.Exprs {
		vOut := ctx.Compiler.NewVar("v")
		ctx.PushIOVars("nil", vOut)
		if err := e.Compile(ctx); err != nil {
			return err
		}
		ctx.Compiler.AddLine("%s.Values[%d] = %s", outVar, i, vOut)
	}
	parent := p.Parent()
	if parent == nil {
		return nil
	}
	ctx.RequestVars(map[string]interface{}{"row": outVar})
	err := parent.Consume(ctx, p.schema, p)
	ctx.PopVars()
	return err
}

// Consume implements sql.Node: evaluates every projection expression
// against the incoming row and forwards the resulting row upward.
func (p *Project) Consume(ctx *compiler.Context, schema sql.Schema, source sql.Node) error {
	rowVar := ctx.Get("row").(string)
	outVar := ctx.Compiler.NewVar("proj_row")
	ctx.Compiler.AddLine("%s := &sql.Row{Schema: %s, Values: make([]interface{}, %d)}", outVar, p.schema.CompileConstructor(), len(p.Exprs))

	for i, e := range p.Exprs {
		vOut := ctx.Compiler.NewVar("v")
		ctx.PushIOVars(rowVar, vOut)
		if err := e.Compile(ctx); err != nil {
			return err
		}
		ctx.Compiler.AddLine("%s.Values[%d] = %s", outVar, i, vOut)
	}

	parent := p.Parent()
	if parent == nil {
		return nil
	}
	ctx.RequestVars(map[string]interface{}{"row": outVar})
	err := parent.Consume(ctx, p.schema, p)
	ctx.PopVars()
	return err
}
