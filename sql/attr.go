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

package sql

import (
	"fmt"

	uuid "github.com/satori/go.uuid"

	"github.com/owen6314/databass-public/compiler"
)

// UnboundIdx is the sentinel used for Attr.Idx / Attr.Gidx before the
// optimizer's disambiguation pass has run.
const UnboundIdx = -1

// GroupAttrName is the name of the synthetic attribute GroupBy attaches to
// its output schema to carry each bucket's member rows forward to any
// aggregate expression evaluated above it.
const GroupAttrName = "__group__"

// KeyAttrName is the name of the synthetic attribute GroupBy attaches to
// its output schema holding the bucket's string hash key.
const KeyAttrName = "__key__"

// Attr is a reference to a named, typed column. It is the one node shared
// by both the expression algebra (as a leaf) and the schema machinery (as
// a column descriptor); the optimizer's disambiguation pass
// (bindAttrsAgainstChildren) mutates Tablename/Typ/Idx/Gidx in place once
// the attribute has been matched against its child schema.
type Attr struct {
	// ID uniquely and stably identifies this Attr instance, independent of
	// name collisions; generated once at construction.
	ID string

	Aname     string
	Typ       Type
	Tablename string

	// IsAggRef marks an attribute that appears inside an AggFunc's
	// argument tree: it must be resolved against the child's __group__
	// schema rather than the child's own schema directly.
	IsAggRef bool

	// GroupSchema is non-nil only for the synthetic __group__ attribute:
	// it holds the schema of the operator whose rows are collected into
	// each GroupBy bucket, fixed at GroupBy construction time.
	GroupSchema *Schema

	// Idx is the column index this attribute actually reads from: for a
	// normal attribute, its position in the immediate child's schema; for
	// an IsAggRef attribute, its position within the GroupSchema of the
	// child's __group__ column (member rows carry that schema, so the
	// same Idx-based lookup works for both cases).
	Idx int

	// Gidx is, for an IsAggRef attribute only, the index of the child's
	// synthetic __group__ column in the row actually being evaluated —
	// how an AggFunc finds the bucket's member rows before evaluating
	// this attribute against each of them. UnboundIdx otherwise.
	Gidx int
}

// NewAttr builds an unbound attribute reference. tablename and typ may be
// "" and UnknownType respectively to leave them open for disambiguation.
func NewAttr(aname string, typ Type, tablename string) *Attr {
	return &Attr{
		ID:        "attr-" + uuid.NewV4().String(),
		Aname:     aname,
		Typ:       typ,
		Tablename: tablename,
		Idx:       UnboundIdx,
		Gidx:      UnboundIdx,
	}
}

// Matches reports whether other could be the column a points to: names
// must match exactly, tablenames must match if a.Tablename is set, and
// types must match if a.Typ is set and not the wildcard.
func (a *Attr) Matches(other *Attr) bool {
	if a.Aname != other.Aname {
		return false
	}
	if a.Tablename != "" && a.Tablename != other.Tablename {
		return false
	}
	if a.Typ != "" && a.Typ != UnknownType && a.Typ != other.Typ {
		return false
	}
	return true
}

// GetType implements Expression.
func (a *Attr) GetType() Type { return a.Typ }

// String implements Expression / fmt.Stringer.
func (a *Attr) String() string {
	if a.Tablename != "" {
		return fmt.Sprintf("%s.%s", a.Tablename, a.Aname)
	}
	return a.Aname
}

// Attrs implements Expression: an Attr is its own sole leaf.
func (a *Attr) Attrs() []*Attr { return []*Attr{a} }

// Eval implements Expression: looks the value up by Idx. For an
// IsAggRef attribute this must be called with a group member row (whose
// schema is the GroupSchema Idx was resolved against), which is exactly
// what AggFunc.Eval does; it is never evaluated directly against an
// outer GroupBy row.
func (a *Attr) Eval(row *Row) (interface{}, error) {
	if a.Idx == UnboundIdx {
		return nil, ErrAttrUnbound.New(a.Aname)
	}
	return row.Get(a.Idx), nil
}

// Compile implements Expression: emits v_out = v_in[idx].
func (a *Attr) Compile(ctx *compiler.Context) error {
	vIn, vOut := ctx.PopIOVars()
	ctx.Compiler.AddLine("%s = %s.Get(%d)", vOut, vIn, a.Idx)
	return nil
}

// CompileConstructor renders Go source that reconstructs this attribute's
// metadata, mirroring the original's compile_constructor: used when
// generated code needs to carry attribute identity forward (e.g. building
// a sub-schema inside a GroupBy's aggregate loop).
func (a *Attr) CompileConstructor() string {
	return fmt.Sprintf("sql.NewAttr(%q, %q, %q)", a.Aname, string(a.Typ), a.Tablename)
}
