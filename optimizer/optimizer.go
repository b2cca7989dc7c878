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

// Package optimizer turns a logical plan tree into a physical one: it
// binds every attribute reference to a concrete column and replaces the
// purely logical From node with a left-deep tree of joins, chosen by a
// Selinger-style cost search.
package optimizer

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/owen6314/databass-public/expr"
	"github.com/owen6314/databass-public/plan"
	"github.com/owen6314/databass-public/sql"
)

// maxSchemaInitIterations bounds initializePlan's worklist loop: a plan
// tree with a genuine schema-dependency cycle would otherwise spin
// forever waiting for a node's children to become ready.
const maxSchemaInitIterations = 10000

// Optimizer runs the fixed five-step pipeline described in SPEC_FULL.md
// §4.E over a logical plan, producing one ready for execution.
type Optimizer struct {
	// Exhaustive, when true, additionally runs Selinger's exhaustive
	// search alongside the bottom-up one as a cross-check: planning fails
	// if the bottom-up plan's estimated cost exceeds the exhaustive
	// plan's. The bottom-up plan is always the one returned — used by
	// optimizer/selinger_test.go, not needed for correctness on its own.
	Exhaustive bool
}

// New returns an Optimizer with its default (bottom-up only) search.
func New() *Optimizer {
	return &Optimizer{}
}

// Optimize runs initialize_plan, disambiguate_attrs, From-expansion, a
// second initialize_plan/disambiguate_attrs pass, and final attribute
// verification, returning the (possibly different, if the root From
// itself was replaced) root node.
func (o *Optimizer) Optimize(root sql.Node) (sql.Node, error) {
	if root == nil {
		return nil, nil
	}

	if err := initializePlan(root); err != nil {
		return nil, err
	}
	if err := disambiguateAttrs(root); err != nil {
		return nil, err
	}

	for {
		f := firstFrom(root)
		if f == nil {
			break
		}
		newRoot, err := o.expandFromOp(root, f)
		if err != nil {
			return nil, errors.Wrap(err, "expanding From clause")
		}
		root = newRoot
	}

	if err := initializePlan(root); err != nil {
		return nil, err
	}
	if err := disambiguateAttrs(root); err != nil {
		return nil, err
	}
	if err := verifyAttrRefs(root); err != nil {
		return nil, err
	}
	return root, nil
}

// initializePlan computes every operator's schema bottom-up: a node is
// only processed once every one of its children already has a schema.
// Mirrors original_source/databass/optimizer.py's initialize_plan,
// including its 10,000-iteration cycle guard.
func initializePlan(root sql.Node) error {
	leaves := plan.Collect(root, func(n sql.Node) bool { return len(n.Children()) == 0 })

	queue := append([]sql.Node{}, leaves...)
	done := map[sql.Node]bool{}
	iterations := 0

	for len(queue) > 0 {
		iterations++
		if iterations > maxSchemaInitIterations {
			return sql.ErrSchemaInitCycle.New(maxSchemaInitIterations)
		}

		node := queue[0]
		queue = queue[1:]
		if done[node] {
			continue
		}

		ready := true
		for _, c := range node.Children() {
			if c.Schema() == nil {
				ready = false
				break
			}
		}
		if !ready {
			queue = append(queue, node)
			continue
		}

		if err := node.InitSchema(); err != nil {
			return err
		}
		done[node] = true

		if pt, ok := node.(plan.ParentTracker); ok {
			if p := pt.Parent(); p != nil {
				queue = append(queue, p)
			}
		}
	}
	return nil
}

// attrsFromNonSourceOp returns every Attr reachable from op's own
// expressions, mirroring optimizer.py's attrs_from_nonsource_op: each
// operator type contributes a different, fixed set of expression
// fields.
func attrsFromNonSourceOp(op sql.Node) []*sql.Attr {
	switch o := op.(type) {
	case *plan.ThetaJoin:
		return o.Cond.Attrs()
	case *plan.HashJoin:
		return append(append([]*sql.Attr{}, o.LAttrs...), o.RAttrs...)
	case *plan.GroupBy:
		return o.KeyAttrs
	case *plan.OrderBy:
		return o.Attrs
	case *plan.Filter:
		return o.Cond.Attrs()
	case *plan.Project:
		var out []*sql.Attr
		for _, e := range o.Exprs {
			out = append(out, e.Attrs()...)
		}
		return out
	default:
		return nil
	}
}

// disambiguateOpAttrs fills in tablename/typ/idx/gidx for every attr
// reachable from op's own expressions, matching each against op's
// children's schemas. Mirrors optimizer.py's disambiguate_op_attrs, with
// one correction: a binary operator's right child is matched with its
// local schema index offset by the left child's schema width, since the
// operator's own runtime row is the two schemas concatenated (the
// original assigns the right child's raw local index unadjusted, which
// is only correct when an operator has a single child — see
// DESIGN.md). That correction holds for ThetaJoin.Cond, which is
// evaluated against the two children's rows concatenated together, but
// not for HashJoin: its LAttrs/RAttrs are each evaluated against their
// own side's raw, un-concatenated row (hash_join.go's Iterator and its
// Consume codegen both key off the side's own row directly), so each
// side is bound against only its own child's schema at offset 0.
func disambiguateOpAttrs(op sql.Node) error {
	if hj, ok := op.(*plan.HashJoin); ok {
		children := hj.Children()
		var errs *multierror.Error
		if err := bindAttrsAgainstChildren(hj.LAttrs, children[:1]); err != nil {
			errs = multierror.Append(errs, err)
		}
		if err := bindAttrsAgainstChildren(hj.RAttrs, children[1:]); err != nil {
			errs = multierror.Append(errs, err)
		}
		return errs.ErrorOrNil()
	}

	attrs := attrsFromNonSourceOp(op)
	if len(attrs) == 0 {
		return nil
	}
	return bindAttrsAgainstChildren(attrs, op.Children())
}

// bindAttrsAgainstChildren resolves each of attrs against children's
// schemas concatenated in order, accumulating an offset as it goes so an
// attribute matched in a later child gets an index relative to the
// concatenation of every child that precedes it.
func bindAttrsAgainstChildren(attrs []*sql.Attr, children []sql.Node) error {
	var errs *multierror.Error

	for _, a := range attrs {
		var candidates []candidate
		offset := 0
		for _, child := range children {
			schema := child.Schema()
			if a.IsAggRef {
				gidx := schema.IndexOfName(sql.GroupAttrName)
				if gidx == sql.UnboundIdx {
					offset += len(schema)
					continue
				}
				groupSchema := schema[gidx].GroupSchema
				if groupSchema == nil {
					offset += len(schema)
					continue
				}
				for i, gattr := range *groupSchema {
					if a.Matches(gattr) {
						candidates = append(candidates, candidate{tablename: gattr.Tablename, typ: gattr.Typ, idx: i, gidx: gidx})
					}
				}
			} else {
				for i, cattr := range schema {
					if a.Matches(cattr) {
						candidates = append(candidates, candidate{tablename: cattr.Tablename, typ: cattr.Typ, idx: offset + i, gidx: sql.UnboundIdx})
					}
				}
			}
			offset += len(schema)
		}

		switch len(candidates) {
		case 0:
			// Unbound; caught by verifyAttrRefs if actually required.
		case 1:
			c := candidates[0]
			if a.Tablename != "" && a.Tablename != c.tablename {
				errs = multierror.Append(errs, sql.ErrAttrRebind.New(a.Aname, a.Tablename, c.tablename))
				continue
			}
			a.Tablename = c.tablename
			a.Typ = c.typ
			a.Idx = c.idx
			if a.IsAggRef {
				a.Gidx = c.gidx
			}
		default:
			errs = multierror.Append(errs, sql.ErrAttrAmbiguous.New(a.String()))
		}
	}

	return errs.ErrorOrNil()
}

type candidate struct {
	tablename string
	typ       sql.Type
	idx       int
	gidx      int
}

// disambiguateAttrs walks every operator in the plan, disambiguating its
// own attribute references. Source operators contribute no expressions
// of their own, so attrsFromNonSourceOp already returns nil for them;
// the explicit skip the original performs is unnecessary here.
func disambiguateAttrs(root sql.Node) error {
	var errs *multierror.Error
	plan.Walk(root, func(n sql.Node) bool {
		if err := disambiguateOpAttrs(n); err != nil {
			errs = multierror.Append(errs, err)
		}
		return true
	})
	return errs.ErrorOrNil()
}

// verifyAttrRefs checks that every attribute actually referenced by an
// operator's expressions ended up with a concrete index, per spec.md
// §4.E step 5.
func verifyAttrRefs(root sql.Node) error {
	var errs *multierror.Error
	plan.Walk(root, func(n sql.Node) bool {
		for _, a := range attrsFromNonSourceOp(n) {
			if a.Idx == sql.UnboundIdx {
				errs = multierror.Append(errs, sql.ErrAttrUnbound.New(a.String()))
			}
		}
		return true
	})
	return errs.ErrorOrNil()
}

// firstFrom returns the first From node found in a depth-first walk of
// root, or nil if none remains.
func firstFrom(root sql.Node) *plan.From {
	found := plan.Collect(root, func(n sql.Node) bool {
		_, ok := n.(*plan.From)
		return ok
	})
	if len(found) == 0 {
		return nil
	}
	return found[0].(*plan.From)
}

// expandFromOp replaces f (found somewhere under root) with a left-deep
// join tree over its sources, chosen by Selinger cost search over the
// equi-join predicates collected from every Filter that is an ancestor
// of f. Returns the (possibly new) root.
func (o *Optimizer) expandFromOp(root sql.Node, f *plan.From) (sql.Node, error) {
	preds := append([]*expr.BinOp{}, collectAncestorPredicates(f)...)
	preds = append(preds, clauseEqPredicates(f.Clauses)...)

	joinTree, err := newSelinger(o.Exhaustive).plan(f.Sources, preds)
	if err != nil {
		return nil, err
	}

	parent := f.Parent()
	if parent == nil {
		if pt, ok := joinTree.(plan.ParentTracker); ok {
			pt.SetParent(nil)
		}
		return joinTree, nil
	}

	replacer, ok := parent.(plan.Replacer)
	if !ok {
		return nil, errors.Errorf("%T does not implement plan.Replacer, cannot splice in join tree", parent)
	}
	if err := replacer.ReplaceChild(f, joinTree); err != nil {
		return nil, err
	}
	if pt, ok := joinTree.(plan.ParentTracker); ok {
		pt.SetParent(parent)
	}
	return root, nil
}

// collectAncestorPredicates walks from f's parent up to the root,
// collecting every valid equi-join predicate inside any Filter ancestor
// found along the way.
func collectAncestorPredicates(f *plan.From) []*expr.BinOp {
	var preds []*expr.BinOp
	pt, ok := sql.Node(f).(plan.ParentTracker)
	if !ok {
		return nil
	}
	for p := pt.Parent(); p != nil; {
		if filt, ok := p.(*plan.Filter); ok {
			preds = append(preds, collectEqPredicates(filt.Cond)...)
		}
		ppt, ok := p.(plan.ParentTracker)
		if !ok {
			break
		}
		p = ppt.Parent()
	}
	return preds
}

// clauseEqPredicates filters a From's own carried WHERE conjuncts
// (populated directly by whatever builds the plan, e.g. a future parser)
// down to the valid equi-join subset, same rule as collectEqPredicates.
func clauseEqPredicates(clauses []sql.Expression) []*expr.BinOp {
	var preds []*expr.BinOp
	for _, c := range clauses {
		preds = append(preds, collectEqPredicates(c)...)
	}
	return preds
}

// collectEqPredicates walks e's expression tree collecting every binary
// `=` node that is a valid join predicate (validJoinExpr).
func collectEqPredicates(e sql.Expression) []*expr.BinOp {
	var out []*expr.BinOp
	var walk func(sql.Expression)
	walk = func(e sql.Expression) {
		switch v := e.(type) {
		case *expr.BinOp:
			if v.Op == expr.Eq && validJoinExpr(v) {
				out = append(out, v)
			}
			walk(v.L)
			walk(v.R)
		case *expr.UnOp:
			walk(v.E)
		case *expr.Paren:
			walk(v.Expr)
		case *expr.Between:
			walk(v.E)
			walk(v.Lo)
			walk(v.Hi)
		case *expr.ScalarFunc:
			for _, a := range v.Args {
				walk(a)
			}
		case *expr.AggFunc:
			for _, a := range v.Args {
				walk(a)
			}
		}
	}
	walk(e)
	return out
}

// validJoinExpr reports whether e compares an attribute in one table
// against an attribute in a different table: T.a = S.b is valid, T.a =
// T.b and T.a = S.b + 1 are not. Mirrors optimizer.py's
// valid_join_expr.
func validJoinExpr(e *expr.BinOp) bool {
	if e.Op != expr.Eq {
		return false
	}
	l, ok := e.L.(*sql.Attr)
	if !ok {
		return false
	}
	r, ok := e.R.(*sql.Attr)
	if !ok {
		return false
	}
	if l.Tablename == "" || r.Tablename == "" {
		return false
	}
	return l.Tablename != r.Tablename
}
