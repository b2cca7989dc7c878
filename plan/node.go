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

// Package plan implements the operator algebra: table sources, joins,
// and the single-child pipeline operators (Filter, Project, OrderBy,
// Limit, Distinct, GroupBy, Yield, Print). Every node supports both
// row-at-a-time iteration and produce/consume code generation.
package plan

import "github.com/owen6314/databass-public/sql"

// ParentTracker is implemented by every operator: the optimizer's
// From-expansion rewires plan-tree edges in place (replacing a logical
// From with a physical join tree) and needs to fix up the new subtree's
// parent pointer without caring what concrete operator type it is.
type ParentTracker interface {
	Parent() sql.Node
	SetParent(sql.Node)
}

// Replacer is implemented by every operator: ReplaceChild swaps old for
// new among this node's direct children, used by the optimizer when it
// splices a new join node into the tree in place of a From.
type Replacer interface {
	ReplaceChild(old, new sql.Node) error
}

// unaryOp is embedded by every single-child pipeline operator
// (Filter, Project, OrderBy, Limit, Distinct, GroupBy, Yield, Print,
// SubQuerySource), giving it Children/Schema/Parent/ReplaceChild for
// free; the embedding type still implements InitSchema/Iterator/
// Produce/Consume/String itself.
type unaryOp struct {
	Child  sql.Node
	parent sql.Node
	schema sql.Schema
}

func (u *unaryOp) Children() []sql.Node { return []sql.Node{u.Child} }
func (u *unaryOp) Schema() sql.Schema   { return u.schema }
func (u *unaryOp) Parent() sql.Node     { return u.parent }
func (u *unaryOp) SetParent(p sql.Node) { u.parent = p }

func (u *unaryOp) ReplaceChild(old, new sql.Node) error {
	if u.Child != old {
		return sql.ErrInvalidArgument.New("not a child of this operator")
	}
	u.Child = new
	return nil
}

// binaryOp is embedded by ThetaJoin and HashJoin.
type binaryOp struct {
	L, R   sql.Node
	parent sql.Node
	schema sql.Schema
}

func (b *binaryOp) Children() []sql.Node { return []sql.Node{b.L, b.R} }
func (b *binaryOp) Schema() sql.Schema   { return b.schema }
func (b *binaryOp) Parent() sql.Node     { return b.parent }
func (b *binaryOp) SetParent(p sql.Node) { b.parent = p }

func (b *binaryOp) ReplaceChild(old, new sql.Node) error {
	switch old {
	case b.L:
		b.L = new
	case b.R:
		b.R = new
	default:
		return sql.ErrInvalidArgument.New("not a child of this operator")
	}
	return nil
}

// sourceOp is embedded by every leaf operator (Scan, TableFunctionSource).
type sourceOp struct {
	parent sql.Node
	schema sql.Schema
}

func (s *sourceOp) Children() []sql.Node { return nil }
func (s *sourceOp) Schema() sql.Schema   { return s.schema }
func (s *sourceOp) Parent() sql.Node     { return s.parent }
func (s *sourceOp) SetParent(p sql.Node) { s.parent = p }

func (s *sourceOp) ReplaceChild(old, new sql.Node) error {
	return sql.ErrInvalidArgument.New("source operators have no children")
}

// Walk visits node and every descendant, depth-first, calling fn on each.
// Walk stops early if fn returns false.
func Walk(node sql.Node, fn func(sql.Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, c := range node.Children() {
		Walk(c, fn)
	}
}

// Collect returns every node in the subtree rooted at node for which
// pred returns true.
func Collect(node sql.Node, pred func(sql.Node) bool) []sql.Node {
	var out []sql.Node
	Walk(node, func(n sql.Node) bool {
		if pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// SetParents fixes up the Parent() pointer of every direct child of node
// to point back at node. Operators that build new nodes programmatically
// (From-expansion's join trees, GroupBy/Project/OrderBy construction)
// call this once after wiring Children so ParentTracker stays correct.
func SetParents(node sql.Node) {
	for _, c := range node.Children() {
		if pt, ok := c.(ParentTracker); ok {
			pt.SetParent(node)
		}
	}
}
