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

package optimizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/owen6314/databass-public/expr"
	"github.com/owen6314/databass-public/plan"
	"github.com/owen6314/databass-public/sql"
)

func peopleTable() *sql.Table {
	schema := sql.NewSchema(
		sql.NewAttr("pid", sql.NumType, ""),
		sql.NewAttr("name", sql.StrType, ""),
	)
	return sql.NewInMemoryTable("people", schema, [][]interface{}{
		{1.0, "alice"},
		{2.0, "bob"},
		{3.0, "carol"},
	})
}

func ordersTable() *sql.Table {
	schema := sql.NewSchema(
		sql.NewAttr("pid", sql.NumType, ""),
		sql.NewAttr("item", sql.StrType, ""),
	)
	return sql.NewInMemoryTable("orders", schema, [][]interface{}{
		{1.0, "widget"},
		{1.0, "gadget"},
		{2.0, "gizmo"},
	})
}

func paymentsTable() *sql.Table {
	schema := sql.NewSchema(
		sql.NewAttr("pid", sql.NumType, ""),
		sql.NewAttr("amount", sql.NumType, ""),
	)
	return sql.NewInMemoryTable("payments", schema, [][]interface{}{
		{1.0, 9.99},
		{2.0, 19.99},
	})
}

// eqPred builds `l.lcol = r.rcol`, the shape the From-expansion pipeline
// recognizes as a join predicate.
func eqPred(ltable, lcol, rtable, rcol string) *expr.BinOp {
	l := sql.NewAttr(lcol, sql.NumType, ltable)
	r := sql.NewAttr(rcol, sql.NumType, rtable)
	return expr.NewBinOp(expr.Eq, l, r)
}

func TestOptimizeReplacesFromWithThetaJoin(t *testing.T) {
	require := require.New(t)

	people := plan.NewScan(peopleTable(), "people")
	orders := plan.NewScan(ordersTable(), "orders")
	from := plan.NewFrom([]sql.Node{people, orders}, nil)
	filter := plan.NewFilter(eqPred("people", "pid", "orders", "pid"), from)

	root, err := New().Optimize(filter)
	require.NoError(err)

	f, ok := root.(*plan.Filter)
	require.True(ok)
	join, ok := f.Child.(*plan.ThetaJoin)
	require.True(ok)
	require.Len(join.Schema(), 4)

	// Both the Filter's own Cond and the join's Cond reference the same
	// two Attr instances, which disambiguation must resolve consistently.
	for _, a := range f.Cond.Attrs() {
		require.NotEqual(sql.UnboundIdx, a.Idx)
	}
}

func TestOptimizeSingleSourceNeedsNoJoin(t *testing.T) {
	require := require.New(t)

	people := plan.NewScan(peopleTable(), "people")
	from := plan.NewFrom([]sql.Node{people}, nil)
	proj := plan.NewProject([]sql.Expression{sql.NewAttr("name", sql.UnknownType, "")}, []string{""}, from)

	root, err := New().Optimize(proj)
	require.NoError(err)

	p, ok := root.(*plan.Project)
	require.True(ok)
	require.Equal(people, p.Child)
}

func TestOptimizeThreeWayJoinPicksLeftDeepTree(t *testing.T) {
	require := require.New(t)

	people := plan.NewScan(peopleTable(), "people")
	orders := plan.NewScan(ordersTable(), "orders")
	payments := plan.NewScan(paymentsTable(), "payments")
	from := plan.NewFrom([]sql.Node{people, orders, payments}, nil)

	cond := expr.NewBinOp(expr.And,
		eqPred("people", "pid", "orders", "pid"),
		eqPred("people", "pid", "payments", "pid"))
	filter := plan.NewFilter(cond, from)

	root, err := New().Optimize(filter)
	require.NoError(err)

	f := root.(*plan.Filter)
	join, ok := f.Child.(*plan.ThetaJoin)
	require.True(ok)
	require.Len(join.Schema(), 6)

	// Left-deep: one side of the top join must itself be a ThetaJoin over
	// two of the three base scans.
	_, lIsJoin := join.L.(*plan.ThetaJoin)
	_, rIsJoin := join.R.(*plan.ThetaJoin)
	require.True(lIsJoin || rIsJoin)
}

func TestOptimizeRejectsAmbiguousAttr(t *testing.T) {
	require := require.New(t)

	a := plan.NewScan(peopleTable(), "a")
	b := plan.NewScan(peopleTable(), "b")
	from := plan.NewFrom([]sql.Node{a, b}, nil)
	filter := plan.NewFilter(
		expr.NewBinOp(expr.Eq, sql.NewAttr("pid", sql.UnknownType, ""), expr.NewLiteral(1.0)),
		from,
	)

	_, err := New().Optimize(filter)
	require.Error(err)
}
