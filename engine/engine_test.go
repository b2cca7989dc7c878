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

package engine

import (
	"strings"
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

func newTestEngine(t *testing.T) *Engine {
	catalog := sql.NewCatalog()
	require.NoError(t, catalog.Register(peopleTable()))
	return New(catalog, sql.NewRegistry(), nil)
}

func TestQueryRunsFilterOverScan(t *testing.T) {
	require := require.New(t)

	scan := plan.NewScan(peopleTable(), "people")
	from := plan.NewFrom([]sql.Node{scan}, nil)
	cond := expr.NewBinOp(expr.Gt, sql.NewAttr("pid", sql.UnknownType, ""), expr.NewLiteral(1.0))
	filter := plan.NewFilter(cond, from)

	schema, rows, err := newTestEngine(t).Query(filter)
	require.NoError(err)
	require.Len(schema, 2)
	require.Len(rows, 2)
}

func TestQueryRejectsNilPlan(t *testing.T) {
	_, _, err := newTestEngine(t).Query(nil)
	require.Error(t, err)
}

func TestCompileEmitsPlanOuterLabelAndCatalogReference(t *testing.T) {
	require := require.New(t)

	scan := plan.NewScan(peopleTable(), "people")
	from := plan.NewFrom([]sql.Node{scan}, nil)

	src, err := newTestEngine(t).Compile(from)
	require.NoError(err)
	require.Contains(src, "plan_outer:")
	require.Contains(src, "func compiled_q() []*sql.Row {")
	require.Contains(src, `catalog.MustTable("people")`)
	require.Contains(src, "var out []*sql.Row")
	require.Contains(src, "out = append(out, ")

	// The label must precede the first for-loop it guards.
	require.Less(strings.Index(src, "plan_outer:"), strings.Index(src, "for "))
}

func TestCompileHonorsConfiguredFuncName(t *testing.T) {
	require := require.New(t)

	catalog := sql.NewCatalog()
	require.NoError(catalog.Register(peopleTable()))
	eng := New(catalog, sql.NewRegistry(), &Config{FuncName: "run_it"})

	scan := plan.NewScan(peopleTable(), "people")
	from := plan.NewFrom([]sql.Node{scan}, nil)

	src, err := eng.Compile(from)
	require.NoError(err)
	require.Contains(src, "func run_it() []*sql.Row {")
	require.Contains(src, "rows := run_it()")
}

func TestCompileWithPrintRootWritesToWriterAndReturnsNil(t *testing.T) {
	require := require.New(t)

	scan := plan.NewScan(peopleTable(), "people")
	from := plan.NewFrom([]sql.Node{scan}, nil)
	print := plan.NewPrint(nil, from)

	src, err := newTestEngine(t).Compile(print)
	require.NoError(err)
	require.Contains(src, "writer := os.Stdout")
	require.Contains(src, "fmt.Fprintln(writer,")
	require.NotContains(src, "var out []*sql.Row")
}
