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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/owen6314/databass-public/sql"
)

func TestAggFuncMarksAttrsAsAggRef(t *testing.T) {
	require := require.New(t)

	reg := sql.NewRegistry()
	a := sql.NewAttr("x", sql.NumType, "")
	_, err := NewAggFunc(reg, "sum", []sql.Expression{a})
	require.NoError(err)
	require.True(a.IsAggRef)
}

func TestAggFuncEvalOverGroup(t *testing.T) {
	require := require.New(t)

	reg := sql.NewRegistry()
	memberSchema := sql.NewSchema(sql.NewAttr("x", sql.NumType, "t"))

	a := sql.NewAttr("x", sql.NumType, "t")
	a.Idx = 0
	a.Gidx = 1 // __group__ sits at outer-row index 1

	agg, err := NewAggFunc(reg, "sum", []sql.Expression{a})
	require.NoError(err)

	group := &sql.Group{
		Schema: memberSchema,
		Rows: []*sql.Row{
			sql.NewRow(memberSchema, 1.0),
			sql.NewRow(memberSchema, 2.0),
			sql.NewRow(memberSchema, 3.0),
		},
	}

	outerSchema := sql.NewSchema(sql.NewAttr("k", sql.StrType, ""), sql.NewAttr(sql.GroupAttrName, sql.UnknownType, ""))
	outerRow := sql.NewRow(outerSchema, "key", group)

	v, err := agg.Eval(outerRow)
	require.NoError(err)
	require.Equal(6.0, v)
}
