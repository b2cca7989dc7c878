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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/owen6314/databass-public/expr"
	"github.com/owen6314/databass-public/sql"
)

func TestFilterOnlyYieldsMatchingRows(t *testing.T) {
	require := require.New(t)

	table := newPeopleTable()
	s := NewScan(table, "p")
	require.NoError(s.InitSchema())

	age := sql.NewAttr("age", sql.NumType, "p")
	cond := expr.NewBinOp(expr.Eq, age, expr.NewLiteral(25.0))
	f := NewFilter(cond, s)
	require.NoError(f.InitSchema())
	age.Idx = 1

	it, err := f.Iterator()
	require.NoError(err)
	rows, err := drain(it)
	require.NoError(err)
	require.Len(rows, 2)
	require.Equal("bob", rows[0].Values[0])
	require.Equal("carol", rows[1].Values[0])
}
