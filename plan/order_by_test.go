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

	"github.com/owen6314/databass-public/sql"
)

func TestOrderBySortsAscending(t *testing.T) {
	require := require.New(t)

	table := newPeopleTable()
	s := NewScan(table, "p")
	require.NoError(s.InitSchema())

	age := sql.NewAttr("age", sql.NumType, "p")
	o := NewOrderBy([]*sql.Attr{age}, s)
	require.NoError(o.InitSchema())
	require.Equal(1, age.Idx)

	it, err := o.Iterator()
	require.NoError(err)
	rows, err := drain(it)
	require.NoError(err)
	require.Len(rows, 3)
	require.Equal(25.0, rows[0].Values[1])
	require.Equal(25.0, rows[1].Values[1])
	require.Equal(30.0, rows[2].Values[1])
}

func TestLessOrdersNumericallyThenLexically(t *testing.T) {
	require := require.New(t)

	require.True(sql.Less(1.0, 2.0))
	require.False(sql.Less(2.0, 1.0))
	require.True(sql.Less("a", "b"))
}
