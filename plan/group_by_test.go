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

func TestGroupByBucketsByKey(t *testing.T) {
	require := require.New(t)

	table := newPeopleTable()
	s := NewScan(table, "p")
	require.NoError(s.InitSchema())

	age := sql.NewAttr("age", sql.NumType, "p")
	g := NewGroupBy([]*sql.Attr{age}, s)
	require.NoError(g.InitSchema())
	require.Equal(1, age.Idx)

	it, err := g.Iterator()
	require.NoError(err)
	rows, err := drain(it)
	require.NoError(err)
	require.Len(rows, 2)

	keyIdx := g.Schema().IndexOfName(sql.KeyAttrName)
	groupIdx := g.Schema().IndexOfName(sql.GroupAttrName)
	require.NotEqual(sql.UnboundIdx, keyIdx)
	require.NotEqual(sql.UnboundIdx, groupIdx)

	for _, row := range rows {
		grp, ok := row.Values[groupIdx].(*sql.Group)
		require.True(ok)
		if row.Values[0] == 25.0 {
			require.Len(grp.Rows, 2)
		} else {
			require.Len(grp.Rows, 1)
		}
	}
}
