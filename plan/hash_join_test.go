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

func TestHashJoinEquiJoin(t *testing.T) {
	require := require.New(t)

	people := NewScan(newPeopleTable(), "p")
	require.NoError(people.InitSchema())
	orders := NewScan(newOrdersTable(), "o")
	require.NoError(orders.InitSchema())

	pname := sql.NewAttr("name", sql.StrType, "p")
	oowner := sql.NewAttr("owner", sql.StrType, "o")
	pname.Idx = 0
	oowner.Idx = 0

	j := NewHashJoin([]*sql.Attr{pname}, []*sql.Attr{oowner}, people, orders)
	require.NoError(j.InitSchema())

	it, err := j.Iterator()
	require.NoError(err)
	rows, err := drain(it)
	require.NoError(err)
	require.Len(rows, 2)
	for _, row := range rows {
		require.Equal(row.Values[0], row.Values[2])
	}
}

func TestHashJoinNoMatches(t *testing.T) {
	require := require.New(t)

	people := NewScan(newPeopleTable(), "p")
	require.NoError(people.InitSchema())
	empty := sql.NewInMemoryTable("orders", sql.NewSchema(sql.NewAttr("owner", sql.StrType, "")), nil)
	orders := NewScan(empty, "o")
	require.NoError(orders.InitSchema())

	pname := sql.NewAttr("name", sql.StrType, "p")
	oowner := sql.NewAttr("owner", sql.StrType, "o")
	pname.Idx = 0
	oowner.Idx = 0

	j := NewHashJoin([]*sql.Attr{pname}, []*sql.Attr{oowner}, people, orders)
	require.NoError(j.InitSchema())

	it, err := j.Iterator()
	require.NoError(err)
	rows, err := drain(it)
	require.NoError(err)
	require.Len(rows, 0)
}
