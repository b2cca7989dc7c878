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

func TestFromConcatenatesSchemas(t *testing.T) {
	require := require.New(t)

	people := NewScan(newPeopleTable(), "p")
	require.NoError(people.InitSchema())
	orders := NewScan(newOrdersTable(), "o")
	require.NoError(orders.InitSchema())

	f := NewFrom([]sql.Node{people, orders}, nil)
	require.NoError(f.InitSchema())
	require.Len(f.Schema(), 4)
}

func TestFromRejectsDuplicateTablenames(t *testing.T) {
	require := require.New(t)

	a := NewScan(newPeopleTable(), "p")
	require.NoError(a.InitSchema())
	b := NewScan(newPeopleTable(), "p")
	require.NoError(b.InitSchema())

	f := NewFrom([]sql.Node{a, b}, nil)
	err := f.InitSchema()
	require.True(sql.ErrTablenameConflict.Is(err))
}

func TestFromNeverExecutes(t *testing.T) {
	require := require.New(t)

	people := NewScan(newPeopleTable(), "p")
	require.NoError(people.InitSchema())
	f := NewFrom([]sql.Node{people}, nil)
	require.NoError(f.InitSchema())

	_, err := f.Iterator()
	require.True(sql.ErrUnsupportedOperator.Is(err))
}
