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
)

func TestScanAliasStampsSchema(t *testing.T) {
	require := require.New(t)

	table := newPeopleTable()
	s := NewScan(table, "p")
	require.NoError(s.InitSchema())
	require.Equal("p", s.Schema()[0].Tablename)

	it, err := s.Iterator()
	require.NoError(err)
	rows, err := drain(it)
	require.NoError(err)
	require.Len(rows, 3)
	require.Equal("alice", rows[0].Values[0])
}

func TestScanDefaultAliasIsTableName(t *testing.T) {
	require := require.New(t)

	table := newPeopleTable()
	s := NewScan(table, "")
	require.Equal("people", s.Alias)
}

func TestScanReusesTupleBuffer(t *testing.T) {
	require := require.New(t)

	table := newPeopleTable()
	s := NewScan(table, "p")
	require.NoError(s.InitSchema())

	it, err := s.Iterator()
	require.NoError(err)
	first, err := it.Next()
	require.NoError(err)
	name := first.Values[0]

	_, err = it.Next()
	require.NoError(err)
	// The buffer was reused: first's backing values slice has moved on.
	require.NotEqual(name, first.Values[0])
}
