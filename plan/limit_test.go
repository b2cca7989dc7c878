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

func TestLimitCountAndOffset(t *testing.T) {
	require := require.New(t)

	table := newPeopleTable()
	s := NewScan(table, "p")
	require.NoError(s.InitSchema())

	l, err := NewLimit(1, 1, s)
	require.NoError(err)
	require.NoError(l.InitSchema())

	it, err := l.Iterator()
	require.NoError(err)
	rows, err := drain(it)
	require.NoError(err)
	require.Len(rows, 1)
	require.Equal("bob", rows[0].Values[0])
}

func TestLimitRejectsNegativeOffset(t *testing.T) {
	require := require.New(t)

	table := newPeopleTable()
	s := NewScan(table, "p")
	require.NoError(s.InitSchema())

	_, err := NewLimit(1, -1, s)
	require.Error(err)
}

func TestLimitNoLimitOnlyOffsets(t *testing.T) {
	require := require.New(t)

	table := newPeopleTable()
	s := NewScan(table, "p")
	require.NoError(s.InitSchema())

	l, err := NewLimit(-1, 2, s)
	require.NoError(err)
	require.NoError(l.InitSchema())

	it, err := l.Iterator()
	require.NoError(err)
	rows, err := drain(it)
	require.NoError(err)
	require.Len(rows, 1)
	require.Equal("carol", rows[0].Values[0])
}
