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

func TestProjectDefaultAliasFromAttrName(t *testing.T) {
	require := require.New(t)

	table := newPeopleTable()
	s := NewScan(table, "p")
	require.NoError(s.InitSchema())

	name := sql.NewAttr("name", sql.StrType, "p")
	name.Idx = 0
	p := NewProject([]sql.Expression{name}, []string{""}, s)
	require.NoError(p.InitSchema())
	require.Equal("name", p.Aliases[0])

	it, err := p.Iterator()
	require.NoError(err)
	rows, err := drain(it)
	require.NoError(err)
	require.Len(rows, 3)
	require.Equal("alice", rows[0].Values[0])
}

func TestProjectExpandsStar(t *testing.T) {
	require := require.New(t)

	table := newPeopleTable()
	s := NewScan(table, "p")
	require.NoError(s.InitSchema())

	p := NewProject([]sql.Expression{expr.NewStar()}, []string{""}, s)
	require.NoError(p.InitSchema())
	require.Len(p.Exprs, 2)
	require.Equal("name", p.Aliases[0])
	require.Equal("age", p.Aliases[1])
}

func TestProjectNoChildEvaluatesOnce(t *testing.T) {
	require := require.New(t)

	p := NewProject([]sql.Expression{expr.NewLiteral(1.0)}, []string{"one"}, nil)
	require.NoError(p.InitSchema())
	require.Nil(p.Children())

	it, err := p.Iterator()
	require.NoError(err)
	rows, err := drain(it)
	require.NoError(err)
	require.Len(rows, 1)
	require.Equal(1.0, rows[0].Values[0])
}
