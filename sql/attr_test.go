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

package sql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttrMatches(t *testing.T) {
	require := require.New(t)

	col := NewAttr("a", NumType, "data")
	col.Idx = 0

	require.True(NewAttr("a", UnknownType, "").Matches(col))
	require.True(NewAttr("a", NumType, "data").Matches(col))
	require.False(NewAttr("b", UnknownType, "").Matches(col))
	require.False(NewAttr("a", StrType, "").Matches(col))
	require.False(NewAttr("a", UnknownType, "other").Matches(col))
}

func TestAttrIDsAreUnique(t *testing.T) {
	require := require.New(t)

	a := NewAttr("x", NumType, "")
	b := NewAttr("x", NumType, "")
	require.NotEqual(a.ID, b.ID)
}

func TestAttrEvalUnbound(t *testing.T) {
	require := require.New(t)

	a := NewAttr("x", NumType, "")
	_, err := a.Eval(&Row{})
	require.True(ErrAttrUnbound.Is(err))
}

func TestAttrEvalBound(t *testing.T) {
	require := require.New(t)

	schema := NewSchema(NewAttr("a", NumType, ""), NewAttr("b", StrType, ""))
	row := NewRow(schema, 1.0, "x")

	a := NewAttr("b", UnknownType, "")
	a.Idx = 1
	v, err := a.Eval(row)
	require.NoError(err)
	require.Equal("x", v)
}
