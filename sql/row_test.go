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

func TestRowCopyIsIndependent(t *testing.T) {
	require := require.New(t)

	schema := NewSchema(NewAttr("a", NumType, ""))
	row := NewRow(schema, 1.0)
	cp := row.Copy()
	cp.Set(0, 2.0)

	require.Equal(1.0, row.Get(0))
	require.Equal(2.0, cp.Get(0))
}

func TestRowHashStable(t *testing.T) {
	require := require.New(t)

	schema := NewSchema(NewAttr("a", NumType, ""), NewAttr("b", StrType, ""))
	r1 := NewRow(schema, 1.0, "x")
	r2 := NewRow(schema, 1.0, "x")
	r3 := NewRow(schema, 1.0, "y")

	h1, err := r1.Hash()
	require.NoError(err)
	h2, err := r2.Hash()
	require.NoError(err)
	h3, err := r3.Hash()
	require.NoError(err)

	require.Equal(h1, h2)
	require.NotEqual(h1, h3)
}
