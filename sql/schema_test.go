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

func TestSchemaIdx(t *testing.T) {
	require := require.New(t)

	schema := NewSchema(
		NewAttr("a", NumType, "data"),
		NewAttr("b", StrType, "data"),
	)

	idx, err := schema.Idx(NewAttr("b", UnknownType, ""))
	require.NoError(err)
	require.Equal(1, idx)

	_, err = schema.Idx(NewAttr("c", UnknownType, ""))
	require.True(ErrNoSuchColumn.Is(err))
}

func TestSchemaIdxAmbiguous(t *testing.T) {
	require := require.New(t)

	schema := NewSchema(
		NewAttr("a", NumType, "left"),
		NewAttr("a", NumType, "right"),
	)

	_, err := schema.Idx(NewAttr("a", UnknownType, ""))
	require.True(ErrAttrAmbiguous.Is(err))
}

func TestSchemaCopyIsDeep(t *testing.T) {
	require := require.New(t)

	schema := NewSchema(NewAttr("a", NumType, "data"))
	cp := schema.Copy()
	cp[0].Tablename = "other"

	require.Equal("data", schema[0].Tablename)
	require.Equal("other", cp[0].Tablename)
}

func TestSchemaSetTablename(t *testing.T) {
	require := require.New(t)

	schema := NewSchema(NewAttr("a", NumType, ""), NewAttr("b", NumType, ""))
	schema.SetTablename("t")

	require.Equal("t", schema[0].Tablename)
	require.Equal("t", schema[1].Tablename)
}
