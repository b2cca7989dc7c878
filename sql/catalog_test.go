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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogSetupRegistersCSVTables(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	csvData := "a,b\n1,hello\n2,world\n"
	require.NoError(os.WriteFile(filepath.Join(dir, "data.csv"), []byte(csvData), 0o644))

	cat := NewCatalog()
	require.NoError(cat.Setup(dir))

	require.Equal([]string{"data"}, cat.Tablenames())

	tbl, err := cat.Table("data")
	require.NoError(err)
	require.Equal(2, tbl.Len())

	typA, err := tbl.Schema().GetType("a")
	require.NoError(err)
	require.Equal(NumType, typA)

	typB, err := tbl.Schema().GetType("b")
	require.NoError(err)
	require.Equal(StrType, typB)
}

func TestCatalogRegisterDuplicateFails(t *testing.T) {
	require := require.New(t)

	cat := NewCatalog()
	schema := NewSchema(NewAttr("a", NumType, ""))
	require.NoError(cat.Register(NewInMemoryTable("t", schema, nil)))

	err := cat.Register(NewInMemoryTable("t", schema.Copy(), nil))
	require.True(ErrTableExists.Is(err))
}

func TestCatalogTableNotFound(t *testing.T) {
	require := require.New(t)

	cat := NewCatalog()
	_, err := cat.Table("missing")
	require.True(ErrTableNotFound.Is(err))
}
