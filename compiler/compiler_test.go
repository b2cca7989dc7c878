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

package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewVarIsStablePerPrefix(t *testing.T) {
	require := require.New(t)

	c := New()
	require.Equal("v_0", c.NewVar("v"))
	require.Equal("v_1", c.NewVar("v"))
	require.Equal("row_0", c.NewVar("row"))
	require.Equal("v_2", c.NewVar("v"))
}

func TestCompileToFuncIndentation(t *testing.T) {
	require := require.New(t)

	c := New()
	c.AddLine("x := 1")
	require.NoError(c.WithIndent(func() error {
		c.AddLine("y := 2")
		return nil
	}))
	c.AddLine("z := 3")

	got := c.CompileToFunc("f")
	want := "func f() {\n\tx := 1\n\t\ty := 2\n\tz := 3\n}\n"
	require.Equal(want, got)
}

func TestContextIOVarStack(t *testing.T) {
	require := require.New(t)

	ctx := NewContext(New())
	ctx.PushIOVars("row_0", "v_0")
	ctx.PushIOVars("row_1", "v_1")

	in1, out1 := ctx.PopIOVars()
	require.Equal("row_1", in1)
	require.Equal("v_1", out1)

	in0, out0 := ctx.PopIOVars()
	require.Equal("row_0", in0)
	require.Equal("v_0", out0)
}

func TestContextOpVarScope(t *testing.T) {
	require := require.New(t)

	ctx := NewContext(New())
	ctx.RequestVars(map[string]interface{}{"htable": "ht_0"})
	require.Equal("ht_0", ctx.Get("htable"))
	ctx.Set("probe", "p_0")

	vars := ctx.PopVars()
	require.Equal("ht_0", vars["htable"])
	require.Equal("p_0", vars["probe"])
}
