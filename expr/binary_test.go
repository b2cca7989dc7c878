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

package expr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/owen6314/databass-public/compiler"
	"github.com/owen6314/databass-public/sql"
)

func TestBinOpArithmeticEval(t *testing.T) {
	require := require.New(t)

	add := NewBinOp(Add, NewLiteral(1.0), NewLiteral(2.0))
	v, err := add.Eval(nil)
	require.NoError(err)
	require.Equal(3.0, v)
	require.Equal(sql.NumType, add.GetType())
}

func TestBinOpComparisonEval(t *testing.T) {
	require := require.New(t)

	gt := NewBinOp(Gt, NewLiteral(2.0), NewLiteral(1.0))
	v, err := gt.Eval(nil)
	require.NoError(err)
	require.Equal(true, v)
	require.Equal(sql.BoolType, gt.GetType())
}

func TestBinOpEqualityAcrossTypes(t *testing.T) {
	require := require.New(t)

	eq := NewBinOp(Eq, NewLiteral("x"), NewLiteral("x"))
	v, err := eq.Eval(nil)
	require.NoError(err)
	require.Equal(true, v)
}

func TestUnOpNot(t *testing.T) {
	require := require.New(t)

	not := NewUnOp(Not, NewBool(false))
	v, err := not.Eval(nil)
	require.NoError(err)
	require.Equal(true, v)
}

func TestBinOpCompile(t *testing.T) {
	require := require.New(t)

	c := compiler.New()
	ctx := compiler.NewContext(c)
	add := NewBinOp(Add, NewLiteral(1.0), NewLiteral(2.0))

	ctx.PushIOVars("row_0", "v_out")
	require.NoError(add.Compile(ctx))

	lines := c.Lines()
	require.True(len(lines) >= 3)
	require.Contains(lines[len(lines)-1], "v_out = ")
}

func TestBetweenInclusiveBothBounds(t *testing.T) {
	require := require.New(t)

	b := NewBetween(NewLiteral(5.0), NewLiteral(1.0), NewLiteral(5.0))
	v, err := b.Eval(nil)
	require.NoError(err)
	require.Equal(true, v, "upper bound must be inclusive")

	b2 := NewBetween(NewLiteral(1.0), NewLiteral(1.0), NewLiteral(5.0))
	v2, err := b2.Eval(nil)
	require.NoError(err)
	require.Equal(true, v2, "lower bound must be inclusive")
}
