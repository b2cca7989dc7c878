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
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestYieldIsIdentity(t *testing.T) {
	require := require.New(t)

	table := newPeopleTable()
	s := NewScan(table, "p")
	require.NoError(s.InitSchema())
	y := NewYield(s)
	require.NoError(y.InitSchema())

	it, err := y.Iterator()
	require.NoError(err)
	rows, err := drain(it)
	require.NoError(err)
	require.Len(rows, 3)
}

func TestPrintWritesEveryRow(t *testing.T) {
	require := require.New(t)

	table := newPeopleTable()
	s := NewScan(table, "p")
	require.NoError(s.InitSchema())
	var buf bytes.Buffer
	p := NewPrint(&buf, s)
	require.NoError(p.InitSchema())

	it, err := p.Iterator()
	require.NoError(err)
	_, err = it.Next()
	require.Equal(io.EOF, err)
	require.Contains(buf.String(), "alice")
	require.Contains(buf.String(), "bob")
	require.Contains(buf.String(), "carol")
}
