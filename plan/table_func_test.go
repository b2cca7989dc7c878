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

	"github.com/owen6314/databass-public/sql"
)

func TestTableFunctionSourceIsUnsupported(t *testing.T) {
	require := require.New(t)

	schema := sql.NewSchema(sql.NewAttr("n", sql.NumType, ""))
	gen := func() ([]*sql.Row, error) {
		return []*sql.Row{sql.NewRow(schema, 1.0), sql.NewRow(schema, 2.0)}, nil
	}
	tf := NewTableFunctionSource(schema, "nums", gen)
	require.NoError(tf.InitSchema())
	require.Equal("nums", tf.Schema()[0].Tablename)

	_, err := tf.Iterator()
	require.True(sql.ErrUnsupportedOperator.Is(err))

	err = tf.Produce(nil)
	require.True(sql.ErrUnsupportedOperator.Is(err))

	err = tf.Consume(nil, nil, nil)
	require.True(sql.ErrUnsupportedOperator.Is(err))
}
