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
	"io"

	"github.com/owen6314/databass-public/sql"
)

// newPeopleTable builds a small in-memory table used across this
// package's tests: three rows, one string and one numeric column.
func newPeopleTable() *sql.Table {
	schema := sql.NewSchema(
		sql.NewAttr("name", sql.StrType, ""),
		sql.NewAttr("age", sql.NumType, ""),
	)
	return sql.NewInMemoryTable("people", schema, [][]interface{}{
		{"alice", 30.0},
		{"bob", 25.0},
		{"carol", 25.0},
	})
}

func drain(it sql.RowIter) ([]*sql.Row, error) {
	var out []*sql.Row
	for {
		row, err := it.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, row.Copy())
	}
}
