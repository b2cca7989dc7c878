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
	"fmt"

	"github.com/cespare/xxhash"
	"github.com/mitchellh/hashstructure"
)

// Row is a single tuple: a flat slice of column values paired with the
// Schema that names them. Several operators (Scan and Project among
// them) reuse one Row object across iterations for speed, mutating
// Values in place; anything that must retain a Row past the iteration
// that produced it (GroupBy buckets, HashJoin's build side, OrderBy's
// buffer) must call Copy first.
type Row struct {
	Schema Schema
	Values []interface{}
}

// NewRow builds a row over schema with the given values, which must be
// the same length as schema.
func NewRow(schema Schema, values ...interface{}) *Row {
	return &Row{Schema: schema, Values: values}
}

// Get returns the value at position idx.
func (r *Row) Get(idx int) interface{} {
	return r.Values[idx]
}

// Set stores v at position idx.
func (r *Row) Set(idx int, v interface{}) {
	r.Values[idx] = v
}

// Copy deep-copies the row's value slice (the Schema pointer is shared,
// since schemas are treated as immutable once bound).
func (r *Row) Copy() *Row {
	vals := make([]interface{}, len(r.Values))
	copy(vals, r.Values)
	return &Row{Schema: r.Schema, Values: vals}
}

// Hash returns a structural hash of the row's values, used by Distinct's
// seen-set (GroupBy and HashJoin hash their key columns through
// HashValues instead). Scalar
// leaves are pre-hashed with xxhash before being folded into the overall
// hashstructure walk, which is otherwise reflection-heavy on every call.
func (r *Row) Hash() (uint64, error) {
	return HashValues(r.Values)
}

// HashValues hashes an arbitrary slice of column values the same way
// Row.Hash does; used directly by GroupBy/HashJoin when hashing only a
// subset of a row's columns (the GROUP BY / JOIN key expressions).
func HashValues(values []interface{}) (uint64, error) {
	mixed := make([]uint64, len(values))
	for i, v := range values {
		h, err := scalarHash(v)
		if err != nil {
			return 0, err
		}
		mixed[i] = h
	}
	return hashstructure.Hash(mixed, nil)
}

func scalarHash(v interface{}) (uint64, error) {
	switch t := v.(type) {
	case string:
		return xxhash.Sum64String(t), nil
	case float64, int, int64:
		return xxhash.Sum64String(fmt.Sprintf("%v", t)), nil
	default:
		return hashstructure.Hash(v, nil)
	}
}

func (r *Row) String() string {
	return fmt.Sprintf("%v", r.Values)
}
