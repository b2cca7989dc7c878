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

// Package sql holds the core data model shared by every other package:
// attributes, schemas, rows, tables, the function registry and the
// catalog of tables known to a query.
package sql

import "github.com/spf13/cast"

// Type is one of the two value domains the engine understands.
type Type string

const (
	// NumType is the numeric domain (represented as float64 at runtime).
	NumType Type = "num"
	// StrType is the string domain.
	StrType Type = "str"
	// UnknownType is used as a wildcard when matching attributes ("?" in
	// the original): it matches any concrete type.
	UnknownType Type = "?"
	// BoolType is the type of comparison/logical expressions (join and
	// filter conditions). GuessType never assigns it to a table column;
	// it is what Expression.GetType reports for predicates, and so the
	// type of a Project column computed from one.
	BoolType Type = "bool"
)

// GuessType infers a column's Type from a sample value, following the
// same num-vs-string split as the original's guess_type: anything that
// parses as a number is NumType, everything else is StrType.
func GuessType(v interface{}) Type {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return NumType
	}
	if s, ok := v.(string); ok {
		if _, err := cast.ToFloat64E(s); err == nil {
			return NumType
		}
	}
	return StrType
}

// ToFloat64 coerces a row value into the numeric domain, panicking-free:
// it returns an error through cast's E-suffixed helpers upstream; callers
// that already know the value is numeric use ToFloat64 directly.
func ToFloat64(v interface{}) (float64, error) {
	return cast.ToFloat64E(v)
}

// ToStr coerces a row value into the string domain.
func ToStr(v interface{}) (string, error) {
	return cast.ToStringE(v)
}

// Less orders two column values for ORDER BY: numerically if both
// coerce to float64, lexicographically otherwise. Used both by the
// interpreted OrderBy iterator and by OrderBy's generated comparator.
func Less(a, b interface{}) bool {
	af, aerr := ToFloat64(a)
	bf, berr := ToFloat64(b)
	if aerr == nil && berr == nil {
		return af < bf
	}
	as, _ := ToStr(a)
	bs, _ := ToStr(b)
	return as < bs
}
