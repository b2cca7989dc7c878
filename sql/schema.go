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
	"strings"
)

// Schema is an ordered list of attribute descriptors. Unlike Attr, a
// Schema describes what an operator actually produces, not a reference
// to be resolved. NewSchema sets each entry's Idx to its position; a
// schema built by concatenation (a join's) keeps each entry's Idx from
// its source schema.
type Schema []*Attr

// NewSchema builds a schema from attribute descriptors, setting each
// entry's Idx to its position as the original's Schema.__init__ does.
func NewSchema(attrs ...*Attr) Schema {
	s := make(Schema, len(attrs))
	for i, a := range attrs {
		cp := *a
		cp.Idx = i
		s[i] = &cp
	}
	return s
}

// SetTablename stamps every column of the schema with tablename, as the
// original's set_tablename does for a freshly scanned table.
func (s Schema) SetTablename(tablename string) {
	for _, a := range s {
		a.Tablename = tablename
	}
}

// Idx returns the position of the column matching attr, or an error if
// none or more than one column matches.
func (s Schema) Idx(attr *Attr) (int, error) {
	found := -1
	for i, a := range s {
		if attr.Matches(a) {
			if found != -1 {
				return -1, ErrAttrAmbiguous.New(attr.String())
			}
			found = i
		}
	}
	if found == -1 {
		return -1, ErrNoSuchColumn.New(attr.String())
	}
	return found, nil
}

// GetType returns the type of the column matching attr, ignoring
// tablename, as the original's get_type does.
func (s Schema) GetType(aname string) (Type, error) {
	for _, a := range s {
		if a.Aname == aname {
			return a.Typ, nil
		}
	}
	return "", ErrNoSuchColumn.New(aname)
}

// Contains reports whether any column matches attr.
func (s Schema) Contains(attr *Attr) bool {
	for _, a := range s {
		if attr.Matches(a) {
			return true
		}
	}
	return false
}

// Copy deep-copies the schema: every Attr is cloned so that mutating the
// copy (e.g. re-stamping a tablename for an aliased subquery) cannot
// affect the original.
func (s Schema) Copy() Schema {
	out := make(Schema, len(s))
	for i, a := range s {
		cp := *a
		out[i] = &cp
	}
	return out
}

// IndexOfName returns the position of the first column named aname, or
// UnboundIdx if none matches. Used to locate the synthetic __group__ and
// __key__ columns by name rather than by full Attr-match.
func (s Schema) IndexOfName(aname string) int {
	for i, a := range s {
		if a.Aname == aname {
			return i
		}
	}
	return UnboundIdx
}

func (s Schema) String() string {
	parts := make([]string, len(s))
	for i, a := range s {
		parts[i] = fmt.Sprintf("%s:%s", a.String(), a.Typ)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// CompileConstructor renders Go source reconstructing this schema, mirror
// of the original's Schema.compile_constructor.
func (s Schema) CompileConstructor() string {
	parts := make([]string, len(s))
	for i, a := range s {
		parts[i] = a.CompileConstructor()
	}
	return "sql.NewSchema(" + strings.Join(parts, ", ") + ")"
}
