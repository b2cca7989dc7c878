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
	"fmt"
	"strings"

	"github.com/owen6314/databass-public/compiler"
	"github.com/owen6314/databass-public/sql"
)

// From is the purely logical N-ary join node produced straight out of a
// `FROM a, b, c` clause, before the optimizer expands it into a
// left-deep tree of ThetaJoin nodes. It carries every source
// being joined plus every candidate join/filter predicate found in the
// surrounding WHERE clause; the optimizer consumes both and replaces
// this node entirely (see the optimizer's expandFromOp). A From must
// never reach execution — its execution methods return an
// ErrUnsupportedOperator error rather than silently producing wrong
// results.
type From struct {
	parent  sql.Node
	schema  sql.Schema
	Sources []sql.Node
	Clauses []sql.Expression
}

// NewFrom builds a From over sources, carrying clauses (conjuncts split
// out of the WHERE clause) for the optimizer to distribute.
func NewFrom(sources []sql.Node, clauses []sql.Expression) *From {
	f := &From{Sources: sources, Clauses: clauses}
	SetParents(f)
	return f
}

// Children implements sql.Node.
func (f *From) Children() []sql.Node { return f.Sources }

// Parent implements plan.ParentTracker.
func (f *From) Parent() sql.Node { return f.parent }

// SetParent implements plan.ParentTracker.
func (f *From) SetParent(p sql.Node) { f.parent = p }

// ReplaceChild implements plan.Replacer.
func (f *From) ReplaceChild(old, new sql.Node) error {
	for i, c := range f.Sources {
		if c == old {
			f.Sources[i] = new
			return nil
		}
	}
	return sql.ErrInvalidArgument.New("From.ReplaceChild: old is not a child")
}

// Schema implements sql.Node.
func (f *From) Schema() sql.Schema { return f.schema }

// InitSchema implements sql.Node: concatenates every source's schema,
// checking for tablename collisions the way the original's
// From.init_schema does (two sources under the same alias is an error
// resolved at schema-init time, before disambiguation even runs).
func (f *From) InitSchema() error {
	var cols sql.Schema
	seen := map[string]bool{}
	for _, s := range f.Sources {
		tablenames := map[string]bool{}
		for _, a := range s.Schema() {
			if a.Tablename != "" {
				tablenames[a.Tablename] = true
			}
			cols = append(cols, a)
		}
		for t := range tablenames {
			if seen[t] {
				return sql.ErrTablenameConflict.New(t)
			}
			seen[t] = true
		}
	}
	f.schema = cols
	return nil
}

func (f *From) String() string {
	parts := make([]string, len(f.Sources))
	for i, s := range f.Sources {
		parts[i] = s.String()
	}
	return fmt.Sprintf("From(%s)", strings.Join(parts, ", "))
}

const fromUnreachable = "From must be replaced by the optimizer before execution"

// Iterator implements sql.Node. Always an error: see type doc.
func (f *From) Iterator() (sql.RowIter, error) {
	return nil, sql.ErrUnsupportedOperator.New(fromUnreachable)
}

// Produce implements sql.Node. Always an error: see type doc.
func (f *From) Produce(ctx *compiler.Context) error {
	return sql.ErrUnsupportedOperator.New(fromUnreachable)
}

// Consume implements sql.Node. Always an error: see type doc.
func (f *From) Consume(ctx *compiler.Context, schema sql.Schema, source sql.Node) error {
	return sql.ErrUnsupportedOperator.New(fromUnreachable)
}
