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

	"github.com/owen6314/databass-public/compiler"
	"github.com/owen6314/databass-public/sql"
)

// Distinct suppresses rows whose full value tuple has already been seen,
// using sql.Row.Hash (hashstructure + xxhash) rather than a full
// comparison, trading a vanishingly small collision risk for O(1)
// membership checks.
type Distinct struct {
	unaryOp
}

// NewDistinct builds a Distinct over child.
func NewDistinct(child sql.Node) *Distinct {
	d := &Distinct{}
	d.Child = child
	SetParents(d)
	return d
}

// InitSchema implements sql.Node.
func (d *Distinct) InitSchema() error {
	d.schema = d.Child.Schema()
	return nil
}

func (d *Distinct) String() string { return fmt.Sprintf("Distinct(%s)", d.Child.String()) }

// Iterator implements sql.Node.
func (d *Distinct) Iterator() (sql.RowIter, error) {
	child, err := d.Child.Iterator()
	if err != nil {
		return nil, err
	}
	return &distinctIter{child: child, seen: make(map[uint64]bool)}, nil
}

type distinctIter struct {
	child sql.RowIter
	seen  map[uint64]bool
}

func (it *distinctIter) Next() (*sql.Row, error) {
	for {
		row, err := it.child.Next()
		if err != nil {
			return nil, err
		}
		h, err := row.Hash()
		if err != nil {
			return nil, err
		}
		if it.seen[h] {
			continue
		}
		it.seen[h] = true
		return row, nil
	}
}

func (it *distinctIter) Close() error { return it.child.Close() }

// Produce implements sql.Node.
func (d *Distinct) Produce(ctx *compiler.Context) error {
	seenVar := ctx.Compiler.NewVar("distinct_seen")
	ctx.Compiler.AddLine("%s := make(map[uint64]bool)", seenVar)

	ctx.RequestVars(map[string]interface{}{"distinctSeen": seenVar})
	err := d.Child.Produce(ctx)
	ctx.PopVars()
	return err
}

// Consume implements sql.Node: hashes the row, skips it if already seen,
// otherwise forwards it upward.
func (d *Distinct) Consume(ctx *compiler.Context, schema sql.Schema, source sql.Node) error {
	rowVar := ctx.Get("row").(string)
	seenVar := ctx.Get("distinctSeen").(string)

	hashVar := ctx.Compiler.NewVar("distinct_h")
	ctx.Compiler.AddLine("%s, _ := %s.Hash()", hashVar, rowVar)
	ctx.Compiler.AddLine("if !%s[%s] {", seenVar, hashVar)
	err := ctx.Compiler.WithIndent(func() error {
		ctx.Compiler.AddLine("%s[%s] = true", seenVar, hashVar)
		parent := d.Parent()
		if parent == nil {
			return nil
		}
		ctx.RequestVars(map[string]interface{}{"row": rowVar})
		err := parent.Consume(ctx, schema, d)
		ctx.PopVars()
		return err
	})
	ctx.Compiler.AddLine("}")
	return err
}
