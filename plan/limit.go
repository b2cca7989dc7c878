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
	"io"

	"github.com/owen6314/databass-public/compiler"
	"github.com/owen6314/databass-public/sql"
)

// Limit yields at most Count rows from its child, skipping the first
// Offset. A negative Offset is rejected at construction; a negative
// Count is not rejected and means no row limit.
type Limit struct {
	unaryOp
	Count  int
	Offset int
}

// NewLimit builds a Limit over child. count < 0 means "no limit" (only
// Offset applies); offset must be >= 0.
func NewLimit(count, offset int, child sql.Node) (*Limit, error) {
	if offset < 0 {
		return nil, sql.ErrInvalidArgument.New(fmt.Sprintf("negative LIMIT offset %d", offset))
	}
	l := &Limit{Count: count, Offset: offset}
	l.Child = child
	SetParents(l)
	return l, nil
}

// InitSchema implements sql.Node.
func (l *Limit) InitSchema() error {
	l.schema = l.Child.Schema()
	return nil
}

func (l *Limit) String() string {
	return fmt.Sprintf("Limit(%d, %d, %s)", l.Count, l.Offset, l.Child.String())
}

// Iterator implements sql.Node.
func (l *Limit) Iterator() (sql.RowIter, error) {
	child, err := l.Child.Iterator()
	if err != nil {
		return nil, err
	}
	return &limitIter{l: l, child: child}, nil
}

type limitIter struct {
	l       *Limit
	child   sql.RowIter
	skipped int
	yielded int
}

func (it *limitIter) Next() (*sql.Row, error) {
	if it.l.Count >= 0 && it.yielded >= it.l.Count {
		return nil, io.EOF
	}
	for it.skipped < it.l.Offset {
		if _, err := it.child.Next(); err != nil {
			return nil, err
		}
		it.skipped++
	}
	row, err := it.child.Next()
	if err != nil {
		return nil, err
	}
	it.yielded++
	return row, nil
}

func (it *limitIter) Close() error { return it.child.Close() }

// Produce implements sql.Node: a Limit emits no loop of its own. It
// declares its two counters (rows skipped, rows yielded) and then lets
// its child produce; its Consume breaks the generated loop once Count
// rows have been yielded (per the original's unimplemented limit codegen,
// SPEC_FULL.md §4.D specifies this two-counter scheme explicitly).
func (l *Limit) Produce(ctx *compiler.Context) error {
	skippedVar := ctx.Compiler.NewVar("limit_skipped")
	yieldedVar := ctx.Compiler.NewVar("limit_yielded")
	ctx.Compiler.AddLine("%s, %s := 0, 0", skippedVar, yieldedVar)
	_ = skippedVar

	ctx.RequestVars(map[string]interface{}{
		"limitSkipped": skippedVar,
		"limitYielded": yieldedVar,
		"limitCount":   l.Count,
		"limitOffset":  l.Offset,
	})
	err := l.Child.Produce(ctx)
	ctx.PopVars()
	return err
}

// Consume implements sql.Node: skips Offset rows, then forwards up to
// Count rows before emitting a break out of every enclosing loop (via a
// labeled break the engine's compile driver wraps the whole plan in).
func (l *Limit) Consume(ctx *compiler.Context, schema sql.Schema, source sql.Node) error {
	rowVar := ctx.Get("row").(string)
	skippedVar := ctx.Get("limitSkipped").(string)
	yieldedVar := ctx.Get("limitYielded").(string)
	count := ctx.Get("limitCount").(int)
	offset := ctx.Get("limitOffset").(int)

	ctx.Compiler.AddLine("if %s < %d {", skippedVar, offset)
	ctx.Compiler.AddLine("\t%s++", skippedVar)
	ctx.Compiler.AddLine("\tcontinue")
	ctx.Compiler.AddLine("}")

	if count >= 0 {
		ctx.Compiler.AddLine("if %s >= %d {", yieldedVar, count)
		ctx.Compiler.AddLine("\tbreak plan_outer")
		ctx.Compiler.AddLine("}")
	}
	ctx.Compiler.AddLine("%s++", yieldedVar)

	parent := l.Parent()
	if parent == nil {
		return nil
	}
	ctx.RequestVars(map[string]interface{}{"row": rowVar})
	err := parent.Consume(ctx, schema, l)
	ctx.PopVars()
	return err
}
