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

// Print is a terminal sink: it consumes every row beneath it, writes it
// to Writer, and yields nothing further. Its Iterator drains its child
// eagerly on the first Next call and reports io.EOF forever after,
// since nothing ever needs a Print's output rows.
type Print struct {
	unaryOp
	Writer io.Writer
}

// NewPrint wraps child, printing every row it produces to w.
func NewPrint(w io.Writer, child sql.Node) *Print {
	p := &Print{Writer: w}
	p.Child = child
	SetParents(p)
	return p
}

// InitSchema implements sql.Node.
func (p *Print) InitSchema() error {
	p.schema = p.Child.Schema()
	return nil
}

func (p *Print) String() string { return fmt.Sprintf("Print(%s)", p.Child.String()) }

// Iterator implements sql.Node.
func (p *Print) Iterator() (sql.RowIter, error) {
	child, err := p.Child.Iterator()
	if err != nil {
		return nil, err
	}
	return &printIter{p: p, child: child}, nil
}

type printIter struct {
	p     *Print
	child sql.RowIter
	done  bool
}

func (it *printIter) Next() (*sql.Row, error) {
	if it.done {
		return nil, io.EOF
	}
	for {
		row, err := it.child.Next()
		if err == io.EOF {
			it.done = true
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}
		fmt.Fprintln(it.p.Writer, row.String())
	}
}

func (it *printIter) Close() error { return it.child.Close() }

// Produce implements sql.Node.
func (p *Print) Produce(ctx *compiler.Context) error {
	return p.Child.Produce(ctx)
}

// Consume implements sql.Node: prints the row and stops — Print forwards
// nothing to a parent because it has none.
func (p *Print) Consume(ctx *compiler.Context, schema sql.Schema, source sql.Node) error {
	rowVar := ctx.Get("row").(string)
	ctx.Compiler.AddLine("fmt.Fprintln(writer, %s.String())", rowVar)
	return nil
}
