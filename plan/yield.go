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

// Yield is the identity operator sitting at the root of any plan whose
// rows are meant to be collected rather than printed: it adds no
// behavior of its own, existing purely as the stable attachment point a
// compiled plan's generated code appends output rows at.
type Yield struct {
	unaryOp
}

// NewYield wraps child.
func NewYield(child sql.Node) *Yield {
	y := &Yield{}
	y.Child = child
	SetParents(y)
	return y
}

// InitSchema implements sql.Node.
func (y *Yield) InitSchema() error {
	y.schema = y.Child.Schema()
	return nil
}

func (y *Yield) String() string { return fmt.Sprintf("Yield(%s)", y.Child.String()) }

// Iterator implements sql.Node: a pure pass-through.
func (y *Yield) Iterator() (sql.RowIter, error) { return y.Child.Iterator() }

// Produce implements sql.Node.
func (y *Yield) Produce(ctx *compiler.Context) error { return y.Child.Produce(ctx) }

// Consume implements sql.Node: appends the row to the generated
// function's output accumulator, named "out" by convention (see
// engine's compile driver).
func (y *Yield) Consume(ctx *compiler.Context, schema sql.Schema, source sql.Node) error {
	rowVar := ctx.Get("row").(string)
	ctx.Compiler.AddLine("out = append(out, %s)", rowVar)
	return nil
}
