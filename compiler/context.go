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

package compiler

// Context brokers state between the produce/consume calls a plan tree's
// Compile pass makes into each other. It holds two independent stacks:
//
//   - io-vars: (v_in, v_out) variable-name pairs an expression's Compile
//     pops to know what to read from and what to assign into.
//   - op-vars: named scratch values an operator pushes for its own
//     later Consume call to read back (e.g. a join's build-side variable
//     name, a GroupBy's hash-table variable name).
type Context struct {
	Compiler *Compiler

	ioVars [][2]string
	opVars []map[string]interface{}
}

// NewContext returns a Context writing into c.
func NewContext(c *Compiler) *Context {
	return &Context{Compiler: c}
}

// PushIOVars pushes a (v_in, v_out) pair for the next nested Compile call
// to consume.
func (ctx *Context) PushIOVars(vIn, vOut string) {
	ctx.ioVars = append(ctx.ioVars, [2]string{vIn, vOut})
}

// PopIOVars pops the (v_in, v_out) pair pushed for this Compile call.
func (ctx *Context) PopIOVars() (string, string) {
	n := len(ctx.ioVars)
	pair := ctx.ioVars[n-1]
	ctx.ioVars = ctx.ioVars[:n-1]
	return pair[0], pair[1]
}

// RequestVars pushes a new scope of named scratch values.
func (ctx *Context) RequestVars(vars map[string]interface{}) {
	ctx.opVars = append(ctx.opVars, vars)
}

// PopVars pops and returns the current scope of named scratch values.
func (ctx *Context) PopVars() map[string]interface{} {
	n := len(ctx.opVars)
	v := ctx.opVars[n-1]
	ctx.opVars = ctx.opVars[:n-1]
	return v
}

// Get reads a named scratch value, searching from the innermost scope
// outward: an operator many levels up the tree (a GroupBy's bucket map,
// a HashJoin's index) must still be visible to a Consume call made from
// deep inside a nested scope pushed for the current row.
func (ctx *Context) Get(name string) interface{} {
	for i := len(ctx.opVars) - 1; i >= 0; i-- {
		if v, ok := ctx.opVars[i][name]; ok {
			return v
		}
	}
	return nil
}

// Set writes a named scratch value into the current scope.
func (ctx *Context) Set(name string, v interface{}) {
	ctx.opVars[len(ctx.opVars)-1][name] = v
}
