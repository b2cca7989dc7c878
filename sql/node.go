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

import "github.com/owen6314/databass-public/compiler"

// RowIter is the pull-based row-at-a-time iteration contract every
// operator's interpreted execution path implements. Unlike the teacher's
// sql.RowIter, Next/Close take no context: this engine has no
// cancellation or concurrency boundary to thread through (see
// SPEC_FULL.md's Non-goals), so the simplification is deliberate rather
// than an oversight.
type RowIter interface {
	// Next returns the next row, or (nil, io.EOF) when exhausted.
	Next() (*Row, error)
	// Close releases any resources (hash tables, sorted buffers) the
	// iterator built up.
	Close() error
}

// Expression is any node of the expression algebra: literals, attribute
// references, operators and function calls. Every Expression supports
// both row-at-a-time evaluation and produce/consume code generation.
type Expression interface {
	// GetType returns the expression's static type, once resolved.
	GetType() Type
	// Eval evaluates the expression against row.
	Eval(row *Row) (interface{}, error)
	// Compile emits code computing this expression's value. It consumes
	// exactly one (v_in, v_out) pair pushed onto ctx's io-var stack by its
	// caller and must leave the stack as it found it otherwise.
	Compile(ctx *compiler.Context) error
	// Attrs returns every Attr leaf in this expression's subtree, used by
	// the optimizer's disambiguation pass.
	Attrs() []*Attr
	String() string
}

// Node is any node of the operator algebra: sources, joins, and the
// single-child pipeline operators (Filter, Project, OrderBy, Limit,
// Distinct, GroupBy, Yield, Print).
type Node interface {
	// Children returns this node's child operators, in order.
	Children() []Node
	// Schema returns this operator's output schema. Only valid once
	// InitSchema has been called (by the optimizer's schema-init pass).
	Schema() Schema
	// InitSchema computes and caches this operator's output schema from
	// its (already-initialized) children. Source operators compute it
	// directly from their backing table/subquery.
	InitSchema() error
	// Iterator returns a fresh RowIter for interpreted execution.
	Iterator() (RowIter, error)
	// Produce emits this operator's production of rows: for a pipeline
	// operator this means "ask my child to produce, then wrap its
	// consume"; for a source it means "emit a loop over my rows".
	Produce(ctx *compiler.Context) error
	// Consume is called by a descendant source once it has a row ready;
	// the implementation emits this operator's per-row logic and then
	// calls its own parent's Consume (the operator's recorded parent).
	Consume(ctx *compiler.Context, schema Schema, source Node) error
	String() string
}
