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

// Package compiler is the line-buffer code generator every operator and
// expression's Compile method writes into. It has no knowledge of the
// domain (schemas, rows, operators) it is generating code for: it only
// tracks source lines, indentation, and fresh variable names.
package compiler

import (
	"fmt"
	"strings"
)

type indentMark int

const (
	indent indentMark = iota
	unindent
)

// Compiler accumulates generated source lines with Python-style implicit
// indentation: Indent/Unindent push sentinel markers that CompileToFunc
// resolves into literal tab depth when rendering.
type Compiler struct {
	lines    []interface{}
	counters map[string]int
}

// New returns an empty Compiler.
func New() *Compiler {
	return &Compiler{counters: map[string]int{}}
}

// NewVar returns a fresh variable name "prefix_N", incrementing a
// per-prefix counter so repeated calls never collide.
func (c *Compiler) NewVar(prefix string) string {
	n := c.counters[prefix]
	c.counters[prefix] = n + 1
	return fmt.Sprintf("%s_%d", prefix, n)
}

// AddLine appends one formatted source line.
func (c *Compiler) AddLine(format string, args ...interface{}) {
	c.lines = append(c.lines, fmt.Sprintf(format, args...))
}

// AddLines appends several literal source lines.
func (c *Compiler) AddLines(lines ...string) {
	for _, l := range lines {
		c.lines = append(c.lines, l)
	}
}

// Indent marks the start of a nested block.
func (c *Compiler) Indent() {
	c.lines = append(c.lines, indent)
}

// Unindent marks the end of a nested block.
func (c *Compiler) Unindent() {
	c.lines = append(c.lines, unindent)
}

// WithIndent runs fn with an Indent/Unindent pair wrapped around it,
// mirroring the original's `with ctx.compiler.indent():` usage.
func (c *Compiler) WithIndent(fn func() error) error {
	c.Indent()
	err := fn()
	c.Unindent()
	return err
}

// CompileToFunc renders the accumulated lines as the body of a Go
// function named fname, resolving indent markers into literal tabs.
func (c *Compiler) CompileToFunc(fname string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func %s() {\n", fname)
	depth := 1
	for _, l := range c.lines {
		switch v := l.(type) {
		case indentMark:
			if v == indent {
				depth++
			} else {
				depth--
			}
		case string:
			b.WriteString(strings.Repeat("\t", depth))
			b.WriteString(v)
			b.WriteString("\n")
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// Lines renders the accumulated lines without wrapping them in a
// function, for embedding into a larger generated file (imports,
// surrounding boilerplate).
func (c *Compiler) Lines() []string {
	var out []string
	depth := 0
	for _, l := range c.lines {
		switch v := l.(type) {
		case indentMark:
			if v == indent {
				depth++
			} else {
				depth--
			}
		case string:
			out = append(out, strings.Repeat("\t", depth)+v)
		}
	}
	return out
}
