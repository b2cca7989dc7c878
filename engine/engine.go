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

// Package engine ties the catalog, UDF registry and optimizer together
// into the two execution paths a logical plan can take: Query walks it
// row-at-a-time through the iterator model, Compile emits a
// self-contained Go source file implementing it via produce/consume
// codegen. Neither accepts a query string: per SPEC_FULL.md §6, the SQL
// parser is an external collaborator that supplies the sql.Node tree
// both methods take as input.
package engine

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/owen6314/databass-public/compiler"
	"github.com/owen6314/databass-public/optimizer"
	"github.com/owen6314/databass-public/plan"
	"github.com/owen6314/databass-public/sql"
)

// defaultFuncName is the name Compile gives the emitted function when
// Config.FuncName is empty, matching §6's "compiled_q" default.
const defaultFuncName = "compiled_q"

// modulePath is the import path the emitted artifact's source pulls
// sql.Row/sql.Catalog/sql.Registry from.
const modulePath = "github.com/owen6314/databass-public/sql"

// planPath is the import path of the plan package, whose GroupBucket type
// GroupBy's generated code refers to as plan.GroupBucket.
const planPath = "github.com/owen6314/databass-public/plan"

// Config configures an Engine. The teacher's Config carries MySQL
// wire-protocol and read-only-server concerns (IsReadOnly,
// VersionPostfix, auth plugins); none of those apply to an in-process
// query engine with no network listener, so this Config keeps only the
// settings this module actually has a use for.
type Config struct {
	// FuncName is the name Compile gives the emitted function. Defaults
	// to "compiled_q".
	FuncName string
}

// Engine runs logical plans against a Catalog and Registry, either by
// interpreting them directly or by compiling them to Go source.
type Engine struct {
	Catalog   *sql.Catalog
	Registry  *sql.Registry
	Optimizer *optimizer.Optimizer

	funcName string
	log      *logrus.Entry
}

// New builds an Engine over catalog and registry. A nil cfg uses
// defaults.
func New(catalog *sql.Catalog, registry *sql.Registry, cfg *Config) *Engine {
	funcName := defaultFuncName
	if cfg != nil && cfg.FuncName != "" {
		funcName = cfg.FuncName
	}
	return &Engine{
		Catalog:   catalog,
		Registry:  registry,
		Optimizer: optimizer.New(),
		funcName:  funcName,
		log:       logrus.WithField("system", "engine"),
	}
}

// NewDefault builds an Engine whose catalog is populated by recursively
// registering every CSV file under root (sql.Catalog.Setup) and whose
// registry carries the standard built-in UDFs.
func NewDefault(root string) (*Engine, error) {
	catalog := sql.NewCatalog()
	if err := catalog.Setup(root); err != nil {
		return nil, errors.Wrap(err, "scanning catalog root")
	}
	return New(catalog, sql.NewRegistry(), nil), nil
}

// Query optimizes root and drains it through the iterator model,
// returning the output schema and every resulting row.
func (e *Engine) Query(root sql.Node) (sql.Schema, []*sql.Row, error) {
	if root == nil {
		return nil, nil, ErrNilPlan.New()
	}

	span := opentracing.StartSpan("engine.query")
	defer span.Finish()
	start := time.Now()

	optimized, err := e.optimize(root)
	if err != nil {
		span.SetTag("error", true)
		return nil, nil, err
	}

	it, err := optimized.Iterator()
	if err != nil {
		return nil, nil, errors.Wrap(err, "constructing row iterator")
	}
	rows, err := drain(it)
	if err != nil {
		return nil, nil, errors.Wrap(err, "draining query results")
	}

	queriesTotal.Inc()
	span.SetTag("rows", len(rows))
	e.log.WithFields(logrus.Fields{
		"query":    optimized.String(),
		"duration": time.Since(start),
		"rows":     len(rows),
	}).Info("query finished")

	return optimized.Schema(), rows, nil
}

// Compile optimizes root and emits a self-contained Go source file
// implementing it via produce/consume codegen: a package-level catalog
// and registry handle, the generated function (named per Config.FuncName,
// default "compiled_q"), and a main that times and prints its rows, per
// §6's "Emitted code artifact".
func (e *Engine) Compile(root sql.Node) (string, error) {
	if root == nil {
		return "", ErrNilPlan.New()
	}

	span := opentracing.StartSpan("engine.compile")
	defer span.Finish()

	optimized, err := e.optimize(root)
	if err != nil {
		return "", err
	}

	sink := ensureSink(optimized)
	_, isPrint := sink.(*plan.Print)

	c := compiler.New()
	ctx := compiler.NewContext(c)
	if isPrint {
		c.AddLine("writer := os.Stdout")
	} else {
		c.AddLine("var out []*sql.Row")
	}
	if err := sink.Produce(ctx); err != nil {
		return "", errors.Wrap(err, "compiling plan")
	}

	body := insertPlanOuterLabel(c.Lines())
	src := renderArtifact(e.funcName, body, isPrint)

	compilesTotal.Inc()
	span.SetTag("plan", optimized.String())
	e.log.WithFields(logrus.Fields{
		"query": optimized.String(),
		"func":  e.funcName,
	}).Info("compiled query")

	return src, nil
}

// optimize runs the optimizer inside its own child span, so a Query or
// Compile trace shows how much of the total time the optimizer itself
// consumed.
func (e *Engine) optimize(root sql.Node) (sql.Node, error) {
	span := opentracing.StartSpan("engine.optimize")
	defer span.Finish()

	optimized, err := e.Optimizer.Optimize(root)
	if err != nil {
		span.SetTag("error", true)
		return nil, errors.Wrap(err, "optimizing plan")
	}
	return optimized, nil
}

// drain exhausts it, returning every row it produced.
func drain(it sql.RowIter) ([]*sql.Row, error) {
	defer it.Close()
	var out []*sql.Row
	for {
		row, err := it.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, row.Copy())
	}
}

// ensureSink wraps root in a Yield, the stable attachment point
// Compile's "out" accumulator appends into, unless the caller already
// terminated the plan with a Yield or a Print (which writes rows out
// itself rather than collecting them).
func ensureSink(root sql.Node) sql.Node {
	switch root.(type) {
	case *plan.Yield, *plan.Print:
		return root
	}
	y := plan.NewYield(root)
	if err := y.InitSchema(); err != nil {
		return root
	}
	return y
}

var forLoopRe = regexp.MustCompile(`^(\s*)for\b`)

// insertPlanOuterLabel prefixes the first "for" statement in lines with
// a "plan_outer:" label, which Limit's generated "break plan_outer"/
// "continue" statements (plan/limit.go) depend on the whole produce
// chain being wrapped in. Every produce chain bottoms out in exactly one
// outermost loop (the leftmost source's Scan/TableFunctionSource), so
// the first match is always the right one.
func insertPlanOuterLabel(lines []string) []string {
	out := make([]string, 0, len(lines)+1)
	labeled := false
	for _, l := range lines {
		if !labeled {
			if m := forLoopRe.FindStringSubmatch(l); m != nil {
				out = append(out, m[1]+"plan_outer:")
				labeled = true
			}
		}
		out = append(out, l)
	}
	return out
}

// renderArtifact assembles the full source text of the emitted file:
// imports, package-level catalog/registry handles the generated code's
// "catalog.MustTable(...)"/"registry.MustScalar(...)" calls refer to by
// those literal names, the generated function, and a main that times and
// prints the result.
func renderArtifact(funcName string, body []string, isPrint bool) string {
	var b strings.Builder

	b.WriteString("package main\n\n")
	b.WriteString("import (\n")
	b.WriteString("\t\"fmt\"\n")
	b.WriteString("\t\"os\"\n")
	b.WriteString("\t\"time\"\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "\t%q\n", modulePath)
	for _, l := range body {
		if strings.Contains(l, "plan.") {
			fmt.Fprintf(&b, "\t%q\n", planPath)
			break
		}
	}
	b.WriteString(")\n\n")

	b.WriteString("var catalog = sql.NewCatalog()\n")
	b.WriteString("var registry = sql.NewRegistry()\n\n")

	b.WriteString("func init() {\n")
	b.WriteString("\tif err := catalog.Setup(\".\"); err != nil {\n")
	b.WriteString("\t\tpanic(err)\n")
	b.WriteString("\t}\n")
	b.WriteString("}\n\n")

	fmt.Fprintf(&b, "func %s() []*sql.Row {\n", funcName)
	for _, l := range body {
		b.WriteString("\t" + l + "\n")
	}
	if isPrint {
		b.WriteString("\treturn nil\n")
	} else {
		b.WriteString("\treturn out\n")
	}
	b.WriteString("}\n\n")

	b.WriteString("func main() {\n")
	b.WriteString("\tstart := time.Now()\n")
	if isPrint {
		fmt.Fprintf(&b, "\t%s()\n", funcName)
	} else {
		fmt.Fprintf(&b, "\trows := %s()\n", funcName)
		b.WriteString("\tfor _, row := range rows {\n")
		b.WriteString("\t\tfmt.Fprintln(os.Stdout, row.String())\n")
		b.WriteString("\t}\n")
	}
	b.WriteString("\tfmt.Fprintln(os.Stdout, time.Since(start))\n")
	b.WriteString("}\n")

	return b.String()
}
