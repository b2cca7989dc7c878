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
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Catalog is the set of tables a query may reference. Unlike the
// original's Database, it is not a process-wide singleton: each Engine
// owns one, so tests and concurrent callers never share mutable global
// state (the original's `Database.db` module-level singleton has no Go
// analogue worth reproducing).
type Catalog struct {
	tables map[string]*Table
	log    *logrus.Entry
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		tables: map[string]*Table{},
		log:    logrus.WithField("system", "catalog"),
	}
}

// Register adds a table, failing if the name is already taken.
func (c *Catalog) Register(t *Table) error {
	if _, ok := c.tables[t.Name]; ok {
		return ErrTableExists.New(t.Name)
	}
	c.tables[t.Name] = t
	CatalogTables.Inc()
	return nil
}

// Table looks a table up by name.
func (c *Catalog) Table(name string) (*Table, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, ErrTableNotFound.New(name)
	}
	return t, nil
}

// MustTable looks a table up by name, panicking if absent. Generated
// code calls this rather than Table: by the time a plan has compiled
// successfully, every table name it scans has already been resolved once
// during optimization.
func (c *Catalog) MustTable(name string) *Table {
	t, ok := c.tables[name]
	if !ok {
		panic(ErrTableNotFound.New(name))
	}
	return t
}

// Tablenames returns every registered table name, sorted for determinism.
func (c *Catalog) Tablenames() []string {
	out := make([]string, 0, len(c.tables))
	for name := range c.tables {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Setup walks root recursively registering every *.csv file found as a
// table named after its filename (sans extension), mirroring the
// original's Database.setup(). Column types are guessed from the first
// data row the same way infer_schema_from_df does.
func (c *Catalog) Setup(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".csv") {
			return nil
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if err := c.registerCSV(name, path); err != nil {
			c.log.WithFields(logrus.Fields{"file": path, "err": err}).Warn("skipping unreadable csv")
			return nil
		}
		return nil
	})
}

func (c *Catalog) registerCSV(name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return err
	}

	var schema Schema
	var rows [][]interface{}
	for {
		record, err := r.Read()
		if err != nil {
			break
		}
		if schema == nil {
			schema = inferSchema(header, record)
		}
		rows = append(rows, rowFromRecord(schema, record))
	}
	if schema == nil {
		schema = inferSchema(header, nil)
	}

	c.log.WithFields(logrus.Fields{"table": name, "rows": len(rows)}).Debug("registered csv table")
	return c.Register(NewInMemoryTable(name, schema, rows))
}

func inferSchema(header []string, sample []string) Schema {
	attrs := make([]*Attr, len(header))
	for i, h := range header {
		typ := StrType
		if sample != nil && i < len(sample) {
			typ = GuessType(sample[i])
		}
		attrs[i] = NewAttr(h, typ, "")
	}
	return NewSchema(attrs...)
}

func rowFromRecord(schema Schema, record []string) []interface{} {
	vals := make([]interface{}, len(schema))
	for i, a := range schema {
		if i >= len(record) {
			vals[i] = nil
			continue
		}
		if a.Typ == NumType {
			if f, err := ToFloat64(record[i]); err == nil {
				vals[i] = f
				continue
			}
		}
		vals[i] = record[i]
	}
	return vals
}
