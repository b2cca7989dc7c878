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

// Command databass loads databass.toml, builds an Engine over a CSV
// catalog directory, and reports what it found. It deliberately stops
// there: the SQL parser, the REPL, and the submission utility sketched
// in spec.md §6 are explicitly out of scope for this module (the parser
// is an external collaborator that supplies the plan trees engine.Engine
// actually runs) — this command only wires the ambient config/logging
// boundary that a real CLI built on top of this module would need.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/owen6314/databass-public/engine"
	"github.com/owen6314/databass-public/sql"
)

// fileConfig mirrors databass.toml's shape.
type fileConfig struct {
	CatalogRoot string `toml:"catalog_root"`
	FuncName    string `toml:"func_name"`
	LogLevel    string `toml:"log_level"`
}

func defaultConfig() fileConfig {
	return fileConfig{CatalogRoot: ".", FuncName: "compiled_q", LogLevel: "info"}
}

func main() {
	configPath := flag.String("config", "databass.toml", "path to databass.toml")
	flag.Parse()

	cfg := defaultConfig()
	if _, err := toml.DecodeFile(*configPath, &cfg); err != nil && !os.IsNotExist(err) {
		logrus.WithFields(logrus.Fields{"path": *configPath, "err": err}).Fatal("failed to load config")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithField("log_level", cfg.LogLevel).Warn("unrecognized log level, defaulting to info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	catalog := sql.NewCatalog()
	if err := catalog.Setup(cfg.CatalogRoot); err != nil {
		logrus.WithFields(logrus.Fields{"catalog_root": cfg.CatalogRoot, "err": err}).Fatal("failed to scan catalog root")
	}

	eng := engine.New(catalog, sql.NewRegistry(), &engine.Config{FuncName: cfg.FuncName})
	tables := eng.Catalog.Tablenames()

	logrus.WithFields(logrus.Fields{
		"catalog_root": cfg.CatalogRoot,
		"tables":       len(tables),
		"func_name":    cfg.FuncName,
	}).Info("engine ready")

	fmt.Printf("databass: %d table(s) registered under %q: %v\n", len(tables), cfg.CatalogRoot, tables)
	fmt.Println("no SQL parser is wired into this build; construct a plan.Node and call Engine.Query/Engine.Compile directly")
}
