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

import "github.com/prometheus/client_golang/prometheus"

// Metrics is the catalog's Prometheus surface: the registered-table
// count. Query and compile counters live in the engine package.
var (
	CatalogTables = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "databass",
		Name:      "catalog_tables",
		Help:      "Number of tables currently registered in the catalog.",
	})
)

func init() {
	prometheus.MustRegister(CatalogTables)
}
