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

package engine

import "github.com/prometheus/client_golang/prometheus"

var (
	queriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "databass",
		Name:      "queries_total",
		Help:      "Number of plans run through Engine.Query.",
	})

	compilesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "databass",
		Name:      "compiles_total",
		Help:      "Number of plans run through Engine.Compile.",
	})
)

func init() {
	prometheus.MustRegister(queriesTotal, compilesTotal)
}
