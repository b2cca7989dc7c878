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

package optimizer

import "github.com/prometheus/client_golang/prometheus"

// plansConsidered counts every candidate join probeJoin builds across all
// Selinger searches in this process, the same thing optimizer.py's
// self.plans_tested counts.
var plansConsidered = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "databass",
	Name:      "optimizer_plans_considered",
	Help:      "Number of candidate join plans costed by the Selinger optimizer.",
})

func init() {
	prometheus.MustRegister(plansConsidered)
}
