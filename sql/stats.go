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

// Stats holds the per-table statistics the Selinger optimizer's cost and
// selectivity formulas are built on: row count plus, per column, either a
// numeric [min, max] range or a distinct-value count for strings.
type Stats struct {
	Card    int                      `yaml:"cardinality"`
	Numeric map[string]NumericStats  `yaml:"numeric"`
	String  map[string]StringStats   `yaml:"string"`
}

// NumericStats is the uniform-distribution summary of a numeric column.
type NumericStats struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// StringStats is the uniform-distribution summary of a string column.
type StringStats struct {
	Distinct int `yaml:"distinct"`
}

func newStats(t *Table) (*Stats, error) {
	s := &Stats{
		Card:    t.Len(),
		Numeric: map[string]NumericStats{},
		String:  map[string]StringStats{},
	}
	for _, a := range t.schema {
		vals, err := t.ColValues(a.Aname)
		if err != nil {
			return nil, err
		}
		switch a.Typ {
		case NumType:
			s.Numeric[a.Aname] = numericStatsOf(vals)
		case StrType:
			s.String[a.Aname] = stringStatsOf(vals)
		}
	}
	return s, nil
}

func numericStatsOf(vals []interface{}) NumericStats {
	if len(vals) == 0 {
		return NumericStats{}
	}
	min, _ := ToFloat64(vals[0])
	max := min
	for _, v := range vals[1:] {
		f, err := ToFloat64(v)
		if err != nil {
			continue
		}
		if f < min {
			min = f
		}
		if f > max {
			max = f
		}
	}
	return NumericStats{Min: min, Max: max}
}

func stringStatsOf(vals []interface{}) StringStats {
	seen := map[string]struct{}{}
	for _, v := range vals {
		s, err := ToStr(v)
		if err != nil {
			continue
		}
		seen[s] = struct{}{}
	}
	return StringStats{Distinct: len(seen)}
}
