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

import "math"

// UDF is either a scalar or an aggregate function registered under a
// name. Arity is the expected argument count, or -1 for variadic.
type UDF struct {
	Name  string
	Arity int
	IsAgg bool

	// Scalar is called with one value per argument, row at a time.
	Scalar func(args []interface{}) (interface{}, error)
	// Agg is called with one column of values per argument (the full
	// group, transposed), once per bucket.
	Agg func(cols [][]float64) (interface{}, error)
}

// Call checks arity and invokes the function. Scalar UDFs are called with
// len(args) == Arity; aggregate UDFs are called through CallAgg instead.
func (u *UDF) Call(args []interface{}) (interface{}, error) {
	if u.Arity >= 0 && len(args) != u.Arity {
		return nil, ErrUDFArity.New(u.Name, u.Arity, len(args))
	}
	return u.Scalar(args)
}

// CallAgg checks arity and invokes an aggregate function over its
// per-argument columns.
func (u *UDF) CallAgg(cols [][]float64) (interface{}, error) {
	if u.Arity >= 0 && len(cols) != u.Arity {
		return nil, ErrUDFArity.New(u.Name, u.Arity, len(cols))
	}
	return u.Agg(cols)
}

// Registry holds the scalar and aggregate functions a query may call,
// enforcing that the two namespaces of names are disjoint, mirroring the
// original's UDFRegistry.
type Registry struct {
	scalar map[string]*UDF
	agg    map[string]*UDF
}

// NewRegistry returns a registry pre-populated with the built-in
// functions the original ships: lower (scalar), and avg/count/sum/std/
// stddev (aggregate).
func NewRegistry() *Registry {
	r := &Registry{scalar: map[string]*UDF{}, agg: map[string]*UDF{}}
	registerBuiltins(r)
	return r
}

// RegisterScalar adds a scalar UDF, failing if the name is already taken
// in either namespace.
func (r *Registry) RegisterScalar(u *UDF) error {
	if err := r.checkNameFree(u.Name); err != nil {
		return err
	}
	u.IsAgg = false
	r.scalar[u.Name] = u
	return nil
}

// RegisterAgg adds an aggregate UDF, failing if the name is already taken
// in either namespace.
func (r *Registry) RegisterAgg(u *UDF) error {
	if err := r.checkNameFree(u.Name); err != nil {
		return err
	}
	u.IsAgg = true
	r.agg[u.Name] = u
	return nil
}

func (r *Registry) checkNameFree(name string) error {
	if _, ok := r.scalar[name]; ok {
		return ErrUDFNameConflict.New(name, "scalar")
	}
	if _, ok := r.agg[name]; ok {
		return ErrUDFNameConflict.New(name, "aggregate")
	}
	return nil
}

// Scalar looks up a scalar function by name.
func (r *Registry) Scalar(name string) (*UDF, error) {
	u, ok := r.scalar[name]
	if !ok {
		return nil, ErrUDFNotFound.New(name)
	}
	return u, nil
}

// MustScalar looks up a scalar function by name, panicking if absent.
// Generated code calls this rather than Scalar: by the time a plan has
// compiled successfully, every function name it references has already
// been resolved once by the expression tree that emitted the call.
func (r *Registry) MustScalar(name string) *UDF {
	u, ok := r.scalar[name]
	if !ok {
		panic(ErrUDFNotFound.New(name))
	}
	return u
}

// Agg looks up an aggregate function by name.
func (r *Registry) Agg(name string) (*UDF, error) {
	u, ok := r.agg[name]
	if !ok {
		return nil, ErrUDFNotFound.New(name)
	}
	return u, nil
}

// MustAgg looks up an aggregate function by name, panicking if absent;
// see MustScalar for why generated code is allowed to assume success.
func (r *Registry) MustAgg(name string) *UDF {
	u, ok := r.agg[name]
	if !ok {
		panic(ErrUDFNotFound.New(name))
	}
	return u
}

func registerBuiltins(r *Registry) {
	_ = r.RegisterScalar(&UDF{
		Name: "lower", Arity: 1,
		Scalar: func(args []interface{}) (interface{}, error) {
			s, err := ToStr(args[0])
			if err != nil {
				return nil, err
			}
			return lower(s), nil
		},
	})

	_ = r.RegisterAgg(&UDF{
		Name: "count", Arity: 1,
		Agg: func(cols [][]float64) (interface{}, error) {
			return float64(len(cols[0])), nil
		},
	})
	_ = r.RegisterAgg(&UDF{
		Name: "sum", Arity: 1,
		Agg: func(cols [][]float64) (interface{}, error) {
			return sum(cols[0]), nil
		},
	})
	_ = r.RegisterAgg(&UDF{
		Name: "avg", Arity: 1,
		Agg: func(cols [][]float64) (interface{}, error) {
			if len(cols[0]) == 0 {
				return 0.0, nil
			}
			return sum(cols[0]) / float64(len(cols[0])), nil
		},
	})
	_ = r.RegisterAgg(&UDF{
		Name: "std", Arity: 1,
		Agg: func(cols [][]float64) (interface{}, error) {
			return stddev(cols[0]), nil
		},
	})
	_ = r.RegisterAgg(&UDF{
		Name: "stddev", Arity: 1,
		Agg: func(cols [][]float64) (interface{}, error) {
			return stddev(cols[0]), nil
		},
	})
}

func lower(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

func sum(xs []float64) float64 {
	var total float64
	for _, x := range xs {
		total += x
	}
	return total
}

func stddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mean := sum(xs) / float64(len(xs))
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}
