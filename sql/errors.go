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

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrSchemaInitCycle is returned when the optimizer's schema
	// initialization pass exceeds its iteration budget without converging,
	// indicating a cycle in the plan tree.
	ErrSchemaInitCycle = errors.NewKind("schema initialization did not converge after %d iterations")

	// ErrAttrAmbiguous is returned when an attribute reference matches more
	// than one column across an operator's children.
	ErrAttrAmbiguous = errors.NewKind("attribute %q is ambiguous")

	// ErrAttrUnbound is returned when an attribute reference matches no
	// column in any of an operator's children.
	ErrAttrUnbound = errors.NewKind("attribute %q could not be bound")

	// ErrTablenameConflict is returned when two sources in the same FROM
	// clause present the same tablename (e.g. a self-join missing an
	// alias), making every column under that name ambiguous.
	ErrTablenameConflict = errors.NewKind("tablename %q is used by more than one source")

	// ErrAttrRebind is returned by the optimizer's disambiguation pass
	// when an Attr reference already carries a tablename that disagrees
	// with the one its unique schema match just resolved to.
	ErrAttrRebind = errors.NewKind("attribute %q already bound to tablename %q, cannot rebind to %q")

	// ErrUnsupportedOperator is returned for constructs the engine
	// deliberately does not support (an unexpanded SELECT *,
	// TableFunctionSource, an unexpanded From, and similar).
	ErrUnsupportedOperator = errors.NewKind("unsupported operator: %s")

	// ErrInvalidArgument is returned when an operator or expression is
	// constructed with a malformed argument (e.g. a negative LIMIT).
	ErrInvalidArgument = errors.NewKind("invalid argument: %s")

	// ErrUDFNotFound is returned when a scalar or aggregate function name
	// has no registered implementation.
	ErrUDFNotFound = errors.NewKind("function %q is not registered")

	// ErrUDFArity is returned when a function is called with the wrong
	// number of arguments.
	ErrUDFArity = errors.NewKind("function %q expects %d argument(s), got %d")

	// ErrUDFNameConflict is returned when registering a function under a
	// name already claimed in the other namespace (scalar vs aggregate).
	ErrUDFNameConflict = errors.NewKind("function name %q is already registered as %s")

	// ErrTypeMismatch is returned when an operator is applied to operand
	// types it does not support.
	ErrTypeMismatch = errors.NewKind("operator %q is not defined for types %s and %s")

	// ErrTableNotFound is returned when a catalog lookup misses.
	ErrTableNotFound = errors.NewKind("table %q not found")

	// ErrTableExists is returned when registering a table name that is
	// already present in the catalog.
	ErrTableExists = errors.NewKind("table %q is already registered")

	// ErrNoSuchColumn is returned by Schema.Idx when an attribute has no
	// match in the schema.
	ErrNoSuchColumn = errors.NewKind("no column named %q in schema")
)
