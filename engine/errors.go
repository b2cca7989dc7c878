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

import "gopkg.in/src-d/go-errors.v1"

// ErrNilPlan is returned by Query/Compile when handed a nil root node:
// there is no parser in this module to have produced one, so a caller
// passing nil is a programming error, not a user-input error.
var ErrNilPlan = errors.NewKind("cannot execute a nil plan")
