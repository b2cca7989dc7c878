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

// Group is the value GroupBy stores in its synthetic __group__ column: a
// fixed schema (the GroupBy's child's schema at construction time) plus
// every row that hashed into this bucket, copied so later mutation of the
// child's iteration buffer cannot corrupt it. AggFunc reads Group.Rows to
// compute its result once per bucket.
type Group struct {
	Schema Schema
	Rows   []*Row
}
