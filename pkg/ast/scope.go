// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package ast

import "github.com/wavelang/compiler/pkg/diag"

// Scope is an ordered list of child nodes defining an identifier namespace
// and a statement counter (spec §3.2). Scopes, modules, assignments and
// expressions form a tree; ownership follows the tree -- a Scope's Children
// slice is the sole owner of each child Statement.
type Scope struct {
	Base
	// Children are the statements (assignments, returns, repeat loops)
	// contained directly in this scope, in source order.
	Children []Statement
}

// NewScope constructs an empty scope.
func NewScope(id NodeID, span diag.Span) *Scope {
	return &Scope{Base: NewBase(id, span)}
}

// Statement is any node that may appear directly inside a Scope's body:
// an assignment, a return, or a repeat loop.
type Statement interface {
	Node
	statementNode()
}
