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

// Package ast implements the WaveLang AST entities of spec §3.2: scopes,
// module declarations, named-value declarations, assignments, returns,
// repeat loops and expressions. The AST is produced upstream by an external
// parse-tree-to-AST builder (spec §1/§6) and consumed here only as a data
// model plus the identity/ownership invariants spec §3.2 requires.
//
// Modeled on the teacher's tagged-union-via-interface Node pattern
// (pkg/corset/ast.go's Node/Declaration/Symbol hierarchy), adapted to drop
// the Lisp-debugging obligation (no s-expression library in this module's
// stack) in favour of a plain identity handle used by the validator and
// graph builder to track per-node state.
package ast

import "github.com/wavelang/compiler/pkg/diag"

// NodeID is an opaque identity for an AST node, assigned by the (external)
// AST builder. It lets later passes (validator, graph builder) attach
// side-tables keyed by node without mutating the AST itself.
type NodeID uint32

// Node is the common interface implemented by every AST entity. Every node
// knows its own identity and the source span it was built from, so
// diagnostics can always be anchored (spec §7: "Each diagnostic carries a
// source location").
type Node interface {
	ID() NodeID
	Span() diag.Span
}

// Base is embedded by every concrete node type to provide the common Node
// fields without repeating them.
type Base struct {
	NID  NodeID
	Loc  diag.Span
}

// ID implements Node.
func (b Base) ID() NodeID { return b.NID }

// Span implements Node.
func (b Base) Span() diag.Span { return b.Loc }

// NewBase constructs the embeddable common node fields, populated by the
// external AST-construction stage when assembling concrete node values.
func NewBase(id NodeID, span diag.Span) Base {
	return Base{NID: id, Loc: span}
}
