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

import "github.com/wavelang/compiler/pkg/types"

// Expression wraps exactly one of {Constant, NamedValueRef, ModuleCall,
// ConstantArray} (spec §3.2: "Every expression has exactly one value
// sub-node"). Value is never nil for a well-formed AST.
type Expression struct {
	Base
	Value ExpressionValue
}

// ExpressionValue is the sealed set of expression payload kinds.
type ExpressionValue interface {
	Node
	expressionValueNode()
}

// ConstantValueKind is the kind of literal a Constant node carries.
type ConstantValueKind uint8

const (
	// ConstReal is a floating point literal.
	ConstReal ConstantValueKind = iota
	// ConstBool is a boolean literal.
	ConstBool
	// ConstString is a string literal.
	ConstString
)

// Constant is a real/bool/string literal (spec §3.2); array literals are
// ConstantArray.
type Constant struct {
	Base
	Kind ConstantValueKind

	Real   float64
	Bool   bool
	String string
}

func (*Constant) expressionValueNode() {}

// ConstantArray is an array constant; its element expressions are children,
// owned by this node (spec §3.2).
type ConstantArray struct {
	Base
	ElementKind ConstantValueKind
	Elements    []*Expression
}

func (*ConstantArray) expressionValueNode() {}

// NamedValueRef is a reference to a named value declared earlier in an
// enclosing scope, by name, resolved by the validator to a concrete
// NamedValueDecl identity (spec §4.1.1).
type NamedValueRef struct {
	Base
	Name string
	// Index, if non-nil, is an array-index expression: this reference reads
	// (or, in an assignment target position, writes) a single element of an
	// array-typed named value (spec §3.2).
	Index *Expression
}

func (*NamedValueRef) expressionValueNode() {}

// ModuleCall is a call to a named module: callee name, ordered argument
// expressions, and whether invoked via operator syntax (spec §3.2). The
// callee may be overloaded (spec §4.1.1); overload resolution happens
// during validation and the resolved ModuleDecl (native or user) is
// attached to Resolved by the validator for the graph builder to consume.
type ModuleCall struct {
	Base
	Callee      string
	Arguments   []*Expression
	IsOperator  bool

	// Resolved is populated by the validator once overload resolution
	// succeeds. It is nil if resolution failed (in which case a diagnostic
	// was already emitted and graph build will not proceed).
	Resolved *ModuleDecl
}

func (*ModuleCall) expressionValueNode() {}

// DataTypeOfConstantKind maps a literal kind to its scalar primitive kind.
func DataTypeOfConstantKind(k ConstantValueKind) types.PrimitiveKind {
	switch k {
	case ConstReal:
		return types.Real
	case ConstBool:
		return types.Bool
	case ConstString:
		return types.String
	default:
		return types.Void
	}
}
