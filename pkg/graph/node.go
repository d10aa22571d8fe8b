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

package graph

import (
	"github.com/wavelang/compiler/pkg/natives"
	"github.com/wavelang/compiler/pkg/types"
)

// NodeType identifies which of the eight node shapes of spec §3.3 a node is.
type NodeType uint8

const (
	// Constant carries a real/bool/string literal. 0 inputs, >=0 outputs.
	Constant NodeType = iota
	// Array is an ordered sequence of element values via indexed-input
	// children. n indexed-input children, >=0 outputs.
	Array
	// NativeCall is bound to a native module handle + upsample factor.  One
	// indexed-input per in-arg, one indexed-output per out-arg, plus a
	// trailing indexed-output for a non-void return value.
	NativeCall
	// IndexedInput is a positional slot on an Array or NativeCall. 1 input,
	// 1 output.
	IndexedInput
	// IndexedOutput is a positional result of a NativeCall. 1 input, >=0
	// outputs.
	IndexedOutput
	// Input is a graph input (fx-graph only). 0 inputs, >=1 outputs.
	Input
	// Output is a graph output; its Index is 0..n-1 or RemainActiveIndex.
	// 1 input, 0 outputs.
	Output
	// TemporaryReference roots an otherwise-dead subgraph to keep it alive
	// during construction. >=0 inputs, 0 outputs.
	TemporaryReference
)

// String implements fmt.Stringer.
func (t NodeType) String() string {
	switch t {
	case Constant:
		return "constant"
	case Array:
		return "array"
	case NativeCall:
		return "native-call"
	case IndexedInput:
		return "indexed-input"
	case IndexedOutput:
		return "indexed-output"
	case Input:
		return "input"
	case Output:
		return "output"
	case TemporaryReference:
		return "temporary-reference"
	default:
		return "?"
	}
}

// RemainActiveIndex is the sentinel output index reserved for the
// distinguished remain-active output (spec §3.3, GLOSSARY).
const RemainActiveIndex = ^uint32(0)

// Node is the payload stored at a live graph slot. Concrete shapes are
// *ConstantNode, *ArrayNode, *NativeCallNode, *IndexedInputNode,
// *IndexedOutputNode, *InputNode, *OutputNode, *TemporaryReferenceNode.
type Node interface {
	// Type identifies which of the eight node shapes this is.
	Type() NodeType
}

// ConstantNode carries a real/bool/string literal (spec §3.3). QType's
// Mutability is always types.Constant.
type ConstantNode struct {
	QType  types.QualifiedType
	Real   float64
	Bool   bool
	// StringOffset indexes this node's string constant into the owning
	// Graph's string table (spec §3.3: "A per-graph string table owns all
	// string constants; constant string nodes reference it by offset").
	StringOffset uint32
}

// Type implements Node.
func (*ConstantNode) Type() NodeType { return Constant }

// ArrayNode is an ordered sequence of element values, each reached through
// an IndexedInputNode child (spec §3.3). QType reflects the downgrade rule:
// a fresh array starts Constant; adding any non-constant element demotes
// the whole array to the weakest element mutability and pins its upsample
// factor (spec §3.3).
type ArrayNode struct {
	QType       types.QualifiedType
	ElementCount uint32
}

// Type implements Node.
func (*ArrayNode) Type() NodeType { return Array }

// NativeCallNode is bound to a native-module handle and an upsample factor
// (spec §3.3). Its incoming IndexedInput count equals the native module's
// in-arg count; its outgoing IndexedOutputs are one per out-arg, in argument
// order, followed by one for the return value when the module is non-void.
type NativeCallNode struct {
	Module         natives.UID
	UpsampleFactor uint32
}

// Type implements Node.
func (*NativeCallNode) Type() NodeType { return NativeCall }

// IndexedInputNode is a positional slot on an Array or NativeCall node
// (spec §3.3): one upstream producer edge in, one edge out to the owner.
type IndexedInputNode struct {
	QType types.QualifiedType
	Index uint32
}

// Type implements Node.
func (*IndexedInputNode) Type() NodeType { return IndexedInput }

// IndexedOutputNode is a positional result of a NativeCall node (spec
// §3.3): one edge in from the owning NativeCall, fans out to >=0 consumers.
type IndexedOutputNode struct {
	QType types.QualifiedType
	Index uint32
}

// Type implements Node.
func (*IndexedOutputNode) Type() NodeType { return IndexedOutput }

// InputNode is a graph input, present only in fx graphs (spec §3.3, §4.2).
type InputNode struct {
	QType types.QualifiedType
	Index uint32
}

// Type implements Node.
func (*InputNode) Type() NodeType { return Input }

// OutputNode is a graph output (spec §3.3). Index is 0..n-1 for an ordinary
// output, or RemainActiveIndex for the distinguished remain-active output.
type OutputNode struct {
	QType types.QualifiedType
	Index uint32
}

// Type implements Node.
func (*OutputNode) Type() NodeType { return Output }

// TemporaryReferenceNode roots an otherwise-dead subgraph during
// construction so dead-node removal does not reclaim it prematurely (spec
// §3.3); it has no outputs and is itself removed once no longer needed.
type TemporaryReferenceNode struct{}

// Type implements Node.
func (*TemporaryReferenceNode) Type() NodeType { return TemporaryReference }
