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

import "github.com/wavelang/compiler/pkg/types"

// NewConstantReal allocates a constant real node.
func (g *Graph) NewConstantReal(v float64, upsample uint32) Handle {
	qt := types.NewQualifiedType(types.NewDataType(types.Real).WithUpsample(upsample), types.Constant)
	return g.AddNode(&ConstantNode{QType: qt, Real: v})
}

// NewConstantBool allocates a constant bool node.
func (g *Graph) NewConstantBool(v bool, upsample uint32) Handle {
	qt := types.NewQualifiedType(types.NewDataType(types.Bool).WithUpsample(upsample), types.Constant)
	return g.AddNode(&ConstantNode{QType: qt, Bool: v})
}

// NewConstantString allocates a constant string node, interning s into the
// graph's string table.
func (g *Graph) NewConstantString(s string, upsample uint32) Handle {
	qt := types.NewQualifiedType(types.NewDataType(types.String).WithUpsample(upsample), types.Constant)
	return g.AddNode(&ConstantNode{QType: qt, StringOffset: g.strings.Intern(s)})
}

// BuildArray constructs a fresh ArrayNode with one IndexedInputNode child
// per element handle, wired from each element's producer (spec §3.3).
// elementTypes must be parallel to elements. The array's overall type
// follows the downgrade rule: it starts Constant, and is demoted to the
// weakest element mutability (with the element upsample factor pinned) as
// soon as any non-constant element is present (spec §3.3).
func (g *Graph) BuildArray(elemKind types.PrimitiveKind, elements []Handle, elementTypes []types.QualifiedType) Handle {
	mut := types.Constant
	upsample := uint32(1)
	for _, et := range elementTypes {
		if rankOf(et.Mutability) < rankOf(mut) {
			mut = et.Mutability
			upsample = et.UpsampleFactor
		} else if mut == types.Constant {
			upsample = et.UpsampleFactor
		}
	}
	arrayQType := types.NewQualifiedType(
		types.NewArrayDataType(elemKind).WithUpsample(maxu32(upsample, 1)),
		mut,
	)
	owner := g.AddNode(&ArrayNode{QType: arrayQType, ElementCount: uint32(len(elements))})
	for i, el := range elements {
		inQT := elementTypes[i]
		idxNode := g.AddNode(&IndexedInputNode{QType: inQT, Index: uint32(i)})
		g.AddEdge(el, idxNode)
		g.AddEdge(idxNode, owner)
	}
	return owner
}

func rankOf(m types.Mutability) int {
	switch m {
	case types.Constant:
		return 2
	case types.DependentConstant:
		return 1
	default:
		return 0
	}
}

func maxu32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}
