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

package optimizer

import (
	"github.com/wavelang/compiler/pkg/graph"
	"github.com/wavelang/compiler/pkg/types"
)

// matchFrame is one partial-match stack entry: the ordered producer handles
// of a NativeModuleCall symbol's in-arguments, and how many have been
// consumed so far (spec §4.4.1: "a stack of partial match frames. Each
// frame records a graph location... and an advance choice").
type matchFrame struct {
	children []graph.Handle
	idx      int
}

// matchResult is a successful match's placeholder bindings and the single
// upsample factor observed across every matched native-call node (spec
// §4.4.1: "an entire rule match must have a single consistent upsample
// factor").
type matchResult struct {
	bindings map[int]graph.Handle
	upsample uint32
}

// tryMatch walks pat symbol-by-symbol against the subgraph rooted at root,
// maintaining an explicit stack of matchFrames (spec §4.4.1). It returns
// ok=false the moment any symbol fails to match.
func tryMatch(g *graph.Graph, pat Pattern, root graph.Handle) (matchResult, bool) {
	res := matchResult{bindings: make(map[int]graph.Handle)}
	var stack []matchFrame
	cur := root

	for i, sym := range pat {
		if i > 0 {
			if sym.Kind != NativeModuleEnd {
				if len(stack) == 0 {
					return matchResult{}, false
				}
				top := &stack[len(stack)-1]
				if top.idx >= len(top.children) {
					return matchResult{}, false
				}
				cur = top.children[top.idx]
				top.idx++
			}
		}

		switch sym.Kind {
		case NativeModuleCall:
			if g.NodeType(cur) != graph.NativeCall {
				return matchResult{}, false
			}
			call := g.Node(cur).(*graph.NativeCallNode)
			if call.Module != sym.UID {
				return matchResult{}, false
			}
			if res.upsample == 0 {
				res.upsample = call.UpsampleFactor
			} else if res.upsample != call.UpsampleFactor {
				return matchResult{}, false
			}
			stack = append(stack, matchFrame{children: inArgProducers(g, cur)})

		case NativeModuleEnd:
			top := stack[len(stack)-1]
			if top.idx != len(top.children) {
				return matchResult{}, false
			}
			stack = stack[:len(stack)-1]

		case Variable:
			if isConstantMutability(g, cur) {
				return matchResult{}, false
			}
			res.bindings[sym.PlaceholderIndex] = cur

		case ConstantSym:
			if !isConstantMutability(g, cur) {
				return matchResult{}, false
			}
			res.bindings[sym.PlaceholderIndex] = cur

		case VariableOrConstant:
			res.bindings[sym.PlaceholderIndex] = cur

		case BackReference:
			bound, ok := res.bindings[sym.BackRefIndex]
			if !ok || bound != cur {
				return matchResult{}, false
			}

		case RealLiteral:
			c, ok := constNode(g, cur)
			if !ok || c.QType.Kind != types.Real || c.Real != sym.Real {
				return matchResult{}, false
			}

		case BoolLiteral:
			c, ok := constNode(g, cur)
			if !ok || c.QType.Kind != types.Bool || c.Bool != sym.Bool {
				return matchResult{}, false
			}
		}
	}

	if len(stack) != 0 {
		return matchResult{}, false
	}
	return res, true
}

// inArgProducers returns owner's in-argument producer handles, in
// declaration order: for each IndexedInput child, the single node feeding
// it.
func inArgProducers(g *graph.Graph, owner graph.Handle) []graph.Handle {
	children := g.IndexedChildren(owner, true)
	out := make([]graph.Handle, len(children))
	for i, c := range children {
		out[i] = g.InEdges(c)[0]
	}
	return out
}

func isConstantMutability(g *graph.Graph, h graph.Handle) bool {
	qt, ok := g.QType(h)
	return ok && qt.Mutability == types.Constant
}

func constNode(g *graph.Graph, h graph.Handle) (*graph.ConstantNode, bool) {
	if g.NodeType(h) != graph.Constant {
		return nil, false
	}
	return g.Node(h).(*graph.ConstantNode), true
}
