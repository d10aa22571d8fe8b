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
	"github.com/wavelang/compiler/pkg/natives"
)

// rootOutput returns the single node whose outgoing edges stand for h's
// value (spec §4.4.1: "the root output of the matched source"). For a
// scalar native-call with exactly one out-argument that is its sole
// indexed-output; with more than one (an explicit out-argument plus a
// return slot), the trailing slot is the convention used for a call's
// return value (see graph.NewNativeCall).
func rootOutput(g *graph.Graph, call graph.Handle) (graph.Handle, bool) {
	outs := g.IndexedChildren(call, false)
	if len(outs) == 0 {
		return graph.Handle{}, false
	}
	return outs[len(outs)-1], true
}

// reroute transfers every outgoing edge of oldRoot onto newRoot (spec
// §4.4.1: "an output-rerouting helper that... transfers each outgoing edge
// set by index, and for scalar sources transfers edges directly"). Since
// this implementation always reroutes from a single resolved handle (an
// indexed-output slot or a scalar value node) rather than distinguishing
// the source's arity at the call site, index-based and scalar rerouting
// collapse to the same operation here.
func reroute(g *graph.Graph, oldRoot, newRoot graph.Handle) {
	for _, consumer := range append([]graph.Handle(nil), g.OutEdges(oldRoot)...) {
		g.RemoveEdge(oldRoot, consumer)
		g.AddEdge(newRoot, consumer)
	}
}

// buildTarget constructs the subgraph described by pat starting at pos,
// using bindings for placeholder/back-reference symbols and upsample for
// every freshly allocated native-call and literal node (spec §4.4.1: "each
// native-module symbol allocates a fresh native-call node; placeholders
// resolve by binding; literal symbols allocate fresh constants; edges are
// wired in traversal order"). It returns the constructed node's value
// handle and the position just past the symbols it consumed.
func buildTarget(g *graph.Graph, reg natives.Registry, pat Pattern, pos int, bindings map[int]graph.Handle, upsample uint32) (graph.Handle, int, bool) {
	sym := pat[pos]
	switch sym.Kind {
	case NativeModuleCall:
		mod, ok := reg.Lookup(sym.UID)
		if !ok {
			return graph.Handle{}, 0, false
		}
		pos++
		var children []graph.Handle
		for pat[pos].Kind != NativeModuleEnd {
			child, newPos, ok := buildTarget(g, reg, pat, pos, bindings, upsample)
			if !ok {
				return graph.Handle{}, 0, false
			}
			children = append(children, child)
			pos = newPos
		}
		pos++ // consume NativeModuleEnd
		call, outs := g.NewNativeCall(mod, upsample, children)
		_ = call
		if len(outs) == 0 {
			return graph.Handle{}, 0, false
		}
		return outs[len(outs)-1], pos, true

	case Variable, ConstantSym, VariableOrConstant:
		h, ok := bindings[sym.PlaceholderIndex]
		return h, pos + 1, ok

	case BackReference:
		h, ok := bindings[sym.BackRefIndex]
		return h, pos + 1, ok

	case RealLiteral:
		return g.NewConstantReal(sym.Real, upsample), pos + 1, true

	case BoolLiteral:
		return g.NewConstantBool(sym.Bool, upsample), pos + 1, true

	default:
		return graph.Handle{}, 0, false
	}
}

// applyRule attempts every registered candidate rule (by call's native
// module UID) against call, in registration order, applying and returning
// true for the first one that matches.
func applyRule(g *graph.Graph, reg natives.Registry, rules *Registry, call graph.Handle) bool {
	callNode := g.Node(call).(*graph.NativeCallNode)
	for _, rule := range rules.candidates(callNode.Module) {
		res, ok := tryMatch(g, rule.Source, call)
		if !ok {
			continue
		}
		oldRoot, ok := rootOutput(g, call)
		if !ok {
			continue
		}
		newRoot, _, ok := buildTarget(g, reg, rule.Target, 0, res.bindings, res.upsample)
		if !ok {
			continue
		}
		reroute(g, oldRoot, newRoot)
		return true
	}
	return false
}
