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

// Package constant implements the compile-time constant evaluator of spec
// §4.3. It is exposed as a reusable component (spec §9: "the implementation
// must therefore expose the evaluator as a reusable component, not as a
// one-shot optimizer phase") since both the graph builder (array-index and
// repeat-loop-count evaluation, spec §4.2) and the optimizer
// (constant-folding side effects of a rewrite, spec §4.4) need it.
package constant

import (
	"github.com/wavelang/compiler/pkg/graph"
	"github.com/wavelang/compiler/pkg/natives"
	"github.com/wavelang/compiler/pkg/types"
)

// Evaluator evaluates graph subtrees to compile-time values, caching results
// per node handle to avoid exponential re-evaluation (spec §4.3).
type Evaluator struct {
	g          *graph.Graph
	natives    natives.Registry
	cache      map[graph.Handle]natives.ConstantValue
	evaluating map[graph.Handle]bool
}

// New constructs an Evaluator bound to g, consulting reg for native-module
// compile-time implementations.
func New(g *graph.Graph, reg natives.Registry) *Evaluator {
	return &Evaluator{
		g:          g,
		natives:    reg,
		cache:      make(map[graph.Handle]natives.ConstantValue),
		evaluating: make(map[graph.Handle]bool),
	}
}

// Evaluate attempts to reduce h to a compile-time constant value. ok is
// false when h's subtree is not (yet) constant -- a native-call node
// lacking a compile-time implementation, one whose dependent-constant
// in-arguments are not all constant, or a subtree with a non-constant
// input.
func (e *Evaluator) Evaluate(h graph.Handle) (natives.ConstantValue, bool) {
	if v, ok := e.cache[h]; ok {
		return v, true
	}
	if e.evaluating[h] {
		// A self-referential subtree (should not occur in a well-formed
		// acyclic graph); treat as non-constant rather than recursing
		// forever.
		return natives.ConstantValue{}, false
	}
	e.evaluating[h] = true
	defer delete(e.evaluating, h)

	switch e.g.NodeType(h) {
	case graph.Constant:
		c := e.g.Node(h).(*graph.ConstantNode)
		v := natives.ConstantValue{Kind: c.QType.Kind, Real: c.Real, Bool: c.Bool}
		if c.QType.Kind == types.String {
			v.String = e.g.Strings().Get(c.StringOffset)
		}
		e.cache[h] = v
		return v, true
	case graph.Array:
		elems, ok := e.evaluateIndexedChildren(h)
		if !ok {
			return natives.ConstantValue{}, false
		}
		a := e.g.Node(h).(*graph.ArrayNode)
		v := natives.ConstantValue{Kind: a.QType.Kind, IsArray: true, Elements: elems}
		e.cache[h] = v
		return v, true
	case graph.NativeCall:
		v, ok := e.evaluateNativeCall(h)
		if ok {
			e.cache[h] = v
		}
		return v, ok
	default:
		return natives.ConstantValue{}, false
	}
}

// evaluateIndexedChildren evaluates every indexed-input child of owner, in
// index order, returning false the moment any child fails to reduce.
func (e *Evaluator) evaluateIndexedChildren(owner graph.Handle) ([]natives.ConstantValue, bool) {
	children := e.g.IndexedChildren(owner, true)
	out := make([]natives.ConstantValue, len(children))
	for i, ch := range children {
		producers := e.g.InEdges(ch)
		if len(producers) != 1 {
			return nil, false
		}
		v, ok := e.Evaluate(producers[0])
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

func (e *Evaluator) evaluateNativeCall(h graph.Handle) (natives.ConstantValue, bool) {
	call := e.g.Node(h).(*graph.NativeCallNode)
	mod, ok := e.natives.Lookup(call.Module)
	if !ok || mod.CompileTime == nil {
		return natives.ConstantValue{}, false
	}
	if !mod.AlwaysCompileTime && !mod.CompileTimeWhenDependentsConstant {
		return natives.ConstantValue{}, false
	}

	inArgs, ok := e.evaluateIndexedChildren(h)
	if !ok {
		return natives.ConstantValue{}, false
	}

	results, err := mod.CompileTime(natives.CompileTimeArgs{Args: inArgs})
	if err != nil {
		return natives.ConstantValue{}, false
	}
	if len(results) == 0 {
		return natives.ConstantValue{}, false
	}
	return results[0], true
}

// EvaluateInt64 is a convenience wrapper for the two call sites that need a
// non-negative integral result: array indices and repeat-loop counts (spec
// §4.2). ok is false if the value is not constant or is not a non-negative
// integral real.
func (e *Evaluator) EvaluateInt64(h graph.Handle) (int64, bool) {
	v, ok := e.Evaluate(h)
	if !ok || v.IsArray || v.Kind != types.Real {
		return 0, false
	}
	if v.Real < 0 || v.Real != float64(int64(v.Real)) {
		return 0, false
	}
	return int64(v.Real), true
}
