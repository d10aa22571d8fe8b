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
	"fmt"

	"github.com/wavelang/compiler/pkg/natives"
	"github.com/wavelang/compiler/pkg/types"
)

// Validate checks every universal graph invariant of spec §3.3/§8(1): the
// graph is acyclic, every edge is type-assignable, every node satisfies its
// arity contract, and every native-call's argument count matches its native
// module. It returns a descriptive error for the first violation found, or
// nil if the graph is valid.
func Validate(g *Graph, reg natives.Registry) error {
	if err := checkAcyclic(g); err != nil {
		return err
	}
	if err := checkArity(g, reg); err != nil {
		return err
	}
	if err := checkEdgeTypes(g); err != nil {
		return err
	}
	if err := checkInputsOutputs(g); err != nil {
		return err
	}
	return nil
}

func checkAcyclic(g *Graph) error {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := make(map[Handle]int)
	var visit func(h Handle) error
	visit = func(h Handle) error {
		switch color[h] {
		case black:
			return nil
		case grey:
			return fmt.Errorf("wavelang/graph: cycle detected at node %s", h)
		}
		color[h] = grey
		for _, to := range g.OutEdges(h) {
			if err := visit(to); err != nil {
				return err
			}
		}
		color[h] = black
		return nil
	}
	for _, h := range g.Nodes() {
		if err := visit(h); err != nil {
			return err
		}
	}
	return nil
}

func checkArity(g *Graph, reg natives.Registry) error {
	for _, h := range g.Nodes() {
		nc, ok := g.Node(h).(*NativeCallNode)
		if !ok {
			continue
		}
		mod, ok := reg.Lookup(nc.Module)
		if !ok {
			return fmt.Errorf("wavelang/graph: native-call %s references unknown module %d", h, nc.Module)
		}
		ins := g.IndexedChildren(h, true)
		outs := g.IndexedChildren(h, false)
		if len(ins) != len(mod.InArgs()) {
			return fmt.Errorf("wavelang/graph: native-call %s has %d in-args, module %q expects %d",
				h, len(ins), mod.Name, len(mod.InArgs()))
		}
		wantOuts := len(mod.OutArgs())
		if mod.Return.Kind != types.Void {
			wantOuts++
		}
		if len(outs) != wantOuts {
			return fmt.Errorf("wavelang/graph: native-call %s has %d indexed outputs, module %q expects %d",
				h, len(outs), mod.Name, wantOuts)
		}
	}
	return nil
}

func checkEdgeTypes(g *Graph) error {
	for _, h := range g.Nodes() {
		toType, toOk := g.QType(h)
		if !toOk {
			continue
		}
		_, isArrayOwner := g.Node(h).(*ArrayNode)
		for _, from := range g.InEdges(h) {
			// An Array's IndexedInput children feed it through a positional
			// aggregation edge, not a value-flow edge: the child carries the
			// scalar element type while the array owner carries the array
			// type, so the two are never directly assignable.
			if isArrayOwner {
				if _, ok := g.Node(from).(*IndexedInputNode); ok {
					continue
				}
			}
			fromType, fromOk := g.QType(from)
			if !fromOk {
				continue
			}
			if !fromType.AssignableTo(toType) {
				return fmt.Errorf("wavelang/graph: edge %s -> %s not type-assignable (%s -> %s)",
					from, h, fromType, toType)
			}
		}
	}
	return nil
}

func checkInputsOutputs(g *Graph) error {
	inputIdx := map[uint32]int{}
	outputIdx := map[uint32]int{}
	remainActive := 0
	for _, h := range g.Nodes() {
		switch n := g.Node(h).(type) {
		case *InputNode:
			inputIdx[n.Index]++
		case *OutputNode:
			if n.Index == RemainActiveIndex {
				remainActive++
			} else {
				outputIdx[n.Index]++
			}
		}
	}
	for idx, count := range inputIdx {
		if count != 1 {
			return fmt.Errorf("wavelang/graph: input index %d has %d nodes, expected exactly 1", idx, count)
		}
	}
	if err := checkDense(inputIdx, "input"); err != nil {
		return err
	}
	for idx, count := range outputIdx {
		if count != 1 {
			return fmt.Errorf("wavelang/graph: output index %d has %d nodes, expected exactly 1", idx, count)
		}
	}
	if err := checkDense(outputIdx, "output"); err != nil {
		return err
	}
	if remainActive != 1 {
		return fmt.Errorf("wavelang/graph: expected exactly one remain_active output, found %d", remainActive)
	}
	return nil
}

func checkDense(idx map[uint32]int, kind string) error {
	for i := uint32(0); int(i) < len(idx); i++ {
		if _, ok := idx[i]; !ok {
			return fmt.Errorf("wavelang/graph: %s index %d missing (indices must be dense 0..n-1)", kind, i)
		}
	}
	return nil
}
