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

package validator

import "github.com/wavelang/compiler/pkg/ast"

// moduleCall is one module-call-graph node: the module itself plus the set
// of callees it has been observed to call (spec §4.1.4). Modeled, per
// SPEC_FULL.md §C.2, directly on the original's incrementally-populated
// s_module_call / add_module_subcall shape: a flat slice of records
// scanned-or-appended rather than a precomputed adjacency map.
type moduleCall struct {
	module   *ast.ModuleDecl
	subcalls []*ast.ModuleDecl
	color    tricolor
}

type tricolor uint8

const (
	white tricolor = iota
	grey
	black
)

// callGraph is the module-call graph used for cycle detection (spec
// §4.1.4, GLOSSARY: "Module call graph").
type callGraph struct {
	index map[*ast.ModuleDecl]int
	nodes []*moduleCall
}

func newCallGraph() *callGraph {
	return &callGraph{index: make(map[*ast.ModuleDecl]int)}
}

// addModule registers m as a node in the call graph if not already present.
func (g *callGraph) addModule(m *ast.ModuleDecl) {
	if _, ok := g.index[m]; ok {
		return
	}
	g.index[m] = len(g.nodes)
	g.nodes = append(g.nodes, &moduleCall{module: m})
}

// addSubcall records that caller calls callee, appending callee to
// caller's subcall list if not already present (mirroring the original's
// linear scan-or-append, SPEC_FULL.md §C.2).
func (g *callGraph) addSubcall(caller, callee *ast.ModuleDecl) {
	idx, ok := g.index[caller]
	if !ok {
		return
	}
	node := g.nodes[idx]
	for _, existing := range node.subcalls {
		if existing == callee {
			return
		}
	}
	node.subcalls = append(node.subcalls, callee)
}

// hasCycle runs a tricolor depth-first traversal over the call graph,
// returning true the moment an on-stack (grey) node is re-encountered
// (spec §4.1.4: "encountering an on-stack node is a cyclic_module_call
// diagnostic (one, not per cycle)").
func (g *callGraph) hasCycle() bool {
	var visit func(n *moduleCall) bool
	visit = func(n *moduleCall) bool {
		n.color = grey
		for _, callee := range n.subcalls {
			idx, ok := g.index[callee]
			if !ok {
				continue
			}
			cn := g.nodes[idx]
			switch cn.color {
			case grey:
				return true
			case white:
				if visit(cn) {
					return true
				}
			}
		}
		n.color = black
		return false
	}

	for _, n := range g.nodes {
		if n.color == white {
			if visit(n) {
				return true
			}
		}
	}
	return false
}
