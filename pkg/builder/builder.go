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

// Package builder implements the graph builder of spec §4.2: translation of
// a validated AST into a native-module graph by recursively inlining
// non-native module calls from a chosen entry point.
package builder

import (
	"github.com/wavelang/compiler/pkg/ast"
	"github.com/wavelang/compiler/pkg/constant"
	"github.com/wavelang/compiler/pkg/diag"
	"github.com/wavelang/compiler/pkg/graph"
	"github.com/wavelang/compiler/pkg/natives"
	"github.com/wavelang/compiler/pkg/types"
)

// Config bundles the builder's tunables (spec §9, §4.2). Grounded on the
// teacher's OptimisationConfig pattern (pkg/mir/optimiser.go): a small,
// explicit struct with a documented default rather than free-floating
// constants.
type Config struct {
	// MaxRepeatCount bounds the iteration count a repeat loop's
	// constant-evaluated count may resolve to before the builder rejects it
	// with invalid_loop_count (spec §4.2: "an implementation-defined maximum
	// (default 10 000)").
	MaxRepeatCount int64
}

// DefaultConfig returns the builder's default tuning.
func DefaultConfig() Config {
	return Config{MaxRepeatCount: 10000}
}

// Result is the outcome of building one entry point's graph.
type Result struct {
	Graph *graph.Graph
	// RemainActive is the handle bound to the entry point's remain_active
	// output's source (spec §9: open question resolved as "every graph with
	// an entry point carries a remain_active output").
	RemainActive graph.Handle
	OK           bool
	// Diagnostics accumulates every diagnostic raised while walking entry's
	// body, regardless of OK.
	Diagnostics *diag.Bag
}

// Build translates entry's body into a graph (spec §4.2). isFxGraph governs
// whether input nodes are pre-created for the entry point's in arguments
// (fx graphs only); a voice entry point declares only out arguments (spec
// §4.1.5) so it never needs input nodes.
func Build(entry *ast.ModuleDecl, isFxGraph bool, reg natives.Registry, cfg Config) Result {
	g := graph.New()
	bag := &diag.Bag{}
	bld := &builder{g: g, natives: reg, bag: bag, cfg: cfg}
	bld.eval = constant.New(g, reg)

	outer := &scope{vars: make(map[string]graph.Handle)}
	bld.scopes = append(bld.scopes, outer)

	for i, a := range entry.Arguments {
		if a.Qualifier == types.In && isFxGraph {
			h := g.NewInput(uint32(i), types.NewQualifiedType(a.Type, types.Variable))
			outer.bind(a.Name, h)
		}
	}

	bld.walkScope(entry.Body)

	ok := !bag.HasErrors()
	if ok {
		for i, a := range entry.Arguments {
			if a.Qualifier != types.Out {
				continue
			}
			h, found := bld.scopes[0].lookup(a.Name)
			if !found {
				ok = false
				continue
			}
			out := g.NewOutput(uint32(i), types.NewQualifiedType(a.Type, types.Variable))
			g.AddEdge(h, out)
		}
	}

	var remainActive graph.Handle
	if ok && bld.returnValue.IsValid() {
		out := g.NewOutput(graph.RemainActiveIndex, types.NewQualifiedType(types.NewDataType(types.Bool), types.Variable))
		g.AddEdge(bld.returnValue, out)
		remainActive = out
	}

	return Result{Graph: g, RemainActive: remainActive, OK: ok, Diagnostics: bag}
}
