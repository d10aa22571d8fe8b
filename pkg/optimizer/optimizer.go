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
	"github.com/wavelang/compiler/pkg/constant"
	"github.com/wavelang/compiler/pkg/graph"
	"github.com/wavelang/compiler/pkg/natives"
	"github.com/wavelang/compiler/pkg/types"
)

// Run drives the fixed-point optimizer loop of spec §4.4: dead-node
// removal, constant folding, rule-directed rewriting and (if cfg.Dedup)
// deduplication, repeated until one full iteration performs none of them,
// bounded by cfg.MaxIterations as a non-termination backstop. It reports
// whether g was changed at all.
func Run(g *graph.Graph, reg natives.Registry, rules *Registry, cfg Config) bool {
	changedOverall := false
	for i := 0; i < cfg.MaxIterations; i++ {
		changed := false
		if removeDead(g) {
			changed = true
		}
		if foldConstants(g, reg) {
			changed = true
		}
		if rewriteOnce(g, reg, rules) {
			changed = true
		}
		if cfg.Dedup {
			if dedupConstants(g) {
				changed = true
			}
			if dedupStructural(g) {
				changed = true
			}
		}
		if !changed {
			break
		}
		changedOverall = true
	}
	return changedOverall
}

// rewriteOnce applies at most one rule match per call, across every
// currently-live native-call node in index order, so that each successful
// rewrite restarts dead-node removal before the next is attempted (spec
// §4.4.1: "each successful rewrite invalidates iteration and restarts
// dead-node removal").
func rewriteOnce(g *graph.Graph, reg natives.Registry, rules *Registry) bool {
	if rules == nil {
		return false
	}
	for _, h := range g.Nodes() {
		if !g.IsLive(h) || g.NodeType(h) != graph.NativeCall {
			continue
		}
		if applyRule(g, reg, rules, h) {
			return true
		}
	}
	return false
}

// foldConstants attempts to reduce every live native-call node whose
// in-arguments have (possibly as a side effect of an earlier rewrite)
// become constant, replacing it with a constant node wired onto the same
// consumers (spec §4.4: "a second constant-folding attempt over any node
// whose inputs became constant as a side effect of a rewrite"). Array
// results are left unfolded -- no rule target or surface syntax in this
// compiler produces a native call whose return is itself an array, so
// constant-folding one has no exercised use (see DESIGN.md).
func foldConstants(g *graph.Graph, reg natives.Registry) bool {
	eval := constant.New(g, reg)
	changed := false

	for _, h := range g.Nodes() {
		if !g.IsLive(h) || g.NodeType(h) != graph.NativeCall {
			continue
		}
		v, ok := eval.Evaluate(h)
		if !ok || v.IsArray {
			continue
		}
		root, ok := rootOutput(g, h)
		if !ok {
			continue
		}
		qt, _ := g.QType(root)

		var folded graph.Handle
		switch v.Kind {
		case types.Real:
			folded = g.NewConstantReal(v.Real, qt.UpsampleFactor)
		case types.Bool:
			folded = g.NewConstantBool(v.Bool, qt.UpsampleFactor)
		case types.String:
			folded = g.NewConstantString(v.String, qt.UpsampleFactor)
		default:
			continue
		}

		reroute(g, root, folded)
		changed = true
	}
	return changed
}
