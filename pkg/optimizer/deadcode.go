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

import "github.com/wavelang/compiler/pkg/graph"

// removeDead removes every node not reachable backward (along incoming
// edges) from an Output or Input node (spec §4.4: "dead-node removal walks
// backward from every output, marking every node it reaches; anything left
// unmarked is removed"). Input nodes are always kept regardless of
// reachability since they fix the graph's declared argument arity. An
// IndexedOutput whose owning native call is reachable is kept even when
// nothing consumes it, so the call keeps one output slot per out-argument
// (and return value); every other node kind, including IndexedInput/
// IndexedOutput children of a node that turns out unreachable, is removed
// implicitly by this same pass since it is never visited.
func removeDead(g *graph.Graph) bool {
	visited := make(map[graph.Handle]bool)
	var mark func(h graph.Handle)
	mark = func(h graph.Handle) {
		if visited[h] {
			return
		}
		visited[h] = true
		for _, producer := range g.InEdges(h) {
			mark(producer)
		}
	}

	for _, h := range g.Nodes() {
		switch g.NodeType(h) {
		case graph.Output, graph.Input:
			mark(h)
		}
	}

	changed := false
	for _, h := range g.Nodes() {
		if !visited[h] {
			if g.NodeType(h) == graph.IndexedOutput {
				if owner := g.InEdges(h); len(owner) == 1 && visited[owner[0]] {
					continue
				}
			}
			g.RemoveNode(h)
			changed = true
		}
	}
	return changed
}
