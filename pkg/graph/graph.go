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
	"sort"

	"github.com/wavelang/compiler/pkg/types"
)

// slot is one arena entry: a salt (bumped on every free), whether the slot
// currently holds a live node, and -- when live -- the node payload plus its
// adjacency lists. Edges are tracked symmetrically from both endpoints so
// removal and navigation are both O(degree).
type slot struct {
	salt uint32
	live bool
	node Node
	// out holds this node's outgoing edge targets, in insertion order.
	out []Handle
	// in holds this node's incoming edge sources, in insertion order.
	in []Handle
}

// Graph is the native-module graph of spec §3.3: a directed acyclic
// multigraph-minus-multi-edges of typed nodes. A Graph owns exactly one
// StringTable (spec §3.3).
type Graph struct {
	slots     []slot
	freeList  []uint32
	strings   StringTable
	latency   int32
}

// New constructs an empty graph.
func New() *Graph {
	return &Graph{}
}

// Strings returns this graph's string table.
func (g *Graph) Strings() *StringTable {
	return &g.strings
}

// OutputLatency returns this graph's output latency (spec §4.5, §6).
func (g *Graph) OutputLatency() int32 { return g.latency }

// SetOutputLatency sets this graph's output latency.
func (g *Graph) SetOutputLatency(latency int32) { g.latency = latency }

// AddNode allocates a fresh node and returns its handle, reclaiming a freed
// slot (with a bumped salt) when one is available (spec §3.3: "Removed
// nodes may be reclaimed").
func (g *Graph) AddNode(n Node) Handle {
	if len(g.freeList) > 0 {
		idx := g.freeList[len(g.freeList)-1]
		g.freeList = g.freeList[:len(g.freeList)-1]
		s := &g.slots[idx]
		s.live = true
		s.node = n
		s.out = nil
		s.in = nil
		return Handle{index: idx, salt: s.salt}
	}
	idx := uint32(len(g.slots))
	g.slots = append(g.slots, slot{salt: 1, live: true, node: n})
	return Handle{index: idx, salt: 1}
}

// checkLive panics (an assertion failure, spec §7) if h does not reference a
// currently-live node, and otherwise returns a pointer to its slot.
func (g *Graph) checkLive(h Handle) *slot {
	if int(h.index) >= len(g.slots) {
		panic(fmt.Sprintf("wavelang/graph: handle %s out of range", h))
	}
	s := &g.slots[h.index]
	if !s.live || s.salt != h.salt {
		panic(fmt.Sprintf("wavelang/graph: stale handle %s", h))
	}
	return s
}

// IsLive reports, without panicking, whether h currently references a live
// node.
func (g *Graph) IsLive(h Handle) bool {
	if int(h.index) >= len(g.slots) {
		return false
	}
	s := &g.slots[h.index]
	return s.live && s.salt == h.salt
}

// Node dereferences h, panicking on a stale or out-of-range handle (spec
// §7: fatal faults indicate compiler bugs).
func (g *Graph) Node(h Handle) Node {
	return g.checkLive(h).node
}

// NodeType returns the NodeType of the node at h.
func (g *Graph) NodeType(h Handle) NodeType {
	return g.Node(h).Type()
}

// RemoveNode frees the slot at h, detaching it from every edge it
// participates in. IndexedInput/IndexedOutput children are not implicitly
// removed by this call; callers (the optimizer's dead-node removal, spec
// §4.4) are expected to remove them explicitly since they are ordinary
// nodes subject to the same reachability analysis as everything else.
func (g *Graph) RemoveNode(h Handle) {
	s := g.checkLive(h)
	for _, to := range append([]Handle(nil), s.out...) {
		g.RemoveEdge(h, to)
	}
	for _, from := range append([]Handle(nil), s.in...) {
		g.RemoveEdge(from, h)
	}
	s.live = false
	s.node = nil
	s.salt++
	g.freeList = append(g.freeList, h.index)
}

// hasEdge reports whether an edge from->to already exists.
func (g *Graph) hasEdge(from, to Handle) bool {
	for _, t := range g.slots[from.index].out {
		if t == to {
			return true
		}
	}
	return false
}

// AddEdge adds an edge from->to, returning false without effect if an edge
// between this exact pair already exists (spec §3.3: "multi-edges between
// the same pair are disallowed").
func (g *Graph) AddEdge(from, to Handle) bool {
	fs := g.checkLive(from)
	ts := g.checkLive(to)
	if g.hasEdge(from, to) {
		return false
	}
	fs.out = append(fs.out, to)
	ts.in = append(ts.in, from)
	return true
}

// RemoveEdge removes the edge from->to if present, returning whether it was
// present.
func (g *Graph) RemoveEdge(from, to Handle) bool {
	fs := g.checkLive(from)
	ts := g.checkLive(to)
	fi := indexOf(fs.out, to)
	if fi < 0 {
		return false
	}
	fs.out = removeAt(fs.out, fi)
	ti := indexOf(ts.in, from)
	ts.in = removeAt(ts.in, ti)
	return true
}

func indexOf(hs []Handle, h Handle) int {
	for i, x := range hs {
		if x == h {
			return i
		}
	}
	return -1
}

func removeAt(hs []Handle, i int) []Handle {
	return append(hs[:i], hs[i+1:]...)
}

// OutEdges returns the outgoing edge targets of h, in insertion order.
func (g *Graph) OutEdges(h Handle) []Handle {
	return g.checkLive(h).out
}

// InEdges returns the incoming edge sources of h, in insertion order.
func (g *Graph) InEdges(h Handle) []Handle {
	return g.checkLive(h).in
}

// OutDegree returns the number of outgoing edges of h.
func (g *Graph) OutDegree(h Handle) int { return len(g.checkLive(h).out) }

// InDegree returns the number of incoming edges of h.
func (g *Graph) InDegree(h Handle) int { return len(g.checkLive(h).in) }

// Nodes returns every currently-live handle, in ascending index order. Index
// order is stable across a single Graph's lifetime modulo compaction (spec
// §5: "Graph construction is deterministic with respect to AST traversal
// order").
func (g *Graph) Nodes() []Handle {
	out := make([]Handle, 0, len(g.slots)-len(g.freeList))
	for i := range g.slots {
		s := &g.slots[i]
		if s.live {
			out = append(out, Handle{index: uint32(i), salt: s.salt})
		}
	}
	return out
}

// QType returns the qualified data type carried by a node, for the node
// kinds that carry one (Constant, Array, IndexedInput, IndexedOutput,
// Input, Output). It returns false for node kinds with no intrinsic type
// (NativeCall, TemporaryReference).
func (g *Graph) QType(h Handle) (types.QualifiedType, bool) {
	switch n := g.Node(h).(type) {
	case *ConstantNode:
		return n.QType, true
	case *ArrayNode:
		return n.QType, true
	case *IndexedInputNode:
		return n.QType, true
	case *IndexedOutputNode:
		return n.QType, true
	case *InputNode:
		return n.QType, true
	case *OutputNode:
		return n.QType, true
	default:
		return types.QualifiedType{}, false
	}
}

// IndexedChildren returns the IndexedInput or IndexedOutput children of an
// owner node (an Array/NativeCall for inputs, a NativeCall for outputs),
// sorted by their declared positional Index (spec §3.3: "argument order is
// preserved"). For an owner's in-arguments this is its InEdges filtered to
// IndexedInput nodes; for its out-arguments this is its OutEdges filtered
// to IndexedOutput nodes.
func (g *Graph) IndexedChildren(owner Handle, wantInputs bool) []Handle {
	var src []Handle
	if wantInputs {
		src = g.InEdges(owner)
	} else {
		src = g.OutEdges(owner)
	}

	type idxed struct {
		h   Handle
		idx uint32
	}

	var pairs []idxed
	for _, h := range src {
		switch n := g.Node(h).(type) {
		case *IndexedInputNode:
			if wantInputs {
				pairs = append(pairs, idxed{h, n.Index})
			}
		case *IndexedOutputNode:
			if !wantInputs {
				pairs = append(pairs, idxed{h, n.Index})
			}
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].idx < pairs[j].idx })
	out := make([]Handle, len(pairs))
	for i, p := range pairs {
		out[i] = p.h
	}
	return out
}

// SoleOutEdge returns the single outgoing edge of h, assuming it has
// exactly one (used for IndexedInput -> owner and IndexedOutput's incoming
// NativeCall which is instead accessed via InEdges[0]). Panics if h does
// not have exactly one outgoing edge.
func (g *Graph) SoleOutEdge(h Handle) Handle {
	out := g.OutEdges(h)
	if len(out) != 1 {
		panic(fmt.Sprintf("wavelang/graph: expected exactly one outgoing edge from %s, got %d", h, len(out)))
	}
	return out[0]
}

// SoleInEdge returns the single incoming edge of h. Panics if h does not
// have exactly one incoming edge.
func (g *Graph) SoleInEdge(h Handle) Handle {
	in := g.InEdges(h)
	if len(in) != 1 {
		panic(fmt.Sprintf("wavelang/graph: expected exactly one incoming edge to %s, got %d", h, len(in)))
	}
	return in[0]
}
