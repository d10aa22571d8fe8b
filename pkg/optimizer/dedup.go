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
	"strings"

	"github.com/wavelang/compiler/pkg/graph"
	"github.com/wavelang/compiler/pkg/types"
)

// constKey identifies a constant node by its value and full qualified type
// (spec §4.4: "two constant nodes of the same type and value are
// interchangeable").
type constKey struct {
	qt   types.QualifiedType
	real float64
	flag bool
	str  string
}

// dedupConstants collapses constant nodes sharing the same value and type
// onto a single canonical node, in ascending node-index order so the
// first-allocated node is always kept as canonical.
func dedupConstants(g *graph.Graph) bool {
	seen := make(map[constKey]graph.Handle)
	changed := false

	for _, h := range g.Nodes() {
		if g.NodeType(h) != graph.Constant {
			continue
		}
		c := g.Node(h).(*graph.ConstantNode)
		key := constKey{qt: c.QType, real: c.Real, flag: c.Bool}
		if c.QType.Kind == types.String {
			key.str = g.Strings().Get(c.StringOffset)
		}

		canon, ok := seen[key]
		if !ok {
			seen[key] = h
			continue
		}
		if canon == h {
			continue
		}
		reroute(g, h, canon)
		changed = true
	}
	return changed
}

// structKey identifies an Array or NativeCall node by everything that
// determines its value: its kind-specific identity (element kind /
// upsample, or native-module UID / upsample) plus the ordered handles of
// its in-argument producers (spec §4.4: "structural dedup collapses
// array/native-call node pairs sharing identical type, upsample factor and
// indexed-input sources").
type structKey struct {
	uid      natUID
	qt       types.QualifiedType
	children string
}

// natUID is either an array (isArray set) or a native module's UID;
// kept as a tiny sum type so array and native-call nodes never collide in
// the same key space.
type natUID struct {
	isArray bool
	uid     uint64
}

// dedupStructural collapses Array and NativeCall nodes that are, element
// for element, identical: same kind of node, same type/upsample, and the
// same ordered producer handles feeding their indexed inputs.
func dedupStructural(g *graph.Graph) bool {
	seen := make(map[structKey]graph.Handle)
	changed := false

	for _, h := range g.Nodes() {
		var key structKey
		switch n := g.Node(h).(type) {
		case *graph.ArrayNode:
			key = structKey{uid: natUID{isArray: true}, qt: n.QType, children: childKey(g, h)}
		case *graph.NativeCallNode:
			upsample := types.QualifiedType{DataType: types.DataType{UpsampleFactor: n.UpsampleFactor}}
			key = structKey{uid: natUID{uid: uint64(n.Module)}, qt: upsample, children: childKey(g, h)}
		default:
			continue
		}

		canon, ok := seen[key]
		if !ok {
			seen[key] = h
			continue
		}
		if canon == h {
			continue
		}

		if g.NodeType(h) == graph.Array {
			reroute(g, h, canon)
		} else {
			rerouteCallOutputs(g, h, canon)
		}
		changed = true
	}
	return changed
}

// childKey renders h's ordered in-argument producer handles as a string key
// suitable for map comparison.
func childKey(g *graph.Graph, h graph.Handle) string {
	children := g.IndexedChildren(h, true)
	var buf strings.Builder
	for _, c := range children {
		producer := g.InEdges(c)[0]
		buf.WriteString(producer.String())
		buf.WriteByte(';')
	}
	return buf.String()
}

// rerouteCallOutputs reroutes every one of dup's out-argument / return
// value consumers onto the corresponding slot of canon, by index, since a
// NativeCall node is never itself a value (its IndexedOutput children are).
func rerouteCallOutputs(g *graph.Graph, dup, canon graph.Handle) {
	dupOuts := g.IndexedChildren(dup, false)
	canonOuts := g.IndexedChildren(canon, false)
	for i, out := range dupOuts {
		if i >= len(canonOuts) {
			break
		}
		reroute(g, out, canonOuts[i])
	}
}
