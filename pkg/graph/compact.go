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

import "github.com/wavelang/compiler/pkg/types"

// CompactionResult records how Compact remapped handles, so callers holding
// external references (e.g. the builder's scope stack, already discarded by
// the time compaction runs) can translate them if ever needed.
type CompactionResult struct {
	// Remap maps an old (pre-compaction) Handle to its new Handle. Only live
	// nodes are present.
	Remap map[Handle]Handle
}

// Compact removes unused nodes (slots already marked dead are physically
// reclaimed already; "unused" here additionally sweeps the string table)
// and reassigns node indices densely from zero, in ascending original-index
// order, so the serialized form has no gaps (spec §3.3: "a separate
// compaction pass may reassign indices for serialization").
//
// Compaction is deterministic: given the same live-node set in the same
// order, it always produces the same new indices (spec §5).
func (g *Graph) Compact() CompactionResult {
	old := g.Nodes() // ascending index order, already deterministic

	newSlots := make([]slot, 0, len(old))
	remap := make(map[Handle]Handle, len(old))

	for _, h := range old {
		s := g.slots[h.index]
		newIdx := uint32(len(newSlots))
		newSlots = append(newSlots, slot{salt: 1, live: true, node: s.node})
		remap[h] = Handle{index: newIdx, salt: 1}
	}
	// Rewrite adjacency using the remap.
	for _, h := range old {
		s := g.slots[h.index]
		nh := remap[h]
		ns := &newSlots[nh.index]
		for _, o := range s.out {
			ns.out = append(ns.out, remap[o])
		}
		for _, i := range s.in {
			ns.in = append(ns.in, remap[i])
		}
	}

	g.slots = newSlots
	g.freeList = nil

	// Sweep the string table: find which offsets are still referenced.
	used := make(map[uint32]bool)
	for i := range g.slots {
		if c, ok := g.slots[i].node.(*ConstantNode); ok && c.QType.Kind == types.String {
			used[c.StringOffset] = true
		}
	}
	strRemap := g.strings.sweep(used)
	for i := range g.slots {
		if c, ok := g.slots[i].node.(*ConstantNode); ok {
			if nv, ok := strRemap[c.StringOffset]; ok {
				c.StringOffset = nv
			}
		}
	}

	return CompactionResult{Remap: remap}
}
