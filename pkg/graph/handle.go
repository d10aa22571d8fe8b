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

// Package graph implements the native-module graph data model of spec §3.3:
// a directed acyclic multigraph-minus-multi-edges of typed nodes, plus the
// opaque salted node-handle API of spec §9 / §6.
//
// Grounded on the design-notes replacement described in spec §9 ("Graph
// node handles are opaque values carrying an index plus a salt that
// increments on free... This replaces the source's raw indices and enables
// safe node churn during optimization"), confirmed literal by
// _examples/original_source/source/instrument/graph_node_handle.h, and on
// the teacher's arena-style register allocator
// (pkg/schema/register/allocator.go) for the free-list/reclaim shape.
package graph

import "fmt"

// Handle is an opaque reference to a node in a Graph: an index into the
// graph's node arena plus a salt that is bumped every time the slot at that
// index is freed. A Handle captured before a node's removal becomes stale
// once the slot is reused; dereferencing a stale handle is an assertion
// failure (spec §7: "Fatal faults... indicate compiler bugs, not user
// errors"), not a recoverable error.
type Handle struct {
	index uint32
	salt  uint32
}

// invalidHandle is the zero Handle, never a valid live reference (graphs
// never place a live node at salt 0 on first allocation -- see Graph.AddNode).
var invalidHandle = Handle{}

// IsValid reports whether this handle could plausibly reference a node
// (cheap shape check only; use Graph.Node to actually dereference, which
// additionally checks liveness and salt).
func (h Handle) IsValid() bool {
	return h != invalidHandle
}

// String implements fmt.Stringer, useful for debug dumps and panics.
func (h Handle) String() string {
	return fmt.Sprintf("#%d.%d", h.index, h.salt)
}
