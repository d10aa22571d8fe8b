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

import "errors"

var errShortStringTable = errors.New("wavelang/graph: truncated string table")

// StringTable owns every string constant referenced by constant-string
// nodes in a single Graph (spec §3.3). Constant nodes reference entries by
// offset; unused entries are swept when the graph is compacted.
//
// Modeled on the original's source/common/utility/string_table.{h,cpp}
// (_examples/original_source): an append-only table during construction,
// swept to remove unreferenced entries at compaction time.
type StringTable struct {
	entries []string
}

// Intern adds s to the table (if not already present) and returns its
// offset. Strings are deduplicated by value so repeated literals share a
// single entry.
func (t *StringTable) Intern(s string) uint32 {
	for i, e := range t.entries {
		if e == s {
			return uint32(i)
		}
	}
	t.entries = append(t.entries, s)
	return uint32(len(t.entries) - 1)
}

// Get returns the string stored at offset.
func (t *StringTable) Get(offset uint32) string {
	return t.entries[offset]
}

// Size returns the number of entries currently in the table (including, if
// not yet compacted, entries no longer referenced by any node).
func (t *StringTable) Size() int {
	return len(t.entries)
}

// sweep rebuilds the table keeping only the offsets in `used`, and returns a
// mapping from old offset to new offset for nodes to rewrite.
func (t *StringTable) sweep(used map[uint32]bool) map[uint32]uint32 {
	var (
		newEntries []string
		remap      = make(map[uint32]uint32, len(used))
	)
	for old := uint32(0); int(old) < len(t.entries); old++ {
		if !used[old] {
			continue
		}
		remap[old] = uint32(len(newEntries))
		newEntries = append(newEntries, t.entries[old])
	}
	t.entries = newEntries
	return remap
}

// Bytes serializes the string table as length-prefixed UTF-8 entries,
// matching the "string-table size + bytes" tail of the serialized graph
// layout (spec §4.5, §6).
func (t *StringTable) Bytes() []byte {
	var out []byte
	for _, e := range t.entries {
		n := len(e)
		out = append(out,
			byte(n), byte(n>>8), byte(n>>16), byte(n>>24),
		)
		out = append(out, e...)
	}
	return out
}

// LoadBytes replaces this table's entries by decoding data as produced by
// Bytes, in order, so the resulting entry indices match the StringOffsets
// recorded by the nodes deserialized alongside it.
func (t *StringTable) LoadBytes(data []byte) error {
	var entries []string
	for len(data) > 0 {
		if len(data) < 4 {
			return errShortStringTable
		}
		n := int(data[0]) | int(data[1])<<8 | int(data[2])<<16 | int(data[3])<<24
		data = data[4:]
		if n < 0 || n > len(data) {
			return errShortStringTable
		}
		entries = append(entries, string(data[:n]))
		data = data[n:]
	}
	t.entries = entries
	return nil
}
