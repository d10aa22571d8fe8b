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

package natives

import "sort"

// MapRegistry is a simple in-memory Registry, keyed by UID with a secondary
// by-name index for overload lookup. Grounded on the teacher's treatment of
// its intrinsics table as a flat, pre-populated lookup
// (pkg/corset/compiler/intrinsics.go's IntrinsicDefinition table) -- a
// concrete Registry is provided here so the CLI and tests have something to
// construct without depending on the (out-of-scope) native-module
// implementation layer.
type MapRegistry struct {
	byUID  map[UID]*Module
	byName map[string][]*Module
}

// NewMapRegistry constructs an empty registry ready for Register calls.
func NewMapRegistry() *MapRegistry {
	return &MapRegistry{
		byUID:  make(map[UID]*Module),
		byName: make(map[string][]*Module),
	}
}

// Register adds mod to the registry, indexed by its UID and name. Later
// registrations under an already-used UID replace the earlier entry in the
// UID index but do not remove it from the name index -- callers are expected
// to assign distinct UIDs per module.
func (r *MapRegistry) Register(mod *Module) {
	r.byUID[mod.UID] = mod
	r.byName[mod.Name] = append(r.byName[mod.Name], mod)
}

// Lookup implements Registry.
func (r *MapRegistry) Lookup(uid UID) (*Module, bool) {
	m, ok := r.byUID[uid]
	return m, ok
}

// LookupByName implements Registry.
func (r *MapRegistry) LookupByName(name string) []*Module {
	return r.byName[name]
}

// All returns every registered module, in UID order, for documentation
// dumping (spec §6 CLI surface: "-d writes documentation of the registered
// native modules").
func (r *MapRegistry) All() []*Module {
	out := make([]*Module, 0, len(r.byUID))
	for _, m := range r.byUID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out
}
