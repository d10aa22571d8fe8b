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

import (
	"testing"

	"github.com/wavelang/compiler/pkg/types"
)

func TestMapRegistryLookup(t *testing.T) {
	r := NewMapRegistry()
	sine := &Module{UID: 1, Name: "sine"}
	r.Register(sine)

	got, ok := r.Lookup(1)
	if !ok || got != sine {
		t.Fatalf("Lookup(1) = %v, %v, want %v, true", got, ok, sine)
	}

	if _, ok := r.Lookup(99); ok {
		t.Fatalf("Lookup(99) found a module that was never registered")
	}
}

func TestMapRegistryLookupByNameAllowsOverloads(t *testing.T) {
	r := NewMapRegistry()
	a := &Module{UID: 1, Name: "mix"}
	b := &Module{UID: 2, Name: "mix"}
	r.Register(a)
	r.Register(b)

	got := r.LookupByName("mix")
	if len(got) != 2 {
		t.Fatalf("LookupByName(mix) returned %d modules, want 2", len(got))
	}

	if got := r.LookupByName("absent"); got != nil {
		t.Fatalf("LookupByName(absent) = %v, want nil", got)
	}
}

func TestMapRegistryAllSortedByUID(t *testing.T) {
	r := NewMapRegistry()
	r.Register(&Module{UID: 3, Name: "c"})
	r.Register(&Module{UID: 1, Name: "a"})
	r.Register(&Module{UID: 2, Name: "b"})

	all := r.All()
	if len(all) != 3 {
		t.Fatalf("len(All()) = %d, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].UID >= all[i].UID {
			t.Fatalf("All() not sorted ascending by UID: %+v", all)
		}
	}
}

func TestModuleInArgsOutArgsSplit(t *testing.T) {
	m := &Module{
		UID:  1,
		Name: "fx",
		Arguments: []Argument{
			{Name: "in", Qualifier: types.In},
			{Name: "gain", Qualifier: types.None},
			{Name: "out", Qualifier: types.Out},
		},
	}

	in := m.InArgs()
	if len(in) != 2 {
		t.Fatalf("len(InArgs()) = %d, want 2", len(in))
	}
	out := m.OutArgs()
	if len(out) != 1 || out[0].Name != "out" {
		t.Fatalf("OutArgs() = %+v, want single %q argument", out, "out")
	}
}
