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

package diag

import (
	"strings"
	"testing"
)

func TestBagAccumulatesInOrder(t *testing.T) {
	var b Bag
	if b.HasErrors() {
		t.Fatalf("empty bag reports errors")
	}

	b.Addf(Span{File: "a.wls", Start: 1, End: 2}, UndeclaredIdentifier, "undeclared %q", "x")
	b.Addf(Span{File: "a.wls", Start: 5, End: 6}, TypeMismatch, "bad type")

	if !b.HasErrors() {
		t.Fatalf("bag with diagnostics reports no errors")
	}
	all := b.All()
	if len(all) != 2 {
		t.Fatalf("len(All()) = %d, want 2", len(all))
	}
	if all[0].Code != UndeclaredIdentifier || all[1].Code != TypeMismatch {
		t.Fatalf("diagnostics not preserved in traversal order: %+v", all)
	}
}

func TestBagExtend(t *testing.T) {
	var a, b Bag
	a.Addf(Span{}, MissingImport, "m1")
	b.Addf(Span{}, CyclicModuleCall, "c1")

	a.Extend(&b)
	if len(a.All()) != 2 {
		t.Fatalf("len(a.All()) = %d, want 2", len(a.All()))
	}

	var c Bag
	c.Extend(nil) // must not panic
	if c.HasErrors() {
		t.Fatalf("extending with nil should not add diagnostics")
	}
}

func TestDiagnosticErrorFormatting(t *testing.T) {
	withSpan := New(Span{File: "f.wls", Start: 3, End: 9}, TypeMismatch, "expected %s", "real")
	if !strings.Contains(withSpan.Error(), "f.wls:3-9") {
		t.Errorf("Error() = %q, want it to contain the span", withSpan.Error())
	}

	noSpan := New(Span{}, TypeMismatch, "expected real")
	if strings.Contains(noSpan.Error(), ":0-0:") {
		t.Errorf("Error() = %q, want no span prefix for empty Span.File", noSpan.Error())
	}
}

func TestCodeStringUnknownFallback(t *testing.T) {
	var c Code = 9999
	if got := c.String(); !strings.HasPrefix(got, "Code(") {
		t.Errorf("String() for unregistered code = %q, want Code(...) fallback", got)
	}
}
