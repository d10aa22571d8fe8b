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

package ast

import (
	"testing"

	"github.com/wavelang/compiler/pkg/diag"
)

func TestIsEntryPointCandidate(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{VoiceEntryPointName, true},
		{FxEntryPointName, true},
		{"helper", false},
	}
	for _, tt := range tests {
		m := &ModuleDecl{Name: tt.name}
		if got := m.IsEntryPointCandidate(); got != tt.want {
			t.Errorf("ModuleDecl{Name: %q}.IsEntryPointCandidate() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBaseAccessors(t *testing.T) {
	span := diag.Span{File: "f.wls", Start: 3, End: 9}
	b := NewBase(7, span)
	if b.ID() != 7 {
		t.Errorf("ID() = %d, want 7", b.ID())
	}
	if b.Span() != span {
		t.Errorf("Span() = %+v, want %+v", b.Span(), span)
	}
}
