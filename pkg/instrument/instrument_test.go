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

package instrument

import (
	"bytes"
	"testing"

	"github.com/wavelang/compiler/pkg/graph"
	"github.com/wavelang/compiler/pkg/natives"
	"github.com/wavelang/compiler/pkg/types"
)

func simpleVoiceGraph() *graph.Graph {
	g := graph.New()
	out := g.NewOutput(0, types.NewQualifiedType(types.NewDataType(types.Real), types.Variable))
	g.AddEdge(g.NewConstantReal(1, 1), out)
	remain := g.NewOutput(graph.RemainActiveIndex, types.NewQualifiedType(types.NewDataType(types.Bool), types.Variable))
	g.AddEdge(g.NewConstantBool(true, 1), remain)
	return g
}

func TestVariantValidateRejectsEmptyVariant(t *testing.T) {
	v := &Variant{}
	if err := v.Validate(natives.NewMapRegistry()); err == nil {
		t.Fatalf("Validate() on a variant with neither graph = nil, want an error")
	}
}

func TestVariantValidateAcceptsVoiceOnly(t *testing.T) {
	v := &Variant{Voice: simpleVoiceGraph()}
	if err := v.Validate(natives.NewMapRegistry()); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestGlobalsActivateFxImmediatelyFlag(t *testing.T) {
	var g Globals
	if g.ActivateFxImmediately() {
		t.Fatalf("zero-value Globals reports activate-fx-immediately")
	}
	g.SetActivateFxImmediately(true)
	if !g.ActivateFxImmediately() {
		t.Fatalf("SetActivateFxImmediately(true) did not set the flag")
	}
	g.SetActivateFxImmediately(false)
	if g.ActivateFxImmediately() {
		t.Fatalf("SetActivateFxImmediately(false) did not clear the flag")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	inst := &Instrument{Variants: []Variant{
		{Globals: Globals{MaxVoices: 4, SampleRate: 48000, ChunkSize: 256}, Voice: simpleVoiceGraph()},
	}}

	var buf bytes.Buffer
	if err := Save(&buf, inst); err != nil {
		t.Fatalf("Save() = %v, want nil", err)
	}

	reg := natives.NewMapRegistry()
	got, err := Load(&buf, reg)
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if len(got.Variants) != 1 {
		t.Fatalf("len(Variants) = %d, want 1", len(got.Variants))
	}
	gv := got.Variants[0]
	if gv.Globals.MaxVoices != 4 || gv.Globals.SampleRate != 48000 || gv.Globals.ChunkSize != 256 {
		t.Errorf("round-tripped Globals = %+v, want {4 48000 256 0}", gv.Globals)
	}
	if gv.Voice == nil {
		t.Fatalf("round-tripped variant has no voice graph")
	}
	if err := got.Validate(reg); err != nil {
		t.Errorf("round-tripped instrument fails Validate(): %v", err)
	}
}
