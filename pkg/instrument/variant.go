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
	"fmt"

	"github.com/wavelang/compiler/pkg/graph"
	"github.com/wavelang/compiler/pkg/natives"
)

// Variant is one instrument variant (spec §3.4): its globals header and up
// to two native-module graphs. Either Voice or Fx may be nil, but not both.
type Variant struct {
	Globals Globals
	Voice   *graph.Graph
	Fx      *graph.Graph
}

// Validate checks that v has at least one graph, that each present graph is
// internally valid, and that -- when both are present -- the voice graph's
// non-remain_active output count equals the fx graph's input count (spec
// §3.4: "An instrument is valid when every variant is valid... and, when
// both graphs are present, the voice graph's non-remain_active output
// count equals the fx graph's input count").
func (v *Variant) Validate(reg natives.Registry) error {
	if v.Voice == nil && v.Fx == nil {
		return fmt.Errorf("wavelang/instrument: variant has neither a voice nor an fx graph")
	}
	if v.Voice != nil {
		if err := graph.Validate(v.Voice, reg); err != nil {
			return fmt.Errorf("wavelang/instrument: voice graph: %w", err)
		}
	}
	if v.Fx != nil {
		if err := graph.Validate(v.Fx, reg); err != nil {
			return fmt.Errorf("wavelang/instrument: fx graph: %w", err)
		}
	}
	if v.Voice != nil && v.Fx != nil {
		voiceOut := countOutputs(v.Voice)
		fxIn := countInputs(v.Fx)
		if voiceOut != fxIn {
			return fmt.Errorf("wavelang/instrument: voice graph has %d outputs but fx graph declares %d inputs", voiceOut, fxIn)
		}
	}
	return nil
}

// countOutputs counts g's ordinary (non-remain_active) output nodes.
func countOutputs(g *graph.Graph) int {
	n := 0
	for _, h := range g.Nodes() {
		if out, ok := g.Node(h).(*graph.OutputNode); ok && out.Index != graph.RemainActiveIndex {
			n++
		}
	}
	return n
}

// countInputs counts g's input nodes.
func countInputs(g *graph.Graph) int {
	n := 0
	for _, h := range g.Nodes() {
		if _, ok := g.Node(h).(*graph.InputNode); ok {
			n++
		}
	}
	return n
}
