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
	"testing"

	"github.com/wavelang/compiler/pkg/graph"
	"github.com/wavelang/compiler/pkg/natives"
	"github.com/wavelang/compiler/pkg/types"
)

func addModule() *natives.Module {
	return &natives.Module{
		UID:  1,
		Name: "add",
		Arguments: []natives.Argument{
			{Name: "a", Qualifier: types.None, Type: types.NewQualifiedType(types.NewDataType(types.Real), types.Variable)},
			{Name: "b", Qualifier: types.None, Type: types.NewQualifiedType(types.NewDataType(types.Real), types.Variable)},
		},
		Return:            types.NewQualifiedType(types.NewDataType(types.Real), types.Variable),
		AlwaysCompileTime: true,
		CompileTime: func(args natives.CompileTimeArgs) ([]natives.ConstantValue, error) {
			return []natives.ConstantValue{{Kind: types.Real, Real: args.Args[0].Real + args.Args[1].Real}}, nil
		},
	}
}

func TestRunFoldsConstantNativeCall(t *testing.T) {
	mod := addModule()
	reg := natives.NewMapRegistry()
	reg.Register(mod)

	g := graph.New()
	a := g.NewConstantReal(2, 1)
	b := g.NewConstantReal(3, 1)
	_, outs := g.NewNativeCall(mod, 1, []graph.Handle{a, b})
	out := g.NewOutput(0, types.NewQualifiedType(types.NewDataType(types.Real), types.Variable))
	g.AddEdge(outs[len(outs)-1], out)
	remain := g.NewOutput(graph.RemainActiveIndex, types.NewQualifiedType(types.NewDataType(types.Bool), types.Variable))
	g.AddEdge(g.NewConstantBool(true, 1), remain)

	changed := Run(g, reg, nil, DefaultConfig())
	if !changed {
		t.Fatalf("Run() reported no change, want the native-call folded")
	}

	producers := g.InEdges(out)
	if len(producers) != 1 {
		t.Fatalf("output has %d producers, want 1", len(producers))
	}
	c, ok := g.Node(producers[0]).(*graph.ConstantNode)
	if !ok {
		t.Fatalf("output's producer is %T, want *graph.ConstantNode", g.Node(producers[0]))
	}
	if c.Real != 5 {
		t.Errorf("folded constant = %v, want 5", c.Real)
	}
}

func TestRunRemovesDeadNodes(t *testing.T) {
	g := graph.New()
	stray := g.NewConstantReal(99, 1)
	out := g.NewOutput(0, types.NewQualifiedType(types.NewDataType(types.Real), types.Variable))
	g.AddEdge(g.NewConstantReal(1, 1), out)
	remain := g.NewOutput(graph.RemainActiveIndex, types.NewQualifiedType(types.NewDataType(types.Bool), types.Variable))
	g.AddEdge(g.NewConstantBool(true, 1), remain)

	changed := Run(g, natives.NewMapRegistry(), nil, DefaultConfig())
	if !changed {
		t.Fatalf("Run() reported no change, want the stray constant removed")
	}
	if g.IsLive(stray) {
		t.Errorf("stray unreachable constant survived Run()")
	}
}

func TestRunWithNilRulesDoesNotPanic(t *testing.T) {
	g := graph.New()
	out := g.NewOutput(0, types.NewQualifiedType(types.NewDataType(types.Real), types.Variable))
	g.AddEdge(g.NewConstantReal(1, 1), out)
	remain := g.NewOutput(graph.RemainActiveIndex, types.NewQualifiedType(types.NewDataType(types.Bool), types.Variable))
	g.AddEdge(g.NewConstantBool(true, 1), remain)

	Run(g, natives.NewMapRegistry(), nil, DefaultConfig())
}
