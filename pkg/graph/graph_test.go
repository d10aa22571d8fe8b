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

import (
	"testing"

	"github.com/wavelang/compiler/pkg/natives"
	"github.com/wavelang/compiler/pkg/types"
)

func realConst(g *Graph, v float64) Handle {
	return g.NewConstantReal(v, 1)
}

func TestAddNodeReclaimsFreedSlotWithBumpedSalt(t *testing.T) {
	g := New()
	a := realConst(g, 1)
	g.RemoveNode(a)
	b := realConst(g, 2)

	if !b.IsValid() {
		t.Fatalf("new handle is not valid")
	}
	if b == a {
		t.Fatalf("reclaimed handle should carry a bumped salt, got identical handle %s", b)
	}
	if !IsLiveIndexEqual(a, b) {
		t.Fatalf("a and b should occupy the same slot index after reclamation")
	}
}

// IsLiveIndexEqual is a small test helper exploiting Handle's String() form
// ("#index.salt") since index/salt have no exported accessors.
func IsLiveIndexEqual(a, b Handle) bool {
	return a.String()[:len(a.String())-2] == b.String()[:len(b.String())-2]
}

func TestStaleHandlePanics(t *testing.T) {
	g := New()
	a := realConst(g, 1)
	g.RemoveNode(a)

	defer func() {
		if recover() == nil {
			t.Fatalf("dereferencing a stale handle did not panic")
		}
	}()
	g.Node(a)
}

func TestAddEdgeRejectsDuplicates(t *testing.T) {
	g := New()
	a := realConst(g, 1)
	out := g.NewOutput(0, types.NewQualifiedType(types.NewDataType(types.Real), types.Variable))

	if !g.AddEdge(a, out) {
		t.Fatalf("first AddEdge should succeed")
	}
	if g.AddEdge(a, out) {
		t.Fatalf("duplicate AddEdge should be a no-op returning false")
	}
	if g.OutDegree(a) != 1 || g.InDegree(out) != 1 {
		t.Fatalf("degree mismatch after duplicate AddEdge: out=%d in=%d", g.OutDegree(a), g.InDegree(out))
	}
}

func TestRemoveNodeDetachesEdges(t *testing.T) {
	g := New()
	a := realConst(g, 1)
	out := g.NewOutput(0, types.NewQualifiedType(types.NewDataType(types.Real), types.Variable))
	g.AddEdge(a, out)

	g.RemoveNode(a)

	if g.InDegree(out) != 0 {
		t.Fatalf("InDegree(out) = %d after producer removal, want 0", g.InDegree(out))
	}
}

func TestNodesAscendingOrder(t *testing.T) {
	g := New()
	var handles []Handle
	for i := 0; i < 5; i++ {
		handles = append(handles, realConst(g, float64(i)))
	}
	got := g.Nodes()
	if len(got) != len(handles) {
		t.Fatalf("len(Nodes()) = %d, want %d", len(got), len(handles))
	}
	for i := range handles {
		if got[i] != handles[i] {
			t.Fatalf("Nodes()[%d] = %s, want %s", i, got[i], handles[i])
		}
	}
}

func buildSimpleValidGraph(t *testing.T) (*Graph, natives.Registry) {
	t.Helper()
	reg := natives.NewMapRegistry()
	addMod := &natives.Module{
		UID:  1,
		Name: "add",
		Arguments: []natives.Argument{
			{Name: "a", Qualifier: types.None, Type: types.NewQualifiedType(types.NewDataType(types.Real), types.Variable)},
			{Name: "b", Qualifier: types.None, Type: types.NewQualifiedType(types.NewDataType(types.Real), types.Variable)},
		},
		Return: types.NewQualifiedType(types.NewDataType(types.Real), types.Variable),
	}
	reg.Register(addMod)

	g := New()
	a := realConst(g, 1)
	b := realConst(g, 2)
	_, outs := g.NewNativeCall(addMod, 1, []Handle{a, b})

	out := g.NewOutput(0, types.NewQualifiedType(types.NewDataType(types.Real), types.Variable))
	g.AddEdge(outs[len(outs)-1], out)

	remain := g.NewOutput(RemainActiveIndex, types.NewQualifiedType(types.NewDataType(types.Bool), types.Variable))
	g.AddEdge(g.NewConstantBool(true, 1), remain)

	return g, reg
}

func TestValidateAcceptsWellFormedGraph(t *testing.T) {
	g, reg := buildSimpleValidGraph(t)
	if err := Validate(g, reg); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestCompactReassignsIndicesDensely(t *testing.T) {
	g, reg := buildSimpleValidGraph(t)

	stray := realConst(g, 99)
	g.RemoveNode(stray)

	before := len(g.Nodes())
	g.Compact()
	after := g.Nodes()

	if len(after) != before {
		t.Fatalf("Compact() changed live node count: before=%d after=%d", before, len(after))
	}
	if err := Validate(g, reg); err != nil {
		t.Fatalf("Validate() after Compact() = %v, want nil", err)
	}
}

func TestIndexedChildrenSortedByIndex(t *testing.T) {
	reg := natives.NewMapRegistry()
	mod := &natives.Module{
		UID:  2,
		Name: "pair",
		Arguments: []natives.Argument{
			{Name: "x", Qualifier: types.None, Type: types.NewQualifiedType(types.NewDataType(types.Real), types.Variable)},
			{Name: "y", Qualifier: types.None, Type: types.NewQualifiedType(types.NewDataType(types.Real), types.Variable)},
		},
		Return: types.NewQualifiedType(types.NewDataType(types.Void), types.Variable),
	}
	reg.Register(mod)

	g := New()
	a, b := realConst(g, 1), realConst(g, 2)
	call, _ := g.NewNativeCall(mod, 1, []Handle{a, b})

	children := g.IndexedChildren(call, true)
	if len(children) != 2 {
		t.Fatalf("len(IndexedChildren) = %d, want 2", len(children))
	}
	first := g.Node(children[0]).(*IndexedInputNode)
	second := g.Node(children[1]).(*IndexedInputNode)
	if first.Index != 0 || second.Index != 1 {
		t.Fatalf("IndexedChildren not sorted by Index: got %d, %d", first.Index, second.Index)
	}
}

func TestValidateAcceptsArrayAggregationEdges(t *testing.T) {
	reg := natives.NewMapRegistry()
	g := New()

	elemQT := types.NewQualifiedType(types.NewDataType(types.Real), types.Variable)
	a, b := realConst(g, 1), realConst(g, 2)
	arr := g.BuildArray(types.Real, []Handle{a, b}, []types.QualifiedType{elemQT, elemQT})

	arrQT, ok := g.QType(arr)
	if !ok || !arrQT.IsArray {
		t.Fatalf("BuildArray did not produce an array-typed owner node")
	}

	out := g.NewOutput(0, arrQT)
	g.AddEdge(arr, out)
	remain := g.NewOutput(RemainActiveIndex, types.NewQualifiedType(types.NewDataType(types.Bool), types.Variable))
	g.AddEdge(g.NewConstantBool(true, 1), remain)

	if err := Validate(g, reg); err != nil {
		t.Fatalf("Validate() on a graph with an array = %v, want nil", err)
	}
}

func TestSoleOutEdgePanicsOnWrongDegree(t *testing.T) {
	g := New()
	a := realConst(g, 1)

	defer func() {
		if recover() == nil {
			t.Fatalf("SoleOutEdge on a node with zero out-edges did not panic")
		}
	}()
	g.SoleOutEdge(a)
}
