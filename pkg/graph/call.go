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
	"github.com/wavelang/compiler/pkg/natives"
	"github.com/wavelang/compiler/pkg/types"
)

// NewNativeCall allocates a NativeCallNode bound to mod at the given
// upsample factor, wiring one IndexedInputNode per in-argument (sourced
// from inArgs, in declaration order) and one IndexedOutputNode per
// out-argument (spec §3.3: "argument order is preserved"). When mod has a
// non-void return type, a trailing indexed-output slot (index
// len(OutArgs())) carries the call's return value, mirroring how the graph
// builder binds a non-native module call's captured return-node handle
// (spec §4.2). It returns the call's handle and its ordered output handles
// (explicit out-arguments first, return slot last if present).
func (g *Graph) NewNativeCall(mod *natives.Module, upsample uint32, inArgs []Handle) (Handle, []Handle) {
	call := g.AddNode(&NativeCallNode{Module: mod.UID, UpsampleFactor: upsample})

	inSig := mod.InArgs()
	for i, arg := range inArgs {
		qt := inSig[i].Type
		qt.UpsampleFactor = upsample
		idxIn := g.AddNode(&IndexedInputNode{QType: qt, Index: uint32(i)})
		g.AddEdge(arg, idxIn)
		g.AddEdge(idxIn, call)
	}

	outSig := mod.OutArgs()
	n := len(outSig)
	hasReturn := mod.Return.Kind != types.Void
	if hasReturn {
		n++
	}
	outs := make([]Handle, n)
	for i, out := range outSig {
		qt := out.Type
		qt.UpsampleFactor = upsample
		idxOut := g.AddNode(&IndexedOutputNode{QType: qt, Index: uint32(i)})
		g.AddEdge(call, idxOut)
		outs[i] = idxOut
	}
	if hasReturn {
		qt := mod.Return
		qt.UpsampleFactor = upsample
		idxOut := g.AddNode(&IndexedOutputNode{QType: qt, Index: uint32(len(outSig))})
		g.AddEdge(call, idxOut)
		outs[len(outSig)] = idxOut
	}
	return call, outs
}

// NewInput allocates a graph Input node at the given index (fx-graphs
// only, spec §3.3).
func (g *Graph) NewInput(index uint32, qt types.QualifiedType) Handle {
	return g.AddNode(&InputNode{QType: qt, Index: index})
}

// NewOutput allocates a graph Output node at the given index (use
// RemainActiveIndex for the distinguished remain-active output).
func (g *Graph) NewOutput(index uint32, qt types.QualifiedType) Handle {
	return g.AddNode(&OutputNode{QType: qt, Index: index})
}

// NewTemporaryReference allocates a root node that keeps the given
// producer handles reachable-from-root during construction, before they
// are wired to their final consumer (spec §3.3). Callers must RemoveNode
// it once the subgraph is otherwise anchored.
func (g *Graph) NewTemporaryReference(roots ...Handle) Handle {
	ref := g.AddNode(&TemporaryReferenceNode{})
	for _, r := range roots {
		g.AddEdge(r, ref)
	}
	return ref
}
