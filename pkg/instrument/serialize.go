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
	"encoding/binary"
	"fmt"
	"io"

	"github.com/wavelang/compiler/pkg/graph"
	"github.com/wavelang/compiler/pkg/natives"
	"github.com/wavelang/compiler/pkg/types"
)

// magic is the 8-byte format identifier written at the start of every
// serialized instrument (spec §6: "Header = 8-byte magic \"wavelang\" +
// uint32 version").
const magic = "wavelang"

// Version is the current serialized instrument format version.
const Version uint32 = 1

var byteOrder = binary.LittleEndian

// Save writes inst to w in the little-endian layout of spec §6. Each
// present graph is compacted in place first (spec §3.3: "a separate
// compaction pass may reassign indices for serialization"), so callers that
// still hold handles into a Variant's graphs should not rely on them after
// a Save call.
func Save(w io.Writer, inst *Instrument) error {
	if _, err := io.WriteString(w, magic); err != nil {
		return err
	}
	if err := write(w, Version); err != nil {
		return err
	}
	if err := write(w, uint32(len(inst.Variants))); err != nil {
		return err
	}
	for i := range inst.Variants {
		if err := writeVariant(w, &inst.Variants[i]); err != nil {
			return fmt.Errorf("wavelang/instrument: variant %d: %w", i, err)
		}
	}
	return nil
}

func writeVariant(w io.Writer, v *Variant) error {
	if err := write(w, v.Globals.MaxVoices); err != nil {
		return err
	}
	if err := write(w, v.Globals.SampleRate); err != nil {
		return err
	}
	if err := write(w, v.Globals.ChunkSize); err != nil {
		return err
	}
	if err := write(w, v.Globals.Flags); err != nil {
		return err
	}

	if err := writeBool(w, v.Voice != nil); err != nil {
		return err
	}
	if v.Voice != nil {
		if err := writeGraph(w, v.Voice); err != nil {
			return fmt.Errorf("voice graph: %w", err)
		}
	}
	if err := writeBool(w, v.Fx != nil); err != nil {
		return err
	}
	if v.Fx != nil {
		if err := writeGraph(w, v.Fx); err != nil {
			return fmt.Errorf("fx graph: %w", err)
		}
	}
	return nil
}

func writeGraph(w io.Writer, g *graph.Graph) error {
	g.Compact()
	nodes := g.Nodes()

	index := make(map[graph.Handle]uint32, len(nodes))
	for i, h := range nodes {
		index[h] = uint32(i)
	}

	if err := write(w, g.OutputLatency()); err != nil {
		return err
	}
	if err := write(w, uint32(len(nodes))); err != nil {
		return err
	}

	edgeCount := uint32(0)
	for _, h := range nodes {
		if err := writeNode(w, g, h); err != nil {
			return err
		}
		edgeCount += uint32(len(g.OutEdges(h)))
	}

	if err := write(w, edgeCount); err != nil {
		return err
	}
	for _, from := range nodes {
		outs := g.OutEdges(from)
		for fromSlot, to := range outs {
			toSlot := slotOf(g.InEdges(to), from)
			if err := write(w, index[from]); err != nil {
				return err
			}
			if err := write(w, index[to]); err != nil {
				return err
			}
			if err := write(w, uint32(fromSlot)); err != nil {
				return err
			}
			if err := write(w, uint32(toSlot)); err != nil {
				return err
			}
		}
	}

	strBytes := g.Strings().Bytes()
	if err := write(w, uint32(len(strBytes))); err != nil {
		return err
	}
	_, err := w.Write(strBytes)
	return err
}

func writeNode(w io.Writer, g *graph.Graph, h graph.Handle) error {
	t := g.NodeType(h)
	if err := write(w, uint32(t)); err != nil {
		return err
	}
	switch n := g.Node(h).(type) {
	case *graph.ConstantNode:
		if err := write(w, uint8(n.QType.Kind)); err != nil {
			return err
		}
		switch n.QType.Kind {
		case types.Real:
			return write(w, n.Real)
		case types.Bool:
			return writeBool(w, n.Bool)
		case types.String:
			return write(w, n.StringOffset)
		default:
			return fmt.Errorf("wavelang/instrument: constant node has non-data-bearing kind %s", n.QType.Kind)
		}
	case *graph.NativeCallNode:
		if err := write(w, uint32(n.Module)); err != nil {
			return err
		}
		return write(w, n.UpsampleFactor)
	case *graph.InputNode:
		return write(w, n.Index)
	case *graph.OutputNode:
		return write(w, n.Index)
	default:
		// Array, IndexedInput, IndexedOutput and TemporaryReference carry no
		// body; their shape is fully implied by their edges (spec §6).
		return nil
	}
}

// slotOf returns the position of needle within haystack, or 0 if absent
// (should not occur for a well-formed graph: every outgoing edge has a
// matching incoming edge at the other endpoint).
func slotOf(haystack []graph.Handle, needle graph.Handle) int {
	for i, h := range haystack {
		if h == needle {
			return i
		}
	}
	return 0
}

func write(w io.Writer, v any) error {
	return binary.Write(w, byteOrder, v)
}

func writeBool(w io.Writer, b bool) error {
	var v uint8
	if b {
		v = 1
	}
	return write(w, v)
}

// Load reads an Instrument from r in the format written by Save. Native
// module UIDs are resolved against reg; an unknown UID fails the load
// (spec §4.5: "during load, native-module UIDs are resolved to handles via
// the registry and unknown UIDs fail the load"). Validation runs after
// load, per spec §4.5 ("Validation runs after load"); callers should call
// the returned Instrument's Validate before trusting it.
func Load(r io.Reader, reg natives.Registry) (*Instrument, error) {
	var gotMagic [8]byte
	if _, err := io.ReadFull(r, gotMagic[:]); err != nil {
		return nil, fmt.Errorf("wavelang/instrument: reading magic: %w", err)
	}
	if string(gotMagic[:]) != magic {
		return nil, fmt.Errorf("wavelang/instrument: not a wavelang instrument file")
	}

	var version uint32
	if err := read(r, &version); err != nil {
		return nil, err
	}
	if version != Version {
		return nil, fmt.Errorf("wavelang/instrument: unsupported format version %d", version)
	}

	var variantCount uint32
	if err := read(r, &variantCount); err != nil {
		return nil, err
	}

	inst := &Instrument{Variants: make([]Variant, variantCount)}
	for i := range inst.Variants {
		v, err := readVariant(r, reg)
		if err != nil {
			return nil, fmt.Errorf("wavelang/instrument: variant %d: %w", i, err)
		}
		inst.Variants[i] = v
	}
	return inst, nil
}

func readVariant(r io.Reader, reg natives.Registry) (Variant, error) {
	var v Variant
	if err := read(r, &v.Globals.MaxVoices); err != nil {
		return v, err
	}
	if err := read(r, &v.Globals.SampleRate); err != nil {
		return v, err
	}
	if err := read(r, &v.Globals.ChunkSize); err != nil {
		return v, err
	}
	if err := read(r, &v.Globals.Flags); err != nil {
		return v, err
	}

	hasVoice, err := readBool(r)
	if err != nil {
		return v, err
	}
	if hasVoice {
		g, err := readGraph(r, reg)
		if err != nil {
			return v, fmt.Errorf("voice graph: %w", err)
		}
		v.Voice = g
	}

	hasFx, err := readBool(r)
	if err != nil {
		return v, err
	}
	if hasFx {
		g, err := readGraph(r, reg)
		if err != nil {
			return v, fmt.Errorf("fx graph: %w", err)
		}
		v.Fx = g
	}
	return v, nil
}

func readGraph(r io.Reader, reg natives.Registry) (*graph.Graph, error) {
	g := graph.New()

	var latency int32
	if err := read(r, &latency); err != nil {
		return nil, err
	}
	g.SetOutputLatency(latency)

	var nodeCount uint32
	if err := read(r, &nodeCount); err != nil {
		return nil, err
	}

	handles := make([]graph.Handle, nodeCount)
	for i := range handles {
		n, err := readNode(r, reg)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		handles[i] = g.AddNode(n)
	}

	var edgeCount uint32
	if err := read(r, &edgeCount); err != nil {
		return nil, err
	}
	for i := uint32(0); i < edgeCount; i++ {
		var fromIdx, toIdx, fromSlot, toSlot uint32
		if err := read(r, &fromIdx); err != nil {
			return nil, err
		}
		if err := read(r, &toIdx); err != nil {
			return nil, err
		}
		if err := read(r, &fromSlot); err != nil {
			return nil, err
		}
		if err := read(r, &toSlot); err != nil {
			return nil, err
		}
		if int(fromIdx) >= len(handles) || int(toIdx) >= len(handles) {
			return nil, fmt.Errorf("edge %d references out-of-range node index", i)
		}
		g.AddEdge(handles[fromIdx], handles[toIdx])
	}

	var strSize uint32
	if err := read(r, &strSize); err != nil {
		return nil, err
	}
	strBytes := make([]byte, strSize)
	if _, err := io.ReadFull(r, strBytes); err != nil {
		return nil, err
	}
	if err := g.Strings().LoadBytes(strBytes); err != nil {
		return nil, err
	}

	recomputeIndexedTypes(g, reg)
	recomputeArrayTypes(g)

	return g, nil
}

// recomputeIndexedTypes fills in the QType of every IndexedOutput and
// IndexedInput node, none of which carry a serialized body (spec §6: only
// constant/native-call/input/output nodes have one). An indexed-output's
// type is exactly its owning native-call's declared out-argument (or,
// for the trailing return slot, the module's Return type) at the call's
// upsample factor -- a registry fact, not something that needs storing.
// An indexed-input's type is exactly its producer's type: for a
// native-call in-argument this coincides with the declared argument type
// in a validly-constructed graph; for an array element it is the only
// type information available post-serialization, since the original
// per-element declared type (before the array's downgrade rule collapsed
// it) is not retained by the wire format either (see DESIGN.md).
//
// Outputs are computed first since array-element producers may themselves
// be indexed-output nodes.
func recomputeIndexedTypes(g *graph.Graph, reg natives.Registry) {
	for _, h := range g.Nodes() {
		out, ok := g.Node(h).(*graph.IndexedOutputNode)
		if !ok {
			continue
		}
		producers := g.InEdges(h)
		if len(producers) != 1 {
			continue
		}
		call, ok := g.Node(producers[0]).(*graph.NativeCallNode)
		if !ok {
			continue
		}
		mod, ok := reg.Lookup(call.Module)
		if !ok {
			continue
		}
		outArgs := mod.OutArgs()
		var qt types.QualifiedType
		if int(out.Index) < len(outArgs) {
			qt = outArgs[out.Index].Type
		} else {
			qt = mod.Return
		}
		qt.UpsampleFactor = call.UpsampleFactor
		out.QType = qt
	}

	for _, h := range g.Nodes() {
		in, ok := g.Node(h).(*graph.IndexedInputNode)
		if !ok {
			continue
		}
		owner := g.SoleOutEdge(h)
		if call, ok := g.Node(owner).(*graph.NativeCallNode); ok {
			mod, ok := reg.Lookup(call.Module)
			if !ok {
				continue
			}
			inArgs := mod.InArgs()
			if int(in.Index) < len(inArgs) {
				qt := inArgs[in.Index].Type
				qt.UpsampleFactor = call.UpsampleFactor
				in.QType = qt
			}
			continue
		}
		// Array element: copy the producer's type verbatim.
		producers := g.InEdges(h)
		if len(producers) != 1 {
			continue
		}
		if qt, ok := g.QType(producers[0]); ok {
			in.QType = qt
		}
	}
}

// recomputeArrayTypes fills in each Array node's QType and ElementCount
// from its now-typed IndexedInput children, re-deriving the same downgrade
// rule graph.BuildArray applies at construction time (spec §3.3): a fresh
// array starts constant, and is demoted to the weakest element mutability
// (with that element's upsample factor pinned) as soon as a non-constant
// element is present.
func recomputeArrayTypes(g *graph.Graph) {
	for _, h := range g.Nodes() {
		arr, ok := g.Node(h).(*graph.ArrayNode)
		if !ok {
			continue
		}
		children := g.IndexedChildren(h, true)
		arr.ElementCount = uint32(len(children))

		mut := types.Constant
		upsample := uint32(1)
		var elemKind types.PrimitiveKind
		for i, c := range children {
			qt, _ := g.QType(c)
			if i == 0 {
				elemKind = qt.Kind
			}
			if rankOfMutability(qt.Mutability) < rankOfMutability(mut) {
				mut = qt.Mutability
				upsample = qt.UpsampleFactor
			} else if mut == types.Constant {
				upsample = qt.UpsampleFactor
			}
		}
		if upsample == 0 {
			upsample = 1
		}
		arr.QType = types.NewQualifiedType(types.NewArrayDataType(elemKind).WithUpsample(upsample), mut)
	}
}

func rankOfMutability(m types.Mutability) int {
	switch m {
	case types.Constant:
		return 2
	case types.DependentConstant:
		return 1
	default:
		return 0
	}
}

func readNode(r io.Reader, reg natives.Registry) (graph.Node, error) {
	var tag uint32
	if err := read(r, &tag); err != nil {
		return nil, err
	}

	switch graph.NodeType(tag) {
	case graph.Constant:
		var kind uint8
		if err := read(r, &kind); err != nil {
			return nil, err
		}
		qt := types.NewQualifiedType(types.NewDataType(types.PrimitiveKind(kind)), types.Constant)
		n := &graph.ConstantNode{QType: qt}
		switch types.PrimitiveKind(kind) {
		case types.Real:
			if err := read(r, &n.Real); err != nil {
				return nil, err
			}
		case types.Bool:
			b, err := readBool(r)
			if err != nil {
				return nil, err
			}
			n.Bool = b
		case types.String:
			if err := read(r, &n.StringOffset); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("constant node has non-data-bearing kind %d", kind)
		}
		return n, nil

	case graph.Array:
		return &graph.ArrayNode{}, nil

	case graph.NativeCall:
		var uid uint32
		if err := read(r, &uid); err != nil {
			return nil, err
		}
		var upsample uint32
		if err := read(r, &upsample); err != nil {
			return nil, err
		}
		if _, ok := reg.Lookup(natives.UID(uid)); !ok {
			return nil, fmt.Errorf("unknown native module UID %d", uid)
		}
		return &graph.NativeCallNode{Module: natives.UID(uid), UpsampleFactor: upsample}, nil

	case graph.IndexedInput:
		return &graph.IndexedInputNode{}, nil

	case graph.IndexedOutput:
		return &graph.IndexedOutputNode{}, nil

	case graph.Input:
		var idx uint32
		if err := read(r, &idx); err != nil {
			return nil, err
		}
		// The wire format stores only the index; graph inputs are always
		// variable reals, as the builder creates them.
		return &graph.InputNode{QType: types.NewQualifiedType(types.NewDataType(types.Real), types.Variable), Index: idx}, nil

	case graph.Output:
		var idx uint32
		if err := read(r, &idx); err != nil {
			return nil, err
		}
		// As for inputs, only the index is stored: an ordinary output is a
		// variable real and the remain-active output a variable bool.
		qt := types.NewQualifiedType(types.NewDataType(types.Real), types.Variable)
		if idx == graph.RemainActiveIndex {
			qt = types.NewQualifiedType(types.NewDataType(types.Bool), types.Variable)
		}
		return &graph.OutputNode{QType: qt, Index: idx}, nil

	case graph.TemporaryReference:
		return &graph.TemporaryReferenceNode{}, nil

	default:
		return nil, fmt.Errorf("unknown node type tag %d", tag)
	}
}

func read(r io.Reader, v any) error {
	return binary.Read(r, byteOrder, v)
}

func readBool(r io.Reader) (bool, error) {
	var v uint8
	if err := read(r, &v); err != nil {
		return false, err
	}
	return v != 0, nil
}
