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

package constant

import (
	"testing"

	"github.com/wavelang/compiler/pkg/graph"
	"github.com/wavelang/compiler/pkg/natives"
	"github.com/wavelang/compiler/pkg/types"
)

func TestEvaluateConstantReal(t *testing.T) {
	g := graph.New()
	h := g.NewConstantReal(3.5, 1)

	e := New(g, natives.NewMapRegistry())
	v, ok := e.Evaluate(h)
	if !ok {
		t.Fatalf("Evaluate() ok = false, want true")
	}
	if v.Real != 3.5 {
		t.Errorf("Evaluate().Real = %v, want 3.5", v.Real)
	}
}

func TestEvaluateArrayOfConstants(t *testing.T) {
	g := graph.New()
	elemType := types.NewQualifiedType(types.NewDataType(types.Real), types.Constant)
	a := g.NewConstantReal(1, 1)
	b := g.NewConstantReal(2, 1)
	arr := g.BuildArray(types.Real, []graph.Handle{a, b}, []types.QualifiedType{elemType, elemType})

	e := New(g, natives.NewMapRegistry())
	v, ok := e.Evaluate(arr)
	if !ok {
		t.Fatalf("Evaluate(array) ok = false, want true")
	}
	if !v.IsArray || len(v.Elements) != 2 {
		t.Fatalf("Evaluate(array) = %+v, want 2-element array", v)
	}
	if v.Elements[0].Real != 1 || v.Elements[1].Real != 2 {
		t.Errorf("Evaluate(array) elements = %+v, want [1, 2]", v.Elements)
	}
}

func TestEvaluateNativeCallRequiresCompileTimeFunc(t *testing.T) {
	g := graph.New()
	mod := &natives.Module{
		UID:  1,
		Name: "double",
		Arguments: []natives.Argument{
			{Name: "x", Qualifier: types.None, Type: types.NewQualifiedType(types.NewDataType(types.Real), types.Constant)},
		},
		Return:            types.NewQualifiedType(types.NewDataType(types.Real), types.Constant),
		AlwaysCompileTime: true,
		CompileTime: func(args natives.CompileTimeArgs) ([]natives.ConstantValue, error) {
			return []natives.ConstantValue{{Kind: types.Real, Real: args.Args[0].Real * 2}}, nil
		},
	}
	reg := natives.NewMapRegistry()
	reg.Register(mod)

	x := g.NewConstantReal(21, 1)
	call, _ := g.NewNativeCall(mod, 1, []graph.Handle{x})

	e := New(g, reg)
	v, ok := e.Evaluate(call)
	if !ok {
		t.Fatalf("Evaluate(call) ok = false, want true")
	}
	if v.Real != 42 {
		t.Errorf("Evaluate(call).Real = %v, want 42", v.Real)
	}
}

func TestEvaluateNativeCallWithoutCompileTimeIsNotConstant(t *testing.T) {
	g := graph.New()
	mod := &natives.Module{UID: 2, Name: "noise", Return: types.NewQualifiedType(types.NewDataType(types.Real), types.Variable)}
	reg := natives.NewMapRegistry()
	reg.Register(mod)

	call, _ := g.NewNativeCall(mod, 1, nil)

	e := New(g, reg)
	if _, ok := e.Evaluate(call); ok {
		t.Fatalf("Evaluate(call) ok = true for a module with no CompileTime func")
	}
}

func TestEvaluateInt64RejectsNonIntegral(t *testing.T) {
	g := graph.New()
	h := g.NewConstantReal(2.5, 1)
	e := New(g, natives.NewMapRegistry())
	if _, ok := e.EvaluateInt64(h); ok {
		t.Fatalf("EvaluateInt64(2.5) ok = true, want false")
	}
}

func TestEvaluateInt64RejectsNegative(t *testing.T) {
	g := graph.New()
	h := g.NewConstantReal(-1, 1)
	e := New(g, natives.NewMapRegistry())
	if _, ok := e.EvaluateInt64(h); ok {
		t.Fatalf("EvaluateInt64(-1) ok = true, want false")
	}
}

func TestEvaluateInt64AcceptsIntegralReal(t *testing.T) {
	g := graph.New()
	h := g.NewConstantReal(4, 1)
	e := New(g, natives.NewMapRegistry())
	v, ok := e.EvaluateInt64(h)
	if !ok || v != 4 {
		t.Fatalf("EvaluateInt64(4) = %d, %v, want 4, true", v, ok)
	}
}
