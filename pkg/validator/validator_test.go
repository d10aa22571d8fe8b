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

package validator

import (
	"testing"

	"github.com/wavelang/compiler/pkg/ast"
	"github.com/wavelang/compiler/pkg/diag"
	"github.com/wavelang/compiler/pkg/natives"
	"github.com/wavelang/compiler/pkg/types"
)

func testContext() *Context {
	return &Context{Natives: natives.NewMapRegistry(), Visibility: AlwaysVisible()}
}

func voiceMainDecl(outArgs int) *ast.ModuleDecl {
	m := &ast.ModuleDecl{
		Name:   ast.VoiceEntryPointName,
		Return: types.NewDataType(types.Bool),
		Body:   ast.NewScope(1, diag.Span{}),
	}
	for i := 0; i < outArgs; i++ {
		m.Arguments = append(m.Arguments, &ast.NamedValueDecl{
			Name:      "o",
			Qualifier: types.Out,
			Type:      types.NewDataType(types.Real),
		})
	}
	return m
}

func TestValidateReportsMissingEntryPoint(t *testing.T) {
	files := []*ast.File{{Path: "a.wls"}}
	res, bag := Validate(files, testContext())

	if res.FoundVoice() || res.FoundFx() {
		t.Fatalf("empty file reported an entry point")
	}
	if !bag.HasErrors() {
		t.Fatalf("expected a MissingEntryPoint diagnostic")
	}
}

// wellFormedVoiceMain builds a voice_main with one out argument, a body
// that assigns it and returns a bool constant, and distinct node IDs so the
// body validator's per-argument identity tracking does not alias them.
func wellFormedVoiceMain() *ast.ModuleDecl {
	out := &ast.NamedValueDecl{
		Base:      ast.NewBase(1, diag.Span{}),
		Name:      "o",
		Qualifier: types.Out,
		Type:      types.NewDataType(types.Real),
	}
	assign := &ast.Assignment{
		Base:       ast.NewBase(2, diag.Span{}),
		TargetName: "o",
		Expr: &ast.Expression{
			Base:  ast.NewBase(3, diag.Span{}),
			Value: &ast.Constant{Base: ast.NewBase(4, diag.Span{}), Kind: ast.ConstReal, Real: 0},
		},
	}
	ret := &ast.Return{
		Base: ast.NewBase(5, diag.Span{}),
		Expr: &ast.Expression{
			Base:  ast.NewBase(6, diag.Span{}),
			Value: &ast.Constant{Base: ast.NewBase(7, diag.Span{}), Kind: ast.ConstBool, Bool: true},
		},
	}
	body := ast.NewScope(8, diag.Span{})
	body.Children = []ast.Statement{assign, ret}

	return &ast.ModuleDecl{
		Base:      ast.NewBase(9, diag.Span{}),
		Name:      ast.VoiceEntryPointName,
		Return:    types.NewDataType(types.Bool),
		Arguments: []*ast.NamedValueDecl{out},
		Body:      body,
	}
}

func TestValidateAcceptsWellFormedVoiceMain(t *testing.T) {
	m := wellFormedVoiceMain()
	files := []*ast.File{{Path: "a.wls", Modules: []*ast.ModuleDecl{m}}}

	res, bag := Validate(files, testContext())

	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", bag.All())
	}
	if !res.FoundVoice() {
		t.Fatalf("FoundVoice() = false, want true")
	}
	if res.FoundFx() {
		t.Fatalf("FoundFx() = true, want false")
	}
}

func TestValidateRejectsOverloadedEntryPoint(t *testing.T) {
	a := voiceMainDecl(1)
	b := voiceMainDecl(2)
	files := []*ast.File{{Path: "a.wls", Modules: []*ast.ModuleDecl{a, b}}}

	_, bag := Validate(files, testContext())
	if !bag.HasErrors() {
		t.Fatalf("expected an EntryPointOverloaded diagnostic")
	}
}

func TestValidateRejectsNonOutVoiceMainArgument(t *testing.T) {
	m := voiceMainDecl(0)
	m.Arguments = append(m.Arguments, &ast.NamedValueDecl{
		Name:      "in",
		Qualifier: types.In,
		Type:      types.NewDataType(types.Real),
	})
	files := []*ast.File{{Path: "a.wls", Modules: []*ast.ModuleDecl{m}}}

	_, bag := Validate(files, testContext())
	if !bag.HasErrors() {
		t.Fatalf("expected an EntryPointBadQualifier diagnostic for a non-out voice_main argument")
	}
}

// voiceMainCallingOutPassthrough builds a voice_main that forwards its sole
// out argument straight into a void helper module's out-qualified parameter
// (voice_main(out real x) { gen(x); return true; }, module void gen(out
// real y) { y := 1.0; }) -- the out-argument passthrough case a validator
// that (wrongly) treats every call argument as a value read would reject
// with a false unassigned_named_value_used.
func voiceMainCallingOutPassthrough() []*ast.ModuleDecl {
	genOut := &ast.NamedValueDecl{Base: ast.NewBase(101, diag.Span{}), Name: "y", Qualifier: types.Out, Type: types.NewDataType(types.Real)}
	genBody := ast.NewScope(102, diag.Span{})
	genBody.Children = []ast.Statement{
		&ast.Assignment{
			Base:       ast.NewBase(103, diag.Span{}),
			TargetName: "y",
			Expr: &ast.Expression{
				Base:  ast.NewBase(104, diag.Span{}),
				Value: &ast.Constant{Base: ast.NewBase(105, diag.Span{}), Kind: ast.ConstReal, Real: 1},
			},
		},
	}
	gen := &ast.ModuleDecl{
		Base:      ast.NewBase(106, diag.Span{}),
		Name:      "gen",
		IsVoid:    true,
		Arguments: []*ast.NamedValueDecl{genOut},
		Body:      genBody,
	}

	out := &ast.NamedValueDecl{Base: ast.NewBase(1, diag.Span{}), Name: "x", Qualifier: types.Out, Type: types.NewDataType(types.Real)}
	call := &ast.Assignment{
		Base: ast.NewBase(2, diag.Span{}),
		Expr: &ast.Expression{
			Base: ast.NewBase(3, diag.Span{}),
			Value: &ast.ModuleCall{
				Base:   ast.NewBase(4, diag.Span{}),
				Callee: "gen",
				Arguments: []*ast.Expression{
					{Base: ast.NewBase(5, diag.Span{}), Value: &ast.NamedValueRef{Base: ast.NewBase(6, diag.Span{}), Name: "x"}},
				},
			},
		},
	}
	ret := &ast.Return{
		Base: ast.NewBase(7, diag.Span{}),
		Expr: &ast.Expression{
			Base:  ast.NewBase(8, diag.Span{}),
			Value: &ast.Constant{Base: ast.NewBase(9, diag.Span{}), Kind: ast.ConstBool, Bool: true},
		},
	}
	body := ast.NewScope(10, diag.Span{})
	body.Children = []ast.Statement{call, ret}

	voice := &ast.ModuleDecl{
		Base:      ast.NewBase(11, diag.Span{}),
		Name:      ast.VoiceEntryPointName,
		Return:    types.NewDataType(types.Bool),
		Arguments: []*ast.NamedValueDecl{out},
		Body:      body,
	}

	return []*ast.ModuleDecl{voice, gen}
}

func TestValidateAcceptsOutArgumentPassthrough(t *testing.T) {
	files := []*ast.File{{Path: "a.wls", Modules: voiceMainCallingOutPassthrough()}}

	_, bag := Validate(files, testContext())
	if bag.HasErrors() {
		t.Fatalf("unexpected diagnostics for out-argument passthrough: %v", bag.All())
	}
}

// TestValidateOverloadedCallMismatchReportsEmptyResolution covers spec
// §4.1.1 / Testable Property 6: a call matching zero of several overloads
// must report empty_module_overload_resolution, not a per-argument type
// mismatch (that code is reserved for a single, non-overloaded candidate).
func TestValidateOverloadedCallMismatchReportsEmptyResolution(t *testing.T) {
	f1 := &ast.ModuleDecl{
		Base:      ast.NewBase(1, diag.Span{}),
		Name:      "f",
		IsVoid:    true,
		Arguments: []*ast.NamedValueDecl{{Name: "a", Qualifier: types.None, Type: types.NewDataType(types.Real)}},
		Body:      ast.NewScope(2, diag.Span{}),
	}
	f2 := &ast.ModuleDecl{
		Base:      ast.NewBase(3, diag.Span{}),
		Name:      "f",
		IsVoid:    true,
		Arguments: []*ast.NamedValueDecl{{Name: "a", Qualifier: types.None, Type: types.NewDataType(types.Bool)}},
		Body:      ast.NewScope(4, diag.Span{}),
	}

	call := &ast.Assignment{
		Base: ast.NewBase(5, diag.Span{}),
		Expr: &ast.Expression{
			Base: ast.NewBase(6, diag.Span{}),
			Value: &ast.ModuleCall{
				Base:   ast.NewBase(7, diag.Span{}),
				Callee: "f",
				Arguments: []*ast.Expression{
					{Base: ast.NewBase(8, diag.Span{}), Value: &ast.Constant{Base: ast.NewBase(9, diag.Span{}), Kind: ast.ConstString, String: "s"}},
				},
			},
		},
	}
	ret := &ast.Return{
		Base: ast.NewBase(10, diag.Span{}),
		Expr: &ast.Expression{
			Base:  ast.NewBase(11, diag.Span{}),
			Value: &ast.Constant{Base: ast.NewBase(12, diag.Span{}), Kind: ast.ConstBool, Bool: true},
		},
	}
	body := ast.NewScope(13, diag.Span{})
	body.Children = []ast.Statement{call, ret}
	out := &ast.NamedValueDecl{Base: ast.NewBase(14, diag.Span{}), Name: "o", Qualifier: types.Out, Type: types.NewDataType(types.Real)}
	voice := &ast.ModuleDecl{
		Base:      ast.NewBase(15, diag.Span{}),
		Name:      ast.VoiceEntryPointName,
		Return:    types.NewDataType(types.Bool),
		Arguments: []*ast.NamedValueDecl{out},
		Body:      body,
	}

	files := []*ast.File{{Path: "a.wls", Modules: []*ast.ModuleDecl{voice, f1, f2}}}
	_, bag := Validate(files, testContext())

	found := false
	for _, d := range bag.All() {
		if d.Code == diag.EmptyModuleOverloadResolution {
			found = true
		}
		if d.Code == diag.PerArgumentTypeMismatch {
			t.Fatalf("got per_argument_type_mismatch for an overloaded call, want empty_module_overload_resolution")
		}
	}
	if !found {
		t.Fatalf("expected an empty_module_overload_resolution diagnostic, got: %v", bag.All())
	}
}

func TestValidateRejectsEntryPointArityMismatch(t *testing.T) {
	voice := voiceMainDecl(2)
	fx := &ast.ModuleDecl{
		Name:   ast.FxEntryPointName,
		Return: types.NewDataType(types.Bool),
		Body:   ast.NewScope(2, diag.Span{}),
		Arguments: []*ast.NamedValueDecl{
			{Name: "i", Qualifier: types.In, Type: types.NewDataType(types.Real)},
		},
	}
	files := []*ast.File{{Path: "a.wls", Modules: []*ast.ModuleDecl{voice, fx}}}

	_, bag := Validate(files, testContext())
	if !bag.HasErrors() {
		t.Fatalf("expected an EntryPointArityMismatch diagnostic: voice_main has 2 outs, fx_main has 1 in")
	}
}
