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
	"github.com/wavelang/compiler/pkg/ast"
	"github.com/wavelang/compiler/pkg/diag"
	"github.com/wavelang/compiler/pkg/types"
)

// Result summarizes what the validator found across every module declared
// in the input files (spec §4.1).
type Result struct {
	VoiceEntry *ast.ModuleDecl
	FxEntry    *ast.ModuleDecl
}

// FoundVoice reports whether a voice_main entry point was found.
func (r Result) FoundVoice() bool { return r.VoiceEntry != nil }

// FoundFx reports whether an fx_main entry point was found.
func (r Result) FoundFx() bool { return r.FxEntry != nil }

// Validate runs the two-pass validator of spec §4.1 over every module
// declared across files, returning the entry points found and the
// accumulated diagnostics. Per spec §7, the caller should treat any
// non-empty diagnostic list as a hard abort: "Compilation aborts after the
// validator pass if any diagnostic was emitted."
func Validate(files []*ast.File, ctx *Context) (Result, *diag.Bag) {
	v := &validation{
		ctx:       ctx,
		bag:       &diag.Bag{},
		global:    newScope(),
		overloads: make(map[string]*moduleOverloads),
		cg:        newCallGraph(),
	}
	v.pass1(files)
	v.pass2(files)

	if v.cg.hasCycle() {
		v.bag.Addf(diag.Span{}, diag.CyclicModuleCall, "cyclic module call detected")
	}

	var res Result
	res.VoiceEntry = v.voiceEntry
	res.FxEntry = v.fxEntry
	if res.VoiceEntry == nil && res.FxEntry == nil {
		v.bag.Addf(diag.Span{}, diag.MissingEntryPoint, "no voice_main or fx_main entry point found")
	}
	if res.VoiceEntry != nil && res.FxEntry != nil {
		voiceOut := len(res.VoiceEntry.Arguments)
		fxIn := countQualifier(res.FxEntry.Arguments, types.In)
		if voiceOut != fxIn {
			v.bag.Addf(res.FxEntry.Span(), diag.EntryPointArityMismatch,
				"voice_main has %d out arguments but fx_main declares %d in arguments", voiceOut, fxIn)
		}
	}

	return res, v.bag
}

func countQualifier(args []*ast.NamedValueDecl, q types.Qualifier) int {
	n := 0
	for _, a := range args {
		if a.Qualifier == q {
			n++
		}
	}
	return n
}

// validation is the validator's mutable working state across both passes.
type validation struct {
	ctx       *Context
	bag       *diag.Bag
	global    *scope
	overloads map[string]*moduleOverloads
	cg        *callGraph

	voiceEntry *ast.ModuleDecl
	fxEntry    *ast.ModuleDecl
}

// ---------------------------------------------------------------------
// Pass 1 -- register globals
// ---------------------------------------------------------------------

func (v *validation) pass1(files []*ast.File) {
	for _, f := range files {
		for _, m := range f.Modules {
			v.registerModule(m)
		}
	}
}

func (v *validation) registerModule(m *ast.ModuleDecl) {
	ov, ok := v.overloads[m.Name]
	if !ok {
		ov = &moduleOverloads{name: m.Name}
		v.overloads[m.Name] = ov
	}

	if m.IsEntryPointCandidate() && len(ov.overloads) >= 1 {
		v.bag.Addf(m.Span(), diag.EntryPointOverloaded, "entry point %q may not be overloaded", m.Name)
	}

	if err := ov.register(m); err != nil {
		v.bag.Addf(m.Span(), diag.DuplicateIdentifier, "%s", err.Error())
	}

	idx := len(ov.overloads) - 1
	rec := &identifierRecord{
		typ:           types.NewQualifiedType(types.NewDataType(types.Module), types.Variable),
		node:          m,
		isModule:      true,
		overloadCount: len(ov.overloads),
	}
	if idx == 0 {
		v.global.declare(m.Name, rec)
	} else {
		// Update the overload count on the primary record and register the
		// synthetic per-overload name (spec §4.1.1).
		if primary, ok := v.global.lookupLocal(m.Name); ok {
			primary.overloadCount = len(ov.overloads)
		}
	}
	syntheticRec := *rec
	v.global.declare(syntheticName(m.Name, idx), &syntheticRec)

	v.cg.addModule(m)

	if m.IsEntryPointCandidate() {
		v.validateEntryPointShape(m)
		switch m.Name {
		case ast.VoiceEntryPointName:
			if v.voiceEntry == nil {
				v.voiceEntry = m
			}
		case ast.FxEntryPointName:
			if v.fxEntry == nil {
				v.fxEntry = m
			}
		}
	}
}

func syntheticName(name string, idx int) string {
	return name + "$" + itoa(idx)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}

// validateEntryPointShape checks rules (b)-(d) of spec §4.1.5. Rule (e) is
// checked once both entry points are known, at the end of Validate.
func (v *validation) validateEntryPointShape(m *ast.ModuleDecl) {
	if m.IsVoid || m.Return.Kind != types.Bool || m.Return.IsArray {
		v.bag.Addf(m.Span(), diag.EntryPointBadReturnType, "entry point %q must return bool", m.Name)
	}
	for _, a := range m.Arguments {
		if a.Type.Kind != types.Real {
			v.bag.Addf(a.Span(), diag.EntryPointBadArgumentType,
				"entry point %q arguments must be real-typed", m.Name)
		}
	}
	if m.Name == ast.VoiceEntryPointName {
		for _, a := range m.Arguments {
			if a.Qualifier != types.Out {
				v.bag.Addf(a.Span(), diag.EntryPointBadQualifier,
					"voice_main arguments must all be 'out'")
			}
		}
	}
}
