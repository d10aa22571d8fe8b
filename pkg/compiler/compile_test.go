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

package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wavelang/compiler/pkg/ast"
	"github.com/wavelang/compiler/pkg/instrument"
	"github.com/wavelang/compiler/pkg/natives"
	"github.com/wavelang/compiler/pkg/types"
)

// voiceMainFile builds a single-file AST with a voice_main that assigns its
// sole out argument a real constant and returns true, the minimal shape the
// validator/builder pipeline accepts as a complete entry point.
func voiceMainFile() *ast.File {
	out := &ast.NamedValueDecl{Name: "o", Qualifier: types.Out, Type: types.NewDataType(types.Real)}
	body := &ast.Scope{Children: []ast.Statement{
		&ast.Assignment{TargetName: "o", Expr: &ast.Expression{Value: &ast.Constant{Kind: ast.ConstReal, Real: 1}}},
		&ast.Return{Expr: &ast.Expression{Value: &ast.Constant{Kind: ast.ConstBool, Bool: true}}},
	}}
	m := &ast.ModuleDecl{
		Name:      ast.VoiceEntryPointName,
		Return:    types.NewDataType(types.Bool),
		Arguments: []*ast.NamedValueDecl{out},
		Body:      body,
	}
	return &ast.File{Path: "voice.wls", Modules: []*ast.ModuleDecl{m}}
}

func TestCompileProducesValidInstrument(t *testing.T) {
	ctx := NewContext(natives.NewMapRegistry())
	globals := instrument.Globals{MaxVoices: 1, SampleRate: 48000, ChunkSize: 256}

	res, err := Compile(ctx, []*ast.File{voiceMainFile()}, globals)
	require.NoError(t, err)
	require.NotNil(t, res.Instrument)
	require.Len(t, res.Instrument.Variants, 1)
	require.NotNil(t, res.Instrument.Variants[0].Voice)
	require.Nil(t, res.Instrument.Variants[0].Fx)

	require.NoError(t, res.Instrument.Validate(ctx.Natives))
}

func TestCompileAbortsOnValidationFailure(t *testing.T) {
	ctx := NewContext(natives.NewMapRegistry())

	res, err := Compile(ctx, []*ast.File{{Path: "empty.wls"}}, instrument.Globals{})
	require.ErrorIs(t, err, ErrValidationFailed)
	require.Nil(t, res.Instrument)
	require.True(t, res.Diagnostics.HasErrors())
}

// TestCompileAbortsOnBuildFailure exercises a failure the validator does
// not itself catch: a repeat loop whose compile-time-constant count is out
// of the builder's accepted range (spec's repeat-loop count bound is a
// builder concern, not a validator one -- the validator only checks the
// count expression resolves to a compile-time constant at all).
func TestCompileAbortsOnBuildFailure(t *testing.T) {
	ctx := NewContext(natives.NewMapRegistry())

	countDecl := &ast.NamedValueDecl{Name: "n", Qualifier: types.None, Type: types.NewDataType(types.Real)}
	countAssign := &ast.Assignment{
		TargetName:    "n",
		IsDeclaration: true,
		DeclaredDecl:  countDecl,
		Expr:          &ast.Expression{Value: &ast.Constant{Kind: ast.ConstReal, Real: 0}},
	}
	loopBody := &ast.Scope{Children: []ast.Statement{
		&ast.Assignment{TargetName: "o", Expr: &ast.Expression{Value: &ast.Constant{Kind: ast.ConstReal, Real: 5}}},
	}}
	m := &ast.ModuleDecl{
		Name:      ast.VoiceEntryPointName,
		Return:    types.NewDataType(types.Bool),
		Arguments: []*ast.NamedValueDecl{{Name: "o", Qualifier: types.Out, Type: types.NewDataType(types.Real)}},
		Body: &ast.Scope{Children: []ast.Statement{
			&ast.RepeatLoop{CountAssignment: countAssign, Body: loopBody},
			&ast.Return{Expr: &ast.Expression{Value: &ast.Constant{Kind: ast.ConstBool, Bool: true}}},
		}},
	}
	files := []*ast.File{{Path: "a.wls", Modules: []*ast.ModuleDecl{m}}}

	res, err := Compile(ctx, files, instrument.Globals{})
	require.ErrorIs(t, err, ErrBuildFailed)
	require.Nil(t, res.Instrument)
}
