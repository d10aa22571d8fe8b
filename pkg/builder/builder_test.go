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

package builder

import (
	"testing"

	"github.com/wavelang/compiler/pkg/ast"
	"github.com/wavelang/compiler/pkg/graph"
	"github.com/wavelang/compiler/pkg/natives"
	"github.com/wavelang/compiler/pkg/types"
)

func constExpr(v ast.ExpressionValue) *ast.Expression {
	return &ast.Expression{Value: v}
}

func voiceMainWithBody(children []ast.Statement) *ast.ModuleDecl {
	return &ast.ModuleDecl{
		Name:   ast.VoiceEntryPointName,
		Return: types.NewDataType(types.Bool),
		Arguments: []*ast.NamedValueDecl{
			{Name: "o", Qualifier: types.Out, Type: types.NewDataType(types.Real)},
		},
		Body: &ast.Scope{Children: children},
	}
}

func TestBuildAssignsOutputAndRemainActive(t *testing.T) {
	entry := voiceMainWithBody([]ast.Statement{
		&ast.Assignment{TargetName: "o", Expr: constExpr(&ast.Constant{Kind: ast.ConstReal, Real: 1})},
		&ast.Return{Expr: constExpr(&ast.Constant{Kind: ast.ConstBool, Bool: true})},
	})

	res := Build(entry, false, natives.NewMapRegistry(), DefaultConfig())

	if !res.OK {
		t.Fatalf("Build() OK = false, diagnostics: %v", res.Diagnostics.All())
	}
	if !res.RemainActive.IsValid() {
		t.Fatalf("RemainActive handle is invalid")
	}
	if err := graph.Validate(res.Graph, natives.NewMapRegistry()); err != nil {
		t.Fatalf("built graph fails Validate(): %v", err)
	}
}

func TestBuildFailsWhenOutArgumentNeverAssigned(t *testing.T) {
	entry := voiceMainWithBody([]ast.Statement{
		&ast.Return{Expr: constExpr(&ast.Constant{Kind: ast.ConstBool, Bool: true})},
	})

	res := Build(entry, false, natives.NewMapRegistry(), DefaultConfig())

	if res.OK {
		t.Fatalf("Build() OK = true, want false: 'o' out argument was never assigned")
	}
}

func TestBuildFxGraphCreatesInputNodeForInArgument(t *testing.T) {
	entry := &ast.ModuleDecl{
		Name:   ast.FxEntryPointName,
		Return: types.NewDataType(types.Bool),
		Arguments: []*ast.NamedValueDecl{
			{Name: "in", Qualifier: types.In, Type: types.NewDataType(types.Real)},
			{Name: "out", Qualifier: types.Out, Type: types.NewDataType(types.Real)},
		},
		Body: &ast.Scope{Children: []ast.Statement{
			&ast.Assignment{TargetName: "out", Expr: constExpr(&ast.NamedValueRef{Name: "in"})},
			&ast.Return{Expr: constExpr(&ast.Constant{Kind: ast.ConstBool, Bool: true})},
		}},
	}

	res := Build(entry, true, natives.NewMapRegistry(), DefaultConfig())
	if !res.OK {
		t.Fatalf("Build() OK = false, diagnostics: %v", res.Diagnostics.All())
	}

	var sawInput bool
	for _, h := range res.Graph.Nodes() {
		if _, ok := res.Graph.Node(h).(*graph.InputNode); ok {
			sawInput = true
		}
	}
	if !sawInput {
		t.Errorf("no InputNode created for fx_main's in argument")
	}
}
