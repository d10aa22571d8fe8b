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

// pass2 validates the body of every non-native module (spec §4.1: "Pass 2 --
// validate bodies"). Order across modules does not matter: the call graph
// built in pass 1 already has every node, so addSubcall calls made while
// validating one module's body can reference callees validated earlier or
// later with no difference in outcome.
func (v *validation) pass2(files []*ast.File) {
	for _, f := range files {
		for _, m := range f.Modules {
			if m.Native || m.Body == nil {
				continue
			}
			v.validateModuleBody(m)
		}
	}
}

// bodyValidator carries the per-module walking state: the scope stack, the
// module-wide statement counter (shared across nested repeat-loop scopes,
// spec §4.1.2: "statement numbers only ever increase, even across nested
// scopes"), and the explicit expectation/result stacks of spec §4.1.3.
type bodyValidator struct {
	v       *validation
	module  *ast.ModuleDecl
	scopes  scopeStack
	expect  expectationStack
	results resultStack

	// stmt is the single module-wide statement counter. An in-qualified
	// argument is treated as assigned "at statement 0" (spec §4.1.2); the
	// first real body statement is therefore validated at stmt == 1.
	stmt int32

	returnSeen bool
}

func (v *validation) validateModuleBody(m *ast.ModuleDecl) {
	bv := &bodyValidator{v: v, module: m, stmt: 1}

	outer := newScope()
	outer.module = m
	outer.isOuter = true
	bv.scopes.push(outer)

	for _, a := range m.Arguments {
		rec := &identifierRecord{typ: types.NewQualifiedType(a.Type, types.Variable), node: a}
		if !outer.declare(a.Name, rec) {
			v.bag.Addf(a.Span(), diag.DuplicateIdentifier, "duplicate argument name %q", a.Name)
			continue
		}
		nv := outer.namedValue(a.ID())
		nv.currentType = rec.typ
		if a.Qualifier == types.In {
			nv.lastStatementAssigned = 0
		}
	}

	bv.walkScope(m.Body)

	for _, a := range m.Arguments {
		if a.Qualifier != types.Out {
			continue
		}
		nv := outer.namedValue(a.ID())
		if nv.lastStatementAssigned < 0 {
			v.bag.Addf(m.Span(), diag.UnassignedOutArgument,
				"out argument %q of module %q is never assigned", a.Name, m.Name)
		}
	}

	if !m.IsVoid && !bv.returnSeen {
		v.bag.Addf(m.Span(), diag.MissingReturn, "module %q must return a value", m.Name)
	}
	if m.IsVoid && bv.returnSeen {
		v.bag.Addf(m.Span(), diag.ExtraneousReturn, "void module %q may not return a value", m.Name)
	}

	bv.scopes.pop()
}

// walkScope validates every statement of sc in order, enforcing that no
// statement follows a return (spec §4.1.2: "a return statement, legal only
// as the final statement of the outermost scope").
func (bv *bodyValidator) walkScope(sc *ast.Scope) {
	localReturnSeen := false
	for _, stmt := range sc.Children {
		if localReturnSeen {
			bv.v.bag.Addf(stmt.Span(), diag.StatementsAfterReturn, "statements after return")
		}
		switch s := stmt.(type) {
		case *ast.Assignment:
			bv.visitAssignment(s)
		case *ast.Return:
			bv.visitReturn(s)
			localReturnSeen = true
		case *ast.RepeatLoop:
			bv.visitRepeatLoop(s)
		}
		bv.stmt++
	}
}

func (bv *bodyValidator) visitReturn(r *ast.Return) {
	top := bv.scopes.top()
	if !top.isOuter {
		bv.v.bag.Addf(r.Span(), diag.InvalidAssignmentTarget, "return is only legal in a module's outermost scope")
	}
	if bv.returnSeen {
		bv.v.bag.Addf(r.Span(), diag.DuplicateReturn, "duplicate return statement")
	}
	bv.returnSeen = true

	if bv.module.IsVoid {
		if r.Expr != nil {
			bv.expect.push(ExpectValueless)
			bv.visitExpr(r.Expr)
			bv.expect.pop()
		}
		return
	}
	if r.Expr == nil {
		bv.v.bag.Addf(r.Span(), diag.TypeMismatch, "module %q must return a value", bv.module.Name)
		return
	}
	bv.expect.push(ExpectValue)
	bv.visitExpr(r.Expr)
	res := bv.results.pop()
	bv.expect.pop()
	want := types.NewQualifiedType(bv.module.Return, types.Variable)
	if res.HasValue && !res.Type.AssignableTo(want) {
		bv.v.bag.Addf(r.Span(), diag.TypeMismatch, "return type mismatch in module %q", bv.module.Name)
	}
}

// visitAssignment validates one assignment statement (spec §3.2, §4.1.2): a
// valueless call site when TargetName is empty, otherwise a (possibly
// indexed, possibly declaring) rebind of a named value.
func (bv *bodyValidator) visitAssignment(a *ast.Assignment) {
	if a.TargetName == "" {
		bv.expect.push(ExpectValueless)
		bv.visitExpr(a.Expr)
		bv.results.pop()
		bv.expect.pop()
		return
	}

	bv.expect.push(ExpectValue)
	bv.visitExpr(a.Expr)
	rhs := bv.results.pop()
	bv.expect.pop()

	top := bv.scopes.top()

	if a.IsDeclaration {
		if a.DeclaredDecl == nil {
			return
		}
		rec := &identifierRecord{typ: types.NewQualifiedType(a.DeclaredDecl.Type, rhs.Type.Mutability), node: a.DeclaredDecl}
		if !top.declare(a.TargetName, rec) {
			bv.v.bag.Addf(a.Span(), diag.DuplicateIdentifier, "duplicate identifier %q", a.TargetName)
			return
		}
		nv := top.namedValue(a.DeclaredDecl.ID())
		nv.currentType = rec.typ
		nv.lastStatementAssigned = bv.stmt
		return
	}

	rec, owningScope, ok := bv.scopes.lookup(a.TargetName)
	if !ok {
		bv.v.bag.Addf(a.Span(), diag.UndeclaredIdentifier, "undeclared identifier %q", a.TargetName)
		return
	}
	if rec.isModule {
		bv.v.bag.Addf(a.Span(), diag.InvalidAssignmentTarget, "%q names a module, not a value", a.TargetName)
		return
	}

	nodeID := rec.node.ID()
	nv := owningScope.namedValue(nodeID)

	targetType := rec.typ
	if a.TargetIndex != nil {
		bv.expect.push(ExpectValue)
		bv.visitExpr(a.TargetIndex)
		bv.results.pop()
		bv.expect.pop()
		if nv.lastStatementAssigned < 0 {
			bv.v.bag.Addf(a.Span(), diag.UnassignedArrayIndexTarget,
				"indexed assignment to %q before it is ever fully assigned", a.TargetName)
		}
		targetType = types.NewQualifiedType(
			types.DataType{Kind: rec.typ.Kind, IsArray: false, UpsampleFactor: rec.typ.UpsampleFactor},
			rec.typ.Mutability)
	}

	if rhs.HasValue && !rhs.Type.AssignableTo(targetType) {
		bv.v.bag.Addf(a.Span(), diag.TypeMismatch, "cannot assign to %q", a.TargetName)
	}

	nv.currentType = rec.typ
	nv.lastStatementAssigned = bv.stmt
}

// visitRepeatLoop validates a repeat loop's count assignment and body in a
// fresh nested scope (spec §3.2, §4.2: "the loop count ... must resolve to a
// compile-time constant").
func (bv *bodyValidator) visitRepeatLoop(r *ast.RepeatLoop) {
	if r.CountAssignment != nil {
		bv.visitAssignment(r.CountAssignment)
		if rec, sc, ok := bv.scopes.lookup(r.CountAssignment.TargetName); ok {
			nv := sc.namedValue(rec.node.ID())
			if nv.currentType.Mutability == types.Variable {
				bv.v.bag.Addf(r.Span(), diag.ConstantExpected, "repeat loop count must be a compile-time constant")
			}
		}
	}

	nested := newScope()
	nested.module = bv.module
	bv.scopes.push(nested)
	bv.walkScope(r.Body)
	bv.scopes.pop()
}

// visitExpr validates one expression, pushing its resolved ExprResult onto
// the result stack (spec §4.1.3).
func (bv *bodyValidator) visitExpr(e *ast.Expression) {
	if e == nil {
		bv.results.push(safeResult)
		return
	}
	switch val := e.Value.(type) {
	case *ast.Constant:
		bv.visitConstant(e, val)
	case *ast.ConstantArray:
		bv.visitConstantArray(e, val)
	case *ast.NamedValueRef:
		bv.visitNamedValueRef(e, val)
	case *ast.ModuleCall:
		bv.visitModuleCall(e, val)
	default:
		bv.results.push(safeResult)
	}
}

func (bv *bodyValidator) visitConstant(e *ast.Expression, c *ast.Constant) {
	kind := ast.DataTypeOfConstantKind(c.Kind)
	dt := types.NewDataType(kind)
	bv.results.push(ExprResult{Type: types.NewQualifiedType(dt, types.Constant), HasValue: true})
}

func (bv *bodyValidator) visitConstantArray(e *ast.Expression, arr *ast.ConstantArray) {
	for _, el := range arr.Elements {
		bv.expect.push(ExpectValue)
		bv.visitExpr(el)
		bv.results.pop()
		bv.expect.pop()
	}
	kind := ast.DataTypeOfConstantKind(arr.ElementKind)
	dt := types.NewArrayDataType(kind)
	bv.results.push(ExprResult{Type: types.NewQualifiedType(dt, types.Constant), HasValue: true})
}

func (bv *bodyValidator) visitNamedValueRef(e *ast.Expression, ref *ast.NamedValueRef) {
	rec, owningScope, ok := bv.scopes.lookup(ref.Name)
	if !ok {
		bv.v.bag.Addf(e.Span(), diag.UndeclaredIdentifier, "undeclared identifier %q", ref.Name)
		bv.results.push(safeResult)
		return
	}
	if rec.isModule {
		bv.v.bag.Addf(e.Span(), diag.NamedValueExpected, "%q names a module, not a value", ref.Name)
		bv.results.push(safeResult)
		return
	}

	nv := owningScope.namedValue(rec.node.ID())
	if nv.lastStatementAssigned < 0 || nv.lastStatementAssigned >= bv.stmt {
		bv.v.bag.Addf(e.Span(), diag.UnassignedNamedValueUsed,
			"%q is used before it is assigned", ref.Name)
	}
	nv.lastStatementUsed = bv.stmt

	resultType := nv.currentType
	if ref.Index != nil {
		bv.expect.push(ExpectValue)
		bv.visitExpr(ref.Index)
		bv.results.pop()
		bv.expect.pop()
		elemType := types.DataType{Kind: resultType.Kind, IsArray: false, UpsampleFactor: resultType.UpsampleFactor}
		resultType = types.NewQualifiedType(elemType, resultType.Mutability)
	}

	bv.results.push(ExprResult{Type: resultType, IdentifierName: ref.Name, HasValue: true})
}

// visitModuleCall validates a module invocation: resolves the callee by
// argument-type overload, records a module-call-graph edge from the
// enclosing module to the resolved callee (spec §4.1.4), and checks the
// calling expectation against the callee's return shape (spec §4.1.3: "a
// valueless call site is legal only for a void-returning module").
//
// A bare (non-indexed) named-value argument is the one shape spec §4.1.2
// allows for an out-qualified slot, and which slots are out-qualified is
// only known once the callee overload is resolved below. Such arguments are
// therefore type-peeked without diagnostics here, by bare's per-argument
// identity, and their real definite-assignment handling is deferred to
// visitResolvedCallArgument once the resolved callee's qualifiers are known.
// Every other argument shape can only ever be a non-out argument, so it is
// validated immediately as an ordinary value.
func (bv *bodyValidator) visitModuleCall(e *ast.Expression, call *ast.ModuleCall) {
	argTypes := make([]types.DataType, len(call.Arguments))
	bare := make([]*ast.NamedValueRef, len(call.Arguments))
	for i, a := range call.Arguments {
		if ref, ok := a.Value.(*ast.NamedValueRef); ok && ref.Index == nil {
			bare[i] = ref
			argTypes[i] = bv.peekNamedValueType(ref)
			continue
		}
		bv.expect.push(ExpectValue)
		bv.visitExpr(a)
		r := bv.results.pop()
		bv.expect.pop()
		argTypes[i] = r.Type.DataType
	}

	ov, ok := bv.v.overloads[call.Callee]
	if !ok {
		bv.v.bag.Addf(e.Span(), diag.UndeclaredIdentifier, "undeclared module %q", call.Callee)
		bv.results.push(safeResult)
		return
	}

	res := ov.resolveCall(argTypes)
	if res.Resolved == nil {
		// Ambiguous means the name has several overloads and none of them
		// matched (spec §4.1.1, Testable Property 6). A single candidate
		// whose argument types simply didn't line up is the per-argument
		// mismatch case.
		code := diag.PerArgumentTypeMismatch
		if res.Ambiguous {
			code = diag.EmptyModuleOverloadResolution
		}
		bv.v.bag.Addf(e.Span(), code, "no overload of %q matches the provided argument types", call.Callee)
		bv.results.push(safeResult)
		return
	}
	call.Resolved = res.Resolved

	for i, ref := range bare {
		if i >= len(res.Resolved.Arguments) {
			continue
		}
		q := res.Resolved.Arguments[i].Qualifier
		if ref == nil {
			if q == types.Out {
				bv.v.bag.Addf(call.Arguments[i].Span(), diag.NamedValueExpected,
					"expected named value for out-qualified argument")
			}
			continue
		}
		bv.visitResolvedCallArgument(call.Arguments[i], ref, q)
	}

	bv.v.cg.addSubcall(bv.module, res.Resolved)

	isVoid := res.Resolved.IsVoid
	expectation := bv.expect.current()
	if isVoid && expectation == ExpectValue {
		bv.v.bag.Addf(e.Span(), diag.ValuelessCallRequired, "call to void module %q cannot produce a value", call.Callee)
		bv.results.push(safeResult)
		return
	}

	if isVoid {
		bv.results.push(ExprResult{Type: types.VoidType, HasValue: false})
		return
	}
	bv.results.push(ExprResult{Type: types.NewQualifiedType(res.Resolved.Return, types.Variable), HasValue: true})
}

// peekNamedValueType returns ref's currently resolved data type without
// emitting diagnostics or touching its statement-tracking state -- used only
// to feed overload resolution before the callee (and therefore ref's
// qualifier in this call) is known.
func (bv *bodyValidator) peekNamedValueType(ref *ast.NamedValueRef) types.DataType {
	rec, owningScope, ok := bv.scopes.lookup(ref.Name)
	if !ok || rec.isModule {
		return types.DataType{}
	}
	return owningScope.namedValue(rec.node.ID()).currentType.DataType
}

// visitResolvedCallArgument applies spec §4.1.2's definite-assignment rules
// to a bare named-value call argument now that q, the resolved callee's
// qualifier for this slot, is known. A non-out argument is an ordinary
// value read. An out-qualified argument is an assignment target instead: it
// is never flagged as used-before-assigned, and it marks the caller-side
// name assigned at the call's statement, honoring the same-statement
// assigned/used exception of spec §4.1.2 (gen(x) where x was read earlier in
// the same statement remains legal, matching x := x + 1).
func (bv *bodyValidator) visitResolvedCallArgument(argExpr *ast.Expression, ref *ast.NamedValueRef, q types.Qualifier) {
	expectation := ExpectValue
	if q == types.Out {
		expectation = ExpectAssignmentTarget
	}
	bv.expect.push(expectation)
	defer bv.expect.pop()

	rec, owningScope, ok := bv.scopes.lookup(ref.Name)
	if !ok {
		bv.v.bag.Addf(argExpr.Span(), diag.UndeclaredIdentifier, "undeclared identifier %q", ref.Name)
		return
	}
	if rec.isModule {
		bv.v.bag.Addf(argExpr.Span(), diag.NamedValueExpected, "%q names a module, not a value", ref.Name)
		return
	}
	nv := owningScope.namedValue(rec.node.ID())

	if q != types.Out {
		if nv.lastStatementAssigned < 0 || nv.lastStatementAssigned >= bv.stmt {
			bv.v.bag.Addf(argExpr.Span(), diag.UnassignedNamedValueUsed,
				"%q is used before it is assigned", ref.Name)
		}
		nv.lastStatementUsed = bv.stmt
		return
	}

	if nv.lastStatementAssigned == bv.stmt {
		bv.v.bag.Addf(argExpr.Span(), diag.AmbiguousNamedValueAssignment,
			"%q is assigned twice in the same statement", ref.Name)
	}
	nv.lastStatementAssigned = bv.stmt
	if nv.lastStatementUsed == bv.stmt {
		bv.v.bag.Addf(argExpr.Span(), diag.AmbiguousNamedValueAssignment,
			"%q is used and assigned in the same statement", ref.Name)
	}
}
