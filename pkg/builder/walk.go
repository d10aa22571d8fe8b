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
	"github.com/wavelang/compiler/pkg/ast"
	"github.com/wavelang/compiler/pkg/constant"
	"github.com/wavelang/compiler/pkg/diag"
	"github.com/wavelang/compiler/pkg/graph"
	"github.com/wavelang/compiler/pkg/natives"
	"github.com/wavelang/compiler/pkg/types"
)

// builder is the per-compilation walking state: the graph under
// construction, the native-module registry, a reusable constant evaluator
// (spec §9: "expose the evaluator as a reusable component"), and the
// builder's parallel scope stack.
type builder struct {
	g       *graph.Graph
	natives natives.Registry
	bag     *diag.Bag
	cfg     Config
	eval    *constant.Evaluator
	scopes  scopeStack

	// returnValue, once set by a return statement in the outermost scope,
	// is the handle wired to the remain_active output on entry-point exit
	// (spec §4.2: "Graph assembly").
	returnValue graph.Handle
}

// walkScope walks every statement of sc in declaration order, binding names
// in the builder's current top scope.
func (b *builder) walkScope(sc *ast.Scope) {
	for _, stmt := range sc.Children {
		switch s := stmt.(type) {
		case *ast.Assignment:
			b.visitAssignment(s)
		case *ast.Return:
			if s.Expr != nil {
				if h, ok := b.visitExpr(s.Expr); ok {
					b.returnValue = h
				}
			}
		case *ast.RepeatLoop:
			b.visitRepeatLoop(s)
		}
	}
}

// visitAssignment binds a.TargetName (or, for a valueless call, discards
// the result) to the handle produced by a.Expr (spec §4.2: "A plain x :=
// expr rebinds the name x in the current scope to the result node of
// expr").
func (b *builder) visitAssignment(a *ast.Assignment) {
	h, ok := b.visitExpr(a.Expr)
	if !ok || a.TargetName == "" {
		return
	}

	top := b.scopes.top()

	if a.TargetIndex == nil {
		top.bind(a.TargetName, h)
		return
	}

	b.visitIndexedAssignment(a, h)
}

// visitIndexedAssignment rebuilds the whole array bound to a.TargetName
// with the single element at the constant-evaluated index replaced (spec
// §4.2: "rebuilds the entire array by copying element node handles with
// the single replacement applied").
func (b *builder) visitIndexedAssignment(a *ast.Assignment, newElem graph.Handle) {
	ih, ok := b.visitExpr(a.TargetIndex)
	var idx int64
	if ok {
		idx, ok = b.eval.EvaluateInt64(ih)
	}
	if !ok {
		b.bag.Addf(a.Span(), diag.InvalidArrayIndex, "array index must be a compile-time constant")
		return
	}
	arrayHandle, _, found := b.scopes.lookup(a.TargetName)
	if !found {
		b.bag.Addf(a.Span(), diag.UndeclaredIdentifier, "undeclared identifier %q", a.TargetName)
		return
	}
	children := b.g.IndexedChildren(arrayHandle, true)
	if idx < 0 || int(idx) >= len(children) {
		b.bag.Addf(a.Span(), diag.InvalidArrayIndex, "array index %d out of range", idx)
		return
	}

	elems := make([]graph.Handle, len(children))
	elemTypes := make([]types.QualifiedType, len(children))
	for i, c := range children {
		elems[i] = b.g.InEdges(c)[0]
		elemTypes[i], _ = b.g.QType(c)
	}
	elems[idx] = newElem
	if qt, ok := b.g.QType(newElem); ok {
		elemTypes[idx] = qt
	}

	arr := b.g.Node(arrayHandle).(*graph.ArrayNode)
	top := b.scopes.top()
	top.bind(a.TargetName, b.g.BuildArray(arr.QType.Kind, elems, elemTypes))
}

// visitRepeatLoop unrolls r.Body the constant-evaluated count of times
// (spec §4.2). Each iteration's rebindings of names already declared in an
// enclosing scope are propagated back out, since the AST's repeat body
// rebinds outer names rather than declaring fresh ones for them.
func (b *builder) visitRepeatLoop(r *ast.RepeatLoop) {
	if r.CountAssignment != nil {
		b.visitAssignment(r.CountAssignment)
	}

	var (
		count int64
		ok    bool
	)
	if r.CountAssignment != nil && r.CountAssignment.TargetName != "" {
		if h, _, found := b.scopes.lookup(r.CountAssignment.TargetName); found {
			count, ok = b.eval.EvaluateInt64(h)
		}
	}
	if !ok {
		b.bag.Addf(r.Span(), diag.InvalidLoopCount, "repeat count must be a compile-time constant")
		return
	}
	if count <= 0 || count > b.cfg.MaxRepeatCount {
		b.bag.Addf(r.Span(), diag.InvalidLoopCount, "repeat count %d is out of range (1..%d)", count, b.cfg.MaxRepeatCount)
		return
	}

	for i := int64(0); i < count; i++ {
		nested := &scope{vars: make(map[string]graph.Handle)}
		b.scopes.push(nested)
		b.walkScope(r.Body)
		rebound := nested.vars
		b.scopes.pop()

		outer := b.scopes.top()
		for name, h := range rebound {
			if _, sc, found := b.scopes.lookup(name); found && sc != nested {
				outer.bind(name, h)
			}
		}
	}
}

// visitExpr resolves e to a graph node handle.
func (b *builder) visitExpr(e *ast.Expression) (graph.Handle, bool) {
	if e == nil {
		return graph.Handle{}, false
	}
	switch val := e.Value.(type) {
	case *ast.Constant:
		return b.visitConstant(val), true
	case *ast.ConstantArray:
		return b.visitConstantArray(val)
	case *ast.NamedValueRef:
		return b.visitNamedValueRef(e, val)
	case *ast.ModuleCall:
		return b.visitModuleCall(e, val)
	default:
		return graph.Handle{}, false
	}
}

func (b *builder) visitConstant(c *ast.Constant) graph.Handle {
	switch c.Kind {
	case ast.ConstReal:
		return b.g.NewConstantReal(c.Real, 1)
	case ast.ConstBool:
		return b.g.NewConstantBool(c.Bool, 1)
	case ast.ConstString:
		return b.g.NewConstantString(c.String, 1)
	default:
		return graph.Handle{}
	}
}

func (b *builder) visitConstantArray(arr *ast.ConstantArray) (graph.Handle, bool) {
	elems := make([]graph.Handle, len(arr.Elements))
	qts := make([]types.QualifiedType, len(arr.Elements))
	for i, el := range arr.Elements {
		h, ok := b.visitExpr(el)
		if !ok {
			return graph.Handle{}, false
		}
		elems[i] = h
		qts[i], _ = b.g.QType(h)
	}
	kind := ast.DataTypeOfConstantKind(arr.ElementKind)
	return b.g.BuildArray(kind, elems, qts), true
}

func (b *builder) visitNamedValueRef(e *ast.Expression, ref *ast.NamedValueRef) (graph.Handle, bool) {
	h, _, ok := b.scopes.lookup(ref.Name)
	if !ok {
		b.bag.Addf(e.Span(), diag.UndeclaredIdentifier, "undeclared identifier %q", ref.Name)
		return graph.Handle{}, false
	}
	if ref.Index == nil {
		return h, true
	}
	ih, ok := b.visitExpr(ref.Index)
	var idx int64
	if ok {
		idx, ok = b.eval.EvaluateInt64(ih)
	}
	if !ok {
		b.bag.Addf(e.Span(), diag.InvalidArrayIndex, "array index must be a compile-time constant")
		return graph.Handle{}, false
	}
	children := b.g.IndexedChildren(h, true)
	if idx < 0 || int(idx) >= len(children) {
		b.bag.Addf(e.Span(), diag.InvalidArrayIndex, "array index %d out of range", idx)
		return graph.Handle{}, false
	}
	return b.g.InEdges(children[idx])[0], true
}

// visitModuleCall inlines (for a non-native callee) or constructs a native
// call node (for a native callee), per spec §4.2. Out-qualified call
// arguments are not evaluated as values -- the validator already requires
// them to be a bare named-value reference (spec §4.1.3's
// assignment-target expectation) -- their caller-side name is instead
// rebound, after the call, to the corresponding out-argument's final
// handle.
func (b *builder) visitModuleCall(e *ast.Expression, call *ast.ModuleCall) (graph.Handle, bool) {
	callee := call.Resolved
	if callee == nil {
		return graph.Handle{}, false
	}

	inHandles := make([]graph.Handle, 0, len(call.Arguments))
	outTargets := make([]string, 0)
	for i, argExpr := range call.Arguments {
		q := types.None
		if i < len(callee.Arguments) {
			q = callee.Arguments[i].Qualifier
		}
		if q == types.Out {
			if ref, ok := argExpr.Value.(*ast.NamedValueRef); ok {
				outTargets = append(outTargets, ref.Name)
			} else {
				outTargets = append(outTargets, "")
			}
			continue
		}
		h, ok := b.visitExpr(argExpr)
		if !ok {
			return graph.Handle{}, false
		}
		inHandles = append(inHandles, h)
	}

	if callee.Native {
		return b.visitNativeCall(e, callee, inHandles, outTargets)
	}
	return b.inlineCall(callee, inHandles, outTargets)
}

func (b *builder) visitNativeCall(e *ast.Expression, callee *ast.ModuleDecl, inHandles []graph.Handle, outTargets []string) (graph.Handle, bool) {
	mod, ok := b.natives.Lookup(callee.NativeUID)
	if !ok {
		b.bag.Addf(e.Span(), diag.NotCallable, "unknown native module %q", callee.Name)
		return graph.Handle{}, false
	}
	_, outs := b.g.NewNativeCall(mod, 1, inHandles)

	top := b.scopes.top()
	for i, name := range outTargets {
		if name != "" && i < len(mod.OutArgs()) {
			top.bind(name, outs[i])
		}
	}

	if mod.Return.Kind == types.Void {
		return graph.Handle{}, false
	}
	return outs[len(outs)-1], true
}

// inlineCall recursively inlines a non-native callee's body: binds
// in-arguments to inHandles, walks the body in a fresh scope, then reads
// back the return value and rebinds each out-argument's caller-side name
// to its final handle (spec §4.2, steps 1-3).
func (b *builder) inlineCall(callee *ast.ModuleDecl, inHandles []graph.Handle, outTargets []string) (graph.Handle, bool) {
	inner := &scope{vars: make(map[string]graph.Handle)}
	inIdx, outIdx := 0, 0
	for _, a := range callee.Arguments {
		if a.Qualifier == types.Out {
			outIdx++
			continue
		}
		if inIdx < len(inHandles) {
			inner.bind(a.Name, inHandles[inIdx])
		}
		inIdx++
	}

	saved := b.returnValue
	b.returnValue = graph.Handle{}
	b.scopes.push(inner)
	b.walkScope(callee.Body)
	result := b.returnValue
	b.returnValue = saved
	b.scopes.pop()

	outIdx = 0
	top := b.scopes.top()
	for _, a := range callee.Arguments {
		if a.Qualifier != types.Out {
			continue
		}
		if outIdx < len(outTargets) && outTargets[outIdx] != "" {
			if h, ok := inner.lookup(a.Name); ok {
				top.bind(outTargets[outIdx], h)
			}
		}
		outIdx++
	}

	if callee.IsVoid {
		return graph.Handle{}, false
	}
	return result, result.IsValid()
}
