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
	"github.com/wavelang/compiler/pkg/types"
)

// identifierRecord is a scope's binding for one name: its type, the AST
// node it is bound to, and -- for modules -- how many overloads are
// registered under this name (spec §4.1.1).
type identifierRecord struct {
	typ           types.QualifiedType
	node          ast.Node
	isModule      bool
	overloadCount int
}

// namedValueState is the per-scope, per-identity statement-tracking record
// of spec §4.1.2: when a named value was last assigned and last used, plus
// the current resolved qualified type (updated on every assignment, since a
// WaveLang name can be rebound to values of different mutability over its
// lifetime).
type namedValueState struct {
	lastStatementAssigned int32
	lastStatementUsed     int32
	currentType           types.QualifiedType
}

// scope is one lexical scope frame. The validator maintains an explicit
// stack of these (spec §9: "use an explicit stack of scope frames rather
// than recursion-captured state").
type scope struct {
	// module, if non-nil, names the module this is the outer scope of
	// (spec §4.1: "push a new scope marked as that module's outer scope").
	module *ast.ModuleDecl
	// isOuter marks this as a module's outermost scope (return/out-argument
	// rules apply only there, spec §4.1.2).
	isOuter bool

	identifiers map[string]*identifierRecord
	// order preserves identifier declaration order for deterministic
	// iteration (e.g. "all out arguments" checks at scope exit).
	order []string

	named map[ast.NodeID]*namedValueState
}

// newScope constructs an empty scope frame. The statement counter that
// namedValueState entries are compared against is owned by the module-wide
// bodyValidator, not by individual scope frames, since statement numbers
// strictly increase across nested repeat-loop scopes (spec §4.1.2).
func newScope() *scope {
	return &scope{
		identifiers: make(map[string]*identifierRecord),
		named:       make(map[ast.NodeID]*namedValueState),
	}
}

// declare registers a fresh (non-module) identifier in this scope. It
// returns false if the name is already bound in this scope (a
// duplicate_identifier error at the call site).
func (s *scope) declare(name string, rec *identifierRecord) bool {
	if _, ok := s.identifiers[name]; ok {
		return false
	}
	s.identifiers[name] = rec
	s.order = append(s.order, name)
	return true
}

// lookupLocal returns the identifier record bound to name in this scope
// only (no outward walk).
func (s *scope) lookupLocal(name string) (*identifierRecord, bool) {
	r, ok := s.identifiers[name]
	return r, ok
}

// namedValue returns (creating if absent) the statement-tracking record for
// decl within this scope.
func (s *scope) namedValue(id ast.NodeID) *namedValueState {
	nv, ok := s.named[id]
	if !ok {
		nv = &namedValueState{lastStatementAssigned: -1, lastStatementUsed: -1}
		s.named[id] = nv
	}
	return nv
}

// scopeStack is the validator's explicit stack of lexical scopes; lookups
// walk outward from the top (spec §4.1.1: "Lookup walks outward through
// the scope stack").
type scopeStack struct {
	frames []*scope
}

func (s *scopeStack) push(sc *scope) { s.frames = append(s.frames, sc) }

func (s *scopeStack) pop() *scope {
	n := len(s.frames) - 1
	top := s.frames[n]
	s.frames = s.frames[:n]
	return top
}

func (s *scopeStack) top() *scope { return s.frames[len(s.frames)-1] }

// lookup walks outward from the top of the stack, returning the first
// matching identifier record and the scope it was found in.
func (s *scopeStack) lookup(name string) (*identifierRecord, *scope, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if r, ok := s.frames[i].lookupLocal(name); ok {
			return r, s.frames[i], true
		}
	}
	return nil, nil, false
}
