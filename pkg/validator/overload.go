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
	"fmt"

	"github.com/wavelang/compiler/pkg/ast"
	"github.com/wavelang/compiler/pkg/types"
)

// moduleOverloads tracks every overload registered under one module name
// within a single scope (spec §4.1.1).
type moduleOverloads struct {
	name      string
	overloads []*ast.ModuleDecl
}

// signature returns the ordered (qualifier, data-type) pair list for a
// module declaration's arguments -- the tuple overload resolution matches
// on (spec §4.1.1: "Module names support overloading by argument types
// (qualifier and data type...)"). Non-native module arguments declare only
// a bare DataType (spec §3.2); this validator therefore treats their
// effective qualified type as {DataType, Variable} for matching purposes --
// the conservative choice, since user code can never declare a stronger
// compile-time guarantee than "variable" for its own parameters (an Open
// Question resolution recorded in DESIGN.md).
func signature(m *ast.ModuleDecl) []types.QualifiedType {
	sig := make([]types.QualifiedType, len(m.Arguments))
	for i, a := range m.Arguments {
		sig[i] = types.NewQualifiedType(a.Type, types.Variable)
	}
	return sig
}

// exactSignatureMatch reports whether two modules declare identical
// argument qualifiers and data types (an "exact argument-type match",
// spec §4.1.1, which is a registration-time conflict).
func exactSignatureMatch(a, b *ast.ModuleDecl) bool {
	if len(a.Arguments) != len(b.Arguments) {
		return false
	}
	for i := range a.Arguments {
		if a.Arguments[i].Qualifier != b.Arguments[i].Qualifier {
			return false
		}
		if a.Arguments[i].Type != b.Arguments[i].Type {
			return false
		}
	}
	return true
}

// register adds decl as a new overload of this name. It returns an error
// (a duplicate_identifier-class conflict) if decl's signature exactly
// matches an existing overload.
func (o *moduleOverloads) register(decl *ast.ModuleDecl) error {
	for _, existing := range o.overloads {
		if exactSignatureMatch(existing, decl) {
			return fmt.Errorf("duplicate overload of %q with identical argument types", o.name)
		}
	}
	o.overloads = append(o.overloads, decl)
	return nil
}

// overloadCallResult is the outcome of resolving a call site's argument
// types against a module name's registered overloads.
type overloadCallResult struct {
	// Resolved is the matching overload, or nil if none matched.
	Resolved *ast.ModuleDecl
	// Ambiguous is true when more than one overload exists and none
	// matched exactly, which per spec §4.1.1 emits a single catch-all
	// diagnostic rather than per-argument mismatches.
	Ambiguous bool
}

// resolveCall walks every overload of o and returns the one whose declared
// argument types exactly equal argTypes (spec §4.1.1: "returns the one
// whose declared argument types exactly equal the provided types").
func (o *moduleOverloads) resolveCall(argTypes []types.DataType) overloadCallResult {
	for _, m := range o.overloads {
		if argTypesMatch(m, argTypes) {
			return overloadCallResult{Resolved: m}
		}
	}
	return overloadCallResult{Ambiguous: len(o.overloads) > 1}
}

func argTypesMatch(m *ast.ModuleDecl, argTypes []types.DataType) bool {
	if len(m.Arguments) != len(argTypes) {
		return false
	}
	for i, a := range m.Arguments {
		if a.Type != argTypes[i] {
			return false
		}
	}
	return true
}
