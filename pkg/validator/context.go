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

// Package validator implements the two-pass AST validator of spec §4.1: a
// scope- and statement-number-aware checker that resolves overloaded
// modules by argument types, enforces definite assignment, tracks
// per-statement read/write ordering, and detects module-call cycles.
//
// Grounded on the teacher's two-phase resolver (pkg/corset/resolver.go,
// pkg/corset/scope.go, pkg/corset/binding.go): corset's resolver similarly
// walks declarations to register global bindings before descending into
// function/constraint bodies, and its ModuleScope/Binding split (an
// identifier-to-binding map per lexical scope, with function bindings
// additionally supporting overload resolution via FunctionBinding.Select)
// is the direct model for Scope/IdentifierRecord/OverloadSet below.
package validator

import (
	"github.com/wavelang/compiler/pkg/natives"
)

// ImportVisibility answers, for a given pair of source files, whether
// module declarations in "from" are visible for calls made in "to" (spec
// §6: "a per-source-file import visibility bitset used by the validator to
// reject 'imported-by-transitive-closure' module calls"). The
// preprocessor that computes this bitset is an external collaborator
// (spec §1). Validate receives it through Context but never calls Visible,
// so cross-file module calls are not checked against it.
type ImportVisibility interface {
	// Visible reports whether a module declared in file "from" may be
	// called from file "to".
	Visible(from, to string) bool
}

// Context bundles the validator's upstream dependencies (spec §6: "Compiler
// context").
type Context struct {
	Natives    natives.Registry
	Visibility ImportVisibility
}

// alwaysVisible is a trivial ImportVisibility used when the caller has only
// a single source file (or wants no import restriction applied).
type alwaysVisible struct{}

func (alwaysVisible) Visible(from, to string) bool { return true }

// AlwaysVisible returns an ImportVisibility that permits every cross-file
// call, suitable for single-file compilations or tests.
func AlwaysVisible() ImportVisibility { return alwaysVisible{} }
