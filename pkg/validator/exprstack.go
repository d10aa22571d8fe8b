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

import "github.com/wavelang/compiler/pkg/types"

// Expectation is the kind of expression a visit site requires (spec
// §4.1.3).
type Expectation uint8

const (
	// ExpectValue requires a non-void-yielding expression.
	ExpectValue Expectation = iota
	// ExpectValueless additionally permits a call to a void-returning
	// module.
	ExpectValueless
	// ExpectAssignmentTarget requires a direct named-value reference (or a
	// subscript into one).
	ExpectAssignmentTarget
)

// expectationStack is the explicit stack of pushed expectations (spec
// §4.1.3): "pushes an expected kind ... onto a stack before descending
// into sub-expressions, and pops on ascent."
type expectationStack struct {
	frames []Expectation
}

func (s *expectationStack) push(e Expectation) { s.frames = append(s.frames, e) }

func (s *expectationStack) pop() Expectation {
	n := len(s.frames) - 1
	top := s.frames[n]
	s.frames = s.frames[:n]
	return top
}

func (s *expectationStack) current() Expectation {
	return s.frames[len(s.frames)-1]
}

// ExprResult is the triple every sub-expression visit produces (spec
// §4.1.3, confirmed as exactly these three fields by
// _examples/original_source/source/compiler/ast_validator.cpp's
// s_expression_result): a resolved type, an optional bound-identifier name
// (when the expression is itself a valid assignment target), and whether
// the result actually carries a value yet.
type ExprResult struct {
	Type           types.QualifiedType
	IdentifierName string
	HasValue       bool
}

// resultStack is the explicit stack sub-expression results propagate up
// through (spec §4.1.3: "propagates up via a return stack").
type resultStack struct {
	frames []ExprResult
}

func (s *resultStack) push(r ExprResult) { s.frames = append(s.frames, r) }

func (s *resultStack) pop() ExprResult {
	n := len(s.frames) - 1
	top := s.frames[n]
	s.frames = s.frames[:n]
	return top
}

// safeResult is the placeholder substituted on error so downstream sibling
// validation remains meaningful (spec §7: "substitute safe placeholder
// types (void or a harmless default)").
var safeResult = ExprResult{Type: types.VoidType, HasValue: true}
