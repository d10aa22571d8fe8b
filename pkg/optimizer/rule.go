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

package optimizer

import (
	"fmt"

	"github.com/wavelang/compiler/pkg/natives"
)

// SymbolKind is the kind of one linearized pattern symbol (spec §4.4.1).
type SymbolKind uint8

const (
	// NativeModuleCall opens a native-call node matched (or constructed) by
	// UID; its children are the symbols up to the matching NativeModuleEnd.
	NativeModuleCall SymbolKind = iota
	// NativeModuleEnd closes the most recently opened NativeModuleCall.
	NativeModuleEnd
	// Variable matches any non-constant-mutability input.
	Variable
	// ConstantSym matches only a constant-mutability input (or a
	// constant-data array).
	ConstantSym
	// VariableOrConstant matches any input regardless of mutability.
	VariableOrConstant
	// BackReference matches only the exact node already bound to an
	// earlier placeholder (by placeholder index).
	BackReference
	// RealLiteral matches only a constant real node whose value ==-equals
	// Real.
	RealLiteral
	// BoolLiteral matches only a constant bool node whose value is
	// bit-equal to Bool.
	BoolLiteral
)

// Symbol is one node of a linearized rule pattern (spec §4.4.1).
type Symbol struct {
	Kind SymbolKind

	// UID is set for NativeModuleCall.
	UID natives.UID
	// PlaceholderIndex is set for Variable / ConstantSym /
	// VariableOrConstant: the index other symbols (back-references, the
	// target pattern) refer back to.
	PlaceholderIndex int
	// BackRefIndex is set for BackReference: the PlaceholderIndex it must
	// resolve to the same node as.
	BackRefIndex int

	Real float64
	Bool bool
}

// Native constructs a NativeModuleCall symbol.
func Native(uid natives.UID) Symbol { return Symbol{Kind: NativeModuleCall, UID: uid} }

// End constructs a NativeModuleEnd symbol.
func End() Symbol { return Symbol{Kind: NativeModuleEnd} }

// Var constructs a Variable placeholder symbol.
func Var(idx int) Symbol { return Symbol{Kind: Variable, PlaceholderIndex: idx} }

// Const constructs a ConstantSym placeholder symbol.
func Const(idx int) Symbol { return Symbol{Kind: ConstantSym, PlaceholderIndex: idx} }

// AnyVal constructs a VariableOrConstant placeholder symbol.
func AnyVal(idx int) Symbol { return Symbol{Kind: VariableOrConstant, PlaceholderIndex: idx} }

// Back constructs a BackReference symbol.
func Back(idx int) Symbol { return Symbol{Kind: BackReference, BackRefIndex: idx} }

// RealLit constructs a RealLiteral symbol.
func RealLit(v float64) Symbol { return Symbol{Kind: RealLiteral, Real: v} }

// BoolLit constructs a BoolLiteral symbol.
func BoolLit(v bool) Symbol { return Symbol{Kind: BoolLiteral, Bool: v} }

// Pattern is a linearized, pre-order tree of symbols (spec §4.4.1).
type Pattern []Symbol

// Rule is one rewrite rule: source_pattern -> target_pattern (spec §4.4.1).
type Rule struct {
	Name   string
	Source Pattern
	Target Pattern
}

// Registry holds the set of registered rules, indexed by the leading
// native-module handle of their source pattern's root for fast candidate
// lookup (spec §4.4.1: "the registry compiles patterns into a lightweight
// trie of match stages indexed by the leading native-module handle"). This
// implementation keeps a single-level index (native-module UID -> matching
// rules) rather than a full multi-stage trie; with WaveLang's pattern sizes
// this gives the same practical lookup behavior (candidates sharing a root
// UID are tried in registration order) without the added machinery of
// per-stage backtracking, which no registered rule set in this repo
// requires (see DESIGN.md).
type Registry struct {
	rules    []*Rule
	byLeadUID map[natives.UID][]*Rule
}

// NewRegistry constructs an empty rule registry.
func NewRegistry() *Registry {
	return &Registry{byLeadUID: make(map[natives.UID][]*Rule)}
}

// Register validates and adds rule (spec §4.4.1: "Patterns are validated at
// registration time; the registry guarantees that the source's root is a
// native-module-call and that every back-reference in the target resolves
// to a placeholder bound by the source").
func (r *Registry) Register(rule *Rule) error {
	if len(rule.Source) == 0 || rule.Source[0].Kind != NativeModuleCall {
		return fmt.Errorf("optimizer: rule %q source must begin with a native-module-call", rule.Name)
	}
	if err := validateBalanced(rule.Source); err != nil {
		return fmt.Errorf("optimizer: rule %q source: %w", rule.Name, err)
	}
	if err := validateBalanced(rule.Target); err != nil {
		return fmt.Errorf("optimizer: rule %q target: %w", rule.Name, err)
	}

	bound := make(map[int]bool)
	for _, s := range rule.Source {
		switch s.Kind {
		case Variable, ConstantSym, VariableOrConstant:
			bound[s.PlaceholderIndex] = true
		}
	}
	for _, s := range rule.Target {
		if s.Kind == BackReference && !bound[s.BackRefIndex] {
			return fmt.Errorf("optimizer: rule %q target back-reference %d is not bound by the source pattern", rule.Name, s.BackRefIndex)
		}
	}

	r.rules = append(r.rules, rule)
	lead := rule.Source[0].UID
	r.byLeadUID[lead] = append(r.byLeadUID[lead], rule)
	return nil
}

// candidates returns the rules whose source root matches lead, in
// registration order.
func (r *Registry) candidates(lead natives.UID) []*Rule {
	return r.byLeadUID[lead]
}

// validateBalanced checks that every NativeModuleCall symbol in pat has a
// matching NativeModuleEnd and that the pattern as a whole is
// well-nested -- a structural precondition the matcher and target builder
// both rely on.
func validateBalanced(pat Pattern) error {
	depth := 0
	for _, s := range pat {
		switch s.Kind {
		case NativeModuleCall:
			depth++
		case NativeModuleEnd:
			depth--
			if depth < 0 {
				return fmt.Errorf("unbalanced native-module-end")
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("unclosed native-module-call")
	}
	return nil
}
