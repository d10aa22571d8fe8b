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

// Package diag implements the fixed diagnostic taxonomy of spec §7 and the
// accumulation policy of spec §5/§7: validator and builder passes gather
// diagnostics in traversal order rather than aborting on first error,
// substituting safe placeholder results so sibling validation stays
// meaningful. Modeled on the teacher's source.SyntaxError / source.Maps
// pattern (pkg/util/source/source_file.go, pkg/util/source/source_map.go).
package diag

import "fmt"

// Code classifies a Diagnostic according to the fixed taxonomy of spec §7.
type Code uint16

const (
	// CodeUnknown is never emitted; it is the zero value guard.
	CodeUnknown Code = iota

	// Import-resolution errors.
	MissingImport

	// Type / data-type errors.
	TypeMismatch
	QualifierMismatch

	// Identifier errors.
	UndeclaredIdentifier
	DuplicateIdentifier
	AmbiguousIdentifier

	// Assignment-discipline errors (spec §4.1.2).
	UnassignedOutArgument
	AmbiguousNamedValueAssignment
	InvalidAssignmentTarget
	UnassignedNamedValueUsed
	UnassignedArrayIndexTarget

	// Control-flow errors.
	StatementsAfterReturn
	DuplicateReturn
	MissingReturn
	ExtraneousReturn

	// Module-resolution errors (spec §4.1.1).
	EmptyModuleOverloadResolution
	PerArgumentTypeMismatch
	NotCallable

	// Entry-point errors (spec §4.1.5).
	EntryPointOverloaded
	EntryPointBadReturnType
	EntryPointBadArgumentType
	EntryPointBadQualifier
	EntryPointArityMismatch
	MissingEntryPoint

	// Cycle errors (spec §4.1.4).
	CyclicModuleCall

	// Constant-evaluation errors (spec §4.2/§4.3).
	ConstantExpected
	InvalidArrayIndex
	InvalidLoopCount

	// Expression-expectation errors (spec §4.1.3).
	NamedValueExpected
	ValuelessCallRequired

	// Native-module-implementation errors, surfaced from compile-time
	// callees via the narrow diagnostic interface of spec §4.3.
	NativeModuleError
)

var names = map[Code]string{
	CodeUnknown:                   "unknown",
	MissingImport:                 "missing_import",
	TypeMismatch:                  "type_mismatch",
	QualifierMismatch:             "qualifier_mismatch",
	UndeclaredIdentifier:          "undeclared_identifier",
	DuplicateIdentifier:           "duplicate_identifier",
	AmbiguousIdentifier:           "ambiguous_identifier",
	UnassignedOutArgument:         "unassigned_out_argument",
	AmbiguousNamedValueAssignment: "ambiguous_named_value_assignment",
	InvalidAssignmentTarget:       "invalid_assignment_target",
	UnassignedNamedValueUsed:      "unassigned_named_value_used",
	UnassignedArrayIndexTarget:    "unassigned_array_index_target",
	StatementsAfterReturn:         "statements_after_return",
	DuplicateReturn:               "duplicate_return",
	MissingReturn:                 "missing_return",
	ExtraneousReturn:              "extraneous_return",
	EmptyModuleOverloadResolution: "empty_module_overload_resolution",
	PerArgumentTypeMismatch:       "per_argument_type_mismatch",
	NotCallable:                   "not_callable",
	EntryPointOverloaded:          "entry_point_overloaded",
	EntryPointBadReturnType:       "entry_point_bad_return_type",
	EntryPointBadArgumentType:     "entry_point_bad_argument_type",
	EntryPointBadQualifier:        "entry_point_bad_qualifier",
	EntryPointArityMismatch:       "entry_point_arity_mismatch",
	MissingEntryPoint:             "missing_entry_point",
	CyclicModuleCall:              "cyclic_module_call",
	ConstantExpected:              "constant_expected",
	InvalidArrayIndex:             "invalid_array_index",
	InvalidLoopCount:              "invalid_loop_count",
	NamedValueExpected:            "named_value_expected",
	ValuelessCallRequired:         "valueless_call_required",
	NativeModuleError:             "native_module_error",
}

// String implements fmt.Stringer.
func (c Code) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("Code(%d)", uint16(c))
}

// Span identifies a contiguous byte range within a single source file. It is
// retained as physical indices (rather than a string slice) so that line
// information can be recovered lazily by the (external) reporting layer.
type Span struct {
	File  string
	Start int
	End   int
}

// Diagnostic is a single structured compiler fault: a source location, a
// taxonomy classifier, and a human-readable message (spec §7).
type Diagnostic struct {
	Span    Span
	Code    Code
	Message string
}

// Error implements the error interface so a Diagnostic can be used wherever
// plain Go errors are expected (e.g. returned from the narrow native-module
// compile-time calling interface of spec §4.3).
func (d Diagnostic) Error() string {
	if d.Span.File != "" {
		return fmt.Sprintf("%s:%d-%d: %s: %s", d.Span.File, d.Span.Start, d.Span.End, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// New constructs a Diagnostic.
func New(span Span, code Code, format string, args ...any) Diagnostic {
	return Diagnostic{Span: span, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Bag accumulates diagnostics in traversal order (spec §5: "Diagnostic
// messages are emitted in traversal order").
type Bag struct {
	diags []Diagnostic
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(d Diagnostic) {
	b.diags = append(b.diags, d)
}

// Addf is a convenience wrapper around Add/New.
func (b *Bag) Addf(span Span, code Code, format string, args ...any) {
	b.Add(New(span, code, format, args...))
}

// HasErrors reports whether any diagnostic has been recorded. Per spec §7,
// "Compilation aborts after the validator pass if any diagnostic was
// emitted".
func (b *Bag) HasErrors() bool {
	return len(b.diags) > 0
}

// All returns the accumulated diagnostics in emission order.
func (b *Bag) All() []Diagnostic {
	return b.diags
}

// Extend appends every diagnostic from other onto this bag, preserving
// traversal order.
func (b *Bag) Extend(other *Bag) {
	if other == nil {
		return
	}
	b.diags = append(b.diags, other.diags...)
}
