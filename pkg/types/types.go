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

// Package types implements the WaveLang type system described in spec §3.1:
// primitive kinds, data types (kind + array-ness + upsample factor), data
// mutability, qualifiers and assignability. It sits at the bottom of the
// dependency order (spec §2) and is imported by every later stage.
package types

import "fmt"

// PrimitiveKind is one of the base kinds a WaveLang value may carry.  Only
// Real, Bool and String are data-bearing; Void and Module exist so that
// module declarations and statements can be typed uniformly alongside data
// values.
type PrimitiveKind uint8

const (
	// Void is the "no value" kind, used for statements and void-returning
	// modules.
	Void PrimitiveKind = iota
	// Module is the kind of a module identifier itself (never a data value).
	Module
	// Real is a floating point DSP sample value.
	Real
	// Bool is a boolean value.
	Bool
	// String is a string value (used for literals and labels).
	String
)

// String implements fmt.Stringer.
func (k PrimitiveKind) String() string {
	switch k {
	case Void:
		return "void"
	case Module:
		return "module"
	case Real:
		return "real"
	case Bool:
		return "bool"
	case String:
		return "string"
	default:
		return fmt.Sprintf("PrimitiveKind(%d)", uint8(k))
	}
}

// IsDataBearing returns true for the three kinds that can carry an actual
// runtime value (spec §3.1: "Only real/bool/string are data-bearing").
func (k PrimitiveKind) IsDataBearing() bool {
	return k == Real || k == Bool || k == String
}

// Mutability is a data-mutability qualifier attached to a QualifiedType.
// It classifies whether a value is known at compile time, conditionally so,
// or only at runtime.
type Mutability uint8

const (
	// Constant values are known at compile time.
	Constant Mutability = iota
	// DependentConstant values are "constant iff every dependent-constant
	// input is constant" -- resolved to Constant or Variable at use sites
	// (spec §3.1).
	DependentConstant
	// Variable values are only known at runtime.
	Variable
)

// String implements fmt.Stringer.
func (m Mutability) String() string {
	switch m {
	case Constant:
		return "const"
	case DependentConstant:
		return "dependent-const"
	case Variable:
		return "var"
	default:
		return fmt.Sprintf("Mutability(%d)", uint8(m))
	}
}

// StrongerOrEqual reports whether this mutability is "at least as strong" as
// other in the assignability ordering of spec §3.1: Constant is strongest,
// Variable weakest.  A value of mutability m may flow into a slot requiring
// mutability "other" when m.StrongerOrEqual(other) holds.
func (m Mutability) StrongerOrEqual(other Mutability) bool {
	return rank(m) >= rank(other)
}

// Resolve collapses DependentConstant down to either Constant or Variable,
// given whether the dependent inputs that fed it were all constant. Plain
// Constant/Variable values are returned unchanged.
func (m Mutability) Resolve(allDependentsConstant bool) Mutability {
	if m != DependentConstant {
		return m
	}
	if allDependentsConstant {
		return Constant
	}
	return Variable
}

func rank(m Mutability) int {
	switch m {
	case Constant:
		return 2
	case DependentConstant:
		return 1
	case Variable:
		return 0
	default:
		return -1
	}
}

// Qualifier is the argument/named-value direction qualifier of spec §3.1.
type Qualifier uint8

const (
	// None is an ordinary (non-argument) named value.
	None Qualifier = iota
	// In is an input argument: readable, considered assigned at statement 0.
	In
	// Out is an output argument: must be written before scope exit.
	Out
)

// String implements fmt.Stringer.
func (q Qualifier) String() string {
	switch q {
	case None:
		return "none"
	case In:
		return "in"
	case Out:
		return "out"
	default:
		return fmt.Sprintf("Qualifier(%d)", uint8(q))
	}
}

// DataType is a primitive kind, an array-ness flag, and a positive upsample
// factor (spec §3.1).
type DataType struct {
	Kind           PrimitiveKind
	IsArray        bool
	UpsampleFactor uint32
}

// NewDataType constructs a scalar data type at the base (1x) sample rate.
func NewDataType(kind PrimitiveKind) DataType {
	return DataType{Kind: kind, IsArray: false, UpsampleFactor: 1}
}

// NewArrayDataType constructs an array data type at the base sample rate.
func NewArrayDataType(elem PrimitiveKind) DataType {
	return DataType{Kind: elem, IsArray: true, UpsampleFactor: 1}
}

// WithUpsample returns a copy of this data type at the given upsample
// factor.  A factor of 0 is invalid and panics -- upsample factors are
// always >= 1 per spec §3.1.
func (t DataType) WithUpsample(factor uint32) DataType {
	if factor == 0 {
		panic("wavelang/types: upsample factor must be >= 1")
	}
	t.UpsampleFactor = factor
	return t
}

// String implements fmt.Stringer.
func (t DataType) String() string {
	suffix := ""
	if t.IsArray {
		suffix = "[]"
	}
	if t.UpsampleFactor > 1 {
		return fmt.Sprintf("%s%s@%dx", t.Kind, suffix, t.UpsampleFactor)
	}
	return fmt.Sprintf("%s%s", t.Kind, suffix)
}

// upsampleCompatible implements spec §3.1's "upsample factors are
// compatible (1 is polymorphic)" rule: a factor of 1 matches any factor,
// otherwise the factors must match exactly.
func upsampleCompatible(from, to uint32) bool {
	if from == 1 || to == 1 {
		return true
	}
	return from == to
}

// ShapeEqual reports whether two data types have the same primitive kind and
// array-ness, ignoring upsample factor and mutability. Used by the graph's
// structural dedup (spec §4.4) and the optimizer's placeholder matching.
func (t DataType) ShapeEqual(other DataType) bool {
	return t.Kind == other.Kind && t.IsArray == other.IsArray
}

// QualifiedType adds a Mutability to a DataType (spec §3.1).
type QualifiedType struct {
	DataType
	Mutability Mutability
}

// NewQualifiedType constructs a qualified type.
func NewQualifiedType(dt DataType, mut Mutability) QualifiedType {
	return QualifiedType{DataType: dt, Mutability: mut}
}

// String implements fmt.Stringer.
func (t QualifiedType) String() string {
	return fmt.Sprintf("%s %s", t.Mutability, t.DataType)
}

// AssignableTo implements spec §3.1's assignability relation: a value of
// type s may flow into a slot of type t when (a) primitive kind and
// array-ness match, (b) upsample factors are compatible, and (c) s's
// mutability is at least as strong as t's (constant -> variable is allowed,
// variable -> constant is not).
func (s QualifiedType) AssignableTo(t QualifiedType) bool {
	if s.Kind != t.Kind || s.IsArray != t.IsArray {
		return false
	}
	if !upsampleCompatible(s.UpsampleFactor, t.UpsampleFactor) {
		return false
	}
	return s.Mutability.StrongerOrEqual(t.Mutability)
}

// VoidType is the canonical qualified void type, used as a safe placeholder
// result for error recovery (spec §7: "substitute safe placeholder types").
var VoidType = NewQualifiedType(NewDataType(Void), Variable)

// IsVoid reports whether this qualified type is the void type.
func (t QualifiedType) IsVoid() bool {
	return t.Kind == Void
}
