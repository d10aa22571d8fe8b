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

package types

import "testing"

func TestMutabilityStrongerOrEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Mutability
		want bool
	}{
		{"const stronger than var", Constant, Variable, true},
		{"const equal const", Constant, Constant, true},
		{"var not stronger than const", Variable, Constant, false},
		{"dependent-const stronger than var", DependentConstant, Variable, true},
		{"const stronger than dependent-const", Constant, DependentConstant, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.StrongerOrEqual(tt.b); got != tt.want {
				t.Errorf("%s.StrongerOrEqual(%s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMutabilityResolve(t *testing.T) {
	if got := DependentConstant.Resolve(true); got != Constant {
		t.Errorf("Resolve(true) = %s, want const", got)
	}
	if got := DependentConstant.Resolve(false); got != Variable {
		t.Errorf("Resolve(false) = %s, want var", got)
	}
	if got := Constant.Resolve(false); got != Constant {
		t.Errorf("Resolve on plain Constant = %s, want const unchanged", got)
	}
}

func TestDataTypeWithUpsamplePanicsOnZero(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("WithUpsample(0) did not panic")
		}
	}()
	NewDataType(Real).WithUpsample(0)
}

func TestQualifiedTypeAssignableTo(t *testing.T) {
	realConst1x := NewQualifiedType(NewDataType(Real), Constant)
	realVar1x := NewQualifiedType(NewDataType(Real), Variable)
	realVar2x := NewQualifiedType(NewDataType(Real).WithUpsample(2), Variable)
	boolVar1x := NewQualifiedType(NewDataType(Bool), Variable)
	realArrayVar1x := NewQualifiedType(NewArrayDataType(Real), Variable)

	tests := []struct {
		name string
		s, t QualifiedType
		want bool
	}{
		{"const real flows into var real slot", realConst1x, realVar1x, true},
		{"var real does not flow into const real slot", realVar1x, realConst1x, false},
		{"1x upsample is polymorphic into 2x slot", realVar1x, realVar2x, true},
		{"2x upsample is polymorphic into 1x slot", realVar2x, realVar1x, true},
		{"mismatched kind is never assignable", realVar1x, boolVar1x, false},
		{"mismatched array-ness is never assignable", realVar1x, realArrayVar1x, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.AssignableTo(tt.t); got != tt.want {
				t.Errorf("%s.AssignableTo(%s) = %v, want %v", tt.s, tt.t, got, tt.want)
			}
		})
	}
}

func TestUpsampleIncompatibleMismatch(t *testing.T) {
	real3x := NewQualifiedType(NewDataType(Real).WithUpsample(3), Variable)
	real4x := NewQualifiedType(NewDataType(Real).WithUpsample(4), Variable)
	if real3x.AssignableTo(real4x) {
		t.Errorf("distinct non-1x upsample factors should not be assignable")
	}
}

func TestVoidType(t *testing.T) {
	if !VoidType.IsVoid() {
		t.Errorf("VoidType.IsVoid() = false, want true")
	}
	if NewQualifiedType(NewDataType(Real), Variable).IsVoid() {
		t.Errorf("real type reported as void")
	}
}

func TestShapeEqual(t *testing.T) {
	a := NewDataType(Real).WithUpsample(1)
	b := NewDataType(Real).WithUpsample(4)
	if !a.ShapeEqual(b) {
		t.Errorf("ShapeEqual should ignore upsample factor")
	}
	if a.ShapeEqual(NewArrayDataType(Real)) {
		t.Errorf("ShapeEqual should distinguish array-ness")
	}
}
