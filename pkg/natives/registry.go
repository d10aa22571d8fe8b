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

// Package natives defines the consumed interface to the native-module
// registry (spec §6): a read-only capability object, initialized once at
// process start and thereafter safe to share across the single-threaded
// compiler core (spec §5). The registry's own implementation -- how native
// modules are authored, registered and dispatched at runtime -- is
// deliberately out of scope (spec §1); only the directory shape the later
// stages consult is modeled here.
//
// Grounded on the teacher's treatment of its "intrinsics"/"externs" registry
// as an opaque, pre-populated lookup table consulted by the resolver and
// translator (pkg/corset/compiler/intrinsics.go, pkg/corset/compiler/externs.go)
// and on the native-module directory described in
// _examples/original_source/source/execution_graph/native_module_registry.cpp.
package natives

import "github.com/wavelang/compiler/pkg/types"

// UID identifies a native module within the registry. Opaque to the core;
// only used for equality and as a serialization key (spec §4.5/§6).
type UID uint32

// Argument describes one native-module argument slot.
type Argument struct {
	Name          string
	Qualifier     types.Qualifier
	Type          types.QualifiedType
	DataAccess    AccessPattern
}

// AccessPattern classifies how a native module reads/writes an argument's
// underlying buffer; consulted by the graph builder/optimizer only insofar
// as it participates in structural-dedup equality (spec §4.4) -- the actual
// runtime buffer semantics are the task-graph lowering layer's concern
// (out of scope, spec §1).
type AccessPattern uint8

const (
	// AccessScalar is a single-value in/out argument.
	AccessScalar AccessPattern = iota
	// AccessBuffer is a per-sample buffer in/out argument.
	AccessBuffer
)

// CompileTimeArgs is the narrow calling interface the constant evaluator
// (spec §4.3) uses to invoke a native module's compile-time implementation:
// typed argument views in, typed outputs (or a diagnostic) out.
type CompileTimeArgs struct {
	// Args holds the constant-folded in-argument values, in argument
	// declaration order; each value's Kind says which field carries it.
	Args []ConstantValue
}

// ConstantValue is a compile-time constant of one of the three data-bearing
// primitive kinds, or an array of such.
type ConstantValue struct {
	Kind     types.PrimitiveKind
	IsArray  bool
	Real     float64
	Bool     bool
	String   string
	Elements []ConstantValue
}

// CompileTimeFunc is a native module's compile-time implementation: given
// constant argument views, it returns constant results (one per out
// argument) or a diagnostic explaining why it could not evaluate.
type CompileTimeFunc func(args CompileTimeArgs) ([]ConstantValue, error)

// LatencyFunc computes a native module's output latency contribution (spec
// §4.5's "each graph writes its output latency") given its upsample factor.
type LatencyFunc func(upsampleFactor uint32) int32

// Module is the registry's directory entry for one native module (spec §6):
// {name, argument list of (name, direction, qualified type, data-access),
// optional compile-time call, optional get-latency call, optional operator
// identity, always-runs-at-compile-time flag, runs-at-compile-time-when-
// dependent-constants-are-constant flag}.
type Module struct {
	UID       UID
	Name      string
	Arguments []Argument
	Return    types.QualifiedType

	CompileTime               CompileTimeFunc
	Latency                   LatencyFunc
	OperatorIdentity          string
	AlwaysCompileTime         bool
	CompileTimeWhenDependentsConstant bool
}

// InArgs returns this module's in-qualified arguments in declaration order.
func (m *Module) InArgs() []Argument {
	var out []Argument
	for _, a := range m.Arguments {
		if a.Qualifier == types.In || a.Qualifier == types.None {
			out = append(out, a)
		}
	}
	return out
}

// OutArgs returns this module's out-qualified arguments in declaration order.
func (m *Module) OutArgs() []Argument {
	var out []Argument
	for _, a := range m.Arguments {
		if a.Qualifier == types.Out {
			out = append(out, a)
		}
	}
	return out
}

// Registry is the read-only directory of native modules consulted by the
// validator (for overload/type checking of native declarations), the graph
// builder (for arity and call-node construction) and the optimizer/constant
// evaluator (for compile-time evaluation and rule-pattern matching).
//
// Implementations become immutable after registration finalization and are
// thereafter safe to share across goroutines even though the compiler core
// itself never exercises concurrency (spec §5).
type Registry interface {
	// Lookup returns the module registered under uid.
	Lookup(uid UID) (*Module, bool)
	// LookupByName returns every native module overload registered under
	// name, in registration order.
	LookupByName(name string) []*Module
}
