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

package ast

import (
	"github.com/wavelang/compiler/pkg/natives"
	"github.com/wavelang/compiler/pkg/types"
)

// NamedValueDecl declares a fresh identity for a named value: a name, a
// qualifier, and a data type (spec §3.2). Two declarations with the same
// name in disjoint scopes are distinct identities even if they share a name.
type NamedValueDecl struct {
	Base
	Name      string
	Qualifier types.Qualifier
	Type      types.DataType
}

// ID/Span are inherited from Base; NamedValueDecl is not itself a Statement
// (it's referenced by argument lists and by NamedValueRef), so no
// statementNode() marker is needed.

// ModuleDecl is a module declaration: name, native flag (with registry UID
// when native), return type, ordered argument list, and a body scope
// (absent for native modules) (spec §3.2).
//
// Invariant (spec §3.2): for a non-native module, Arguments resolve in
// Body's scope. They are not stored in Body.Children; instead the
// validator/builder register them as identifiers of the module's outer
// scope when they start walking Body (spec §4.1, §4.2). The ModuleDecl
// here stores Arguments as the authoritative ordered list; Body is the
// scope in which they resolve.
type ModuleDecl struct {
	Base
	Name       string
	Native     bool
	NativeUID  natives.UID
	Return     types.DataType
	IsVoid     bool
	Arguments  []*NamedValueDecl
	Body       *Scope // nil when Native
}

// IsEntryPointCandidate reports whether this declaration's name matches one
// of the two recognized entry-point names (spec §4.1.5).
func (m *ModuleDecl) IsEntryPointCandidate() bool {
	return m.Name == VoiceEntryPointName || m.Name == FxEntryPointName
}

const (
	// VoiceEntryPointName is the recognized name of the per-voice processor
	// entry point (spec §4.1.5).
	VoiceEntryPointName = "voice_main"
	// FxEntryPointName is the recognized name of the optional fx processor
	// entry point (spec §4.1.5).
	FxEntryPointName = "fx_main"
)

// File is the root of one parsed WaveLang source file: an ordered list of
// top-level module declarations. Multiple Files may be combined by the
// validator's pass 1 (spec §4.1) to support cross-file module visibility,
// mediated by the compiler context's import-visibility bitset (spec §6).
type File struct {
	Path    string
	Modules []*ModuleDecl
}
