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

// Package instrument implements the instrument-variant data model and
// serialization format of spec §3.4/§4.5/§6: a variant bundles instrument
// globals and up to two native-module graphs, and an instrument is an
// ordered set of variants.
package instrument

// Globals is one variant's instrument_globals header (spec §3.4): max
// voices, sample rate, chunk size, and a flags word carrying
// activate-fx-immediately (spec §4.5 names this field directly;
// §6's wire layout generalizes it to "flags", so this type keeps the bit
// under a named accessor rather than widening the struct).
type Globals struct {
	MaxVoices  uint32
	SampleRate uint32
	ChunkSize  uint32
	Flags      uint32
}

// FlagActivateFxImmediately is the Flags bit for the activate-fx-immediately
// setting (spec §4.5).
const FlagActivateFxImmediately uint32 = 1 << 0

// ActivateFxImmediately reports whether this variant's fx graph should
// activate immediately rather than waiting for the voice graph's first
// remain_active transition.
func (g Globals) ActivateFxImmediately() bool {
	return g.Flags&FlagActivateFxImmediately != 0
}

// SetActivateFxImmediately sets or clears the activate-fx-immediately flag.
func (g *Globals) SetActivateFxImmediately(v bool) {
	if v {
		g.Flags |= FlagActivateFxImmediately
	} else {
		g.Flags &^= FlagActivateFxImmediately
	}
}
