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

// Package optimizer implements the fixed-point graph optimizer of spec
// §4.4: dead-node removal, rule-directed rewriting (§4.4.1) and
// deduplication, iterated until a pass performs neither a rewrite nor a
// dedup.
//
// Grounded on the teacher's optimiser pass pipeline (pkg/mir/optimiser.go):
// both run a named, ordered list of passes to a fixed point over an
// intermediate representation, reporting whether any pass actually changed
// anything so the driver knows when to stop.
package optimizer

// Config bundles the optimizer's tunables, modeled directly on
// mir.OptimisationConfig / mir.OPTIMISATION_LEVELS (pkg/mir/optimiser.go):
// a small struct of named toggles plus a documented default, rather than
// free-floating booleans threaded through every call.
type Config struct {
	// Dedup enables the deduplication phase (spec §4.4 step 3). Disabling
	// it is occasionally useful when diffing pre/post-rewrite graphs in
	// tests.
	Dedup bool
	// MaxIterations bounds the fixed-point loop as a backstop against a
	// misbehaving rule causing non-termination; the loop ordinarily
	// terminates far earlier when a pass performs no rewrite and no dedup.
	MaxIterations int
}

// DefaultConfig returns the optimizer's default tuning: every phase
// enabled, a generous iteration backstop.
func DefaultConfig() Config {
	return Config{Dedup: true, MaxIterations: 1000}
}
