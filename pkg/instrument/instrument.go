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

package instrument

import (
	"fmt"

	"github.com/wavelang/compiler/pkg/natives"
)

// Instrument is an ordered set of instrument variants (spec §3.4).
type Instrument struct {
	Variants []Variant
}

// Validate checks that every variant is valid (spec §3.4).
func (in *Instrument) Validate(reg natives.Registry) error {
	for i := range in.Variants {
		if err := in.Variants[i].Validate(reg); err != nil {
			return fmt.Errorf("wavelang/instrument: variant %d: %w", i, err)
		}
	}
	return nil
}
