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

package builder

import "github.com/wavelang/compiler/pkg/graph"

// scope is one builder scope frame: unlike the validator's scope (which
// binds names to types), it binds names to the graph node handle they
// currently point at (spec §4.2: "builder scopes map names to current value
// node handles"). Rebinding a name just overwrites the map entry -- the
// single-assignment-via-rebind semantics described in spec §4.2.
type scope struct {
	vars map[string]graph.Handle
}

func (s *scope) bind(name string, h graph.Handle) {
	s.vars[name] = h
}

func (s *scope) lookup(name string) (graph.Handle, bool) {
	h, ok := s.vars[name]
	return h, ok
}

// scopeStack is the builder's explicit stack of scope frames, parallel to
// the validator's (spec §4.2, §9).
type scopeStack []*scope

func (s *scopeStack) push(sc *scope)  { *s = append(*s, sc) }
func (s *scopeStack) pop()            { *s = (*s)[:len(*s)-1] }
func (s scopeStack) top() *scope      { return s[len(s)-1] }

// lookup walks outward from the top of the stack.
func (s scopeStack) lookup(name string) (graph.Handle, *scope, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if h, ok := s[i].lookup(name); ok {
			return h, s[i], true
		}
	}
	return graph.Handle{}, nil, false
}
