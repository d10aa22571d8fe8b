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

package cmd

import (
	"fmt"

	"github.com/wavelang/compiler/pkg/ast"
)

// defaultParseFile is the built-in ParseFile hook. The lexer/parser that
// turns WaveLang source text into an *ast.File is a consumed, out-of-scope
// interface (spec §1 Non-goals, §6 "consumed interfaces: parse tree
// iterator"); this binary has no such front end wired in, so every
// compilation fails fast with a clear message rather than silently
// producing an empty AST.
func defaultParseFile(path string) (*ast.File, error) {
	return nil, fmt.Errorf("wavelangc: no source parser is linked into this build (path %q)", path)
}
