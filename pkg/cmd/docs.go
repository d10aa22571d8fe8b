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
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/wavelang/compiler/pkg/natives"
	"github.com/wavelang/compiler/pkg/types"
)

// writeNativeModuleDocs writes one paragraph per registered native module
// (spec §6 CLI surface: "-d writes documentation of the registered native
// modules"), wrapped to the terminal width when w is a terminal.
func writeNativeModuleDocs(w io.Writer, reg natives.Registry) {
	width := 0
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = cols
		}
	}

	all, ok := reg.(interface{ All() []*natives.Module })
	if !ok {
		return
	}

	for _, m := range all.All() {
		line := fmt.Sprintf("%s(%s)", m.Name, formatArgs(m))
		if width > 0 {
			line = wrap(line, width)
		}
		fmt.Fprintln(w, line)
	}
}

func formatArgs(m *natives.Module) string {
	parts := make([]string, len(m.Arguments))
	for i, a := range m.Arguments {
		dir := "in"
		if a.Qualifier == types.Out {
			dir = "out"
		}
		parts[i] = fmt.Sprintf("%s %s", dir, a.Name)
	}
	return strings.Join(parts, ", ")
}

func wrap(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	var b strings.Builder
	for len(s) > width {
		b.WriteString(s[:width])
		b.WriteByte('\n')
		s = s[width:]
	}
	b.WriteString(s)
	return b.String()
}
