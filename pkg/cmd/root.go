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

// Package cmd implements the compiler's command-line surface (spec §6 CLI
// surface). Grounded on the teacher's pkg/cmd/root.go + pkg/cmd/util.go
// (a cobra root command with flag-accessor helpers).
package cmd

import (
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/wavelang/compiler/pkg/compiler"
	"github.com/wavelang/compiler/pkg/instrument"
	"github.com/wavelang/compiler/pkg/natives"
)

// rootCmd is the base command: `compiler [-d] [-g|-G] <file> [<file>...]`
// (spec §6 CLI surface).
var rootCmd = &cobra.Command{
	Use:   "wavelangc <file> [<file>...]",
	Short: "A compiler for the WaveLang audio DSL.",
	Long:  "A compiler for the WaveLang audio DSL: validates, builds, optimizes and serializes instrument graphs.",
	RunE:  runCompile,
}

// Execute runs the root command, exiting with status 1 on error. Called
// once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("doc", "d", false, "write documentation of the registered native modules")
	rootCmd.Flags().BoolP("graphviz", "g", false, "emit Graphviz alongside the instrument")
	rootCmd.Flags().BoolP("graphviz-collapsed", "G", false, "emit Graphviz with large constant arrays collapsed")
	rootCmd.Flags().Uint32("max-voices", 1, "instrument globals: max_voices")
	rootCmd.Flags().Uint32("sample-rate", 48000, "instrument globals: sample_rate")
	rootCmd.Flags().Uint32("chunk-size", 256, "instrument globals: chunk_size")
}

// NewRegistry constructs the native-module registry consulted by every
// compilation run. Authoring concrete native modules is out of scope (spec
// §1); this returns an empty, ready-to-populate registry.
var NewRegistry = func() natives.Registry { return natives.NewMapRegistry() }

// ParseFile turns one source file into an AST, with source-location tags
// (spec §6's "consumed interface: parse tree iterator"). The lexer/parser
// themselves are out of scope (spec §1 Non-goals); an embedding build
// replaces this hook with a real implementation before linking cmd/wavelangc.
var ParseFile = defaultParseFile

func runCompile(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("wavelangc: at least one source file is required")
	}

	files, err := expandGlobs(args)
	if err != nil {
		return err
	}

	reg := NewRegistry()

	if GetFlag(cmd, "doc") {
		writeNativeModuleDocs(os.Stdout, reg)
	}

	dot := GetFlag(cmd, "graphviz")
	dotCollapsed := GetFlag(cmd, "graphviz-collapsed")

	globals := instrument.Globals{
		MaxVoices:  GetUint32(cmd, "max-voices"),
		SampleRate: GetUint32(cmd, "sample-rate"),
		ChunkSize:  GetUint32(cmd, "chunk-size"),
	}

	ctx := compiler.NewContext(reg)

	failed := false
	for _, path := range files {
		if err := compileOne(ctx, path, globals, dot || dotCollapsed, dotCollapsed); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
	return nil
}

// expandGlobs resolves each of args as a doublestar glob (spec §6 CLI
// surface: "<file> [<file>...]"), de-duplicating the result while
// preserving first-seen order.
func expandGlobs(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range args {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("wavelangc: invalid file argument %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			matches = []string{pattern}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}
