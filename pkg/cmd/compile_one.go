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
	"os"
	"strings"

	"github.com/wavelang/compiler/pkg/ast"
	"github.com/wavelang/compiler/pkg/compiler"
	"github.com/wavelang/compiler/pkg/graph"
	"github.com/wavelang/compiler/pkg/instrument"
)

// compileOne parses, compiles and serializes a single source file, writing
// the instrument to a sibling ".wls" file (spec §6 CLI surface: "each
// source compiles to a sibling file with extension .wls") and, when
// requested, a sibling ".dot" Graphviz rendering per variant graph.
func compileOne(ctx *compiler.Context, path string, globals instrument.Globals, dot, collapsed bool) error {
	file, err := ParseFile(path)
	if err != nil {
		return err
	}

	res, err := compiler.Compile(ctx, []*ast.File{file}, globals)
	if err != nil {
		for _, d := range res.Diagnostics.All() {
			fmt.Fprintf(os.Stderr, "  %s\n", d)
		}
		return err
	}

	out, err := os.Create(siblingPath(path, ".wls"))
	if err != nil {
		return err
	}
	defer out.Close()

	if err := instrument.Save(out, res.Instrument); err != nil {
		return err
	}

	if dot {
		if err := writeVariantDots(path, res.Instrument, collapsed); err != nil {
			return err
		}
	}
	return nil
}

func writeVariantDots(path string, inst *instrument.Instrument, collapsed bool) error {
	opts := instrument.DotOptions{CollapseArrays: collapsed}
	for i, v := range inst.Variants {
		if v.Voice != nil {
			if err := writeDotFile(siblingPath(path, fmt.Sprintf(".%d.voice.dot", i)), v.Voice, "voice", opts); err != nil {
				return err
			}
		}
		if v.Fx != nil {
			if err := writeDotFile(siblingPath(path, fmt.Sprintf(".%d.fx.dot", i)), v.Fx, "fx", opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeDotFile(path string, g *graph.Graph, name string, opts instrument.DotOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return instrument.WriteDot(f, g, name, opts)
}

// siblingPath replaces path's extension with ext.
func siblingPath(path, ext string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[:i] + ext
	}
	return path + ext
}
