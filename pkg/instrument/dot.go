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
	"io"
	"strings"

	"github.com/wavelang/compiler/pkg/graph"
	"github.com/wavelang/compiler/pkg/types"
)

// DotOptions controls Graphviz rendering (spec §6 CLI surface: "-g emits
// Graphviz alongside the instrument; -G emits Graphviz with large constant
// arrays collapsed").
type DotOptions struct {
	// CollapseArrays labels any array node with more than CollapseThreshold
	// elements "array[...]" instead of "array[n]" (a threshold of 0 means
	// 8). The element nodes themselves are still drawn.
	CollapseArrays   bool
	CollapseThreshold int
}

// WriteDot renders g as a Graphviz digraph to w, labeling each node by its
// type and, for constants, its value.
func WriteDot(w io.Writer, g *graph.Graph, name string, opts DotOptions) error {
	if opts.CollapseThreshold == 0 {
		opts.CollapseThreshold = 8
	}

	fmt.Fprintf(w, "digraph %s {\n", dotQuote(name))
	fmt.Fprintln(w, "  rankdir=TB;")

	for _, h := range g.Nodes() {
		fmt.Fprintf(w, "  %s [label=%s];\n", dotNodeID(h), dotQuote(dotLabel(g, h, opts)))
	}
	for _, h := range g.Nodes() {
		for _, out := range g.OutEdges(h) {
			fmt.Fprintf(w, "  %s -> %s;\n", dotNodeID(h), dotNodeID(out))
		}
	}
	fmt.Fprintln(w, "}")
	return nil
}

func dotNodeID(h graph.Handle) string {
	return "n" + strings.ReplaceAll(strings.TrimPrefix(h.String(), "#"), ".", "_")
}

func dotQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func dotLabel(g *graph.Graph, h graph.Handle, opts DotOptions) string {
	switch n := g.Node(h).(type) {
	case *graph.ConstantNode:
		switch n.QType.Kind {
		case types.Bool:
			return fmt.Sprintf("const %t", n.Bool)
		case types.String:
			return fmt.Sprintf("const %q", g.Strings().Get(n.StringOffset))
		default:
			return fmt.Sprintf("const %v", n.Real)
		}
	case *graph.ArrayNode:
		if opts.CollapseArrays && int(n.ElementCount) > opts.CollapseThreshold {
			return "array[...]"
		}
		return fmt.Sprintf("array[%d]", n.ElementCount)
	case *graph.NativeCallNode:
		return fmt.Sprintf("call %d @x%d", n.Module, n.UpsampleFactor)
	case *graph.IndexedInputNode:
		return fmt.Sprintf("in[%d]", n.Index)
	case *graph.IndexedOutputNode:
		return fmt.Sprintf("out[%d]", n.Index)
	case *graph.InputNode:
		return fmt.Sprintf("input[%d]", n.Index)
	case *graph.OutputNode:
		if n.Index == graph.RemainActiveIndex {
			return "output[remain_active]"
		}
		return fmt.Sprintf("output[%d]", n.Index)
	default:
		return g.NodeType(h).String()
	}
}
