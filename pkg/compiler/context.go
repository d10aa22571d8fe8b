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

// Package compiler wires the validator, graph builder, optimizer and
// instrument stages into the single compilation pipeline of spec §2: AST ->
// validate -> build -> optimize -> assemble instrument.
package compiler

import (
	"github.com/sirupsen/logrus"

	"github.com/wavelang/compiler/pkg/builder"
	"github.com/wavelang/compiler/pkg/natives"
	"github.com/wavelang/compiler/pkg/optimizer"
	"github.com/wavelang/compiler/pkg/validator"
)

// Context bundles every upstream dependency and tunable the pipeline needs
// (spec §6: "Compiler context"), plus the ambient logging and configuration
// concerns the distilled spec leaves implicit.
type Context struct {
	// Natives is the native-module registry consulted by every stage.
	Natives natives.Registry
	// Visibility answers cross-file module-call visibility for the
	// validator. Defaults to validator.AlwaysVisible() when nil.
	Visibility validator.ImportVisibility
	// Rules is the optimizer's rule registry. A nil Rules runs the
	// optimizer with no rewrite rules (dead-code removal and dedup only).
	Rules *optimizer.Registry

	// Builder configures the graph builder (repeat-loop unrolling bound).
	Builder builder.Config
	// Optimizer configures the fixed-point optimizer loop.
	Optimizer optimizer.Config

	// Logger receives structured, leveled progress logging about pass
	// entry/exit and rewrite/dedup counts (spec §A.2) -- never compiler
	// diagnostics themselves, which flow through pkg/diag.
	Logger logrus.FieldLogger
}

// logger returns ctx.Logger, falling back to the standard logrus logger for
// a zero-value Context.
func (ctx *Context) logger() logrus.FieldLogger {
	if ctx.Logger != nil {
		return ctx.Logger
	}
	return logrus.StandardLogger()
}

// visibility returns ctx.Visibility, falling back to validator.AlwaysVisible
// for a zero-value Context.
func (ctx *Context) visibility() validator.ImportVisibility {
	if ctx.Visibility != nil {
		return ctx.Visibility
	}
	return validator.AlwaysVisible()
}

// NewContext constructs a Context with the documented defaults: no import
// restriction, the builder/optimizer package defaults, and a standard
// logrus logger.
func NewContext(reg natives.Registry) *Context {
	return &Context{
		Natives:    reg,
		Visibility: validator.AlwaysVisible(),
		Builder:    builder.DefaultConfig(),
		Optimizer:  optimizer.DefaultConfig(),
		Logger:     logrus.StandardLogger(),
	}
}
