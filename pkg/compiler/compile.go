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

package compiler

import (
	"errors"

	"github.com/wavelang/compiler/pkg/ast"
	"github.com/wavelang/compiler/pkg/builder"
	"github.com/wavelang/compiler/pkg/diag"
	"github.com/wavelang/compiler/pkg/graph"
	"github.com/wavelang/compiler/pkg/instrument"
	"github.com/wavelang/compiler/pkg/optimizer"
	"github.com/wavelang/compiler/pkg/validator"
)

// ErrValidationFailed is returned when the validator pass emitted at least
// one diagnostic (spec §7: "Compilation aborts after the validator pass if
// any diagnostic was emitted"). The diagnostics themselves are on
// Result.Diagnostics.
var ErrValidationFailed = errors.New("wavelang/compiler: validation failed")

// ErrBuildFailed is returned when the graph builder could not construct a
// valid graph for an entry point (spec §7: "otherwise it aborts after the
// builder pass on first diagnostic").
var ErrBuildFailed = errors.New("wavelang/compiler: graph construction failed")

// Result is one source compilation's output: the assembled instrument (nil
// on failure) and every diagnostic accumulated along the way.
type Result struct {
	Instrument  *instrument.Instrument
	Diagnostics *diag.Bag
}

// Compile runs files through validate -> build -> optimize -> assemble for
// a single instrument variant (spec §6 CLI surface: "each source compiles
// to a sibling file"), using globals as that variant's instrument_globals
// header (spec §3.4).
func Compile(ctx *Context, files []*ast.File, globals instrument.Globals) (*Result, error) {
	log := ctx.logger()

	vctx := &validator.Context{Natives: ctx.Natives, Visibility: ctx.visibility()}
	vres, bag := validator.Validate(files, vctx)
	log.WithField("diagnostics", len(bag.All())).Debug("validator pass complete")
	if bag.HasErrors() {
		return &Result{Diagnostics: bag}, ErrValidationFailed
	}

	variant := instrument.Variant{Globals: globals}

	if vres.FoundVoice() {
		g, err := ctx.buildAndOptimize(vres.VoiceEntry, false, bag)
		if err != nil {
			return &Result{Diagnostics: bag}, err
		}
		variant.Voice = g
	}
	if vres.FoundFx() {
		g, err := ctx.buildAndOptimize(vres.FxEntry, true, bag)
		if err != nil {
			return &Result{Diagnostics: bag}, err
		}
		variant.Fx = g
	}

	inst := &instrument.Instrument{Variants: []instrument.Variant{variant}}
	if err := inst.Validate(ctx.Natives); err != nil {
		log.WithError(err).Error("assembled instrument failed validation")
		return &Result{Diagnostics: bag}, err
	}

	log.Debug("compilation complete")
	return &Result{Instrument: inst, Diagnostics: bag}, nil
}

func (ctx *Context) buildAndOptimize(entry *ast.ModuleDecl, isFxGraph bool, bag *diag.Bag) (*graph.Graph, error) {
	res := builder.Build(entry, isFxGraph, ctx.Natives, ctx.Builder)
	bag.Extend(res.Diagnostics)
	if !res.OK {
		return nil, ErrBuildFailed
	}
	changed := optimizer.Run(res.Graph, ctx.Natives, ctx.Rules, ctx.Optimizer)
	ctx.logger().WithField("changed", changed).WithField("module", entry.Name).Debug("optimizer pass complete")
	return res.Graph, nil
}
