// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package actions

import (
	"fmt"

	"github.com/alex-ozdemir/murxla/fsm"
	"github.com/alex-ozdemir/murxla/smgr"
	"github.com/alex-ozdemir/murxla/solver"
)

// NewSolver corresponds to spec.md §4.3 "new-solver".
type NewSolver struct{}

func (NewSolver) Kind() string { return "new-solver" }
func (NewSolver) Applicable(ctx *fsm.Context) bool { return ctx.Mgr.NSorts == 0 && ctx.Mgr.NTerms == 0 }

func (NewSolver) Run(ctx *fsm.Context) ([]string, []string, error) {
	if err := ctx.Mgr.Solv.NewSolver(); err != nil {
		return nil, nil, err
	}
	return nil, nil, nil
}

func (a NewSolver) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	_, _, err := a.Run(ctx)
	return nil, err
}

// DeleteSolver is the dedicated final-state Action.
type DeleteSolver struct{}

func (DeleteSolver) Kind() string                    { return "delete-solver" }
func (DeleteSolver) Applicable(ctx *fsm.Context) bool { return true }

func (DeleteSolver) Run(ctx *fsm.Context) ([]string, []string, error) {
	if err := ctx.Mgr.Solv.DeleteSolver(); err != nil {
		return nil, nil, err
	}
	return nil, nil, nil
}

func (a DeleteSolver) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	_, _, err := a.Run(ctx)
	return nil, err
}

// SetOption picks a not-yet-used, non-conflicting option from Candidates
// and records success/failure, per spec.md §4.2 pick_option and §4.3
// "respects incremental, produce-models, etc.".
type SetOption struct {
	Candidates []smgr.Option
}

func (a SetOption) Kind() string { return "set-option" }

func (a SetOption) Applicable(ctx *fsm.Context) bool {
	_, _, ok := ctx.Mgr.PickOption(a.Candidates)
	return ok
}

func (a SetOption) Run(ctx *fsm.Context) ([]string, []string, error) {
	opt, val, ok := ctx.Mgr.PickOption(a.Candidates)
	if !ok {
		return nil, nil, fmt.Errorf("set-option: no usable option")
	}
	if err := ctx.Mgr.Solv.SetOpt(opt.Name, val); err != nil {
		return nil, nil, err
	}
	applyStandardOption(ctx, opt.Name, val)
	ctx.Mgr.RecordOptionUsed(opt.Name)
	return []string{opt.Name, val}, nil, nil
}

func (a SetOption) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	if len(tokens) != 2 {
		return nil, fmt.Errorf("set-option: expected 2 tokens, got %d", len(tokens))
	}
	if err := ctx.Mgr.Solv.SetOpt(tokens[0], tokens[1]); err != nil {
		return nil, err
	}
	applyStandardOption(ctx, tokens[0], tokens[1])
	ctx.Mgr.RecordOptionUsed(tokens[0])
	return nil, nil
}

func applyStandardOption(ctx *fsm.Context, name, val string) {
	truth := val == "true"
	switch name {
	case ctx.Mgr.Solv.OptionName(solver.OptIncremental):
		ctx.Mgr.Incremental = truth
	case ctx.Mgr.Solv.OptionName(solver.OptModelGen):
		ctx.Mgr.ModelGen = truth
	case ctx.Mgr.Solv.OptionName(solver.OptUnsatAssumptions):
		ctx.Mgr.UnsatAssumptions = truth
	case ctx.Mgr.Solv.OptionName(solver.OptUnsatCores):
		ctx.Mgr.UnsatCores = truth
	}
}

// SetLogic selects an SMT-LIB2 logic string for the enabled theory
// combination (expansion per SPEC_FULL.md §4.3: mirrors set-logic,
// silently dropped by adapters that don't need it).
type SetLogic struct {
	Logics []string
}

func (a SetLogic) Kind() string                     { return "set-logic" }
func (a SetLogic) Applicable(ctx *fsm.Context) bool { return len(a.Logics) > 0 }

func (a SetLogic) Run(ctx *fsm.Context) ([]string, []string, error) {
	logic := rngPick(ctx, a.Logics)
	return []string{logic}, nil, nil
}

func (a SetLogic) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	return nil, nil
}

func rngPick(ctx *fsm.Context, opts []string) string {
	if len(opts) == 1 {
		return opts[0]
	}
	idx := int(ctx.RNG.PickRange(0, uint64(len(opts)-1)))
	return opts[idx]
}
