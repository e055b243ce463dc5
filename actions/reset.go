// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package actions

import (
	"github.com/alex-ozdemir/murxla/fsm"
	"github.com/alex-ozdemir/murxla/solver"
)

// Reset discards all sorts, terms and scopes, per spec.md §4.3.
type Reset struct{}

func (Reset) Kind() string                    { return "reset" }
func (Reset) Applicable(ctx *fsm.Context) bool { return true }

func (Reset) Run(ctx *fsm.Context) ([]string, []string, error) {
	if err := ctx.Mgr.Solv.Reset(); err != nil {
		return nil, nil, &solver.OpError{Op: "reset", Err: err}
	}
	ctx.Mgr.Reset()
	return nil, nil, nil
}

func (a Reset) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	_, _, err := a.Run(ctx)
	return nil, err
}

// ResetAssertions discards assertions and scopes but keeps declared
// sorts/terms, per spec.md §4.3.
type ResetAssertions struct{}

func (ResetAssertions) Kind() string                    { return "reset-assertions" }
func (ResetAssertions) Applicable(ctx *fsm.Context) bool { return true }

func (ResetAssertions) Run(ctx *fsm.Context) ([]string, []string, error) {
	if err := ctx.Mgr.Solv.ResetAssertions(); err != nil {
		return nil, nil, &solver.OpError{Op: "reset-assertions", Err: err}
	}
	ctx.Mgr.PushLevels = 0
	ctx.Mgr.ClearAssumptions()
	ctx.Mgr.ResetSat()
	return nil, nil, nil
}

func (a ResetAssertions) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	_, _, err := a.Run(ctx)
	return nil, err
}
