// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"fmt"
	"os"

	"github.com/alex-ozdemir/murxla/actions"
	"github.com/alex-ozdemir/murxla/config"
	"github.com/alex-ozdemir/murxla/fsm"
	"github.com/alex-ozdemir/murxla/rng"
	"github.com/alex-ozdemir/murxla/smgr"
	"github.com/alex-ozdemir/murxla/solver"
	"github.com/alex-ozdemir/murxla/trace"
)

// crossCheck replays tracePath against a second solver (spec.md §6's
// "-c, --cross-check <solver>") and compares the resulting
// check-sat/check-sat-assuming verdict sequence against verdictsA, the
// sequence observed from the primary run. A position where the two
// sequences disagree is a first-class finding: "sat vs unsat disagreement
// on the same formula" (spec.md §7).
func crossCheck(o config.Options, tracePath string, verdictsA []string) (mismatch string, err error) {
	solv, err := buildSolver(o.CrossCheck)
	if err != nil {
		return "", err
	}
	theories, err := o.EnabledTheories(solv.SupportedTheories())
	if err != nil {
		return "", err
	}

	r := rng.New(0, true)
	mgr := smgr.NewManager(r, solv, theories)
	opMgr := solver.NewOpKindManager(solv)
	f := fsm.New(actions.StateNew)
	cfg := actions.Config{
		Options: defaultOptionCandidates(solv),
		Logics:  defaultLogics(theories),
		OpMgr:   opMgr,
	}
	reg := actions.Register(f, cfg)
	ctx := &fsm.Context{Mgr: mgr, RNG: r}

	verdictsB, err := replayVerdicts(reg, ctx, tracePath)
	if err != nil {
		return "", err
	}

	n := len(verdictsA)
	if len(verdictsB) < n {
		n = len(verdictsB)
	}
	for i := 0; i < n; i++ {
		if verdictsA[i] != verdictsB[i] {
			return fmt.Sprintf("check-sat #%d: primary=%s cross-check=%s", i+1, verdictsA[i], verdictsB[i]), nil
		}
	}
	if len(verdictsA) != len(verdictsB) {
		return fmt.Sprintf("verdict count mismatch: primary=%d cross-check=%d", len(verdictsA), len(verdictsB)), nil
	}
	return "", nil
}

// replayVerdicts dispatches every trace line in path against reg/ctx
// (skipping the header lines Untracer also skips) and records the sat
// state observed after each check-sat line. It deliberately does not
// verify the "returns" ids the way trace.Untracer does: the trace was
// already accepted once by the solver that produced it, so this pass
// exists purely to harvest the second solver's verdicts, not to
// re-validate the trace grammar.
func replayVerdicts(reg map[string]fsm.Action, ctx *fsm.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	lines, err := trace.ParseLines(f)
	if err != nil {
		return nil, err
	}

	var verdicts []string
	for _, l := range lines {
		if l.Kind == "set-murxla-options" || l.Kind == "set-seed" {
			continue
		}
		action, ok := reg[l.Kind]
		if !ok {
			return verdicts, fmt.Errorf("cross-check replay: unknown action kind %q", l.Kind)
		}
		if _, err := action.Untrace(ctx, l.Args); err != nil {
			return verdicts, fmt.Errorf("cross-check replay: %s: %w", l.Kind, err)
		}
		if l.Kind == "check-sat" || l.Kind == "check-sat-assuming" {
			verdicts = append(verdicts, ctx.Mgr.SatResult.String())
		}
	}
	return verdicts, nil
}
