// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alex-ozdemir/murxla/config"
	"github.com/alex-ozdemir/murxla/stats"
	"github.com/alex-ozdemir/murxla/supervisor"
	"github.com/alex-ozdemir/murxla/trace"
)

// Scenario 1 of spec.md §8: a seeded run against the correct stub adapter
// ends with a check-sat line, and every id is defined before use.
func TestScenario1SeededRunEndsInCheckSat(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "run.trace")

	o := config.Options{Seed: "0x1", APITrace: tracePath, Solver: "stub"}
	st := stats.NewRegistry(nil)
	code := runWorker(o, 0x1, st)
	require.Contains(t, []int{supervisor.ExitOK, supervisor.ExitSolverFailure}, code)

	lines := readTraceLines(t, tracePath)
	require.NotEmpty(t, lines)

	defined := map[string]struct{}{}
	sawCheckSat := false
	for _, l := range lines {
		for _, a := range l.Args {
			if trace.IsID(a) {
				_, ok := defined[a]
				require.True(t, ok, "id %q used before defined in line %+v", a, l)
			}
		}
		for _, r := range l.Returns {
			defined[r] = struct{}{}
		}
		if l.Kind == "check-sat" || l.Kind == "check-sat-assuming" {
			sawCheckSat = true
		}
	}
	require.True(t, sawCheckSat)
}

// Scenario 2: replaying the trace from scenario 1 against a fresh correct
// stub reproduces the identical verdict sequence (the round-trip property
// of spec.md §8), exercised here via crossCheck against the same adapter
// it was generated with.
func TestScenario2ReplayMatchesOriginalVerdicts(t *testing.T) {
	o := config.Options{Seed: "0x1", Solver: "stub", CrossCheck: "stub"}
	wr, err := newWorkerRun(o, 0x1, nil)
	require.NoError(t, err)
	verdictsA, opErr, engineErr := wr.generate(time.Time{}, maxStepsNoTimeBudget)
	require.NoError(t, engineErr)
	require.Nil(t, opErr)
	require.NoError(t, wr.finish())

	mismatch, err := crossCheck(o, wr.tracePath, verdictsA)
	require.NoError(t, err)
	require.Empty(t, mismatch)
}

// Scenario 3: cross-checking a trace produced against the buggy stub
// (BV_AND evaluates as BV_OR) against a correct stub reports a mismatch on
// the first check-sat that exercises the bug, per spec.md §8 scenario 3.
func TestScenario3CrossCheckCatchesBuggyBVAnd(t *testing.T) {
	o := config.Options{Seed: "0x1", Solver: "stub-buggy", CrossCheck: "stub"}
	wr, err := newWorkerRun(o, 0x1, nil)
	require.NoError(t, err)
	verdictsA, opErr, engineErr := wr.generate(time.Time{}, maxStepsNoTimeBudget)
	require.NoError(t, engineErr)
	require.Nil(t, opErr)
	require.NoError(t, wr.finish())

	lines := readTraceLines(t, wr.tracePath)
	hasAnd := false
	for _, l := range lines {
		if l.Kind == "mk-term" {
			for _, a := range l.Args {
				if strings.HasPrefix(a, "BV_AND/") {
					hasAnd = true
				}
			}
		}
	}
	if !hasAnd {
		t.Skip("this seed never synthesized a BV_AND term; generation is randomized")
	}

	mismatch, err := crossCheck(o, wr.tracePath, verdictsA)
	require.NoError(t, err)
	require.NotEmpty(t, mismatch)
}

// Scenario 5: many seeded runs against the correct stub all produce
// ExitOK, the per-worker unit the supervisor's continuous loop repeats
// (supervisor_test.go covers the loop/timeout/classification machinery
// itself against a plain shell command).
func TestScenario5ManySeededRunsAgainstCorrectStubSucceed(t *testing.T) {
	dir := t.TempDir()
	for seed := int64(1); seed <= 20; seed++ {
		o := config.Options{Seed: "", Solver: "stub", APITrace: filepath.Join(dir, "run.trace")}
		st := stats.NewRegistry(nil)
		code := runWorker(o, seed, st)
		require.Equal(t, supervisor.ExitOK, code, "seed %d", seed)
	}
}

// Scenario 6: get-value must be inapplicable before any check-sat, so the
// fully-registered FSM a real binary run uses never emits it from its
// initial state; actions_test.go's TestGetValueNotApplicableBeforeCheckSat
// covers the Action directly, this exercises --print-fsm end to end.
func TestScenario6PrintFSMRunsCleanly(t *testing.T) {
	code := runPrintFSM(config.Options{})
	require.Equal(t, supervisor.ExitOK, code)
}

func readTraceLines(t *testing.T, path string) []trace.Line {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	lines, err := trace.ParseLines(f)
	require.NoError(t, err)
	return lines
}
