// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package fsm_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alex-ozdemir/murxla/fsm"
	"github.com/alex-ozdemir/murxla/rng"
)

type countingAction struct {
	kind string
	runs int
}

func (a *countingAction) Kind() string                      { return a.kind }
func (a *countingAction) Applicable(ctx *fsm.Context) bool   { return true }
func (a *countingAction) Run(ctx *fsm.Context) ([]string, []string, error) {
	a.runs++
	return nil, nil, nil
}
func (a *countingAction) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	return nil, nil
}

type neverAction struct{ kind string }

func (a *neverAction) Kind() string                    { return a.kind }
func (a *neverAction) Applicable(ctx *fsm.Context) bool { return false }
func (a *neverAction) Run(ctx *fsm.Context) ([]string, []string, error) {
	panic("should never run: inapplicable")
}
func (a *neverAction) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	return nil, nil
}

func TestStepFallsBackToDefaultWhenNoneApplicable(t *testing.T) {
	f := fsm.New("start")
	f.AddState("start", false, "done")
	f.AddState("done", true, "")
	blocked := &neverAction{kind: "blocked"}
	f.AddTransition("start", fsm.Transition{Action: blocked, Weight: 10})

	ctx := &fsm.Context{RNG: rng.New(1, true)}
	kind, _, _, err := f.Step(ctx)
	require.NoError(t, err)
	require.Empty(t, kind)
	require.Equal(t, "done", f.Current())
	require.True(t, f.IsFinal())
}

func TestStepRunsChosenAction(t *testing.T) {
	f := fsm.New("start")
	a := &countingAction{kind: "only"}
	f.AddTransition("start", fsm.Transition{Action: a, Weight: 5, NextState: "start"})

	ctx := &fsm.Context{RNG: rng.New(42, true)}
	for i := 0; i < 3; i++ {
		kind, _, _, err := f.Step(ctx)
		require.NoError(t, err)
		require.Equal(t, "only", kind)
	}
	require.Equal(t, 3, a.runs)
}

func TestWeightedPickPrefersHigherWeight(t *testing.T) {
	f := fsm.New("start")
	heavy := &countingAction{kind: "heavy"}
	light := &countingAction{kind: "light"}
	f.AddTransition("start", fsm.Transition{Action: heavy, Weight: 95, NextState: "start"})
	f.AddTransition("start", fsm.Transition{Action: light, Weight: 5, NextState: "start"})

	ctx := &fsm.Context{RNG: rng.New(7, false)}
	for i := 0; i < 200; i++ {
		_, _, _, err := f.Step(ctx)
		require.NoError(t, err)
	}
	require.Greater(t, heavy.runs, light.runs)
}
