// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package actions_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alex-ozdemir/murxla/actions"
	"github.com/alex-ozdemir/murxla/fsm"
	"github.com/alex-ozdemir/murxla/rng"
	"github.com/alex-ozdemir/murxla/smgr"
	"github.com/alex-ozdemir/murxla/solver"
	"github.com/alex-ozdemir/murxla/solvers/stub"
)

func newCtx(seed int64) *fsm.Context {
	r := rng.New(seed, false)
	s := stub.NewCorrect()
	theories := map[solver.Theory]struct{}{
		solver.TheoryBool: {}, solver.TheoryBV: {},
	}
	mgr := smgr.NewManager(r, s, theories)
	return &fsm.Context{Mgr: mgr, RNG: r}
}

func TestMkSortBoolThenMkConstThenAssertAndCheckSat(t *testing.T) {
	ctx := newCtx(1)
	require.NoError(t, ctx.Mgr.Solv.NewSolver())

	boolAction := actions.MkSort{K: solver.SortBool}
	require.True(t, boolAction.Applicable(ctx))
	_, ids, err := boolAction.Run(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	require.True(t, actions.MkConst{}.Applicable(ctx))
	_, ids, err = actions.MkConst{}.Run(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	require.True(t, actions.MkValue{}.Applicable(ctx))
	_, ids, err = actions.MkValue{}.Run(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	require.True(t, actions.AssertFormula{}.Applicable(ctx))
	_, _, err = actions.AssertFormula{}.Run(ctx)
	require.NoError(t, err)

	args, _, err := actions.CheckSat{}.Run(ctx)
	require.NoError(t, err)
	require.Len(t, args, 1)
	require.True(t, ctx.Mgr.SatCalled)
}

func TestGetValueNotApplicableBeforeCheckSat(t *testing.T) {
	ctx := newCtx(2)
	require.NoError(t, ctx.Mgr.Solv.NewSolver())
	_, _, err := actions.MkSort{K: solver.SortBV}.Run(ctx)
	require.NoError(t, err)
	_, _, err = actions.MkConst{}.Run(ctx)
	require.NoError(t, err)

	require.False(t, actions.GetValue{}.Applicable(ctx))
}

func TestPushPopRoundTrip(t *testing.T) {
	ctx := newCtx(3)
	require.NoError(t, ctx.Mgr.Solv.NewSolver())
	ctx.Mgr.Incremental = true

	require.False(t, actions.Pop{}.Applicable(ctx))
	require.True(t, actions.Push{}.Applicable(ctx))

	args, _, err := actions.Push{}.Run(ctx)
	require.NoError(t, err)
	require.Len(t, args, 1)
	require.Greater(t, ctx.Mgr.PushLevels, 0)

	// Pop draws how many scopes it closes (seed 3 pushes 2 and pops 1), so
	// pop until the depth Push opened is fully closed again.
	for ctx.Mgr.PushLevels > 0 {
		depth := ctx.Mgr.PushLevels
		require.True(t, actions.Pop{}.Applicable(ctx))
		popArgs, _, err := actions.Pop{}.Run(ctx)
		require.NoError(t, err)
		popped, err := strconv.Atoi(popArgs[0])
		require.NoError(t, err)
		require.Equal(t, depth-popped, ctx.Mgr.PushLevels)
	}
	require.Equal(t, 0, ctx.Mgr.PushLevels)
}

func TestPopUntraceRejectsCountExceedingDepth(t *testing.T) {
	ctx := newCtx(4)
	require.NoError(t, ctx.Mgr.Solv.NewSolver())
	ctx.Mgr.Incremental = true

	_, err := actions.Pop{}.Untrace(ctx, []string{"3"})
	require.Error(t, err)
}

func TestResetClearsManagerState(t *testing.T) {
	ctx := newCtx(5)
	require.NoError(t, ctx.Mgr.Solv.NewSolver())
	_, _, err := actions.MkSort{K: solver.SortBool}.Run(ctx)
	require.NoError(t, err)
	require.Greater(t, ctx.Mgr.NSorts, 0)

	_, _, err = actions.Reset{}.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, ctx.Mgr.NSorts)
	require.Equal(t, 0, ctx.Mgr.NTerms)
}

func TestMkTermSynthesizesWellTypedArgs(t *testing.T) {
	ctx := newCtx(6)
	require.NoError(t, ctx.Mgr.Solv.NewSolver())
	_, _, err := actions.MkSort{K: solver.SortBV}.Run(ctx)
	require.NoError(t, err)
	_, _, err = actions.MkConst{}.Run(ctx)
	require.NoError(t, err)
	_, _, err = actions.MkConst{}.Run(ctx)
	require.NoError(t, err)

	opMgr := solver.NewOpKindManager(ctx.Mgr.Solv)
	mk := actions.MkTerm{OpMgr: opMgr}
	require.True(t, mk.Applicable(ctx))
	_, ids, err := mk.Run(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 1)
}
