// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package stub_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alex-ozdemir/murxla/solver"
	"github.com/alex-ozdemir/murxla/solvers/stub"
)

func mkBV(t *testing.T, s solver.Solver, width uint32, name string) solver.Term {
	t.Helper()
	sort, err := s.MkSortBV(width)
	require.NoError(t, err)
	c, err := s.MkConst(sort, name)
	require.NoError(t, err)
	return c
}

func TestCorrectSolvesSimpleConjunction(t *testing.T) {
	s := stub.NewCorrect()
	require.NoError(t, s.NewSolver())
	x := mkBV(t, s, 4, "x")

	zero, err := s.MkValue(x.Sort(), "0")
	require.NoError(t, err)
	neq, err := s.MkTerm(solver.OpDistinct, []solver.Term{x, zero}, nil)
	require.NoError(t, err)
	require.NoError(t, s.AssertFormula(neq))

	res, err := s.CheckSat()
	require.NoError(t, err)
	require.Equal(t, solver.ResultSat, res)

	vals, err := s.GetValue([]solver.Term{x})
	require.NoError(t, err)
	require.Len(t, vals, 1)
	require.False(t, vals[0].Equal(zero))
}

func TestCorrectDetectsUnsat(t *testing.T) {
	s := stub.NewCorrect()
	require.NoError(t, s.NewSolver())
	x := mkBV(t, s, 2, "x")
	zero, err := s.MkValue(x.Sort(), "0")
	require.NoError(t, err)

	eqZero, err := s.MkTerm(solver.OpEqual, []solver.Term{x, zero}, nil)
	require.NoError(t, err)
	neqZero, err := s.MkTerm(solver.OpNot, []solver.Term{eqZero}, nil)
	require.NoError(t, err)
	require.NoError(t, s.AssertFormula(eqZero))
	require.NoError(t, s.AssertFormula(neqZero))

	res, err := s.CheckSat()
	require.NoError(t, err)
	require.Equal(t, solver.ResultUnsat, res)
}

func TestBuggyDivergesOnBVAnd(t *testing.T) {
	// x = 1, y = 2: (x AND y) == 0 holds under correct BV_AND semantics
	// but fails once BV_AND is silently evaluated as BV_OR, so the two
	// adapters must disagree on this formula's satisfiability.
	correct := stub.NewCorrect()
	buggy := stub.NewBuggy()
	require.NoError(t, correct.NewSolver())
	require.NoError(t, buggy.NewSolver())

	build := func(s solver.Solver) solver.Term {
		xs := mkBV(t, s, 4, "x")
		sort := xs.Sort()
		one, err := s.MkValue(sort, "1")
		require.NoError(t, err)
		two, err := s.MkValue(sort, "2")
		require.NoError(t, err)
		and, err := s.MkTerm(solver.OpBVAnd, []solver.Term{one, two}, nil)
		require.NoError(t, err)
		zero, err := s.MkValue(sort, "0")
		require.NoError(t, err)
		eq, err := s.MkTerm(solver.OpEqual, []solver.Term{and, zero}, nil)
		require.NoError(t, err)
		return eq
	}

	cf := build(correct)
	bf := build(buggy)
	require.NoError(t, correct.AssertFormula(cf))
	require.NoError(t, buggy.AssertFormula(bf))

	cres, err := correct.CheckSat()
	require.NoError(t, err)
	bres, err := buggy.CheckSat()
	require.NoError(t, err)

	require.Equal(t, solver.ResultSat, cres)
	require.Equal(t, solver.ResultUnsat, bres)
	require.NotEqual(t, cres, bres)
}

func TestPushPopRestoresAssertions(t *testing.T) {
	s := stub.NewCorrect()
	require.NoError(t, s.NewSolver())
	boolSort, err := s.MkSortBool()
	require.NoError(t, err)
	tru, err := s.MkValue(boolSort, "true")
	require.NoError(t, err)
	fls, err := s.MkValue(boolSort, "false")
	require.NoError(t, err)

	require.NoError(t, s.AssertFormula(tru))
	require.NoError(t, s.Push(1))
	require.NoError(t, s.AssertFormula(fls))

	res, err := s.CheckSat()
	require.NoError(t, err)
	require.Equal(t, solver.ResultUnsat, res)

	require.NoError(t, s.Pop(1))
	res, err = s.CheckSat()
	require.NoError(t, err)
	require.Equal(t, solver.ResultSat, res)
}

func TestGetValueBeforeCheckSatFails(t *testing.T) {
	s := stub.NewCorrect()
	require.NoError(t, s.NewSolver())
	x := mkBV(t, s, 4, "x")
	_, err := s.GetValue([]solver.Term{x})
	require.Error(t, err)
}
