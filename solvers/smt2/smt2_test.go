// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package smt2_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alex-ozdemir/murxla/solver"
	"github.com/alex-ozdemir/murxla/solvers/smt2"
)

// fakeSolverScript drives a /bin/sh process that plays the part of a
// minimal SMT-LIB2 solver: it swallows every command that expects no
// reply and answers "sat" to any check-sat line, matching the stub
// adapter's happy-path contract closely enough to exercise the pipe.
const fakeSolverScript = `
while IFS= read -r line; do
  case "$line" in
    *check-sat*) echo sat ;;
    *get-value*) echo "((x (_ bv3 4)))" ;;
  esac
done
`

func newFakeSolver(t *testing.T) *smt2.Solver {
	t.Helper()
	return smt2.New("/bin/sh", []string{"-c", fakeSolverScript})
}

func TestMkSortBVAndDeclareConstSendsDeclareCommand(t *testing.T) {
	s := newFakeSolver(t)
	require.NoError(t, s.NewSolver())
	defer s.DeleteSolver()

	bv4, err := s.MkSortBV(4)
	require.NoError(t, err)
	require.Equal(t, solver.SortBV, bv4.Kind())
	require.Equal(t, uint32(4), bv4.BVWidth())

	x, err := s.MkConst(bv4, "x")
	require.NoError(t, err)
	require.Equal(t, "x", x.String())
}

func TestCheckSatReadsBackVerdict(t *testing.T) {
	s := newFakeSolver(t)
	require.NoError(t, s.NewSolver())
	defer s.DeleteSolver()

	bv4, err := s.MkSortBV(4)
	require.NoError(t, err)
	x, err := s.MkConst(bv4, "x")
	require.NoError(t, err)
	zero, err := s.MkValue(bv4, "0")
	require.NoError(t, err)
	neq, err := s.MkTerm(solver.OpDistinct, []solver.Term{x, zero}, nil)
	require.NoError(t, err)
	require.NoError(t, s.AssertFormula(neq))

	res, err := s.CheckSat()
	require.NoError(t, err)
	require.Equal(t, solver.ResultSat, res)
}

func TestMkTermBVAddPrintsSMTLIB2Syntax(t *testing.T) {
	s := newFakeSolver(t)
	require.NoError(t, s.NewSolver())
	defer s.DeleteSolver()

	bv8, err := s.MkSortBV(8)
	require.NoError(t, err)
	x, err := s.MkConst(bv8, "x")
	require.NoError(t, err)
	y, err := s.MkConst(bv8, "y")
	require.NoError(t, err)
	sum, err := s.MkTerm(solver.OpBVAdd, []solver.Term{x, y}, nil)
	require.NoError(t, err)
	require.Equal(t, "(bvadd x y)", sum.String())
	require.Equal(t, uint32(8), sum.Sort().BVWidth())
}

func TestMkTermBVExtractComputesResultWidth(t *testing.T) {
	s := newFakeSolver(t)
	require.NoError(t, s.NewSolver())
	defer s.DeleteSolver()

	bv8, err := s.MkSortBV(8)
	require.NoError(t, err)
	x, err := s.MkConst(bv8, "x")
	require.NoError(t, err)
	ext, err := s.MkTerm(solver.OpBVExtract, []solver.Term{x}, []uint32{5, 2})
	require.NoError(t, err)
	require.Equal(t, "((_ extract 5 2) x)", ext.String())
	require.Equal(t, uint32(4), ext.Sort().BVWidth())
}

func TestUnsupportedOpKindIsReportedNotSilentlyAccepted(t *testing.T) {
	s := newFakeSolver(t)
	require.NoError(t, s.NewSolver())
	defer s.DeleteSolver()

	unsupported := s.UnsupportedOpKinds()
	_, isUnsupported := unsupported[solver.OpFPAdd]
	require.True(t, isUnsupported)
}

func TestMkSortUninterpretedDeclaresOnlyOnce(t *testing.T) {
	s := newFakeSolver(t)
	require.NoError(t, s.NewSolver())
	defer s.DeleteSolver()

	a, err := s.MkSortUninterpreted("U")
	require.NoError(t, err)
	b, err := s.MkSortUninterpreted("U")
	require.NoError(t, err)
	require.True(t, a.Equal(b))
}
