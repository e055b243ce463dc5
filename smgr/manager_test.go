// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package smgr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alex-ozdemir/murxla/rng"
	"github.com/alex-ozdemir/murxla/smgr"
	"github.com/alex-ozdemir/murxla/solver"
	"github.com/alex-ozdemir/murxla/solvers/stub"
)

func newManager(t *testing.T, seed int64) (*smgr.Manager, *stub.Solver) {
	t.Helper()
	s := stub.NewCorrect()
	require.NoError(t, s.NewSolver())
	theories := map[solver.Theory]struct{}{
		solver.TheoryBool: {}, solver.TheoryBV: {},
	}
	m := smgr.NewManager(rng.New(seed, true), s, theories)
	return m, s
}

func TestAddSortAssignsMonotonicIDs(t *testing.T) {
	m, s := newManager(t, 1)
	boolSort, err := s.MkSortBool()
	require.NoError(t, err)
	bv8, err := s.MkSortBV(8)
	require.NoError(t, err)

	e1 := m.AddSort(boolSort)
	e2 := m.AddSort(bv8)
	require.Equal(t, smgr.SortID(1), e1.ID)
	require.Equal(t, smgr.SortID(2), e2.ID)
	require.Equal(t, 2, m.NSorts)

	// re-adding the same sort must not mint a new id
	e1Again := m.AddSort(boolSort)
	require.Equal(t, e1.ID, e1Again.ID)
	require.Equal(t, 2, m.NSorts)
}

func TestPickTermRespectsScopeLevels(t *testing.T) {
	m, s := newManager(t, 2)
	bv4, err := s.MkSortBV(4)
	require.NoError(t, err)
	se := m.AddSort(bv4)

	c0, err := s.MkConst(bv4, "x0")
	require.NoError(t, err)
	m.AddTerm(c0, se)

	m.Push()
	c1, err := s.MkConst(bv4, "x1")
	require.NoError(t, err)
	m.AddTerm(c1, se)
	require.True(t, m.HasTerm(se))

	entry := m.PickTermOfSort(se)
	require.Contains(t, entry.Levels, entry.MinLevel())

	m.Pop(1)
	// only the level-0 constant should remain reachable
	require.True(t, m.HasTerm(se))
	remaining := m.PickTermOfSort(se)
	require.Equal(t, 0, remaining.MaxLevel())
}

func TestResetSatPreservesUsedOptions(t *testing.T) {
	m, _ := newManager(t, 3)
	m.RecordOptionUsed("produce-models")
	m.SatCalled = true
	m.ResetSat()
	require.False(t, m.SatCalled)
	_, _, ok := m.PickOption([]smgr.Option{{Name: "produce-models", Values: []string{"true"}}})
	require.False(t, ok, "used option must stay blocked across reset_sat")
}

func TestResetClearsUsedOptions(t *testing.T) {
	m, _ := newManager(t, 3)
	m.RecordOptionUsed("produce-models")
	m.Reset()
	_, _, ok := m.PickOption([]smgr.Option{{Name: "produce-models", Values: []string{"true"}}})
	require.True(t, ok, "full reset must clear used options")
}

func TestPickOptionRespectsConflictsAndDepends(t *testing.T) {
	m, _ := newManager(t, 4)
	m.RecordOptionUsed("incremental")
	candidates := []smgr.Option{
		{Name: "produce-unsat-cores", Values: []string{"true"}, Conflicts: []string{"incremental"}},
		{Name: "produce-models", Values: []string{"true"}, Depends: []string{"incremental"}},
	}
	choice, val, ok := m.PickOption(candidates)
	require.True(t, ok)
	require.Equal(t, "produce-models", choice.Name)
	require.Equal(t, "true", val)
}
