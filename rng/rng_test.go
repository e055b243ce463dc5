// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package rng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeterministic(t *testing.T) {
	a := New(42, false)
	b := New(42, false)
	for i := 0; i < 100; i++ {
		require.Equal(t, a.PickRange(0, 1000), b.PickRange(0, 1000))
	}
}

func TestPickRangeBounds(t *testing.T) {
	g := New(1, false)
	for i := 0; i < 1000; i++ {
		v := g.PickRange(5, 9)
		require.GreaterOrEqual(t, v, uint64(5))
		require.LessOrEqual(t, v, uint64(9))
	}
}

func TestSimpleSymbolMonotonic(t *testing.T) {
	g := New(1, true)
	require.Equal(t, "_x1", g.PickSimpleSymbol(128))
	require.Equal(t, "_x2", g.PickSimpleSymbol(128))
}

func TestWeightedPickRespectsZeroWeights(t *testing.T) {
	g := New(7, false)
	weights := []uint32{0, 0, 5}
	for i := 0; i < 50; i++ {
		require.Equal(t, 2, g.WeightedPick(weights))
	}
}

func TestPickFromSetDeterministic(t *testing.T) {
	s := map[int]struct{}{1: {}, 2: {}, 3: {}}
	less := func(a, b int) bool { return a < b }
	a := New(9, false)
	b := New(9, false)
	require.Equal(t, PickFromSet(a, s, less), PickFromSet(b, s, less))
}
