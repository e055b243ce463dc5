// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package dd_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alex-ozdemir/murxla/dd"
	"github.com/alex-ozdemir/murxla/trace"
)

// predicateOracle lets tests define "still interesting" as an in-process
// predicate over parsed lines, rather than spawning a subprocess.
type predicateOracle struct {
	pred func([]trace.Line) bool
}

func (o *predicateOracle) Run(file string) (bool, error) {
	f, err := readFile(file)
	if err != nil {
		return false, err
	}
	return o.pred(f), nil
}

func readFile(path string) ([]trace.Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return trace.ParseLines(f)
}

func TestMinimizeDropsUninterestingLines(t *testing.T) {
	lines := []trace.Line{
		{Kind: "mk-sort", Args: []string{"BV", "8"}, Returns: []string{"s1"}},
		{Kind: "mk-sort", Args: []string{"BV", "8"}, Returns: []string{"s2"}},
		{Kind: "mk-const", Args: []string{"s1", "x"}, Returns: []string{"t1"}},
		{Kind: "mk-const", Args: []string{"s1", "y"}, Returns: []string{"t2"}},
		{Kind: "mk-term", Args: []string{"BV_AND", "t1", "t2"}, Returns: []string{"t3"}},
		{Kind: "assert-formula", Args: []string{"t3"}},
		{Kind: "check-sat", Args: nil},
	}

	// Interesting iff it still contains a mk-term BV_AND line feeding an
	// assert-formula and a check-sat: the unused second sort (s2) should
	// be dropped, everything load-bearing should survive.
	oracle := &predicateOracle{pred: func(ls []trace.Line) bool {
		hasAnd, hasAssert, hasCheck := false, false, false
		for _, l := range ls {
			switch l.Kind {
			case "mk-term":
				if len(l.Args) > 0 && l.Args[0] == "BV_AND" {
					hasAnd = true
				}
			case "assert-formula":
				hasAssert = true
			case "check-sat":
				hasCheck = true
			}
		}
		return hasAnd && hasAssert && hasCheck
	}}

	min, err := dd.Minimize(lines, oracle)
	require.NoError(t, err)
	require.LessOrEqual(t, len(min), len(lines))

	foundAnd, foundAssert, foundCheck := false, false, false
	for _, l := range min {
		switch l.Kind {
		case "mk-term":
			foundAnd = true
		case "assert-formula":
			foundAssert = true
		case "check-sat":
			foundCheck = true
		}
	}
	require.True(t, foundAnd)
	require.True(t, foundAssert)
	require.True(t, foundCheck)
}

func TestMinimizeNeverRemovesDependencyAlone(t *testing.T) {
	lines := []trace.Line{
		{Kind: "mk-sort", Args: []string{"Bool"}, Returns: []string{"s1"}},
		{Kind: "mk-const", Args: []string{"s1", "x"}, Returns: []string{"t1"}},
		{Kind: "assert-formula", Args: []string{"t1"}},
	}
	// Always interesting: forces the minimizer to try removing chunks and
	// verify it never produces a trace referencing an id it didn't keep.
	oracle := &predicateOracle{pred: func([]trace.Line) bool { return true }}

	min, err := dd.Minimize(lines, oracle)
	require.NoError(t, err)
	known := map[string]bool{}
	for _, l := range min {
		for _, a := range l.Args {
			if trace.IsID(a) {
				require.True(t, known[a], "line references %q before it is returned", a)
			}
		}
		for _, r := range l.Returns {
			known[r] = true
		}
	}
}

func TestMinimizeIdempotentAtFixedPoint(t *testing.T) {
	lines := []trace.Line{
		{Kind: "mk-sort", Args: []string{"Bool"}, Returns: []string{"s1"}},
		{Kind: "mk-const", Args: []string{"s1", "x"}, Returns: []string{"t1"}},
		{Kind: "assert-formula", Args: []string{"t1"}},
		{Kind: "check-sat", Args: nil},
	}
	oracle := &predicateOracle{pred: func(ls []trace.Line) bool {
		for _, l := range ls {
			if l.Kind == "check-sat" {
				return true
			}
		}
		return false
	}}

	first, err := dd.Minimize(lines, oracle)
	require.NoError(t, err)
	second, err := dd.Minimize(first, oracle)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRemovableChunksHalvesToOne(t *testing.T) {
	sizes := dd.RemovableChunks(8)
	require.NotEmpty(t, sizes)
	require.Equal(t, 1, sizes[len(sizes)-1])
}
