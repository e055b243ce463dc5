// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package supervisor_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alex-ozdemir/murxla/stats"
	"github.com/alex-ozdemir/murxla/supervisor"
)

func TestNormalizeSignatureStripsNoise(t *testing.T) {
	a := supervisor.NormalizeSignature("assertion failed at 0x7ffeea4c1000 in /home/user/build/src/solver.cpp:482")
	b := supervisor.NormalizeSignature("assertion failed at 0x1020304050 in /tmp/other/build/src/solver.cpp:917")
	require.Equal(t, a, b)
}

func TestErrorMapGroupsBySignature(t *testing.T) {
	m := supervisor.NewErrorMap()
	m.Record(1, "crash at 0x1111 in /a/b/c.cpp:10")
	m.Record(2, "crash at 0x2222 in /x/y/c.cpp:20")
	m.Record(3, "a completely different failure")

	require.Equal(t, 2, m.Len())
	sigs := m.Signatures()
	require.Len(t, sigs, 2)

	found := false
	for _, sig := range sigs {
		e, ok := m.Entry(sig)
		require.True(t, ok)
		if len(e.Seeds) == 2 {
			require.ElementsMatch(t, []int64{1, 2}, e.Seeds)
			found = true
		}
	}
	require.True(t, found)
}

func TestRunOneClassifiesExitCodes(t *testing.T) {
	cases := []struct {
		cmd  string
		want supervisor.Outcome
	}{
		{"exit 0", supervisor.OutcomeOK},
		{"exit 1", supervisor.OutcomeKnownFiltered},
		{"exit 2", supervisor.OutcomeAssertion},
		{"echo crash on stderr >&2; exit 3", supervisor.OutcomeCrash},
	}
	for _, c := range cases {
		sup := supervisor.NewSupervisor("/bin/sh", []string{"-c", c.cmd}, func() int64 { return 1 })
		sup.MaxRuns = 1
		reg := stats.NewRegistry(nil)
		sup.Stats = reg
		em, err := sup.RunContinuous(context.Background())
		require.NoError(t, err)
		require.Equal(t, uint64(1), reg.Runs.Load(), c.cmd)
		counts := map[supervisor.Outcome]uint64{
			supervisor.OutcomeOK:        reg.Ok.Load(),
			supervisor.OutcomeAssertion: reg.Assertions.Load(),
			supervisor.OutcomeCrash:     reg.Crashes.Load(),
		}
		for outcome, n := range counts {
			if outcome == c.want {
				require.Equal(t, uint64(1), n, c.cmd)
			} else {
				require.Equal(t, uint64(0), n, c.cmd)
			}
		}
		if c.want == supervisor.OutcomeOK || c.want == supervisor.OutcomeKnownFiltered {
			require.Equal(t, 0, em.Len(), c.cmd)
		} else {
			require.Equal(t, 1, em.Len(), c.cmd)
		}
	}
}

func TestRunContinuousRespectsMaxRuns(t *testing.T) {
	var seeds []int64
	var n int64
	sup := supervisor.NewSupervisor("/bin/sh", []string{"-c", "exit 0"}, func() int64 {
		n++
		seeds = append(seeds, n)
		return n
	})
	sup.MaxRuns = 5
	sup.PoolSize = 2
	_, err := sup.RunContinuous(context.Background())
	require.NoError(t, err)
	require.Len(t, seeds, 5)
}

func TestRunContinuousTimeoutClassification(t *testing.T) {
	sup := supervisor.NewSupervisor("/bin/sh", []string{"-c", "sleep 5"}, func() int64 { return 1 })
	sup.MaxRuns = 1
	sup.PerRunTimeout = 50 * time.Millisecond
	em, err := sup.RunContinuous(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, em.Len())
}
