// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alex-ozdemir/murxla/config"
	"github.com/alex-ozdemir/murxla/solver"
)

func TestParseSeedHex(t *testing.T) {
	o, err := config.Parse([]string{"-s", "0x2a"})
	require.NoError(t, err)
	n, err := o.Seed64()
	require.NoError(t, err)
	require.Equal(t, int64(42), n)
	require.False(t, o.Continuous())
}

func TestParseContinuousMode(t *testing.T) {
	o, err := config.Parse([]string{"-m", "100"})
	require.NoError(t, err)
	require.True(t, o.Continuous())
	require.Equal(t, 100, o.MaxRuns)
}

func TestParseMaxRunsWithSeedIsConfigError(t *testing.T) {
	_, err := config.Parse([]string{"-s", "5", "-m", "100"})
	require.Error(t, err)
	var cfgErr *config.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestParseUnknownSolver(t *testing.T) {
	_, err := config.Parse([]string{"--solver", "nope"})
	require.Error(t, err)
}

func TestParseSolverOptions(t *testing.T) {
	opts, err := config.ParseSolverOptions("produce-models=true,incremental=false")
	require.NoError(t, err)
	require.Equal(t, []config.SolverOption{
		{Name: "produce-models", Value: "true"},
		{Name: "incremental", Value: "false"},
	}, opts)
}

func TestParseSolverOptionsMalformed(t *testing.T) {
	_, err := config.ParseSolverOptions("bad")
	require.Error(t, err)
}

func TestEnabledTheoriesDisable(t *testing.T) {
	o, err := config.Parse([]string{"--no-bv"})
	require.NoError(t, err)
	enabled, err := o.EnabledTheories(solver.AllTheories())
	require.NoError(t, err)
	_, bvEnabled := enabled[solver.TheoryBV]
	require.False(t, bvEnabled)
	_, boolEnabled := enabled[solver.TheoryBool]
	require.True(t, boolEnabled)
}

func TestEnabledTheoriesConflict(t *testing.T) {
	o, err := config.Parse([]string{"--bv", "--no-bv"})
	require.NoError(t, err)
	_, err = o.EnabledTheories(solver.AllTheories())
	require.Error(t, err)
}

func TestTraceFlagsOmitsSeedAndUntrace(t *testing.T) {
	o, err := config.Parse([]string{"-y", "--linear", "-t", "30"})
	require.NoError(t, err)
	flags := o.TraceFlags()
	require.Contains(t, flags, "-y")
	require.Contains(t, flags, "--linear")
	require.NotContains(t, flags, "-s")
	require.NotContains(t, flags, "-u")
}
