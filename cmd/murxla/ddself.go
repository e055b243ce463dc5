// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alex-ozdemir/murxla/config"
	"github.com/alex-ozdemir/murxla/dd"
	"github.com/alex-ozdemir/murxla/supervisor"
	"github.com/alex-ozdemir/murxla/trace"
)

// selfMinimize re-invokes this same binary (os.Args[0]) as the ddmin
// oracle, per spec.md §4.6: "-d" enables delta-debugging on the current
// run's own trace once it has already reproduced a finding. tracePath is
// the just-finished run's trace file, baselineErr the diagnostic
// worker.go printed for it, the default oracle's bytewise-modulo-filters
// match target when -dd-match-{out,err} aren't given (spec.md §4.6).
func selfMinimize(o config.Options, tracePath, baselineErr string) error {
	f, err := os.Open(tracePath)
	if err != nil {
		return err
	}
	lines, err := trace.ParseLines(f)
	f.Close()
	if err != nil {
		return err
	}

	oracle := &dd.SubprocessOracle{
		Command:     os.Args[0],
		Args:        o.TraceFlags(),
		Timeout:     10 * time.Second,
		WantExit:    supervisor.ExitSolverFailure,
		MatchOut:    o.DDMatchOut,
		MatchErr:    o.DDMatchErr,
		IgnoreOut:   o.DDIgnoreOut,
		IgnoreErr:   o.DDIgnoreErr,
		BaselineErr: baselineErr,
	}

	minimized, err := dd.Minimize(lines, oracle)
	if err != nil {
		return err
	}

	dest := o.DDTrace
	if dest == "" {
		dest = "murxla-dd.trace"
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := trace.WriteLines(out, minimized); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "delta-debugging: minimized %d lines to %d, written to %s\n", len(lines), len(minimized), dest)
	return nil
}
