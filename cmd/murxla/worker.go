// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/alex-ozdemir/murxla/actions"
	"github.com/alex-ozdemir/murxla/config"
	"github.com/alex-ozdemir/murxla/fsm"
	"github.com/alex-ozdemir/murxla/rng"
	"github.com/alex-ozdemir/murxla/smgr"
	"github.com/alex-ozdemir/murxla/solver"
	"github.com/alex-ozdemir/murxla/stats"
	"github.com/alex-ozdemir/murxla/supervisor"
	"github.com/alex-ozdemir/murxla/trace"
)

// maxStepsNoTimeBudget bounds a run when -t is not given, so a bug that
// never reaches the delete state can't spin forever (spec.md §6's -t is
// optional; this is the engine's own dead-man switch, not part of the CLI
// surface).
const maxStepsNoTimeBudget = 5000

// workerRun is everything one seeded run needs assembled: the FSM, the
// Context Actions mutate, and the trace registry an untrace pass or
// cross-check replay dispatches through.
type workerRun struct {
	f         *fsm.FSM
	ctx       *fsm.Context
	reg       map[string]fsm.Action
	tracer    *trace.Tracer
	out       io.Closer
	stat      *stats.Registry
	tracePath string
}

// newWorkerRun wires one fresh solver instance, SolverManager and FSM per
// spec.md §4.3's Register-time wiring, and opens the trace sink (stdout,
// or -a's file, written to a *.tmp sibling and renamed on Close per
// spec.md §6 "written atomically").
func newWorkerRun(o config.Options, seed int64, st *stats.Registry) (*workerRun, error) {
	solv, err := buildSolver(o.Solver)
	if err != nil {
		return nil, err
	}
	theories, err := o.EnabledTheories(solv.SupportedTheories())
	if err != nil {
		return nil, err
	}

	r := rng.New(seed, !o.RandomSymbols)
	mgr := smgr.NewManager(r, solv, theories)
	for _, so := range o.SolverOpts {
		if err := solv.SetOpt(so.Name, so.Value); err != nil {
			return nil, &config.ConfigError{Msg: fmt.Sprintf("ERROR: preset option %s=%s rejected: %v", so.Name, so.Value, err)}
		}
		mgr.RecordOptionUsed(so.Name)
	}

	opMgr := solver.NewOpKindManager(solv)
	f := fsm.New(actions.StateNew)
	cfg := actions.Config{
		Options: defaultOptionCandidates(solv),
		Logics:  defaultLogics(theories),
		OpMgr:   opMgr,
	}
	reg := actions.Register(f, cfg)

	// A cross-check or delta-debug pass needs the trace back as a file
	// regardless of -a: if the caller didn't ask for one explicitly, fall
	// back to a scratch file under the configured tmp base rather than
	// stdout, which can't be re-read.
	var w io.Writer
	var closer io.Closer
	var tmpPath, finalPath, tracePath string
	switch {
	case o.APITrace != "":
		finalPath = o.APITrace
		tmpPath = finalPath + ".tmp"
		file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return nil, err
		}
		w = file
		closer = &renamingCloser{f: file, tmp: tmpPath, final: finalPath}
		tracePath = finalPath
	case o.CrossCheck != "" || o.DD:
		file, err := os.CreateTemp(o.TmpDir, "murxla-*.trace")
		if err != nil {
			return nil, err
		}
		w = file
		closer = file
		tracePath = file.Name()
	default:
		w = os.Stdout
		closer = nopCloser{}
	}

	tracer := trace.NewTracer(w)
	if err := tracer.WriteOptions(o.TraceFlags()); err != nil {
		return nil, err
	}

	return &workerRun{
		f:         f,
		ctx:       &fsm.Context{Mgr: mgr, RNG: r},
		reg:       reg,
		tracer:    tracer,
		out:       closer,
		stat:      st,
		tracePath: tracePath,
	}, nil
}

// renamingCloser flushes and closes the temp trace file, then atomically
// renames it into place, per spec.md §6.
type renamingCloser struct {
	f           *os.File
	tmp, final  string
}

func (c *renamingCloser) Close() error {
	if err := c.f.Close(); err != nil {
		return err
	}
	return os.Rename(c.tmp, c.final)
}

// nopCloser backs the stdout trace sink, which must never be closed.
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// generate drives the FSM to a final state, a step cap, or a wall-clock
// deadline, writing one trace line per non-noop Action fired. It returns
// the sequence of check-sat/check-sat-assuming verdicts observed, for the
// cross-check comparison, and the first solver.OpError hit (a finding,
// not an engine bug, per spec.md §7) alongside any other engine error.
func (wr *workerRun) generate(deadline time.Time, maxSteps int) (verdicts []string, opErr error, engineErr error) {
	for step := 0; step < maxSteps && !wr.f.IsFinal(); step++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}
		kind, args, ids, err := wr.f.Step(wr.ctx)
		if err != nil {
			if oe, ok := err.(*solver.OpError); ok {
				return verdicts, oe, nil
			}
			return verdicts, nil, err
		}
		if kind == "" {
			continue // noop transition, spec.md §4.3 dead-end avoidance
		}
		if wr.stat != nil {
			wr.stat.IncAction(kind)
		}
		if err := wr.tracer.WriteLine(trace.Line{Kind: kind, Args: args, Returns: ids}); err != nil {
			return verdicts, nil, err
		}
		if kind == "check-sat" || kind == "check-sat-assuming" {
			verdicts = append(verdicts, wr.ctx.Mgr.SatResult.String())
		}
	}
	return verdicts, nil, nil
}

func (wr *workerRun) finish() error {
	if err := wr.tracer.Flush(); err != nil {
		return err
	}
	return wr.out.Close()
}

// runWorker performs exactly one seeded generation run and returns the
// process exit code spec.md §6 defines: ExitOK on a clean run, a finding
// maps to ExitSolverFailure (with a diagnostic on stderr), anything else
// engine-side maps to ExitEngineError.
func runWorker(o config.Options, seed int64, st *stats.Registry) int {
	wr, err := newWorkerRun(o, seed, st)
	if err != nil {
		return reportConfigOrEngine(err)
	}

	var deadline time.Time
	maxSteps := maxStepsNoTimeBudget
	if o.TimeSecs > 0 {
		deadline = time.Now().Add(time.Duration(o.TimeSecs) * time.Second)
		maxSteps = math.MaxInt
	}
	verdictsA, opErr, engineErr := wr.generate(deadline, maxSteps)
	if err := wr.finish(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return supervisor.ExitEngineError
	}

	exitCode := supervisor.ExitOK
	var stderrMsg string
	switch {
	case engineErr != nil:
		stderrMsg = fmt.Sprintf("engine error: %v", engineErr)
		exitCode = supervisor.ExitEngineError
	case opErr != nil:
		stderrMsg = fmt.Sprintf("solver failure: %v", opErr)
		exitCode = supervisor.ExitSolverFailure
	case o.CrossCheck != "":
		mismatch, ccErr := crossCheck(o, wr.tracePath, verdictsA)
		switch {
		case ccErr != nil:
			stderrMsg = fmt.Sprintf("cross-check setup failed: %v", ccErr)
			exitCode = supervisor.ExitEngineError
		case mismatch != "":
			stderrMsg = fmt.Sprintf("cross-check mismatch: %s", mismatch)
			exitCode = supervisor.ExitSolverFailure
		}
	}

	if stderrMsg != "" {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", stderrMsg)
	}

	if exitCode == supervisor.ExitSolverFailure && o.DD {
		if err := selfMinimize(o, wr.tracePath, stderrMsg); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: delta-debugging failed: %v\n", err)
		}
	}

	if exitCode == supervisor.ExitOK {
		if o.Stats {
			_ = st.WriteText(os.Stdout)
		}
		if o.CSV {
			_ = st.WriteCSV(os.Stdout)
		}
	}
	return exitCode
}

func reportConfigOrEngine(err error) int {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	if _, ok := err.(*config.ConfigError); ok {
		return supervisor.ExitConfigError
	}
	return supervisor.ExitEngineError
}
