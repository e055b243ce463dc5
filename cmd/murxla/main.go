// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

// Command murxla is a model-based API fuzzer for SMT solvers: it drives a
// solver adapter through a weighted finite-state machine of API calls,
// records every call to a replayable trace, and (in continuous mode)
// supervises many seeded runs looking for crashes, assertion failures and
// cross-check disagreements (spec.md §1).
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/alex-ozdemir/murxla/actions"
	"github.com/alex-ozdemir/murxla/config"
	"github.com/alex-ozdemir/murxla/fsm"
	"github.com/alex-ozdemir/murxla/rng"
	"github.com/alex-ozdemir/murxla/smgr"
	"github.com/alex-ozdemir/murxla/solver"
	"github.com/alex-ozdemir/murxla/solvers/stub"
	"github.com/alex-ozdemir/murxla/stats"
	"github.com/alex-ozdemir/murxla/supervisor"
	"github.com/alex-ozdemir/murxla/trace"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	o, err := config.Parse(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return supervisor.ExitConfigError
	}

	switch {
	case o.PrintFSM:
		return runPrintFSM(o)
	case o.Untrace != "":
		return runUntrace(o)
	case o.Continuous():
		return runContinuous(o)
	default:
		return runSingle(o)
	}
}

// runSingle performs one seeded generation run, installing a SIGINT
// handler that prints the stats gathered so far and then re-raises with
// the default disposition so the shell sees a normal signal death rather
// than a swallowed one. The handler removes no temporary files.
func runSingle(o config.Options) int {
	seed, err := o.Seed64()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: bad --seed %q: %v\n", o.Seed, err)
		return supervisor.ExitConfigError
	}

	st := stats.NewRegistry(actions.AllKinds())
	restoreSignal := installInterruptHandler(st)
	defer restoreSignal()

	return runWorker(o, seed, st)
}

// runContinuous supervises many seeded workers (re-invocations of this
// same binary) per spec.md §4.7, printing and optionally exporting the
// aggregated ErrorMap once the loop stops.
func runContinuous(o config.Options) int {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	seedSrc := rand.New(rand.NewSource(1))
	sup := supervisor.NewSupervisor(exe, o.TraceFlags(), func() int64 { return seedSrc.Int63() })
	sup.MaxRuns = o.MaxRuns
	sup.PoolSize = 1
	sup.TmpBase = o.TmpDir
	if o.Stats || o.CSV {
		sup.Stats = stats.NewRegistry(actions.AllKinds())
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	defer signal.Stop(sigCh)

	errMap, err := sup.RunContinuous(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return supervisor.ExitEngineError
	}

	printErrorMap(errMap)
	if o.ExportErrors != "" {
		if err := exportErrors(errMap, o.ExportErrors); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: export-errors: %v\n", err)
			return supervisor.ExitEngineError
		}
	}
	if sup.Stats != nil {
		if o.Stats {
			_ = sup.Stats.WriteText(os.Stdout)
		}
		if o.CSV {
			_ = sup.Stats.WriteCSV(os.Stdout)
		}
	}
	if errMap.Len() > 0 {
		return supervisor.ExitSolverFailure
	}
	return supervisor.ExitOK
}

func printErrorMap(em *supervisor.ErrorMap) {
	sigs := em.Signatures()
	if len(sigs) == 0 {
		fmt.Fprintln(os.Stdout, "no errors found")
		return
	}
	fmt.Fprintf(os.Stdout, "%d distinct error signature(s):\n", len(sigs))
	for _, sig := range sigs {
		e, _ := em.Entry(sig)
		fmt.Fprintf(os.Stdout, "  [%d seed(s)] %s\n", len(e.Seeds), e.Message)
	}
}

// runUntrace replays a recorded trace against a fresh solver/FSM registry,
// per spec.md §4.5, reporting the offending line on failure.
func runUntrace(o config.Options) int {
	f, err := os.Open(o.Untrace)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return supervisor.ExitConfigError
	}
	defer f.Close()

	solv, err := buildSolver(o.Solver)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return supervisor.ExitConfigError
	}
	theories, err := o.EnabledTheories(solv.SupportedTheories())
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return supervisor.ExitConfigError
	}

	r := rng.New(0, true)
	mgr := smgr.NewManager(r, solv, theories)
	opMgr := solver.NewOpKindManager(solv)
	fm := fsm.New(actions.StateNew)
	cfg := actions.Config{
		Options: defaultOptionCandidates(solv),
		Logics:  defaultLogics(theories),
		OpMgr:   opMgr,
	}
	reg := actions.Register(fm, cfg)
	ctx := &fsm.Context{Mgr: mgr, RNG: r}

	u := trace.NewUntracer(reg, ctx)
	if _, err := u.Replay(f); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		if opErr, ok := asOpError(err); ok {
			fmt.Fprintf(os.Stderr, "solver failure: %v\n", opErr)
			return supervisor.ExitSolverFailure
		}
		return supervisor.ExitEngineError
	}
	return supervisor.ExitOK
}

func asOpError(err error) (*solver.OpError, bool) {
	for err != nil {
		if oe, ok := err.(*solver.OpError); ok {
			return oe, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}

// runPrintFSM renders the FSM's states and weighted transitions and exits,
// per spec.md §6's "--print-fsm" (a diagnostic aid, not part of
// generation).
func runPrintFSM(o config.Options) int {
	solv := stub.NewCorrect()
	theories, _ := o.EnabledTheories(solv.SupportedTheories())
	opMgr := solver.NewOpKindManager(solv)
	fm := fsm.New(actions.StateNew)
	cfg := actions.Config{
		Options: defaultOptionCandidates(solv),
		Logics:  defaultLogics(theories),
		OpMgr:   opMgr,
	}
	actions.Register(fm, cfg)
	fm.Print(os.Stdout)
	return supervisor.ExitOK
}

// installInterruptHandler implements spec.md §5's SIGINT contract: on
// first Ctrl-C, flush whatever partial stats exist and re-raise the
// signal with the default handler so the process still dies the way the
// shell expects (no swallowed exit status).
func installInterruptHandler(st *stats.Registry) func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		if _, ok := <-sigCh; !ok {
			return
		}
		fmt.Fprintln(os.Stderr, "interrupted")
		_ = st.WriteText(os.Stderr)
		signal.Stop(sigCh)
		signal.Reset(os.Interrupt)
		_ = unix.Kill(os.Getpid(), syscall.SIGINT)
	}()
	return func() { signal.Stop(sigCh); close(sigCh) }
}
