// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alex-ozdemir/murxla/config"
	"github.com/alex-ozdemir/murxla/smgr"
	"github.com/alex-ozdemir/murxla/solver"
	"github.com/alex-ozdemir/murxla/solvers/smt2"
	"github.com/alex-ozdemir/murxla/solvers/stub"
)

// buildSolver resolves the "--<solver>" selector of spec.md §6 into a
// concrete solver.Solver. Only the two reference adapters of
// SPEC_FULL.md's DOMAIN STACK are wired to a real implementation here
// ("solvers/stub and solvers/smt2 exist only to make the solver.Solver
// contract concrete and testable"); btor/bzla/cvc5/yices are accepted by
// config.KnownSolvers (they round-trip through --print-fsm/trace-header
// bookkeeping) but have no adapter in this repo, so selecting one is a
// config error rather than a silent no-op.
func buildSolver(name string) (solver.Solver, error) {
	switch name {
	case "", "stub":
		return stub.NewCorrect(), nil
	case "stub-buggy":
		return stub.NewBuggy(), nil
	case "smt2":
		cmdline := os.Getenv("MURXLA_SMT2_CMD")
		if cmdline == "" {
			return nil, &config.ConfigError{Msg: "ERROR: --smt2 requires MURXLA_SMT2_CMD naming the subprocess solver binary"}
		}
		parts := strings.Fields(cmdline)
		return smt2.New(parts[0], parts[1:]), nil
	default:
		return nil, &config.ConfigError{Msg: fmt.Sprintf("ERROR: no adapter wired for solver %q in this build", name)}
	}
}

// defaultOptionCandidates builds the set-option candidates SetOption picks
// from (spec.md §4.2 pick_option), derived from the four standard toggles
// every adapter names via Solver.OptionName; produce-unsat-assumptions
// depends on incremental mode being set first, mirroring the original's
// option dependency/conflict bookkeeping.
func defaultOptionCandidates(solv solver.Solver) []smgr.Option {
	var out []smgr.Option
	boolOpt := func(std solver.StandardOption, depends ...string) {
		name := solv.OptionName(std)
		if name == "" {
			return
		}
		out = append(out, smgr.Option{Name: name, Values: []string{"true", "false"}, Depends: depends})
	}
	incName := solv.OptionName(solver.OptIncremental)
	boolOpt(solver.OptIncremental)
	boolOpt(solver.OptModelGen)
	if incName != "" {
		boolOpt(solver.OptUnsatAssumptions, incName)
	} else {
		boolOpt(solver.OptUnsatAssumptions)
	}
	boolOpt(solver.OptUnsatCores)
	return out
}

// logicCandidate pairs an SMT-LIB2 logic string with the theories it
// requires; defaultLogics filters this table down to what the enabled
// theory set actually supports.
type logicCandidate struct {
	name string
	reqs []solver.Theory
}

var logicTable = []logicCandidate{
	{"QF_BV", []solver.Theory{solver.TheoryBV}},
	{"QF_UFBV", []solver.Theory{solver.TheoryBV, solver.TheoryUF}},
	{"QF_ABV", []solver.Theory{solver.TheoryBV, solver.TheoryArray}},
	{"QF_LIA", []solver.Theory{solver.TheoryInt}},
	{"QF_LRA", []solver.Theory{solver.TheoryReal}},
	{"QF_NIA", []solver.Theory{solver.TheoryInt}},
	{"QF_S", []solver.Theory{solver.TheoryString}},
	{"QF_UF", []solver.Theory{solver.TheoryUF}},
	{"ALL", nil},
}

// defaultLogics picks every logic whose required theories are all
// enabled, for SetLogic's candidate list.
func defaultLogics(enabled map[solver.Theory]struct{}) []string {
	var out []string
	for _, c := range logicTable {
		ok := true
		for _, req := range c.reqs {
			if _, have := enabled[req]; !have {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, c.name)
		}
	}
	return out
}
