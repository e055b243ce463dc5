// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package actions

import (
	"sort"

	"github.com/alex-ozdemir/murxla/fsm"
	"github.com/alex-ozdemir/murxla/smgr"
	"github.com/alex-ozdemir/murxla/solver"
	"github.com/alex-ozdemir/murxla/solvers/stub"
)

// State names for the "typical" state list of spec.md §4.1/§4.3:
// new -> opt -> sorts -> inputs -> terms -> assert -> sat ->
// check-sat-result -> ..., plus push/pop/model/unsat-core/unsat-assumptions
// side-states and a dedicated delete final state.
const (
	StateNew             = "new"
	StateOpt             = "opt"
	StateSorts           = "sorts"
	StateInputs          = "inputs"
	StateTerms           = "terms"
	StateAssert          = "assert"
	StateSat             = "sat"
	StateCheckSatResult  = "check-sat-result"
	StatePushPop         = "push-pop"
	StateModel           = "model"
	StateUnsatCore       = "unsat-core"
	StateUnsatAssumption = "unsat-assumptions"
	StateDelete          = "delete"
)

// Config bundles the per-run choices (set-option candidates, set-logic
// strings, the operator registry) that Register needs but that don't
// belong on the Action types themselves, since Actions are also
// constructed bare by trace.Registry for untracing.
type Config struct {
	Options []smgr.Option
	Logics  []string
	OpMgr   *solver.OpKindManager
}

// Register wires every Action of the catalog into f with the weights
// spec.md §4.1's distribution table assigns to each concern, and returns
// the trace.Registry an Untracer needs to resolve trace kinds back to
// Actions.
func Register(f *fsm.FSM, cfg Config) map[string]fsm.Action {
	reg := map[string]fsm.Action{}
	add := func(state string, weight uint32, next string, a fsm.Action) {
		f.AddTransition(state, fsm.Transition{Action: a, Weight: weight, NextState: next})
		reg[a.Kind()] = a
	}

	f.AddState(StateNew, false, StateOpt)
	add(StateNew, 1, StateOpt, NewSolver{})

	f.AddState(StateOpt, false, StateSorts)
	add(StateOpt, 5, StateOpt, SetOption{Candidates: cfg.Options})
	add(StateOpt, 2, StateSorts, SetLogic{Logics: cfg.Logics})
	add(StateOpt, 1, StateSorts, noop{})

	f.AddState(StateSorts, false, StateInputs)
	for _, k := range AllSortKinds {
		add(StateSorts, 10, StateSorts, MkSort{K: k})
	}
	add(StateSorts, 3, StateInputs, noop{})

	f.AddState(StateInputs, false, StateTerms)
	add(StateInputs, 10, StateInputs, MkConst{})
	add(StateInputs, 8, StateInputs, MkValue{})
	add(StateInputs, 6, StateInputs, MkSpecialValue{})
	add(StateInputs, 3, StateInputs, MkVar{})
	add(StateInputs, 3, StateTerms, noop{})

	f.AddState(StateTerms, false, StateAssert)
	add(StateTerms, 30, StateTerms, MkTerm{OpMgr: cfg.OpMgr})
	add(StateTerms, 5, StatePushPop, noop{})
	add(StateTerms, 3, StateAssert, noop{})

	f.AddState(StatePushPop, false, StateTerms)
	add(StatePushPop, 1, StateTerms, Push{})
	add(StatePushPop, 1, StateTerms, Pop{})

	f.AddState(StateAssert, false, StateSat)
	add(StateAssert, 10, StateAssert, AssertFormula{})
	add(StateAssert, 1, StateSat, noop{})

	f.AddState(StateSat, false, StateCheckSatResult)
	add(StateSat, 5, StateCheckSatResult, CheckSat{})
	add(StateSat, 5, StateCheckSatResult, CheckSatAssuming{})

	f.AddState(StateCheckSatResult, false, StateTerms)
	add(StateCheckSatResult, 5, StateModel, noop{})
	add(StateCheckSatResult, 5, StateUnsatCore, noop{})
	add(StateCheckSatResult, 5, StateUnsatAssumption, noop{})
	add(StateCheckSatResult, 5, StateTerms, ResetAssertions{})
	add(StateCheckSatResult, 3, StateTerms, Reset{})
	add(StateCheckSatResult, 20, StateTerms, noop{})

	f.AddState(StateModel, false, StateTerms)
	add(StateModel, 5, StateTerms, GetValue{})
	add(StateModel, 3, StateTerms, GetModel{})
	add(StateModel, 2, StateTerms, PrintModel{})

	f.AddState(StateUnsatCore, false, StateTerms)
	add(StateUnsatCore, 1, StateTerms, GetUnsatCore{})

	f.AddState(StateUnsatAssumption, false, StateTerms)
	add(StateUnsatAssumption, 1, StateTerms, GetUnsatAssumptions{})

	f.AddState(StateDelete, true, "")
	add(StateTerms, 1, StateDelete, DeleteSolver{})

	return reg
}

// AllKinds returns every trace line kind Register can produce against a
// reference stub solver, sorted, for preallocating a stats.Registry's
// per-kind counters before a run starts.
func AllKinds() []string {
	solv := stub.NewCorrect()
	f := fsm.New(StateNew)
	cfg := Config{OpMgr: solver.NewOpKindManager(solv)}
	reg := Register(f, cfg)
	out := make([]string, 0, len(reg))
	for k := range reg {
		if k != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// noop is the FSM's built-in dead-end-avoidance and free-branch transition:
// it applies unconditionally and emits no trace line.
type noop struct{}

func (noop) Kind() string                       { return "" }
func (noop) Applicable(ctx *fsm.Context) bool    { return true }
func (noop) Run(ctx *fsm.Context) ([]string, []string, error) { return nil, nil, nil }
func (noop) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) { return nil, nil }
