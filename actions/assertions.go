// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package actions

import (
	"fmt"
	"strconv"

	"github.com/alex-ozdemir/murxla/fsm"
	"github.com/alex-ozdemir/murxla/smgr"
	"github.com/alex-ozdemir/murxla/solver"
)

// AssertFormula requires a Bool term in scope.
type AssertFormula struct{}

func (AssertFormula) Kind() string { return "assert-formula" }

func (AssertFormula) Applicable(ctx *fsm.Context) bool {
	return ctx.Mgr.HasTermOfKind(solver.SortBool)
}

func (AssertFormula) Run(ctx *fsm.Context) ([]string, []string, error) {
	mgr := ctx.Mgr
	te := mgr.PickTermOfKind(solver.SortBool, -1)
	if err := mgr.Solv.AssertFormula(te.Term); err != nil {
		return nil, nil, &solver.OpError{Op: "assert-formula", Err: err}
	}
	mgr.ClearAssumptions()
	return []string{termToken(te.ID)}, nil, nil
}

func (AssertFormula) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	if len(tokens) != 1 {
		return nil, fmt.Errorf("assert-formula: expected 1 token")
	}
	mgr := ctx.Mgr
	te, err := parseTermToken(tokens[0], mgr)
	if err != nil {
		return nil, err
	}
	if err := mgr.Solv.AssertFormula(te.Term); err != nil {
		return nil, &solver.OpError{Op: "assert-formula", Err: err}
	}
	mgr.ClearAssumptions()
	return nil, nil
}

// CheckSat always applies; the resulting verdict updates Mgr's sat state.
type CheckSat struct{}

func (CheckSat) Kind() string                    { return "check-sat" }
func (CheckSat) Applicable(ctx *fsm.Context) bool { return true }

func runCheckSat(mgr *smgr.Manager) (solver.CheckSatResult, error) {
	res, err := mgr.Solv.CheckSat()
	if err != nil {
		return res, &solver.OpError{Op: "check-sat", Err: err}
	}
	mgr.SatCalled = true
	mgr.SatResult = res
	return res, nil
}

func (CheckSat) Run(ctx *fsm.Context) ([]string, []string, error) {
	res, err := runCheckSat(ctx.Mgr)
	if err != nil {
		return nil, nil, err
	}
	return []string{res.String()}, nil, nil
}

func (CheckSat) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	_, err := runCheckSat(ctx.Mgr)
	return nil, err
}

// CheckSatAssuming picks up to 5 Bool terms as assumptions, per spec.md
// §4.3.
type CheckSatAssuming struct{}

func (CheckSatAssuming) Kind() string { return "check-sat-assuming" }

func (CheckSatAssuming) Applicable(ctx *fsm.Context) bool {
	return ctx.Mgr.Incremental && ctx.Mgr.HasTermOfKind(solver.SortBool)
}

func (a CheckSatAssuming) Run(ctx *fsm.Context) ([]string, []string, error) {
	mgr := ctx.Mgr
	n := int(ctx.RNG.PickUint32(1, 5))
	terms := make([]solver.Term, 0, n)
	toks := make([]string, 0, n)
	for i := 0; i < n; i++ {
		te := mgr.PickTermOfKind(solver.SortBool, -1)
		terms = append(terms, te.Term)
		toks = append(toks, termToken(te.ID))
	}
	res, err := mgr.Solv.CheckSatAssuming(terms)
	if err != nil {
		return nil, nil, &solver.OpError{Op: "check-sat-assuming", Err: err}
	}
	mgr.SatCalled = true
	mgr.SatResult = res
	mgr.RecordAssumptions(terms)
	args := append([]string{strconv.Itoa(n)}, toks...)
	args = append(args, res.String())
	return args, nil, nil
}

func (a CheckSatAssuming) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	if len(tokens) < 1 {
		return nil, fmt.Errorf("check-sat-assuming: too few tokens")
	}
	mgr := ctx.Mgr
	n, err := parseInt(tokens[0])
	if err != nil || len(tokens) != n+2 {
		return nil, fmt.Errorf("check-sat-assuming: arity mismatch")
	}
	terms := make([]solver.Term, n)
	for i := 0; i < n; i++ {
		te, err := parseTermToken(tokens[1+i], mgr)
		if err != nil {
			return nil, err
		}
		terms[i] = te.Term
	}
	res, err := mgr.Solv.CheckSatAssuming(terms)
	if err != nil {
		return nil, &solver.OpError{Op: "check-sat-assuming", Err: err}
	}
	mgr.SatCalled = true
	mgr.SatResult = res
	mgr.RecordAssumptions(terms)
	return nil, nil
}

// GetValue requires model generation and a prior SAT verdict.
type GetValue struct{}

func (GetValue) Kind() string { return "get-value" }

func (GetValue) Applicable(ctx *fsm.Context) bool {
	return ctx.Mgr.ModelGen && ctx.Mgr.SatCalled && ctx.Mgr.SatResult == solver.ResultSat && ctx.Mgr.HasAnyTerm()
}

func pickValueTerms(ctx *fsm.Context) ([]solver.Term, []string) {
	mgr := ctx.Mgr
	n := int(ctx.RNG.PickUint32(1, 5))
	terms := make([]solver.Term, 0, n)
	toks := make([]string, 0, n)
	for i := 0; i < n; i++ {
		te, ok := mgr.PickTerm()
		if !ok {
			break
		}
		terms = append(terms, te.Term)
		toks = append(toks, termToken(te.ID))
	}
	return terms, toks
}

func (GetValue) Run(ctx *fsm.Context) ([]string, []string, error) {
	mgr := ctx.Mgr
	terms, toks := pickValueTerms(ctx)
	if len(terms) == 0 {
		return nil, nil, fmt.Errorf("get-value: no term available")
	}
	if _, err := mgr.Solv.GetValue(terms); err != nil {
		return nil, nil, &solver.OpError{Op: "get-value", Err: err}
	}
	args := append([]string{strconv.Itoa(len(toks))}, toks...)
	return args, nil, nil
}

func (GetValue) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	if len(tokens) < 1 {
		return nil, fmt.Errorf("get-value: too few tokens")
	}
	n, err := parseInt(tokens[0])
	if err != nil || len(tokens) != n+1 {
		return nil, fmt.Errorf("get-value: arity mismatch")
	}
	mgr := ctx.Mgr
	terms := make([]solver.Term, n)
	for i := 0; i < n; i++ {
		te, err := parseTermToken(tokens[1+i], mgr)
		if err != nil {
			return nil, err
		}
		terms[i] = te.Term
	}
	if _, err := mgr.Solv.GetValue(terms); err != nil {
		return nil, &solver.OpError{Op: "get-value", Err: err}
	}
	return nil, nil
}

// GetUnsatCore requires unsat-core production enabled and a prior UNSAT.
type GetUnsatCore struct{}

func (GetUnsatCore) Kind() string { return "get-unsat-core" }

func (GetUnsatCore) Applicable(ctx *fsm.Context) bool {
	return ctx.Mgr.UnsatCores && ctx.Mgr.SatCalled && ctx.Mgr.SatResult == solver.ResultUnsat
}

func (GetUnsatCore) Run(ctx *fsm.Context) ([]string, []string, error) {
	if _, err := ctx.Mgr.Solv.GetUnsatCore(); err != nil {
		return nil, nil, &solver.OpError{Op: "get-unsat-core", Err: err}
	}
	return nil, nil, nil
}

func (GetUnsatCore) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	_, err := ctx.Mgr.Solv.GetUnsatCore()
	if err != nil {
		return nil, &solver.OpError{Op: "get-unsat-core", Err: err}
	}
	return nil, nil
}

// GetUnsatAssumptions requires the flag and a prior UNSAT check-sat-assuming.
type GetUnsatAssumptions struct{}

func (GetUnsatAssumptions) Kind() string { return "get-unsat-assumptions" }

func (GetUnsatAssumptions) Applicable(ctx *fsm.Context) bool {
	return ctx.Mgr.UnsatAssumptions && ctx.Mgr.HasAssumedAssumption()
}

func (GetUnsatAssumptions) Run(ctx *fsm.Context) ([]string, []string, error) {
	if _, err := ctx.Mgr.Solv.GetUnsatAssumptions(); err != nil {
		return nil, nil, &solver.OpError{Op: "get-unsat-assumptions", Err: err}
	}
	return nil, nil, nil
}

func (GetUnsatAssumptions) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	if _, err := ctx.Mgr.Solv.GetUnsatAssumptions(); err != nil {
		return nil, &solver.OpError{Op: "get-unsat-assumptions", Err: err}
	}
	return nil, nil
}

// GetModel is the structured counterpart of PrintModel (SPEC_FULL.md
// §4.3 expansion), replayable the same way.
type GetModel struct{}

func (GetModel) Kind() string { return "get-model" }

func (GetModel) Applicable(ctx *fsm.Context) bool {
	return ctx.Mgr.ModelGen && ctx.Mgr.SatCalled && ctx.Mgr.SatResult == solver.ResultSat
}

func (GetModel) Run(ctx *fsm.Context) ([]string, []string, error) {
	if _, err := ctx.Mgr.Solv.GetModel(); err != nil {
		return nil, nil, &solver.OpError{Op: "get-model", Err: err}
	}
	return nil, nil, nil
}

func (GetModel) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	if _, err := ctx.Mgr.Solv.GetModel(); err != nil {
		return nil, &solver.OpError{Op: "get-model", Err: err}
	}
	return nil, nil
}

// PrintModel is the textual print-model Action of spec.md §4.3.
type PrintModel struct{}

func (PrintModel) Kind() string { return "print-model" }

func (PrintModel) Applicable(ctx *fsm.Context) bool {
	return ctx.Mgr.ModelGen && ctx.Mgr.SatCalled && ctx.Mgr.SatResult == solver.ResultSat
}

func (PrintModel) Run(ctx *fsm.Context) ([]string, []string, error) {
	if _, err := ctx.Mgr.Solv.PrintModel(); err != nil {
		return nil, nil, &solver.OpError{Op: "print-model", Err: err}
	}
	return nil, nil, nil
}

func (PrintModel) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	if _, err := ctx.Mgr.Solv.PrintModel(); err != nil {
		return nil, &solver.OpError{Op: "print-model", Err: err}
	}
	return nil, nil
}
