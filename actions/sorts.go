// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package actions

import (
	"fmt"
	"strconv"

	"github.com/alex-ozdemir/murxla/fsm"
	"github.com/alex-ozdemir/murxla/solver"
)

// MkSort is a single parametrized Action covering every sort kind of
// SPEC_FULL.md §4.3's "Sorts:" list — one trace kind per K, dispatched
// through a switch rather than fourteen near-identical structs, per
// DESIGN NOTES §9's "static table, not a virtual hierarchy" preference.
type MkSort struct {
	K solver.SortKind
}

func (a MkSort) Kind() string { return "mk-sort-" + sortKindName(a.K) }

func (a MkSort) Applicable(ctx *fsm.Context) bool {
	mgr := ctx.Mgr
	switch a.K {
	case solver.SortBool, solver.SortInt, solver.SortReal, solver.SortString,
		solver.SortRegLan, solver.SortRM, solver.SortUninterpreted, solver.SortDatatype:
		return true
	case solver.SortBV:
		return true
	case solver.SortFP:
		return len(mgr.Solv.LegalFPFormats()) > 0
	case solver.SortArray, solver.SortFun, solver.SortSeq, solver.SortSet, solver.SortBag:
		return mgr.HasSort(solver.SortAny, false, nil)
	default:
		return false
	}
}

func (a MkSort) Run(ctx *fsm.Context) ([]string, []string, error) {
	mgr := ctx.Mgr
	switch a.K {
	case solver.SortBool:
		return a.finish(ctx, mgr.Solv.MkSortBool, nil)
	case solver.SortInt:
		return a.finish(ctx, mgr.Solv.MkSortInt, nil)
	case solver.SortReal:
		return a.finish(ctx, mgr.Solv.MkSortReal, nil)
	case solver.SortString:
		return a.finish(ctx, mgr.Solv.MkSortString, nil)
	case solver.SortRegLan:
		return a.finish(ctx, mgr.Solv.MkSortRegLan, nil)
	case solver.SortRM:
		return a.finish(ctx, mgr.Solv.MkSortRM, nil)
	case solver.SortUninterpreted:
		name, _ := mgr.PickSymbol()
		return a.finish(ctx, func() (solver.Sort, error) { return mgr.Solv.MkSortUninterpreted(name) }, []string{name})
	case solver.SortBV:
		width := ctx.RNG.PickUint32(1, 128)
		return a.finish(ctx, func() (solver.Sort, error) { return mgr.Solv.MkSortBV(width) },
			[]string{strconv.FormatUint(uint64(width), 10)})
	case solver.SortFP:
		formats := mgr.Solv.LegalFPFormats()
		idx := int(ctx.RNG.PickRange(0, uint64(len(formats)-1)))
		exp, sig := formats[idx][0], formats[idx][1]
		return a.finish(ctx, func() (solver.Sort, error) { return mgr.Solv.MkSortFP(exp, sig) },
			[]string{strconv.FormatUint(uint64(exp), 10), strconv.FormatUint(uint64(sig), 10)})
	case solver.SortArray:
		idx := mgr.PickSort(solver.SortAny, false, nil)
		elem := mgr.PickSort(solver.SortAny, false, nil)
		return a.finish(ctx, func() (solver.Sort, error) { return mgr.Solv.MkSortArray(idx.Sort, elem.Sort) },
			[]string{sortToken(idx.ID), sortToken(elem.ID)})
	case solver.SortFun:
		n := int(ctx.RNG.PickUint32(1, 3))
		domain := make([]solver.Sort, n)
		args := make([]string, 0, n+2)
		args = append(args, strconv.Itoa(n))
		for i := 0; i < n; i++ {
			e := mgr.PickSort(solver.SortAny, false, nil)
			domain[i] = e.Sort
			args = append(args, sortToken(e.ID))
		}
		codomain := mgr.PickSort(solver.SortAny, false, nil)
		args = append(args, sortToken(codomain.ID))
		return a.finish(ctx, func() (solver.Sort, error) { return mgr.Solv.MkSortFun(domain, codomain.Sort) }, args)
	case solver.SortSeq, solver.SortSet, solver.SortBag:
		elem := mgr.PickSort(solver.SortAny, false, nil)
		ctor := map[solver.SortKind]func(solver.Sort) (solver.Sort, error){
			solver.SortSeq: mgr.Solv.MkSortSeq, solver.SortSet: mgr.Solv.MkSortSet, solver.SortBag: mgr.Solv.MkSortBag,
		}[a.K]
		return a.finish(ctx, func() (solver.Sort, error) { return ctor(elem.Sort) }, []string{sortToken(elem.ID)})
	case solver.SortDatatype:
		name, _ := mgr.PickSymbol()
		ctorName := name + "-ctor"
		var fields []solver.Sort
		args := []string{name, ctorName}
		if mgr.HasSort(solver.SortAny, false, nil) && ctx.RNG.FlipCoin(0.5) {
			f := mgr.PickSort(solver.SortAny, false, nil)
			fields = append(fields, f.Sort)
			args = append(args, "1", sortToken(f.ID))
		} else {
			args = append(args, "0")
		}
		return a.finish(ctx, func() (solver.Sort, error) { return mgr.Solv.MkSortDatatype(name, ctorName, fields) }, args)
	}
	return nil, nil, fmt.Errorf("mk-sort: unhandled kind %v", a.K)
}

func (a MkSort) finish(ctx *fsm.Context, make0 func() (solver.Sort, error), args []string) ([]string, []string, error) {
	sort, err := make0()
	if err != nil {
		return nil, nil, &solver.OpError{Op: a.Kind(), Err: err}
	}
	e := ctx.Mgr.AddSort(sort)
	return args, []string{sortToken(e.ID)}, nil
}

func (a MkSort) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	mgr := ctx.Mgr
	var s solver.Sort
	var err error
	switch a.K {
	case solver.SortBool:
		s, err = mgr.Solv.MkSortBool()
	case solver.SortInt:
		s, err = mgr.Solv.MkSortInt()
	case solver.SortReal:
		s, err = mgr.Solv.MkSortReal()
	case solver.SortString:
		s, err = mgr.Solv.MkSortString()
	case solver.SortRegLan:
		s, err = mgr.Solv.MkSortRegLan()
	case solver.SortRM:
		s, err = mgr.Solv.MkSortRM()
	case solver.SortUninterpreted:
		if len(tokens) != 1 {
			return nil, fmt.Errorf("mk-sort-uninterpreted: expected 1 token")
		}
		s, err = mgr.Solv.MkSortUninterpreted(tokens[0])
	case solver.SortBV:
		if len(tokens) != 1 {
			return nil, fmt.Errorf("mk-sort-bv: expected 1 token")
		}
		w, perr := parseUint(tokens[0])
		if perr != nil {
			return nil, perr
		}
		s, err = mgr.Solv.MkSortBV(uint32(w))
	case solver.SortFP:
		if len(tokens) != 2 {
			return nil, fmt.Errorf("mk-sort-fp: expected 2 tokens")
		}
		exp, e1 := parseUint(tokens[0])
		sig, e2 := parseUint(tokens[1])
		if e1 != nil || e2 != nil {
			return nil, fmt.Errorf("mk-sort-fp: bad indices")
		}
		s, err = mgr.Solv.MkSortFP(uint32(exp), uint32(sig))
	case solver.SortArray:
		if len(tokens) != 2 {
			return nil, fmt.Errorf("mk-sort-array: expected 2 tokens")
		}
		idxE, e1 := parseSortToken(tokens[0], mgr)
		elemE, e2 := parseSortToken(tokens[1], mgr)
		if e1 != nil || e2 != nil {
			return nil, fmt.Errorf("mk-sort-array: bad sort ids")
		}
		s, err = mgr.Solv.MkSortArray(idxE.Sort, elemE.Sort)
	case solver.SortFun:
		if len(tokens) < 2 {
			return nil, fmt.Errorf("mk-sort-fun: too few tokens")
		}
		n, perr := parseInt(tokens[0])
		if perr != nil || len(tokens) != n+2 {
			return nil, fmt.Errorf("mk-sort-fun: arity mismatch")
		}
		domain := make([]solver.Sort, n)
		for i := 0; i < n; i++ {
			e, perr := parseSortToken(tokens[1+i], mgr)
			if perr != nil {
				return nil, perr
			}
			domain[i] = e.Sort
		}
		codomainE, perr := parseSortToken(tokens[n+1], mgr)
		if perr != nil {
			return nil, perr
		}
		s, err = mgr.Solv.MkSortFun(domain, codomainE.Sort)
	case solver.SortSeq, solver.SortSet, solver.SortBag:
		if len(tokens) != 1 {
			return nil, fmt.Errorf("mk-sort-%s: expected 1 token", sortKindName(a.K))
		}
		elemE, perr := parseSortToken(tokens[0], mgr)
		if perr != nil {
			return nil, perr
		}
		switch a.K {
		case solver.SortSeq:
			s, err = mgr.Solv.MkSortSeq(elemE.Sort)
		case solver.SortSet:
			s, err = mgr.Solv.MkSortSet(elemE.Sort)
		case solver.SortBag:
			s, err = mgr.Solv.MkSortBag(elemE.Sort)
		}
	case solver.SortDatatype:
		if len(tokens) < 3 {
			return nil, fmt.Errorf("mk-sort-datatype: too few tokens")
		}
		name, ctorName := tokens[0], tokens[1]
		nf, perr := parseInt(tokens[2])
		if perr != nil {
			return nil, perr
		}
		var fields []solver.Sort
		for i := 0; i < nf; i++ {
			e, perr := parseSortToken(tokens[3+i], mgr)
			if perr != nil {
				return nil, perr
			}
			fields = append(fields, e.Sort)
		}
		s, err = mgr.Solv.MkSortDatatype(name, ctorName, fields)
	default:
		return nil, fmt.Errorf("mk-sort: unhandled kind %v", a.K)
	}
	if err != nil {
		return nil, &solver.OpError{Op: a.Kind(), Err: err}
	}
	e := mgr.AddSort(s)
	return []string{sortToken(e.ID)}, nil
}

// AllSortKinds enumerates the sort kinds MkSort supports, for Register.
var AllSortKinds = []solver.SortKind{
	solver.SortBool, solver.SortBV, solver.SortFP, solver.SortRM,
	solver.SortInt, solver.SortReal, solver.SortString, solver.SortRegLan,
	solver.SortArray, solver.SortFun, solver.SortSeq, solver.SortSet,
	solver.SortBag, solver.SortDatatype, solver.SortUninterpreted,
}
