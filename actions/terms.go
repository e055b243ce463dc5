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

// MkConst is spec.md §4.3 "mk-const": declares a free constant of a
// random already-instantiated sort.
type MkConst struct{}

func (MkConst) Kind() string { return "mk-const" }
func (MkConst) Applicable(ctx *fsm.Context) bool { return ctx.Mgr.HasSort(solver.SortAny, false, nil) }

func (MkConst) Run(ctx *fsm.Context) ([]string, []string, error) {
	mgr := ctx.Mgr
	se := mgr.PickSort(solver.SortAny, false, nil)
	symbol, _ := mgr.PickSymbol()
	t, err := mgr.Solv.MkConst(se.Sort, symbol)
	if err != nil {
		return nil, nil, &solver.OpError{Op: "mk-const", Err: err}
	}
	e := mgr.AddInput(t, se)
	if se.Kind == solver.SortString && len(symbol) == 1 {
		mgr.AddStringCharValue(t)
	}
	return []string{sortToken(se.ID), strconv.Quote(symbol)}, []string{termToken(e.ID)}, nil
}

func (MkConst) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	if len(tokens) != 2 {
		return nil, fmt.Errorf("mk-const: expected 2 tokens")
	}
	mgr := ctx.Mgr
	se, err := parseSortToken(tokens[0], mgr)
	if err != nil {
		return nil, err
	}
	symbol, err := strconv.Unquote(tokens[1])
	if err != nil {
		return nil, err
	}
	t, err := mgr.Solv.MkConst(se.Sort, symbol)
	if err != nil {
		return nil, &solver.OpError{Op: "mk-const", Err: err}
	}
	e := mgr.AddInput(t, se)
	return []string{termToken(e.ID)}, nil
}

// MkVar is spec.md §4.3's variable-binding constructor, consumed by
// quantifier op-kinds via mk-term.
type MkVar struct{}

func (MkVar) Kind() string { return "mk-var" }
func (MkVar) Applicable(ctx *fsm.Context) bool { return ctx.Mgr.HasSort(solver.SortAny, false, nil) }

func (MkVar) Run(ctx *fsm.Context) ([]string, []string, error) {
	mgr := ctx.Mgr
	se := mgr.PickSort(solver.SortAny, false, nil)
	symbol, _ := mgr.PickSymbol()
	t, err := mgr.Solv.MkVar(se.Sort, symbol)
	if err != nil {
		return nil, nil, &solver.OpError{Op: "mk-var", Err: err}
	}
	e := mgr.AddVar(t, se)
	return []string{sortToken(se.ID), strconv.Quote(symbol)}, []string{termToken(e.ID)}, nil
}

func (MkVar) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	if len(tokens) != 2 {
		return nil, fmt.Errorf("mk-var: expected 2 tokens")
	}
	mgr := ctx.Mgr
	se, err := parseSortToken(tokens[0], mgr)
	if err != nil {
		return nil, err
	}
	symbol, err := strconv.Unquote(tokens[1])
	if err != nil {
		return nil, err
	}
	t, err := mgr.Solv.MkVar(se.Sort, symbol)
	if err != nil {
		return nil, &solver.OpError{Op: "mk-var", Err: err}
	}
	e := mgr.AddVar(t, se)
	return []string{termToken(e.ID)}, nil
}

// MkValue covers the sort kinds this reimplementation knows a concrete
// literal grammar for (Bool/BV/Int/Real/String); other kinds are left to
// MkSpecialValue and to values built structurally via mk-term.
type MkValue struct{}

func (MkValue) Kind() string { return "mk-value" }

func mkValueApplicableSorts(mgr *smgr.Manager) []*smgr.SortEntry {
	var out []*smgr.SortEntry
	for _, k := range []solver.SortKind{solver.SortBool, solver.SortBV, solver.SortInt, solver.SortReal, solver.SortString} {
		out = append(out, mgr.Sorts.OfKind(k)...)
	}
	return out
}

func (MkValue) Applicable(ctx *fsm.Context) bool { return len(mkValueApplicableSorts(ctx.Mgr)) > 0 }

func randomLiteral(ctx *fsm.Context, se *smgr.SortEntry) string {
	switch se.Kind {
	case solver.SortBool:
		if ctx.RNG.FlipCoin(0.5) {
			return "true"
		}
		return "false"
	case solver.SortBV:
		return strconv.FormatUint(ctx.RNG.PickRange(0, (uint64(1)<<minU32(se.Sort.BVWidth(), 63))-1), 10)
	case solver.SortInt:
		v := int64(ctx.RNG.PickRange(0, 1000)) - 500
		return strconv.FormatInt(v, 10)
	case solver.SortReal:
		num := int64(ctx.RNG.PickRange(0, 1000))
		den := int64(ctx.RNG.PickRange(1, 1000))
		return fmt.Sprintf("%d/%d", num, den)
	case solver.SortString:
		body, _ := ctx.RNG.PickSymbol(16)
		return body
	}
	return ""
}

func minU32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

func (MkValue) Run(ctx *fsm.Context) ([]string, []string, error) {
	mgr := ctx.Mgr
	cand := mkValueApplicableSorts(mgr)
	se := smgrPick(ctx, cand)
	literal := randomLiteral(ctx, se)
	t, err := mgr.Solv.MkValue(se.Sort, literal)
	if err != nil {
		return nil, nil, &solver.OpError{Op: "mk-value", Err: err}
	}
	e := mgr.AddValue(t, se)
	if se.Kind == solver.SortString && len(literal) == 1 {
		mgr.AddStringCharValue(t)
	}
	return []string{sortToken(se.ID), strconv.Quote(literal)}, []string{termToken(e.ID)}, nil
}

func (MkValue) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	if len(tokens) != 2 {
		return nil, fmt.Errorf("mk-value: expected 2 tokens")
	}
	mgr := ctx.Mgr
	se, err := parseSortToken(tokens[0], mgr)
	if err != nil {
		return nil, err
	}
	literal, err := strconv.Unquote(tokens[1])
	if err != nil {
		return nil, err
	}
	t, err := mgr.Solv.MkValue(se.Sort, literal)
	if err != nil {
		return nil, &solver.OpError{Op: "mk-value", Err: err}
	}
	e := mgr.AddValue(t, se)
	return []string{termToken(e.ID)}, nil
}

func smgrPick[T any](ctx *fsm.Context, s []T) T { return s[int(ctx.RNG.PickRange(0, uint64(len(s)-1)))] }

// MkSpecialValue draws from solver.SpecialValueCatalog (plus any adapter
// extension) for an already-instantiated sort.
type MkSpecialValue struct{}

func (MkSpecialValue) Kind() string { return "mk-special-value" }

func specialValueCandidates(mgr *smgr.Manager) []*smgr.SortEntry {
	var out []*smgr.SortEntry
	for k := range solver.SpecialValueCatalog {
		out = append(out, mgr.Sorts.OfKind(k)...)
	}
	return out
}

func (MkSpecialValue) Applicable(ctx *fsm.Context) bool { return len(specialValueCandidates(ctx.Mgr)) > 0 }

func (MkSpecialValue) Run(ctx *fsm.Context) ([]string, []string, error) {
	mgr := ctx.Mgr
	cand := specialValueCandidates(mgr)
	se := smgrPick(ctx, cand)
	kinds := append([]solver.SpecialValueKind{}, solver.SpecialValueCatalog[se.Kind]...)
	kinds = append(kinds, mgr.Solv.ExtraSpecialValues(se.Kind)...)
	sv := smgrPick(ctx, kinds)
	t, err := mgr.Solv.MkSpecialValue(se.Sort, sv)
	if err != nil {
		return nil, nil, &solver.OpError{Op: "mk-special-value", Err: err}
	}
	e := mgr.AddValue(t, se)
	return []string{sortToken(se.ID), strconv.Itoa(int(sv))}, []string{termToken(e.ID)}, nil
}

func (MkSpecialValue) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	if len(tokens) != 2 {
		return nil, fmt.Errorf("mk-special-value: expected 2 tokens")
	}
	mgr := ctx.Mgr
	se, err := parseSortToken(tokens[0], mgr)
	if err != nil {
		return nil, err
	}
	n, err := parseInt(tokens[1])
	if err != nil {
		return nil, err
	}
	t, err := mgr.Solv.MkSpecialValue(se.Sort, solver.SpecialValueKind(n))
	if err != nil {
		return nil, &solver.OpError{Op: "mk-special-value", Err: err}
	}
	e := mgr.AddValue(t, se)
	return []string{termToken(e.ID)}, nil
}

// MkTerm is the single, catch-all operator-application Action: it picks
// an op-kind via smgr.PickOpKind (theory-first, per spec.md §4.2), then
// well-typed arguments and, for indexed ops, in-bounds integer indices.
type MkTerm struct {
	OpMgr *solver.OpKindManager
}

func (MkTerm) Kind() string { return "mk-term" }

func (a MkTerm) Applicable(ctx *fsm.Context) bool {
	_, ok := ctx.Mgr.PickOpKind(a.OpMgr, true)
	return ok
}

func (a MkTerm) Run(ctx *fsm.Context) ([]string, []string, error) {
	mgr := ctx.Mgr
	info, ok := mgr.PickOpKind(a.OpMgr, true)
	if !ok {
		return nil, nil, fmt.Errorf("mk-term: no applicable op kind")
	}

	nargs := info.Arity
	if nargs < 0 {
		nargs = info.MinArity + int(ctx.RNG.PickUint32(0, 2))
	}

	args := make([]solver.Term, nargs)
	argToks := make([]string, nargs)
	bySortKind := map[solver.SortKind]*smgr.SortEntry{}
	for i := 0; i < nargs; i++ {
		argKind := info.Args[0]
		if i < len(info.Args) {
			argKind = info.Args[i]
		}
		var te *smgr.TermEntry
		if argKind == solver.SortAny {
			te, _ = mgr.PickTerm()
		} else {
			se, cached := bySortKind[argKind]
			if !cached {
				se = mgr.PickSort(argKind, true, nil)
				bySortKind[argKind] = se
			}
			te = mgr.PickTermOfSort(se)
		}
		args[i] = te.Term
		argToks[i] = termToken(te.ID)
	}

	indices := synthesizeIndices(ctx, info, args)
	idxToks := make([]string, len(indices))
	for i, idx := range indices {
		idxToks[i] = strconv.FormatUint(uint64(idx), 10)
	}

	t, err := mgr.Solv.MkTerm(info.Kind, args, indices)
	if err != nil {
		return nil, nil, &solver.OpError{Op: info.Name, Err: err}
	}
	se := mgr.AddSort(t.Sort())
	e := mgr.AddTerm(t, se)

	traceArgs := append([]string{opKindKey(info), strconv.Itoa(nargs)}, argToks...)
	traceArgs = append(traceArgs, strconv.Itoa(len(idxToks)))
	traceArgs = append(traceArgs, idxToks...)
	return traceArgs, []string{termToken(e.ID)}, nil
}

func synthesizeIndices(ctx *fsm.Context, info solver.OpKindInfo, args []solver.Term) []uint32 {
	if info.NumIndices == 0 {
		return nil
	}
	width := args[0].Sort().BVWidth()
	switch info.Kind {
	case solver.OpBVExtract:
		hi := ctx.RNG.PickUint32(0, width-1)
		lo := ctx.RNG.PickUint32(0, hi)
		return []uint32{hi, lo}
	case solver.OpBVZeroExtend, solver.OpBVSignExtend:
		return []uint32{ctx.RNG.PickUint32(0, 64)}
	case solver.OpBVRepeat:
		return []uint32{ctx.RNG.PickUint32(1, 4)}
	case solver.OpBVRotateLeft, solver.OpBVRotateRight:
		if width == 0 {
			return []uint32{0}
		}
		return []uint32{ctx.RNG.PickUint32(0, width-1)}
	case solver.OpFPToFP:
		return []uint32{5, 11}
	case solver.OpFPToSBV, solver.OpFPToUBV:
		return []uint32{ctx.RNG.PickUint32(1, 128)}
	default:
		idx := make([]uint32, info.NumIndices)
		for i := range idx {
			idx[i] = ctx.RNG.PickUint32(0, 8)
		}
		return idx
	}
}

// opKindKey disambiguates Int and Real arithmetic op-kinds that share the
// same display Name (NEG, ADD, LT, ...) by folding in the theory, so a
// trace round-trips through mk-term without conflating the two.
func opKindKey(info solver.OpKindInfo) string {
	return fmt.Sprintf("%s/%d", info.Name, info.Theory)
}

var opKindByName = buildOpKindByName()

func buildOpKindByName() map[string]solver.OpKind {
	out := map[string]solver.OpKind{}
	for _, k := range solver.AllKinds() {
		info, _ := solver.Info(k)
		out[opKindKey(info)] = k
	}
	return out
}

func (a MkTerm) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	if len(tokens) < 2 {
		return nil, fmt.Errorf("mk-term: too few tokens")
	}
	kind, ok := opKindByName[tokens[0]]
	if !ok {
		return nil, fmt.Errorf("mk-term: unknown op name %q", tokens[0])
	}
	nargs, err := parseInt(tokens[1])
	if err != nil || len(tokens) < 2+nargs+1 {
		return nil, fmt.Errorf("mk-term: bad argument count")
	}
	mgr := ctx.Mgr
	args := make([]solver.Term, nargs)
	for i := 0; i < nargs; i++ {
		te, err := parseTermToken(tokens[2+i], mgr)
		if err != nil {
			return nil, err
		}
		args[i] = te.Term
	}
	nidx, err := parseInt(tokens[2+nargs])
	if err != nil || len(tokens) != 2+nargs+1+nidx {
		return nil, fmt.Errorf("mk-term: bad index count")
	}
	indices := make([]uint32, nidx)
	for i := 0; i < nidx; i++ {
		v, err := parseUint(tokens[3+nargs+i])
		if err != nil {
			return nil, err
		}
		indices[i] = uint32(v)
	}
	t, err := mgr.Solv.MkTerm(kind, args, indices)
	if err != nil {
		return nil, &solver.OpError{Op: tokens[0], Err: err}
	}
	se := mgr.AddSort(t.Sort())
	e := mgr.AddTerm(t, se)
	return []string{termToken(e.ID)}, nil
}
