// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package stub

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alex-ozdemir/murxla/solver"
)

// Solver is the shared implementation behind Correct and Buggy.
type Solver struct {
	buggy bool

	asserted     []solver.Term
	pushMarks    []int // asserted length at each push
	opts         map[string]string
	model        map[string]uint64
	modelBool    map[string]bool
	lastAssumes  []solver.Term
	lastResult   solver.CheckSatResult
}

func NewCorrect() *Solver { return &Solver{opts: map[string]string{}} }
func NewBuggy() *Solver   { return &Solver{buggy: true, opts: map[string]string{}} }

func (s *Solver) Name() string {
	if s.buggy {
		return "stub-buggy"
	}
	return "stub-correct"
}

func (s *Solver) NewSolver() error {
	s.asserted = nil
	s.pushMarks = nil
	s.opts = map[string]string{}
	return nil
}

func (s *Solver) DeleteSolver() error { return nil }

func (s *Solver) SupportedTheories() []solver.Theory {
	return []solver.Theory{solver.TheoryBool, solver.TheoryBV, solver.TheoryInt, solver.TheoryReal, solver.TheoryArray, solver.TheoryUF}
}

func (s *Solver) UnsupportedOpKinds() map[solver.OpKind]struct{} {
	unsupported := map[solver.OpKind]struct{}{}
	for _, k := range solver.AllKinds() {
		info, _ := solver.Info(k)
		switch info.Theory {
		case solver.TheoryBool, solver.TheoryBV, solver.TheoryInt, solver.TheoryReal, solver.TheoryArray, solver.TheoryUF:
			// supported theory, kept
		default:
			unsupported[k] = struct{}{}
		}
	}
	return unsupported
}

func (s *Solver) IsUnsupported(role solver.UnsupportedRole, kind solver.SortKind) bool {
	return false
}

func (s *Solver) ExtraSpecialValues(kind solver.SortKind) []solver.SpecialValueKind { return nil }

func (s *Solver) MkSortBool() (solver.Sort, error) { return &sortImpl{kind: solver.SortBool}, nil }

func (s *Solver) MkSortBV(width uint32) (solver.Sort, error) {
	if width == 0 || width > 128 {
		return nil, fmt.Errorf("bv width out of range: %d", width)
	}
	return &sortImpl{kind: solver.SortBV, width: width}, nil
}

func (s *Solver) MkSortFP(exp, sig uint32) (solver.Sort, error) {
	return &sortImpl{kind: solver.SortFP, expSig: [2]uint32{exp, sig}}, nil
}

func (s *Solver) MkSortRM() (solver.Sort, error) { return &sortImpl{kind: solver.SortRM}, nil }
func (s *Solver) MkSortInt() (solver.Sort, error) { return &sortImpl{kind: solver.SortInt}, nil }
func (s *Solver) MkSortReal() (solver.Sort, error) { return &sortImpl{kind: solver.SortReal}, nil }
func (s *Solver) MkSortString() (solver.Sort, error) { return &sortImpl{kind: solver.SortString}, nil }
func (s *Solver) MkSortRegLan() (solver.Sort, error) { return &sortImpl{kind: solver.SortRegLan}, nil }

func (s *Solver) MkSortArray(index, elem solver.Sort) (solver.Sort, error) {
	return &sortImpl{kind: solver.SortArray, children: []solver.Sort{index, elem}}, nil
}

func (s *Solver) MkSortFun(domain []solver.Sort, codomain solver.Sort) (solver.Sort, error) {
	children := append(append([]solver.Sort{}, domain...), codomain)
	return &sortImpl{kind: solver.SortFun, children: children}, nil
}

func (s *Solver) MkSortSeq(elem solver.Sort) (solver.Sort, error) {
	return &sortImpl{kind: solver.SortSeq, children: []solver.Sort{elem}}, nil
}
func (s *Solver) MkSortSet(elem solver.Sort) (solver.Sort, error) {
	return &sortImpl{kind: solver.SortSet, children: []solver.Sort{elem}}, nil
}
func (s *Solver) MkSortBag(elem solver.Sort) (solver.Sort, error) {
	return &sortImpl{kind: solver.SortBag, children: []solver.Sort{elem}}, nil
}

func (s *Solver) MkSortDatatype(name, ctorName string, fields []solver.Sort) (solver.Sort, error) {
	return &sortImpl{kind: solver.SortDatatype, name: name, ctor: ctorName, children: fields}, nil
}

func (s *Solver) MkSortUninterpreted(name string) (solver.Sort, error) {
	return &sortImpl{kind: solver.SortUninterpreted, name: name}, nil
}

func (s *Solver) LegalFPFormats() [][2]uint32 {
	return [][2]uint32{{5, 11}, {8, 24}, {11, 53}}
}

func (s *Solver) MkConst(sort solver.Sort, symbol string) (solver.Term, error) {
	return &termImpl{sort: sort, kind: solver.OpUndefined, symbol: symbol}, nil
}

func (s *Solver) MkVar(sort solver.Sort, symbol string) (solver.Term, error) {
	return &termImpl{sort: sort, kind: solver.OpUndefined, symbol: "var:" + symbol}, nil
}

func (s *Solver) MkValue(sort solver.Sort, literal string) (solver.Term, error) {
	t := &termImpl{sort: sort, kind: solver.OpUndefined, isValue: true, symbol: literal}
	switch sort.Kind() {
	case solver.SortBool:
		t.boolVal = literal == "true"
	case solver.SortBV:
		v, err := strconv.ParseUint(literal, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad bv literal %q: %w", literal, err)
		}
		t.bvVal = maskWidth(v, sort.BVWidth())
	}
	return t, nil
}

func (s *Solver) MkSpecialValue(sort solver.Sort, kind solver.SpecialValueKind) (solver.Term, error) {
	t := &termImpl{sort: sort, kind: solver.OpUndefined, isValue: true}
	switch kind {
	case solver.SpecialBVZero:
		t.symbol, t.bvVal = "bv-zero", 0
	case solver.SpecialBVOne:
		t.symbol, t.bvVal = "bv-one", 1
	case solver.SpecialBVOnes:
		t.symbol, t.bvVal = "bv-ones", maskWidth(^uint64(0), sort.BVWidth())
	case solver.SpecialBVMinSigned:
		t.symbol, t.bvVal = "bv-min-signed", maskWidth(uint64(1)<<(sort.BVWidth()-1), sort.BVWidth())
	case solver.SpecialBVMaxSigned:
		t.symbol, t.bvVal = "bv-max-signed", maskWidth(^(uint64(1)<<(sort.BVWidth()-1)), sort.BVWidth())
	default:
		t.symbol = fmt.Sprintf("special-%d", kind)
	}
	return t, nil
}

func (s *Solver) MkTerm(kind solver.OpKind, args []solver.Term, indices []uint32) (solver.Term, error) {
	info, ok := solver.Info(kind)
	if !ok {
		return nil, fmt.Errorf("unknown op kind %d", kind)
	}
	var resultSort solver.Sort
	switch {
	case info.Result == solver.SortBool:
		resultSort = &sortImpl{kind: solver.SortBool}
	case info.Result == solver.SortAny:
		resultSort = args[0].Sort()
	default:
		resultSort = &sortImpl{kind: info.Result}
		for _, a := range args {
			if a.Sort().Kind() == info.Result {
				resultSort = a.Sort()
				break
			}
		}
	}
	if info.NumIndices > 0 {
		if len(indices) != info.NumIndices {
			return nil, fmt.Errorf("%s: expected %d indices, got %d", info.Name, info.NumIndices, len(indices))
		}
		if info.Index != nil && !info.Index(args, indices) {
			return nil, fmt.Errorf("%s: invalid indices %v for args", info.Name, indices)
		}
		if kind == solver.OpBVExtract {
			resultSort = &sortImpl{kind: solver.SortBV, width: indices[0] - indices[1] + 1}
		}
		if kind == solver.OpBVZeroExtend || kind == solver.OpBVSignExtend {
			resultSort = &sortImpl{kind: solver.SortBV, width: args[0].Sort().BVWidth() + indices[0]}
		}
		if kind == solver.OpBVRepeat {
			resultSort = &sortImpl{kind: solver.SortBV, width: args[0].Sort().BVWidth() * indices[0]}
		}
	}
	if kind == solver.OpBVConcat {
		width := uint32(0)
		for _, a := range args {
			width += a.Sort().BVWidth()
		}
		resultSort = &sortImpl{kind: solver.SortBV, width: width}
	}
	return &termImpl{sort: resultSort, kind: kind, args: args, indices: indices}, nil
}

func (s *Solver) AssertFormula(t solver.Term) error {
	s.asserted = append(s.asserted, t)
	return nil
}

func (s *Solver) CheckSat() (solver.CheckSatResult, error) {
	return s.checkSatWith(nil)
}

func (s *Solver) CheckSatAssuming(assumptions []solver.Term) (solver.CheckSatResult, error) {
	s.lastAssumes = assumptions
	return s.checkSatWith(assumptions)
}

func (s *Solver) checkSatWith(assumptions []solver.Term) (solver.CheckSatResult, error) {
	all := append(append([]solver.Term{}, s.asserted...), assumptions...)
	res, model, modelBool, ok := s.evaluate(all)
	s.lastResult = res
	if ok {
		s.model, s.modelBool = model, modelBool
	}
	return res, nil
}

func (s *Solver) GetUnsatCore() ([]solver.Term, error) {
	if s.lastResult != solver.ResultUnsat {
		return nil, fmt.Errorf("get-unsat-core called without a prior UNSAT result")
	}
	return s.asserted, nil
}

func (s *Solver) GetUnsatAssumptions() ([]solver.Term, error) {
	if s.lastResult != solver.ResultUnsat {
		return nil, fmt.Errorf("get-unsat-assumptions called without a prior UNSAT result")
	}
	return s.lastAssumes, nil
}

func (s *Solver) GetValue(terms []solver.Term) ([]solver.Term, error) {
	out := make([]solver.Term, 0, len(terms))
	for _, t := range terms {
		v, ok := s.evalTerm(t, s.model, s.modelBool)
		if !ok {
			return nil, fmt.Errorf("get-value: could not evaluate term under current model")
		}
		out = append(out, v.toTerm(t.Sort()))
	}
	return out, nil
}

func (s *Solver) GetModel() (string, error) {
	var b strings.Builder
	for k, v := range s.modelBool {
		fmt.Fprintf(&b, "(define-fun %s () Bool %v)\n", k, v)
	}
	for k, v := range s.model {
		fmt.Fprintf(&b, "(define-fun %s () ? %d)\n", k, v)
	}
	return b.String(), nil
}

func (s *Solver) PrintModel() (string, error) { return s.GetModel() }

func (s *Solver) Push(levels uint32) error {
	for i := uint32(0); i < levels; i++ {
		s.pushMarks = append(s.pushMarks, len(s.asserted))
	}
	return nil
}

func (s *Solver) Pop(levels uint32) error {
	if int(levels) > len(s.pushMarks) {
		return fmt.Errorf("pop %d exceeds push depth %d", levels, len(s.pushMarks))
	}
	mark := len(s.asserted)
	for i := uint32(0); i < levels; i++ {
		mark = s.pushMarks[len(s.pushMarks)-1]
		s.pushMarks = s.pushMarks[:len(s.pushMarks)-1]
	}
	s.asserted = s.asserted[:mark]
	return nil
}

func (s *Solver) OptionName(std solver.StandardOption) string {
	switch std {
	case solver.OptIncremental:
		return "incremental"
	case solver.OptModelGen:
		return "produce-models"
	case solver.OptUnsatAssumptions:
		return "produce-unsat-assumptions"
	case solver.OptUnsatCores:
		return "produce-unsat-cores"
	default:
		return ""
	}
}

func (s *Solver) SetOpt(name, value string) error {
	s.opts[name] = value
	return nil
}

func (s *Solver) Reset() error {
	s.asserted = nil
	s.pushMarks = nil
	s.opts = map[string]string{}
	s.model, s.modelBool = nil, nil
	return nil
}

func (s *Solver) ResetAssertions() error {
	s.asserted = nil
	s.pushMarks = nil
	return nil
}

func maskWidth(v uint64, width uint32) uint64 {
	if width >= 64 {
		return v
	}
	return v & ((uint64(1) << width) - 1)
}
