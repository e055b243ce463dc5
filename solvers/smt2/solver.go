// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

// Package smt2 adapts a subprocess SMT-LIB2-speaking solver (started with
// `--lang smt2` or equivalent) to the solver.Solver capability contract,
// driving it over its stdin/stdout the way go-air-gini/bench/instrun.go
// drives benchmark runs — one long-lived process per Solver instance,
// piped rather than batch-invoked, since the fuzzer issues one command
// at a time and reads the matching response back.
package smt2

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/alex-ozdemir/murxla/solver"
)

// Solver pipes SMT-LIB2 commands to an external process and parses its
// textual responses. It never evaluates anything itself; every verdict,
// model, and unsat-core answer is the subprocess's.
type Solver struct {
	path string
	args []string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	pushDepth uint32
	declSorts map[string]bool
}

// New builds a Solver that will exec path with args on NewSolver.
func New(path string, args []string) *Solver {
	return &Solver{path: path, args: args, declSorts: map[string]bool{}}
}

func (s *Solver) Name() string { return "smt2:" + s.path }

func (s *Solver) NewSolver() error {
	cmd := exec.Command(s.path, s.args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	s.cmd = cmd
	s.stdin = stdin
	s.stdout = bufio.NewReader(stdout)
	s.pushDepth = 0
	s.declSorts = map[string]bool{}
	return s.send("(set-option :print-success false)")
}

func (s *Solver) DeleteSolver() error {
	if s.stdin != nil {
		s.stdin.Close()
	}
	if s.cmd == nil {
		return nil
	}
	err := s.cmd.Wait()
	s.cmd = nil
	return err
}

func (s *Solver) SupportedTheories() []solver.Theory {
	return []solver.Theory{
		solver.TheoryBool, solver.TheoryBV, solver.TheoryInt, solver.TheoryReal,
		solver.TheoryArray, solver.TheoryUF,
	}
}

func (s *Solver) UnsupportedOpKinds() map[solver.OpKind]struct{} { return unsupportedOpKinds() }

func (s *Solver) IsUnsupported(role solver.UnsupportedRole, kind solver.SortKind) bool {
	switch kind {
	case solver.SortFP, solver.SortRM, solver.SortString, solver.SortRegLan,
		solver.SortSeq, solver.SortSet, solver.SortBag, solver.SortDatatype:
		return true
	default:
		return false
	}
}

func (s *Solver) ExtraSpecialValues(kind solver.SortKind) []solver.SpecialValueKind { return nil }

func (s *Solver) LegalFPFormats() [][2]uint32 { return nil }

// --- sorts -----------------------------------------------------------------

func (s *Solver) newSort(kind solver.SortKind, text string) solver.Sort {
	return &sortImpl{kind: kind, text: text}
}

func (s *Solver) MkSortBool() (solver.Sort, error) { return s.newSort(solver.SortBool, "Bool"), nil }
func (s *Solver) MkSortInt() (solver.Sort, error)  { return s.newSort(solver.SortInt, "Int"), nil }
func (s *Solver) MkSortReal() (solver.Sort, error) { return s.newSort(solver.SortReal, "Real"), nil }

func (s *Solver) MkSortString() (solver.Sort, error) {
	return nil, fmt.Errorf("smt2: String sort not supported by this adapter")
}
func (s *Solver) MkSortRegLan() (solver.Sort, error) {
	return nil, fmt.Errorf("smt2: RegLan sort not supported by this adapter")
}
func (s *Solver) MkSortRM() (solver.Sort, error) {
	return nil, fmt.Errorf("smt2: RoundingMode sort not supported by this adapter")
}
func (s *Solver) MkSortFP(exp, sig uint32) (solver.Sort, error) {
	return nil, fmt.Errorf("smt2: FloatingPoint sort not supported by this adapter")
}
func (s *Solver) MkSortSeq(elem solver.Sort) (solver.Sort, error) {
	return nil, fmt.Errorf("smt2: Seq sort not supported by this adapter")
}
func (s *Solver) MkSortSet(elem solver.Sort) (solver.Sort, error) {
	return nil, fmt.Errorf("smt2: Set sort not supported by this adapter")
}
func (s *Solver) MkSortBag(elem solver.Sort) (solver.Sort, error) {
	return nil, fmt.Errorf("smt2: Bag sort not supported by this adapter")
}
func (s *Solver) MkSortDatatype(name, ctorName string, fields []solver.Sort) (solver.Sort, error) {
	return nil, fmt.Errorf("smt2: datatype sort not supported by this adapter")
}

func (s *Solver) MkSortBV(width uint32) (solver.Sort, error) {
	sort := s.newSort(solver.SortBV, bvSortText(width)).(*sortImpl)
	sort.width = width
	return sort, nil
}

func (s *Solver) MkSortArray(index, elem solver.Sort) (solver.Sort, error) {
	idx, err := asSortImpl(index)
	if err != nil {
		return nil, err
	}
	el, err := asSortImpl(elem)
	if err != nil {
		return nil, err
	}
	sort := s.newSort(solver.SortArray, arraySortText(idx, el)).(*sortImpl)
	sort.children = []solver.Sort{index, elem}
	return sort, nil
}

func (s *Solver) MkSortFun(domain []solver.Sort, codomain solver.Sort) (solver.Sort, error) {
	cd, err := asSortImpl(codomain)
	if err != nil {
		return nil, err
	}
	var texts []string
	children := make([]solver.Sort, 0, len(domain)+1)
	for _, d := range domain {
		di, err := asSortImpl(d)
		if err != nil {
			return nil, err
		}
		texts = append(texts, di.text)
		children = append(children, d)
	}
	children = append(children, codomain)
	sort := s.newSort(solver.SortFun, "(-> ("+strings.Join(texts, " ")+") "+cd.text+")").(*sortImpl)
	sort.children = children
	return sort, nil
}

func (s *Solver) MkSortUninterpreted(name string) (solver.Sort, error) {
	qname := quoteSymbol(name)
	if !s.declSorts[qname] {
		if err := s.send(fmt.Sprintf("(declare-sort %s 0)", qname)); err != nil {
			return nil, err
		}
		s.declSorts[qname] = true
	}
	return s.newSort(solver.SortUninterpreted, qname), nil
}

// --- terms -------------------------------------------------------------

func (s *Solver) MkConst(sort solver.Sort, symbol string) (solver.Term, error) {
	si, err := asSortImpl(sort)
	if err != nil {
		return nil, err
	}
	qname := quoteSymbol(symbol)
	var cmd string
	if si.kind == solver.SortFun {
		domainTexts := make([]string, len(si.children)-1)
		for i := 0; i < len(si.children)-1; i++ {
			di, err := asSortImpl(si.children[i])
			if err != nil {
				return nil, err
			}
			domainTexts[i] = di.text
		}
		cd, err := asSortImpl(si.children[len(si.children)-1])
		if err != nil {
			return nil, err
		}
		cmd = fmt.Sprintf("(declare-fun %s (%s) %s)", qname, strings.Join(domainTexts, " "), cd.text)
	} else {
		cmd = fmt.Sprintf("(declare-const %s %s)", qname, si.text)
	}
	if err := s.send(cmd); err != nil {
		return nil, err
	}
	return &termImpl{sort: sort, text: qname}, nil
}

func (s *Solver) MkVar(sort solver.Sort, symbol string) (solver.Term, error) {
	si, err := asSortImpl(sort)
	if err != nil {
		return nil, err
	}
	qname := quoteSymbol(symbol)
	return &termImpl{sort: si, text: qname}, nil
}

func (s *Solver) MkValue(sort solver.Sort, literal string) (solver.Term, error) {
	si, err := asSortImpl(sort)
	if err != nil {
		return nil, err
	}
	text, err := formatLiteral(si.kind, si.width, literal)
	if err != nil {
		return nil, err
	}
	return &termImpl{sort: si, text: text, isValue: true}, nil
}

func (s *Solver) MkSpecialValue(sort solver.Sort, kind solver.SpecialValueKind) (solver.Term, error) {
	si, err := asSortImpl(sort)
	if err != nil {
		return nil, err
	}
	var literal string
	switch kind {
	case solver.SpecialBVZero:
		literal = "0"
	case solver.SpecialBVOnes:
		literal = strconv.FormatUint((uint64(1)<<si.width)-1, 10)
	case solver.SpecialBVMaxSigned:
		literal = strconv.FormatUint((uint64(1)<<(si.width-1))-1, 10)
	case solver.SpecialBVOne:
		literal = "1"
	case solver.SpecialBVMinSigned:
		literal = strconv.FormatUint(uint64(1)<<(si.width-1), 10)
	default:
		return nil, fmt.Errorf("smt2: unknown special value kind %v for sort kind %v", kind, si.kind)
	}
	return s.MkValue(sort, literal)
}

func (s *Solver) MkTerm(kind solver.OpKind, args []solver.Term, indices []uint32) (solver.Term, error) {
	argTexts := make([]string, len(args))
	var resultSort *sortImpl
	for i, a := range args {
		ti, err := asTermImpl(a)
		if err != nil {
			return nil, err
		}
		argTexts[i] = ti.text
		if si, ok := ti.sort.(*sortImpl); ok {
			resultSort = si
		}
	}

	if kind == solver.OpUFApply {
		fn, err := asTermImpl(args[0])
		if err != nil {
			return nil, err
		}
		fnSort, err := asSortImpl(fn.Sort())
		if err != nil {
			return nil, err
		}
		codomain, err := asSortImpl(fnSort.children[len(fnSort.children)-1])
		if err != nil {
			return nil, err
		}
		text := formatApply(fn.text, argTexts[1:])
		return &termImpl{sort: codomain, text: text, opKind: kind}, nil
	}

	var text string
	if idxSymbol, ok := indexedOpSymbols[kind]; ok {
		text = formatIndexedApply(idxSymbol, indices, argTexts)
	} else {
		symbol, ok := opSymbols[kind]
		if !ok {
			return nil, fmt.Errorf("smt2: op kind %v not supported by this adapter", kind)
		}
		text = formatApply(symbol, argTexts)
	}

	resSort, err := s.resultSortFor(kind, args, indices, resultSort)
	if err != nil {
		return nil, err
	}
	return &termImpl{sort: resSort, text: text, opKind: kind, indices: indices}, nil
}

// resultSortFor computes the declared sort of a freshly built term. Most
// op kinds preserve an argument's sort (e.g. bvadd); comparison and
// predicate ops always produce Bool; a handful of BV ops change width.
func (s *Solver) resultSortFor(kind solver.OpKind, args []solver.Term, indices []uint32, argSort *sortImpl) (solver.Sort, error) {
	info, ok := solver.Info(kind)
	if !ok {
		return nil, fmt.Errorf("smt2: unknown op kind %v", kind)
	}
	switch info.Result {
	case solver.SortBool:
		return s.newSort(solver.SortBool, "Bool"), nil
	case solver.SortArray:
		a, err := asTermImpl(args[0])
		if err != nil {
			return nil, err
		}
		return a.Sort(), nil
	case solver.SortAny:
		switch kind {
		case solver.OpArraySelect:
			arr, err := asSortImpl(args[0].Sort())
			if err != nil {
				return nil, err
			}
			return arr.children[1], nil
		case solver.OpIte:
			return args[1].Sort(), nil
		default:
			return args[0].Sort(), nil
		}
	}
	switch kind {
	case solver.OpBVConcat:
		w := uint32(0)
		for _, a := range args {
			ai, err := asTermImpl(a)
			if err != nil {
				return nil, err
			}
			w += ai.Sort().BVWidth()
		}
		return s.bvSort(w), nil
	case solver.OpBVExtract:
		return s.bvSort(indices[0] - indices[1] + 1), nil
	case solver.OpBVZeroExtend, solver.OpBVSignExtend:
		return s.bvSort(argSort.width + indices[0]), nil
	case solver.OpBVRepeat:
		return s.bvSort(argSort.width * indices[0]), nil
	case solver.OpBVComp:
		return s.bvSort(1), nil
	case solver.OpToReal:
		return s.newSort(solver.SortReal, "Real"), nil
	case solver.OpToInt:
		return s.newSort(solver.SortInt, "Int"), nil
	}
	if argSort != nil {
		return argSort, nil
	}
	return nil, fmt.Errorf("smt2: cannot determine result sort for op kind %v", kind)
}

func (s *Solver) bvSort(width uint32) solver.Sort {
	sort := s.newSort(solver.SortBV, bvSortText(width)).(*sortImpl)
	sort.width = width
	return sort
}

// --- assertions & queries -----------------------------------------------

func (s *Solver) AssertFormula(t solver.Term) error {
	ti, err := asTermImpl(t)
	if err != nil {
		return err
	}
	return s.send(fmt.Sprintf("(assert %s)", ti.text))
}

func (s *Solver) CheckSat() (solver.CheckSatResult, error) {
	return s.checkSat("(check-sat)")
}

func (s *Solver) CheckSatAssuming(assumptions []solver.Term) (solver.CheckSatResult, error) {
	toks := make([]string, len(assumptions))
	for i, a := range assumptions {
		ai, err := asTermImpl(a)
		if err != nil {
			return solver.ResultUnknown, err
		}
		toks[i] = ai.text
	}
	return s.checkSat(fmt.Sprintf("(check-sat-assuming (%s))", strings.Join(toks, " ")))
}

func (s *Solver) checkSat(cmd string) (solver.CheckSatResult, error) {
	if err := s.send(cmd); err != nil {
		return solver.ResultUnknown, err
	}
	resp, err := s.readSExpr()
	if err != nil {
		return solver.ResultUnknown, err
	}
	switch strings.TrimSpace(resp) {
	case "sat":
		return solver.ResultSat, nil
	case "unsat":
		return solver.ResultUnsat, nil
	default:
		return solver.ResultUnknown, nil
	}
}

func (s *Solver) GetUnsatCore() ([]solver.Term, error) {
	if err := s.send("(get-unsat-core)"); err != nil {
		return nil, err
	}
	resp, err := s.readSExpr()
	if err != nil {
		return nil, err
	}
	names := splitTopLevel(resp)
	out := make([]solver.Term, len(names))
	for i, n := range names {
		out[i] = &termImpl{sort: s.newSort(solver.SortBool, "Bool"), text: n}
	}
	return out, nil
}

func (s *Solver) GetUnsatAssumptions() ([]solver.Term, error) { return s.GetUnsatCore() }

func (s *Solver) GetValue(terms []solver.Term) ([]solver.Term, error) {
	toks := make([]string, len(terms))
	for i, t := range terms {
		ti, err := asTermImpl(t)
		if err != nil {
			return nil, err
		}
		toks[i] = ti.text
	}
	if err := s.send(fmt.Sprintf("(get-value (%s))", strings.Join(toks, " "))); err != nil {
		return nil, err
	}
	resp, err := s.readSExpr()
	if err != nil {
		return nil, err
	}
	pairs := splitTopLevel(resp)
	out := make([]solver.Term, 0, len(pairs))
	for i, p := range pairs {
		inner := splitTopLevel(strings.TrimSuffix(strings.TrimPrefix(p, "("), ")"))
		value := strings.Join(inner[1:], " ")
		si, err := asSortImpl(terms[i].Sort())
		if err != nil {
			return nil, err
		}
		out = append(out, &termImpl{sort: si, text: value, isValue: true})
	}
	return out, nil
}

func (s *Solver) GetModel() (string, error) {
	if err := s.send("(get-model)"); err != nil {
		return "", err
	}
	return s.readSExpr()
}

func (s *Solver) PrintModel() (string, error) { return s.GetModel() }

// --- scopes & options ----------------------------------------------------

func (s *Solver) Push(levels uint32) error {
	s.pushDepth += levels
	return s.send(fmt.Sprintf("(push %d)", levels))
}

func (s *Solver) Pop(levels uint32) error {
	s.pushDepth -= levels
	return s.send(fmt.Sprintf("(pop %d)", levels))
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
	return s.send(fmt.Sprintf("(set-option :%s %s)", name, value))
}

func (s *Solver) Reset() error {
	s.declSorts = map[string]bool{}
	s.pushDepth = 0
	return s.send("(reset)")
}

func (s *Solver) ResetAssertions() error {
	s.pushDepth = 0
	return s.send("(reset-assertions)")
}

// --- wire I/O --------------------------------------------------------------

func (s *Solver) send(cmd string) error {
	if _, err := io.WriteString(s.stdin, cmd+"\n"); err != nil {
		return err
	}
	return nil
}

// readSExpr reads one SMT-LIB2 response: a bare atom (sat, unsat,
// unknown) or a single balanced-parenthesis list.
func (s *Solver) readSExpr() (string, error) {
	var sb strings.Builder
	depth := 0
	started := false
	for {
		r, _, err := s.stdout.ReadRune()
		if err != nil {
			if started {
				break
			}
			return "", err
		}
		if !started {
			if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
				continue
			}
			started = true
		}
		sb.WriteRune(r)
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return sb.String(), nil
			}
		default:
			if depth == 0 {
				next, _, err := s.stdout.ReadRune()
				if err != nil {
					return sb.String(), nil
				}
				if next == ' ' || next == '\n' || next == '\t' || next == '\r' {
					return sb.String(), nil
				}
				_ = s.stdout.UnreadRune()
			}
		}
	}
	return sb.String(), nil
}

// splitTopLevel tokenizes a space-separated list of top-level atoms and
// parenthesized groups, e.g. "(a) b (c d)" -> ["(a)", "b", "(c d)"].
func splitTopLevel(s string) []string {
	var out []string
	depth := 0
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '(':
			depth++
			cur.WriteRune(r)
		case r == ')':
			depth--
			cur.WriteRune(r)
			if depth == 0 {
				flush()
			}
		case (r == ' ' || r == '\n' || r == '\t') && depth == 0:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}
