// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package smgr

import (
	"fmt"
	"sort"

	"github.com/alex-ozdemir/murxla/rng"
	"github.com/alex-ozdemir/murxla/solver"
)

// Manager owns the RNG, the sort/term databases, enabled theories, the
// current assumption set, option-selection state and a handful of scalar
// flags — the full SolverManager state of spec.md §3. It is an explicit
// value threaded through Actions, never a global (DESIGN NOTES §9).
type Manager struct {
	RNG    *rng.RNG
	Solv   solver.Solver
	Sorts  *SortDB
	Terms  *TermDB
	Theories map[solver.Theory]struct{}

	assumptions      map[uint64]solver.Term
	assumedAssumes   map[uint64]solver.Term // subset asserted sat/unsat-assumptions against
	stringCharValues map[uint64]solver.Term
	usedOptions      map[string]struct{}

	NSorts       int
	NTerms       int
	NSymbols     int
	PushLevels   int
	SatCalled    bool
	SatResult    solver.CheckSatResult
	Incremental  bool
	ModelGen     bool
	UnsatAssumptions bool
	UnsatCores   bool
}

func NewManager(r *rng.RNG, s solver.Solver, theories map[solver.Theory]struct{}) *Manager {
	return &Manager{
		RNG:              r,
		Solv:             s,
		Sorts:            NewSortDB(),
		Terms:            NewTermDB(),
		Theories:         theories,
		assumptions:      map[uint64]solver.Term{},
		assumedAssumes:   map[uint64]solver.Term{},
		stringCharValues: map[uint64]solver.Term{},
		usedOptions:      map[string]struct{}{},
	}
}

// --- insertion primitives -------------------------------------------------

func (m *Manager) AddSort(s solver.Sort) *SortEntry {
	e := m.Sorts.Add(s)
	m.NSorts = m.Sorts.Size()
	return e
}

// AddTerm interns t as a plain, non-value, non-var term at the current
// scope depth.
func (m *Manager) AddTerm(t solver.Term, se *SortEntry) *TermEntry {
	return m.addTermAt(t, se, m.PushLevels, false, false)
}

func (m *Manager) AddInput(t solver.Term, se *SortEntry) *TermEntry {
	return m.addTermAt(t, se, m.PushLevels, false, false)
}

func (m *Manager) AddVar(t solver.Term, se *SortEntry) *TermEntry {
	return m.addTermAt(t, se, m.PushLevels, false, true)
}

func (m *Manager) AddValue(t solver.Term, se *SortEntry) *TermEntry {
	return m.addTermAt(t, se, m.PushLevels, true, false)
}

func (m *Manager) addTermAt(t solver.Term, se *SortEntry, level int, isValue, isVar bool) *TermEntry {
	e := m.Terms.Add(t, se, level, isValue, isVar)
	m.NTerms = m.Terms.Size()
	return e
}

// AddStringCharValue records a length-1 string literal so grammar-correct
// string concatenation can pick char-sized pieces.
func (m *Manager) AddStringCharValue(t solver.Term) {
	m.stringCharValues[t.Hash()] = t
}

// --- sort sampling ---------------------------------------------------------

// PickSortKind picks a sort_kind from those instantiated and, if
// withTerms, having at least one term.
func (m *Manager) PickSortKind(withTerms bool) (solver.SortKind, bool) {
	kinds := m.Sorts.Kinds()
	if withTerms {
		filtered := kinds[:0]
		for _, k := range kinds {
			if len(m.Terms.OfKind(k)) > 0 {
				filtered = append(filtered, k)
			}
		}
		kinds = filtered
	}
	if len(kinds) == 0 {
		return solver.SortAny, false
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return rng.PickFromSlice(m.RNG, kinds), true
}

// HasSort reports whether at least one sort matching the constraints
// exists, so Action.Applicable() can check before calling PickSort.
func (m *Manager) HasSort(kind solver.SortKind, withTerms bool, exclude map[SortID]struct{}) bool {
	return len(m.candidateSorts(kind, withTerms, exclude)) > 0
}

func (m *Manager) candidateSorts(kind solver.SortKind, withTerms bool, exclude map[SortID]struct{}) []*SortEntry {
	var pool []*SortEntry
	if kind == solver.SortAny {
		for _, k := range m.Sorts.Kinds() {
			pool = append(pool, m.Sorts.OfKind(k)...)
		}
	} else {
		pool = m.Sorts.OfKind(kind)
	}
	out := pool[:0:0]
	for _, e := range pool {
		if exclude != nil {
			if _, bad := exclude[e.ID]; bad {
				continue
			}
		}
		if withTerms && len(m.Terms.OfKind(e.Kind)) == 0 {
			continue
		}
		out = append(out, e)
	}
	return out
}

// PickSort picks a random sort satisfying the constraints. Panics if the
// caller didn't check HasSort first: the spec says this "fails only if
// caller violated preconditions".
func (m *Manager) PickSort(kind solver.SortKind, withTerms bool, exclude map[SortID]struct{}) *SortEntry {
	cand := m.candidateSorts(kind, withTerms, exclude)
	if len(cand) == 0 {
		panic("smgr: PickSort: no candidate sort, caller must check HasSort first")
	}
	sort.Slice(cand, func(i, j int) bool { return cand[i].ID < cand[j].ID })
	return rng.PickFromSlice(m.RNG, cand)
}

// PickSortBV picks a BV sort of exactly the given width.
func (m *Manager) PickSortBV(width uint32) (*SortEntry, bool) {
	var cand []*SortEntry
	for _, e := range m.Sorts.OfKind(solver.SortBV) {
		if e.Sort.BVWidth() == width {
			cand = append(cand, e)
		}
	}
	if len(cand) == 0 {
		return nil, false
	}
	sort.Slice(cand, func(i, j int) bool { return cand[i].ID < cand[j].ID })
	return rng.PickFromSlice(m.RNG, cand), true
}

// PickSortBVMax picks a BV sort with width <= maxWidth.
func (m *Manager) PickSortBVMax(maxWidth uint32) (*SortEntry, bool) {
	var cand []*SortEntry
	for _, e := range m.Sorts.OfKind(solver.SortBV) {
		if e.Sort.BVWidth() <= maxWidth {
			cand = append(cand, e)
		}
	}
	if len(cand) == 0 {
		return nil, false
	}
	sort.Slice(cand, func(i, j int) bool { return cand[i].ID < cand[j].ID })
	return rng.PickFromSlice(m.RNG, cand), true
}

// --- term sampling ---------------------------------------------------------

// HasTerm reports whether a term of the given sort is reachable at the
// current scope depth.
func (m *Manager) HasTerm(se *SortEntry) bool {
	return len(m.Terms.OfSortUpTo(se.ID, m.PushLevels)) > 0
}

// HasTermOfKind reports whether any term of the given sort kind is
// reachable at the current scope depth.
func (m *Manager) HasTermOfKind(k solver.SortKind) bool {
	for _, e := range m.Terms.OfKind(k) {
		if e.MinLevel() <= m.PushLevels {
			return true
		}
	}
	return false
}

// PickTermOfSort picks a random term of the given sort reachable at the
// current scope depth.
func (m *Manager) PickTermOfSort(se *SortEntry) *TermEntry {
	cand := m.Terms.OfSortUpTo(se.ID, m.PushLevels)
	if len(cand) == 0 {
		panic("smgr: PickTermOfSort: no candidate term, caller must check HasTerm first")
	}
	sort.Slice(cand, func(i, j int) bool { return cand[i].ID < cand[j].ID })
	return rng.PickFromSlice(m.RNG, cand)
}

// PickTermOfKind picks a random term of the given sort kind reachable at
// level, or at the current depth if level < 0.
func (m *Manager) PickTermOfKind(k solver.SortKind, level int) *TermEntry {
	var cand []*TermEntry
	depth := m.PushLevels
	for _, e := range m.Terms.OfKind(k) {
		if level >= 0 {
			if e.MinLevel() <= level && level <= e.MaxLevel() {
				cand = append(cand, e)
			}
		} else if e.MinLevel() <= depth {
			cand = append(cand, e)
		}
	}
	if len(cand) == 0 {
		panic("smgr: PickTermOfKind: no candidate term, caller must check HasTermOfKind first")
	}
	sort.Slice(cand, func(i, j int) bool { return cand[i].ID < cand[j].ID })
	return rng.PickFromSlice(m.RNG, cand)
}

// PickTerm picks a random term of any sort/kind, at the current depth.
func (m *Manager) PickTerm() (*TermEntry, bool) {
	kind, ok := m.PickSortKind(true)
	if !ok {
		return nil, false
	}
	if !m.HasTermOfKind(kind) {
		return nil, false
	}
	return m.PickTermOfKind(kind, -1), true
}

// HasAnyTerm reports whether at least one term of any sort exists at the
// current scope depth, without sampling one (unlike PickTerm).
func (m *Manager) HasAnyTerm() bool {
	for _, k := range m.Sorts.Kinds() {
		if m.HasTermOfKind(k) {
			return true
		}
	}
	return false
}

// HasVar reports whether any bound variable is in scope.
func (m *Manager) HasVar() bool { return len(m.Terms.Vars()) > 0 }

// PickVar picks a random variable created by mk_var.
func (m *Manager) PickVar() *TermEntry {
	vars := m.Terms.Vars()
	if len(vars) == 0 {
		panic("smgr: PickVar: no variable in scope, caller must check HasVar first")
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].ID < vars[j].ID })
	return rng.PickFromSlice(m.RNG, vars)
}

// PickValue picks a random value (mk_value result) of the given sort.
func (m *Manager) PickValue(se *SortEntry) (*TermEntry, bool) {
	var cand []*TermEntry
	for _, e := range m.Terms.OfSortUpTo(se.ID, m.PushLevels) {
		if e.IsValue {
			cand = append(cand, e)
		}
	}
	if len(cand) == 0 {
		return nil, false
	}
	sort.Slice(cand, func(i, j int) bool { return cand[i].ID < cand[j].ID })
	return rng.PickFromSlice(m.RNG, cand), true
}

// HasQuantBody reports whether a Bool term and at least one variable are
// in scope, the precondition for a quantifier Action.
func (m *Manager) HasQuantBody() bool {
	return m.HasVar() && m.HasTermOfKind(solver.SortBool)
}

// PickQuantBody picks a Bool term suitable as a quantifier body.
func (m *Manager) PickQuantBody() *TermEntry {
	return m.PickTermOfKind(solver.SortBool, -1)
}

// HasStringCharValue reports whether any length-1 string literal exists.
func (m *Manager) HasStringCharValue() bool { return len(m.stringCharValues) > 0 }

// PickStringCharValue picks a random length-1 string literal.
func (m *Manager) PickStringCharValue() solver.Term {
	if len(m.stringCharValues) == 0 {
		panic("smgr: PickStringCharValue: none recorded, caller must check HasStringCharValue first")
	}
	key := rng.PickFromMap(m.RNG, m.stringCharValues, func(a, b uint64) bool { return a < b })
	return m.stringCharValues[key]
}

// --- assumptions -----------------------------------------------------------

// RecordAssumptions replaces the current assumption set with assumptions,
// called by check-sat-assuming.
func (m *Manager) RecordAssumptions(terms []solver.Term) {
	m.assumptions = map[uint64]solver.Term{}
	for _, t := range terms {
		m.assumptions[t.Hash()] = t
	}
}

// ClearAssumptions empties the assumption set. Called on reset_sat (on
// re-entering assert state after a sat call, on reset, on
// reset_assertions) per spec.md §3 invariants.
func (m *Manager) ClearAssumptions() {
	m.assumptions = map[uint64]solver.Term{}
}

func (m *Manager) HasAssumption() bool { return len(m.assumptions) > 0 }

func (m *Manager) PickAssumption() solver.Term {
	if len(m.assumptions) == 0 {
		panic("smgr: PickAssumption: no assumption recorded")
	}
	key := rng.PickFromMap(m.RNG, m.assumptions, func(a, b uint64) bool { return a < b })
	return m.assumptions[key]
}

// HasAssumedAssumption reports whether get-unsat-assumptions has anything
// to report from the last UNSAT check-sat-assuming call.
func (m *Manager) HasAssumedAssumption() bool {
	return m.SatCalled && m.SatResult == solver.ResultUnsat && m.HasAssumption()
}

func (m *Manager) PickAssumedAssumption() solver.Term { return m.PickAssumption() }

// --- sat/push/pop state -----------------------------------------------------

// ResetSat clears the "a check-sat call has happened" flag and the
// assumption set, but deliberately leaves usedOptions untouched — per the
// resolved Open Question in spec.md §9, options persist until a full
// Reset.
func (m *Manager) ResetSat() {
	m.SatCalled = false
	m.SatResult = solver.ResultUnknown
	m.ClearAssumptions()
}

func (m *Manager) Push() {
	m.PushLevels++
}

// Pop pops n levels, discarding any term unreachable below the new depth
// (sorts are kept), and resets sat-call state (a pop invalidates the
// prior model).
func (m *Manager) Pop(n int) {
	if n > m.PushLevels {
		panic("smgr: Pop: n exceeds current depth, caller must check via PushLevels first")
	}
	m.PushLevels -= n
	m.Terms.Pop(m.PushLevels)
	m.NTerms = m.Terms.Size()
	m.ResetSat()
}

// Reset discards the entire database: sorts, terms, options, theories
// reconfiguration is left to the caller (a fresh NewManager is typical).
func (m *Manager) Reset() {
	m.Sorts = NewSortDB()
	m.Terms = NewTermDB()
	m.stringCharValues = map[uint64]solver.Term{}
	m.usedOptions = map[string]struct{}{}
	m.NSorts, m.NTerms, m.NSymbols, m.PushLevels = 0, 0, 0, 0
	m.ResetSat()
}

// --- options -----------------------------------------------------------

// Option is a candidate (name, value, depends-on, conflicts-with) record
// consulted by PickOption.
type Option struct {
	Name      string
	Values    []string
	Depends   []string
	Conflicts []string
}

// PickOption chooses a not-yet-used, not-conflicting, dependency-satisfied
// option from candidates and a random value for it.
func (m *Manager) PickOption(candidates []Option) (Option, string, bool) {
	var usable []Option
	for _, c := range candidates {
		if _, used := m.usedOptions[c.Name]; used {
			continue
		}
		if m.anyUsed(c.Conflicts) {
			continue
		}
		if !m.allUsed(c.Depends) {
			continue
		}
		usable = append(usable, c)
	}
	if len(usable) == 0 {
		return Option{}, "", false
	}
	sort.Slice(usable, func(i, j int) bool { return usable[i].Name < usable[j].Name })
	choice := rng.PickFromSlice(m.RNG, usable)
	if len(choice.Values) == 0 {
		return choice, "", false
	}
	val := rng.PickFromSlice(m.RNG, choice.Values)
	return choice, val, true
}

// RecordOptionUsed marks name as used, blocking future conflicting reuse.
func (m *Manager) RecordOptionUsed(name string) { m.usedOptions[name] = struct{}{} }

func (m *Manager) anyUsed(names []string) bool {
	for _, n := range names {
		if _, ok := m.usedOptions[n]; ok {
			return true
		}
	}
	return false
}

func (m *Manager) allUsed(names []string) bool {
	for _, n := range names {
		if _, ok := m.usedOptions[n]; !ok {
			return false
		}
	}
	return true
}

// PickSymbol delegates to the RNG, bumping NSymbols for bookkeeping.
func (m *Manager) PickSymbol() (string, bool) {
	body, piped := m.RNG.PickSymbol(128)
	m.NSymbols++
	return body, piped
}

func (m *Manager) String() string {
	return fmt.Sprintf("Manager{sorts=%d terms=%d depth=%d sat_called=%v}",
		m.NSorts, m.NTerms, m.PushLevels, m.SatCalled)
}
