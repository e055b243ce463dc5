// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

// Package stub provides two small in-memory reference adapters
// implementing solver.Solver: Correct, a structurally faithful but
// non-optimizing evaluator over Bool/BV (and a handful of other sorts
// enough to exercise the generation engine's sort/term plumbing), and
// Buggy, identical except that it silently evaluates BV_AND as BV_OR —
// the deterministic defect spec.md §8 scenario 3 cross-checks against.
// Neither is a decision procedure in the cvc5/Bitwuzla sense; they exist
// to make the abstract Solver contract concrete and testable without an
// external binary.
package stub

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/alex-ozdemir/murxla/solver"
)

type sortImpl struct {
	kind     solver.SortKind
	width    uint32
	expSig   [2]uint32
	children []solver.Sort
	name     string
	ctor     string
}

func (s *sortImpl) Kind() solver.SortKind { return s.kind }

func (s *sortImpl) key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d/%d/%d,%d/%s/%s", s.kind, s.width, s.expSig[0], s.expSig[1], s.name, s.ctor)
	for _, c := range s.children {
		b.WriteByte(';')
		b.WriteString(c.String())
	}
	return b.String()
}

func (s *sortImpl) Equal(o solver.Sort) bool {
	other, ok := o.(*sortImpl)
	if !ok {
		return false
	}
	return s.key() == other.key()
}

func (s *sortImpl) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(s.key()))
	return h.Sum64()
}

func (s *sortImpl) BVWidth() uint32 { return s.width }

func (s *sortImpl) FPExpSig() (uint32, uint32) { return s.expSig[0], s.expSig[1] }

func (s *sortImpl) Children() []solver.Sort { return s.children }

func (s *sortImpl) String() string {
	switch s.kind {
	case solver.SortBV:
		return fmt.Sprintf("(_ BitVec %d)", s.width)
	case solver.SortFP:
		return fmt.Sprintf("(_ FloatingPoint %d %d)", s.expSig[0], s.expSig[1])
	case solver.SortArray:
		return fmt.Sprintf("(Array %s %s)", s.children[0], s.children[1])
	case solver.SortFun:
		parts := make([]string, len(s.children))
		for i, c := range s.children {
			parts[i] = c.String()
		}
		return fmt.Sprintf("(-> %s)", strings.Join(parts, " "))
	case solver.SortSeq, solver.SortSet, solver.SortBag:
		return fmt.Sprintf("(%s %s)", s.kind, s.children[0])
	case solver.SortUninterpreted:
		return s.name
	case solver.SortDatatype:
		return s.name
	default:
		return s.kind.String()
	}
}

// termImpl is the native term handle. Values carry a concrete payload
// (boolVal/bvVal); non-value terms carry their operator and args.
type termImpl struct {
	sort    solver.Sort
	kind    solver.OpKind
	args    []solver.Term
	indices []uint32
	symbol  string // const/var name, or value's literal text
	isValue bool
	boolVal bool
	bvVal   uint64
}

func (t *termImpl) Sort() solver.Sort { return t.sort }

func (t *termImpl) key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%d|%v|%s|%v|%d", t.sort.String(), t.kind, t.isValue, t.symbol, t.boolVal, t.bvVal)
	for _, a := range t.args {
		b.WriteByte(',')
		b.WriteString(a.(*termImpl).key())
	}
	for _, i := range t.indices {
		fmt.Fprintf(&b, ":%d", i)
	}
	return b.String()
}

func (t *termImpl) Equal(o solver.Term) bool {
	other, ok := o.(*termImpl)
	if !ok {
		return false
	}
	return t.key() == other.key()
}

func (t *termImpl) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(t.key()))
	return h.Sum64()
}

func (t *termImpl) IsValue() bool       { return t.isValue }
func (t *termImpl) OpKind() solver.OpKind { return t.kind }
func (t *termImpl) Indices() []uint32   { return t.indices }

func (t *termImpl) String() string {
	if t.isValue || t.kind == solver.OpUndefined {
		return t.symbol
	}
	parts := make([]string, 0, len(t.args)+1)
	if info, ok := solver.Info(t.kind); ok {
		parts = append(parts, info.Name)
	} else {
		parts = append(parts, fmt.Sprintf("op%d", t.kind))
	}
	for _, a := range t.args {
		parts = append(parts, a.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}
