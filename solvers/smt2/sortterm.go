// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package smt2

import (
	"fmt"
	"hash/fnv"

	"github.com/alex-ozdemir/murxla/solver"
)

// textHash buckets by printed syntax so structurally identical sorts and
// terms collide into the same SortDB/TermDB bucket before Equal resolves
// the exact match.
func textHash(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// sortImpl is a thin wrapper identifying a sort by its printed SMT-LIB2
// syntax (e.g. "Bool", "(_ BitVec 8)") plus the structural attributes the
// solver.Sort contract exposes; the subprocess solver owns the real sort.
type sortImpl struct {
	kind     solver.SortKind
	text     string
	width    uint32
	exp, sig uint32
	children []solver.Sort
}

func (s *sortImpl) Kind() solver.SortKind { return s.kind }

func (s *sortImpl) Equal(o solver.Sort) bool {
	other, ok := o.(*sortImpl)
	return ok && other.text == s.text
}

func (s *sortImpl) Hash() uint64 { return textHash(s.text) }

func (s *sortImpl) BVWidth() uint32 { return s.width }

func (s *sortImpl) FPExpSig() (uint32, uint32) { return s.exp, s.sig }

func (s *sortImpl) Children() []solver.Sort { return s.children }

func (s *sortImpl) String() string { return s.text }

// termImpl caches its own printed SMT-LIB2 syntax so that mk-term can
// build a parent expression by simple string concatenation instead of
// re-rendering the whole subterm tree on every call.
type termImpl struct {
	sort    solver.Sort
	text    string
	isValue bool
	opKind  solver.OpKind
	indices []uint32
}

func (t *termImpl) Sort() solver.Sort { return t.sort }

func (t *termImpl) Equal(o solver.Term) bool {
	other, ok := o.(*termImpl)
	return ok && other.text == t.text && other.sort.Equal(t.sort)
}

func (t *termImpl) Hash() uint64 { return textHash(t.text) }

func (t *termImpl) IsValue() bool { return t.isValue }

func (t *termImpl) OpKind() solver.OpKind { return t.opKind }

func (t *termImpl) Indices() []uint32 { return t.indices }

func (t *termImpl) String() string { return t.text }

func asSortImpl(s solver.Sort) (*sortImpl, error) {
	si, ok := s.(*sortImpl)
	if !ok {
		return nil, fmt.Errorf("smt2: foreign sort %T", s)
	}
	return si, nil
}

func asTermImpl(t solver.Term) (*termImpl, error) {
	ti, ok := t.(*termImpl)
	if !ok {
		return nil, fmt.Errorf("smt2: foreign term %T", t)
	}
	return ti, nil
}
