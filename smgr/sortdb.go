// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

// Package smgr implements the SolverManager: interned sort/term databases
// and the typed random-sampling primitives every Action synthesizes its
// arguments from.
package smgr

import (
	"fmt"

	"github.com/alex-ozdemir/murxla/solver"
)

// SortID is a stable, monotonic (from 1) identifier assigned to a Sort the
// first time it is interned. It is never reused, mirroring the z.Var
// typed-integer idiom: a small value type with a String method, never a
// bare int.
type SortID uint64

func (id SortID) String() string { return fmt.Sprintf("s%d", uint64(id)) }

// SortEntry pairs an interned solver.Sort with its stable id and kind.
type SortEntry struct {
	ID   SortID
	Sort solver.Sort
	Kind solver.SortKind
}

// SortDB is the interned sort set, bucketed by adapter-provided hash with
// an Equal fallback on collision (DESIGN NOTES §9), and indexed by kind.
type SortDB struct {
	buckets map[uint64][]*SortEntry
	byID    map[SortID]*SortEntry
	byKind  map[solver.SortKind][]*SortEntry
	nextID  SortID
}

func NewSortDB() *SortDB {
	return &SortDB{
		buckets: map[uint64][]*SortEntry{},
		byID:    map[SortID]*SortEntry{},
		byKind:  map[solver.SortKind][]*SortEntry{},
		nextID:  1,
	}
}

// Find returns the already-interned entry for s, if any.
func (db *SortDB) Find(s solver.Sort) *SortEntry {
	for _, cand := range db.buckets[s.Hash()] {
		if cand.Sort.Equal(s) {
			return cand
		}
	}
	return nil
}

// Add interns s if not already present and returns its entry. Per the
// resolved Open Question in spec.md §9, the kind->sorts index insertion is
// unconditional whenever the entry is absent from that index, independent
// of whether s itself was already present in the top-level set.
func (db *SortDB) Add(s solver.Sort) *SortEntry {
	if e := db.Find(s); e != nil {
		db.addToKindIndex(e)
		return e
	}
	e := &SortEntry{ID: db.nextID, Sort: s, Kind: s.Kind()}
	db.nextID++
	db.buckets[s.Hash()] = append(db.buckets[s.Hash()], e)
	db.byID[e.ID] = e
	db.addToKindIndex(e)
	return e
}

func (db *SortDB) addToKindIndex(e *SortEntry) {
	for _, cand := range db.byKind[e.Kind] {
		if cand == e {
			return
		}
	}
	db.byKind[e.Kind] = append(db.byKind[e.Kind], e)
}

func (db *SortDB) ByID(id SortID) (*SortEntry, bool) {
	e, ok := db.byID[id]
	return e, ok
}

// Kinds returns the sort kinds with at least one instantiated sort.
func (db *SortDB) Kinds() []solver.SortKind {
	ks := make([]solver.SortKind, 0, len(db.byKind))
	for k, v := range db.byKind {
		if len(v) > 0 {
			ks = append(ks, k)
		}
	}
	return ks
}

// OfKind returns every interned sort of the given kind.
func (db *SortDB) OfKind(k solver.SortKind) []*SortEntry {
	return db.byKind[k]
}

// Size returns the number of distinct interned sorts (n_sorts).
func (db *SortDB) Size() int { return len(db.byID) }
