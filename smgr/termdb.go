// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package smgr

import (
	"fmt"
	"sort"

	"github.com/alex-ozdemir/murxla/solver"
)

// TermID is a stable, monotonic (from 1) identifier assigned to a Term the
// first time it is interned.
type TermID uint64

func (id TermID) String() string { return fmt.Sprintf("t%d", uint64(id)) }

// TermEntry pairs an interned solver.Term with its stable id, resolved
// sort, and the ordered list of push/pop scope levels at which it is
// reachable. Levels is kept sorted; min/max are the slice ends, not a
// single integer, because a term created at a deeper level can be
// re-added (promoted) at a shallower one by a later operation (DESIGN
// NOTES §9).
type TermEntry struct {
	ID      TermID
	Term    solver.Term
	Sort    *SortEntry
	Levels  []int
	IsValue bool
	IsVar   bool
}

func (e *TermEntry) MinLevel() int { return e.Levels[0] }
func (e *TermEntry) MaxLevel() int { return e.Levels[len(e.Levels)-1] }

func (e *TermEntry) addLevel(level int) {
	i := sort.SearchInts(e.Levels, level)
	if i < len(e.Levels) && e.Levels[i] == level {
		return
	}
	e.Levels = append(e.Levels, 0)
	copy(e.Levels[i+1:], e.Levels[i:])
	e.Levels[i] = level
}

// TermDB buckets terms by sort id, partitioned by scope level, plus a
// per-sort-kind union view, exactly as spec.md §3 describes.
type TermDB struct {
	buckets  map[uint64][]*TermEntry // by adapter hash, for interning
	byID     map[TermID]*TermEntry
	bySort   map[SortID]map[int][]*TermEntry // sort id -> level -> bag
	byKind   map[solver.SortKind][]*TermEntry
	vars     []*TermEntry
	nextID   TermID
}

func NewTermDB() *TermDB {
	return &TermDB{
		buckets: map[uint64][]*TermEntry{},
		byID:    map[TermID]*TermEntry{},
		bySort:  map[SortID]map[int][]*TermEntry{},
		byKind:  map[solver.SortKind][]*TermEntry{},
		nextID:  1,
	}
}

func (db *TermDB) find(t solver.Term) *TermEntry {
	for _, cand := range db.buckets[t.Hash()] {
		if cand.Term.Equal(t) {
			return cand
		}
	}
	return nil
}

// Add interns t at the given sort entry and scope level, returning its
// entry (existing or new). Re-adding an existing term at a new level
// promotes it: the level is appended to its Levels list.
func (db *TermDB) Add(t solver.Term, se *SortEntry, level int, isValue, isVar bool) *TermEntry {
	if e := db.find(t); e != nil {
		e.addLevel(level)
		db.indexAtLevel(e, level)
		return e
	}
	e := &TermEntry{ID: db.nextID, Term: t, Sort: se, Levels: []int{level}, IsValue: isValue, IsVar: isVar}
	db.nextID++
	db.buckets[t.Hash()] = append(db.buckets[t.Hash()], e)
	db.byID[e.ID] = e
	db.byKind[se.Kind] = append(db.byKind[se.Kind], e)
	if isVar {
		db.vars = append(db.vars, e)
	}
	db.indexAtLevel(e, level)
	return e
}

func (db *TermDB) indexAtLevel(e *TermEntry, level int) {
	if db.bySort[e.Sort.ID] == nil {
		db.bySort[e.Sort.ID] = map[int][]*TermEntry{}
	}
	bag := db.bySort[e.Sort.ID][level]
	for _, cand := range bag {
		if cand == e {
			return
		}
	}
	db.bySort[e.Sort.ID][level] = append(bag, e)
}

func (db *TermDB) ByID(id TermID) (*TermEntry, bool) {
	e, ok := db.byID[id]
	return e, ok
}

// OfSortAtLevel returns every term reachable at exactly the given level's
// own bag (not levels below it) for the given sort.
func (db *TermDB) OfSortAtLevel(id SortID, level int) []*TermEntry {
	return db.bySort[id][level]
}

// OfSortUpTo returns every term of the given sort reachable at or below
// the given current depth — i.e. every entry recorded at some level
// <= depth; an entry recorded at several such levels appears once per
// level.
func (db *TermDB) OfSortUpTo(id SortID, depth int) []*TermEntry {
	var out []*TermEntry
	for lvl, bag := range db.bySort[id] {
		if lvl <= depth {
			out = append(out, bag...)
		}
	}
	return out
}

// OfKind returns every term of the given sort kind, regardless of level.
// Callers needing scope-correctness should intersect with a depth filter.
func (db *TermDB) OfKind(k solver.SortKind) []*TermEntry {
	return db.byKind[k]
}

// Vars returns every interned variable (mk_var result), for quantifier
// body binding.
func (db *TermDB) Vars() []*TermEntry { return db.vars }

// Size returns n_terms: the number of distinct interned terms.
func (db *TermDB) Size() int { return len(db.byID) }

// Pop discards every term whose MinLevel() is strictly greater than the
// new depth, per spec.md §3: "popping below min(t.levels) removes t from
// all bags." Terms whose MaxLevel() is above depth but MinLevel() is not
// simply lose the popped levels from their Levels list.
func (db *TermDB) Pop(newDepth int) {
	for _, byLevel := range db.bySort {
		for lvl := range byLevel {
			if lvl > newDepth {
				delete(byLevel, lvl)
			}
		}
	}
	for id, e := range db.byID {
		kept := e.Levels[:0]
		for _, l := range e.Levels {
			if l <= newDepth {
				kept = append(kept, l)
			}
		}
		if len(kept) == 0 {
			db.remove(id)
			continue
		}
		e.Levels = kept
	}
}

func (db *TermDB) remove(id TermID) {
	e, ok := db.byID[id]
	if !ok {
		return
	}
	delete(db.byID, id)
	delete(db.buckets, e.Term.Hash())
	filterOut := func(s []*TermEntry) []*TermEntry {
		out := s[:0]
		for _, c := range s {
			if c.ID != id {
				out = append(out, c)
			}
		}
		return out
	}
	db.byKind[e.Sort.Kind] = filterOut(db.byKind[e.Sort.Kind])
	if e.IsVar {
		db.vars = filterOut(db.vars)
	}
}
