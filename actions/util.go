// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

// Package actions implements the Action catalog of SPEC_FULL.md §4.3: one
// Go file per family (lifecycle, sorts, terms, assertions, scope, reset).
// The single Register function in register.go, called by the engine's
// main loop, wires every family's Actions into a *fsm.FSM with selection
// weights.
package actions

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alex-ozdemir/murxla/smgr"
	"github.com/alex-ozdemir/murxla/solver"
)

func sortToken(id smgr.SortID) string { return id.String() }
func termToken(id smgr.TermID) string { return id.String() }

func parseSortToken(tok string, mgr *smgr.Manager) (*smgr.SortEntry, error) {
	n, err := parseIDToken(tok, "s")
	if err != nil {
		return nil, err
	}
	se, ok := mgr.Sorts.ByID(smgr.SortID(n))
	if !ok {
		return nil, fmt.Errorf("unknown sort id %q", tok)
	}
	return se, nil
}

func parseTermToken(tok string, mgr *smgr.Manager) (*smgr.TermEntry, error) {
	n, err := parseIDToken(tok, "t")
	if err != nil {
		return nil, err
	}
	te, ok := mgr.Terms.ByID(smgr.TermID(n))
	if !ok {
		return nil, fmt.Errorf("unknown term id %q", tok)
	}
	return te, nil
}

func parseIDToken(tok, prefix string) (uint64, error) {
	if !strings.HasPrefix(tok, prefix) {
		return 0, fmt.Errorf("expected %q-prefixed id, got %q", prefix, tok)
	}
	return strconv.ParseUint(tok[len(prefix):], 10, 64)
}

func parseUint(tok string) (uint64, error) { return strconv.ParseUint(tok, 10, 64) }
func parseInt(tok string) (int, error)     { n, err := strconv.Atoi(tok); return n, err }

func sortKindName(k solver.SortKind) string { return strings.ToLower(k.String()) }

// boolSortEntry returns the first interned Bool sort entry, or false when
// none exists; it never creates one.
func boolSortEntry(mgr *smgr.Manager) (*smgr.SortEntry, bool) {
	cand := mgr.Sorts.OfKind(solver.SortBool)
	if len(cand) == 0 {
		return nil, false
	}
	return cand[0], true
}
