// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package smgr

import (
	"sort"

	"github.com/alex-ozdemir/murxla/rng"
	"github.com/alex-ozdemir/murxla/solver"
)

// PickOpKind picks an operator kind such that every distinct argument
// sort kind it requires already has at least one term in scope (sampling
// for repeated argument positions of the same kind reuses the pool, so
// existence of one term suffices). Per spec.md §4.2, the theory is chosen
// first and then the kind within it, so theories with many operators
// (e.g. BV) don't dominate the draw.
func (m *Manager) PickOpKind(mgr *solver.OpKindManager, withTerms bool) (solver.OpKindInfo, bool) {
	byTheory := mgr.SupportedKinds()
	var theories []solver.Theory
	for th, kinds := range byTheory {
		if _, enabled := m.Theories[th]; !enabled {
			continue
		}
		if m.anyApplicable(kinds, withTerms) {
			theories = append(theories, th)
		}
	}
	if len(theories) == 0 {
		return solver.OpKindInfo{}, false
	}
	sort.Slice(theories, func(i, j int) bool { return theories[i] < theories[j] })
	theory := rng.PickFromSlice(m.RNG, theories)

	var applicable []solver.OpKind
	for _, k := range byTheory[theory] {
		if m.opKindApplicable(k, withTerms) {
			applicable = append(applicable, k)
		}
	}
	sort.Slice(applicable, func(i, j int) bool { return applicable[i] < applicable[j] })
	kind := rng.PickFromSlice(m.RNG, applicable)
	info, _ := solver.Info(kind)
	return info, true
}

func (m *Manager) anyApplicable(kinds []solver.OpKind, withTerms bool) bool {
	for _, k := range kinds {
		if m.opKindApplicable(k, withTerms) {
			return true
		}
	}
	return false
}

func (m *Manager) opKindApplicable(k solver.OpKind, withTerms bool) bool {
	info, ok := solver.Info(k)
	if !ok {
		return false
	}
	if !withTerms {
		return true
	}
	for _, argKind := range info.Args {
		if argKind == solver.SortAny {
			if !m.HasAnyTerm() {
				return false
			}
			continue
		}
		if !m.HasTermOfKind(argKind) {
			return false
		}
	}
	return true
}
