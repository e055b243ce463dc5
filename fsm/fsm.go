// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package fsm

import (
	"fmt"
	"io"
	"sort"
)

// FSM holds the named states (mirrors spec.md §4.3's "new → opt → sorts →
// inputs → terms → assert → sat → check-sat-result → ..." typical chain,
// plus side-states for push/pop/model/unsat-core/unsat-assumptions) and
// drives weighted Action selection against a Context.
type FSM struct {
	states  map[string]*State
	order   []string // insertion order, for deterministic iteration/printing
	current string
	initial string
}

func New(initial string) *FSM {
	return &FSM{states: map[string]*State{}, current: initial, initial: initial}
}

// AddState registers a state, creating it if this is the first reference.
func (f *FSM) AddState(name string, final bool, defaultNext string) *State {
	if s, ok := f.states[name]; ok {
		s.Final = s.Final || final
		if defaultNext != "" {
			s.Default = defaultNext
		}
		return s
	}
	s := &State{Name: name, Default: defaultNext, Final: final}
	f.states[name] = s
	f.order = append(f.order, name)
	return s
}

// AddTransition attaches a weighted Action to state `from`. weight == 0
// actions never fire but still register for --print-fsm introspection.
func (f *FSM) AddTransition(from string, t Transition) {
	s := f.AddState(from, false, "")
	s.Transitions = append(s.Transitions, t)
}

func (f *FSM) Current() string { return f.current }

func (f *FSM) Reset() { f.current = f.initial }

// States returns state names in registration order, for --print-fsm.
func (f *FSM) States() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

func (f *FSM) State(name string) (*State, bool) {
	s, ok := f.states[name]
	return s, ok
}

// Step draws one transition from the current state, runs its Action, and
// advances f.current. It returns the fired Action's kind and the
// trace-ready argument/id lists Run produced, so the caller (the engine's
// main loop) can hand them to a Tracer.
func (f *FSM) Step(ctx *Context) (kind string, args, ids []string, err error) {
	s, ok := f.states[f.current]
	if !ok {
		return "", nil, nil, fmt.Errorf("fsm: unknown state %q", f.current)
	}

	var applicable []Transition
	for _, t := range s.Transitions {
		if t.Weight == 0 {
			continue
		}
		if t.Action.Applicable(ctx) {
			applicable = append(applicable, t)
		}
	}

	if len(applicable) == 0 {
		if s.Default == "" {
			return "", nil, nil, fmt.Errorf("fsm: state %q has no applicable action and no default", f.current)
		}
		f.current = s.Default
		return "", nil, nil, nil
	}

	sort.SliceStable(applicable, func(i, j int) bool {
		return applicable[i].Action.Kind() < applicable[j].Action.Kind()
	})
	weights := make([]uint32, len(applicable))
	for i, t := range applicable {
		weights[i] = t.Weight
	}
	idx := ctx.RNG.WeightedPick(weights)
	chosen := applicable[idx]

	args, ids, err = chosen.Action.Run(ctx)
	if err != nil {
		return chosen.Action.Kind(), args, ids, err
	}
	if chosen.NextState != "" {
		f.current = chosen.NextState
	}
	return chosen.Action.Kind(), args, ids, nil
}

// IsFinal reports whether the current state is a terminal one (delete-solver).
func (f *FSM) IsFinal() bool {
	s, ok := f.states[f.current]
	return ok && s.Final
}

// Print renders every state and its weighted transitions in registration
// order, for "--print-fsm" (spec.md §6): a plain-text dump, not the
// trace format.
func (f *FSM) Print(w io.Writer) {
	for _, name := range f.order {
		s := f.states[name]
		final := ""
		if s.Final {
			final = " (final)"
		}
		fmt.Fprintf(w, "%s%s\n", s.Name, final)
		if s.Default != "" {
			fmt.Fprintf(w, "  default -> %s\n", s.Default)
		}
		sorted := make([]Transition, len(s.Transitions))
		copy(sorted, s.Transitions)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Action.Kind() < sorted[j].Action.Kind()
		})
		for _, t := range sorted {
			next := t.NextState
			if next == "" {
				next = "(stay)"
			}
			fmt.Fprintf(w, "  %-28s weight=%-4d -> %s\n", t.Action.Kind(), t.Weight, next)
		}
	}
}
