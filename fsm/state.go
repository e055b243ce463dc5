// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package fsm

// State is one node of the generation FSM: a named bag of weighted
// transitions plus the state to fall back to when none of them are
// currently applicable (spec.md §4.3: "no-op transition to the
// configured default next state", preventing dead-ends).
type State struct {
	Name        string
	Transitions []Transition
	Default     string
	Final       bool
}
