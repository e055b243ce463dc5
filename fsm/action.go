// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

// Package fsm implements the weighted state machine that drives Action
// selection; concrete Actions live in package actions and register
// themselves into a *FSM via Register functions grouped by family.
package fsm

import (
	"github.com/alex-ozdemir/murxla/rng"
	"github.com/alex-ozdemir/murxla/smgr"
)

// Context is the state every Action reads and mutates: the solver manager
// and the RNG draw used to synthesize arguments. It is passed as a
// *Context around the FSM loop, so Actions see the live state.
type Context struct {
	Mgr *smgr.Manager
	RNG *rng.RNG
}

// Action is the contract every concrete operation (mk-sort, check-sat,
// push, ...) implements. Kind is the stable trace identifier; Applicable
// is a pure precondition check (must not mutate Mgr or consume RNG);
// Run synthesizes arguments, invokes the solver, updates Mgr and returns
// the textual argument list the tracer appends to the line; Untrace
// parses a previously-written argument list and replays the same call.
type Action interface {
	Kind() string
	Applicable(ctx *Context) bool
	Run(ctx *Context) (args []string, ids []string, err error)
	Untrace(ctx *Context, tokens []string) (ids []string, err error)
}

// Transition pairs an Action with its selection weight and an optional
// explicit next state; an empty NextState means "stay put" (most Actions
// don't move the FSM, the states model solver lifecycle phases, not a
// strict per-Action graph).
type Transition struct {
	Action     Action
	Weight     uint32
	NextState  string
}
