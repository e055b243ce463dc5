// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package actions

import (
	"fmt"
	"strconv"

	"github.com/alex-ozdemir/murxla/fsm"
	"github.com/alex-ozdemir/murxla/solver"
)

// Push opens up to 5 assertion scopes, per spec.md §4.3.
type Push struct{}

func (Push) Kind() string                    { return "push" }
func (Push) Applicable(ctx *fsm.Context) bool { return ctx.Mgr.Incremental }

func (Push) Run(ctx *fsm.Context) ([]string, []string, error) {
	n := ctx.RNG.PickUint32(1, 5)
	if err := ctx.Mgr.Solv.Push(n); err != nil {
		return nil, nil, &solver.OpError{Op: "push", Err: err}
	}
	for i := uint32(0); i < n; i++ {
		ctx.Mgr.Push()
	}
	return []string{strconv.FormatUint(uint64(n), 10)}, nil, nil
}

func (Push) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	if len(tokens) != 1 {
		return nil, fmt.Errorf("push: expected 1 token")
	}
	n, err := parseUint(tokens[0])
	if err != nil {
		return nil, err
	}
	if err := ctx.Mgr.Solv.Push(uint32(n)); err != nil {
		return nil, &solver.OpError{Op: "push", Err: err}
	}
	for i := uint64(0); i < n; i++ {
		ctx.Mgr.Push()
	}
	return nil, nil
}

// Pop closes between 1 and min(current depth, 5) scopes, per spec.md
// §4.3 ("pop count <= current depth").
type Pop struct{}

func (Pop) Kind() string                    { return "pop" }
func (Pop) Applicable(ctx *fsm.Context) bool { return ctx.Mgr.Incremental && ctx.Mgr.PushLevels > 0 }

func (Pop) Run(ctx *fsm.Context) ([]string, []string, error) {
	max := ctx.Mgr.PushLevels
	if max > 5 {
		max = 5
	}
	n := ctx.RNG.PickUint32(1, uint32(max))
	if err := ctx.Mgr.Solv.Pop(n); err != nil {
		return nil, nil, &solver.OpError{Op: "pop", Err: err}
	}
	ctx.Mgr.Pop(int(n))
	return []string{strconv.FormatUint(uint64(n), 10)}, nil, nil
}

func (Pop) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	if len(tokens) != 1 {
		return nil, fmt.Errorf("pop: expected 1 token")
	}
	n, err := parseUint(tokens[0])
	if err != nil {
		return nil, err
	}
	if int(n) > ctx.Mgr.PushLevels {
		return nil, fmt.Errorf("pop: count %d exceeds current depth %d", n, ctx.Mgr.PushLevels)
	}
	if err := ctx.Mgr.Solv.Pop(uint32(n)); err != nil {
		return nil, &solver.OpError{Op: "pop", Err: err}
	}
	ctx.Mgr.Pop(int(n))
	return nil, nil
}
