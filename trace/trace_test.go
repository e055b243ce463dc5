// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package trace_test

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alex-ozdemir/murxla/fsm"
	"github.com/alex-ozdemir/murxla/trace"
)

func TestTracerFormatsLineGrammar(t *testing.T) {
	var buf bytes.Buffer
	tr := trace.NewTracer(&buf)
	require.NoError(t, tr.WriteOptions([]string{"--bv", "--no-fp"}))
	require.NoError(t, tr.WriteLine(trace.Line{
		Kind: "mk-sort", Args: []string{"BV", "8"}, Returns: []string{"s1"},
	}))
	require.NoError(t, tr.WriteLine(trace.Line{
		Kind: "mk-const", Args: []string{"s1", trace.QuoteString("x y")}, Returns: []string{"t1"},
	}))
	require.NoError(t, tr.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Equal(t, []string{
		"set-murxla-options --bv --no-fp",
		"mk-sort BV 8 returns s1",
		`mk-const s1 "x y" returns t1`,
	}, lines)
}

type fakeMkSort struct{ next int }

func (a *fakeMkSort) Kind() string                    { return "mk-sort" }
func (a *fakeMkSort) Applicable(ctx *fsm.Context) bool { return true }
func (a *fakeMkSort) Run(ctx *fsm.Context) ([]string, []string, error) { return nil, nil, nil }
func (a *fakeMkSort) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	a.next++
	return []string{"s" + strconv.Itoa(a.next)}, nil
}

type fakeMkConst struct{}

func (a *fakeMkConst) Kind() string                    { return "mk-const" }
func (a *fakeMkConst) Applicable(ctx *fsm.Context) bool { return true }
func (a *fakeMkConst) Run(ctx *fsm.Context) ([]string, []string, error) { return nil, nil, nil }
func (a *fakeMkConst) Untrace(ctx *fsm.Context, tokens []string) ([]string, error) {
	return []string{"t1"}, nil
}

func TestUntracerReplaysAndValidatesIds(t *testing.T) {
	reg := trace.Registry{
		"mk-sort":  &fakeMkSort{},
		"mk-const": &fakeMkConst{},
	}
	u := trace.NewUntracer(reg, &fsm.Context{})
	input := "set-murxla-options --bv\nmk-sort BV 8 returns s1\nmk-const s1 \"x\" returns t1\n"
	opts, err := u.Replay(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, []string{"--bv"}, opts)
}

func TestUntracerRejectsUnresolvedId(t *testing.T) {
	reg := trace.Registry{"mk-const": &fakeMkConst{}}
	u := trace.NewUntracer(reg, &fsm.Context{})
	_, err := u.Replay(strings.NewReader(`mk-const s99 "x" returns t1` + "\n"))
	require.Error(t, err)
	var uerr *trace.UntraceError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, 1, uerr.Line)
}

func TestUntracerRejectsUnknownKind(t *testing.T) {
	reg := trace.Registry{}
	u := trace.NewUntracer(reg, &fsm.Context{})
	_, err := u.Replay(strings.NewReader("bogus-action\n"))
	require.Error(t, err)
}
