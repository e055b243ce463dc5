// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package stats_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alex-ozdemir/murxla/stats"
)

func TestIncActionPreallocated(t *testing.T) {
	r := stats.NewRegistry([]string{"mk-sort", "mk-term"})
	r.IncAction("mk-sort")
	r.IncAction("mk-sort")
	r.IncAction("mk-term")

	require.Equal(t, uint64(2), r.Count("mk-sort"))
	require.Equal(t, uint64(1), r.Count("mk-term"))
	require.Equal(t, uint64(0), r.Count("check-sat"))
	require.Equal(t, uint64(3), r.Lines.Load())
}

func TestIncActionIgnoresEmptyKind(t *testing.T) {
	r := stats.NewRegistry(nil)
	r.IncAction("")
	require.Equal(t, uint64(0), r.Lines.Load())
}

func TestIncActionConcurrent(t *testing.T) {
	r := stats.NewRegistry([]string{"check-sat"})
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.IncAction("check-sat")
		}()
	}
	wg.Wait()
	require.Equal(t, uint64(100), r.Count("check-sat"))
}

func TestWriteCSVHeaderMatchesRow(t *testing.T) {
	r := stats.NewRegistry([]string{"push", "pop"})
	r.IncAction("push")
	r.Runs.Add(3)
	r.Ok.Add(3)

	var buf bytes.Buffer
	require.NoError(t, r.WriteCSV(&buf))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, len(strings.Split(lines[0], ",")), len(strings.Split(lines[1], ",")))
	require.Contains(t, lines[0], "pop")
	require.Contains(t, lines[0], "push")
}

func TestWriteTextIncludesCounts(t *testing.T) {
	r := stats.NewRegistry([]string{"mk-const"})
	r.IncAction("mk-const")
	r.Crashes.Add(1)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	out := buf.String()
	require.Contains(t, out, "crash: 1")
	require.Contains(t, out, "mk-const")
}
