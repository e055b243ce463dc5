// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

// Package dd implements the multi-granularity delta-debugger of
// spec.md §4.6: line-chunk removal, substring reduction and id
// renumbering, driven by an Oracle (oracle.go) that decides whether a
// candidate trace still reproduces the target symptom.
package dd

import (
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/alex-ozdemir/murxla/trace"
)

// Minimize runs the full ddmin-style fixed-point loop of spec.md §4.6
// over lines (already verified interesting by the caller) and returns
// the smallest variant still accepted by oracle. Id renumbering happens
// only on the returned result, never mid-search, per the resolved Open
// Question of spec.md §9 ("the recommended policy is to renumber only
// on final output, not during search").
func Minimize(lines []trace.Line, oracle Oracle) ([]trace.Line, error) {
	cur := lines
	for {
		reduced, changed, err := lineRangePass(cur, oracle)
		if err != nil {
			return nil, err
		}
		cur = reduced
		if changed {
			continue
		}
		reduced, changed, err = substringPass(cur, oracle)
		if err != nil {
			return nil, err
		}
		cur = reduced
		if !changed {
			break
		}
	}
	return renumber(cur), nil
}

// lineRangePass implements step 1 of spec.md §4.6: partition into k
// contiguous chunks (k = 2, 4, 8, ...), try removing each chunk in turn,
// keeping every removal the oracle still accepts, and halve chunk size
// until 1. Complements of chunks are not tried. Dependents (lines referencing a removed line's
// "returns" ids) are pulled along so the removal never orphans a
// reference.
func lineRangePass(lines []trace.Line, oracle Oracle) ([]trace.Line, bool, error) {
	changed := false
	n := len(lines)
	for k := 2; ; k *= 2 {
		chunkSize := (n + k - 1) / k
		if chunkSize == 0 {
			break
		}
		i := 0
		for i < len(lines) {
			end := i + chunkSize
			if end > len(lines) {
				end = len(lines)
			}
			cand := withoutDependents(lines, i, end)
			ok, err := tryCandidate(cand, oracle)
			if err != nil {
				return nil, false, err
			}
			if ok {
				lines = cand
				changed = true
				continue // retry at the same index against the shrunk slice
			}
			i = end
		}
		if chunkSize == 1 {
			break
		}
	}
	return lines, changed, nil
}

// withoutDependents removes lines[lo:hi] plus any later line referencing
// an id one of those lines returns, per spec.md §4.6's dependency-scan
// rule ("may not be removed unless the dependents are removed too").
func withoutDependents(lines []trace.Line, lo, hi int) []trace.Line {
	removedIDs := map[string]struct{}{}
	for _, l := range lines[lo:hi] {
		for _, id := range l.Returns {
			removedIDs[id] = struct{}{}
		}
	}
	out := make([]trace.Line, 0, len(lines))
	out = append(out, lines[:lo]...)
	tail := lines[hi:]
	for _, l := range tail {
		depends := false
		for _, a := range l.Args {
			if _, bad := removedIDs[a]; bad {
				depends = true
				break
			}
		}
		if depends {
			for _, id := range l.Returns {
				removedIDs[id] = struct{}{}
			}
			continue
		}
		out = append(out, l)
	}
	return out
}

// substringPass implements step 2 of spec.md §4.6: per line, apply
// shrinkArgsOnce for as long as the oracle accepts the result. Only the
// first shrinkable argument of a line is tried: a quoted string literal
// becomes empty, an integer literal (BV widths included) moves one step
// toward 0. No token is ever removed.
func substringPass(lines []trace.Line, oracle Oracle) ([]trace.Line, bool, error) {
	changed := false
	for i := range lines {
		for {
			reducedArgs, ok := shrinkArgsOnce(lines[i].Args)
			if !ok {
				break
			}
			cand := make([]trace.Line, len(lines))
			copy(cand, lines)
			cand[i] = trace.Line{Kind: lines[i].Kind, Args: reducedArgs, Returns: lines[i].Returns}
			accept, err := tryCandidate(cand, oracle)
			if err != nil {
				return nil, false, err
			}
			if !accept {
				break
			}
			lines = cand
			changed = true
		}
	}
	return lines, changed, nil
}

var quotedLiteral = regexp.MustCompile(`^"(.*)"$`)

// shrinkArgsOnce tries exactly one substring reduction across args:
// shorten a quoted string literal toward empty, or move a bare integer
// literal one step toward 0. Returns ok=false once no arg can shrink
// further.
func shrinkArgsOnce(args []string) ([]string, bool) {
	for i, a := range args {
		if m := quotedLiteral.FindStringSubmatch(a); m != nil && m[1] != "" {
			out := make([]string, len(args))
			copy(out, args)
			out[i] = `""`
			return out, true
		}
		if n, err := strconv.ParseInt(a, 10, 64); err == nil && n != 0 {
			out := make([]string, len(args))
			copy(out, args)
			if n > 0 {
				out[i] = strconv.FormatInt(n-1, 10)
			} else {
				out[i] = strconv.FormatInt(n+1, 10)
			}
			return out, true
		}
	}
	return nil, false
}

// tryCandidate serializes cand to a temp file and asks oracle whether it
// still reproduces the symptom.
func tryCandidate(cand []trace.Line, oracle Oracle) (bool, error) {
	f, err := os.CreateTemp("", "murxla-dd-*.trace")
	if err != nil {
		return false, err
	}
	path := f.Name()
	defer os.Remove(path)
	if err := trace.WriteLines(f, cand); err != nil {
		f.Close()
		return false, err
	}
	if err := f.Close(); err != nil {
		return false, err
	}
	return oracle.Run(path)
}

// renumber compacts sort/term ids to keep the final trace readable,
// applied once after the ddmin fixed point (spec.md §9 Open Question).
// The oracle must be invariant under renumbering: ids are remapped
// consistently across every line, old id -> new id, in first-seen order.
func renumber(lines []trace.Line) []trace.Line {
	remap := map[string]string{}
	nextSort, nextTerm := uint64(1), uint64(1)
	mapID := func(id string) string {
		if mapped, ok := remap[id]; ok {
			return mapped
		}
		var mapped string
		switch id[0] {
		case 's':
			mapped = fmt.Sprintf("s%d", nextSort)
			nextSort++
		case 't':
			mapped = fmt.Sprintf("t%d", nextTerm)
			nextTerm++
		default:
			mapped = id
		}
		remap[id] = mapped
		return mapped
	}

	out := make([]trace.Line, len(lines))
	for i, l := range lines {
		args := make([]string, len(l.Args))
		for j, a := range l.Args {
			if trace.IsID(a) {
				args[j] = mapID(a)
			} else {
				args[j] = a
			}
		}
		returns := make([]string, len(l.Returns))
		for j, r := range l.Returns {
			returns[j] = mapID(r)
		}
		out[i] = trace.Line{Kind: l.Kind, Args: args, Returns: returns}
	}
	return out
}

// RemovableChunks exposes the chunk boundaries lineRangePass would try
// for a trace of length n, for tests and --print-fsm-style introspection.
func RemovableChunks(n int) []int {
	var sizes []int
	for k := 2; ; k *= 2 {
		chunkSize := (n + k - 1) / k
		if chunkSize == 0 {
			break
		}
		sizes = append(sizes, chunkSize)
		if chunkSize == 1 {
			break
		}
	}
	if len(sizes) == 0 && n > 0 {
		sizes = append(sizes, n)
	}
	return sizes
}
