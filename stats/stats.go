// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

// Package stats implements the process-wide counters behind the --stats
// and --csv CLI flags (spec.md §6). Counters are carried as an explicit
// *Registry handle passed to every worker, never a package-level global
// (DESIGN NOTES §9), and are safe for concurrent increment across the
// supervisor's worker pool (SPEC_FULL.md §5: "contention is benign").
package stats

import (
	"fmt"
	"io"
	"sort"
	"sync/atomic"
)

// Registry holds one atomic counter per Action kind plus a handful of
// run-level tallies. It is the in-process replacement for the original's
// anonymous-shared-memory region (spec.md §5); zeroed at construction,
// per-counter increments, no locking.
type Registry struct {
	byKind map[string]*atomic.Uint64

	Runs      atomic.Uint64
	Ok        atomic.Uint64
	Timeouts  atomic.Uint64
	Crashes   atomic.Uint64
	Assertions atomic.Uint64
	WrongResults atomic.Uint64
	Lines     atomic.Uint64
}

// NewRegistry preallocates a counter for every known Action kind so
// Snapshot/WriteCSV report a zero row instead of omitting it.
func NewRegistry(kinds []string) *Registry {
	r := &Registry{byKind: make(map[string]*atomic.Uint64, len(kinds))}
	for _, k := range kinds {
		if k == "" {
			continue
		}
		r.byKind[k] = &atomic.Uint64{}
	}
	return r
}

// IncAction bumps the per-kind counter (creating it on first use, for
// kinds not known ahead of time, e.g. from a replayed trace) and the
// global line tally.
func (r *Registry) IncAction(kind string) {
	if kind == "" {
		return
	}
	c, ok := r.byKind[kind]
	if !ok {
		c = &atomic.Uint64{}
		r.byKind[kind] = c
	}
	c.Add(1)
	r.Lines.Add(1)
}

// Count returns the current value of an Action kind's counter.
func (r *Registry) Count(kind string) uint64 {
	c, ok := r.byKind[kind]
	if !ok {
		return 0
	}
	return c.Load()
}

// Kinds returns every counted Action kind in stable sorted order.
func (r *Registry) Kinds() []string {
	out := make([]string, 0, len(r.byKind))
	for k := range r.byKind {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// WriteText renders the --stats human-readable report.
func (r *Registry) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "runs: %d  ok: %d  timeout: %d  crash: %d  assertion: %d  wrong-result: %d\n",
		r.Runs.Load(), r.Ok.Load(), r.Timeouts.Load(), r.Crashes.Load(), r.Assertions.Load(), r.WrongResults.Load())
	for _, k := range r.Kinds() {
		if _, err := fmt.Fprintf(w, "  %-24s %d\n", k, r.Count(k)); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV renders the --csv report: one header row, one data row, so the
// output is directly appendable across runs.
func (r *Registry) WriteCSV(w io.Writer) error {
	kinds := r.Kinds()
	header := append([]string{"runs", "ok", "timeout", "crash", "assertion", "wrong-result"}, kinds...)
	if _, err := fmt.Fprintln(w, joinComma(header)); err != nil {
		return err
	}
	row := []string{
		fmt.Sprint(r.Runs.Load()), fmt.Sprint(r.Ok.Load()), fmt.Sprint(r.Timeouts.Load()),
		fmt.Sprint(r.Crashes.Load()), fmt.Sprint(r.Assertions.Load()), fmt.Sprint(r.WrongResults.Load()),
	}
	for _, k := range kinds {
		row = append(row, fmt.Sprint(r.Count(k)))
	}
	_, err := fmt.Fprintln(w, joinComma(row))
	return err
}

func joinComma(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out
}
