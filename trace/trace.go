// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

// Package trace implements the line-oriented trace grammar of spec.md
// §4.4 and its replayer (untrace.go). A trace line is:
//
//	<action-kind> <arg> <arg> ... [returns <id> <id> ...]
//
// Sorts/terms are referenced by logical id ("s7", "t42"); everything else
// is written verbatim, with string literals double-quoted and escaped.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Line is one parsed or to-be-written trace record.
type Line struct {
	Kind    string
	Args    []string
	Returns []string
}

func (l Line) String() string {
	var b strings.Builder
	b.WriteString(l.Kind)
	for _, a := range l.Args {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	if len(l.Returns) > 0 {
		b.WriteString(" returns")
		for _, id := range l.Returns {
			b.WriteByte(' ')
			b.WriteString(id)
		}
	}
	return b.String()
}

// QuoteString renders s as a double-quoted literal with Go-standard
// escaping, matching spec.md §4.4 "strings are double-quoted with
// standard escape".
func QuoteString(s string) string { return strconv.Quote(s) }

// Tracer is a thin io.Writer wrapper, mirroring the teacher corpus's
// writer-oriented formatting helpers (one WriteX per record kind rather
// than a general-purpose marshaler).
type Tracer struct {
	w       *bufio.Writer
	lineNum int
}

func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: bufio.NewWriter(w)}
}

// WriteOptions emits the mandatory first line recording the flags it is
// given; the worker passes config.Options.TraceFlags, which is a subset
// of the command-line options in effect.
func (t *Tracer) WriteOptions(flags []string) error {
	return t.WriteLine(Line{Kind: "set-murxla-options", Args: flags})
}

// WriteSeed emits a per-step seed marker, used only in seeded-per-step mode.
func (t *Tracer) WriteSeed(seedHex string) error {
	return t.WriteLine(Line{Kind: "set-seed", Args: []string{seedHex}})
}

func (t *Tracer) WriteLine(l Line) error {
	t.lineNum++
	if _, err := t.w.WriteString(l.String()); err != nil {
		return err
	}
	return t.w.WriteByte('\n')
}

func (t *Tracer) Flush() error { return t.w.Flush() }

// LineNumber reports how many lines have been written so far (1-based,
// matching the numbering UntraceError reports).
func (t *Tracer) LineNumber() int { return t.lineNum }

// ParseLines reads every directive line of r into a Line, skipping blank
// lines and comments. Unlike Untracer.Replay it does not resolve ids or
// dispatch to Actions — it is the parse half the delta debugger (dd
// package) needs to manipulate a trace as structured data.
func ParseLines(r io.Reader) ([]Line, error) {
	var lines []Line
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		kind, args, returns, err := ParseLine(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		lines = append(lines, Line{Kind: kind, Args: args, Returns: returns})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// WriteLines writes lines to w in trace grammar, one per line.
func WriteLines(w io.Writer, lines []Line) error {
	tr := NewTracer(w)
	for _, l := range lines {
		if err := tr.WriteLine(l); err != nil {
			return err
		}
	}
	return tr.Flush()
}
