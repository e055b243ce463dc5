// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package trace

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/alex-ozdemir/murxla/fsm"
)

// UntraceError names the offending line, per spec.md §4.5 ("abort the run
// with a diagnostic that names the offending line").
type UntraceError struct {
	Line int
	Text string
	Err  error
}

func (e *UntraceError) Error() string {
	return fmt.Sprintf("untrace: line %d: %s: %v", e.Line, e.Text, e.Err)
}

func (e *UntraceError) Unwrap() error { return e.Err }

// Registry maps an Action's stable Kind() to the Action itself, built by
// actions.Register before a replay.
type Registry map[string]fsm.Action

var idRE = regexp.MustCompile(`^[st][0-9]+$`)

// IsID reports whether tok is a logical sort/term reference ("s7", "t42"),
// per spec.md §4.4.
func IsID(tok string) bool { return idRE.MatchString(tok) }

// Untracer replays a trace file, verifying every sN/tN reference resolves
// to a previously returned id before dispatching to the Action.
type Untracer struct {
	reg     Registry
	ctx     *fsm.Context
	known   map[string]struct{}
	lineNum int
}

func NewUntracer(reg Registry, ctx *fsm.Context) *Untracer {
	return &Untracer{reg: reg, ctx: ctx, known: map[string]struct{}{}}
}

// Options is returned from a parsed "set-murxla-options" header line so
// callers can fold the recorded flags into the current run's config.
func (u *Untracer) Replay(r io.Reader) ([]string, error) {
	var options []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		u.lineNum++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		kind, args, returns, err := ParseLine(raw)
		if err != nil {
			return options, &UntraceError{Line: u.lineNum, Text: raw, Err: err}
		}
		switch kind {
		case "set-murxla-options":
			options = args
			continue
		case "set-seed":
			continue
		}

		action, ok := u.reg[kind]
		if !ok {
			return options, &UntraceError{Line: u.lineNum, Text: raw, Err: fmt.Errorf("unknown action kind %q", kind)}
		}
		for _, tok := range args {
			if idRE.MatchString(tok) {
				if _, seen := u.known[tok]; !seen {
					return options, &UntraceError{Line: u.lineNum, Text: raw, Err: fmt.Errorf("unresolved id %q", tok)}
				}
			}
		}

		ids, err := action.Untrace(u.ctx, args)
		if err != nil {
			return options, &UntraceError{Line: u.lineNum, Text: raw, Err: err}
		}
		if len(ids) != len(returns) {
			return options, &UntraceError{Line: u.lineNum, Text: raw,
				Err: fmt.Errorf("arity mismatch: untrace produced %d ids, trace declares %d", len(ids), len(returns))}
		}
		for i, want := range returns {
			if ids[i] != want {
				return options, &UntraceError{Line: u.lineNum, Text: raw,
					Err: fmt.Errorf("id mismatch: untrace produced %q, trace declares %q", ids[i], want)}
			}
			u.known[want] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return options, err
	}
	return options, nil
}

// ParseLine tokenizes a trace line, honoring double-quoted string
// literals (which may contain spaces/escapes), and splits off a trailing
// "returns <id> ..." clause.
func ParseLine(line string) (kind string, args, returns []string, err error) {
	tokens, err := tokenize(line)
	if err != nil {
		return "", nil, nil, err
	}
	if len(tokens) == 0 {
		return "", nil, nil, fmt.Errorf("empty line")
	}
	kind = tokens[0]
	rest := tokens[1:]
	for i, tok := range rest {
		if tok == "returns" {
			args, returns = rest[:i], rest[i+1:]
			return kind, args, returns, nil
		}
	}
	return kind, rest, nil, nil
}

func tokenize(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuote := false
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"' && !inQuote:
			inQuote = true
			cur.WriteByte(c)
		case c == '"' && inQuote:
			inQuote = false
			cur.WriteByte(c)
		case c == '\\' && inQuote && i+1 < len(line):
			cur.WriteByte(c)
			i++
			cur.WriteByte(line[i])
		case c == ' ' && !inQuote:
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated string literal")
	}
	flush()
	return tokens, nil
}
