// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

// Package config parses and validates the CLI surface of spec.md §6 into
// an Options value type, generalized from go-air-gini/cmd/gini/main.go's
// flag-per-concern style: each flag gets its own field and its own
// registration line, but stdlib flag can't express the paired
// short/long aliases the spec's table requires ("-s, --seed"), so
// registration goes through cobra/pflag instead.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alex-ozdemir/murxla/solver"
)

// ConfigError marks a bad CLI invocation (unknown solver, contradictory
// theory flags, ...): reported with the "ERROR:" prefix at the
// configuration exit code, never retried (spec.md §7).
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// SolverOption is one `-o name=value` preset.
type SolverOption struct {
	Name  string
	Value string
}

// Options is the validated value type every flag parses into. It carries
// no behavior of its own; cmd/murxla reads it to build the RNG, the
// solver adapter and the FSM.
type Options struct {
	Seed       string // hex or decimal; empty means continuous mode
	TimeSecs   int
	MaxRuns    int
	APITrace   string
	Untrace    string
	DD         bool
	DDMatchOut string
	DDMatchErr string
	DDIgnoreOut []string
	DDIgnoreErr []string
	DDTrace    string
	CrossCheck string
	Check      string
	CheckSet   bool
	RandomSymbols bool
	Stats      bool
	PrintFSM   bool
	CSV        bool
	ExportErrors string
	TheoryEnable  []string
	TheoryDisable []string
	Linear     bool
	FuzzOpts   []string
	FuzzOptsSet bool
	Solver     string
	SolverOpts []SolverOption
	TmpDir     string
	OutDir     string
}

// Seed64 parses Seed as the hex-or-decimal integer the RNG wants. A "0x"
// prefix selects hex, matching "-s, --seed <hex-or-decimal>".
func (o Options) Seed64() (int64, error) {
	s := o.Seed
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		n, err := strconv.ParseUint(s[2:], 16, 64)
		return int64(n), err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err
}

// Continuous reports whether no explicit seed was given, i.e. the
// supervisor should loop over fresh seeds rather than run once
// (spec.md §6: "-s ... disables continuous mode").
func (o Options) Continuous() bool { return o.Seed == "" }

// EnabledTheories resolves the --<theory>/--no-<theory> flags against the
// full default set (every Theory the adapter might declare) into the set
// the engine should actually exercise this run.
func (o Options) EnabledTheories(def []solver.Theory) (map[solver.Theory]struct{}, error) {
	enabled := map[solver.Theory]struct{}{}
	for _, t := range def {
		enabled[t] = struct{}{}
	}
	byName := map[string]solver.Theory{}
	for _, t := range def {
		byName[strings.ToLower(t.String())] = t
	}
	for _, name := range o.TheoryDisable {
		t, ok := byName[strings.ToLower(name)]
		if !ok {
			return nil, &ConfigError{Msg: fmt.Sprintf("ERROR: unknown theory %q in --no-<theory>", name)}
		}
		delete(enabled, t)
	}
	for _, name := range o.TheoryEnable {
		t, ok := byName[strings.ToLower(name)]
		if !ok {
			return nil, &ConfigError{Msg: fmt.Sprintf("ERROR: unknown theory %q in --<theory>", name)}
		}
		for _, d := range o.TheoryDisable {
			if strings.EqualFold(d, name) {
				return nil, &ConfigError{Msg: fmt.Sprintf("ERROR: theory %q both enabled and disabled", name)}
			}
		}
		enabled[t] = struct{}{}
	}
	return enabled, nil
}

// ParseSolverOptions splits a "-o name=value,name2=value2" argument into
// SolverOption records.
func ParseSolverOptions(raw string) ([]SolverOption, error) {
	if raw == "" {
		return nil, nil
	}
	var out []SolverOption
	for _, pair := range strings.Split(raw, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return nil, &ConfigError{Msg: fmt.Sprintf("ERROR: malformed -o option %q, want name=value", pair)}
		}
		out = append(out, SolverOption{Name: kv[0], Value: kv[1]})
	}
	return out, nil
}

// KnownSolvers is the adapter-selector allowlist of spec.md §6's
// "--<solver>" flag.
var KnownSolvers = []string{"btor", "bzla", "cvc5", "yices", "smt2"}

func validateSolver(name string) error {
	if name == "" {
		return nil
	}
	for _, s := range KnownSolvers {
		if s == name {
			return nil
		}
	}
	return &ConfigError{Msg: fmt.Sprintf("ERROR: unknown solver %q (want one of %s)", name, strings.Join(KnownSolvers, ", "))}
}

// Parse builds a cobra root command wired to every flag of spec.md §6's
// CLI surface table and parses args (typically os.Args[1:]) into Options.
// A single root command, no subcommands: cobra is used purely for its
// pflag-backed short/long-alias parsing.
func Parse(args []string) (Options, error) {
	var o Options
	var oOpt string
	var solverFlags pflag.FlagSet

	root := &cobra.Command{
		Use:           "murxla",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return nil
		},
	}
	root.SetArgs(args)

	f := root.Flags()
	f.StringVarP(&o.Seed, "seed", "s", "", "seed the RNG; disables continuous mode")
	f.IntVarP(&o.TimeSecs, "time", "t", 0, "per-run wall-clock budget in seconds")
	f.IntVarP(&o.MaxRuns, "max-runs", "m", 0, "stop after n runs in continuous mode")
	f.StringVarP(&o.APITrace, "api-trace", "a", "", "write trace to file instead of stdout")
	f.StringVarP(&o.Untrace, "untrace", "u", "", "replay a trace")
	f.BoolVarP(&o.DD, "dd", "d", false, "enable delta debugging on current run")
	f.StringVar(&o.DDMatchOut, "dd-match-out", "", "oracle: substring match against stdout")
	f.StringVar(&o.DDMatchErr, "dd-match-err", "", "oracle: substring match against stderr")
	f.StringSliceVar(&o.DDIgnoreOut, "dd-ignore-out", nil, "oracle: ignore stdout lines matching these substrings")
	f.StringSliceVar(&o.DDIgnoreErr, "dd-ignore-err", nil, "oracle: ignore stderr lines matching these substrings")
	f.StringVarP(&o.DDTrace, "dd-trace", "D", "", "minimized trace output path")
	f.StringVarP(&o.CrossCheck, "cross-check", "c", "", "run a second solver on SMT-LIB2 output and compare verdicts")
	f.StringVar(&o.Check, "check", "", "enable unsat-core/model checking via a second solver")
	f.BoolVarP(&o.RandomSymbols, "random-symbols", "y", false, "use randomized symbol strings")
	f.BoolVar(&o.Stats, "stats", false, "print statistics after the run")
	f.BoolVar(&o.PrintFSM, "print-fsm", false, "print the FSM and exit")
	f.BoolVar(&o.CSV, "csv", false, "print statistics as CSV after the run")
	f.StringVar(&o.ExportErrors, "export-errors", "", "export the error map to this file as JSON")
	f.StringSliceVar(&o.TheoryEnable, "enable-theory", nil, "enable a theory (repeatable); see --<theory>")
	f.StringSliceVar(&o.TheoryDisable, "disable-theory", nil, "disable a theory (repeatable); see --no-<theory>")
	f.BoolVar(&o.Linear, "linear", false, "restrict arithmetic to the linear fragment")
	f.StringSliceVar(&o.FuzzOpts, "fuzz-opts", nil, "enable option fuzzing with wildcard filters")
	f.StringVar(&o.Solver, "solver", "", "select solver adapter (btor|bzla|cvc5|yices|smt2)")
	f.StringVarP(&oOpt, "options", "o", "", "preset solver options as name=value,...")
	f.StringVarP(&o.TmpDir, "tmp-dir", "T", "", "temp directory base (default /tmp)")
	f.StringVarP(&o.OutDir, "out-dir", "O", "", "output directory base")

	// --check's optional solver name and --fuzz-opts's optional wildcard
	// patterns are both "flag present at all" signals the engine needs
	// independent of the string value itself.
	root.Flags().Lookup("check").NoOptDefVal = "default"

	for _, name := range solver.AllTheoryFlagNames() {
		solverFlags.Bool(name, false, fmt.Sprintf("enable theory %s", name))
		solverFlags.Bool("no-"+name, false, fmt.Sprintf("disable theory %s", name))
	}
	f.AddFlagSet(&solverFlags)

	if err := root.Execute(); err != nil {
		return o, &ConfigError{Msg: "ERROR: " + err.Error()}
	}

	o.CheckSet = root.Flags().Changed("check")
	o.FuzzOptsSet = root.Flags().Changed("fuzz-opts")

	for _, name := range solver.AllTheoryFlagNames() {
		if v, _ := f.GetBool(name); v {
			o.TheoryEnable = append(o.TheoryEnable, name)
		}
		if v, _ := f.GetBool("no-" + name); v {
			o.TheoryDisable = append(o.TheoryDisable, name)
		}
	}

	if err := validateSolver(o.Solver); err != nil {
		return o, err
	}
	opts, err := ParseSolverOptions(oOpt)
	if err != nil {
		return o, err
	}
	o.SolverOpts = opts

	if o.MaxRuns > 0 && !o.Continuous() {
		return o, &ConfigError{Msg: "ERROR: --max-runs requires continuous mode (no --seed)"}
	}
	return o, nil
}

// TraceFlags returns the flags recorded in a trace's "set-murxla-options"
// header: -t, -y, --linear, the theory enable/disable flags, --solver and
// -o. No other flag is recorded (for example --fuzz-opts, --check and
// --cross-check are not).
func (o Options) TraceFlags() []string {
	var out []string
	if o.TimeSecs > 0 {
		out = append(out, "-t", strconv.Itoa(o.TimeSecs))
	}
	if o.RandomSymbols {
		out = append(out, "-y")
	}
	if o.Linear {
		out = append(out, "--linear")
	}
	for _, n := range o.TheoryEnable {
		out = append(out, "--"+n)
	}
	for _, n := range o.TheoryDisable {
		out = append(out, "--no-"+n)
	}
	if o.Solver != "" {
		out = append(out, "--solver", o.Solver)
	}
	for _, so := range o.SolverOpts {
		out = append(out, "-o", so.Name+"="+so.Value)
	}
	return out
}
