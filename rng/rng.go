// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

// Package rng provides the single deterministic random source the fuzzer
// threads through every sampling decision. A run's seed fully determines
// its trace only if every Action draws from this one instance.
package rng

import (
	"fmt"
	"math/rand"
	"sort"
)

// RNG is a seeded pseudo-random source. It is not safe for concurrent use;
// each worker owns exactly one.
type RNG struct {
	seed int64
	r    *rand.Rand
	// symCounter drives PickSimpleSymbol in "simple" mode (_xN names).
	symCounter uint64
	simple     bool
}

// New creates an RNG seeded with seed. If simple is true, PickSymbol always
// returns a monotonic "_xN" identifier instead of a randomized string;
// this is the -y/--random-symbols toggle's complement.
func New(seed int64, simple bool) *RNG {
	return &RNG{
		seed:   seed,
		r:      rand.New(rand.NewSource(seed)),
		simple: simple,
	}
}

// Seed returns the seed this RNG was constructed with.
func (g *RNG) Seed() int64 { return g.seed }

// PickRange returns a uniformly distributed integer in [lo, hi].
func (g *RNG) PickRange(lo, hi uint64) uint64 {
	if hi < lo {
		panic(fmt.Sprintf("rng: PickRange(%d, %d): empty range", lo, hi))
	}
	span := hi - lo + 1
	if span == 0 {
		// lo==0, hi==MaxUint64: full range.
		return g.r.Uint64()
	}
	return lo + uint64(g.r.Int63n(int64(span)))
}

// PickUint32 is PickRange specialized to the common case of synthesizing a
// small bounded value (bit-widths, argument counts, indices).
func (g *RNG) PickUint32(lo, hi uint32) uint32 {
	return uint32(g.PickRange(uint64(lo), uint64(hi)))
}

// FlipCoin returns true with probability p.
func (g *RNG) FlipCoin(p float64) bool {
	return g.r.Float64() < p
}

// PickFromSlice returns a uniformly random element of s. Panics on an
// empty slice: callers are expected to have checked Applicable() first.
func PickFromSlice[T any](g *RNG, s []T) T {
	if len(s) == 0 {
		panic("rng: PickFromSlice: empty slice")
	}
	return s[g.r.Intn(len(s))]
}

// PickFromSet returns a uniformly random key of a set represented as
// map[T]struct{}. Iteration order of Go maps is randomized per-process, so
// keys are collected and sorted by a caller-supplied ordering key before
// sampling to keep draws reproducible across runs of the same binary.
func PickFromSet[T comparable](g *RNG, s map[T]struct{}, less func(a, b T) bool) T {
	keys := make([]T, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		panic("rng: PickFromSet: empty set")
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	return PickFromSlice(g, keys)
}

// PickFromMap returns a uniformly random key of m, ignoring values. See
// PickFromSet for the determinism rationale behind the sort.
func PickFromMap[K comparable, V any](g *RNG, m map[K]V, less func(a, b K) bool) K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		panic("rng: PickFromMap: empty map")
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })
	return PickFromSlice(g, keys)
}

// WeightedPick draws an index into weights proportional to its weight.
// Weights must be non-negative and sum to > 0.
func (g *RNG) WeightedPick(weights []uint32) int {
	total := uint64(0)
	for _, w := range weights {
		total += uint64(w)
	}
	if total == 0 {
		panic("rng: WeightedPick: all weights zero")
	}
	target := g.PickRange(0, total-1)
	acc := uint64(0)
	for i, w := range weights {
		acc += uint64(w)
		if target < acc {
			return i
		}
	}
	return len(weights) - 1
}

const (
	simpleSymbolAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_"
	pipedSymbolPrintable = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"
)

// PickSimpleSymbol returns an SMT-LIB "simple symbol": in simple mode, a
// monotonic _xN identifier (N never reused within this RNG's lifetime); in
// random mode, a random-length alphanumeric/underscore string.
func (g *RNG) PickSimpleSymbol(maxLen int) string {
	if g.simple {
		g.symCounter++
		return fmt.Sprintf("_x%d", g.symCounter)
	}
	n := int(g.PickUint32(0, uint32(maxLen)))
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = simpleSymbolAlphabet[g.r.Intn(len(simpleSymbolAlphabet))]
	}
	return string(buf)
}

// PickPipedSymbol returns an SMT-LIB "quoted symbol" body: arbitrary
// printable bytes that must be wrapped in |...| by the caller, deliberately
// including characters that force quoting (spaces, punctuation).
func (g *RNG) PickPipedSymbol(maxLen int) string {
	n := int(g.PickUint32(0, uint32(maxLen)))
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = pipedSymbolPrintable[g.r.Intn(len(pipedSymbolPrintable))]
	}
	return string(buf)
}

// PickSymbol chooses 50/50 between a simple and a piped symbol, per
// SolverManager.pick_symbol's random mode. In simple mode (see New) this
// always delegates to PickSimpleSymbol so that ids stay predictable.
func (g *RNG) PickSymbol(maxLen int) (body string, piped bool) {
	if g.simple {
		return g.PickSimpleSymbol(maxLen), false
	}
	length := int(g.PickUint32(0, 128))
	if maxLen > 0 && length > maxLen {
		length = maxLen
	}
	if g.FlipCoin(0.5) {
		return g.PickSimpleSymbol(length), false
	}
	return g.PickPipedSymbol(length), true
}
