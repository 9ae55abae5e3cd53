// Package testutil provides deterministic stand-ins for the run-time
// dependencies the runner injects: run tokens and the measurement random
// source. Used by the conformance harness and by package tests that need
// byte-stable traces.
package testutil

import "sync"

// FixedTokenGenerator returns predetermined run tokens in order.
//
// Panics when the tokens are exhausted - a test that runs more experiments
// than it provided tokens for is broken, and failing fast beats silently
// reusing a token.
type FixedTokenGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedTokenGenerator creates a generator yielding tokens in order.
func NewFixedTokenGenerator(tokens ...string) *FixedTokenGenerator {
	return &FixedTokenGenerator{tokens: tokens}
}

// Generate returns the next predetermined token.
func (g *FixedTokenGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.tokens) {
		panic("testutil: all fixed tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}

// SequenceSource yields a predetermined sequence of uniform draws in [0,1),
// cycling when exhausted. It satisfies the core's Source interface, letting
// tests pick measurement outcomes by hand.
type SequenceSource struct {
	draws []float64
	idx   int
}

// NewSequenceSource creates a source that cycles through draws.
// Panics on an empty sequence.
func NewSequenceSource(draws ...float64) *SequenceSource {
	if len(draws) == 0 {
		panic("testutil: sequence source needs at least one draw")
	}
	return &SequenceSource{draws: append([]float64(nil), draws...)}
}

// Float64 returns the next draw.
func (s *SequenceSource) Float64() float64 {
	u := s.draws[s.idx%len(s.draws)]
	s.idx++
	return u
}
