// Package miner implements level-wise frequent itemset mining.
//
// Mining starts from every distinct item, keeps the ones that meet the
// minimum support, and then repeatedly joins every pair of surviving
// itemsets, prunes joins that have an infrequent proper subset and counts
// the rest against the transactions. The last non-empty level is the
// result. Expand turns that result into the display list of rules: every
// proper subset of the frequent itemsets, by ascending size, followed by the
// frequent itemsets themselves.
//
// A Miner holds only its options, so one Miner may be shared by concurrent
// callers as long as each passes its own transaction slice.
package miner

import (
	"log/slog"
)

// Miner mines frequent itemsets with a fixed minimum support.
type Miner struct {
	minSupport int
	prune      PruneReference
	logger     *slog.Logger
	observer   func(Round)
}

// Option configures a Miner.
type Option func(*Miner)

// WithPruneReference selects what candidate subsets are counted against.
// The default is PruneAgainstLevel.
func WithPruneReference(ref PruneReference) Option {
	return func(m *Miner) {
		m.prune = ref
	}
}

// WithLogger enables debug logging of every round.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Miner) {
		m.logger = logger
	}
}

// WithObserver registers a callback invoked after every round.
func WithObserver(fn func(Round)) Option {
	return func(m *Miner) {
		m.observer = fn
	}
}

// New creates a Miner. minSupport is an absolute transaction count; values
// of zero or less make every itemset frequent.
func New(minSupport int, opts ...Option) *Miner {
	m := &Miner{
		minSupport: minSupport,
		prune:      PruneAgainstLevel,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MinSupport returns the configured threshold.
func (m *Miner) MinSupport() int {
	return m.minSupport
}

// PruneReference returns the configured prune reference.
func (m *Miner) PruneReference() PruneReference {
	return m.prune
}
