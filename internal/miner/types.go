package miner

import (
	"fmt"
	"strings"
	"time"

	"github.com/blackwell-systems/basketmine/internal/itemset"
)

// Level is an ordered, duplicate-free collection of itemsets that survived
// one round of the mining loop.
type Level []itemset.Itemset

// PruneReference selects the collection candidate subsets are counted
// against during pruning.
type PruneReference int

const (
	// PruneAgainstLevel counts subsets against the previous round's
	// surviving itemsets.
	PruneAgainstLevel PruneReference = iota
	// PruneAgainstTransactions counts subsets against the full
	// transaction store.
	PruneAgainstTransactions
)

// String returns the flag spelling of the reference.
func (r PruneReference) String() string {
	switch r {
	case PruneAgainstTransactions:
		return "transactions"
	default:
		return "level"
	}
}

// ParsePruneReference converts "level" or "transactions" (case-insensitive)
// to a PruneReference. The empty string selects PruneAgainstLevel.
func ParsePruneReference(s string) (PruneReference, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "level":
		return PruneAgainstLevel, nil
	case "transactions":
		return PruneAgainstTransactions, nil
	default:
		return PruneAgainstLevel, fmt.Errorf("unknown prune reference %q (want level or transactions)", s)
	}
}

// Round describes one iteration of the mining loop.
type Round struct {
	Index      int // 1 for the seed round
	Candidates int // candidates proposed (distinct items for the seed round)
	Pruned     int // joined candidates dropped for an infrequent subset
	Frequent   int // candidates that met the minimum support
}

// Result is the outcome of Miner.Mine.
type Result struct {
	Frequent Level   // last non-empty level
	Rounds   []Round // one entry per executed round
}

// Rule is one entry of the display list.
type Rule struct {
	Itemset itemset.Itemset
	Support int
}

// Report is the outcome of Miner.Rules.
type Report struct {
	RunID        string
	MinSupport   int
	Prune        PruneReference
	Transactions int
	Rules        []Rule
	Frequent     Level
	Rounds       []Round
	Duration     time.Duration
}
