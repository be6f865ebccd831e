package miner

import "github.com/blackwell-systems/basketmine/internal/itemset"

// Generate proposes the next round of candidates from level.
//
// Every unordered pair of itemsets in level is joined by union, so a single
// join can grow a candidate by more than one item. A joined candidate is
// kept only if each of its non-empty proper subsets is frequent against
// the collection selected by ref: level itself for PruneAgainstLevel, txs
// for PruneAgainstTransactions. The result is deduplicated in first-seen
// order and has not yet been counted against txs.
func Generate(level Level, txs []itemset.Transaction, minSup int, ref PruneReference) Level {
	next, _, _ := generate(level, txs, minSup, ref)
	return next
}

// generate implements Generate and also returns the number of distinct
// joined candidates and how many of them were pruned.
func generate(level Level, txs []itemset.Transaction, minSup int, ref PruneReference) (Level, int, int) {
	reference := []itemset.Itemset(level)
	if ref == PruneAgainstTransactions {
		reference = txs
	}

	var (
		next   Level
		seen   = make(map[string]struct{})
		joined int
		pruned int
	)
	for i := 0; i < len(level)-1; i++ {
		for j := i + 1; j < len(level); j++ {
			candidate := level[i].Union(level[j])
			if _, dup := seen[candidate.Key()]; dup {
				continue
			}
			seen[candidate.Key()] = struct{}{}
			joined++

			if !hasFrequentSubsets(candidate, reference, minSup) {
				pruned++
				continue
			}
			next = append(next, candidate)
		}
	}

	return next, joined, pruned
}

// hasFrequentSubsets reports whether every non-empty proper subset of
// candidate is frequent against reference.
func hasFrequentSubsets(candidate itemset.Itemset, reference []itemset.Itemset, minSup int) bool {
	for _, sub := range candidate.Subsets() {
		if !IsFrequent(sub, reference, minSup) {
			return false
		}
	}
	return true
}
