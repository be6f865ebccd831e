package miner

import (
	"sort"

	"github.com/blackwell-systems/basketmine/internal/itemset"
)

// Mine runs the level-wise loop over txs and returns the last non-empty
// frequent level. An empty transaction store, or one where no single item
// meets the minimum support, yields an empty result.
func (m *Miner) Mine(txs []itemset.Transaction) Result {
	var res Result

	seeds := singletons(txs)
	level := m.filter(seeds, txs)
	m.record(&res, Round{
		Index:      1,
		Candidates: len(seeds),
		Frequent:   len(level),
	})

	for len(level) > 0 {
		res.Frequent = level

		candidates, joined, pruned := generate(level, txs, m.minSupport, m.prune)
		level = m.filter(candidates, txs)
		m.record(&res, Round{
			Index:      len(res.Rounds) + 1,
			Candidates: joined,
			Pruned:     pruned,
			Frequent:   len(level),
		})
	}

	return res
}

// filter keeps the candidates that are frequent against txs, dropping
// duplicates.
func (m *Miner) filter(candidates Level, txs []itemset.Transaction) Level {
	var (
		out  Level
		seen = make(map[string]struct{}, len(candidates))
	)
	for _, c := range candidates {
		if _, dup := seen[c.Key()]; dup {
			continue
		}
		if IsFrequent(c, txs, m.minSupport) {
			seen[c.Key()] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// record appends a round to the trace and reports it.
func (m *Miner) record(res *Result, r Round) {
	res.Rounds = append(res.Rounds, r)

	if m.logger != nil {
		m.logger.Debug("mining round",
			"round", r.Index,
			"candidates", r.Candidates,
			"pruned", r.Pruned,
			"frequent", r.Frequent,
			"min_support", m.minSupport,
		)
	}
	if m.observer != nil {
		m.observer(r)
	}
}

// singletons returns one single-item candidate per distinct item, in
// canonical item order.
func singletons(txs []itemset.Transaction) Level {
	seen := make(map[itemset.Item]struct{})
	var items []itemset.Item
	for _, tx := range txs {
		for _, it := range tx.Items() {
			if _, ok := seen[it]; ok {
				continue
			}
			seen[it] = struct{}{}
			items = append(items, it)
		}
	}

	sort.Slice(items, func(i, j int) bool {
		return itemset.Compare(items[i], items[j]) < 0
	})

	level := make(Level, 0, len(items))
	for _, it := range items {
		level = append(level, itemset.New(it))
	}
	return level
}
