package miner

import (
	"time"

	"github.com/google/uuid"

	"github.com/blackwell-systems/basketmine/internal/itemset"
)

// GetRules mines txs with the default options and returns the display list.
func GetRules(txs []itemset.Transaction, minSup int) []itemset.Itemset {
	return Expand(New(minSup).Mine(txs).Frequent)
}

// Rules mines txs and returns the display list together with the support
// of each entry, the frequent itemsets and the round trace.
func (m *Miner) Rules(txs []itemset.Transaction) *Report {
	start := time.Now()

	res := m.Mine(txs)
	display := Expand(res.Frequent)

	rules := make([]Rule, 0, len(display))
	for _, set := range display {
		rules = append(rules, Rule{
			Itemset: set,
			Support: SupportCount(set, txs),
		})
	}

	report := &Report{
		RunID:        uuid.NewString(),
		MinSupport:   m.minSupport,
		Prune:        m.prune,
		Transactions: len(txs),
		Rules:        rules,
		Frequent:     res.Frequent,
		Rounds:       res.Rounds,
		Duration:     time.Since(start),
	}

	if m.logger != nil {
		m.logger.Info("mining complete",
			"run_id", report.RunID,
			"transactions", report.Transactions,
			"min_support", report.MinSupport,
			"frequent", len(report.Frequent),
			"rules", len(report.Rules),
			"duration_ms", report.Duration.Milliseconds(),
		)
	}

	return report
}
