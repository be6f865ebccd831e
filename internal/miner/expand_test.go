package miner_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/basketmine/internal/itemset"
	"github.com/blackwell-systems/basketmine/internal/miner"
)

func TestExpand(t *testing.T) {
	t.Run("subsets by size then the itemsets", func(t *testing.T) {
		got := miner.Expand(miner.Level{set("1,2,3"), set("1,2,5")})
		assert.Equal(t, []string{
			"{1}", "{2}", "{3}", "{5}",
			"{1, 2}", "{1, 3}", "{2, 3}", "{1, 5}", "{2, 5}",
			"{1, 2, 3}", "{1, 2, 5}",
		}, names(got))
	})

	t.Run("singletons have no subsets", func(t *testing.T) {
		got := miner.Expand(miner.Level{set("1"), set("2")})
		assert.Equal(t, []string{"{1}", "{2}"}, names(got))
	})

	t.Run("frequent itemsets keep their order", func(t *testing.T) {
		got := miner.Expand(miner.Level{set("b,c"), set("a,b")})
		assert.Equal(t, []string{"{b}", "{c}", "{a}", "{b, c}", "{a, b}"}, names(got))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, miner.Expand(nil))
	})
}

func TestExpand_Closure(t *testing.T) {
	for minSup := 0; minSup <= 9; minSup++ {
		frequent := miner.New(minSup, miner.WithPruneReference(miner.PruneAgainstTransactions)).Mine(sample()).Frequent
		display := miner.Expand(frequent)

		listed := make(map[string]bool, len(display))
		for _, s := range display {
			listed[s.Key()] = true
		}
		for _, f := range frequent {
			assert.True(t, listed[f.Key()])
			for _, sub := range f.Subsets() {
				assert.True(t, listed[sub.Key()], "subset %s of %s missing at min support %d", sub, f, minSup)
			}
		}
	}
}

func TestGetRules(t *testing.T) {
	t.Run("sample at min support 2", func(t *testing.T) {
		got := miner.GetRules(sample(), 2)
		assert.Equal(t, []string{"{1}", "{2}", "{3}", "{4}", "{5}"}, names(got))
	})

	t.Run("single transaction", func(t *testing.T) {
		got := miner.GetRules([]itemset.Transaction{set("1,2,3")}, 1)
		assert.Equal(t, []string{
			"{1}", "{2}", "{3}", "{1, 2}", "{1, 3}", "{2, 3}", "{1, 2, 3}",
		}, names(got))
	})

	t.Run("empty store", func(t *testing.T) {
		assert.Empty(t, miner.GetRules(nil, 1))
		assert.Empty(t, miner.GetRules([]itemset.Transaction{}, 3))
	})
}

func TestMiner_Rules(t *testing.T) {
	m := miner.New(2, miner.WithPruneReference(miner.PruneAgainstTransactions))
	report := m.Rules(sample())

	_, err := uuid.Parse(report.RunID)
	require.NoError(t, err)

	assert.Equal(t, 2, report.MinSupport)
	assert.Equal(t, miner.PruneAgainstTransactions, report.Prune)
	assert.Equal(t, 9, report.Transactions)
	assert.Equal(t, []string{"{1, 2, 3}", "{1, 2, 5}"}, names(report.Frequent))
	require.Len(t, report.Rules, 11)

	support := make(map[string]int)
	for _, r := range report.Rules {
		support[r.Itemset.String()] = r.Support
		assert.GreaterOrEqual(t, r.Support, 2)
	}
	assert.Equal(t, 7, support["{2}"])
	assert.Equal(t, 4, support["{1, 2}"])
	assert.Equal(t, 2, support["{1, 2, 3}"])
	assert.Equal(t, 2, support["{1, 2, 5}"])

	assert.NotEmpty(t, report.Rounds)
}

func TestMiner_RulesDistinctRunIDs(t *testing.T) {
	m := miner.New(2)
	assert.NotEqual(t, m.Rules(sample()).RunID, m.Rules(sample()).RunID)
}
