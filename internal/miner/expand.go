package miner

import (
	"sort"

	"github.com/blackwell-systems/basketmine/internal/itemset"
)

// Expand builds the display list for a set of frequent itemsets: every
// distinct non-empty proper subset, stable-sorted by ascending size,
// followed by the frequent itemsets themselves in their original order.
func Expand(frequent Level) []itemset.Itemset {
	var (
		subsets []itemset.Itemset
		seen    = make(map[string]struct{})
	)
	for _, set := range frequent {
		for _, sub := range set.Subsets() {
			if _, dup := seen[sub.Key()]; dup {
				continue
			}
			seen[sub.Key()] = struct{}{}
			subsets = append(subsets, sub)
		}
	}

	sort.SliceStable(subsets, func(i, j int) bool {
		return subsets[i].Len() < subsets[j].Len()
	})

	out := make([]itemset.Itemset, 0, len(subsets)+len(frequent))
	out = append(out, subsets...)
	out = append(out, frequent...)
	return out
}
