package miner

import "github.com/blackwell-systems/basketmine/internal/itemset"

// SupportCount returns how many elements of txs contain set.
// The transactions are rescanned on every call.
func SupportCount(set itemset.Itemset, txs []itemset.Itemset) int {
	count := 0
	for _, tx := range txs {
		if set.IsSubsetOf(tx) {
			count++
		}
	}
	return count
}

// IsFrequent reports whether set occurs in at least minSup elements of txs.
func IsFrequent(set itemset.Itemset, txs []itemset.Itemset, minSup int) bool {
	return SupportCount(set, txs) >= minSup
}
