package dataset

import "github.com/blackwell-systems/basketmine/internal/itemset"

// Sample returns the built-in nine-transaction store used when no input
// file is given.
func Sample() []itemset.Transaction {
	return []itemset.Transaction{
		itemset.New("1", "2", "5"),
		itemset.New("2", "4"),
		itemset.New("2", "3"),
		itemset.New("1", "2", "4"),
		itemset.New("1", "3"),
		itemset.New("2", "3"),
		itemset.New("1", "3"),
		itemset.New("1", "2", "3", "5"),
		itemset.New("1", "2", "3"),
	}
}
