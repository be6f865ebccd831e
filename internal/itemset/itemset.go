// Package itemset provides the immutable set types the miner works on.
//
// An Itemset is stored in canonical item order with a precomputed key, so
// two itemsets are equal exactly when their keys are equal and can be used
// directly as map keys for deduplication.
package itemset

import (
	"sort"
	"strconv"
	"strings"
)

// Item is an opaque item identifier.
type Item = string

// Itemset is an immutable, duplicate-free collection of items.
// The zero value is the empty set.
type Itemset struct {
	items []Item
	key   string
}

// Transaction is one observed basket.
type Transaction = Itemset

// New builds an Itemset from items, dropping duplicates.
func New(items ...Item) Itemset {
	if len(items) == 0 {
		return Itemset{}
	}

	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		return Compare(sorted[i], sorted[j]) < 0
	})

	// Compact duplicates in place
	out := sorted[:1]
	for _, it := range sorted[1:] {
		if it != out[len(out)-1] {
			out = append(out, it)
		}
	}

	return fromSorted(out)
}

// fromSorted wraps an already canonical, duplicate-free slice.
// Each item is written to the key as "<byte length>:<item>", so no item
// content can forge an item boundary and {""} and {} get distinct keys.
func fromSorted(items []Item) Itemset {
	var sb strings.Builder
	for _, it := range items {
		sb.WriteString(strconv.Itoa(len(it)))
		sb.WriteByte(':')
		sb.WriteString(it)
	}
	return Itemset{items: items, key: sb.String()}
}

// Compare orders items canonically. Items that both parse as integers
// compare numerically; integers sort before other strings; everything else
// compares lexicographically.
func Compare(a, b Item) int {
	ai, aErr := strconv.ParseInt(a, 10, 64)
	bi, bErr := strconv.ParseInt(b, 10, 64)

	switch {
	case aErr == nil && bErr == nil:
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		}
		// "01" and "1" are distinct items with the same value
		return strings.Compare(a, b)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// Len returns the number of items.
func (s Itemset) Len() int {
	return len(s.items)
}

// IsEmpty reports whether the set has no items.
func (s Itemset) IsEmpty() bool {
	return len(s.items) == 0
}

// Items returns a copy of the items in canonical order.
func (s Itemset) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Key returns the identity of the set. Equal sets have equal keys.
func (s Itemset) Key() string {
	return s.key
}

// Equal reports whether both sets contain the same items.
func (s Itemset) Equal(other Itemset) bool {
	return s.key == other.key
}

// Contains reports whether item is a member of the set.
func (s Itemset) Contains(item Item) bool {
	i := sort.Search(len(s.items), func(i int) bool {
		return Compare(s.items[i], item) >= 0
	})
	return i < len(s.items) && s.items[i] == item
}

// IsSubsetOf reports whether every item of s is in other.
func (s Itemset) IsSubsetOf(other Itemset) bool {
	if len(s.items) > len(other.items) {
		return false
	}

	// Both sides are sorted, so a single merge pass is enough
	j := 0
	for _, it := range s.items {
		for j < len(other.items) && Compare(other.items[j], it) < 0 {
			j++
		}
		if j == len(other.items) || other.items[j] != it {
			return false
		}
		j++
	}
	return true
}

// Union returns a new set holding the items of both sets.
func (s Itemset) Union(other Itemset) Itemset {
	out := make([]Item, 0, len(s.items)+len(other.items))
	i, j := 0, 0
	for i < len(s.items) && j < len(other.items) {
		c := Compare(s.items[i], other.items[j])
		switch {
		case c < 0:
			out = append(out, s.items[i])
			i++
		case c > 0:
			out = append(out, other.items[j])
			j++
		default:
			out = append(out, s.items[i])
			i++
			j++
		}
	}
	out = append(out, s.items[i:]...)
	out = append(out, other.items[j:]...)

	return fromSorted(out)
}

// Subsets returns every non-empty proper subset, grouped by ascending size.
// Within a size, subsets follow lexicographic combination order over the
// canonical item order.
func (s Itemset) Subsets() []Itemset {
	n := len(s.items)
	if n < 2 {
		return nil
	}

	var out []Itemset
	idx := make([]int, 0, n)
	for size := 1; size < n; size++ {
		idx = idx[:size]
		for i := range idx {
			idx[i] = i
		}
		for {
			items := make([]Item, size)
			for i, k := range idx {
				items[i] = s.items[k]
			}
			out = append(out, fromSorted(items))

			// Advance to the next combination
			i := size - 1
			for i >= 0 && idx[i] == n-size+i {
				i--
			}
			if i < 0 {
				break
			}
			idx[i]++
			for k := i + 1; k < size; k++ {
				idx[k] = idx[k-1] + 1
			}
		}
	}

	return out
}

// String renders the set as {a, b, c}.
func (s Itemset) String() string {
	return "{" + strings.Join(s.items, ", ") + "}"
}

