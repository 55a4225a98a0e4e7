package utils

import (
	"sort"
	"strings"
)

// Combinations returns every distinct k-element sub-multiset of items.
// Selections that differ only in which of several identical items were
// picked are returned once. Each combination is sorted.
func Combinations(items []string, k int) [][]string {
	if k < 0 || k > len(items) {
		return nil
	}
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)

	var out [][]string
	combo := make([]string, 0, k)
	var walk func(start int)
	walk = func(start int) {
		if len(combo) == k {
			out = append(out, append([]string{}, combo...))
			return
		}
		for i := start; i < len(sorted); i++ {
			// Skip a duplicate at the same depth to avoid repeats.
			if i > start && sorted[i] == sorted[i-1] {
				continue
			}
			if len(sorted)-i < k-len(combo) {
				return
			}
			combo = append(combo, sorted[i])
			walk(i + 1)
			combo = combo[:len(combo)-1]
		}
	}
	walk(0)
	return out
}

// Key is a canonical identity for a multiset of names.
func Key(items []string) string {
	sorted := append([]string(nil), items...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
