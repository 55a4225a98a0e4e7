package utils

import "sort"

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// Remove deletes the first occurrence of item and reports whether one was found.
func Remove[T comparable](slice []T, item T) ([]T, bool) {
	i := FindIndex(slice, item)
	if i < 0 {
		return slice, false
	}
	return append(slice[:i], slice[i+1:]...), true
}

func Count[T comparable](slice []T, item T) int {
	n := 0
	for _, v := range slice {
		if v == item {
			n++
		}
	}
	return n
}

// Subtract returns big minus little as multisets: every element of little
// removes at most one matching element of big.
func Subtract[T comparable](big, little []T) []T {
	out := append([]T(nil), big...)
	for _, item := range little {
		out, _ = Remove(out, item)
	}
	return out
}

// Superset reports whether big contains little as a multiset.
func Superset[T comparable](big, little []T) bool {
	rest := append([]T(nil), big...)
	for _, item := range little {
		var ok bool
		if rest, ok = Remove(rest, item); !ok {
			return false
		}
	}
	return true
}

// Distinct returns the sorted set of elements.
func Distinct(slice []string) []string {
	seen := make(map[string]bool, len(slice))
	out := []string{}
	for _, v := range slice {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
