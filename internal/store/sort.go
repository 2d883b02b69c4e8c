package store

import (
	"slices"
	"sort"
)

// newestFirst orders items by descending timestamp. Equal timestamps keep the
// later-appended item first.
func newestFirst[T any](items []T, ts func(T) int64) {
	slices.Reverse(items)
	sort.SliceStable(items, func(i, j int) bool { return ts(items[i]) > ts(items[j]) })
}
