package phrase

import (
	"cmp"
	"slices"
)

// CompareUsage orders nodes by usage count ascending and, among equal
// counts, by name descending. It returns a negative number when a sorts
// before b.
func CompareUsage(a, b Node) int {
	if c := cmp.Compare(a.UsageCount(), b.UsageCount()); c != 0 {
		return c
	}
	return cmp.Compare(b.Name(), a.Name())
}

// SortByUsage sorts nodes with CompareUsage.
func SortByUsage[N Node](nodes []N) {
	slices.SortStableFunc(nodes, func(a, b N) int {
		return CompareUsage(a, b)
	})
}
