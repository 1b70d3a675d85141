package kvline

import (
	"fmt"
	"slices"
	"strings"
)

// SortBy selects the part of a Pair used for sorting.
type SortBy string

const (
	SortByKey   SortBy = "key"
	SortByValue SortBy = "value"
)

// ParseSortBy returns the SortBy named s.
func ParseSortBy(s string) (SortBy, error) {
	switch by := SortBy(s); by {
	case SortByKey, SortByValue:
		return by, nil
	default:
		return "", fmt.Errorf("invalid sort field %q (use key or value)", s)
	}
}

// SortPairs sorts pairs in place in ascending byte order of their key or
// value.  The sort is stable: pairs comparing equal keep their input order.
func SortPairs(pairs []Pair, by SortBy) {
	switch by {
	case SortByKey:
		slices.SortStableFunc(pairs, func(a, b Pair) int {
			return strings.Compare(a.Key, b.Key)
		})
	case SortByValue:
		slices.SortStableFunc(pairs, func(a, b Pair) int {
			return strings.Compare(a.Value, b.Value)
		})
	}
}
