package dataprocessing

import (
	"sort"
	"strconv"
	"strings"
)

// compareIDs orders numeric IDs first, by value, then the rest as text.
func compareIDs(a, b string) int {
	av, aerr := strconv.ParseFloat(a, 64)
	bv, berr := strconv.ParseFloat(b, 64)
	aNum, bNum := aerr == nil, berr == nil

	switch {
	case aNum && bNum:
		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
		return strings.Compare(a, b)
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return strings.Compare(a, b)
}

// SortIDs sorts ids in place with numeric IDs first.
func SortIDs(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return compareIDs(ids[i], ids[j]) < 0
	})
}
