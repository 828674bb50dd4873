// Package query implements the shared list pipeline used by every entity
// list endpoint: free-text search (OR across fields), independent filters
// (AND), and single-key sorting with direction toggling. The pipeline is
// recomputed in full on every call; list sizes are dashboard-scale.
package query

import (
	"sort"
	"strings"
)

// MatchesSearch reports whether the query, lowercased and trimmed, is a
// substring of any of the given fields. An empty or whitespace-only query
// matches everything.
func MatchesSearch(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// FilterMatches reports whether a value passes an optional dropdown filter.
// An unset filter (empty string or "All"/"all") imposes no constraint.
func FilterMatches(filter, value string) bool {
	if filter == "" || filter == "All" || filter == "all" {
		return true
	}
	return filter == value
}

// Sort identifies the active sort key and direction for a list.
type Sort struct {
	Key  string
	Desc bool
}

// Toggle returns the sort state after the user selects key: selecting a new
// key resets to ascending, re-selecting the current key flips direction.
func (s Sort) Toggle(key string) Sort {
	if s.Key == key {
		return Sort{Key: key, Desc: !s.Desc}
	}
	return Sort{Key: key}
}

// CompareStrings compares two string keys case-insensitively. Missing values
// are treated as the empty string by the callers.
func CompareStrings(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// CompareInts compares two numeric keys.
func CompareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// OrderBy stable-sorts items with the given comparator, reversing when the
// sort direction is descending. Stability keeps equal-key rows in their
// incoming order so repeated runs with identical inputs produce identical
// output.
func OrderBy[T any](items []T, s Sort, cmp func(a, b T) int) {
	sort.SliceStable(items, func(i, j int) bool {
		c := cmp(items[i], items[j])
		if s.Desc {
			return c > 0
		}
		return c < 0
	})
}

// Filter returns the items for which keep is true, preserving order.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
