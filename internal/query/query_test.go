package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatchesSearch(t *testing.T) {
	assert.True(t, MatchesSearch("", "anything"))
	assert.True(t, MatchesSearch("   ", "anything"))
	assert.True(t, MatchesSearch("mumbai", "Sports Academy Mumbai", "Maharashtra"))
	assert.True(t, MatchesSearch("MUMBAI", "sports academy mumbai"))
	assert.True(t, MatchesSearch("  mumbai ", "Navi Mumbai"))
	assert.False(t, MatchesSearch("mumbai", "Delhi", "Haryana"))
}

func TestFilterMatches(t *testing.T) {
	assert.True(t, FilterMatches("", "Active"))
	assert.True(t, FilterMatches("All", "Active"))
	assert.True(t, FilterMatches("Active", "Active"))
	assert.False(t, FilterMatches("Inactive", "Active"))
}

func TestSortToggle(t *testing.T) {
	s := Sort{}
	s = s.Toggle("name")
	assert.Equal(t, Sort{Key: "name", Desc: false}, s)

	s = s.Toggle("name")
	assert.Equal(t, Sort{Key: "name", Desc: true}, s)

	// Picking a new key resets direction to ascending.
	s = s.Toggle("city")
	assert.Equal(t, Sort{Key: "city", Desc: false}, s)
}

type row struct {
	Name  string
	Count int
}

func TestOrderByDeterministic(t *testing.T) {
	items := []row{{"beta", 2}, {"Alpha", 1}, {"beta", 1}, {"gamma", 3}}

	run := func() []row {
		out := make([]row, len(items))
		copy(out, items)
		OrderBy(out, Sort{Key: "name"}, func(a, b row) int { return CompareStrings(a.Name, b.Name) })
		return out
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
	assert.Equal(t, "Alpha", first[0].Name)
	// Stable: the two betas keep their incoming relative order.
	assert.Equal(t, 2, first[1].Count)
	assert.Equal(t, 1, first[2].Count)
}

func TestOrderByDescending(t *testing.T) {
	items := []row{{"a", 1}, {"c", 3}, {"b", 2}}
	OrderBy(items, Sort{Key: "count", Desc: true}, func(a, b row) int { return CompareInts(a.Count, b.Count) })
	assert.Equal(t, []row{{"c", 3}, {"b", 2}, {"a", 1}}, items)
}

func TestFilterIntersection(t *testing.T) {
	items := []row{{"a", 1}, {"b", 1}, {"a", 2}}

	onlyA := Filter(items, func(r row) bool { return r.Name == "a" })
	onlyOne := Filter(items, func(r row) bool { return r.Count == 1 })
	both := Filter(items, func(r row) bool { return r.Name == "a" && r.Count == 1 })

	// AND of two filters is the intersection of each applied alone.
	intersection := Filter(onlyA, func(r row) bool { return r.Count == 1 })
	assert.Equal(t, both, intersection)
	assert.Len(t, onlyA, 2)
	assert.Len(t, onlyOne, 2)
	assert.Len(t, both, 1)
}

func TestMatchesDateBucket(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+30*60)
	now := time.Date(2025, time.May, 15, 12, 0, 0, 0, ist)

	mkDate := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, ist)
		return &t
	}

	assert.True(t, MatchesDateBucket("", nil, false, now))

	assert.True(t, MatchesDateBucket(BucketThisMonth, mkDate(2025, time.May, 1), false, now))
	assert.False(t, MatchesDateBucket(BucketThisMonth, mkDate(2025, time.June, 1), false, now))

	assert.True(t, MatchesDateBucket(BucketNextMonth, mkDate(2025, time.June, 30), false, now))
	assert.False(t, MatchesDateBucket(BucketNextMonth, mkDate(2025, time.July, 1), false, now))

	// Q2 is April through June.
	assert.True(t, MatchesDateBucket(BucketThisQuarter, mkDate(2025, time.April, 2), false, now))
	assert.True(t, MatchesDateBucket(BucketThisQuarter, mkDate(2025, time.June, 28), false, now))
	assert.False(t, MatchesDateBucket(BucketThisQuarter, mkDate(2025, time.July, 1), false, now))
	assert.False(t, MatchesDateBucket(BucketThisQuarter, mkDate(2024, time.May, 1), false, now))

	// No start date matches nothing except tentative-only.
	assert.False(t, MatchesDateBucket(BucketThisMonth, nil, false, now))
	assert.False(t, MatchesDateBucket(BucketThisQuarter, nil, true, now))
	assert.True(t, MatchesDateBucket(BucketTentativeOnly, nil, true, now))
	assert.False(t, MatchesDateBucket(BucketTentativeOnly, mkDate(2025, time.May, 2), false, now))

	// Unknown bucket strings match nothing
	assert.False(t, MatchesDateBucket("last-year", mkDate(2025, time.May, 1), false, now))
	assert.False(t, MatchesDateBucket("last-year", nil, true, now))
}

func TestNextMonthYearRollover(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+30*60)
	now := time.Date(2025, time.December, 20, 0, 0, 0, 0, ist)
	jan := time.Date(2026, time.January, 5, 0, 0, 0, 0, ist)
	assert.True(t, MatchesDateBucket(BucketNextMonth, &jan, false, now))
}
