package query

import "time"

// DateBucket is a calendar-relative filter over trial start dates.
type DateBucket string

const (
	BucketThisMonth     DateBucket = "this-month"
	BucketNextMonth     DateBucket = "next-month"
	BucketThisQuarter   DateBucket = "this-quarter"
	BucketTentativeOnly DateBucket = "tentative-only"
)

// MatchesDateBucket evaluates a date bucket against a trial's start date and
// schedule. Boundaries are calendar months/quarters in now's location. A
// trial without a start date matches no bucket except tentative-only, which
// ignores dates and checks the schedule type instead.
func MatchesDateBucket(bucket DateBucket, start *time.Time, tentative bool, now time.Time) bool {
	switch bucket {
	case "":
		return true
	case BucketTentativeOnly:
		return tentative
	}

	if start == nil {
		return false
	}
	s := start.In(now.Location())

	switch bucket {
	case BucketThisMonth:
		return s.Month() == now.Month() && s.Year() == now.Year()
	case BucketNextMonth:
		next := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
		return s.Month() == next.Month() && s.Year() == next.Year()
	case BucketThisQuarter:
		qStart := time.Month((int(now.Month())-1)/3*3 + 1)
		return s.Year() == now.Year() && s.Month() >= qStart && s.Month() <= qStart+2
	default:
		// Unknown buckets match nothing rather than everything
		return false
	}
}
