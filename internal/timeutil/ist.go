// Package timeutil pins calendar-relative logic to Indian Standard
// Time. Trial date buckets, reverification stamps, and report
// timestamps all read the clock through here so a UTC server host
// cannot shift a trial into the wrong month.
package timeutil

import "time"

// IST is UTC+5:30. India has no DST, so the fixed-zone fallback is
// exact when the tzdata entry is missing.
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// Now returns the current time in IST.
func Now() time.Time {
	return time.Now().In(IST)
}

// ToIST converts a time to IST.
func ToIST(t time.Time) time.Time {
	return t.In(IST)
}

// FormatIST formats a time in IST using the given layout.
func FormatIST(t time.Time, layout string) string {
	return t.In(IST).Format(layout)
}

// DateLayout is the wire format for trial and reverification dates.
const DateLayout = "2006-01-02"
