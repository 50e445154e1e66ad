package utils

import (
	"time"
)

// KST is the Korea Standard Time location (UTC+9).
var KST *time.Location

func init() {
	var err error
	KST, err = time.LoadLocation("Asia/Seoul")
	if err != nil {
		// Fallback: create fixed zone if tz database is not available
		KST = time.FixedZone("KST", 9*60*60)
	}
}

// NowKST returns the current time in KST.
func NowKST() time.Time {
	return time.Now().In(KST)
}

// ToKST converts a time.Time to KST.
func ToKST(t time.Time) time.Time {
	return t.In(KST)
}

// DateKST returns the calendar date (YYYY-MM-DD) of t in KST.
func DateKST(t time.Time) string {
	return t.In(KST).Format("2006-01-02")
}

// SameDayKST reports whether a and b fall on the same KST calendar day.
func SameDayKST(a, b time.Time) bool {
	a, b = a.In(KST), b.In(KST)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// MorningAnchor returns 08:00 KST on the day of the given time.
// The news lookback window starts at the previous day's anchor.
func MorningAnchor(t time.Time) time.Time {
	d := t.In(KST)
	return time.Date(d.Year(), d.Month(), d.Day(), 8, 0, 0, 0, KST)
}

// FormatDateTimeKST formats a time as "2006-01-02 15:04:05 KST".
func FormatDateTimeKST(t time.Time) string {
	return t.In(KST).Format("2006-01-02 15:04:05 MST")
}
