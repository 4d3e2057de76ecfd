// ABOUTME: Time helpers for item filtering and retention calculations
// ABOUTME: Period shortcuts for list filters plus tolerant feed date parsing

package timeutil

import (
	"time"

	"github.com/araddon/dateparse"
)

// StartOfToday returns midnight (00:00:00) of the current day in local time
func StartOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// StartOfYesterday returns midnight (00:00:00) of yesterday in local time
func StartOfYesterday() time.Time {
	return StartOfToday().AddDate(0, 0, -1)
}

// StartOfWeek returns midnight of the most recent Sunday in local time
// Note: Week starts on Sunday
func StartOfWeek() time.Time {
	today := StartOfToday()
	weekday := int(today.Weekday())
	return today.AddDate(0, 0, -weekday)
}

// StartOfMonth returns midnight of the first day of the current month in local time
func StartOfMonth() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// ParsePeriod converts a period string to a time.Time representing the cutoff
// Supported values: "today", "yesterday", "week", "month"
func ParsePeriod(period string) (time.Time, bool) {
	switch period {
	case "today":
		return StartOfToday(), true
	case "yesterday":
		return StartOfYesterday(), true
	case "week":
		return StartOfWeek(), true
	case "month":
		return StartOfMonth(), true
	default:
		return time.Time{}, false
	}
}

// ParsePubDate parses a feed pubDate in whatever format the source used.
// Returns the zero time and false when the string is empty or unparseable;
// a single bad date must never fail a whole feed.
func ParsePubDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// PubDateOrZero is ParsePubDate without the ok flag, for sort comparators
// where unparseable dates collate oldest.
func PubDateOrZero(s string) time.Time {
	t, _ := ParsePubDate(s)
	return t
}
