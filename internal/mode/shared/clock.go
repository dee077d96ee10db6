// Package shared provides common helpers for screen controllers.
package shared

import (
	"fmt"
	"time"
)

// Clock provides the current time. Use RealClock in production and a
// FixedClock in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return time.Time(c) }

// FormatJoined describes how long ago an account was created, in calendar
// terms: "today", "yesterday", "3 days ago", "2 weeks ago", "5 months ago",
// "1 year ago". Future times read as "today".
func FormatJoined(created, now time.Time) string {
	days := int(now.Sub(created).Hours() / 24)

	switch {
	case days < 1:
		return "today"
	case days < 2:
		return "yesterday"
	case days < 14:
		return fmt.Sprintf("%d days ago", days)
	case days < 60:
		return plural(days/7, "week")
	case days < 365:
		return plural(days/30, "month")
	default:
		return plural(days/365, "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
