package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFormatJoined(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	tests := []struct {
		name    string
		created time.Time
		want    string
	}{
		{"just now", now, "today"},
		{"future", now.Add(time.Hour), "today"},
		{"23 hours", now.Add(-23 * time.Hour), "today"},
		{"one day", now.Add(-day), "yesterday"},
		{"three days", now.Add(-3 * day), "3 days ago"},
		{"thirteen days", now.Add(-13 * day), "13 days ago"},
		{"two weeks", now.Add(-14 * day), "2 weeks ago"},
		{"eight weeks", now.Add(-59 * day), "8 weeks ago"},
		{"two months", now.Add(-60 * day), "2 months ago"},
		{"one year", now.Add(-365 * day), "1 year ago"},
		{"three years", now.Add(-3 * 365 * day), "3 years ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FormatJoined(tt.created, now))
		})
	}
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.Equal(t, at, FixedClock(at).Now())
}
