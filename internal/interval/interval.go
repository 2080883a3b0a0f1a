// Package interval renders an elapsed time span as a human readable
// phrase, e.g. "3 days, 0 hours, 5 minutes and 12 seconds".
package interval

import (
	"fmt"
	"strings"
	"time"
)

// Interval is an elapsed span decomposed into units, each already
// reduced below its carry boundary (Hours < 24, Minutes < 60,
// Seconds < 60).
type Interval struct {
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// FromDuration decomposes d. Negative durations are treated as zero.
func FromDuration(d time.Duration) Interval {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	return Interval{
		Days:    total / 86400,
		Hours:   total % 86400 / 3600,
		Minutes: total % 3600 / 60,
		Seconds: total % 60,
	}
}

func count(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// String starts at the coarsest non-zero unit and includes every finer
// unit, zero or not. With more than two parts the last is joined with
// " and "; with one or two, parts are joined with ", " alone.
func (iv Interval) String() string {
	var parts []string
	switch {
	case iv.Days > 0:
		parts = []string{
			count(iv.Days, "day"),
			count(iv.Hours, "hour"),
			count(iv.Minutes, "minute"),
			count(iv.Seconds, "second"),
		}
	case iv.Hours > 0:
		parts = []string{
			count(iv.Hours, "hour"),
			count(iv.Minutes, "minute"),
			count(iv.Seconds, "second"),
		}
	case iv.Minutes > 0:
		parts = []string{
			count(iv.Minutes, "minute"),
			count(iv.Seconds, "second"),
		}
	default:
		parts = []string{count(iv.Seconds, "second")}
	}

	if len(parts) > 2 {
		return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
	}
	return strings.Join(parts, ", ")
}
