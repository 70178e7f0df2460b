package util

import (
    "fmt"
    "time"
)

// LookbackRange renders a day count as a provider range string, e.g. "20d".
func LookbackRange(days int) string {
    if days <= 0 {
        days = 1
    }
    return fmt.Sprintf("%dd", days)
}

// LookbackWindow returns the [from, to] interval covering the given number of
// calendar days ending at now. from is aligned to the start of its UTC day.
func LookbackWindow(now time.Time, days int) (time.Time, time.Time) {
    if days <= 0 {
        days = 1
    }
    to := now.UTC()
    from := to.AddDate(0, 0, -days).Truncate(24 * time.Hour)
    return from, to
}

// DayFromUnix converts a unix timestamp to the UTC calendar day it falls on.
func DayFromUnix(ts int64) time.Time {
    return time.Unix(ts, 0).UTC().Truncate(24 * time.Hour)
}
