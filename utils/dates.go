// utils/dates.go
package utils

import (
	"math"
	"time"
)

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func DaysBetween(start, end time.Time) int {
	start = BeginningOfDay(start)
	end = BeginningOfDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// DayWindows returns the start of each of the last n days, oldest first, ending with today.
func DayWindows(now time.Time, n int) []time.Time {
	today := BeginningOfDay(now)
	out := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		out = append(out, today.AddDate(0, 0, -i))
	}
	return out
}

// RoundCents rounds a money amount to two decimals.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
