package dataprocessing

import (
	"fmt"
	"time"
)

// WeekOfYear returns the Sunday-based week number of t. Days before the first
// Sunday of the year belong to week 0, so the result ranges over 0..53.
func WeekOfYear(t time.Time) int {
	yday := t.YearDay() - 1
	wday := int(t.Weekday())
	return (yday + 7 - wday) / 7
}

// WeekLabel formats the week number as two-digit text, e.g. "07"
func WeekLabel(t time.Time) string {
	return fmt.Sprintf("%02d", WeekOfYear(t))
}
