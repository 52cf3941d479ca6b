// Package recurrence computes successor due dates for recurring tasks.
package recurrence

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidPattern = errors.New("invalid recurrence pattern")

// Pattern is the unit of repetition for a recurring task.
type Pattern string

const (
	Daily   Pattern = "daily"
	Weekly  Pattern = "weekly"
	Monthly Pattern = "monthly"
	Yearly  Pattern = "yearly"
)

func ParsePattern(s string) (Pattern, error) {
	switch p := Pattern(s); p {
	case Daily, Weekly, Monthly, Yearly:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPattern, s)
}

// Next returns the due date that follows current. Monthly and yearly steps
// use time.Time.AddDate, which normalizes overflowing days: Jan 31 plus one
// month lands on Mar 3 (or Mar 2 in leap years), matching the standard
// library rule rather than clamping to the end of the month.
func Next(current time.Time, pattern Pattern, interval int) (time.Time, error) {
	if interval < 1 {
		return time.Time{}, fmt.Errorf("recurrence interval must be positive, got %d", interval)
	}

	switch pattern {
	case Daily:
		return current.AddDate(0, 0, interval), nil
	case Weekly:
		return current.AddDate(0, 0, 7*interval), nil
	case Monthly:
		return current.AddDate(0, interval, 0), nil
	case Yearly:
		return current.AddDate(interval, 0, 0), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
}
