// Package dateutil holds the pure calendar arithmetic behind session
// placement: expanding a formation's date range into the days a seance may be
// scheduled on.
package dateutil

import (
	"errors"
	"time"
)

var ErrInvalidRange = errors.New("start date is after end date")

// Day strips the time-of-day, normalizing to midnight UTC so two dates on the
// same calendar day always compare equal.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// DatesBetween returns every calendar day from start to end, inclusive of
// both endpoints, one entry per day. It fails with ErrInvalidRange when
// start is after end.
func DatesBetween(start, end time.Time) ([]time.Time, error) {
	first := Day(start)
	last := Day(end)

	if first.After(last) {
		return nil, ErrInvalidRange
	}

	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}

	return days, nil
}

// WithinRange reports whether t falls on a calendar day inside [start, end],
// inclusive.
func WithinRange(t, start, end time.Time) bool {
	d := Day(t)

	return !d.Before(Day(start)) && !d.After(Day(end))
}
