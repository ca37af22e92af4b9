package core

import (
	"time"
)

// RecurrenceRule is an annually repeating month/day. Year records the origin
// (birth year, wedding year) and never affects the occurrence itself.
type RecurrenceRule struct {
	Month int
	Day   int
	Year  *int
}

// Occurrence is the next date a rule falls on, counted from a reference day.
type Occurrence struct {
	Date      time.Time
	DaysUntil int
}

// NextOccurrence resolves the next date on or after today matching rule.
//
// A month/day that does not exist in the candidate year resolves to March 1
// of that year. For Feb 29 this means leap-day dates are celebrated on Mar 1
// in common years; there is no search for the next leap year.
func NextOccurrence(rule RecurrenceRule, today time.Time) Occurrence {
	ref := truncateDay(today)

	next := candidate(ref.Year(), rule)
	if next.Before(ref) {
		next = candidate(ref.Year()+1, rule)
	}

	return Occurrence{
		Date:      next,
		DaysUntil: daysBetween(ref, next),
	}
}

// AgeOn returns how old someone with the given birthday rule turns on date.
// Zero when the origin year is unknown.
func AgeOn(rule RecurrenceRule, date time.Time) int {
	if rule.Year == nil || *rule.Year <= 0 {
		return 0
	}
	age := date.Year() - *rule.Year
	if age < 0 {
		return 0
	}
	return age
}

// candidate builds year/month/day, falling back to Mar 1 when time.Date
// had to normalize the value into another month.
func candidate(year int, rule RecurrenceRule) time.Time {
	d := time.Date(year, time.Month(rule.Month), rule.Day, 0, 0, 0, 0, time.UTC)
	if int(d.Month()) != rule.Month || d.Day() != rule.Day {
		return time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC)
	}
	return d
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts calendar days; both arguments are UTC midnights so
// there is no DST drift.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
