// Package models provides domain models for the rental listing application.
package models

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date with no time component, anchored at local midnight.
type Date struct {
	time.Time
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t}, nil
}

// NewDate creates a date at local midnight.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.Local)}
}

// Today returns the current date at local midnight.
func Today() Date {
	return Midnight(time.Now())
}

// Midnight truncates a timestamp to its local calendar date.
func Midnight(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.Local)}
}

// AddDays returns the date n calendar days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Time.IsZero()
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s: expected quoted YYYY-MM-DD", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateRange is a half-open stay window: check-in on Start, check-out on End.
type DateRange struct {
	Start Date `json:"start"`
	End   Date `json:"end"`
}

// MustRange builds a range from two YYYY-MM-DD strings. It panics on bad
// input and is intended for tests and fixtures only.
func MustRange(start, end string) DateRange {
	s, err := ParseDate(start)
	if err != nil {
		panic(err)
	}
	e, err := ParseDate(end)
	if err != nil {
		panic(err)
	}
	return DateRange{Start: s, End: e}
}

// Valid reports whether both bounds are set and Start precedes End.
func (r DateRange) Valid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && r.Start.Before(r.End.Time)
}

// Nights returns the number of nights covered by the range, rounding any
// partial day up. DST shifts make a local-midnight day slightly shorter or
// longer than 24h, hence the ceil instead of straight division.
func (r DateRange) Nights() int {
	if r.Start.IsZero() || r.End.IsZero() {
		return 0
	}
	hours := r.End.Sub(r.Start.Time).Hours()
	if hours <= 0 {
		return 0
	}
	return int(math.Ceil(hours / 24))
}

// Contains reports whether other fits entirely inside this range.
func (r DateRange) Contains(other DateRange) bool {
	return !r.Start.After(other.Start.Time) && !r.End.Before(other.End.Time)
}

// Covers reports whether day d is occupied by the range. The checkout day
// itself is not covered.
func (r DateRange) Covers(d Date) bool {
	return !d.Before(r.Start.Time) && d.Before(r.End.Time)
}

// String formats the range as "start to end".
func (r DateRange) String() string {
	return r.Start.String() + " to " + r.End.String()
}
