package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const layout = "2006-01-02"

// ErrInvalidDate is returned when a date override cannot be parsed.
var ErrInvalidDate = errors.New("invalid date")

// Day is a civil calendar date with no time-of-day or zone.
// Internally it is midnight UTC so that day arithmetic never crosses a DST boundary.
type Day struct {
	t time.Time
}

// Date returns the Day for the given year, month and day.
func Date(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Of returns the calendar day of instant as seen on a wall clock in loc.
func Of(instant time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := instant.In(loc).Date()
	return Date(y, m, d)
}

// FromDate converts a value read from a SQL date column. The stored
// year/month/day are used as-is; no zone conversion is applied.
func FromDate(t time.Time) Day {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// Parse parses a YYYY-MM-DD string.
func Parse(s string) (Day, error) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return FromDate(t), nil
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool { return d.t.IsZero() }

func (d Day) String() string { return d.t.Format(layout) }

// Time returns midnight of d in UTC, suitable as a SQL date parameter.
func (d Day) Time() time.Time { return d.t }

func (d Day) AddDays(n int) Day { return Day{t: d.t.AddDate(0, 0, n)} }

func (d Day) Before(o Day) bool { return d.t.Before(o.t) }
func (d Day) After(o Day) bool  { return d.t.After(o.t) }
func (d Day) Equal(o Day) bool  { return d.t.Equal(o.t) }

// DaysSince returns the number of calendar days from o to d.
func (d Day) DaysSince(o Day) int {
	return int(d.t.Sub(o.t).Hours() / 24)
}

func (d Day) Weekday() time.Weekday { return d.t.Weekday() }

// WeekStart returns the Monday on or before d.
func (d Day) WeekStart() Day {
	offset := (int(d.t.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

func (d Day) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Day{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
