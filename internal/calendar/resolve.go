package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Period is the resolved effective day and the Monday that starts its week.
type Period struct {
	Today     Day `json:"today"`
	WeekStart Day `json:"week_start"`
}

// Resolve returns the effective calendar day for a request.
// An empty override means "today" according to now in loc. Otherwise the
// override must be YYYY-MM-DD or an RFC 3339 timestamp, which is converted
// into loc before taking its date.
func Resolve(override string, now time.Time, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}

	override = strings.TrimSpace(override)
	if override == "" {
		return periodOf(Of(now, loc)), nil
	}

	if d, err := Parse(override); err == nil {
		return periodOf(d), nil
	}
	if t, err := time.Parse(time.RFC3339, override); err == nil {
		return periodOf(Of(t, loc)), nil
	}
	return periodOf(Of(now, loc)), fmt.Errorf("%w: %q", ErrInvalidDate, override)
}

// LoadLocation resolves an IANA zone name, falling back to def for an empty name.
func LoadLocation(name string, def *time.Location) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		if def == nil {
			return time.UTC, nil
		}
		return def, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", name, err)
	}
	return loc, nil
}

func periodOf(d Day) Period {
	return Period{Today: d, WeekStart: d.WeekStart()}
}
