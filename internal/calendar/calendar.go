// Package calendar builds the civil-date calendar the scheduler walks:
// a plain date range plus a holiday lookup, with the weekend-bucket and
// first-Friday rules the rest of the engine depends on.
package calendar

import (
	"time"

	"github.com/pedishift/scheduler/internal/models"
)

// Calendar is a holiday-aware date range. All dates are normalized to
// midnight in the given location so map-keyed lookups are exact.
type Calendar struct {
	start, end time.Time
	location   *time.Location
	holidays   map[string]bool
}

// New builds a Calendar spanning [start, end] inclusive, with holidays
// from the given table marking non-working dates. Grounded on
// generar_calendario_anual's date-iteration-plus-holiday-set shape.
func New(start, end time.Time, holidays []models.Holiday, loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	c := &Calendar{
		start:    normalize(start, loc),
		end:      normalize(end, loc),
		location: loc,
		holidays: make(map[string]bool, len(holidays)),
	}
	for _, h := range holidays {
		c.holidays[dateKey(normalize(h.Date, loc))] = true
	}
	return c
}

func normalize(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Start returns the first date in the calendar.
func (c *Calendar) Start() time.Time { return c.start }

// End returns the last date in the calendar.
func (c *Calendar) End() time.Time { return c.end }

// Dates returns every civil date from Start to End, inclusive, in order.
func (c *Calendar) Dates() []time.Time {
	var out []time.Time
	for d := c.start; !d.After(c.end); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Contains reports whether date falls within [Start, End].
func (c *Calendar) Contains(date time.Time) bool {
	n := normalize(date, c.location)
	return !n.Before(c.start) && !n.After(c.end)
}

// IsHoliday reports whether date is in the holiday table.
func (c *Calendar) IsHoliday(date time.Time) bool {
	return c.holidays[dateKey(normalize(date, c.location))]
}

// IsWeekendDay reports whether date is a calendar Saturday or Sunday.
func (c *Calendar) IsWeekendDay(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsWeekendBucket reports whether date belongs to the Urg weekend-urg
// bucket: every Saturday and Sunday, plus a Friday whose following Monday
// is a holiday (the long-weekend bridge the original's
// get_urgencias_friday_cadence accounts for).
func (c *Calendar) IsWeekendBucket(date time.Time) bool {
	if c.IsWeekendDay(date) {
		return true
	}
	if date.Weekday() == time.Friday {
		monday := date.AddDate(0, 0, 3)
		return c.IsHoliday(monday)
	}
	return false
}

// IsFirstFridayOfMonth reports whether date is the first Friday of its
// month, the trigger for the Violeta Fariña first-Friday override in C7.
func (c *Calendar) IsFirstFridayOfMonth(date time.Time) bool {
	return date.Weekday() == time.Friday && date.Day() <= 7
}

// WeekendAnchor returns the Saturday that anchors the weekend bucket
// containing date: date itself if it's already a Saturday, the
// preceding Saturday for a Sunday or bridge Friday.
func (c *Calendar) WeekendAnchor(date time.Time) time.Time {
	switch date.Weekday() {
	case time.Saturday:
		return date
	case time.Sunday:
		return date.AddDate(0, 0, -1)
	case time.Friday:
		return date.AddDate(0, 0, 1)
	default:
		return date
	}
}

// RotationOffset computes the three-role weekend rotation offset for a
// given month, grounded on shift_assignment.py's (month-1) mod 3 formula.
func RotationOffset(month time.Month) int {
	return (int(month) - 1) % 3
}
