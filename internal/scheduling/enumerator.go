package scheduling

import (
	"sort"
	"strings"
	"time"

	"github.com/pedishift/scheduler/internal/calendar"
	"github.com/pedishift/scheduler/internal/models"
)

// reinforcementSectionName is the synthetic Saturday reinforcement slot
// ShiftEnumerator appends to the weekend bucket containing the first
// Friday of each month.
const reinforcementSectionName = "Urg_G_refuerzo_fyf"

var reinforcementSection = models.NewSection(reinforcementSectionName, []time.Weekday{time.Saturday}, 24, 8, 1, false)

// ShiftEnumerator walks the calendar and the section list to produce the
// ordered list of shift instances the backtracking search will try to
// fill, split into the three priority streams: Regular, Urg-lab, then the
// Urg weekend bucket (C2). Grounded on
// assign_period_shifts_with_backtracking lines 404-489.
type ShiftEnumerator struct {
	cal      *calendar.Calendar
	sections []*models.Section
}

// NewShiftEnumerator builds an enumerator over cal and sections.
func NewShiftEnumerator(cal *calendar.Calendar, sections []*models.Section) *ShiftEnumerator {
	return &ShiftEnumerator{cal: cal, sections: sections}
}

// Enumerate returns every shift instance in the horizon, sorted by stream
// priority (Regular, then Urg-lab, then Urg-weekend) and by date within
// each stream. A section with RequiredStaff > 1 emits that many
// independent copies per date, distinguished by CopyIndex. The first
// Friday of each month additionally gets a synthetic Urg_G_refuerzo_fyf
// reinforcement instance on the following Saturday.
func (e *ShiftEnumerator) Enumerate() []models.ShiftInstance {
	var out []models.ShiftInstance
	for _, d := range e.cal.Dates() {
		for _, sec := range e.sections {
			if !sec.RunsOn(d) {
				continue
			}
			staff := sec.RequiredStaff
			if staff < 1 {
				staff = 1
			}
			for copyIx := 0; copyIx < staff; copyIx++ {
				out = append(out, models.ShiftInstance{
					Section:   sec,
					Date:      d,
					Stream:    streamFor(sec, d, e.cal),
					CopyIndex: copyIx,
				})
			}
		}
		if e.cal.IsFirstFridayOfMonth(d) {
			saturday := d.AddDate(0, 0, 1)
			if e.cal.Contains(saturday) {
				out = append(out, models.ShiftInstance{
					Section: reinforcementSection,
					Date:    saturday,
					Stream:  models.StreamUrgWeekend,
				})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Stream != out[j].Stream {
			return out[i].Stream < out[j].Stream
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// streamFor classifies a (section, date) instance into one of the three
// enumeration streams: the exact Urg_G_noche_l section is always the
// Urg-lab stream; the Friday Urg_G_tarde-noche_l instance (the Friday half
// of weekend Role 0) is always the weekend bucket stream; any other
// Urg_G_*-prefixed section falls into the weekend bucket stream on
// weekend-bucket dates; everything else is Regular.
func streamFor(sec *models.Section, date time.Time, cal *calendar.Calendar) models.ShiftStream {
	switch {
	case sec.Name == "Urg_G_noche_l":
		return models.StreamUrgLab
	case sec.Name == "Urg_G_tarde-noche_l" && date.Weekday() == time.Friday:
		return models.StreamUrgWeekend
	case strings.HasPrefix(sec.Name, "Urg_G_") && cal.IsWeekendBucket(date):
		return models.StreamUrgWeekend
	default:
		return models.StreamRegular
	}
}
