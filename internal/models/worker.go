package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkerCategory is the professional category of a worker. It is
// informational: the fairness scorer ranks by BirthYear and area
// eligibility checks Areas, and neither reads the category.
type WorkerCategory string

const (
	CategoryAttending  WorkerCategory = "attending"
	CategoryResident   WorkerCategory = "resident"
	CategoryNurse      WorkerCategory = "nurse"
	CategoryAuxiliary  WorkerCategory = "auxiliary"
)

// IsValid reports whether c is one of the known categories.
func (c WorkerCategory) IsValid() bool {
	switch c {
	case CategoryAttending, CategoryResident, CategoryNurse, CategoryAuxiliary:
		return true
	}
	return false
}

func (c WorkerCategory) String() string {
	return string(c)
}

// WorkerState mirrors the original "Alta/Baja" active/inactive flag.
type WorkerState string

const (
	WorkerActive   WorkerState = "active"
	WorkerInactive WorkerState = "inactive"
)

// IsValid reports whether s is a known state.
func (s WorkerState) IsValid() bool {
	return s == WorkerActive || s == WorkerInactive
}

// Worker is a person eligible to hold on-call shifts.
type Worker struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name" validate:"required"`
	Initials  string         `json:"initials" validate:"required,max=6"`
	BirthYear int            `json:"birth_year" validate:"required,gt=1900"`
	Category  WorkerCategory `json:"category" validate:"required"`
	State     WorkerState    `json:"state"`
	Phone     string         `json:"phone,omitempty"`

	// Areas this worker is qualified to cover, drawn from the fixed set
	// {HEMS, Coordis, Guardia_UCI, Guardia_Urg, Guardia_Hosp}.
	Areas []string `json:"areas"`

	// AvoidDays are weekdays the worker should never be scheduled on,
	// regardless of area.
	AvoidDays []time.Weekday `json:"avoid_days"`

	// DaysAssigned restricts, per area, which weekdays this worker may
	// cover one of the five weekday-restricted sections on (see
	// weekdayRestrictedSections). A worker with no entry for an area is
	// ineligible for that area's restricted sections on Mon-Thu.
	DaysAssigned map[string][]time.Weekday `json:"days_assigned"`

	AvailableWorkHours  int `json:"available_work_hours"`
	AvailableGuardHours int `json:"available_guard_hours"`

	// OOODays are specific calendar dates the worker is out of office
	// (vacation, personal leave) independent of the holiday calendar.
	OOODays []time.Time `json:"ooo_days"`

	// WorkloadPercent is the worker's contracted full-time-equivalent
	// percentage (100 = full-time). It is stored and loaded with the
	// worker; the scheduling engine does not read it.
	WorkloadPercent int `json:"workload_percent"`

	// WeekdaysWorked are the weekdays this worker is on daytime duty,
	// independent of on-call shifts.
	WeekdaysWorked []time.Weekday `json:"weekdays_worked"`
}

// IsOutOfOffice reports whether date falls on one of the worker's OOODays.
func (w *Worker) IsOutOfOffice(date time.Time) bool {
	for _, d := range w.OOODays {
		if sameDay(d, date) {
			return true
		}
	}
	return false
}

// CanWorkInArea reports whether the worker is qualified for area.
func (w *Worker) CanWorkInArea(area string) bool {
	for _, a := range w.Areas {
		if a == area {
			return true
		}
	}
	return false
}

// CanWorkOnDate reports whether the worker is generally available on date,
// independent of any particular section.
func (w *Worker) CanWorkOnDate(date time.Time) bool {
	if w.IsOutOfOffice(date) {
		return false
	}
	weekday := date.Weekday()
	for _, d := range w.AvoidDays {
		if d == weekday {
			return false
		}
	}
	return true
}

// weekdayRestrictedSections are the sections whose Mon-Thu coverage is
// gated by a worker's DaysAssigned for the section's required area.
var weekdayRestrictedSections = map[string]bool{
	"UCI_G_lab":        true,
	"Coordis_nocturno": true,
	"Coordis_diurno":   true,
	"HEMS_tarde":       true,
	"Urg_G_noche_l":    true,
}

// CanDoSectionOnDay reports whether the worker may cover sectionName
// (required area requiredArea) on the weekday of date. Only the five
// weekday-restricted sections are gated, and only Mon-Thu; every other
// section/weekday combination is unrestricted by this rule. A worker with
// no DaysAssigned entry for requiredArea is ineligible for a restricted
// section on Mon-Thu, even if the map holds entries for other areas.
func (w *Worker) CanDoSectionOnDay(sectionName, requiredArea string, date time.Time) bool {
	if !weekdayRestrictedSections[sectionName] {
		return true
	}
	weekday := date.Weekday()
	if weekday < time.Monday || weekday > time.Thursday {
		return true
	}
	for _, d := range w.DaysAssigned[requiredArea] {
		if d == weekday {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
