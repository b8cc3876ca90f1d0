package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/pedishift/scheduler/internal/models"
)

// EligibilityOracle decides whether a worker may fill a shift instance,
// combining area qualification, weekday rules, the minimum-staffing
// invariant, and a tried-combinations memo that prevents the backtracking
// search from re-exploring a worker it already rejected at the same
// search frontier (C3). Grounded on the inlined checks in
// assign_period_shifts_with_backtracking lines 519-556 and
// check_minimum_staffing.
type EligibilityOracle struct {
	avail      *AvailabilityMatrices
	tried      map[string]map[uuid.UUID]bool
	workers    []*models.Worker
	horizonEnd time.Time
}

// NewEligibilityOracle builds an oracle backed by avail. The minimum-
// staffing rule stays inactive until ConfigureMinimumStaffing is called
// with the full worker pool, so unit tests that exercise a single shift
// in isolation don't need to wire it up.
func NewEligibilityOracle(avail *AvailabilityMatrices) *EligibilityOracle {
	return &EligibilityOracle{
		avail: avail,
		tried: make(map[string]map[uuid.UUID]bool),
	}
}

// ConfigureMinimumStaffing supplies the worker pool and horizon end date
// the minimum-staffing rule (rule 5) needs: it must know every Active
// worker in the shift's area to count how many remain on regular duty,
// and where the horizon ends to know whether date+1 is even in scope.
func (e *EligibilityOracle) ConfigureMinimumStaffing(workers []*models.Worker, horizonEnd time.Time) {
	e.workers = workers
	e.horizonEnd = horizonEnd
}

// Eligible reports whether worker may be assigned to shift, given the
// workers already holding this same shift instance (for multi-staff
// sections). It does not itself check the tried-combinations memo — call
// WasTried separately in the search loop, since a worker can be eligible
// in principle yet already ruled out at this particular frontier.
func (e *EligibilityOracle) Eligible(worker *models.Worker, shift models.ShiftInstance, alreadyAssigned []uuid.UUID) bool {
	area := shift.Section.Area()
	if worker.State != models.WorkerActive {
		return false
	}
	if !worker.CanWorkInArea(area) {
		return false
	}
	if !worker.CanWorkOnDate(shift.Date) {
		return false
	}
	if !worker.CanDoSectionOnDay(shift.Section.Name, area, shift.Date) {
		return false
	}
	if !e.avail.GuardAvailable(worker.ID, shift.Date) {
		return false
	}
	for _, id := range alreadyAssigned {
		if id == worker.ID {
			return false
		}
	}
	if shift.Stream == models.StreamRegular && isMonThu(shift.Date) {
		if !e.satisfiesMinimumStaffing(worker, area, shift.Date) {
			return false
		}
	}
	return true
}

func isMonThu(date time.Time) bool {
	wd := date.Weekday()
	return wd >= time.Monday && wd <= time.Thursday
}

// satisfiesMinimumStaffing implements rule 5: assigning worker must leave
// at least 2 OTHER Active workers in the same area with regular_avail
// true on both date and date+1 (when date+1 is still inside the
// horizon). Inactive when ConfigureMinimumStaffing was never called.
func (e *EligibilityOracle) satisfiesMinimumStaffing(worker *models.Worker, area string, date time.Time) bool {
	if len(e.workers) == 0 {
		return true
	}
	if !e.enoughRegularAvailable(worker, area, date) {
		return false
	}
	nextDay := date.AddDate(0, 0, 1)
	if !nextDay.After(e.horizonEnd) {
		if !e.enoughRegularAvailable(worker, area, nextDay) {
			return false
		}
	}
	return true
}

func (e *EligibilityOracle) enoughRegularAvailable(worker *models.Worker, area string, date time.Time) bool {
	count := 0
	for _, v := range e.workers {
		if v.ID == worker.ID {
			continue
		}
		if v.State != models.WorkerActive {
			continue
		}
		if !v.CanWorkInArea(area) {
			continue
		}
		if e.avail.RegularAvailable(v.ID, date) {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return count >= 2
}

// WasTried reports whether workerID has already been rejected for the
// given search frontier key (BacktrackingSearch passes the shift
// instance key).
func (e *EligibilityOracle) WasTried(frontierKey string, workerID uuid.UUID) bool {
	return e.tried[frontierKey][workerID]
}

// MarkTried records workerID as rejected at frontierKey, so the search
// does not re-attempt the identical combination after a backtrack.
func (e *EligibilityOracle) MarkTried(frontierKey string, workerID uuid.UUID) {
	if e.tried[frontierKey] == nil {
		e.tried[frontierKey] = make(map[uuid.UUID]bool)
	}
	e.tried[frontierKey][workerID] = true
}

// ResetFrontier clears the tried-combinations memo for frontierKey.
// BacktrackingSearch calls it when every candidate at a shift instance is
// exhausted and the search retreats to the previous instance, so a later
// revisit of that instance starts with a fresh memo.
func (e *EligibilityOracle) ResetFrontier(frontierKey string) {
	delete(e.tried, frontierKey)
}
