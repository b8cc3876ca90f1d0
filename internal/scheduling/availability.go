package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/pedishift/scheduler/internal/models"
)

// matrixKind distinguishes the two availability matrices the original
// initializes separately: guard-duty availability and daytime regular-duty
// availability. NewAvailabilityMatrices seeds both from the same per-date
// value (WeekdaysWorked is not consulted) and MarkAssigned clears both
// together, so the two matrices always hold the same values.
type matrixKind int

const (
	matrixGuard matrixKind = iota
	matrixRegular
)

type change struct {
	kind matrixKind
	key  string
	prev bool
}

// AvailabilityMatrices holds the dense per-worker-per-date availability
// state for both guard and regular duty, plus a change log so the
// backtracking search can undo a tentative assignment in O(1) instead of
// copying the whole matrix (C5). Grounded on
// initialize_availability_matrix / initialize_regular_availability_matrix /
// assign_shift_with_dual_availability.
type AvailabilityMatrices struct {
	guard   map[string]bool
	regular map[string]bool
	log     []change
}

func matrixKey(workerID uuid.UUID, date time.Time) string {
	return workerID.String() + "|" + date.Format("2006-01-02")
}

// NewAvailabilityMatrices seeds both matrices to true for every
// worker/date pair, then applies each worker's OOO days and avoid-days as
// an initial false.
func NewAvailabilityMatrices(workers []*models.Worker, dates []time.Time) *AvailabilityMatrices {
	a := &AvailabilityMatrices{
		guard:   make(map[string]bool, len(workers)*len(dates)),
		regular: make(map[string]bool, len(workers)*len(dates)),
	}
	for _, w := range workers {
		for _, d := range dates {
			available := w.CanWorkOnDate(d)
			a.guard[matrixKey(w.ID, d)] = available
			a.regular[matrixKey(w.ID, d)] = available
		}
	}
	return a
}

// GuardAvailable reports whether workerID may take a guard shift on date.
func (a *AvailabilityMatrices) GuardAvailable(workerID uuid.UUID, date time.Time) bool {
	return a.guard[matrixKey(workerID, date)]
}

// RegularAvailable reports whether workerID is free for regular duty on date.
func (a *AvailabilityMatrices) RegularAvailable(workerID uuid.UUID, date time.Time) bool {
	return a.regular[matrixKey(workerID, date)]
}

func (a *AvailabilityMatrices) set(kind matrixKind, workerID uuid.UUID, date time.Time, value bool) {
	key := matrixKey(workerID, date)
	m := a.matrixFor(kind)
	prev := m[key]
	if prev == value {
		return
	}
	a.log = append(a.log, change{kind: kind, key: key, prev: prev})
	m[key] = value
}

func (a *AvailabilityMatrices) matrixFor(kind matrixKind) map[string]bool {
	if kind == matrixGuard {
		return a.guard
	}
	return a.regular
}

// MarkAssigned flips both matrices to false for workerID on date, exactly
// as assign_shift_with_dual_availability updates both matrices together.
func (a *AvailabilityMatrices) MarkAssigned(workerID uuid.UUID, date time.Time) {
	a.set(matrixGuard, workerID, date, false)
	a.set(matrixRegular, workerID, date, false)
}

// Snapshot returns a marker for the current position in the change log.
func (a *AvailabilityMatrices) Snapshot() int {
	return len(a.log)
}

// RestoreTo undoes every change recorded since marker, in reverse order.
func (a *AvailabilityMatrices) RestoreTo(marker int) {
	for i := len(a.log) - 1; i >= marker; i-- {
		c := a.log[i]
		a.matrixFor(c.kind)[c.key] = c.prev
	}
	a.log = a.log[:marker]
}
