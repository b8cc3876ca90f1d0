package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pedishift/scheduler/internal/models"
)

func newTestWorker(avoid ...time.Weekday) *models.Worker {
	return &models.Worker{
		ID:        uuid.New(),
		Name:      "Test Worker",
		Category:  models.CategoryAttending,
		State:     models.WorkerActive,
		Areas:     []string{"Guardia_Urg"},
		AvoidDays: avoid,
	}
}

func TestAvailabilityMatrices_InitialState(t *testing.T) {
	w := newTestWorker(time.Monday)
	dates := []time.Time{
		time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), // Monday
		time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), // Tuesday
	}
	avail := NewAvailabilityMatrices([]*models.Worker{w}, dates)

	if avail.GuardAvailable(w.ID, dates[0]) {
		t.Error("expected Monday to be unavailable due to AvoidDays")
	}
	if !avail.GuardAvailable(w.ID, dates[1]) {
		t.Error("expected Tuesday to be available")
	}
}

func TestAvailabilityMatrices_MarkAssignedAndRestore(t *testing.T) {
	w := newTestWorker()
	date := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	avail := NewAvailabilityMatrices([]*models.Worker{w}, []time.Time{date})

	snapshot := avail.Snapshot()
	avail.MarkAssigned(w.ID, date)

	if avail.GuardAvailable(w.ID, date) {
		t.Error("expected worker to be unavailable after MarkAssigned")
	}
	if avail.RegularAvailable(w.ID, date) {
		t.Error("expected regular availability to also flip false (dual update)")
	}

	avail.RestoreTo(snapshot)

	if !avail.GuardAvailable(w.ID, date) {
		t.Error("expected guard availability restored after RestoreTo")
	}
	if !avail.RegularAvailable(w.ID, date) {
		t.Error("expected regular availability restored after RestoreTo")
	}
}

func TestAvailabilityMatrices_RestoreIsNoOpWhenNothingChanged(t *testing.T) {
	w := newTestWorker()
	date := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	avail := NewAvailabilityMatrices([]*models.Worker{w}, []time.Time{date})

	snapshot := avail.Snapshot()
	avail.RestoreTo(snapshot)

	if !avail.GuardAvailable(w.ID, date) {
		t.Error("expected availability unchanged when nothing was marked")
	}
}
