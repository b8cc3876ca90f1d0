package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pedishift/scheduler/internal/models"
)

func TestBacktrackingSearch_FillsSingleShift(t *testing.T) {
	w := newTestWorker()
	sec := newTestSection("Urg-lab", []time.Weekday{time.Monday}, 1)
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	shift := models.ShiftInstance{Section: sec, Date: date, Stream: models.StreamUrgLab}

	avail := NewAvailabilityMatrices([]*models.Worker{w}, []time.Time{date})
	elig := NewEligibilityOracle(avail)
	ledger := NewMetricsLedger([]uuid.UUID{w.ID}, nil)
	fairness := NewFairnessScorer(ledger)
	log := NewSearchLog(func() time.Time { return date })

	search := NewBacktrackingSearch(avail, elig, fairness, ledger, log, nil)
	assignments, err := search.Run(context.Background(), []models.ShiftInstance{shift}, []*models.Worker{w}, PolicyPeriodShiftCount, nil, nil)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(assignments) != 1 || assignments[0].WorkerID != w.ID {
		t.Fatalf("expected single assignment to worker %s, got %v", w.ID, assignments)
	}
}

func TestBacktrackingSearch_BacktracksWhenLaterShiftUnfillable(t *testing.T) {
	// Only one eligible worker overall, but two shifts on the same date
	// that both need that same worker: the search must recognize the
	// second instance is unfillable and report Infeasible rather than
	// silently double-booking.
	w := newTestWorker()
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	secA := newTestSection("Urg-lab", []time.Weekday{time.Monday}, 1)
	secB := newTestSection("Urg-lab-b", []time.Weekday{time.Monday}, 1)

	instances := []models.ShiftInstance{
		{Section: secA, Date: date, Stream: models.StreamUrgLab},
		{Section: secB, Date: date, Stream: models.StreamUrgLab},
	}

	avail := NewAvailabilityMatrices([]*models.Worker{w}, []time.Time{date})
	elig := NewEligibilityOracle(avail)
	ledger := NewMetricsLedger([]uuid.UUID{w.ID}, nil)
	fairness := NewFairnessScorer(ledger)
	log := NewSearchLog(func() time.Time { return date })

	search := NewBacktrackingSearch(avail, elig, fairness, ledger, log, nil)
	_, err := search.Run(context.Background(), instances, []*models.Worker{w}, PolicyPeriodShiftCount, nil, nil)
	if err == nil {
		t.Fatal("expected Infeasible error when the only worker is needed twice on the same date")
	}
	if _, ok := err.(*InfeasibleError); !ok {
		t.Fatalf("expected *InfeasibleError, got %T: %v", err, err)
	}
}

func TestBacktrackingSearch_RespectsContextCancellation(t *testing.T) {
	w := newTestWorker()
	sec := newTestSection("Urg-lab", []time.Weekday{time.Monday}, 1)
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	shift := models.ShiftInstance{Section: sec, Date: date, Stream: models.StreamUrgLab}

	avail := NewAvailabilityMatrices([]*models.Worker{w}, []time.Time{date})
	elig := NewEligibilityOracle(avail)
	ledger := NewMetricsLedger([]uuid.UUID{w.ID}, nil)
	fairness := NewFairnessScorer(ledger)
	log := NewSearchLog(func() time.Time { return date })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	search := NewBacktrackingSearch(avail, elig, fairness, ledger, log, nil)
	_, err := search.Run(ctx, []models.ShiftInstance{shift}, []*models.Worker{w}, PolicyPeriodShiftCount, nil, nil)
	if _, ok := err.(*CancelledError); !ok {
		t.Fatalf("expected *CancelledError, got %T: %v", err, err)
	}
}
