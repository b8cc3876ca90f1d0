package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pedishift/scheduler/internal/models"
)

func TestFairnessScorer_PeriodShiftCountPrefersFewerShifts(t *testing.T) {
	w1, w2 := newTestWorker(), newTestWorker()
	ledger := NewMetricsLedger([]uuid.UUID{w1.ID, w2.ID}, nil)
	ledger.Record(w1.ID)
	scorer := NewFairnessScorer(ledger)

	sec := newTestSection("Urg_G_noche_l", []time.Weekday{time.Monday}, 1)
	shift := models.ShiftInstance{Section: sec, Date: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)}

	best := scorer.Best([]*models.Worker{w1, w2}, shift, PolicyPeriodShiftCount)
	if best.ID != w2.ID {
		t.Errorf("expected worker with fewer shifts to win, got %s", best.Name)
	}
}

func TestFairnessScorer_LongestAgoPrefersNeverAssigned(t *testing.T) {
	w1, w2 := newTestWorker(), newTestWorker()
	ledger := NewMetricsLedger([]uuid.UUID{w1.ID, w2.ID}, nil)
	scorer := NewFairnessScorer(ledger)

	sec := newTestSection("Urg_G_noche_l", []time.Weekday{time.Monday}, 1)
	date := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	shift := models.ShiftInstance{Section: sec, Date: date}
	priorShift := models.ShiftInstance{Section: sec, Date: date.AddDate(0, 0, -1)}

	scorer.RecordAssignment(w1.ID, priorShift)

	best := scorer.Best([]*models.Worker{w1, w2}, shift, PolicyLongestAgo)
	if best.ID != w2.ID {
		t.Error("expected never-assigned worker to be preferred under longest-ago policy")
	}
}

func TestFairnessScorer_Best_DeterministicTieBreak(t *testing.T) {
	w1, w2 := newTestWorker(), newTestWorker()
	w1.Name = "Ana Gomez"
	w2.Name = "Bruno Diaz"
	ledger := NewMetricsLedger([]uuid.UUID{w1.ID, w2.ID}, nil)
	scorer := NewFairnessScorer(ledger)
	sec := newTestSection("Urg_G_noche_l", []time.Weekday{time.Monday}, 1)
	shift := models.ShiftInstance{Section: sec, Date: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)}

	first := scorer.Best([]*models.Worker{w1, w2}, shift, PolicyPeriodShiftCount)
	second := scorer.Best([]*models.Worker{w2, w1}, shift, PolicyPeriodShiftCount)
	if first.ID != second.ID {
		t.Error("expected tie-break to be independent of input order")
	}
	if first.Name != "Ana Gomez" {
		t.Error("expected name-ascending tie-break to prefer Ana Gomez over Bruno Diaz")
	}
}

func TestFairnessScorer_Best_EmptyCandidates(t *testing.T) {
	ledger := NewMetricsLedger(nil, nil)
	scorer := NewFairnessScorer(ledger)
	sec := newTestSection("Urg_G_noche_l", []time.Weekday{time.Monday}, 1)
	shift := models.ShiftInstance{Section: sec, Date: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)}

	if got := scorer.Best(nil, shift, PolicyPeriodShiftCount); got != nil {
		t.Errorf("expected nil for empty candidate list, got %v", got)
	}
}
