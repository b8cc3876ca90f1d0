package scheduling

import (
	"testing"

	"github.com/google/uuid"
)

func TestMetricsLedger_RecordAndUndo(t *testing.T) {
	w1, w2 := uuid.New(), uuid.New()
	ledger := NewMetricsLedger([]uuid.UUID{w1, w2}, map[uuid.UUID]int{w1: 5})

	if got := ledger.YearlyCount(w1); got != 5 {
		t.Fatalf("expected prior yearly count 5, got %d", got)
	}

	ledger.Record(w1)
	if got := ledger.PeriodCount(w1); got != 1 {
		t.Errorf("expected period count 1, got %d", got)
	}
	if got := ledger.YearlyCount(w1); got != 6 {
		t.Errorf("expected yearly count 6, got %d", got)
	}

	ledger.Undo(w1)
	if got := ledger.PeriodCount(w1); got != 0 {
		t.Errorf("expected period count 0 after undo, got %d", got)
	}
	if got := ledger.YearlyCount(w1); got != 5 {
		t.Errorf("expected yearly count 5 after undo, got %d", got)
	}
}

func TestMetricsLedger_IndependentWorkers(t *testing.T) {
	w1, w2 := uuid.New(), uuid.New()
	ledger := NewMetricsLedger([]uuid.UUID{w1, w2}, nil)

	ledger.Record(w1)
	ledger.Record(w1)
	ledger.Record(w2)

	if got := ledger.PeriodCount(w1); got != 2 {
		t.Errorf("expected w1 period count 2, got %d", got)
	}
	if got := ledger.PeriodCount(w2); got != 1 {
		t.Errorf("expected w2 period count 1, got %d", got)
	}
}
