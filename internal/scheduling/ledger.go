package scheduling

import "github.com/google/uuid"

// MetricsLedger tracks per-worker shift counts for the current period and
// for the running year, updated and rolled back in lockstep with every
// assignment and backtrack (C8).
type MetricsLedger struct {
	period map[uuid.UUID]int
	yearly map[uuid.UUID]int
}

// NewMetricsLedger seeds a ledger with zero counts for every known worker,
// plus any prior yearly counts carried in from earlier runs this year.
func NewMetricsLedger(workerIDs []uuid.UUID, priorYearly map[uuid.UUID]int) *MetricsLedger {
	l := &MetricsLedger{
		period: make(map[uuid.UUID]int, len(workerIDs)),
		yearly: make(map[uuid.UUID]int, len(workerIDs)),
	}
	for _, id := range workerIDs {
		l.period[id] = 0
		l.yearly[id] = priorYearly[id]
	}
	return l
}

// Record increments both the period and yearly counters for workerID.
func (l *MetricsLedger) Record(workerID uuid.UUID) {
	l.period[workerID]++
	l.yearly[workerID]++
}

// Undo decrements both counters, mirroring a backtrack step.
func (l *MetricsLedger) Undo(workerID uuid.UUID) {
	l.period[workerID]--
	l.yearly[workerID]--
}

// PeriodCount returns the number of shifts workerID has in the current run.
func (l *MetricsLedger) PeriodCount(workerID uuid.UUID) int {
	return l.period[workerID]
}

// YearlyCount returns workerID's running total for the year.
func (l *MetricsLedger) YearlyCount(workerID uuid.UUID) int {
	return l.yearly[workerID]
}
