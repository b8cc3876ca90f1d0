package scheduling

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pedishift/scheduler/internal/models"
)

// ScoringPolicy selects how FairnessScorer ranks eligible workers for a
// shift. Sections name their own policy; RunRequest carries a default for
// sections that don't (C4 dispatch, modeled as a tagged variant).
type ScoringPolicy int

const (
	// PolicyPeriodShiftCount is the fallback policy for any section not
	// named by one of the other three: fewest shifts this period wins.
	PolicyPeriodShiftCount ScoringPolicy = iota

	// PolicyLongestAgo picks whoever covered this exact section longest
	// ago (or never). Used for UCI_G_festivo. Tie-break: name ascending.
	PolicyLongestAgo

	// PolicyLongestAgoByYoungestAge is PolicyLongestAgo with ties broken
	// in favor of the younger worker (highest birth year) before name.
	// Used for the Urg_G_noche_l/festivo_mañana/festivo_noche/
	// refuerzo_fyf sections.
	PolicyLongestAgoByYoungestAge

	// PolicyUCIVersatility is the UCI_G_lab scoring policy: a
	// versatility-weighted blend of recent UCI load, recent overall
	// load, recent hours and period load.
	PolicyUCIVersatility
)

// UCI versatility scoring coefficients, kept exactly as specified rather
// than re-derived, since they're policy parameters, not magic numbers.
// The two branches apply depending on whether the worker is UCI-only
// (v == 1) or qualified in multiple areas.
const (
	uciOnlyUCoef       = -0.3
	uciOnlyNRecentCoef = -0.3
	uciOnlyHRecentCoef = -0.2
	uciOnlyPeriodCoef  = -0.5

	uciVersatileUCoef       = -0.5
	uciVersatileNRecentCoef = -0.3
	uciVersatileHRecentCoef = -0.2
	uciVersatilePeriodCoef  = -0.2

	otherSectionPeriodCoef = -0.2
)

// versatilityAreas are the areas counted toward v(w) in the UCI_G_lab
// formula. Guardia_Hosp is deliberately excluded: it doesn't contribute
// to the ICU cross-coverage versatility the policy rewards.
var versatilityAreas = []string{"Guardia_UCI", "HEMS", "Coordis", "Guardia_Urg"}

// assignmentEvent is one committed assignment recorded against a worker,
// kept as an append-only-per-branch history so recency queries can be
// windowed by calendar month and undone in LIFO order on backtrack.
type assignmentEvent struct {
	date    time.Time
	section string
	hours   float64
}

// FairnessScorer ranks eligible workers for a shift instance under a
// chosen ScoringPolicy, using the metrics ledger for period load and a
// per-worker assignment history for recency. Grounded on
// find_best_worker_for_shift.
type FairnessScorer struct {
	ledger  *MetricsLedger
	history map[uuid.UUID][]assignmentEvent
}

// NewFairnessScorer builds a scorer backed by ledger.
func NewFairnessScorer(ledger *MetricsLedger) *FairnessScorer {
	return &FairnessScorer{
		ledger:  ledger,
		history: make(map[uuid.UUID][]assignmentEvent),
	}
}

// RecordAssignment appends shift to workerID's assignment history. Call
// this alongside MetricsLedger.Record, immediately after committing the
// Assignment.
func (f *FairnessScorer) RecordAssignment(workerID uuid.UUID, shift models.ShiftInstance) {
	f.history[workerID] = append(f.history[workerID], assignmentEvent{
		date:    shift.Date,
		section: shift.Section.Name,
		hours:   shift.Section.ShiftHours,
	})
}

// Undo removes the most recently recorded event for workerID, mirroring
// BacktrackingSearch's LIFO backtrack order. Calling Undo more times than
// RecordAssignment was called for workerID is a no-op.
func (f *FairnessScorer) Undo(workerID uuid.UUID) {
	events := f.history[workerID]
	if len(events) == 0 {
		return
	}
	f.history[workerID] = events[:len(events)-1]
}

// daysSinceLastAssignment returns how long ago workerID last held
// sectionName, or a large constant if never.
func (f *FairnessScorer) daysSinceLastAssignment(workerID uuid.UUID, sectionName string, asOf time.Time) float64 {
	var last time.Time
	found := false
	for _, e := range f.history[workerID] {
		if e.section != sectionName {
			continue
		}
		if !found || e.date.After(last) {
			last = e.date
			found = true
		}
	}
	if !found {
		return 1 << 20 // never assigned: treat as longest-ago possible
	}
	return asOf.Sub(last).Hours() / 24
}

// monthWindow reports whether date falls in the calendar month of asOf
// or the one immediately before it — the "prior-plus-current month"
// window the UCI_G_lab formula and the n_recent counter use (the period
// shift count comes from MetricsLedger instead).
func monthWindow(date, asOf time.Time) bool {
	y, m, _ := asOf.Date()
	cur := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	prev := cur.AddDate(0, -1, 0)
	dy, dm, _ := date.Date()
	d := time.Date(dy, dm, 1, 0, 0, 0, 0, time.UTC)
	return d.Equal(cur) || d.Equal(prev)
}

// uciRecent returns u(w) and h_recent(w): the count and summed hours of
// workerID's UCI_G_* assignments within the current-plus-previous month.
func (f *FairnessScorer) uciRecent(workerID uuid.UUID, asOf time.Time) (count int, hours float64) {
	for _, e := range f.history[workerID] {
		if !strings.HasPrefix(e.section, "UCI_G_") {
			continue
		}
		if !monthWindow(e.date, asOf) {
			continue
		}
		count++
		hours += e.hours
	}
	return
}

// nRecent returns n_recent(w): the count of all of workerID's
// assignments, any section, within the current-plus-previous month.
func (f *FairnessScorer) nRecent(workerID uuid.UUID, asOf time.Time) int {
	count := 0
	for _, e := range f.history[workerID] {
		if monthWindow(e.date, asOf) {
			count++
		}
	}
	return count
}

// versatility computes v(w): the count of {Guardia_UCI, HEMS, Coordis,
// Guardia_Urg} the worker is qualified in, clamped to at least 1 (every
// worker eligible for a UCI_G_lab shift is, by definition, qualified for
// Guardia_UCI).
func versatility(w *models.Worker) int {
	count := 0
	for _, a := range versatilityAreas {
		if w.CanWorkInArea(a) {
			count++
		}
	}
	if count < 1 {
		count = 1
	}
	return count
}

// Best returns the eligible worker with the lowest cost under policy.
// Ties are broken by the policy's own tie-break (youngest-first for the
// Urg policies) and finally by worker name ascending, so repeated runs
// over the same input are reproducible regardless of map/slice order.
func (f *FairnessScorer) Best(candidates []*models.Worker, shift models.ShiftInstance, policy ScoringPolicy) *models.Worker {
	if len(candidates) == 0 {
		return nil
	}
	type scored struct {
		worker *models.Worker
		cost   float64
	}
	scores := make([]scored, len(candidates))
	for i, w := range candidates {
		scores[i] = scored{worker: w, cost: f.cost(w, shift, policy)}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].cost != scores[j].cost {
			return scores[i].cost < scores[j].cost
		}
		if policy == PolicyLongestAgoByYoungestAge && scores[i].worker.BirthYear != scores[j].worker.BirthYear {
			return scores[i].worker.BirthYear > scores[j].worker.BirthYear
		}
		return scores[i].worker.Name < scores[j].worker.Name
	})
	return scores[0].worker
}

// cost converts a policy's "pick the maximum score" rule into "pick the
// minimum cost" by negating it, so Best's single sort order serves every
// policy.
func (f *FairnessScorer) cost(w *models.Worker, shift models.ShiftInstance, policy ScoringPolicy) float64 {
	switch policy {
	case PolicyLongestAgo, PolicyLongestAgoByYoungestAge:
		return -f.daysSinceLastAssignment(w.ID, shift.Section.Name, shift.Date)
	case PolicyUCIVersatility:
		v := versatility(w)
		u, hRecent := f.uciRecent(w.ID, shift.Date)
		n := float64(f.nRecent(w.ID, shift.Date))
		period := float64(f.ledger.PeriodCount(w.ID))
		var score float64
		if v == 1 {
			score = uciOnlyUCoef*float64(u)/float64(v) + uciOnlyNRecentCoef*n + uciOnlyHRecentCoef*hRecent + uciOnlyPeriodCoef*period
		} else {
			score = uciVersatileUCoef*float64(u)/float64(v) + uciVersatileNRecentCoef*n + uciVersatileHRecentCoef*hRecent + uciVersatilePeriodCoef*period
		}
		return -score
	default: // PolicyPeriodShiftCount
		period := float64(f.ledger.PeriodCount(w.ID))
		return -(otherSectionPeriodCoef * period)
	}
}
