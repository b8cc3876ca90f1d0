package scheduling

import (
	"context"

	"github.com/google/uuid"

	"github.com/pedishift/scheduler/internal/models"
)

// CarryOverRule returns, in preference order, worker IDs that should be
// tried first for a shift instance because of continuity with a nearby
// prior assignment (the Monday-after-weekend Urg-lab carry-over). It
// returns nil for instances the rule doesn't apply to. Grounded on the
// Monday carry-over special case in assign_period_shifts_with_backtracking
// lines 853-877.
type CarryOverRule func(shift models.ShiftInstance, priorAssignments []models.Assignment, workers []*models.Worker) []uuid.UUID

// BacktrackingSearch fills Regular and Urg-lab stream shift instances one
// at a time, undoing and retrying with a different worker whenever a
// later instance turns out to be unfillable (C6). It is the only
// component in the engine that can fail the whole run with
// InfeasibleError, or abort early with a ConfigurationError when no
// worker could ever satisfy a shift regardless of availability; the
// weekend Urg rotation (C7) never backtracks across it and degrades to
// per-role UnassignableNotice instead.
type BacktrackingSearch struct {
	avail     *AvailabilityMatrices
	elig      *EligibilityOracle
	fairness  *FairnessScorer
	ledger    *MetricsLedger
	log       *SearchLog
	carryOver CarryOverRule
}

// NewBacktrackingSearch builds a search over the given collaborators.
// carryOver may be nil to disable the Monday continuity preference.
func NewBacktrackingSearch(avail *AvailabilityMatrices, elig *EligibilityOracle, fairness *FairnessScorer, ledger *MetricsLedger, log *SearchLog, carryOver CarryOverRule) *BacktrackingSearch {
	return &BacktrackingSearch{
		avail:     avail,
		elig:      elig,
		fairness:  fairness,
		ledger:    ledger,
		log:       log,
		carryOver: carryOver,
	}
}

// Run attempts to fill every instance in order, returning the assignments
// on success. On exhaustion it returns InfeasibleError; on context
// cancellation it returns CancelledError; on a shift no worker could ever
// fill it returns ConfigurationError. Either way no partial assignments
// are returned (§7 "no partial write").
func (b *BacktrackingSearch) Run(ctx context.Context, instances []models.ShiftInstance, workers []*models.Worker, defaultPolicy ScoringPolicy, priorWeekendAssignments []models.Assignment, sectionPolicy map[string]ScoringPolicy) ([]models.Assignment, error) {
	assigned := make([]models.Assignment, 0, len(instances))
	ok, err := b.solve(ctx, instances, 0, workers, defaultPolicy, priorWeekendAssignments, sectionPolicy, &assigned)
	if err != nil {
		return nil, err
	}
	if !ok {
		if ctx.Err() != nil {
			return nil, &CancelledError{}
		}
		return nil, &InfeasibleError{}
	}
	return assigned, nil
}

func (b *BacktrackingSearch) solve(ctx context.Context, instances []models.ShiftInstance, idx int, workers []*models.Worker, defaultPolicy ScoringPolicy, priorWeekendAssignments []models.Assignment, sectionPolicy map[string]ScoringPolicy, assigned *[]models.Assignment) (bool, error) {
	select {
	case <-ctx.Done():
		return false, nil
	default:
	}

	if idx >= len(instances) {
		return true, nil
	}

	shift := instances[idx]
	frontierKey := shift.Key()
	policy := defaultPolicy
	if p, ok := sectionPolicy[shift.Section.Name]; ok {
		policy = p
	}

	b.log.record(ActionAttempt, frontierKey, uuid.Nil, shift.Stream.String())

	ordered := b.orderedCandidates(shift, workers, policy, priorWeekendAssignments)
	anyEligible := false

	for _, candidate := range ordered {
		if b.elig.WasTried(frontierKey, candidate.ID) {
			continue
		}
		if !b.elig.Eligible(candidate, shift, nil) {
			continue
		}
		anyEligible = true
		b.log.record(ActionEligible, frontierKey, candidate.ID, "")

		snapshot := b.avail.Snapshot()
		b.avail.MarkAssigned(candidate.ID, shift.Date)
		b.ledger.Record(candidate.ID)
		b.fairness.RecordAssignment(candidate.ID, shift)
		*assigned = append(*assigned, models.Assignment{
			SectionName: shift.Section.Name,
			Date:        shift.Date,
			WorkerID:    candidate.ID,
		})
		b.log.record(ActionAssign, frontierKey, candidate.ID, "")

		ok, err := b.solve(ctx, instances, idx+1, workers, defaultPolicy, priorWeekendAssignments, sectionPolicy, assigned)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}

		// Backtrack: undo this tentative assignment and never retry the
		// same worker at this exact frontier again.
		*assigned = (*assigned)[:len(*assigned)-1]
		b.ledger.Undo(candidate.ID)
		b.fairness.Undo(candidate.ID)
		b.avail.RestoreTo(snapshot)
		b.elig.MarkTried(frontierKey, candidate.ID)
		b.log.record(ActionBacktrack, frontierKey, candidate.ID, "")

		if ctx.Err() != nil {
			return false, nil
		}
	}

	if !anyEligible {
		b.log.record(ActionNoEligible, frontierKey, uuid.Nil, "")
		if !anyWorkerCouldEverSatisfy(workers, shift) {
			return false, &ConfigurationError{Section: shift.Section.Name, Weekday: shift.Date.Weekday()}
		}
	}
	b.elig.ResetFrontier(frontierKey)
	return false, nil
}

// anyWorkerCouldEverSatisfy reports whether some worker in the pool
// could, in principle, ever fill shift — checking only rules 1
// (Active), 2 (area qualification) and 4 (weekday-assignment rule) and
// ignoring availability, the minimum-staffing rule and the tried memo.
// When this is false for every candidate at a frontier with no eligible
// worker, the run is non-retriably misconfigured rather than merely
// exhausted.
func anyWorkerCouldEverSatisfy(workers []*models.Worker, shift models.ShiftInstance) bool {
	area := shift.Section.Area()
	for _, w := range workers {
		if w.State != models.WorkerActive {
			continue
		}
		if !w.CanWorkInArea(area) {
			continue
		}
		if !w.CanDoSectionOnDay(shift.Section.Name, area, shift.Date) {
			continue
		}
		return true
	}
	return false
}

// orderedCandidates ranks workers best-first for shift, with any
// carry-over preference spliced to the front.
func (b *BacktrackingSearch) orderedCandidates(shift models.ShiftInstance, workers []*models.Worker, policy ScoringPolicy, priorWeekendAssignments []models.Assignment) []*models.Worker {
	byID := make(map[uuid.UUID]*models.Worker, len(workers))
	for _, w := range workers {
		byID[w.ID] = w
	}

	var preferred []*models.Worker
	if b.carryOver != nil {
		for _, id := range b.carryOver(shift, priorWeekendAssignments, workers) {
			if w, ok := byID[id]; ok {
				preferred = append(preferred, w)
			}
		}
	}

	rest := make([]*models.Worker, 0, len(workers))
	preferredSet := make(map[uuid.UUID]bool, len(preferred))
	for _, w := range preferred {
		preferredSet[w.ID] = true
	}
	for _, w := range workers {
		if !preferredSet[w.ID] {
			rest = append(rest, w)
		}
	}

	ranked := b.rankByFairness(rest, shift, policy)
	return append(preferred, ranked...)
}

func (b *BacktrackingSearch) rankByFairness(workers []*models.Worker, shift models.ShiftInstance, policy ScoringPolicy) []*models.Worker {
	ordered := make([]*models.Worker, 0, len(workers))
	remaining := append([]*models.Worker(nil), workers...)
	for len(remaining) > 0 {
		best := b.fairness.Best(remaining, shift, policy)
		if best == nil {
			break
		}
		ordered = append(ordered, best)
		for i, w := range remaining {
			if w.ID == best.ID {
				remaining = append(remaining[:i], remaining[i+1:]...)
				break
			}
		}
	}
	return ordered
}
