package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pedishift/scheduler/internal/calendar"
	"github.com/pedishift/scheduler/internal/models"
)

// RunRequest is the input to one scheduling run: a horizon, tagged with a
// caller-supplied period identifier (spec §9 resolves the biweekly-period
// open question this way rather than chunking internally), plus the
// fairness policy defaults.
type RunRequest struct {
	PeriodTag string
	Start     time.Time
	End       time.Time
	Location  *time.Location

	// DefaultPolicy is used for any section that doesn't name its own
	// policy in SectionPolicy.
	DefaultPolicy ScoringPolicy

	// SectionPolicy overrides DefaultPolicy for specific section names.
	SectionPolicy map[string]ScoringPolicy

	// CarryOver supplies the Monday-after-weekend continuity preference
	// for the Urg-lab stream. Nil defaults to MondayUrgLabCarryOver.
	CarryOver CarryOverRule

	// FirstFridayWorkerID, when set, names the worker who takes the primary
	// weekend role on the first Friday of every month when no worker named
	// "Violeta Fariña" is in the pool; when she is, she takes it and this
	// field is ignored.
	FirstFridayWorkerID string
}

// Stats is a supplemented, non-core summary of a run's outcome (see
// SPEC_FULL §4): per-worker totals and the count of unfilled instances,
// exposed as a plain value for a caller to render however it likes. CSV
// export itself remains out of scope.
type Stats struct {
	TotalInstances      int
	AssignedInstances   int
	UnassignedInstances int
	PerWorkerCount      map[uuid.UUID]int
}

// RunResult is everything a scheduling run produces.
type RunResult struct {
	Scenario     *models.Scenario
	Assignments  []models.Assignment
	Unassignable []models.UnassignableNotice
	SearchLog    []SearchLogEntry
	Stats        Stats
}

// Engine wires the eight components together into a single Run operation.
type Engine struct {
	store Store
	now   func() time.Time
}

// NewEngine builds an Engine backed by store. now is injectable for tests;
// production callers should pass nil to default to time.Now.
func NewEngine(store Store, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{store: store, now: now}
}

// Run executes one full scheduling pass: load input from the store,
// build the calendar and the eight components, fill the Regular stream,
// run the weekend rotation, fill the Urg-lab stream, and persist the
// result as a new draft Scenario. Commit order follows §5: Regular
// stream, then Urg-weekend bucket order, then Urg-lab. ctx cancellation
// aborts with CancelledError and no partial write (§5, §7).
func (e *Engine) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	workers, err := e.store.LoadWorkers(ctx)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	sections, err := e.store.LoadSections(ctx)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	holidays, err := e.store.LoadHolidays(ctx)
	if err != nil {
		return nil, &StoreError{Err: err}
	}
	priorYearly, err := e.store.PriorYearlyCounts(ctx, req.Start.Year())
	if err != nil {
		return nil, &StoreError{Err: err}
	}

	cal := calendar.New(req.Start, req.End, holidays, req.Location)

	if err := validateConfiguration(sections, workers, cal); err != nil {
		return nil, err
	}

	dates := cal.Dates()
	workerIDs := make([]uuid.UUID, len(workers))
	for i, w := range workers {
		workerIDs[i] = w.ID
	}

	avail := NewAvailabilityMatrices(workers, dates)
	elig := NewEligibilityOracle(avail)
	elig.ConfigureMinimumStaffing(workers, req.End)
	ledger := NewMetricsLedger(workerIDs, priorYearly)
	fairness := NewFairnessScorer(ledger)
	log := NewSearchLog(e.now)

	carryOver := req.CarryOver
	if carryOver == nil {
		carryOver = MondayUrgLabCarryOver
	}

	enumerator := NewShiftEnumerator(cal, sections)
	allInstances := enumerator.Enumerate()

	var regularInstances, urgLabInstances, weekendInstances []models.ShiftInstance
	for _, inst := range allInstances {
		switch inst.Stream {
		case models.StreamUrgWeekend:
			weekendInstances = append(weekendInstances, inst)
		case models.StreamUrgLab:
			urgLabInstances = append(urgLabInstances, inst)
		default:
			regularInstances = append(regularInstances, inst)
		}
	}

	search := NewBacktrackingSearch(avail, elig, fairness, ledger, log, carryOver)

	assignments, err := search.Run(ctx, regularInstances, workers, req.DefaultPolicy, nil, req.SectionPolicy)
	if err != nil {
		return nil, err
	}

	rotation := NewWeekendUrgRotation(cal, avail, elig, fairness)
	weekendAssignments, unassignable := rotation.Run(weekendInstances, workers, req.FirstFridayWorkerID)
	for _, a := range weekendAssignments {
		if a.WorkerID != uuid.Nil {
			ledger.Record(a.WorkerID)
		}
	}
	assignments = append(assignments, weekendAssignments...)

	urgLabAssignments, err := search.Run(ctx, urgLabInstances, workers, req.DefaultPolicy, weekendAssignments, req.SectionPolicy)
	if err != nil {
		return nil, err
	}
	assignments = append(assignments, urgLabAssignments...)

	scenario := &models.Scenario{
		ID:        uuid.New(),
		PeriodTag: req.PeriodTag,
		Status:    models.ScenarioDraft,
		CreatedAt: e.now(),
	}

	stats := buildStats(len(allInstances), assignments, workerIDs)

	storedScenario, err := e.store.SaveScenario(ctx, scenario, assignments, unassignable, log.Entries())
	if err != nil {
		return nil, &StoreError{Err: err}
	}

	return &RunResult{
		Scenario:     storedScenario,
		Assignments:  assignments,
		Unassignable: unassignable,
		SearchLog:    log.Entries(),
		Stats:        stats,
	}, nil
}

// validateConfiguration rejects a horizon up front when a section has no
// worker who could ever be eligible for it on some weekday it runs,
// matching the original's fundamentally-impossible check (lines 559-589)
// rather than discovering the same fact only after exhausting the
// search. This is a cheap early exit; the search itself also raises
// ConfigurationError mid-run for a shift instance no worker could ever
// satisfy, catching cases this area-only pre-check can't (e.g. the
// weekday-assignment rule ruling out every otherwise-qualified worker).
func validateConfiguration(sections []*models.Section, workers []*models.Worker, cal *calendar.Calendar) error {
	for _, sec := range sections {
		area := sec.Area()
		hasQualifiedWorker := false
		for _, w := range workers {
			if w.CanWorkInArea(area) {
				hasQualifiedWorker = true
				break
			}
		}
		if !hasQualifiedWorker {
			weekday := time.Sunday
			if len(sec.Weekdays) > 0 {
				weekday = sec.Weekdays[0]
			}
			return &ConfigurationError{Section: sec.Name, Weekday: weekday}
		}
	}
	return nil
}

func buildStats(totalInstances int, assignments []models.Assignment, workerIDs []uuid.UUID) Stats {
	perWorker := make(map[uuid.UUID]int, len(workerIDs))
	for _, id := range workerIDs {
		perWorker[id] = 0
	}
	assigned := 0
	for _, a := range assignments {
		if a.WorkerID == uuid.Nil {
			continue
		}
		perWorker[a.WorkerID]++
		assigned++
	}
	return Stats{
		TotalInstances:      totalInstances,
		AssignedInstances:   assigned,
		UnassignedInstances: totalInstances - assigned,
		PerWorkerCount:      perWorker,
	}
}
