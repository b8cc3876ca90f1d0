package scheduling

import (
	"testing"
	"time"

	"github.com/pedishift/scheduler/internal/calendar"
	"github.com/pedishift/scheduler/internal/models"
)

var (
	festivoMañanaSection = newTestSection("Urg_G_festivo_mañana", []time.Weekday{time.Saturday, time.Sunday}, 1)
	festivoNocheSection  = newTestSection("Urg_G_festivo_noche", []time.Weekday{time.Saturday, time.Sunday}, 1)
	tardeNocheSection    = newTestSection("Urg_G_tarde-noche_l", []time.Weekday{time.Friday}, 1)
)

// weekendBucketInstances builds the four Saturday/Sunday shift instances
// of the weekend bucket anchored on saturday: Role
// primary (Sunday festivo_mañana), Role secondary (Saturday festivo_mañana
// + Sunday festivo_noche), Role tertiary (Saturday festivo_noche).
func weekendBucketInstances(saturday time.Time) []models.ShiftInstance {
	sunday := saturday.AddDate(0, 0, 1)
	return []models.ShiftInstance{
		{Section: festivoMañanaSection, Date: saturday, Stream: models.StreamUrgWeekend},
		{Section: festivoNocheSection, Date: saturday, Stream: models.StreamUrgWeekend},
		{Section: festivoMañanaSection, Date: sunday, Stream: models.StreamUrgWeekend},
		{Section: festivoNocheSection, Date: sunday, Stream: models.StreamUrgWeekend},
	}
}

func TestWeekendUrgRotation_AssignsAllThreeRoles(t *testing.T) {
	workers := []*models.Worker{newTestWorker(), newTestWorker(), newTestWorker()}

	saturday := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	instances := weekendBucketInstances(saturday)

	cal := calendar.New(saturday, saturday.AddDate(0, 0, 1), nil, nil)
	dates := cal.Dates()
	avail := NewAvailabilityMatrices(workers, dates)
	elig := NewEligibilityOracle(avail)
	ledger := NewMetricsLedger(nil, nil)
	fairness := NewFairnessScorer(ledger)

	rotation := NewWeekendUrgRotation(cal, avail, elig, fairness)
	assignments, unassignable := rotation.Run(instances, workers, "")

	if len(unassignable) != 0 {
		t.Fatalf("expected all three roles fillable with three qualified workers, got gaps: %+v", unassignable)
	}

	roles := make(map[models.WeekendRole]bool)
	for _, a := range assignments {
		roles[a.Role] = true
	}
	for _, want := range []models.WeekendRole{models.RolePrimary, models.RoleSecondary, models.RoleTertiary} {
		if !roles[want] {
			t.Errorf("expected role %s to be assigned", want)
		}
	}
}

func TestWeekendUrgRotation_ReportsGapWithoutAborting(t *testing.T) {
	// A single worker unavailable on Sunday can only ever cover the
	// Saturday-only tertiary role: the primary role needs Sunday, and the
	// secondary role needs both days, so both go unfilled without
	// aborting the run (C7's best-effort semantics, distinct from
	// BacktrackingSearch's InfeasibleError).
	w := newTestWorker(time.Sunday)
	workers := []*models.Worker{w}

	saturday := time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC)
	instances := weekendBucketInstances(saturday)

	cal := calendar.New(saturday, saturday.AddDate(0, 0, 1), nil, nil)
	dates := cal.Dates()
	avail := NewAvailabilityMatrices(workers, dates)
	elig := NewEligibilityOracle(avail)
	ledger := NewMetricsLedger(nil, nil)
	fairness := NewFairnessScorer(ledger)

	rotation := NewWeekendUrgRotation(cal, avail, elig, fairness)
	_, unassignable := rotation.Run(instances, workers, "")

	if len(unassignable) != 2 {
		t.Fatalf("expected exactly 2 unfilled roles, got %d: %+v", len(unassignable), unassignable)
	}
}

func TestWeekendUrgRotation_FirstFridayOverrideAssignsNamedWorker(t *testing.T) {
	primary := newTestWorker()
	others := []*models.Worker{newTestWorker(), newTestWorker()}
	workers := append([]*models.Worker{primary}, others...)

	friday := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	saturday := friday.AddDate(0, 0, 1)
	sunday := friday.AddDate(0, 0, 2)

	instances := append([]models.ShiftInstance{
		{Section: tardeNocheSection, Date: friday, Stream: models.StreamUrgWeekend},
	}, weekendBucketInstances(saturday)...)

	cal := calendar.New(friday, sunday, nil, nil)
	dates := cal.Dates()
	avail := NewAvailabilityMatrices(workers, dates)
	elig := NewEligibilityOracle(avail)
	ledger := NewMetricsLedger(nil, nil)
	fairness := NewFairnessScorer(ledger)

	rotation := NewWeekendUrgRotation(cal, avail, elig, fairness)
	assignments, _ := rotation.Run(instances, workers, primary.ID.String())

	found := false
	for _, a := range assignments {
		if a.Role == models.RolePrimary {
			found = true
			if a.WorkerID != primary.ID {
				t.Errorf("expected first-Friday override to assign %s, got %s", primary.ID, a.WorkerID)
			}
		}
	}
	if !found {
		t.Fatal("expected a primary-role assignment on the first Friday")
	}
}
