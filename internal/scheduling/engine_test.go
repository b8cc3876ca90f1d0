package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pedishift/scheduler/internal/models"
)

type fakeStore struct {
	workers  []*models.Worker
	sections []*models.Section
	holidays []models.Holiday
	prior    map[uuid.UUID]int

	saved *models.Scenario
}

func (f *fakeStore) LoadWorkers(ctx context.Context) ([]*models.Worker, error)   { return f.workers, nil }
func (f *fakeStore) LoadSections(ctx context.Context) ([]*models.Section, error) { return f.sections, nil }
func (f *fakeStore) LoadHolidays(ctx context.Context) ([]models.Holiday, error)  { return f.holidays, nil }
func (f *fakeStore) PriorYearlyCounts(ctx context.Context, year int) (map[uuid.UUID]int, error) {
	return f.prior, nil
}
func (f *fakeStore) SaveScenario(ctx context.Context, scenario *models.Scenario, assignments []models.Assignment, unassignable []models.UnassignableNotice, searchLog []SearchLogEntry) (*models.Scenario, error) {
	f.saved = scenario
	return scenario, nil
}

func TestEngine_Run_SimpleHorizonSucceeds(t *testing.T) {
	w1, w2, w3 := newTestWorker(), newTestWorker(), newTestWorker()
	sec := newTestSection("Urg_G_diurno", []time.Weekday{time.Monday}, 1)

	store := &fakeStore{
		workers:  []*models.Worker{w1, w2, w3},
		sections: []*models.Section{sec},
		prior:    map[uuid.UUID]int{},
	}
	engine := NewEngine(store, func() time.Time { return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC) })

	result, err := engine.Run(context.Background(), RunRequest{
		PeriodTag:     "2026-03-b1",
		Start:         time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		End:           time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		DefaultPolicy: PolicyPeriodShiftCount,
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(result.Assignments) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(result.Assignments))
	}
	if result.Stats.AssignedInstances != 1 || result.Stats.UnassignedInstances != 0 {
		t.Errorf("unexpected stats: %+v", result.Stats)
	}
	if result.Scenario.Status != models.ScenarioDraft {
		t.Errorf("expected scenario saved as draft, got %s", result.Scenario.Status)
	}
}

func TestEngine_Run_RejectsConfigurationWithNoQualifiedWorker(t *testing.T) {
	w1 := newTestWorker()
	w1.Areas = []string{"HEMS"}
	sec := newTestSection("Urg_G_diurno", []time.Weekday{time.Monday}, 1)

	store := &fakeStore{
		workers:  []*models.Worker{w1},
		sections: []*models.Section{sec},
		prior:    map[uuid.UUID]int{},
	}
	engine := NewEngine(store, nil)

	_, err := engine.Run(context.Background(), RunRequest{
		PeriodTag: "2026-03-b1",
		Start:     time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
	})
	if _, ok := err.(*ConfigurationError); !ok {
		t.Fatalf("expected *ConfigurationError, got %T: %v", err, err)
	}
}

func TestEngine_Run_WeekendRotationUnassignableDoesNotAbortRun(t *testing.T) {
	// No worker qualified for Guardia_Urg at all would hit ConfigurationError
	// first; instead give a worker who is unavailable on the weekend date
	// specifically so the rotation (not the configuration check) is what
	// reports the gap.
	w1 := newTestWorker(time.Saturday, time.Sunday)
	sec := newTestSection("Urg_G_festivo_noche", []time.Weekday{time.Saturday}, 1)

	store := &fakeStore{
		workers:  []*models.Worker{w1},
		sections: []*models.Section{sec},
		prior:    map[uuid.UUID]int{},
	}
	engine := NewEngine(store, nil)

	result, err := engine.Run(context.Background(), RunRequest{
		PeriodTag: "2026-03-b1",
		Start:     time.Date(2026, time.March, 7, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("expected weekend gaps to not abort the run, got %v", err)
	}
	if len(result.Unassignable) == 0 {
		t.Error("expected at least one UnassignableNotice for the weekend roles")
	}
}
