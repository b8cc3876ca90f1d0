package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/pedishift/scheduler/internal/models"
	"github.com/pedishift/scheduler/internal/scheduling"
)

// PostgresStore composes the per-entity repositories into the single
// scheduling.Store seam the engine depends on.
type PostgresStore struct {
	workers   *WorkerRepository
	sections  *SectionRepository
	holidays  *HolidayRepository
	scenarios *ScenarioRepository
}

// NewPostgresStore builds a PostgresStore over db.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		workers:   NewWorkerRepository(db),
		sections:  NewSectionRepository(db),
		holidays:  NewHolidayRepository(db),
		scenarios: NewScenarioRepository(db),
	}
}

var _ scheduling.Store = (*PostgresStore)(nil)

// LoadWorkers returns every active worker.
func (s *PostgresStore) LoadWorkers(ctx context.Context) ([]*models.Worker, error) {
	return s.workers.ListActive(ctx)
}

// LoadSections returns every configured section.
func (s *PostgresStore) LoadSections(ctx context.Context) ([]*models.Section, error) {
	return s.sections.ListAll(ctx)
}

// LoadHolidays returns holidays from one year before to one year after
// the current date; engine.Run hands them all to the calendar, whose
// IsHoliday/IsWeekendBucket look up only the dates they are asked about.
func (s *PostgresStore) LoadHolidays(ctx context.Context) ([]models.Holiday, error) {
	now := time.Now()
	start := now.AddDate(-1, 0, 0)
	end := now.AddDate(1, 0, 0)
	return s.holidays.ListBetween(ctx, start, end)
}

// PriorYearlyCounts delegates to the scenario repository's yearly metrics
// table.
func (s *PostgresStore) PriorYearlyCounts(ctx context.Context, year int) (map[uuid.UUID]int, error) {
	return s.scenarios.PriorYearlyCounts(ctx, year)
}

// SaveScenario delegates to the scenario repository's transactional write.
func (s *PostgresStore) SaveScenario(ctx context.Context, scenario *models.Scenario, assignments []models.Assignment, unassignable []models.UnassignableNotice, searchLog []scheduling.SearchLogEntry) (*models.Scenario, error) {
	return s.scenarios.Save(ctx, scenario, assignments, unassignable, searchLog)
}
