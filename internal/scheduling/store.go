package scheduling

import (
	"context"

	"github.com/google/uuid"

	"github.com/pedishift/scheduler/internal/models"
)

// Store is the persistence collaborator the engine reads input from and
// writes its result to (§6). internal/repository.PostgresStore is the
// production implementation; tests use an in-memory fake.
type Store interface {
	LoadWorkers(ctx context.Context) ([]*models.Worker, error)
	LoadSections(ctx context.Context) ([]*models.Section, error)
	LoadHolidays(ctx context.Context) ([]models.Holiday, error)

	// PriorYearlyCounts returns each worker's shift count so far this
	// calendar year, carried into a new run's MetricsLedger.
	PriorYearlyCounts(ctx context.Context, year int) (map[uuid.UUID]int, error)

	// SaveScenario writes the scenario, its assignments, unassignable
	// notices and search log transactionally, returning the stored
	// scenario with its generated ID and timestamps.
	SaveScenario(ctx context.Context, scenario *models.Scenario, assignments []models.Assignment, unassignable []models.UnassignableNotice, searchLog []SearchLogEntry) (*models.Scenario, error)
}
