package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pedishift/scheduler/internal/models"
	"github.com/pedishift/scheduler/internal/scheduling"
)

// ScenarioRepository persists scenarios, their assignments, unassignable
// notices and search log, and carries prior-year metrics forward into new
// runs. Grounded on shift_repository.go's transaction-per-write-operation
// style (begin/defer rollback/commit).
type ScenarioRepository struct {
	db *sql.DB
}

// NewScenarioRepository builds a ScenarioRepository over db.
func NewScenarioRepository(db *sql.DB) *ScenarioRepository {
	return &ScenarioRepository{db: db}
}

// Save writes scenario, assignments, unassignable notices and the search
// log transactionally, then updates each assigned worker's yearly metrics
// row.
func (r *ScenarioRepository) Save(ctx context.Context, scenario *models.Scenario, assignments []models.Assignment, unassignable []models.UnassignableNotice, searchLog []scheduling.SearchLogEntry) (*models.Scenario, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin scenario save: %w", err)
	}
	defer tx.Rollback()

	if scenario.ID == uuid.Nil {
		scenario.ID = uuid.New()
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO scenarios (id, period_tag, status, created_at, published_at, archived_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		scenario.ID, scenario.PeriodTag, string(scenario.Status), scenario.CreatedAt, scenario.PublishedAt, scenario.ArchivedAt,
	); err != nil {
		return nil, fmt.Errorf("insert scenario: %w", err)
	}

	for _, a := range assignments {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO assignments (id, scenario_id, section_name, date, worker_id, role, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			a.ID, scenario.ID, a.SectionName, a.Date, nullableUUID(a.WorkerID), int(a.Role), a.CreatedAt,
		); err != nil {
			if isUniqueViolation(err) {
				return nil, fmt.Errorf("insert assignment: %w", models.ErrDuplicateAssignment)
			}
			return nil, fmt.Errorf("insert assignment: %w", err)
		}
		if a.WorkerID != uuid.Nil {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO worker_yearly_metrics (worker_id, year, shift_count)
				VALUES ($1, $2, 1)
				ON CONFLICT (worker_id, year) DO UPDATE SET shift_count = worker_yearly_metrics.shift_count + 1`,
				a.WorkerID, a.Date.Year(),
			); err != nil {
				return nil, fmt.Errorf("update yearly metrics: %w", err)
			}
		}
	}

	for _, u := range unassignable {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO unassignable_notices (id, scenario_id, role, anchor, reason)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), scenario.ID, int(u.Role), u.Anchor, u.Reason,
		); err != nil {
			return nil, fmt.Errorf("insert unassignable notice: %w", err)
		}
	}

	for _, entry := range searchLog {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO search_log_entries (scenario_id, at, action, shift_key, worker_id, detail)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			scenario.ID, entry.At, string(entry.Action), entry.ShiftKey, nullableUUID(entry.WorkerID), entry.Detail,
		); err != nil {
			return nil, fmt.Errorf("insert search log entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit scenario save: %w", err)
	}
	return scenario, nil
}

// Get fetches a scenario by ID, without its assignments.
func (r *ScenarioRepository) Get(ctx context.Context, id uuid.UUID) (*models.Scenario, error) {
	var s models.Scenario
	var status string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, period_tag, status, created_at, published_at, archived_at
		FROM scenarios WHERE id = $1`, id,
	).Scan(&s.ID, &s.PeriodTag, &status, &s.CreatedAt, &s.PublishedAt, &s.ArchivedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrScenarioNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get scenario %s: %w", id, err)
	}
	s.Status = models.ScenarioStatus(status)
	return &s, nil
}

// ListAssignments returns every assignment belonging to a scenario.
func (r *ScenarioRepository) ListAssignments(ctx context.Context, scenarioID uuid.UUID) ([]models.Assignment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, scenario_id, section_name, date, worker_id, role, created_at
		FROM assignments WHERE scenario_id = $1
		ORDER BY date, section_name`, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("list assignments for scenario %s: %w", scenarioID, err)
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		var a models.Assignment
		var role int
		var workerID uuid.NullUUID
		if err := rows.Scan(&a.ID, &a.ScenarioID, &a.SectionName, &a.Date, &workerID, &role, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan assignment row: %w", err)
		}
		a.Role = models.WeekendRole(role)
		if workerID.Valid {
			a.WorkerID = workerID.UUID
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// UpdateStatus persists a scenario lifecycle transition already validated
// by models.Scenario.Transition.
func (r *ScenarioRepository) UpdateStatus(ctx context.Context, s *models.Scenario) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE scenarios SET status = $1, published_at = $2, archived_at = $3 WHERE id = $4`,
		string(s.Status), s.PublishedAt, s.ArchivedAt, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update scenario status: %w", err)
	}
	return nil
}

// PriorYearlyCounts returns each worker's accumulated shift count for year.
func (r *ScenarioRepository) PriorYearlyCounts(ctx context.Context, year int) (map[uuid.UUID]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT worker_id, shift_count FROM worker_yearly_metrics WHERE year = $1`, year)
	if err != nil {
		return nil, fmt.Errorf("list prior yearly counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("scan yearly metrics row: %w", err)
		}
		counts[id] = count
	}
	return counts, rows.Err()
}

func nullableUUID(id uuid.UUID) interface{} {
	if id == uuid.Nil {
		return nil
	}
	return id
}

func isUniqueViolation(err error) bool {
	type sqlState interface{ SQLState() string }
	var pqErr sqlState
	if errors.As(err, &pqErr) {
		return pqErr.SQLState() == "23505"
	}
	return false
}
