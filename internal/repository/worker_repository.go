package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/pedishift/scheduler/internal/models"
)

// WorkerRepository persists models.Worker rows. Grounded on
// shift_repository.go's database/sql + lib/pq query style (named
// columns, rows.Scan loops, sentinel not-found errors).
type WorkerRepository struct {
	db *sql.DB
}

// NewWorkerRepository builds a WorkerRepository over db.
func NewWorkerRepository(db *sql.DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

// ListActive returns every worker currently in the Active state.
func (r *WorkerRepository) ListActive(ctx context.Context) ([]*models.Worker, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, initials, birth_year, category, state, phone,
		       areas, avoid_days, days_assigned, available_work_hours,
		       available_guard_hours, ooo_days, workload_percent, weekdays_worked
		FROM workers
		WHERE state = $1
		ORDER BY name`, string(models.WorkerActive))
	if err != nil {
		return nil, fmt.Errorf("list active workers: %w", err)
	}
	defer rows.Close()

	var workers []*models.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, fmt.Errorf("scan worker row: %w", err)
		}
		workers = append(workers, w)
	}
	return workers, rows.Err()
}

// Get fetches a single worker by ID.
func (r *WorkerRepository) Get(ctx context.Context, id uuid.UUID) (*models.Worker, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, initials, birth_year, category, state, phone,
		       areas, avoid_days, days_assigned, available_work_hours,
		       available_guard_hours, ooo_days, workload_percent, weekdays_worked
		FROM workers WHERE id = $1`, id)

	w, err := scanWorker(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrWorkerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get worker %s: %w", id, err)
	}
	return w, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWorker(row rowScanner) (*models.Worker, error) {
	var (
		w            models.Worker
		category     string
		state        string
		avoidDays    pq.Int64Array
		areas        pq.StringArray
		oooDays      pq.GenericArray
		weekdaysWork pq.Int64Array
	)
	oooDaysSlice := []time.Time{}
	oooDays.A = &oooDaysSlice
	var constraintsJSON []byte

	if err := row.Scan(
		&w.ID, &w.Name, &w.Initials, &w.BirthYear, &category, &state, &w.Phone,
		&areas, &avoidDays, &constraintsJSON, &w.AvailableWorkHours, &w.AvailableGuardHours,
		&oooDays, &w.WorkloadPercent, &weekdaysWork,
	); err != nil {
		return nil, err
	}

	w.Category = models.WorkerCategory(category)
	w.State = models.WorkerState(state)
	w.Areas = []string(areas)
	w.AvoidDays = toWeekdays(avoidDays)
	w.WeekdaysWorked = toWeekdays(weekdaysWork)
	w.OOODays = oooDaysSlice

	if len(constraintsJSON) > 0 {
		var raw map[string][]int
		if err := json.Unmarshal(constraintsJSON, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal days_assigned: %w", err)
		}
		w.DaysAssigned = make(map[string][]time.Weekday, len(raw))
		for area, days := range raw {
			weekdays := make([]time.Weekday, len(days))
			for i, d := range days {
				weekdays[i] = time.Weekday(d)
			}
			w.DaysAssigned[area] = weekdays
		}
	}

	return &w, nil
}

func toWeekdays(values pq.Int64Array) []time.Weekday {
	out := make([]time.Weekday, len(values))
	for i, v := range values {
		out[i] = time.Weekday(v)
	}
	return out
}
