package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pedishift/scheduler/internal/models"
)

// HolidayRepository persists the holiday table used by the calendar's
// weekend-bucket and bridge-day rules.
type HolidayRepository struct {
	db *sql.DB
}

// NewHolidayRepository builds a HolidayRepository over db.
func NewHolidayRepository(db *sql.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// ListBetween returns every holiday in [start, end], inclusive.
func (r *HolidayRepository) ListBetween(ctx context.Context, start, end time.Time) ([]models.Holiday, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT date, name FROM holidays
		WHERE date BETWEEN $1 AND $2
		ORDER BY date`, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []models.Holiday
	for rows.Next() {
		var h models.Holiday
		if err := rows.Scan(&h.Date, &h.Name); err != nil {
			return nil, fmt.Errorf("scan holiday row: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}
