package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/pedishift/scheduler/internal/models"
)

// SectionRepository persists models.Section rows.
type SectionRepository struct {
	db *sql.DB
}

// NewSectionRepository builds a SectionRepository over db.
func NewSectionRepository(db *sql.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// ListAll returns every configured section.
func (r *SectionRepository) ListAll(ctx context.Context) ([]*models.Section, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, weekdays, dates, shift_hours, workday_hours, required_staff, requires_day_off
		FROM sections
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer rows.Close()

	var sections []*models.Section
	for rows.Next() {
		var (
			name                       string
			weekdaysInt                pq.Int64Array
			dates                      pq.GenericArray
			shiftHours, workdayHours   float64
			requiredStaff              int
			requiresDayOff             bool
		)
		dateSlice := []time.Time{}
		dates.A = &dateSlice

		if err := rows.Scan(&name, &weekdaysInt, &dates, &shiftHours, &workdayHours, &requiredStaff, &requiresDayOff); err != nil {
			return nil, fmt.Errorf("scan section row: %w", err)
		}

		weekdays := make([]time.Weekday, len(weekdaysInt))
		for i, v := range weekdaysInt {
			weekdays[i] = time.Weekday(v)
		}

		sec := models.NewSection(name, weekdays, shiftHours, workdayHours, requiredStaff, requiresDayOff)
		sec.Dates = dateSlice
		sections = append(sections, sec)
	}
	return sections, rows.Err()
}

// Get fetches a single section by name.
func (r *SectionRepository) Get(ctx context.Context, name string) (*models.Section, error) {
	sections, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range sections {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, models.ErrSectionNotFound
}
