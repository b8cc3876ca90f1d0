package scheduling

import (
	"testing"
	"time"

	"github.com/pedishift/scheduler/internal/calendar"
	"github.com/pedishift/scheduler/internal/models"
)

func TestShiftEnumerator_SplitsThreeStreamsInPriorityOrder(t *testing.T) {
	cal := calendar.New(
		time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 8, 0, 0, 0, 0, time.UTC),
		nil, nil,
	)
	sections := []*models.Section{
		models.NewSection("Hosp_G_diurno", []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, 8, 8, 1, false),
		models.NewSection("Urg_G_noche_l", []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, 24, 8, 1, false),
		models.NewSection("Urg_G_festivo_mañana", []time.Weekday{time.Saturday, time.Sunday}, 24, 8, 3, false),
	}

	instances := NewShiftEnumerator(cal, sections).Enumerate()
	if len(instances) == 0 {
		t.Fatal("expected at least one instance")
	}

	var lastStream models.ShiftStream
	for _, inst := range instances {
		if inst.Stream < lastStream {
			t.Fatalf("expected non-decreasing stream order, got %s after %s", inst.Stream, lastStream)
		}
		lastStream = inst.Stream
	}

	var sawRegular, sawUrgLab, sawWeekend bool
	for _, inst := range instances {
		switch inst.Stream {
		case models.StreamRegular:
			sawRegular = true
		case models.StreamUrgLab:
			sawUrgLab = true
		case models.StreamUrgWeekend:
			sawWeekend = true
		}
	}
	if !sawRegular || !sawUrgLab || !sawWeekend {
		t.Errorf("expected all three streams present, got regular=%v lab=%v weekend=%v", sawRegular, sawUrgLab, sawWeekend)
	}
}

func TestShiftEnumerator_SortedByDateWithinStream(t *testing.T) {
	cal := calendar.New(
		time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.March, 6, 0, 0, 0, 0, time.UTC),
		nil, nil,
	)
	sections := []*models.Section{
		models.NewSection("Hosp_G_diurno", []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}, 8, 8, 1, false),
	}

	instances := NewShiftEnumerator(cal, sections).Enumerate()
	for i := 1; i < len(instances); i++ {
		if instances[i].Date.Before(instances[i-1].Date) {
			t.Fatalf("expected dates sorted ascending within stream, got %v after %v", instances[i].Date, instances[i-1].Date)
		}
	}
}
