package calendar

import (
	"testing"
	"time"

	"github.com/pedishift/scheduler/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalendar_Dates_InclusiveRange(t *testing.T) {
	c := New(date(2026, time.March, 1), date(2026, time.March, 3), nil, nil)
	dates := c.Dates()
	if len(dates) != 3 {
		t.Fatalf("expected 3 dates, got %d", len(dates))
	}
	if !dates[0].Equal(date(2026, time.March, 1)) || !dates[2].Equal(date(2026, time.March, 3)) {
		t.Errorf("unexpected range: %v .. %v", dates[0], dates[2])
	}
}

func TestCalendar_IsHoliday(t *testing.T) {
	holidays := []models.Holiday{{Date: date(2026, time.January, 1), Name: "New Year"}}
	c := New(date(2026, time.January, 1), date(2026, time.January, 31), holidays, nil)

	if !c.IsHoliday(date(2026, time.January, 1)) {
		t.Error("expected January 1 to be a holiday")
	}
	if c.IsHoliday(date(2026, time.January, 2)) {
		t.Error("expected January 2 to not be a holiday")
	}
}

func TestCalendar_IsWeekendBucket_PlainWeekend(t *testing.T) {
	c := New(date(2026, time.March, 1), date(2026, time.March, 31), nil, nil)
	// 2026-03-07 is a Saturday, 2026-03-08 a Sunday.
	if !c.IsWeekendBucket(date(2026, time.March, 7)) {
		t.Error("expected Saturday to be in the weekend bucket")
	}
	if !c.IsWeekendBucket(date(2026, time.March, 8)) {
		t.Error("expected Sunday to be in the weekend bucket")
	}
	if c.IsWeekendBucket(date(2026, time.March, 6)) {
		t.Error("expected a plain Friday to not be in the weekend bucket")
	}
}

func TestCalendar_IsWeekendBucket_BridgeFriday(t *testing.T) {
	// 2026-03-06 is a Friday; if 2026-03-09 (the following Monday) is a
	// holiday, the Friday joins the weekend bucket.
	holidays := []models.Holiday{{Date: date(2026, time.March, 9), Name: "Bridge Monday"}}
	c := New(date(2026, time.March, 1), date(2026, time.March, 31), holidays, nil)

	if !c.IsWeekendBucket(date(2026, time.March, 6)) {
		t.Error("expected bridge Friday to join the weekend bucket")
	}
}

func TestCalendar_IsFirstFridayOfMonth(t *testing.T) {
	c := New(date(2026, time.March, 1), date(2026, time.March, 31), nil, nil)
	if !c.IsFirstFridayOfMonth(date(2026, time.March, 6)) {
		t.Error("expected March 6 2026 to be the first Friday of the month")
	}
	if c.IsFirstFridayOfMonth(date(2026, time.March, 13)) {
		t.Error("expected March 13 2026 to not be the first Friday of the month")
	}
}

func TestRotationOffset_CyclesEveryThreeMonths(t *testing.T) {
	cases := map[time.Month]int{
		time.January:   0,
		time.February:  1,
		time.March:     2,
		time.April:     0,
		time.December:  2,
	}
	for month, want := range cases {
		if got := RotationOffset(month); got != want {
			t.Errorf("RotationOffset(%s) = %d, want %d", month, got, want)
		}
	}
}
