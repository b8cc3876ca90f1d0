package models

import (
	"fmt"
	"time"
)

// ShiftStream classifies a shift instance into one of the three
// enumeration streams the scheduler walks in priority order.
type ShiftStream int

const (
	StreamRegular ShiftStream = iota
	StreamUrgLab
	StreamUrgWeekend
)

func (s ShiftStream) String() string {
	switch s {
	case StreamRegular:
		return "regular"
	case StreamUrgLab:
		return "urg-lab"
	case StreamUrgWeekend:
		return "urg-weekend"
	default:
		return "unknown"
	}
}

// WeekendRole identifies one of the three rotating weekend Urg roles.
// Zero value RoleNone marks a non-weekend-rotation shift instance (or,
// within the weekend bucket itself, the unrotated reinforcement slot).
type WeekendRole int

const (
	RoleNone WeekendRole = iota
	RolePrimary
	RoleSecondary
	RoleTertiary
)

func (r WeekendRole) String() string {
	switch r {
	case RolePrimary:
		return "primary"
	case RoleSecondary:
		return "secondary"
	case RoleTertiary:
		return "tertiary"
	default:
		return "none"
	}
}

// ShiftInstance is one concrete (Section, Date, CopyIndex) slot to be
// staffed. CopyIndex distinguishes the N independent copies a section
// with RequiredStaff > 1 emits for the same date.
type ShiftInstance struct {
	Section   *Section
	Date      time.Time
	Stream    ShiftStream
	Role      WeekendRole
	CopyIndex int
}

// Key returns a stable identifier for the shift instance, used as the map
// key for the tried-combinations memo.
func (si ShiftInstance) Key() string {
	return fmt.Sprintf("%s|%s|%d", si.Section.Name, si.Date.Format("2006-01-02"), si.CopyIndex)
}
