package models

import (
	"time"

	"github.com/google/uuid"
)

// Assignment binds a worker to a shift instance within a scenario.
type Assignment struct {
	ID          uuid.UUID   `json:"id"`
	ScenarioID  uuid.UUID   `json:"scenario_id"`
	SectionName string      `json:"section_name"`
	Date        time.Time   `json:"date"`
	WorkerID    uuid.UUID   `json:"worker_id"`
	Role        WeekendRole `json:"role,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// ShiftInstanceKey returns the section|date part of ShiftInstance.Key. An
// Assignment carries no CopyIndex, so the copies of a section with
// RequiredStaff > 1 on one date all share this key.
func (a Assignment) ShiftInstanceKey() string {
	return a.SectionName + "|" + a.Date.Format("2006-01-02")
}

// UnassignableNotice records a weekend Urg role that WeekendUrgRotation
// could not fill, per spec's non-backtracking best-effort semantics for C7.
type UnassignableNotice struct {
	Role   WeekendRole `json:"role"`
	Anchor time.Time   `json:"anchor"`
	Reason string      `json:"reason"`
}
