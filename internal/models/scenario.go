package models

import (
	"time"

	"github.com/google/uuid"
)

// ScenarioStatus is the lifecycle state of a scheduling run's output.
type ScenarioStatus string

const (
	ScenarioDraft     ScenarioStatus = "draft"
	ScenarioPublished ScenarioStatus = "published"
	ScenarioArchived  ScenarioStatus = "archived"
)

// IsValid reports whether s is a known status.
func (s ScenarioStatus) IsValid() bool {
	switch s {
	case ScenarioDraft, ScenarioPublished, ScenarioArchived:
		return true
	}
	return false
}

// validTransitions enumerates the allowed scenario lifecycle edges.
var validTransitions = map[ScenarioStatus][]ScenarioStatus{
	ScenarioDraft:     {ScenarioPublished, ScenarioArchived},
	ScenarioPublished: {ScenarioArchived},
	ScenarioArchived:  {},
}

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle edge (draft -> published -> archived, or draft -> archived
// directly for a discarded run).
func (s ScenarioStatus) CanTransitionTo(next ScenarioStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Scenario is the output of one scheduling run: a tagged, versioned
// snapshot of assignments for a given horizon.
type Scenario struct {
	ID          uuid.UUID      `json:"id"`
	PeriodTag   string         `json:"period_tag" validate:"required"`
	Status      ScenarioStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	ArchivedAt  *time.Time     `json:"archived_at,omitempty"`
}

// Transition validates and applies a lifecycle move, returning
// ErrInvalidScenarioTransition if next is not reachable from s.Status.
func (s *Scenario) Transition(next ScenarioStatus, at time.Time) error {
	if !s.Status.CanTransitionTo(next) {
		return ErrInvalidScenarioTransition
	}
	s.Status = next
	switch next {
	case ScenarioPublished:
		s.PublishedAt = &at
	case ScenarioArchived:
		s.ArchivedAt = &at
	}
	return nil
}
