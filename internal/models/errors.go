package models

import "errors"

var (
	// ErrWorkerNotFound is returned when a worker ID has no matching row.
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrSectionNotFound is returned when a section name has no matching row.
	ErrSectionNotFound = errors.New("section not found")

	// ErrScenarioNotFound is returned when a scenario ID has no matching row.
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrInvalidCategory is returned when a worker's category is not one of
	// the known professional categories.
	ErrInvalidCategory = errors.New("invalid worker category")

	// ErrInvalidWorkerState is returned when a worker state is neither
	// Active nor Inactive.
	ErrInvalidWorkerState = errors.New("invalid worker state")

	// ErrInvalidScenarioStatus is returned when a scenario status is not
	// one of draft, published, archived.
	ErrInvalidScenarioStatus = errors.New("invalid scenario status")

	// ErrInvalidScenarioTransition is returned when a scenario lifecycle
	// transition is attempted out of order (e.g. archived -> published).
	ErrInvalidScenarioTransition = errors.New("invalid scenario lifecycle transition")

	// ErrDuplicateAssignment is returned when an assignment already exists
	// for a (scenario, section, date, role) combination.
	ErrDuplicateAssignment = errors.New("assignment already exists for this shift instance")
)
