package scheduling

import (
	"fmt"
	"time"
)

// ConfigurationError aborts a run when a section/weekday combination has
// no worker who could ever be eligible, so no amount of backtracking
// would help. It is raised before the search starts (area check) or
// mid-search by BacktrackingSearch (rules 1, 2 and 4).
type ConfigurationError struct {
	Section string
	Weekday time.Weekday
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no worker can ever cover %q on %s", e.Section, e.Weekday)
}

// InfeasibleError is returned when BacktrackingSearch exhausts every
// combination without finding a full assignment for the horizon.
type InfeasibleError struct{}

func (e *InfeasibleError) Error() string {
	return "no feasible assignment exists for this horizon"
}

// CancelledError is returned when the run's context is cancelled before
// completion. No partial write follows a cancelled run (§7).
type CancelledError struct{}

func (e *CancelledError) Error() string {
	return "scheduling run cancelled"
}

// StoreError wraps a failure from the Store collaborator.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %v", e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// WeekendRoleUnassignable is NOT an error. No component produces it:
// WeekendUrgRotation reports an unfilled role as a
// models.UnassignableNotice on RunResult.Unassignable instead of
// aborting, per the spec's asymmetric failure semantics between C6 and C7.
type WeekendRoleUnassignable struct {
	Role   int
	Anchor time.Time
}
