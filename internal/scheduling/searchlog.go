package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// SearchLogAction is the event keyword consumers of the search log key
// off of; the log is a line-oriented, append-only stream and readers
// should only ever switch on Action (spec §6). Grounded on
// setup_logging/log_backtracking's action vocabulary.
type SearchLogAction string

const (
	ActionAttempt   SearchLogAction = "attempt"
	ActionEligible  SearchLogAction = "eligible"
	ActionScores    SearchLogAction = "scores"
	ActionAssign    SearchLogAction = "assign"
	ActionBacktrack SearchLogAction = "backtrack"
	ActionNoEligible SearchLogAction = "no_eligible"
)

// SearchLogEntry is one line of the append-only search log.
type SearchLogEntry struct {
	At       time.Time       `json:"at"`
	Action   SearchLogAction `json:"action"`
	ShiftKey string          `json:"shift_key"`
	WorkerID uuid.UUID       `json:"worker_id,omitempty"`
	Detail   string          `json:"detail,omitempty"`
}

// SearchLog accumulates SearchLogEntry values for one run.
type SearchLog struct {
	entries []SearchLogEntry
	now     func() time.Time
}

// NewSearchLog builds an empty log. now is injectable for deterministic
// tests; production callers pass time.Now.
func NewSearchLog(now func() time.Time) *SearchLog {
	if now == nil {
		now = time.Now
	}
	return &SearchLog{now: now}
}

func (l *SearchLog) record(action SearchLogAction, shiftKey string, workerID uuid.UUID, detail string) {
	l.entries = append(l.entries, SearchLogEntry{
		At:       l.now(),
		Action:   action,
		ShiftKey: shiftKey,
		WorkerID: workerID,
		Detail:   detail,
	})
}

// Entries returns every recorded entry in emission order.
func (l *SearchLog) Entries() []SearchLogEntry {
	return l.entries
}
