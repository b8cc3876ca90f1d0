package scheduling

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pedishift/scheduler/internal/models"
)

// MondayUrgLabCarryOver is the Monday-after-weekend continuity rule for
// the Urg_G_noche_l stream: if Roberto Velasco or Edu Marin worked a
// night shift over the preceding Saturday or Sunday, María Coma is
// assigned the Monday Urg_G_noche_l regardless of score, provided she's
// eligible. Grounded on the named special case in
// assign_period_shifts_with_backtracking lines 853-877 — kept literal
// rather than generalized, since the three individuals are the rule.
func MondayUrgLabCarryOver(shift models.ShiftInstance, priorAssignments []models.Assignment, workers []*models.Worker) []uuid.UUID {
	if shift.Section.Name != "Urg_G_noche_l" || shift.Date.Weekday() != time.Monday {
		return nil
	}

	roberto := findWorkerByName(workers, "Roberto Velasco")
	edu := findWorkerByName(workers, "Edu Marin")
	maria := findWorkerByName(workers, "María Coma")

	saturday := shift.Date.AddDate(0, 0, -2)
	sunday := shift.Date.AddDate(0, 0, -1)

	triggered := false
	for _, a := range priorAssignments {
		if !sameCivilDay(a.Date, saturday) && !sameCivilDay(a.Date, sunday) {
			continue
		}
		if !strings.Contains(strings.ToLower(a.SectionName), "noche") {
			continue
		}
		if (roberto != nil && a.WorkerID == roberto.ID) || (edu != nil && a.WorkerID == edu.ID) {
			triggered = true
			break
		}
	}

	if triggered && maria != nil {
		return []uuid.UUID{maria.ID}
	}

	// Not triggered: still restrict the candidate preference to whichever
	// of the three named workers are in the pool, so continuity is favored
	// without forcing an ineligible worker to the front.
	named := make([]*models.Worker, 0, 3)
	for _, w := range []*models.Worker{roberto, edu, maria} {
		if w != nil {
			named = append(named, w)
		}
	}
	sort.Slice(named, func(i, j int) bool { return named[i].Name < named[j].Name })

	ids := make([]uuid.UUID, len(named))
	for i, w := range named {
		ids[i] = w.ID
	}
	return ids
}

func findWorkerByName(workers []*models.Worker, name string) *models.Worker {
	for _, w := range workers {
		if w.Name == name {
			return w
		}
	}
	return nil
}

func sameCivilDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
