package scheduling

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pedishift/scheduler/internal/calendar"
	"github.com/pedishift/scheduler/internal/models"
)

// weekendBucket groups the shift instances of one Urg weekend package
// (Friday/Saturday/Sunday, or a bridge-Friday variant) by the three
// rotating roles, plus the reinforcement slot that isn't part of the
// rotation.
type weekendBucket struct {
	anchor        time.Time
	roleInstances map[models.WeekendRole][]models.ShiftInstance
	reinforcement *models.ShiftInstance
}

// WeekendUrgRotation fills the three rotating weekend Urg roles
// (primary/secondary/tertiary) for each weekend in the horizon, each as
// an atomic multi-date package assigned to a single worker. Unlike
// BacktrackingSearch, it is non-backtracking and best-effort: a role it
// cannot fill is recorded as an UnassignableNotice and the run continues
// (C7). Grounded on _assign_role_shifts and the first-Friday override.
type WeekendUrgRotation struct {
	cal      *calendar.Calendar
	avail    *AvailabilityMatrices
	elig     *EligibilityOracle
	fairness *FairnessScorer
}

// NewWeekendUrgRotation builds a rotation runner over cal, sharing the
// same availability matrices, eligibility oracle and fairness scorer as
// the main search so its assignments are mutually visible.
func NewWeekendUrgRotation(cal *calendar.Calendar, avail *AvailabilityMatrices, elig *EligibilityOracle, fairness *FairnessScorer) *WeekendUrgRotation {
	return &WeekendUrgRotation{cal: cal, avail: avail, elig: elig, fairness: fairness}
}

// roleForInstance classifies a weekend-bucket shift instance into one of
// the three rotating roles by its exact section name and weekday:
// Role 0 = Friday Urg_G_tarde-noche_l ∪ Sunday Urg_G_festivo_mañana;
// Role 1 = Saturday Urg_G_festivo_mañana ∪ Sunday Urg_G_festivo_noche;
// Role 2 = Saturday Urg_G_festivo_noche. Anything else (including the
// reinforcement section) returns RoleNone.
func roleForInstance(inst models.ShiftInstance) models.WeekendRole {
	weekday := inst.Date.Weekday()
	switch {
	case inst.Section.Name == "Urg_G_tarde-noche_l" && weekday == time.Friday:
		return models.RolePrimary
	case inst.Section.Name == "Urg_G_festivo_mañana" && weekday == time.Sunday:
		return models.RolePrimary
	case inst.Section.Name == "Urg_G_festivo_mañana" && weekday == time.Saturday:
		return models.RoleSecondary
	case inst.Section.Name == "Urg_G_festivo_noche" && weekday == time.Sunday:
		return models.RoleSecondary
	case inst.Section.Name == "Urg_G_festivo_noche" && weekday == time.Saturday:
		return models.RoleTertiary
	default:
		return models.RoleNone
	}
}

// groupIntoBuckets partitions instances by their weekend anchor date.
func groupIntoBuckets(instances []models.ShiftInstance, cal *calendar.Calendar) map[string]*weekendBucket {
	buckets := make(map[string]*weekendBucket)
	for _, inst := range instances {
		anchor := cal.WeekendAnchor(inst.Date)
		key := anchor.Format("2006-01-02")
		b, ok := buckets[key]
		if !ok {
			b = &weekendBucket{anchor: anchor, roleInstances: make(map[models.WeekendRole][]models.ShiftInstance)}
			buckets[key] = b
		}
		if inst.Section.Name == reinforcementSectionName {
			instCopy := inst
			b.reinforcement = &instCopy
			continue
		}
		if role := roleForInstance(inst); role != models.RoleNone {
			b.roleInstances[role] = append(b.roleInstances[role], inst)
		}
	}
	return buckets
}

// urgQualifiedWorkers returns the Active, Guardia_Urg-qualified workers,
// sorted by name ascending — the urg_workers pool the rotation offset
// indexes into.
func urgQualifiedWorkers(workers []*models.Worker) []*models.Worker {
	var out []*models.Worker
	for _, w := range workers {
		if w.State == models.WorkerActive && w.CanWorkInArea("Guardia_Urg") {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// preferredForRole returns { urg_workers[i] | (i+offset) mod 3 == role }.
func preferredForRole(urgWorkers []*models.Worker, offset int, role models.WeekendRole) []*models.Worker {
	want := int(role) - 1 // RolePrimary=1 -> 0, RoleSecondary=2 -> 1, RoleTertiary=3 -> 2
	var preferred []*models.Worker
	for i, w := range urgWorkers {
		if (i+offset)%3 == want {
			preferred = append(preferred, w)
		}
	}
	return preferred
}

// Run assigns all three rotating roles for every weekend bucket found in
// instances, plus the reinforcement slot, applying the first-Friday
// override before ordinary role assignment. The override worker is
// "Violeta Fariña" when she is in the worker pool; only when she isn't
// does firstFridayWorkerID, when set, name the worker for the
// Friday/Sunday Role 0 package.
func (r *WeekendUrgRotation) Run(instances []models.ShiftInstance, workers []*models.Worker, firstFridayWorkerID string) ([]models.Assignment, []models.UnassignableNotice) {
	var assignments []models.Assignment
	var unassignable []models.UnassignableNotice

	urgWorkers := urgQualifiedWorkers(workers)
	buckets := groupIntoBuckets(instances, r.cal)

	var overrideWorker *models.Worker
	if named := findWorkerByName(workers, "Violeta Fariña"); named != nil {
		overrideWorker = named
	} else if firstFridayWorkerID != "" {
		if id, err := uuid.Parse(firstFridayWorkerID); err == nil {
			overrideWorker = findWorkerByID(workers, id)
		}
	}

	anchors := make([]string, 0, len(buckets))
	for key := range buckets {
		anchors = append(anchors, key)
	}
	sort.Strings(anchors)

	for _, key := range anchors {
		bucket := buckets[key]
		offset := calendar.RotationOffset(bucket.anchor.Month())

		reinforcementHandled := false
		if r.isFirstFridayBucket(bucket) {
			a, handled := r.applyFirstFridayOverride(bucket, overrideWorker, urgWorkers)
			assignments = append(assignments, a...)
			reinforcementHandled = handled
		}

		for role := models.RolePrimary; role <= models.RoleTertiary; role++ {
			shifts := bucket.roleInstances[role]
			if len(shifts) == 0 {
				continue
			}
			preferred := preferredForRole(urgWorkers, offset, role)
			worker := r.pickRoleWorker(shifts, preferred, urgWorkers)
			if worker == nil {
				unassignable = append(unassignable, models.UnassignableNotice{
					Role:   role,
					Anchor: bucket.anchor,
					Reason: "no worker fully available for every date in the role",
				})
				continue
			}
			assignments = append(assignments, r.commitRole(shifts, worker, role)...)
		}

		if bucket.reinforcement != nil && !reinforcementHandled {
			worker := r.bestAvailable(*bucket.reinforcement, urgWorkers, nil)
			if worker == nil {
				unassignable = append(unassignable, models.UnassignableNotice{
					Role:   models.RoleNone,
					Anchor: bucket.anchor,
					Reason: "no worker available for reinforcement shift",
				})
				continue
			}
			var out []models.Assignment
			r.commitOne(&out, *bucket.reinforcement, worker, models.RoleNone)
			assignments = append(assignments, out...)
		}
	}

	return assignments, unassignable
}

// isFirstFridayBucket reports whether bucket's Friday (one day before its
// Saturday anchor) is the first Friday of its month.
func (r *WeekendUrgRotation) isFirstFridayBucket(b *weekendBucket) bool {
	friday := b.anchor.AddDate(0, 0, -1)
	return r.cal.IsFirstFridayOfMonth(friday)
}

// applyFirstFridayOverride assigns the Role 0 Friday/Sunday package to
// overrideWorker when eligible, and the reinforcement shift to the
// best-scoring worker excluding her. Assignments made here are removed
// from bucket.roleInstances so ordinary role processing doesn't retry
// them.
func (r *WeekendUrgRotation) applyFirstFridayOverride(b *weekendBucket, overrideWorker *models.Worker, urgWorkers []*models.Worker) ([]models.Assignment, bool) {
	var out []models.Assignment

	primary := b.roleInstances[models.RolePrimary]
	if overrideWorker != nil && len(primary) > 0 {
		fullyAvailable := true
		for _, inst := range primary {
			if !r.elig.Eligible(overrideWorker, inst, nil) {
				fullyAvailable = false
				break
			}
		}
		if fullyAvailable {
			out = append(out, r.commitRole(primary, overrideWorker, models.RolePrimary)...)
			delete(b.roleInstances, models.RolePrimary)
		}
	}

	reinforcementHandled := false
	if b.reinforcement != nil {
		best := r.bestAvailable(*b.reinforcement, urgWorkers, overrideWorker)
		if best != nil {
			r.commitOne(&out, *b.reinforcement, best, models.RoleNone)
			reinforcementHandled = true
		}
	}

	return out, reinforcementHandled
}

// pickRoleWorker chooses one worker who is shift_avail for every date in
// shifts: a preferred-set member first, then any other eligible worker.
// Within whichever pool has a fully-available candidate, the choice is
// ranked by FairnessScorer on the role's first shift.
func (r *WeekendUrgRotation) pickRoleWorker(shifts []models.ShiftInstance, preferred []*models.Worker, all []*models.Worker) *models.Worker {
	fullyAvailable := func(w *models.Worker) bool {
		for _, inst := range shifts {
			if !r.elig.Eligible(w, inst, nil) {
				return false
			}
		}
		return true
	}

	preferredSet := make(map[uuid.UUID]bool, len(preferred))
	for _, w := range preferred {
		preferredSet[w.ID] = true
	}

	var pool []*models.Worker
	for _, w := range preferred {
		if fullyAvailable(w) {
			pool = append(pool, w)
		}
	}
	if len(pool) == 0 {
		for _, w := range all {
			if preferredSet[w.ID] {
				continue
			}
			if fullyAvailable(w) {
				pool = append(pool, w)
			}
		}
	}
	if len(pool) == 0 {
		return nil
	}
	return r.fairness.Best(pool, shifts[0], PolicyLongestAgoByYoungestAge)
}

// bestAvailable returns the best-scoring eligible worker for a single
// shift instance, excluding exclude if non-nil.
func (r *WeekendUrgRotation) bestAvailable(inst models.ShiftInstance, pool []*models.Worker, exclude *models.Worker) *models.Worker {
	var candidates []*models.Worker
	for _, w := range pool {
		if exclude != nil && w.ID == exclude.ID {
			continue
		}
		if r.elig.Eligible(w, inst, nil) {
			candidates = append(candidates, w)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return r.fairness.Best(candidates, inst, PolicyLongestAgoByYoungestAge)
}

// commitRole marks worker assigned to every date in shifts, atomically,
// recording each date as a role Assignment.
func (r *WeekendUrgRotation) commitRole(shifts []models.ShiftInstance, worker *models.Worker, role models.WeekendRole) []models.Assignment {
	var out []models.Assignment
	for _, inst := range shifts {
		r.commitOne(&out, inst, worker, role)
	}
	return out
}

func (r *WeekendUrgRotation) commitOne(out *[]models.Assignment, inst models.ShiftInstance, worker *models.Worker, role models.WeekendRole) {
	r.avail.MarkAssigned(worker.ID, inst.Date)
	r.fairness.RecordAssignment(worker.ID, inst)
	*out = append(*out, models.Assignment{
		SectionName: inst.Section.Name,
		Date:        inst.Date,
		WorkerID:    worker.ID,
		Role:        role,
	})
}

func findWorkerByID(workers []*models.Worker, id uuid.UUID) *models.Worker {
	for _, w := range workers {
		if w.ID == id {
			return w
		}
	}
	return nil
}
