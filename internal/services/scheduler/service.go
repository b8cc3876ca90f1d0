package scheduler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/pedishift/scheduler/internal/models"
	"github.com/pedishift/scheduler/internal/repository"
	"github.com/pedishift/scheduler/internal/scheduling"
	"github.com/pedishift/scheduler/internal/services/notification"
)

const (
	// CacheTTL is the time-to-live for a cached scenario summary.
	CacheTTL = 5 * time.Minute

	// CacheKeyPrefix namespaces every key this service writes to Redis.
	CacheKeyPrefix = "scenario:"
)

var ErrScenarioNotPublishable = errors.New("scenario is not in a publishable state")

// cachedStats is the JSON shape stored in Redis, mirroring scheduling.Stats
// but with string-keyed worker counts since JSON object keys must be
// strings.
type cachedStats struct {
	TotalInstances      int            `json:"total_instances"`
	AssignedInstances   int            `json:"assigned_instances"`
	UnassignedInstances int            `json:"unassigned_instances"`
	PerWorkerCount      map[string]int `json:"per_worker_count"`
}

// Service orchestrates a scheduling run end to end: load from Postgres via
// the engine's Store seam, run the engine, cache the resulting stats in
// Redis, and notify workers by SMS once a scenario is published. Grounded
// on routing_service.go's db+redis+cache-aside shape, generalized from a
// per-hospital on-duty lookup to a per-scenario stats cache.
type Service struct {
	db       *sql.DB
	redis    *redis.Client
	store    *repository.PostgresStore
	scenario *repository.ScenarioRepository
	workers  *repository.WorkerRepository
	engine   *scheduling.Engine
	notifier *notification.AssignmentNotifier
}

// New builds a Service. redis and notifier may be nil; both degrade to
// no-ops rather than failing a run.
func New(db *sql.DB, redisClient *redis.Client, notifier *notification.AssignmentNotifier) *Service {
	store := repository.NewPostgresStore(db)
	return &Service{
		db:       db,
		redis:    redisClient,
		store:    store,
		scenario: repository.NewScenarioRepository(db),
		workers:  repository.NewWorkerRepository(db),
		engine:   scheduling.NewEngine(store, nil),
		notifier: notifier,
	}
}

// RunSchedule executes one scheduling run and caches its stats.
func (s *Service) RunSchedule(ctx context.Context, req scheduling.RunRequest) (*scheduling.RunResult, error) {
	result, err := s.engine.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.cacheStats(ctx, result.Scenario.ID, result.Stats); err != nil {
		log.Printf("Warning: failed to cache scenario stats: %v", err)
	}

	return result, nil
}

// Publish transitions a draft scenario to published, persists the
// transition, and notifies every assigned worker by SMS.
func (s *Service) Publish(ctx context.Context, scenarioID uuid.UUID, at time.Time) (*models.Scenario, error) {
	sc, err := s.scenario.Get(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	if err := sc.Transition(models.ScenarioPublished, at); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScenarioNotPublishable, err)
	}
	if err := s.scenario.UpdateStatus(ctx, sc); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		assignments, err := s.scenario.ListAssignments(ctx, scenarioID)
		if err != nil {
			log.Printf("Warning: failed to load assignments to notify scenario %s: %v", scenarioID, err)
		} else if err := s.notifyAssignments(ctx, sc, assignments); err != nil {
			log.Printf("Warning: failed to notify some workers of scenario %s: %v", scenarioID, err)
		}
	}

	if err := s.invalidateCache(ctx, scenarioID); err != nil {
		log.Printf("Warning: failed to invalidate scenario cache: %v", err)
	}

	return sc, nil
}

// Archive transitions a scenario to archived without notifying anyone.
func (s *Service) Archive(ctx context.Context, scenarioID uuid.UUID, at time.Time) (*models.Scenario, error) {
	sc, err := s.scenario.Get(ctx, scenarioID)
	if err != nil {
		return nil, err
	}
	if err := sc.Transition(models.ScenarioArchived, at); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScenarioNotPublishable, err)
	}
	if err := s.scenario.UpdateStatus(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// GetScenario fetches a scenario by ID.
func (s *Service) GetScenario(ctx context.Context, scenarioID uuid.UUID) (*models.Scenario, error) {
	return s.scenario.Get(ctx, scenarioID)
}

// ListAssignments returns every assignment belonging to a scenario.
func (s *Service) ListAssignments(ctx context.Context, scenarioID uuid.UUID) ([]models.Assignment, error) {
	return s.scenario.ListAssignments(ctx, scenarioID)
}

func (s *Service) notifyAssignments(ctx context.Context, sc *models.Scenario, assignments []models.Assignment) error {
	workers, err := s.workers.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("load workers for notification: %w", err)
	}
	byID := make(map[uuid.UUID]*models.Worker, len(workers))
	for _, w := range workers {
		byID[w.ID] = w
	}

	notices := make([]notification.AssignmentNotice, 0, len(assignments))
	for _, a := range assignments {
		if a.WorkerID == uuid.Nil {
			continue
		}
		w, ok := byID[a.WorkerID]
		if !ok {
			continue
		}
		notices = append(notices, notification.AssignmentNotice{
			WorkerName:  w.Name,
			WorkerPhone: w.Phone,
			SectionName: a.SectionName,
			Date:        a.Date.Format("2006-01-02"),
			ScenarioTag: sc.PeriodTag,
		})
	}

	return s.notifier.NotifyPublished(ctx, notices)
}

func (s *Service) cacheKey(scenarioID uuid.UUID) string {
	return fmt.Sprintf("%s%s:stats", CacheKeyPrefix, scenarioID.String())
}

func (s *Service) cacheStats(ctx context.Context, scenarioID uuid.UUID, stats scheduling.Stats) error {
	if s.redis == nil {
		return nil
	}

	perWorker := make(map[string]int, len(stats.PerWorkerCount))
	for id, count := range stats.PerWorkerCount {
		perWorker[id.String()] = count
	}
	payload := cachedStats{
		TotalInstances:      stats.TotalInstances,
		AssignedInstances:   stats.AssignedInstances,
		UnassignedInstances: stats.UnassignedInstances,
		PerWorkerCount:      perWorker,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, s.cacheKey(scenarioID), data, CacheTTL).Err()
}

// CachedStats returns the cached stats for a scenario, or (nil, nil) on a
// cache miss or when Redis isn't configured; callers should recompute from
// the store in either case.
func (s *Service) CachedStats(ctx context.Context, scenarioID uuid.UUID) (*scheduling.Stats, error) {
	if s.redis == nil {
		return nil, nil
	}

	data, err := s.redis.Get(ctx, s.cacheKey(scenarioID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var payload cachedStats
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	perWorker := make(map[uuid.UUID]int, len(payload.PerWorkerCount))
	for idStr, count := range payload.PerWorkerCount {
		id, err := uuid.Parse(idStr)
		if err != nil {
			continue
		}
		perWorker[id] = count
	}

	return &scheduling.Stats{
		TotalInstances:      payload.TotalInstances,
		AssignedInstances:   payload.AssignedInstances,
		UnassignedInstances: payload.UnassignedInstances,
		PerWorkerCount:      perWorker,
	}, nil
}

func (s *Service) invalidateCache(ctx context.Context, scenarioID uuid.UUID) error {
	if s.redis == nil {
		return nil
	}
	return s.redis.Del(ctx, s.cacheKey(scenarioID)).Err()
}
