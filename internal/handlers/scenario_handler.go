package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pedishift/scheduler/internal/models"
	"github.com/pedishift/scheduler/internal/scheduling"
	"github.com/pedishift/scheduler/internal/services/scheduler"
)

// ScenarioHandler exposes the scheduling engine over HTTP: trigger a run,
// inspect its result, and move it through the draft/published/archived
// lifecycle.
type ScenarioHandler struct {
	svc *scheduler.Service
}

// NewScenarioHandler creates a new scenario handler.
func NewScenarioHandler(svc *scheduler.Service) *ScenarioHandler {
	return &ScenarioHandler{svc: svc}
}

// runScheduleInput is the request body for triggering a scheduling run.
type runScheduleInput struct {
	PeriodTag     string `json:"period_tag" binding:"required"`
	Start         string `json:"start" binding:"required"`
	End           string `json:"end" binding:"required"`
	DefaultPolicy int    `json:"default_policy"`
}

// Run triggers a new scheduling run over the requested horizon.
// @Summary Run the scheduler
// @Description Compute a new draft scenario for a date range
// @Tags scenarios
// @Accept json
// @Produce json
// @Param input body runScheduleInput true "Run parameters"
// @Success 201 {object} scheduling.RunResult
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/scenarios/run [post]
func (h *ScenarioHandler) Run(c *gin.Context) {
	var input runScheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse("2006-01-02", input.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", input.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must not be before start"})
		return
	}

	req := scheduling.RunRequest{
		PeriodTag:     input.PeriodTag,
		Start:         start,
		End:           end,
		Location:      time.UTC,
		DefaultPolicy: scheduling.ScoringPolicy(input.DefaultPolicy),
	}

	result, err := h.svc.RunSchedule(c.Request.Context(), req)
	if err != nil {
		writeEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetByID returns a scenario and its assignments.
// @Summary Get a scenario
// @Description Fetch a scenario by ID along with its assignments
// @Tags scenarios
// @Produce json
// @Param id path string true "Scenario ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/scenarios/{id} [get]
func (h *ScenarioHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scenario id"})
		return
	}

	sc, err := h.svc.GetScenario(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrScenarioNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "scenario not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load scenario"})
		return
	}

	assignments, err := h.svc.ListAssignments(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load assignments"})
		return
	}

	stats, err := h.svc.CachedStats(c.Request.Context(), id)
	if err != nil {
		stats = nil
	}

	c.JSON(http.StatusOK, gin.H{
		"scenario":    sc,
		"assignments": assignments,
		"stats":       stats,
	})
}

// Publish transitions a scenario to published and notifies workers.
// @Summary Publish a scenario
// @Description Move a draft scenario to published and send SMS notices
// @Tags scenarios
// @Produce json
// @Param id path string true "Scenario ID"
// @Success 200 {object} models.Scenario
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/scenarios/{id}/publish [post]
func (h *ScenarioHandler) Publish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scenario id"})
		return
	}

	sc, err := h.svc.Publish(c.Request.Context(), id, time.Now().UTC())
	if err != nil {
		h.writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, sc)
}

// Archive transitions a scenario to archived.
// @Summary Archive a scenario
// @Description Move a scenario to archived; the yearly shift counts recorded when it was saved are left unchanged
// @Tags scenarios
// @Produce json
// @Param id path string true "Scenario ID"
// @Success 200 {object} models.Scenario
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/scenarios/{id}/archive [post]
func (h *ScenarioHandler) Archive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scenario id"})
		return
	}

	sc, err := h.svc.Archive(c.Request.Context(), id, time.Now().UTC())
	if err != nil {
		h.writeLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, sc)
}

func (h *ScenarioHandler) writeLifecycleError(c *gin.Context, err error) {
	if errors.Is(err, models.ErrScenarioNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "scenario not found"})
		return
	}
	if errors.Is(err, scheduler.ErrScenarioNotPublishable) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update scenario"})
}

func writeEngineError(c *gin.Context, err error) {
	var cfgErr *scheduling.ConfigurationError
	var infeasible *scheduling.InfeasibleError
	var cancelled *scheduling.CancelledError
	var storeErr *scheduling.StoreError

	switch {
	case errors.As(err, &cfgErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": cfgErr.Error()})
	case errors.As(err, &infeasible):
		c.JSON(http.StatusConflict, gin.H{"error": infeasible.Error()})
	case errors.As(err, &cancelled):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": cancelled.Error()})
	case errors.As(err, &storeErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "scheduling store failure"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
