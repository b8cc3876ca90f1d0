package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pedishift/scheduler/internal/models"
	"github.com/pedishift/scheduler/internal/repository"
)

// WorkerHandler exposes read access to the worker roster the scheduling
// engine draws from.
type WorkerHandler struct {
	workers *repository.WorkerRepository
}

// NewWorkerHandler creates a new worker handler.
func NewWorkerHandler(workers *repository.WorkerRepository) *WorkerHandler {
	return &WorkerHandler{workers: workers}
}

// List returns every active worker.
// @Summary List active workers
// @Tags workers
// @Produce json
// @Success 200 {array} models.Worker
// @Router /api/v1/workers [get]
func (h *WorkerHandler) List(c *gin.Context) {
	workers, err := h.workers.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list workers"})
		return
	}
	c.JSON(http.StatusOK, workers)
}

// GetByID returns a single worker.
// @Summary Get a worker
// @Tags workers
// @Produce json
// @Param id path string true "Worker ID"
// @Success 200 {object} models.Worker
// @Failure 404 {object} map[string]string
// @Router /api/v1/workers/{id} [get]
func (h *WorkerHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid worker id"})
		return
	}

	w, err := h.workers.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrWorkerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "worker not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get worker"})
		return
	}

	c.JSON(http.StatusOK, w)
}
