package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/crewtrackhq/crewtrack-be/internal/api/dto"
	"github.com/crewtrackhq/crewtrack-be/internal/api/model"
	"github.com/crewtrackhq/crewtrack-be/internal/api/storage"
	"github.com/crewtrackhq/crewtrack-be/internal/events"
	"github.com/gin-gonic/gin"
)

func validateWorker(req *dto.CreateWorkerRequest) string {
	if req.Name == "" {
		return "Name field required"
	}
	if req.Role == "" {
		return "Role field required"
	}
	if len(req.Name) > maxFieldLen {
		return fmt.Sprintf("Name must be at most %d characters", maxFieldLen)
	}
	if len(req.Role) > maxFieldLen {
		return fmt.Sprintf("Role must be at most %d characters", maxFieldLen)
	}
	return ""
}

// checkJobRef verifies that a supplied jobId points at an existing job.
// Returns the client-facing detail message, or "" when the reference is fine.
func (h *WorkerHandler) checkJobRef(c *gin.Context, jobID *int64) (string, error) {
	if jobID == nil {
		return "", nil
	}

	exists, err := h.store.JobExists(c.Request.Context(), *jobID)
	if err != nil {
		return "", err
	}
	if !exists {
		return fmt.Sprintf("Job with id %d does not exist", *jobID), nil
	}
	return "", nil
}

// CreateWorker handles POST /workers/
func (h *WorkerHandler) CreateWorker(c *gin.Context) {
	var req dto.CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	if msg := validateWorker(&req); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": msg,
		})
		return
	}

	msg, err := h.checkJobRef(c, req.JobID)
	if err != nil {
		h.logger.Error("Failed to check job reference", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create worker",
		})
		return
	}
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": msg,
		})
		return
	}

	worker := model.Worker{
		Name:  req.Name,
		Role:  req.Role,
		JobID: req.JobID,
	}

	if err := h.store.CreateWorker(c.Request.Context(), &worker); err != nil {
		h.logger.Error("Failed to create worker", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create worker",
		})
		return
	}

	h.logger.Info("Worker created",
		slog.Int64("worker_id", worker.ID),
		slog.String("role", worker.Role),
	)

	h.events.Emit(c.Request.Context(), events.TypeWorkerCreated, events.EntityWorker, worker.ID, dto.WorkerFromModel(&worker))

	c.JSON(http.StatusCreated, dto.WorkerFromModel(&worker))
}

// BulkCreateWorkers handles POST /workers/bulk/
// Every element is validated (including job references) before any row is
// written; the inserts run in one transaction.
func (h *WorkerHandler) BulkCreateWorkers(c *gin.Context) {
	var reqs []dto.CreateWorkerRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	workers := make([]model.Worker, 0, len(reqs))
	for i := range reqs {
		if msg := validateWorker(&reqs[i]); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": msg,
			})
			return
		}

		msg, err := h.checkJobRef(c, reqs[i].JobID)
		if err != nil {
			h.logger.Error("Failed to check job reference", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create workers",
			})
			return
		}
		if msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": msg,
			})
			return
		}

		workers = append(workers, model.Worker{
			Name:  reqs[i].Name,
			Role:  reqs[i].Role,
			JobID: reqs[i].JobID,
		})
	}

	count, err := h.store.CreateWorkers(c.Request.Context(), workers)
	if err != nil {
		h.logger.Error("Failed to bulk create workers", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create workers",
		})
		return
	}

	h.logger.Info("Workers bulk created", slog.Int("count", count))

	h.events.Emit(c.Request.Context(), events.TypeWorkersBulkCreated, events.EntityWorker, 0, gin.H{"count": count})

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("%d workers created successfully", count),
	})
}

// ListWorkers handles GET /workers/
func (h *WorkerHandler) ListWorkers(c *gin.Context) {
	var req dto.ListWorkersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	msg, err := h.checkJobRef(c, req.JobID)
	if err != nil {
		h.logger.Error("Failed to check job reference", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list workers",
		})
		return
	}
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": msg,
		})
		return
	}

	if req.Page < 1 {
		req.Page = defaultPage
	}
	if req.Limit <= 0 {
		req.Limit = defaultLimit
	}

	filter := storage.WorkerFilter{
		Name:   req.Name,
		Role:   req.Role,
		JobID:  req.JobID,
		Limit:  req.Limit,
		Offset: (req.Page - 1) * req.Limit,
	}

	workers, err := h.store.ListWorkers(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list workers", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list workers",
		})
		return
	}

	resp := make([]dto.WorkerResponse, len(workers))
	for i := range workers {
		resp[i] = dto.WorkerFromModel(&workers[i])
	}

	c.JSON(http.StatusOK, resp)
}
