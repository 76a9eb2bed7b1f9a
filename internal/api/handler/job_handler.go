package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crewtrackhq/crewtrack-be/internal/api/domain"
	"github.com/crewtrackhq/crewtrack-be/internal/api/dto"
	"github.com/crewtrackhq/crewtrack-be/internal/api/model"
	"github.com/crewtrackhq/crewtrack-be/internal/api/storage"
	"github.com/crewtrackhq/crewtrack-be/internal/events"
	"github.com/gin-gonic/gin"
)

// validateJob checks required fields, length limits, and the status enum.
// Returns the client-facing detail message, or "" when the request is valid.
func validateJob(req *dto.CreateJobRequest) string {
	if req.Name == "" {
		return "Name field required"
	}
	if req.Customer == "" {
		return "Customer field required"
	}
	if len(req.Name) > maxFieldLen {
		return fmt.Sprintf("Name must be at most %d characters", maxFieldLen)
	}
	if len(req.Customer) > maxFieldLen {
		return fmt.Sprintf("Customer must be at most %d characters", maxFieldLen)
	}
	if req.Status != nil && !domain.ValidJobStatus(*req.Status) {
		return "Invalid status. Use 'InProgress' or 'Completed'."
	}
	return ""
}

func jobFromRequest(req *dto.CreateJobRequest) model.Job {
	job := model.Job{
		Name:     req.Name,
		Customer: req.Customer,
		Status:   req.Status,
	}
	if req.StartDate != nil {
		t := req.StartDate.Time
		job.StartDate = &t
	}
	if req.EndDate != nil {
		t := req.EndDate.Time
		job.EndDate = &t
	}
	return job
}

// CreateJob handles POST /jobs/
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	if msg := validateJob(&req); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": msg,
		})
		return
	}

	job := jobFromRequest(&req)

	if err := h.store.CreateJob(c.Request.Context(), &job); err != nil {
		h.logger.Error("Failed to create job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create job",
		})
		return
	}

	h.logger.Info("Job created",
		slog.Int64("job_id", job.ID),
		slog.String("customer", job.Customer),
	)

	h.events.Emit(c.Request.Context(), events.TypeJobCreated, events.EntityJob, job.ID, dto.JobFromModel(&job))

	c.JSON(http.StatusCreated, dto.JobFromModel(&job))
}

// BulkCreateJobs handles POST /jobs/bulk/
// Every element is validated before any row is written; the inserts run in
// one transaction.
func (h *JobHandler) BulkCreateJobs(c *gin.Context) {
	var reqs []dto.CreateJobRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	jobs := make([]model.Job, 0, len(reqs))
	for i := range reqs {
		if msg := validateJob(&reqs[i]); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": msg,
			})
			return
		}
		jobs = append(jobs, jobFromRequest(&reqs[i]))
	}

	count, err := h.store.CreateJobs(c.Request.Context(), jobs)
	if err != nil {
		h.logger.Error("Failed to bulk create jobs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create jobs",
		})
		return
	}

	h.logger.Info("Jobs bulk created", slog.Int("count", count))

	h.events.Emit(c.Request.Context(), events.TypeJobsBulkCreated, events.EntityJob, 0, gin.H{"count": count})

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("%d jobs created successfully", count),
	})
}

// ListJobs handles GET /jobs/
// Filters are AND-combined; results are sorted, then paginated.
func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	if !req.StartAfter.IsZero() && !req.EndBefore.IsZero() && !req.StartAfter.Before(req.EndBefore) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "startAfter must be before endBefore",
		})
		return
	}

	if req.Status != "" && !domain.ValidJobStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid status. Use 'InProgress' or 'Completed'.",
		})
		return
	}

	if req.SortBy == "" {
		req.SortBy = "startDate"
	}
	sortColumn, ok := storage.JobSortColumn(req.SortBy)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid sort field",
		})
		return
	}

	if req.SortOrder == "" {
		req.SortOrder = "asc"
	}
	if req.SortOrder != "asc" && req.SortOrder != "desc" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid sort order. Use 'asc' or 'desc'.",
		})
		return
	}

	if req.Page < 1 {
		req.Page = defaultPage
	}
	if req.Limit <= 0 {
		req.Limit = defaultLimit
	}

	filter := storage.JobFilter{
		Name:       req.Name,
		Customer:   req.Customer,
		Status:     req.Status,
		SortColumn: sortColumn,
		SortDesc:   req.SortOrder == "desc",
		Limit:      req.Limit,
		Offset:     (req.Page - 1) * req.Limit,
	}
	if !req.StartAfter.IsZero() {
		t := req.StartAfter
		filter.StartAfter = &t
	}
	if !req.EndBefore.IsZero() {
		t := req.EndBefore
		filter.EndBefore = &t
	}

	jobs, err := h.store.ListJobs(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list jobs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list jobs",
		})
		return
	}

	resp := make([]dto.JobResponse, len(jobs))
	for i := range jobs {
		resp[i] = dto.JobFromModel(&jobs[i])
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteJob handles DELETE /jobs/:jobId
// Deletes the job and clears the assignment on any workers that referenced
// it, then returns the deleted record.
func (h *JobHandler) DeleteJob(c *gin.Context) {
	jobID, err := strconv.ParseInt(c.Param("jobId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid job id",
		})
		return
	}

	job, err := h.store.DeleteJob(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Job not found",
			})
			return
		}
		h.logger.Error("Failed to delete job",
			slog.Int64("job_id", jobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete job",
		})
		return
	}

	h.logger.Info("Job deleted", slog.Int64("job_id", jobID))

	h.events.Emit(c.Request.Context(), events.TypeJobDeleted, events.EntityJob, jobID, dto.JobFromModel(job))

	c.JSON(http.StatusOK, dto.JobFromModel(job))
}

// AssignWorkers handles POST /jobs/:jobId/workers
// Sets the job assignment on each listed worker and returns the ids that
// were actually updated. Unknown worker ids are skipped.
func (h *JobHandler) AssignWorkers(c *gin.Context) {
	jobID, err := strconv.ParseInt(c.Param("jobId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid job id",
		})
		return
	}

	var req dto.AssignWorkersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	assigned, err := h.store.AssignWorkers(c.Request.Context(), jobID, req.WorkerIDs)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Job not found",
			})
			return
		}
		h.logger.Error("Failed to assign workers",
			slog.Int64("job_id", jobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to assign workers",
		})
		return
	}

	h.logger.Info("Workers assigned",
		slog.Int64("job_id", jobID),
		slog.Int("count", len(assigned)),
	)

	h.events.Emit(c.Request.Context(), events.TypeWorkersAssigned, events.EntityJob, jobID, gin.H{"workerIds": assigned})

	c.JSON(http.StatusOK, gin.H{
		"assigned": assigned,
	})
}
