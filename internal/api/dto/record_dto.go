package dto

import (
	"time"

	"github.com/crewtrackhq/crewtrack-be/internal/api/model"
)

// CreateJobRequest is the JSON body for POST /jobs/ and the element type
// for POST /jobs/bulk/. Required-field checks happen in the handler so the
// response carries the per-field detail message instead of a binding error.
type CreateJobRequest struct {
	Name      string  `json:"name"`
	Customer  string  `json:"customer"`
	StartDate *Date   `json:"startDate"`
	EndDate   *Date   `json:"endDate"`
	Status    *string `json:"status"`
}

// CreateWorkerRequest is the JSON body for POST /workers/ and the element
// type for POST /workers/bulk/.
type CreateWorkerRequest struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	JobID *int64 `json:"jobId"`
}

// ListJobsRequest carries the query parameters for GET /jobs/.
type ListJobsRequest struct {
	Name       string    `form:"name"`
	Customer   string    `form:"customer"`
	StartAfter time.Time `form:"startAfter" time_format:"2006-01-02" time_utc:"1"`
	EndBefore  time.Time `form:"endBefore" time_format:"2006-01-02" time_utc:"1"`
	Status     string    `form:"status"`
	Page       int       `form:"page"`
	Limit      int       `form:"limit"`
	SortBy     string    `form:"sort_by"`
	SortOrder  string    `form:"sort_order"`
}

// ListWorkersRequest carries the query parameters for GET /workers/.
type ListWorkersRequest struct {
	Name  string `form:"name"`
	Role  string `form:"role"`
	JobID *int64 `form:"jobId"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

// AssignWorkersRequest is the JSON body for POST /jobs/:jobId/workers.
type AssignWorkersRequest struct {
	WorkerIDs []int64 `json:"workerIds" binding:"required"`
}

type JobResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Customer  string  `json:"customer"`
	StartDate *Date   `json:"startDate"`
	EndDate   *Date   `json:"endDate"`
	Status    *string `json:"status"`
}

type WorkerResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	JobID *int64 `json:"jobId"`
}

// JobFromModel shapes a stored job for the wire.
func JobFromModel(job *model.Job) JobResponse {
	resp := JobResponse{
		ID:       job.ID,
		Name:     job.Name,
		Customer: job.Customer,
		Status:   job.Status,
	}
	if job.StartDate != nil {
		d := NewDate(*job.StartDate)
		resp.StartDate = &d
	}
	if job.EndDate != nil {
		d := NewDate(*job.EndDate)
		resp.EndDate = &d
	}
	return resp
}

// WorkerFromModel shapes a stored worker for the wire.
func WorkerFromModel(worker *model.Worker) WorkerResponse {
	return WorkerResponse{
		ID:    worker.ID,
		Name:  worker.Name,
		Role:  worker.Role,
		JobID: worker.JobID,
	}
}
