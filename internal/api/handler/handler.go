package handler

import (
	"context"
	"log/slog"

	"github.com/crewtrackhq/crewtrack-be/internal/api/model"
	"github.com/crewtrackhq/crewtrack-be/internal/api/storage"
	"github.com/crewtrackhq/crewtrack-be/internal/events"
)

// Store is the persistence surface the handlers depend on. Implemented by
// *storage.Storage; tests swap in a fake.
type Store interface {
	CreateJob(ctx context.Context, job *model.Job) error
	CreateJobs(ctx context.Context, jobs []model.Job) (int, error)
	ListJobs(ctx context.Context, filter storage.JobFilter) ([]model.Job, error)
	DeleteJob(ctx context.Context, id int64) (*model.Job, error)
	JobExists(ctx context.Context, id int64) (bool, error)
	AssignWorkers(ctx context.Context, jobID int64, workerIDs []int64) ([]int64, error)

	CreateWorker(ctx context.Context, worker *model.Worker) error
	CreateWorkers(ctx context.Context, workers []model.Worker) (int, error)
	ListWorkers(ctx context.Context, filter storage.WorkerFilter) ([]model.Worker, error)
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger *slog.Logger
	Store  Store
	Events *events.Publisher
}

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger *slog.Logger
	store  Store
	events *events.Publisher
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger: deps.Logger,
		store:  deps.Store,
		events: deps.Events,
	}
}

// WorkerHandler handles worker-related HTTP requests
type WorkerHandler struct {
	logger *slog.Logger
	store  Store
	events *events.Publisher
}

// NewWorkerHandler creates a new WorkerHandler instance
func NewWorkerHandler(deps *Dependencies) *WorkerHandler {
	return &WorkerHandler{
		logger: deps.Logger,
		store:  deps.Store,
		events: deps.Events,
	}
}

const (
	defaultPage  = 1
	defaultLimit = 100
	maxFieldLen  = 50
)
