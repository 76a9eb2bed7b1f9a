package handler

import (
	"context"

	"github.com/crewtrackhq/crewtrack-be/internal/api/domain"
	"github.com/crewtrackhq/crewtrack-be/internal/api/model"
	"github.com/crewtrackhq/crewtrack-be/internal/api/storage"
)

// fakeStore is an in-memory Store for handler tests. It records the filters
// it receives so tests can assert on pagination and sorting.
type fakeStore struct {
	jobs    []model.Job
	workers []model.Worker
	nextID  int64

	lastJobFilter    *storage.JobFilter
	lastWorkerFilter *storage.WorkerFilter

	createJobCalls    int
	createJobsCalls   int
	createWorkerCalls int

	err error
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1}
}

func (f *fakeStore) CreateJob(ctx context.Context, job *model.Job) error {
	if f.err != nil {
		return f.err
	}
	f.createJobCalls++
	job.ID = f.nextID
	f.nextID++
	f.jobs = append(f.jobs, *job)
	return nil
}

func (f *fakeStore) CreateJobs(ctx context.Context, jobs []model.Job) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.createJobsCalls++
	for i := range jobs {
		jobs[i].ID = f.nextID
		f.nextID++
		f.jobs = append(f.jobs, jobs[i])
	}
	return len(jobs), nil
}

func (f *fakeStore) ListJobs(ctx context.Context, filter storage.JobFilter) ([]model.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastJobFilter = &filter
	return f.jobs, nil
}

func (f *fakeStore) DeleteJob(ctx context.Context, id int64) (*model.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.jobs {
		if f.jobs[i].ID == id {
			job := f.jobs[i]
			f.jobs = append(f.jobs[:i], f.jobs[i+1:]...)
			return &job, nil
		}
	}
	return nil, domain.ErrJobNotFound
}

func (f *fakeStore) JobExists(ctx context.Context, id int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for i := range f.jobs {
		if f.jobs[i].ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) AssignWorkers(ctx context.Context, jobID int64, workerIDs []int64) ([]int64, error) {
	if f.err != nil {
		return nil, f.err
	}
	exists, _ := f.JobExists(ctx, jobID)
	if !exists {
		return nil, domain.ErrJobNotFound
	}

	assigned := []int64{}
	for _, workerID := range workerIDs {
		for i := range f.workers {
			if f.workers[i].ID == workerID {
				id := jobID
				f.workers[i].JobID = &id
				assigned = append(assigned, workerID)
			}
		}
	}
	return assigned, nil
}

func (f *fakeStore) CreateWorker(ctx context.Context, worker *model.Worker) error {
	if f.err != nil {
		return f.err
	}
	f.createWorkerCalls++
	worker.ID = f.nextID
	f.nextID++
	f.workers = append(f.workers, *worker)
	return nil
}

func (f *fakeStore) CreateWorkers(ctx context.Context, workers []model.Worker) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	for i := range workers {
		workers[i].ID = f.nextID
		f.nextID++
		f.workers = append(f.workers, workers[i])
	}
	return len(workers), nil
}

func (f *fakeStore) ListWorkers(ctx context.Context, filter storage.WorkerFilter) ([]model.Worker, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastWorkerFilter = &filter
	return f.workers, nil
}
