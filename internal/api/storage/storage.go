package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/crewtrackhq/crewtrack-be/internal/api/domain"
	"github.com/crewtrackhq/crewtrack-be/internal/api/model"
	"github.com/crewtrackhq/crewtrack-be/shared/postgresql"
	"github.com/jmoiron/sqlx"
)

type Storage struct {
	db *sqlx.DB
}

func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{
		db: pg.GetDB(),
	}
}

// EnsureSchema creates the jobs and workers tables if they do not exist.
// Called once at startup before the server accepts requests.
func (s *Storage) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id         BIGSERIAL PRIMARY KEY,
			name       VARCHAR(50) NOT NULL,
			customer   VARCHAR(50) NOT NULL,
			start_date DATE,
			end_date   DATE,
			status     VARCHAR(20)
		)`,
		`CREATE TABLE IF NOT EXISTS workers (
			id     BIGSERIAL PRIMARY KEY,
			name   VARCHAR(50) NOT NULL,
			role   VARCHAR(50) NOT NULL,
			job_id BIGINT
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	return nil
}

// jobSortColumns is the allow-list of client-facing sort keys. Sort fields
// resolve only through this map, never by reflecting on column names.
var jobSortColumns = map[string]string{
	"name":      "name",
	"customer":  "customer",
	"startDate": "start_date",
	"endDate":   "end_date",
	"status":    "status",
}

// JobSortColumn maps a client-facing sort key to its column name. The second
// return value is false for keys outside the allowed set.
func JobSortColumn(field string) (string, bool) {
	col, ok := jobSortColumns[field]
	return col, ok
}

func (s *Storage) CreateJob(ctx context.Context, job *model.Job) error {
	query := `
		INSERT INTO jobs (name, customer, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := s.db.QueryRowxContext(
		ctx,
		query,
		job.Name,
		job.Customer,
		job.StartDate,
		job.EndDate,
		job.Status,
	).Scan(&job.ID)

	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// CreateJobs inserts every job in one transaction. Either all rows become
// durable or none do.
func (s *Storage) CreateJobs(ctx context.Context, jobs []model.Job) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO jobs (name, customer, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5)
	`

	for i := range jobs {
		job := &jobs[i]
		if _, err := tx.ExecContext(ctx, query, job.Name, job.Customer, job.StartDate, job.EndDate, job.Status); err != nil {
			return 0, fmt.Errorf("failed to create job %q: %w", job.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit jobs: %w", err)
	}

	return len(jobs), nil
}

type JobFilter struct {
	Name       string
	Customer   string
	StartAfter *time.Time
	EndBefore  *time.Time
	Status     string
	SortColumn string // must come from JobSortColumn
	SortDesc   bool
	Limit      int
	Offset     int
}

func buildListJobsQuery(filter JobFilter) (string, []interface{}) {
	query := `
		SELECT id, name, customer, start_date, end_date, status
		FROM jobs
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.Name != "" {
		query += fmt.Sprintf(" AND name = $%d", argIdx)
		args = append(args, filter.Name)
		argIdx++
	}

	if filter.Customer != "" {
		query += fmt.Sprintf(" AND customer = $%d", argIdx)
		args = append(args, filter.Customer)
		argIdx++
	}

	if filter.StartAfter != nil {
		query += fmt.Sprintf(" AND start_date >= $%d", argIdx)
		args = append(args, *filter.StartAfter)
		argIdx++
	}

	if filter.EndBefore != nil {
		query += fmt.Sprintf(" AND end_date <= $%d", argIdx)
		args = append(args, *filter.EndBefore)
		argIdx++
	}

	if filter.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	// Tie-break on id so pagination stays stable across pages
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id %s", filter.SortColumn, direction, direction)

	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	return query, args
}

func (s *Storage) ListJobs(ctx context.Context, filter JobFilter) ([]model.Job, error) {
	query, args := buildListJobsQuery(filter)

	jobs := []model.Job{}
	err := s.db.SelectContext(ctx, &jobs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	return jobs, nil
}

func (s *Storage) GetJobByID(ctx context.Context, id int64) (*model.Job, error) {
	var job model.Job
	query := `
		SELECT id, name, customer, start_date, end_date, status
		FROM jobs
		WHERE id = $1
	`

	err := s.db.GetContext(ctx, &job, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

func (s *Storage) JobExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`

	err := s.db.GetContext(ctx, &exists, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to check job existence: %w", err)
	}

	return exists, nil
}

// DeleteJob removes a job and clears the job_id on any workers that were
// assigned to it, in one transaction. Returns the deleted row, or
// domain.ErrJobNotFound when no job with that id exists.
func (s *Storage) DeleteJob(ctx context.Context, id int64) (*model.Job, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var job model.Job
	query := `
		DELETE FROM jobs
		WHERE id = $1
		RETURNING id, name, customer, start_date, end_date, status
	`

	err = tx.QueryRowxContext(ctx, query, id).StructScan(&job)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to delete job: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE workers SET job_id = NULL WHERE job_id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to unassign workers: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit job deletion: %w", err)
	}

	return &job, nil
}

func (s *Storage) CreateWorker(ctx context.Context, worker *model.Worker) error {
	query := `
		INSERT INTO workers (name, role, job_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := s.db.QueryRowxContext(ctx, query, worker.Name, worker.Role, worker.JobID).Scan(&worker.ID)
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}

	return nil
}

// CreateWorkers inserts every worker in one transaction.
func (s *Storage) CreateWorkers(ctx context.Context, workers []model.Worker) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO workers (name, role, job_id)
		VALUES ($1, $2, $3)
	`

	for i := range workers {
		worker := &workers[i]
		if _, err := tx.ExecContext(ctx, query, worker.Name, worker.Role, worker.JobID); err != nil {
			return 0, fmt.Errorf("failed to create worker %q: %w", worker.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit workers: %w", err)
	}

	return len(workers), nil
}

type WorkerFilter struct {
	Name   string
	Role   string
	JobID  *int64
	Limit  int
	Offset int
}

func buildListWorkersQuery(filter WorkerFilter) (string, []interface{}) {
	query := `
		SELECT id, name, role, job_id
		FROM workers
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.Name != "" {
		query += fmt.Sprintf(" AND name = $%d", argIdx)
		args = append(args, filter.Name)
		argIdx++
	}

	if filter.Role != "" {
		query += fmt.Sprintf(" AND role = $%d", argIdx)
		args = append(args, filter.Role)
		argIdx++
	}

	if filter.JobID != nil {
		query += fmt.Sprintf(" AND job_id = $%d", argIdx)
		args = append(args, *filter.JobID)
		argIdx++
	}

	query += " ORDER BY id ASC"

	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	return query, args
}

func (s *Storage) ListWorkers(ctx context.Context, filter WorkerFilter) ([]model.Worker, error) {
	query, args := buildListWorkersQuery(filter)

	workers := []model.Worker{}
	err := s.db.SelectContext(ctx, &workers, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}

	return workers, nil
}

// AssignWorkers sets job_id on each listed worker inside one transaction and
// returns the ids of the workers that were actually updated. Returns
// domain.ErrJobNotFound when the target job does not exist.
func (s *Storage) AssignWorkers(ctx context.Context, jobID int64, workerIDs []int64) ([]int64, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM jobs WHERE id = $1)`, jobID); err != nil {
		return nil, fmt.Errorf("failed to check job existence: %w", err)
	}
	if !exists {
		return nil, domain.ErrJobNotFound
	}

	assigned := make([]int64, 0, len(workerIDs))
	query := `UPDATE workers SET job_id = $1 WHERE id = $2 RETURNING id`

	for _, workerID := range workerIDs {
		var id int64
		err := tx.QueryRowxContext(ctx, query, jobID, workerID).Scan(&id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Unknown worker ids are skipped, not fatal
				continue
			}
			return nil, fmt.Errorf("failed to assign worker %d: %w", workerID, err)
		}
		assigned = append(assigned, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit assignment: %w", err)
	}

	return assigned, nil
}
