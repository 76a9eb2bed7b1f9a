package model

import "time"

type Job struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	Customer  string     `db:"customer"`
	StartDate *time.Time `db:"start_date"`
	EndDate   *time.Time `db:"end_date"`
	Status    *string    `db:"status"`
}

type Worker struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Role  string `db:"role"`
	JobID *int64 `db:"job_id"`
}
