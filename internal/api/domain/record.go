package domain

import (
	"errors"
)

const (
	JobStatusInProgress = "InProgress"
	JobStatusCompleted  = "Completed"
)

var (
	ErrJobNotFound    = errors.New("job not found")
	ErrWorkerNotFound = errors.New("worker not found")
)

// ValidJobStatus reports whether s is one of the recognized job statuses.
func ValidJobStatus(s string) bool {
	return s == JobStatusInProgress || s == JobStatusCompleted
}
