package domain

import "time"

// JobStatus enumerates job lifecycle states.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether a status has no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransition reports whether the lifecycle edge from -> to is legal.
// Transitions are strictly monotonic: pending -> processing -> completed|failed.
func CanTransition(from, to JobStatus) bool {
	switch from {
	case JobStatusPending:
		return to == JobStatusProcessing
	case JobStatusProcessing:
		return to == JobStatusCompleted || to == JobStatusFailed
	default:
		return false
	}
}

// Job encapsulates the lifecycle of one style transformation request.
// A record is created on upload and mutated exactly twice afterwards: once
// when processing starts and once when it completes or fails. Records are
// never deleted by the service.
type Job struct {
	ID               string
	SessionID        string
	OriginalFilename string
	InputPath        string
	StyleName        string
	OutputPath       *string
	Status           JobStatus
	ProcessingTime   *float64
	ErrorMessage     *string
	CreatedAt        time.Time
	CompletedAt      *time.Time
}
