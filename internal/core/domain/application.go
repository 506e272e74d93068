package domain

import (
	"errors"
	"time"
)

// ApplicationStatus represents the review state of a job application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationReviewed ApplicationStatus = "REVIEWED"
	ApplicationAccepted ApplicationStatus = "ACCEPTED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// validTransitions defines the allowed review state machine transitions.
var validTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending:  {ApplicationReviewed, ApplicationAccepted, ApplicationRejected},
	ApplicationReviewed: {ApplicationAccepted, ApplicationRejected},
}

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrApplicationNotFound = errors.New("application not found")
var ErrAlreadyApplied = errors.New("already applied to this job")

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationReviewed, ApplicationAccepted, ApplicationRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Application is a job seeker's submission to a job posting.
type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"jobId"`
	JobseekerID string            `json:"jobseekerId"`
	CoverLetter string            `json:"coverLetter,omitempty"`
	Status      ApplicationStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}
