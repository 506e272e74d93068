package domain

import (
	"errors"
	"time"
)

// JobType is the employment type of a posting.
type JobType string

const (
	JobFullTime   JobType = "FULL_TIME"
	JobPartTime   JobType = "PART_TIME"
	JobContract   JobType = "CONTRACT"
	JobInternship JobType = "INTERNSHIP"
)

// JobStatus tells whether a posting still accepts applications.
type JobStatus string

const (
	JobOpen   JobStatus = "OPEN"
	JobClosed JobStatus = "CLOSED"
)

var ErrJobNotFound = errors.New("job not found")
var ErrJobClosed = errors.New("job is closed")

// Job is a posting published by an employer.
type Job struct {
	ID          string    `json:"id"`
	EmployerID  string    `json:"employerId"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Type        JobType   `json:"type"`
	Description string    `json:"description"`
	SalaryMin   int64     `json:"salaryMin,omitempty"`
	SalaryMax   int64     `json:"salaryMax,omitempty"`
	Status      JobStatus `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// IsOpen reports whether the job accepts new applications.
func (j *Job) IsOpen() bool {
	return j.Status == JobOpen
}
