package ports

import (
	"context"

	"github.com/hirelane/jobboard/internal/core/domain"
)

// ListJobsFilter carries all query parameters for listing jobs.
type ListJobsFilter struct {
	EmployerID string // empty = all employers
	Status     string // empty = any status
	Search     string // optional: partial match on title, company or description
	Location   string // optional: partial match on location
	Type       string // optional: exact job type
	Page       int    // 1-based
	Limit      int    // max rows per page (capped at 100 by service)
}

// JobRepository defines persistence operations for job postings.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) (*domain.Job, error)
	FindByID(ctx context.Context, id string) (*domain.Job, error)
	// List returns a page of jobs matching filter and the total count.
	List(ctx context.Context, filter ListJobsFilter) ([]*domain.Job, int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.JobStatus) error
}

// ApplicationRepository defines persistence operations for applications.
type ApplicationRepository interface {
	// Create returns domain.ErrAlreadyApplied when the job seeker already
	// applied to the job.
	Create(ctx context.Context, app *domain.Application) (*domain.Application, error)
	FindByID(ctx context.Context, id string) (*domain.Application, error)
	ListByJobseeker(ctx context.Context, jobseekerID string) ([]*domain.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]*domain.Application, error)
	// CountByJobs returns the number of applications per job ID.
	CountByJobs(ctx context.Context, jobIDs []string) (map[string]int64, error)
	UpdateStatus(ctx context.Context, id string, status domain.ApplicationStatus) error
}
