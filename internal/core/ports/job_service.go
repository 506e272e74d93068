package ports

import (
	"context"

	"github.com/hirelane/jobboard/internal/core/domain"
)

// CreateJobInput carries the data of a new job posting.
type CreateJobInput struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Company     string `json:"company"     validate:"required,max=200"`
	Location    string `json:"location"    validate:"required,max=200"`
	Type        string `json:"type"        validate:"required,oneof=FULL_TIME PART_TIME CONTRACT INTERNSHIP"`
	Description string `json:"description" validate:"required"`
	SalaryMin   int64  `json:"salaryMin"   validate:"gte=0"`
	SalaryMax   int64  `json:"salaryMax"   validate:"gte=0,gtefield=SalaryMin"`
}

// ListJobsInput carries the public job search parameters.
type ListJobsInput struct {
	Search   string
	Location string
	Type     string
	Page     int
	Limit    int
}

// JobPage is a page of job postings.
type JobPage struct {
	Items      []*domain.Job
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// EmployerJob is a posting annotated with its application count.
type EmployerJob struct {
	Job          *domain.Job
	Applications int64
}

// JobService defines the job posting use cases.
type JobService interface {
	CreateJob(ctx context.Context, employer domain.SessionClaim, in CreateJobInput) (*domain.Job, error)
	GetJob(ctx context.Context, id string) (*domain.Job, error)
	ListJobs(ctx context.Context, in ListJobsInput) (*JobPage, error)
	ListEmployerJobs(ctx context.Context, employer domain.SessionClaim) ([]EmployerJob, error)
	CloseJob(ctx context.Context, employer domain.SessionClaim, jobID string) (*domain.Job, error)
}

// ApplyInput carries a job seeker's application.
type ApplyInput struct {
	CoverLetter string `json:"coverLetter" validate:"max=5000"`
}

// ApplicationView is an application joined with its job posting.
type ApplicationView struct {
	Application *domain.Application
	Job         *domain.Job
}

// ApplicationService defines the application use cases.
type ApplicationService interface {
	Apply(ctx context.Context, jobseeker domain.SessionClaim, jobID string, in ApplyInput) (*domain.Application, error)
	ListMine(ctx context.Context, jobseeker domain.SessionClaim) ([]ApplicationView, error)
	HasApplied(ctx context.Context, jobseeker domain.SessionClaim, jobID string) (bool, error)
	ListForJob(ctx context.Context, employer domain.SessionClaim, jobID string) ([]*domain.Application, error)
	UpdateStatus(ctx context.Context, employer domain.SessionClaim, applicationID string, status string) (*domain.Application, error)
}
