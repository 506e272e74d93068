package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hirelane/jobboard/internal/core/domain"
	"github.com/hirelane/jobboard/internal/core/ports"
	"github.com/hirelane/jobboard/internal/pkg/validate"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	maxPage          = 10000
)

type JobService struct {
	jobs   ports.JobRepository
	apps   ports.ApplicationRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewJobService(jobs ports.JobRepository, apps ports.ApplicationRepository, logger zerolog.Logger) *JobService {
	return &JobService{jobs: jobs, apps: apps, logger: logger, now: time.Now}
}

// CreateJob publishes a new open posting owned by employer.
func (s *JobService) CreateJob(ctx context.Context, employer domain.SessionClaim, in ports.CreateJobInput) (*domain.Job, error) {
	if !employer.IsEmployer() {
		return nil, domain.ErrForbidden
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	in.Location = strings.TrimSpace(in.Location)
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	job, err := s.jobs.Create(ctx, &domain.Job{
		EmployerID:  employer.UserID,
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		Type:        domain.JobType(in.Type),
		Description: in.Description,
		SalaryMin:   in.SalaryMin,
		SalaryMax:   in.SalaryMax,
		Status:      domain.JobOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create job")
		return nil, fmt.Errorf("create job: %w", err)
	}

	s.logger.Info().Str("job_id", job.ID).Str("employer_id", employer.UserID).Msg("job created")
	return job, nil
}

// GetJob returns a single posting, open or closed.
func (s *JobService) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	return s.jobs.FindByID(ctx, id)
}

// ListJobs returns a page of open postings matching the search parameters.
func (s *JobService) ListJobs(ctx context.Context, in ports.ListJobsInput) (*ports.JobPage, error) {
	if in.Type != "" {
		switch domain.JobType(in.Type) {
		case domain.JobFullTime, domain.JobPartTime, domain.JobContract, domain.JobInternship:
		default:
			return nil, domain.NewValidationError("type", "type must be one of: FULL_TIME PART_TIME CONTRACT INTERNSHIP")
		}
	}

	page, limit := normalizePage(in.Page, in.Limit)
	items, total, err := s.jobs.List(ctx, ports.ListJobsFilter{
		Status:   string(domain.JobOpen),
		Search:   strings.TrimSpace(in.Search),
		Location: strings.TrimSpace(in.Location),
		Type:     in.Type,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}

	return &ports.JobPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// ListEmployerJobs returns every posting of employer with its application count.
func (s *JobService) ListEmployerJobs(ctx context.Context, employer domain.SessionClaim) ([]ports.EmployerJob, error) {
	if !employer.IsEmployer() {
		return nil, domain.ErrForbidden
	}

	jobs, _, err := s.jobs.List(ctx, ports.ListJobsFilter{EmployerID: employer.UserID})
	if err != nil {
		return nil, fmt.Errorf("list employer jobs: %w", err)
	}

	ids := make([]string, 0, len(jobs))
	for _, j := range jobs {
		ids = append(ids, j.ID)
	}
	counts, err := s.apps.CountByJobs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}

	out := make([]ports.EmployerJob, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, ports.EmployerJob{Job: j, Applications: counts[j.ID]})
	}
	return out, nil
}

// CloseJob stops a posting from accepting applications. Closing an already
// closed job is a no-op.
func (s *JobService) CloseJob(ctx context.Context, employer domain.SessionClaim, jobID string) (*domain.Job, error) {
	job, err := ownedJob(ctx, s.jobs, employer, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsOpen() {
		return job, nil
	}

	if err := s.jobs.UpdateStatus(ctx, job.ID, domain.JobClosed); err != nil {
		return nil, fmt.Errorf("close job: %w", err)
	}
	job.Status = domain.JobClosed
	job.UpdatedAt = s.now().UTC()

	s.logger.Info().Str("job_id", job.ID).Msg("job closed")
	return job, nil
}

// ownedJob loads jobID and checks that employer published it.
func ownedJob(ctx context.Context, jobs ports.JobRepository, employer domain.SessionClaim, jobID string) (*domain.Job, error) {
	if !employer.IsEmployer() {
		return nil, domain.ErrForbidden
	}
	job, err := jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.EmployerID != employer.UserID {
		return nil, domain.ErrForbidden
	}
	return job, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
