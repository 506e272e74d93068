package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hirelane/jobboard/internal/core/domain"
	"github.com/hirelane/jobboard/internal/core/ports"
	"github.com/hirelane/jobboard/internal/pkg/validate"
)

type ApplicationService struct {
	apps   ports.ApplicationRepository
	jobs   ports.JobRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewApplicationService(apps ports.ApplicationRepository, jobs ports.JobRepository, logger zerolog.Logger) *ApplicationService {
	return &ApplicationService{apps: apps, jobs: jobs, logger: logger, now: time.Now}
}

// Apply submits jobseeker's application to an open job. A second
// application to the same job fails with ErrAlreadyApplied.
func (s *ApplicationService) Apply(ctx context.Context, jobseeker domain.SessionClaim, jobID string, in ports.ApplyInput) (*domain.Application, error) {
	if jobseeker.Role != domain.RoleJobseeker {
		return nil, domain.ErrForbidden
	}
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsOpen() {
		return nil, domain.ErrJobClosed
	}

	now := s.now().UTC()
	app, err := s.apps.Create(ctx, &domain.Application{
		JobID:       job.ID,
		JobseekerID: jobseeker.UserID,
		CoverLetter: in.CoverLetter,
		Status:      domain.ApplicationPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyApplied) {
			return nil, err
		}
		return nil, fmt.Errorf("apply: %w", err)
	}

	s.logger.Info().Str("application_id", app.ID).Str("job_id", job.ID).Str("jobseeker_id", jobseeker.UserID).Msg("application submitted")
	return app, nil
}

// ListMine returns the job seeker's applications joined with their jobs.
// Applications whose job disappeared are returned with a nil Job.
func (s *ApplicationService) ListMine(ctx context.Context, jobseeker domain.SessionClaim) ([]ports.ApplicationView, error) {
	apps, err := s.apps.ListByJobseeker(ctx, jobseeker.UserID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	out := make([]ports.ApplicationView, 0, len(apps))
	for _, a := range apps {
		job, err := s.jobs.FindByID(ctx, a.JobID)
		if err != nil && !errors.Is(err, domain.ErrJobNotFound) {
			return nil, fmt.Errorf("list applications: load job: %w", err)
		}
		out = append(out, ports.ApplicationView{Application: a, Job: job})
	}
	return out, nil
}

// HasApplied reports whether jobseeker already applied to jobID.
func (s *ApplicationService) HasApplied(ctx context.Context, jobseeker domain.SessionClaim, jobID string) (bool, error) {
	apps, err := s.apps.ListByJobseeker(ctx, jobseeker.UserID)
	if err != nil {
		return false, fmt.Errorf("has applied: %w", err)
	}
	for _, a := range apps {
		if a.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

// ListForJob returns the applications of a job owned by employer.
func (s *ApplicationService) ListForJob(ctx context.Context, employer domain.SessionClaim, jobID string) ([]*domain.Application, error) {
	job, err := ownedJob(ctx, s.jobs, employer, jobID)
	if err != nil {
		return nil, err
	}
	apps, err := s.apps.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("list job applications: %w", err)
	}
	return apps, nil
}

// UpdateStatus moves an application of one of employer's jobs to status,
// following the review state machine.
func (s *ApplicationService) UpdateStatus(ctx context.Context, employer domain.SessionClaim, applicationID string, status string) (*domain.Application, error) {
	next := domain.ApplicationStatus(status)
	if !next.Valid() {
		return nil, domain.NewValidationError("status", "status must be one of: PENDING REVIEWED ACCEPTED REJECTED")
	}

	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if _, err := ownedJob(ctx, s.jobs, employer, app.JobID); err != nil {
		return nil, err
	}

	if !app.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("update application: %w (from %s to %s)", domain.ErrInvalidTransition, app.Status, next)
	}

	if err := s.apps.UpdateStatus(ctx, app.ID, next); err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}
	app.Status = next
	app.UpdatedAt = s.now().UTC()

	s.logger.Info().Str("application_id", app.ID).Str("status", string(next)).Msg("application status updated")
	return app, nil
}
