package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hirelane/jobboard/internal/core/domain"
	"github.com/hirelane/jobboard/internal/core/ports"
)

type appFixture struct {
	svc  *ApplicationService
	jobs *stubJobRepo
	apps *stubApplicationRepo
	job  *domain.Job
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()
	jobs := newStubJobRepo()
	apps := newStubApplicationRepo()

	job, err := jobs.Create(context.Background(), &domain.Job{EmployerID: acme.UserID, Title: "Backend Engineer", Status: domain.JobOpen})
	if err != nil {
		t.Fatalf("seed job: %v", err)
	}

	svc := NewApplicationService(apps, jobs, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return &appFixture{svc: svc, jobs: jobs, apps: apps, job: job}
}

func TestApplicationService_Apply_Success(t *testing.T) {
	f := newAppFixture(t)

	app, err := f.svc.Apply(context.Background(), jane, f.job.ID, ports.ApplyInput{CoverLetter: "Hire me"})
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if app.Status != domain.ApplicationPending || app.JobseekerID != jane.UserID || app.JobID != f.job.ID {
		t.Fatalf("unexpected application: %+v", app)
	}
	if !app.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected CreatedAt: %v", app.CreatedAt)
	}
}

func TestApplicationService_Apply_Twice(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Apply(ctx, jane, f.job.ID, ports.ApplyInput{}); err != nil {
		t.Fatalf("first apply failed: %v", err)
	}
	if _, err := f.svc.Apply(ctx, jane, f.job.ID, ports.ApplyInput{}); !errors.Is(err, domain.ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
}

func TestApplicationService_Apply_Rejections(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Apply(ctx, acme, f.job.ID, ports.ApplyInput{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("employer: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.Apply(ctx, jane, "missing", ports.ApplyInput{}); !errors.Is(err, domain.ErrJobNotFound) {
		t.Fatalf("missing job: expected ErrJobNotFound, got %v", err)
	}

	f.jobs.jobs[f.job.ID].Status = domain.JobClosed
	if _, err := f.svc.Apply(ctx, jane, f.job.ID, ports.ApplyInput{}); !errors.Is(err, domain.ErrJobClosed) {
		t.Fatalf("closed job: expected ErrJobClosed, got %v", err)
	}
	if len(f.apps.apps) != 0 {
		t.Fatal("no application may be stored")
	}
}

func TestApplicationService_ListMineAndHasApplied(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()

	applied, err := f.svc.HasApplied(ctx, jane, f.job.ID)
	if err != nil || applied {
		t.Fatalf("expected not applied yet, got %v, %v", applied, err)
	}

	if _, err := f.svc.Apply(ctx, jane, f.job.ID, ports.ApplyInput{}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	_, _ = f.svc.Apply(ctx, johnSmith, f.job.ID, ports.ApplyInput{})

	applied, err = f.svc.HasApplied(ctx, jane, f.job.ID)
	if err != nil || !applied {
		t.Fatalf("expected applied, got %v, %v", applied, err)
	}

	views, err := f.svc.ListMine(ctx, jane)
	if err != nil {
		t.Fatalf("ListMine returned error: %v", err)
	}
	if len(views) != 1 || views[0].Job == nil || views[0].Job.Title != "Backend Engineer" {
		t.Fatalf("unexpected views: %+v", views)
	}

	delete(f.jobs.jobs, f.job.ID)
	views, err = f.svc.ListMine(ctx, jane)
	if err != nil {
		t.Fatalf("ListMine with deleted job returned error: %v", err)
	}
	if len(views) != 1 || views[0].Job != nil {
		t.Fatalf("expected application without job, got %+v", views)
	}
}

func TestApplicationService_ListForJob(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()
	_, _ = f.svc.Apply(ctx, jane, f.job.ID, ports.ApplyInput{})
	_, _ = f.svc.Apply(ctx, johnSmith, f.job.ID, ports.ApplyInput{})

	apps, err := f.svc.ListForJob(ctx, acme, f.job.ID)
	if err != nil {
		t.Fatalf("ListForJob returned error: %v", err)
	}
	if len(apps) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(apps))
	}

	if _, err := f.svc.ListForJob(ctx, globex, f.job.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("other employer: expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.ListForJob(ctx, jane, f.job.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("jobseeker: expected ErrForbidden, got %v", err)
	}
}

func TestApplicationService_UpdateStatus(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()
	app, _ := f.svc.Apply(ctx, jane, f.job.ID, ports.ApplyInput{})

	updated, err := f.svc.UpdateStatus(ctx, acme, app.ID, "REVIEWED")
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != domain.ApplicationReviewed || f.apps.apps[app.ID].Status != domain.ApplicationReviewed {
		t.Fatalf("expected REVIEWED, got %s", updated.Status)
	}

	if _, err := f.svc.UpdateStatus(ctx, acme, app.ID, "PENDING"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	if _, err := f.svc.UpdateStatus(ctx, acme, app.ID, "ACCEPTED"); err != nil {
		t.Fatalf("REVIEWED -> ACCEPTED failed: %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, acme, app.ID, "REJECTED"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("terminal status: expected ErrInvalidTransition, got %v", err)
	}
}

func TestApplicationService_UpdateStatus_Rejections(t *testing.T) {
	f := newAppFixture(t)
	ctx := context.Background()
	app, _ := f.svc.Apply(ctx, jane, f.job.ID, ports.ApplyInput{})

	var verr *domain.ValidationError
	if _, err := f.svc.UpdateStatus(ctx, acme, app.ID, "HIRED"); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, globex, app.ID, "REVIEWED"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, acme, "missing", "REVIEWED"); !errors.Is(err, domain.ErrApplicationNotFound) {
		t.Fatalf("expected ErrApplicationNotFound, got %v", err)
	}
	if f.apps.apps[app.ID].Status != domain.ApplicationPending {
		t.Fatal("status must be unchanged")
	}
}
