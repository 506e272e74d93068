package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/hirelane/jobboard/internal/core/domain"
	"github.com/hirelane/jobboard/internal/core/ports"
)

func openJobs() *stubJobService {
	return &stubJobService{
		listFn: func(_ context.Context, in ports.ListJobsInput) (*ports.JobPage, error) {
			return &ports.JobPage{Items: []*domain.Job{{ID: "j1"}}, Total: 1, Page: in.Page, Limit: in.Limit, TotalPages: 1}, nil
		},
		getFn: func(_ context.Context, id string) (*domain.Job, error) {
			return &domain.Job{ID: id, Status: domain.JobOpen}, nil
		},
	}
}

func TestPageHandler_Home(t *testing.T) {
	h := NewPageHandler(openJobs(), &stubApplicationService{})

	c, rec := newContext(http.MethodGet, "/", "", nil)
	if err := h.Home(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["page"] != "home" {
		t.Fatalf("unexpected page: %v", resp)
	}
	if _, ok := resp["viewer"]; ok {
		t.Fatal("anonymous visitor must not have a viewer")
	}

	c, rec = newContext(http.MethodGet, "/", "", employerClaim)
	if err := h.Home(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var signedIn homePage
	_ = json.Unmarshal(rec.Body.Bytes(), &signedIn)
	if signedIn.Viewer == nil || signedIn.Viewer.Dashboard != "/employer/dashboard" {
		t.Fatalf("unexpected viewer: %+v", signedIn.Viewer)
	}
}

func TestPageHandler_Job_JobseekerSeesApplyState(t *testing.T) {
	apps := &stubApplicationService{
		hasAppliedFn: func(_ context.Context, _ domain.SessionClaim, jobID string) (bool, error) {
			return jobID == "j1", nil
		},
	}
	h := NewPageHandler(openJobs(), apps)

	c, rec := newContext(http.MethodGet, "/job/j1", "", jobseekerClaim, "id", "j1")
	if err := h.Job(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp jobPage
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.HasApplied || resp.CanApply {
		t.Fatalf("expected applied and not re-appliable, got %+v", resp)
	}

	c, rec = newContext(http.MethodGet, "/job/j2/apply", "", jobseekerClaim, "id", "j2")
	if err := h.Apply(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	resp = jobPage{}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Page != "apply" || resp.HasApplied || !resp.CanApply {
		t.Fatalf("expected appliable job, got %+v", resp)
	}
}

func TestPageHandler_JobseekerDashboard(t *testing.T) {
	apps := &stubApplicationService{
		listMineFn: func(context.Context, domain.SessionClaim) ([]ports.ApplicationView, error) {
			return []ports.ApplicationView{
				{Application: &domain.Application{ID: "a1", Status: domain.ApplicationPending}},
				{Application: &domain.Application{ID: "a2", Status: domain.ApplicationPending}},
				{Application: &domain.Application{ID: "a3", Status: domain.ApplicationAccepted}},
			}, nil
		},
	}
	h := NewPageHandler(openJobs(), apps)

	c, rec := newContext(http.MethodGet, "/jobseeker/dashboard", "", jobseekerClaim)
	if err := h.JobseekerDashboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp jobseekerDashboard
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Stats.Total != 3 || resp.Stats.Pending != 2 || resp.Stats.Accepted != 1 {
		t.Fatalf("unexpected stats: %+v", resp.Stats)
	}
}

func TestPageHandler_JobseekerDashboard_EmployerRedirected(t *testing.T) {
	h := NewPageHandler(openJobs(), &stubApplicationService{})

	c, rec := newContext(http.MethodGet, "/jobseeker/dashboard", "", employerClaim)
	if err := h.JobseekerDashboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusTemporaryRedirect || rec.Header().Get("Location") != "/employer/dashboard" {
		t.Fatalf("expected 307 to /employer/dashboard, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestPageHandler_EmployerDashboard(t *testing.T) {
	jobs := openJobs()
	jobs.listEmployerFn = func(context.Context, domain.SessionClaim) ([]ports.EmployerJob, error) {
		return []ports.EmployerJob{
			{Job: &domain.Job{ID: "j1", Status: domain.JobOpen}, Applications: 4},
			{Job: &domain.Job{ID: "j2", Status: domain.JobClosed}, Applications: 1},
		}, nil
	}
	h := NewPageHandler(jobs, &stubApplicationService{})

	c, rec := newContext(http.MethodGet, "/employer/dashboard", "", employerClaim)
	if err := h.EmployerDashboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp employerDashboard
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Stats.OpenJobs != 1 || resp.Stats.ClosedJobs != 1 || resp.Stats.TotalApplications != 5 {
		t.Fatalf("unexpected stats: %+v", resp.Stats)
	}
}

func TestPageHandler_DashboardRequiresSession(t *testing.T) {
	h := NewPageHandler(openJobs(), &stubApplicationService{})

	c, _ := newContext(http.MethodGet, "/employer/dashboard", "", nil)
	if err := h.EmployerDashboard(c); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}
