package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hirelane/jobboard/internal/api/guard"
	"github.com/hirelane/jobboard/internal/core/domain"
	"github.com/hirelane/jobboard/internal/core/ports"
)

type stubAuthService struct {
	signupFn      func(ctx context.Context, in ports.SignupInput) (*ports.Session, error)
	loginFn       func(ctx context.Context, in ports.LoginInput) (*ports.Session, error)
	currentUserFn func(ctx context.Context, token string) (*domain.User, error)
	loggedOut     []string
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.Session, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.Session, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	return s.currentUserFn(ctx, token)
}

func (s *stubAuthService) Logout(_ context.Context, token, _ string) {
	s.loggedOut = append(s.loggedOut, token)
}

type stubJobService struct {
	createFn       func(ctx context.Context, employer domain.SessionClaim, in ports.CreateJobInput) (*domain.Job, error)
	getFn          func(ctx context.Context, id string) (*domain.Job, error)
	listFn         func(ctx context.Context, in ports.ListJobsInput) (*ports.JobPage, error)
	listEmployerFn func(ctx context.Context, employer domain.SessionClaim) ([]ports.EmployerJob, error)
	closeFn        func(ctx context.Context, employer domain.SessionClaim, id string) (*domain.Job, error)
}

func (s *stubJobService) CreateJob(ctx context.Context, employer domain.SessionClaim, in ports.CreateJobInput) (*domain.Job, error) {
	return s.createFn(ctx, employer, in)
}

func (s *stubJobService) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	return s.getFn(ctx, id)
}

func (s *stubJobService) ListJobs(ctx context.Context, in ports.ListJobsInput) (*ports.JobPage, error) {
	return s.listFn(ctx, in)
}

func (s *stubJobService) ListEmployerJobs(ctx context.Context, employer domain.SessionClaim) ([]ports.EmployerJob, error) {
	return s.listEmployerFn(ctx, employer)
}

func (s *stubJobService) CloseJob(ctx context.Context, employer domain.SessionClaim, id string) (*domain.Job, error) {
	return s.closeFn(ctx, employer, id)
}

type stubApplicationService struct {
	applyFn        func(ctx context.Context, js domain.SessionClaim, jobID string, in ports.ApplyInput) (*domain.Application, error)
	listMineFn     func(ctx context.Context, js domain.SessionClaim) ([]ports.ApplicationView, error)
	hasAppliedFn   func(ctx context.Context, js domain.SessionClaim, jobID string) (bool, error)
	listForJobFn   func(ctx context.Context, emp domain.SessionClaim, jobID string) ([]*domain.Application, error)
	updateStatusFn func(ctx context.Context, emp domain.SessionClaim, appID, status string) (*domain.Application, error)
}

func (s *stubApplicationService) Apply(ctx context.Context, js domain.SessionClaim, jobID string, in ports.ApplyInput) (*domain.Application, error) {
	return s.applyFn(ctx, js, jobID, in)
}

func (s *stubApplicationService) ListMine(ctx context.Context, js domain.SessionClaim) ([]ports.ApplicationView, error) {
	return s.listMineFn(ctx, js)
}

func (s *stubApplicationService) HasApplied(ctx context.Context, js domain.SessionClaim, jobID string) (bool, error) {
	return s.hasAppliedFn(ctx, js, jobID)
}

func (s *stubApplicationService) ListForJob(ctx context.Context, emp domain.SessionClaim, jobID string) ([]*domain.Application, error) {
	return s.listForJobFn(ctx, emp, jobID)
}

func (s *stubApplicationService) UpdateStatus(ctx context.Context, emp domain.SessionClaim, appID, status string) (*domain.Application, error) {
	return s.updateStatusFn(ctx, emp, appID, status)
}

var (
	employerClaim  = &domain.SessionClaim{UserID: "emp-1", Role: domain.RoleEmployer, Email: "hr@acme.io", FullName: "Acme HR"}
	jobseekerClaim = &domain.SessionClaim{UserID: "js-1", Role: domain.RoleJobseeker, Email: "jane@x.com", FullName: "Jane Doe"}
)

// newContext builds an echo context for method/target with an optional JSON
// body and session claim. Path parameters are given as name, value pairs.
func newContext(method, target, body string, claim *domain.SessionClaim, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if claim != nil {
		guard.WithClaim(c, claim)
	}
	if len(params) > 0 {
		var names, values []string
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return c, rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}
