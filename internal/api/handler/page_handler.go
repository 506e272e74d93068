package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hirelane/jobboard/internal/core/domain"
	"github.com/hirelane/jobboard/internal/core/ports"
)

const featuredJobs = 6

// PageHandler renders the JSON view models behind the site's pages. Access
// control is the route guard's job; these handlers only shape data.
type PageHandler struct {
	jobs ports.JobService
	apps ports.ApplicationService
}

func NewPageHandler(jobs ports.JobService, apps ports.ApplicationService) *PageHandler {
	return &PageHandler{jobs: jobs, apps: apps}
}

type viewer struct {
	ID        string      `json:"id"`
	FullName  string      `json:"fullName"`
	Role      domain.Role `json:"role"`
	Dashboard string      `json:"dashboard"`
}

type homePage struct {
	Page     string        `json:"page"`
	Viewer   *viewer       `json:"viewer,omitempty"`
	Featured []*domain.Job `json:"featuredJobs"`
}

type authPage struct {
	Page  string        `json:"page"`
	Roles []domain.Role `json:"roles"`
}

type jobsPage struct {
	Page   string          `json:"page"`
	Viewer *viewer         `json:"viewer,omitempty"`
	Jobs   jobListResponse `json:"jobs"`
}

type jobPage struct {
	Page       string      `json:"page"`
	Viewer     *viewer     `json:"viewer,omitempty"`
	Job        *domain.Job `json:"job"`
	CanApply   bool        `json:"canApply"`
	HasApplied bool        `json:"hasApplied"`
}

type applicationStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Reviewed int `json:"reviewed"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
}

type jobseekerDashboard struct {
	Page         string            `json:"page"`
	Viewer       *viewer           `json:"viewer"`
	Stats        applicationStats  `json:"stats"`
	Applications []applicationItem `json:"applications"`
}

type employerStats struct {
	OpenJobs          int   `json:"openJobs"`
	ClosedJobs        int   `json:"closedJobs"`
	TotalApplications int64 `json:"totalApplications"`
}

type employerDashboard struct {
	Page   string            `json:"page"`
	Viewer *viewer           `json:"viewer"`
	Stats  employerStats     `json:"stats"`
	Jobs   []employerJobItem `json:"jobs"`
}

func toViewer(claim *domain.SessionClaim) *viewer {
	if claim == nil {
		return nil
	}
	return &viewer{
		ID:        claim.UserID,
		FullName:  claim.FullName,
		Role:      claim.Role,
		Dashboard: claim.Role.DashboardPath(),
	}
}

// Home handles GET /.
func (h *PageHandler) Home(c echo.Context) error {
	page, err := h.jobs.ListJobs(c.Request().Context(), ports.ListJobsInput{Page: 1, Limit: featuredJobs})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, homePage{
		Page:     "home",
		Viewer:   toViewer(optionalClaim(c)),
		Featured: toJobList(page).Items,
	})
}

// Login handles GET /login. Signed-in visitors never get here.
func (h *PageHandler) Login(c echo.Context) error {
	return c.JSON(http.StatusOK, authPage{Page: "login", Roles: []domain.Role{domain.RoleJobseeker, domain.RoleEmployer}})
}

// Signup handles GET /signup.
func (h *PageHandler) Signup(c echo.Context) error {
	return c.JSON(http.StatusOK, authPage{Page: "signup", Roles: []domain.Role{domain.RoleJobseeker, domain.RoleEmployer}})
}

// Jobs handles GET /jobs with the same query parameters as GET /api/jobs.
func (h *PageHandler) Jobs(c echo.Context) error {
	in, err := listJobsInput(c)
	if err != nil {
		return err
	}
	page, err := h.jobs.ListJobs(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobsPage{Page: "jobs", Viewer: toViewer(optionalClaim(c)), Jobs: toJobList(page)})
}

// Job handles GET /job/:id.
func (h *PageHandler) Job(c echo.Context) error {
	return h.job(c, "job")
}

// Apply handles GET /job/:id/apply. The guard only lets signed-in visitors through.
func (h *PageHandler) Apply(c echo.Context) error {
	return h.job(c, "apply")
}

func (h *PageHandler) job(c echo.Context, name string) error {
	ctx := c.Request().Context()
	job, err := h.jobs.GetJob(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	claim := optionalClaim(c)
	view := jobPage{Page: name, Viewer: toViewer(claim), Job: job}
	if claim != nil && claim.Role == domain.RoleJobseeker {
		applied, err := h.apps.HasApplied(ctx, *claim, job.ID)
		if err != nil {
			return err
		}
		view.HasApplied = applied
		view.CanApply = job.IsOpen() && !applied
	}
	return c.JSON(http.StatusOK, view)
}

// JobseekerDashboard handles GET /jobseeker/dashboard. Employers are sent
// to their own dashboard.
func (h *PageHandler) JobseekerDashboard(c echo.Context) error {
	claim, err := sessionClaim(c)
	if err != nil {
		return err
	}
	if claim.Role != domain.RoleJobseeker {
		return c.Redirect(http.StatusTemporaryRedirect, claim.Role.DashboardPath())
	}

	views, err := h.apps.ListMine(c.Request().Context(), claim)
	if err != nil {
		return err
	}

	stats := applicationStats{Total: len(views)}
	for _, v := range views {
		switch v.Application.Status {
		case domain.ApplicationPending:
			stats.Pending++
		case domain.ApplicationReviewed:
			stats.Reviewed++
		case domain.ApplicationAccepted:
			stats.Accepted++
		case domain.ApplicationRejected:
			stats.Rejected++
		}
	}

	return c.JSON(http.StatusOK, jobseekerDashboard{
		Page:         "jobseeker_dashboard",
		Viewer:       toViewer(&claim),
		Stats:        stats,
		Applications: toApplicationItems(views),
	})
}

// EmployerDashboard handles GET /employer/dashboard.
func (h *PageHandler) EmployerDashboard(c echo.Context) error {
	claim, err := sessionClaim(c)
	if err != nil {
		return err
	}

	jobs, err := h.jobs.ListEmployerJobs(c.Request().Context(), claim)
	if err != nil {
		return err
	}

	var stats employerStats
	for _, j := range jobs {
		if j.Job.IsOpen() {
			stats.OpenJobs++
		} else {
			stats.ClosedJobs++
		}
		stats.TotalApplications += j.Applications
	}

	return c.JSON(http.StatusOK, employerDashboard{
		Page:   "employer_dashboard",
		Viewer: toViewer(&claim),
		Stats:  stats,
		Jobs:   toEmployerJobItems(jobs),
	})
}
