package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hirelane/jobboard/internal/api/metrics"
	"github.com/hirelane/jobboard/internal/core/ports"
)

// EmployerHandler serves the employer-only job and application endpoints.
type EmployerHandler struct {
	jobs ports.JobService
	apps ports.ApplicationService
}

func NewEmployerHandler(jobs ports.JobService, apps ports.ApplicationService) *EmployerHandler {
	return &EmployerHandler{jobs: jobs, apps: apps}
}

// CreateJob handles POST /api/employer/jobs.
//
// @Summary      Publish a job
// @Tags         employer
// @Accept       json
// @Produce      json
// @Param        body  body      createJobRequest  true  "Job posting"
// @Success      201   {object}  jobResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/employer/jobs [post]
func (h *EmployerHandler) CreateJob(c echo.Context) error {
	claim, err := sessionClaim(c)
	if err != nil {
		return err
	}

	var req createJobRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	job, err := h.jobs.CreateJob(c.Request().Context(), claim, ports.CreateJobInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Type:        req.Type,
		Description: req.Description,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
	})
	if err != nil {
		return err
	}

	metrics.JobsCreatedTotal.WithLabelValues(string(job.Type)).Inc()
	return c.JSON(http.StatusCreated, jobResponse{Job: job})
}

// ListJobs handles GET /api/employer/jobs.
//
// @Summary      List my postings
// @Tags         employer
// @Produce      json
// @Success      200  {object}  employerJobListResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/employer/jobs [get]
func (h *EmployerHandler) ListJobs(c echo.Context) error {
	claim, err := sessionClaim(c)
	if err != nil {
		return err
	}

	jobs, err := h.jobs.ListEmployerJobs(c.Request().Context(), claim)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, employerJobListResponse{Items: toEmployerJobItems(jobs)})
}

// CloseJob handles POST /api/employer/jobs/:id/close.
//
// @Summary      Close a posting
// @Tags         employer
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  jobResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/employer/jobs/{id}/close [post]
func (h *EmployerHandler) CloseJob(c echo.Context) error {
	claim, err := sessionClaim(c)
	if err != nil {
		return err
	}

	job, err := h.jobs.CloseJob(c.Request().Context(), claim, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobResponse{Job: job})
}

// ListApplications handles GET /api/employer/jobs/:id/applications.
//
// @Summary      List applications of a posting
// @Tags         employer
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  jobApplicationListResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/employer/jobs/{id}/applications [get]
func (h *EmployerHandler) ListApplications(c echo.Context) error {
	claim, err := sessionClaim(c)
	if err != nil {
		return err
	}

	apps, err := h.apps.ListForJob(c.Request().Context(), claim, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobApplicationListResponse{Items: apps})
}

// UpdateApplicationStatus handles PATCH /api/employer/applications/:id/status.
//
// @Summary      Review an application
// @Tags         employer
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Application ID"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  applicationResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/employer/applications/{id}/status [patch]
func (h *EmployerHandler) UpdateApplicationStatus(c echo.Context) error {
	claim, err := sessionClaim(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	app, err := h.apps.UpdateStatus(c.Request().Context(), claim, c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, applicationResponse{Application: app})
}
