package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hirelane/jobboard/internal/api/metrics"
	"github.com/hirelane/jobboard/internal/core/ports"
)

// JobHandler serves the public job listing and the job seeker endpoints.
type JobHandler struct {
	jobs ports.JobService
	apps ports.ApplicationService
}

func NewJobHandler(jobs ports.JobService, apps ports.ApplicationService) *JobHandler {
	return &JobHandler{jobs: jobs, apps: apps}
}

// List handles GET /api/jobs.
//
// @Summary      Search open jobs
// @Tags         jobs
// @Produce      json
// @Param        q         query     string  false  "Text matched against title, company and description"
// @Param        location  query     string  false  "Location substring"
// @Param        type      query     string  false  "FULL_TIME, PART_TIME, CONTRACT or INTERNSHIP"
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Page size (default 20, max 100)"
// @Success      200       {object}  jobListResponse
// @Failure      400       {object}  errorResponse
// @Router       /api/jobs [get]
func (h *JobHandler) List(c echo.Context) error {
	in, err := listJobsInput(c)
	if err != nil {
		return err
	}

	page, err := h.jobs.ListJobs(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toJobList(page))
}

// Get handles GET /api/jobs/:id.
//
// @Summary      Get a job
// @Tags         jobs
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  jobResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/jobs/{id} [get]
func (h *JobHandler) Get(c echo.Context) error {
	job, err := h.jobs.GetJob(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, jobResponse{Job: job})
}

// Apply handles POST /api/jobs/:id/apply.
//
// @Summary      Apply to a job
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        id    path      string        true  "Job ID"
// @Param        body  body      applyRequest  true  "Application"
// @Success      201   {object}  applicationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/jobs/{id}/apply [post]
func (h *JobHandler) Apply(c echo.Context) error {
	claim, err := sessionClaim(c)
	if err != nil {
		return err
	}

	var req applyRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	app, err := h.apps.Apply(c.Request().Context(), claim, c.Param("id"), ports.ApplyInput{CoverLetter: req.CoverLetter})
	if err != nil {
		return err
	}

	metrics.ApplicationsTotal.Inc()
	return c.JSON(http.StatusCreated, applicationResponse{Application: app})
}

// MyApplications handles GET /api/applications.
//
// @Summary      List my applications
// @Tags         applications
// @Produce      json
// @Success      200  {object}  applicationListResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/applications [get]
func (h *JobHandler) MyApplications(c echo.Context) error {
	claim, err := sessionClaim(c)
	if err != nil {
		return err
	}

	views, err := h.apps.ListMine(c.Request().Context(), claim)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, applicationListResponse{Items: toApplicationItems(views)})
}

func listJobsInput(c echo.Context) (ports.ListJobsInput, error) {
	var in ports.ListJobsInput
	err := echo.QueryParamsBinder(c).
		String("q", &in.Search).
		String("location", &in.Location).
		String("type", &in.Type).
		Int("page", &in.Page).
		Int("limit", &in.Limit).
		BindError()
	if err != nil {
		return in, echo.NewHTTPError(http.StatusBadRequest, "page and limit must be integers")
	}
	return in, nil
}
