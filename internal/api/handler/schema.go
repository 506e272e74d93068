package handler

import (
	"time"

	"github.com/hirelane/jobboard/internal/core/domain"
	"github.com/hirelane/jobboard/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string              `json:"error"`
	Issues []domain.FieldIssue `json:"issues,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type signupRequest struct {
	FullName string `json:"fullName" example:"Jane Doe"`
	Email    string `json:"email"    example:"jane@example.com"`
	Password string `json:"password" example:"password123"`
	Role     string `json:"role"     example:"JOBSEEKER" enums:"JOBSEEKER,EMPLOYER"`
}

type loginRequest struct {
	Email    string `json:"email"    example:"jane@example.com"`
	Password string `json:"password" example:"password123"`
	Role     string `json:"role"     example:"JOBSEEKER" enums:"JOBSEEKER,EMPLOYER"`
}

type authResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type meResponse struct {
	User *domain.User `json:"user"`
}

// --- Jobs ---

type createJobRequest struct {
	Title       string `json:"title"       example:"Backend Engineer"`
	Company     string `json:"company"     example:"Acme"`
	Location    string `json:"location"    example:"Remote"`
	Type        string `json:"type"        example:"FULL_TIME" enums:"FULL_TIME,PART_TIME,CONTRACT,INTERNSHIP"`
	Description string `json:"description" example:"Build and run our APIs."`
	SalaryMin   int64  `json:"salaryMin"   example:"90000"`
	SalaryMax   int64  `json:"salaryMax"   example:"120000"`
}

type jobResponse struct {
	Job *domain.Job `json:"job"`
}

type jobListResponse struct {
	Items      []*domain.Job `json:"items"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}

type employerJobItem struct {
	Job          *domain.Job `json:"job"`
	Applications int64       `json:"applications"`
}

type employerJobListResponse struct {
	Items []employerJobItem `json:"items"`
}

// --- Applications ---

type applyRequest struct {
	CoverLetter string `json:"coverLetter" example:"I have five years of Go experience."`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required" example:"REVIEWED" enums:"REVIEWED,ACCEPTED,REJECTED"`
}

type applicationResponse struct {
	Application *domain.Application `json:"application"`
}

type applicationItem struct {
	ID          string                   `json:"id"`
	Status      domain.ApplicationStatus `json:"status"`
	CoverLetter string                   `json:"coverLetter,omitempty"`
	AppliedAt   time.Time                `json:"appliedAt"`
	Job         *domain.Job              `json:"job"`
}

type applicationListResponse struct {
	Items []applicationItem `json:"items"`
}

type jobApplicationListResponse struct {
	Items []*domain.Application `json:"items"`
}

func toJobList(p *ports.JobPage) jobListResponse {
	items := p.Items
	if items == nil {
		items = []*domain.Job{}
	}
	return jobListResponse{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}

func toEmployerJobItems(jobs []ports.EmployerJob) []employerJobItem {
	out := make([]employerJobItem, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, employerJobItem{Job: j.Job, Applications: j.Applications})
	}
	return out
}

func toApplicationItems(views []ports.ApplicationView) []applicationItem {
	out := make([]applicationItem, 0, len(views))
	for _, v := range views {
		out = append(out, applicationItem{
			ID:          v.Application.ID,
			Status:      v.Application.Status,
			CoverLetter: v.Application.CoverLetter,
			AppliedAt:   v.Application.CreatedAt,
			Job:         v.Job,
		})
	}
	return out
}
