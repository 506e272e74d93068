package api

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/hirelane/jobboard/internal/api/guard"
	"github.com/hirelane/jobboard/internal/api/handler"
	"github.com/hirelane/jobboard/internal/api/metrics"
	"github.com/hirelane/jobboard/internal/api/middleware"
	"github.com/hirelane/jobboard/internal/api/session"
	"github.com/hirelane/jobboard/internal/core/domain"
	"github.com/hirelane/jobboard/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Log          zerolog.Logger
	Auth         ports.AuthService
	Jobs         ports.JobService
	Applications ports.ApplicationService
	Sessions     *session.CookieStore
	Tokens       guard.TokenVerifier
	Readiness    map[string]handler.PingFunc

	// Production hides /swagger and, without a MetricsToken, /metrics.
	Production bool
	// MetricsToken, when set, is required as a bearer token on /metrics.
	MetricsToken string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(metrics.Middleware())

	g := guard.New(guard.DefaultTable(), guard.DefaultBypass, d.Sessions, d.Tokens, d.Log.With().Str("component", "guard").Logger())
	e.Use(g.Middleware())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth, d.Sessions)
	jobHandler := handler.NewJobHandler(d.Jobs, d.Applications)
	employerHandler := handler.NewEmployerHandler(d.Jobs, d.Applications)
	pageHandler := handler.NewPageHandler(d.Jobs, d.Applications)

	jobseekerOnly := middleware.RequireRole(domain.RoleJobseeker)
	employerOnly := middleware.RequireRole(domain.RoleEmployer)

	// --- Auth routes (bypassed by the guard) ---
	auth := e.Group("/api/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me)

	// --- Pages ---
	e.GET("/", pageHandler.Home)
	e.GET("/login", pageHandler.Login)
	e.GET("/signup", pageHandler.Signup)
	e.GET("/jobs", pageHandler.Jobs)
	e.GET("/job/:id", pageHandler.Job)
	e.GET("/job/:id/apply", pageHandler.Apply)
	e.GET("/jobseeker/dashboard", pageHandler.JobseekerDashboard)
	e.GET("/employer/dashboard", pageHandler.EmployerDashboard)

	// --- Jobs API ---
	e.GET("/api/jobs", jobHandler.List)
	e.GET("/api/jobs/:id", jobHandler.Get)
	e.POST("/api/jobs/:id/apply", jobHandler.Apply, jobseekerOnly)
	e.GET("/api/applications", jobHandler.MyApplications, jobseekerOnly)

	// --- Employer API (guarded as employer-only, checked again here) ---
	emp := e.Group("/api/employer", employerOnly)
	emp.POST("/jobs", employerHandler.CreateJob)
	emp.GET("/jobs", employerHandler.ListJobs)
	emp.POST("/jobs/:id/close", employerHandler.CloseJob)
	emp.GET("/jobs/:id/applications", employerHandler.ListApplications)
	emp.PATCH("/applications/:id/status", employerHandler.UpdateApplicationStatus)

	// --- Ops (bypassed by the guard) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	switch {
	case d.MetricsToken != "":
		e.GET("/metrics", metrics.Handler(), metricsAuth(d.MetricsToken))
	case !d.Production:
		e.GET("/metrics", metrics.Handler())
	}
	if !d.Production {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	return e
}

// metricsAuth accepts "Authorization: Bearer <token>" for the scrape endpoint.
func metricsAuth(token string) echo.MiddlewareFunc {
	return echomiddleware.KeyAuth(func(key string, _ echo.Context) (bool, error) {
		return subtle.ConstantTimeCompare([]byte(key), []byte(token)) == 1, nil
	})
}
