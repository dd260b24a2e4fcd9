package api

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dkm/jobcards/internal/api/handler"
	"github.com/dkm/jobcards/internal/api/middleware"
	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/ports"
	"github.com/dkm/jobcards/internal/core/service"
)

// Deps are the collaborators the web tier is built from.
type Deps struct {
	Backend      ports.Backend
	Auditor      ports.Auditor
	Sessions     middleware.StorageFactory
	Drafts       ports.DraftStore
	Dependencies []handler.Dependency

	SessionTTL   time.Duration
	SecureCookie bool
	Logger       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	templates, err := handler.NewTemplates()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = templates
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(service.NewAuthService(d.Backend, d.Auditor, d.Logger))
	dashboardHandler := handler.NewDashboardHandler(service.NewDashboardService(d.Backend, d.Auditor, d.Logger))
	jobHandler := handler.NewJobHandler(service.NewJobService(d.Backend, d.Auditor, d.Logger))
	wizardHandler := handler.NewWizardHandler(service.NewWizardService(d.Backend, d.Auditor, d.Logger), d.Drafts, d.Logger)

	// --- Health probes and metrics (no session) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewHealthDependenciesHandler(d.Dependencies...).Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// --- Browser routes ---
	web := e.Group("", middleware.Session(middleware.SessionOptions{
		Storage: d.Sessions,
		Drafts:  d.Drafts,
		TTL:     d.SessionTTL,
		Secure:  d.SecureCookie,
		Logger:  d.Logger,
	}))

	web.GET("/", authHandler.LoginPage)
	web.POST("/login", authHandler.Login)
	web.GET("/auth/callback", authHandler.Callback)
	web.POST("/logout", authHandler.Logout)

	signedIn := middleware.RequireRoles(domain.AllRoles...)
	web.GET("/dashboard", dashboardHandler.Show, signedIn)
	web.GET("/jobs/:id", jobHandler.Show, signedIn)
	web.POST("/jobs/:id/assign", jobHandler.Assign, signedIn)
	web.POST("/jobs/:id/status", jobHandler.ChangeStatus, signedIn)

	wizard := web.Group("/jobs/new", middleware.RequireRoles(domain.JobCreatorRoles...))
	wizard.GET("", wizardHandler.Show)
	wizard.POST("/lookup", wizardHandler.Lookup)
	wizard.POST("/select", wizardHandler.Select)
	wizard.POST("/back", wizardHandler.Back)
	wizard.POST("/submit", wizardHandler.Submit)

	return e, nil
}
