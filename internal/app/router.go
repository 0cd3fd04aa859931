package app

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tagonlink/tagonlink/internal/handler"
	"github.com/tagonlink/tagonlink/internal/metrics"
	"github.com/tagonlink/tagonlink/internal/middleware"
	"github.com/tagonlink/tagonlink/internal/service"
)

// RouterDeps holds everything the HTTP surface needs.
type RouterDeps struct {
	Logger *slog.Logger

	Health handler.HealthChecker
	Auth   *service.AuthService
	Links  *service.LinkService
	Tokens middleware.TokenValidator

	Metrics metrics.Recorder
	// Exposer serves GET /metrics; nil leaves the route unmounted.
	Exposer handler.MetricsExposer

	CORS         middleware.CORSConfig
	Security     middleware.SecurityConfig
	MaxBodyBytes int64
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(deps RouterDeps) *chi.Mux {
	logger := deps.Logger
	recorder := deps.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	h := handler.New()
	healthHandler := handler.NewHealthHandler(deps.Health, logger)
	authHandler := handler.NewAuthHandler(deps.Auth, logger)
	linkHandler := handler.NewLinkHandler(deps.Links, logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Metrics(recorder))
	r.Use(middleware.Security(deps.Security))
	r.Use(middleware.CORS(deps.CORS))
	if deps.MaxBodyBytes > 0 {
		r.Use(middleware.MaxBodySize(deps.MaxBodyBytes))
	}

	r.Get("/", h.Root)
	r.Get("/healthz", healthHandler.Healthz)
	if deps.Exposer != nil {
		r.Get("/metrics", handler.NewMetricsHandler(deps.Exposer).Metrics)
	}

	requireAuth := middleware.Auth(middleware.AuthConfig{
		Logger: logger,
		Tokens: deps.Tokens,
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)
			r.With(requireAuth).Get("/verify", authHandler.Verify)
		})

		r.Route("/links", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", linkHandler.List)
			r.Post("/", linkHandler.Create)
			r.Put("/{id}", linkHandler.Update)
			r.Delete("/{id}", linkHandler.Delete)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
