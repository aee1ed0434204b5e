package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/practice-comms-hub/internal/commlog"
	"github.com/wolfman30/practice-comms-hub/internal/dispatch"
	httpmiddleware "github.com/wolfman30/practice-comms-hub/internal/http/middleware"
	"github.com/wolfman30/practice-comms-hub/internal/templates"
	"github.com/wolfman30/practice-comms-hub/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger           *logging.Logger
	DispatchHandler  *dispatch.Handler
	HistoryHandler   *commlog.Handler
	TemplatesHandler *templates.Handler
	MetricsHandler   http.Handler
	AdminJWTSecret   string
	SendRatePerMin   int
	SendBurst        int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Tenant-scoped API routes
	r.Route("/v1", func(v1 chi.Router) {
		v1.Group(func(tenant chi.Router) {
			tenant.Use(requirePracticeID)
			tenant.Use(httpmiddleware.RateLimitByPractice(
				httpmiddleware.NewTenantRateLimiter(cfg.SendRatePerMin, cfg.SendBurst)))

			if cfg.DispatchHandler != nil {
				tenant.Post("/communications:send", cfg.DispatchHandler.Send)
			}
			if cfg.HistoryHandler != nil {
				tenant.Get("/communications", cfg.HistoryHandler.List)
			}
		})

		// Operator surface (template preview/listing), JWT-gated.
		if cfg.TemplatesHandler != nil {
			v1.Group(func(admin chi.Router) {
				admin.Use(httpmiddleware.AdminJWT(cfg.AdminJWTSecret))
				admin.Get("/templates", cfg.TemplatesHandler.List)
				admin.Get("/templates/{templateID}", cfg.TemplatesHandler.Get)
			})
		}
	})

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
