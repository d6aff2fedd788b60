package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/seventattoolv/vision-intake/internal/http/handlers"
	httpmiddleware "github.com/seventattoolv/vision-intake/internal/http/middleware"
	"github.com/seventattoolv/vision-intake/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	IntakeHandler      *handlers.VisionCallHandler
	MetricsHandler     http.Handler
	CORSOrigin         string
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Public intake endpoint: CORS for the storefront, rate limit as spam
	// backstop on top of the honeypot.
	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.CORS(cfg.CORSOrigin))
		if cfg.RateLimitPerSecond > 0 && cfg.RateLimitBurst > 0 {
			public.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
		}
		public.Post("/intake/vision-call", cfg.IntakeHandler.Submit)
		public.Options("/intake/vision-call", cfg.IntakeHandler.Submit)
	})

	return r
}
