package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/vaultpass/passgen-go/internal/middleware"
)

// RouterConfig holds the handlers and settings the API router is built from.
type RouterConfig struct {
	Generator      *GeneratorHandler
	Sessions       *SessionHandler
	SessionSecret  string
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter wires the HTTP API. Session routes are mounted only when cfg.Sessions is set.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		if cfg.RateLimitRPS > 0 {
			r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		}
		r.Post("/api/v1/generate", cfg.Generator.HandleGenerate)
		if cfg.Sessions != nil {
			r.Post("/api/v1/sessions", cfg.Sessions.HandleCreate)
		}
	})

	if cfg.Sessions != nil {
		r.Route("/api/v1/session", func(r chi.Router) {
			r.Use(middleware.SessionAuth(cfg.SessionSecret))
			r.Get("/", cfg.Sessions.HandleGet)
			r.Delete("/", cfg.Sessions.HandleDelete)
			r.Patch("/config", cfg.Sessions.HandleUpdateConfig)
			r.Post("/regenerate", cfg.Sessions.HandleRegenerate)
		})
	}

	return r
}
