package api

import (
	"net/http"

	"github.com/Rrens/legal-assistant/internal/api/handler"
	customMiddleware "github.com/Rrens/legal-assistant/internal/api/middleware"
	"github.com/Rrens/legal-assistant/internal/config"
	"github.com/Rrens/legal-assistant/internal/domain"
	"github.com/Rrens/legal-assistant/internal/llm"
	"github.com/Rrens/legal-assistant/internal/metrics"
	"github.com/Rrens/legal-assistant/internal/render"
	"github.com/Rrens/legal-assistant/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Dependencies are the collaborators the HTTP layer serves
type Dependencies struct {
	App     *service.App
	Store   domain.SlotStore
	LLM     *llm.Router
	Metrics *metrics.Metrics
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	if deps.Metrics != nil {
		r.Use(customMiddleware.Metrics(deps.Metrics))
	}
	r.Use(middleware.Recoverer)
	if cfg.Server.MiddlewareTimeout > 0 {
		r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))
	}

	// CORS
	allowedOrigins := cfg.Server.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	chatHandler := handler.NewChatHandler(deps.App, render.NewMarkdown())
	suggestionHandler := handler.NewSuggestionHandler(deps.App)
	documentHandler := handler.NewDocumentHandler(deps.App, cfg.Ingest.MaxUploadMB)
	adminHandler := handler.NewAdminHandler(deps.App)

	if deps.Metrics != nil && cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, deps.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(deps.Store))
		r.Get("/llm-providers", handler.ListLLMProviders(deps.LLM))

		r.Route("/chat", func(r chi.Router) {
			r.Get("/", chatHandler.State)
			r.Post("/messages", chatHandler.Send)
		})

		r.Get("/suggestions", suggestionHandler.GetSuggestions)
		r.Get("/documents", documentHandler.List)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/status", adminHandler.Status)
			r.Post("/login", adminHandler.Login)
			r.Post("/logout", adminHandler.Logout)
			r.Post("/login-prompt", adminHandler.OpenPrompt)
			r.Delete("/login-prompt", adminHandler.ClosePrompt)

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(customMiddleware.RequireAdmin(deps.App))

				r.Post("/documents", documentHandler.Upload)
				r.Delete("/documents/{documentID}", documentHandler.Delete)
			})
		})
	})

	return r
}
