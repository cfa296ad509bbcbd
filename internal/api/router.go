package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/exhyte/internal/paperservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *paperservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Papers.
	r.Get("/papers", h.ListPapers)
	r.Get("/papers/{id}", h.GetPaper)
	r.Get("/papers/{id}/raw", h.GetPaperRaw)
	r.Get("/topics", h.Topics)

	// Search.
	r.Get("/search", h.Search)

	// Catalog state.
	r.Get("/status", h.Status)
	r.Post("/reload", h.Reload)

	// Survey.
	r.Post("/survey/bundle", h.SurveyBundle)
	r.Post("/survey", h.GenerateSurvey)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
