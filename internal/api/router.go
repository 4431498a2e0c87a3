package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mirekh/jotdesk/internal/notestore"
	"github.com/mirekh/jotdesk/internal/sse"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// broker, if non-nil, receives change events and serves GET /events.
func NewRouter(store *notestore.Store, broker *sse.Broker, authEnabled bool, token string) chi.Router {
	h := NewHandler(store, broker)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Notes CRUD.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.SaveNote)
	r.Get("/notes/{index}", h.GetNote)
	r.Delete("/notes/{index}", h.DeleteNote)

	// Search.
	r.Get("/search", h.Search)

	// Explicit reload from disk.
	r.Post("/reload", h.Reload)

	// Export / import of editor text.
	r.Post("/export", h.Export)
	r.Post("/import", h.Import)

	// SSE endpoint (protected by the same auth middleware).
	if broker != nil {
		r.Method(http.MethodGet, "/events", broker)
	}

	return r
}
