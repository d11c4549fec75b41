package content

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PublicRoutes returns a router with the read-only content endpoints.
//
// When mounted at /api/content:
//   - GET /api/content - All active page content
//   - GET /api/content/{page} - One page's content
func PublicRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.ListHandler)
	r.Get("/{page}", h.GetHandler)
	return r
}

// AdminRoutes returns a router with the content management endpoints.
// The caller mounts it behind session auth.
//
// When mounted at /api/content:
//   - PUT /api/content - Upsert a page's content
//   - DELETE /api/content/{page} - Deactivate a page
func AdminRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Put("/", h.UpsertHandler)
	r.Delete("/{page}", h.DeactivateHandler)
	return r
}
