package contactinfo

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PublicRoutes returns the unauthenticated contact info routes.
func PublicRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.GetHandler)
	return r
}

// AdminRoutes returns the admin contact info routes.
func AdminRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Put("/", h.UpsertHandler)
	return r
}
