package contact

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PublicRoutes returns the unauthenticated contact routes.
func PublicRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.CreateHandler)
	return r
}

// AdminRoutes returns the admin contact inbox routes.
func AdminRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.ListHandler)
	r.Get("/{id}", h.GetHandler)
	r.Put("/{id}/read", h.MarkReadHandler)
	r.Post("/{id}/reply", h.ReplyHandler)
	r.Delete("/{id}", h.DeleteHandler)
	return r
}
