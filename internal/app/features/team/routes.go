package team

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PublicRoutes returns a router with the read-only roster endpoints.
//
// When mounted at /api/team:
//   - GET /api/team - Active members in display order
//   - GET /api/team/{id} - One member
func PublicRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.ListHandler)
	r.Get("/{id}", h.GetHandler)
	return r
}

// AdminRoutes returns a router with the roster management endpoints.
// The caller mounts it behind session auth.
//
// When mounted at /api/team:
//   - GET /api/team - Every member, inactive included
//   - POST /api/team - Add a member
//   - PUT /api/team/{id} - Update a member
//   - DELETE /api/team/{id} - Soft-delete a member
//   - POST /api/team/{id}/photo - Upload a member photo (multipart)
func AdminRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.AdminListHandler)
	r.Post("/", h.CreateHandler)
	r.Put("/{id}", h.UpdateHandler)
	r.Delete("/{id}", h.DeleteHandler)
	r.Post("/{id}/photo", h.PhotoHandler)
	return r
}
