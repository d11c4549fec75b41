package services

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PublicRoutes returns a router with the read-only catalog endpoints.
//
// When mounted at /api/services:
//   - GET /api/services - Active services in display order
//   - GET /api/services/category/{category} - Active services in a category
//   - GET /api/services/slug/{slug} - One active service by slug
//   - GET /api/services/{id} - One service by id
func PublicRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.ListHandler)
	r.Get("/category/{category}", h.ListByCategoryHandler)
	r.Get("/slug/{slug}", h.GetBySlugHandler)
	r.Get("/{id}", h.GetHandler)
	return r
}

// AdminRoutes returns a router with the catalog management endpoints.
// The caller mounts it behind session auth.
//
// When mounted at /api/services:
//   - GET /api/services - Every service, soft-deleted included
//   - POST /api/services - Create a service
//   - PUT /api/services/{id} - Update a service
//   - DELETE /api/services/{id} - Soft-delete a service
//   - POST /api/services/{id}/images - Add an image
//   - DELETE /api/services/{id}/images/{imageID} - Remove an image
//   - PUT /api/services/{id}/images/{imageID}/primary - Set the primary image
func AdminRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.AdminListHandler)
	r.Post("/", h.CreateHandler)
	r.Put("/{id}", h.UpdateHandler)
	r.Delete("/{id}", h.DeleteHandler)
	r.Post("/{id}/images", h.AddImageHandler)
	r.Delete("/{id}/images/{imageID}", h.RemoveImageHandler)
	r.Put("/{id}/images/{imageID}/primary", h.SetPrimaryImageHandler)
	return r
}
