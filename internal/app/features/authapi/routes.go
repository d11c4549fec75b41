package authapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PublicRoutes returns the unauthenticated auth routes.
func PublicRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/login", h.LoginHandler)
	r.Post("/logout", h.LogoutHandler)
	r.Get("/me", h.MeHandler)
	r.Get("/csrf", h.CSRFHandler)
	return r
}

// AdminRoutes returns the admin-only auth routes.
func AdminRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Post("/register", h.RegisterHandler)
	return r
}
