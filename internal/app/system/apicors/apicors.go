// Package apicors provides CORS middleware for the JSON API.
//
// The public content endpoints (pages, services, team, contact info, contact
// form) carry no cookies and may be fetched by any site origin, so they get
// the permissive wildcard policy. The admin endpoints authenticate with a
// session cookie; when the admin panel is served from a different origin the
// credentialed variant must be used, because browsers refuse cookies under
// Access-Control-Allow-Origin: *.
package apicors

import (
	"net/http"
)

// Middleware returns CORS middleware for the unauthenticated public endpoints.
//
// This middleware:
//   - Allows any origin (Access-Control-Allow-Origin: *)
//   - Does not allow credentials (no cookies on public reads)
//   - Allows common API methods and headers
//   - Handles preflight OPTIONS requests
//
// Usage in routes.go:
//
//	r.Group(func(r chi.Router) {
//	    r.Use(apicors.Middleware())
//	    r.Get("/api/services", svc.List)
//	})
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			// Handle preflight OPTIONS request
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// MiddlewareWithOrigins returns CORS middleware for the session-authenticated
// admin endpoints. Only the listed origins are allowed, and credentials are
// permitted so the session cookie travels with cross-origin requests.
//
// Usage:
//
//	r.Use(apicors.MiddlewareWithOrigins(cfg.AdminOrigin))
func MiddlewareWithOrigins(allowedOrigins ...string) func(http.Handler) http.Handler {
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o != "" {
			originSet[o] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// If origin not allowed, don't set CORS headers (browser will block)
			if origin != "" {
				if _, allowed := originSet[origin]; allowed {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")
					w.Header().Set("Vary", "Origin")
				}
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, X-CSRF-Token")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
