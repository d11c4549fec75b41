// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/middleware"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	authapifeature "github.com/dalemusser/stratacms/internal/app/features/authapi"
	authgooglefeature "github.com/dalemusser/stratacms/internal/app/features/authgoogle"
	contactfeature "github.com/dalemusser/stratacms/internal/app/features/contact"
	contactinfofeature "github.com/dalemusser/stratacms/internal/app/features/contactinfo"
	contentfeature "github.com/dalemusser/stratacms/internal/app/features/content"
	healthfeature "github.com/dalemusser/stratacms/internal/app/features/health"
	servicesfeature "github.com/dalemusser/stratacms/internal/app/features/services"
	teamfeature "github.com/dalemusser/stratacms/internal/app/features/team"
	contactinfostore "github.com/dalemusser/stratacms/internal/app/store/contactinfo"
	contactmsgstore "github.com/dalemusser/stratacms/internal/app/store/contactmsg"
	contentstore "github.com/dalemusser/stratacms/internal/app/store/content"
	"github.com/dalemusser/stratacms/internal/app/store/oauthstate"
	"github.com/dalemusser/stratacms/internal/app/store/ratelimit"
	servicestore "github.com/dalemusser/stratacms/internal/app/store/services"
	teamstore "github.com/dalemusser/stratacms/internal/app/store/team"
	userstore "github.com/dalemusser/stratacms/internal/app/store/users"
	"github.com/dalemusser/stratacms/internal/app/system/apicors"
	"github.com/dalemusser/stratacms/internal/app/system/auth"
	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacms/internal/app/system/uploads"
	"github.com/dalemusser/stratacms/internal/domain/models"
)

// csrfExemptPaths are API endpoints that cannot carry a CSRF token: the
// public contact form is posted by the site frontend before any session
// exists, and login runs before the SPA has fetched a token.
var csrfExemptPaths = map[string]struct{}{
	"/api/contact":     {},
	"/api/auth/login":  {},
	"/api/auth/logout": {},
}

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// Route groups:
//   - /api/*           public site API (read-only content, contact form)
//   - /api/auth/*      session auth (login, logout, me, csrf, Google OAuth)
//   - /api/admin/*     session-protected management API (admin and editor)
//   - /health, /livez  probes
//   - /uploads/*       uploaded images when local storage is configured
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// LoadSessionUser fetches fresh user data on each request so role
	// changes and disabled accounts take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase, logger))

	// Uploaded images resolve against the local serving prefix, or the
	// CloudFront distribution when S3 storage is configured.
	uploadBaseURL := appCfg.StorageLocalURL
	if appCfg.StorageType == "s3" && appCfg.StorageCFURL != "" {
		uploadBaseURL = appCfg.StorageCFURL
	}
	saver := uploads.NewSaver(deps.FileStorage, uploadBaseURL, logger)

	users := userstore.New(deps.MongoDatabase)

	var rateLimitStore *ratelimit.Store
	if appCfg.RateLimitEnabled {
		rateLimitStore = ratelimit.New(
			deps.MongoDatabase,
			appCfg.RateLimitLoginAttempts,
			appCfg.RateLimitLoginWindow,
			appCfg.RateLimitLoginLockout,
		)
	}

	contentHandler := contentfeature.NewHandler(contentstore.New(deps.MongoDatabase), logger)
	servicesHandler := servicesfeature.NewHandler(servicestore.New(deps.MongoDatabase), saver, logger)
	teamHandler := teamfeature.NewHandler(teamstore.New(deps.MongoDatabase), saver, logger)
	contactHandler := contactfeature.NewHandler(contactmsgstore.New(deps.MongoDatabase), deps.Mailer, appCfg.AppName, logger)
	contactInfoHandler := contactinfofeature.NewHandler(contactinfostore.New(deps.MongoDatabase), logger)
	authHandler := authapifeature.NewHandler(users, rateLimitStore, sessionMgr, logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORSFromConfig(coreCfg))
	r.Use(middleware.SecurityHeadersFromConfig(coreCfg))
	r.Use(sessionMgr.LoadSessionUser)

	// CSRF protection with path-based exemption. The cookie name carries
	// the app name to avoid collisions with other services on the domain.
	csrfOpts := []csrf.Option{
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.CookieName("stratacms_csrf"),
		csrf.FieldName("csrf_token"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			logger.Warn("CSRF validation failed",
				zap.String("path", req.URL.Path),
				zap.String("method", req.Method),
				zap.String("reason", csrf.FailureReason(req).Error()),
			)
			jsonutil.Forbidden(w, "CSRF token invalid or missing")
		})),
	}
	if !secure {
		// In dev mode, trust localhost origins for CSRF validation.
		csrfOpts = append(csrfOpts, csrf.TrustedOrigins([]string{
			"localhost:8080",
			"localhost:3000",
			"127.0.0.1:8080",
			"127.0.0.1:3000",
		}))
	}
	if appCfg.SessionDomain != "" {
		csrfOpts = append(csrfOpts, csrf.Domain(appCfg.SessionDomain))
	}
	csrfProtect := csrf.Protect([]byte(appCfg.CSRFKey), csrfOpts...)

	csrfMiddleware := func(next http.Handler) http.Handler {
		csrfHandler := csrfProtect(next)
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if _, exempt := csrfExemptPaths[req.URL.Path]; exempt {
				next.ServeHTTP(w, req)
				return
			}
			csrfHandler.ServeHTTP(w, req)
		})
	}
	r.Use(csrfMiddleware)

	// Health check endpoints for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	healthfeature.MountRootEndpoints(r, healthHandler)

	// Uploaded files (local storage only)
	if appCfg.StorageType == "local" || appCfg.StorageType == "" {
		r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	}

	googleEnabled := appCfg.GoogleClientID != "" && appCfg.GoogleClientSecret != ""

	r.Route("/api", func(api chi.Router) {
		// The public site may be served from a different origin than
		// this API, so the public group answers preflight requests.
		api.Use(apicors.Middleware())

		api.Mount("/content", contentfeature.PublicRoutes(contentHandler))
		api.Mount("/services", servicesfeature.PublicRoutes(servicesHandler))
		api.Mount("/team", teamfeature.PublicRoutes(teamHandler))
		api.Mount("/contact-info", contactinfofeature.PublicRoutes(contactInfoHandler))
		api.Mount("/contact", contactfeature.PublicRoutes(contactHandler))

		api.Route("/auth", func(ar chi.Router) {
			if googleEnabled {
				googleHandler := authgooglefeature.NewHandler(
					users,
					oauthstate.New(deps.MongoDatabase),
					sessionMgr,
					appCfg.GoogleClientID,
					appCfg.GoogleClientSecret,
					appCfg.BaseURL,
					"/admin/login",
					"/admin",
					logger,
				)
				ar.Mount("/google", authgooglefeature.Routes(googleHandler))
				logger.Info("Google OAuth enabled",
					zap.String("redirect_url", appCfg.BaseURL+"/api/auth/google/callback"))
			}
			ar.Mount("/", authapifeature.PublicRoutes(authHandler))
		})

		// Management API. Editors handle day-to-day content; account
		// registration stays admin-only.
		api.Route("/admin", func(ar chi.Router) {
			ar.Use(sessionMgr.RequireSignedIn)
			ar.Use(sessionMgr.RequireRole(models.RoleAdmin, models.RoleEditor))

			ar.Mount("/content", contentfeature.AdminRoutes(contentHandler))
			ar.Mount("/services", servicesfeature.AdminRoutes(servicesHandler))
			ar.Mount("/team", teamfeature.AdminRoutes(teamHandler))
			ar.Mount("/contact", contactfeature.AdminRoutes(contactHandler))
			ar.Mount("/contact-info", contactinfofeature.AdminRoutes(contactInfoHandler))

			ar.Route("/auth", func(aar chi.Router) {
				aar.Use(sessionMgr.RequireRole(models.RoleAdmin))
				aar.Mount("/", authapifeature.AdminRoutes(authHandler))
			})
		})
	})

	// JSON 404 for unmatched routes
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		jsonutil.NotFound(w, "not found")
	})

	return r, nil
}
