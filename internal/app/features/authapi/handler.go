// Package authapi provides the session auth endpoints for the admin API:
// login with rate limiting, logout, the current-user probe, CSRF token
// issuance, and admin-only account registration.
package authapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/dalemusser/stratacms/internal/app/store/ratelimit"
	userstore "github.com/dalemusser/stratacms/internal/app/store/users"
	"github.com/dalemusser/stratacms/internal/app/system/apperr"
	"github.com/dalemusser/stratacms/internal/app/system/auth"
	"github.com/dalemusser/stratacms/internal/app/system/authutil"
	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacms/internal/app/system/normalize"
	"github.com/dalemusser/stratacms/internal/app/system/status"
	"github.com/dalemusser/stratacms/internal/domain/models"
)

// Handler handles authentication API requests.
type Handler struct {
	users      *userstore.Store
	rateLimit  *ratelimit.Store // nil disables login rate limiting
	sessionMgr *auth.SessionManager
	logger     *zap.Logger
}

// NewHandler creates a new auth handler. rateLimit may be nil to disable
// login throttling.
func NewHandler(users *userstore.Store, rateLimit *ratelimit.Store, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{users: users, rateLimit: rateLimit, sessionMgr: sessionMgr, logger: logger}
}

// LoginHandler handles POST /api/auth/login.
//
// Failed attempts are throttled per login ID. The response for a bad login
// ID and a bad password is identical so the endpoint does not leak which
// accounts exist.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var in struct {
		LoginID  string `json:"login_id"`
		Password string `json:"password"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}

	loginID := strings.TrimSpace(in.LoginID)
	if loginID == "" || in.Password == "" {
		jsonutil.BadRequest(w, "login_id and password are required")
		return
	}

	if h.rateLimit != nil {
		allowed, _, lockedUntil := h.rateLimit.CheckAllowed(r.Context(), loginID)
		if !allowed {
			h.logger.Warn("login attempt while locked out",
				zap.String("login_id", loginID),
				zap.Timep("locked_until", lockedUntil),
			)
			jsonutil.Error(w, http.StatusTooManyRequests, "too many failed attempts, try again later")
			return
		}
	}

	user, err := h.users.GetByLoginID(r.Context(), loginID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			h.recordFailure(r, loginID)
			jsonutil.Unauthorized(w, "invalid credentials")
			return
		}
		h.logger.Error("login lookup failed", zap.Error(err))
		jsonutil.StoreError(w, err)
		return
	}

	if normalize.Status(user.Status) != status.Active {
		h.recordFailure(r, loginID)
		jsonutil.Unauthorized(w, "invalid credentials")
		return
	}

	if !authutil.CheckPassword(in.Password, user.PasswordHash) {
		h.recordFailure(r, loginID)
		jsonutil.Unauthorized(w, "invalid credentials")
		return
	}

	if h.rateLimit != nil {
		if err := h.rateLimit.ClearOnSuccess(r.Context(), loginID); err != nil {
			h.logger.Warn("failed to clear rate limit record", zap.Error(err))
		}
	}

	if err := h.sessionMgr.CreateSession(w, r, user.ID, user.Role); err != nil {
		h.logger.Error("failed to create session", zap.Error(err))
		jsonutil.InternalError(w, "failed to create session")
		return
	}

	h.logger.Info("user logged in",
		zap.String("user_id", user.ID.Hex()),
		zap.String("login_id", user.LoginID),
	)
	jsonutil.OK(w, user)
}

func (h *Handler) recordFailure(r *http.Request, loginID string) {
	if h.rateLimit == nil {
		return
	}
	if lockedOut, lockedUntil := h.rateLimit.RecordFailure(r.Context(), loginID); lockedOut {
		h.logger.Warn("login ID locked out",
			zap.String("login_id", loginID),
			zap.Timep("locked_until", lockedUntil),
		)
	}
}

// LogoutHandler handles POST /api/auth/logout.
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	h.sessionMgr.DestroySession(w, r)
	jsonutil.OK(w, map[string]string{"status": "signed out"})
}

// MeHandler handles GET /api/auth/me. It returns the signed-in user or 401.
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		jsonutil.Unauthorized(w, "not signed in")
		return
	}
	jsonutil.OK(w, u)
}

// CSRFHandler handles GET /api/auth/csrf. The SPA fetches a token here
// before issuing state-changing requests.
func (h *Handler) CSRFHandler(w http.ResponseWriter, r *http.Request) {
	jsonutil.OK(w, map[string]string{"csrf_token": csrf.Token(r)})
}

// RegisterHandler handles POST /api/admin/auth/register. Only admins reach
// this route; it creates a new editor or admin account.
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var in struct {
		FullName string  `json:"full_name"`
		LoginID  string  `json:"login_id"`
		Email    *string `json:"email,omitempty"`
		Password string  `json:"password"`
		Role     string  `json:"role"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}

	if err := authutil.ValidatePassword(in.Password); err != nil {
		jsonutil.ValidationError(w, map[string]string{"password": err.Error()})
		return
	}
	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		jsonutil.InternalError(w, "failed to create account")
		return
	}

	role := in.Role
	if role == "" {
		role = models.RoleEditor
	}

	user, err := h.users.Create(r.Context(), models.User{
		FullName:     strings.TrimSpace(in.FullName),
		LoginID:      in.LoginID,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}

	h.logger.Info("user account created",
		zap.String("user_id", user.ID.Hex()),
		zap.String("role", user.Role),
	)
	jsonutil.Created(w, user)
}
