// Package authgoogle implements Google sign-in for admin users.
//
// The flow requires an existing account: Google only proves ownership of an
// email address, and accounts are provisioned by an admin, so an unknown
// email is rejected rather than auto-registered.
package authgoogle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/dalemusser/stratacms/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/stratacms/internal/app/store/users"
	"github.com/dalemusser/stratacms/internal/app/system/apperr"
	"github.com/dalemusser/stratacms/internal/app/system/auth"
	"github.com/dalemusser/stratacms/internal/app/system/normalize"
	"github.com/dalemusser/stratacms/internal/app/system/status"
)

// Handler provides Google OAuth handlers.
type Handler struct {
	users       *userstore.Store
	states      *oauthstate.Store
	sessionMgr  *auth.SessionManager
	oauthConfig *oauth2.Config
	loginURL    string
	successURL  string
	logger      *zap.Logger
}

// NewHandler creates a new Google OAuth Handler. loginURL is where failed
// attempts land (with an error query parameter) and successURL is where a
// signed-in user is sent.
func NewHandler(
	users *userstore.Store,
	states *oauthstate.Store,
	sessionMgr *auth.SessionManager,
	clientID string,
	clientSecret string,
	baseURL string,
	loginURL string,
	successURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		users:      users,
		states:     states,
		sessionMgr: sessionMgr,
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/api/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		loginURL:   loginURL,
		successURL: successURL,
		logger:     logger,
	}
}

// Routes returns a chi.Router with the Google OAuth routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.startAuth)
	r.Get("/callback", h.handleCallback)
	return r
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, h.loginURL+"?error="+code, http.StatusSeeOther)
}

// startAuth initiates the Google OAuth flow.
func (h *Handler) startAuth(w http.ResponseWriter, r *http.Request) {
	state, err := auth.GenerateStateToken()
	if err != nil {
		h.logger.Error("failed to generate oauth state", zap.Error(err))
		h.fail(w, r, "oauth_error")
		return
	}

	if err := h.states.Create(r.Context(), state); err != nil {
		h.logger.Error("failed to store oauth state", zap.Error(err))
		h.fail(w, r, "oauth_error")
		return
	}

	url := h.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// handleCallback processes the Google OAuth callback.
func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if !h.states.Verify(r.Context(), state) {
		h.logger.Warn("invalid oauth state")
		h.fail(w, r, "invalid_state")
		return
	}

	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		h.logger.Warn("oauth error from google", zap.String("error", errMsg))
		h.fail(w, r, errMsg)
		return
	}

	code := r.URL.Query().Get("code")
	token, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("failed to exchange oauth code", zap.Error(err))
		h.fail(w, r, "token_exchange_failed")
		return
	}

	userInfo, err := h.getUserInfo(r.Context(), token)
	if err != nil {
		h.logger.Error("failed to get google user info", zap.Error(err))
		h.fail(w, r, "userinfo_failed")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), userInfo.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			h.logger.Warn("google sign-in for unknown email",
				zap.String("email", userInfo.Email))
			h.fail(w, r, "user_not_found")
			return
		}
		h.logger.Error("failed to look up user by email", zap.Error(err))
		h.fail(w, r, "database_error")
		return
	}

	if normalize.Status(user.Status) != status.Active {
		h.logger.Warn("google sign-in for disabled account",
			zap.String("user_id", user.ID.Hex()))
		h.fail(w, r, "account_disabled")
		return
	}

	if err := h.sessionMgr.CreateSession(w, r, user.ID, user.Role); err != nil {
		h.logger.Error("failed to create session", zap.Error(err))
		h.fail(w, r, "session_error")
		return
	}

	h.logger.Info("google sign-in succeeded", zap.String("user_id", user.ID.Hex()))
	http.Redirect(w, r, h.successURL, http.StatusSeeOther)
}

// GoogleUserInfo represents user info from Google.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// getUserInfo fetches user info from Google.
func (h *Handler) getUserInfo(ctx context.Context, token *oauth2.Token) (*GoogleUserInfo, error) {
	client := h.oauthConfig.Client(ctx, token)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var userInfo GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, err
	}

	return &userInfo, nil
}
