// Package team provides the team member API endpoints.
//
// The public site reads the active roster; admins manage members and their
// photos. Photos arrive as multipart uploads and are stored through the
// upload backend.
package team

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	teamstore "github.com/dalemusser/stratacms/internal/app/store/team"
	"github.com/dalemusser/stratacms/internal/app/system/authz"
	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacms/internal/app/system/uploads"
	"github.com/dalemusser/stratacms/internal/domain/models"
)

// Handler handles team member API requests.
type Handler struct {
	store  *teamstore.Store
	saver  *uploads.Saver
	logger *zap.Logger
}

// NewHandler creates a new team handler.
func NewHandler(store *teamstore.Store, saver *uploads.Saver, logger *zap.Logger) *Handler {
	return &Handler{store: store, saver: saver, logger: logger}
}

func idParam(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return id, err == nil
}

// ListHandler handles GET /api/team. Active members in display order.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListActive(r.Context())
	if err != nil {
		h.logger.Error("failed to list team members", zap.Error(err))
		jsonutil.StoreError(w, err)
		return
	}
	if list == nil {
		list = []models.TeamMember{}
	}
	jsonutil.OK(w, list)
}

// GetHandler handles GET /api/team/{id}.
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		jsonutil.NotFound(w, "not found")
		return
	}
	m, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}
	jsonutil.OK(w, m)
}

// AdminListHandler handles GET /api/team (admin). Includes inactive members.
func (h *Handler) AdminListHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListAll(r.Context())
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}
	if list == nil {
		list = []models.TeamMember{}
	}
	jsonutil.OK(w, list)
}

// memberRequest is the body for member create and update.
type memberRequest struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Bio      string `json:"bio"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	PhotoURL string `json:"photo_url"` // create only; updates go through the photo endpoint
	Order    int    `json:"order"`
}

// CreateHandler handles POST /api/team.
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var in memberRequest
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}

	_, _, userID, _ := authz.UserCtx(r)

	m, err := h.store.Create(r.Context(), teamstore.CreateInput{
		Name:        in.Name,
		Position:    in.Position,
		Bio:         in.Bio,
		Email:       in.Email,
		Phone:       in.Phone,
		PhotoURL:    in.PhotoURL,
		Order:       in.Order,
		UpdatedByID: &userID,
	})
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}

	h.logger.Debug("team member created", zap.String("id", m.ID.Hex()))
	jsonutil.Created(w, m)
}

// UpdateHandler handles PUT /api/team/{id}.
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		jsonutil.NotFound(w, "not found")
		return
	}

	var in memberRequest
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}

	_, _, userID, _ := authz.UserCtx(r)

	m, err := h.store.Update(r.Context(), id, teamstore.UpdateInput{
		Name:        in.Name,
		Position:    in.Position,
		Bio:         in.Bio,
		Email:       in.Email,
		Phone:       in.Phone,
		Order:       in.Order,
		UpdatedByID: &userID,
	})
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}
	jsonutil.OK(w, m)
}

// DeleteHandler handles DELETE /api/team/{id}. Soft delete.
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		jsonutil.NotFound(w, "not found")
		return
	}

	_, _, userID, _ := authz.UserCtx(r)

	if err := h.store.SoftDelete(r.Context(), id, &userID); err != nil {
		jsonutil.StoreError(w, err)
		return
	}

	h.logger.Debug("team member soft-deleted", zap.String("id", id.Hex()))
	jsonutil.NoContent(w)
}

// PhotoHandler handles POST /api/team/{id}/photo. A multipart "photo" field
// is stored and its URL recorded on the member; the previous photo, if any,
// is removed from storage.
func (h *Handler) PhotoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		jsonutil.NotFound(w, "not found")
		return
	}

	if err := r.ParseMultipartForm(uploads.MaxImageSize); err != nil {
		jsonutil.BadRequest(w, "photo exceeds the 5 MB limit")
		return
	}

	f, header, err := r.FormFile("photo")
	if err != nil {
		jsonutil.BadRequest(w, "missing photo file")
		return
	}
	defer f.Close()

	prev, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}

	url, err := h.saver.SaveMultipart(r.Context(), f, header)
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}

	_, _, userID, _ := authz.UserCtx(r)

	m, err := h.store.SetPhoto(r.Context(), id, url, &userID)
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}

	if prev.PhotoURL != "" {
		if err := h.saver.Delete(r.Context(), prev.PhotoURL); err != nil {
			h.logger.Warn("failed to delete previous photo",
				zap.String("url", prev.PhotoURL),
				zap.Error(err),
			)
		}
	}

	h.logger.Debug("team member photo updated",
		zap.String("id", id.Hex()),
		zap.String("url", url),
	)
	jsonutil.OK(w, m)
}
