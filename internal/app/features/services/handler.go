// Package services provides the service catalog API endpoints.
//
// Public endpoints serve the active catalog (by slug, by category); admin
// endpoints manage the full lifecycle including the embedded image list,
// which always keeps exactly one primary image while non-empty.
package services

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	servicestore "github.com/dalemusser/stratacms/internal/app/store/services"
	"github.com/dalemusser/stratacms/internal/app/system/authz"
	"github.com/dalemusser/stratacms/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacms/internal/app/system/uploads"
	"github.com/dalemusser/stratacms/internal/domain/models"
)

// Handler handles service catalog API requests.
type Handler struct {
	store  *servicestore.Store
	saver  *uploads.Saver
	logger *zap.Logger
}

// NewHandler creates a new services handler.
func NewHandler(store *servicestore.Store, saver *uploads.Saver, logger *zap.Logger) *Handler {
	return &Handler{store: store, saver: saver, logger: logger}
}

func idParam(r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	return id, err == nil
}

// ListHandler handles GET /api/services. Active services only, in display
// order.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListActive(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", zap.Error(err))
		jsonutil.StoreError(w, err)
		return
	}
	if list == nil {
		list = []models.Service{}
	}
	jsonutil.OK(w, list)
}

// ListByCategoryHandler handles GET /api/services/category/{category}.
func (h *Handler) ListByCategoryHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListActiveByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}
	if list == nil {
		list = []models.Service{}
	}
	jsonutil.OK(w, list)
}

// GetBySlugHandler handles GET /api/services/slug/{slug}. Inactive services
// are not reachable by slug.
func (h *Handler) GetBySlugHandler(w http.ResponseWriter, r *http.Request) {
	svc, err := h.store.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}
	jsonutil.OK(w, svc)
}

// GetHandler handles GET /api/services/{id}. Admins use this to reach
// soft-deleted services too, so it does not filter on active.
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		jsonutil.NotFound(w, "not found")
		return
	}
	svc, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}
	jsonutil.OK(w, svc)
}

// AdminListHandler handles GET /api/services (admin). Every service,
// soft-deleted included.
func (h *Handler) AdminListHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.store.ListAll(r.Context())
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}
	if list == nil {
		list = []models.Service{}
	}
	jsonutil.OK(w, list)
}

// serviceRequest is the body for POST /api/services.
type serviceRequest struct {
	Title            string         `json:"title"`
	ShortDescription string         `json:"short_description"`
	FullDescription  string         `json:"full_description"`
	Category         string         `json:"category"`
	Features         []string       `json:"features"`
	Images           []models.Image `json:"images"`
	Order            int            `json:"order"`
}

// CreateHandler handles POST /api/services. The slug is derived from the
// title; a colliding slug is a 409.
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var in serviceRequest
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}

	_, _, userID, _ := authz.UserCtx(r)

	svc, err := h.store.Create(r.Context(), servicestore.CreateInput{
		Title:            in.Title,
		ShortDescription: in.ShortDescription,
		FullDescription:  htmlsanitize.Sanitize(in.FullDescription),
		Category:         in.Category,
		Features:         in.Features,
		Images:           in.Images,
		Order:            in.Order,
		UpdatedByID:      &userID,
	})
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}

	h.logger.Debug("service created",
		zap.String("id", svc.ID.Hex()),
		zap.String("slug", svc.Slug),
	)
	jsonutil.Created(w, svc)
}

// serviceUpdateRequest is the body for PUT /api/services/{id}. Absent
// fields stay untouched.
type serviceUpdateRequest struct {
	Title            *string  `json:"title"`
	ShortDescription *string  `json:"short_description"`
	FullDescription  *string  `json:"full_description"`
	Category         *string  `json:"category"`
	Features         []string `json:"features"`
	Order            *int     `json:"order"`
	Active           *bool    `json:"active"`
}

// UpdateHandler handles PUT /api/services/{id}. Only the fields present in
// the body change; the image list is managed through the image endpoints
// and is never touched here.
func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		jsonutil.NotFound(w, "not found")
		return
	}

	var in serviceUpdateRequest
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}

	if in.FullDescription != nil {
		clean := htmlsanitize.Sanitize(*in.FullDescription)
		in.FullDescription = &clean
	}

	_, _, userID, _ := authz.UserCtx(r)

	svc, err := h.store.Update(r.Context(), id, servicestore.UpdateInput{
		Title:            in.Title,
		ShortDescription: in.ShortDescription,
		FullDescription:  in.FullDescription,
		Category:         in.Category,
		Features:         in.Features,
		Order:            in.Order,
		Active:           in.Active,
		UpdatedByID:      &userID,
	})
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}
	jsonutil.OK(w, svc)
}

// DeleteHandler handles DELETE /api/services/{id}. Soft delete: the record
// stays, the slug stays reserved, the service leaves the public catalog.
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		jsonutil.NotFound(w, "not found")
		return
	}

	_, _, userID, _ := authz.UserCtx(r)

	if err := h.store.SoftDelete(r.Context(), id, &userID); err != nil {
		jsonutil.StoreError(w, err)
		return
	}

	h.logger.Debug("service soft-deleted", zap.String("id", id.Hex()))
	jsonutil.NoContent(w)
}

// addImageRequest is the body for POST /api/services/{id}/images. The url
// may be a plain path, an http(s) URL, or a Base64 data URL; data URLs are
// stored through the upload backend and replaced with the stored URL.
type addImageRequest struct {
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	IsPrimary bool   `json:"is_primary"`
}

// AddImageHandler handles POST /api/services/{id}/images.
func (h *Handler) AddImageHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		jsonutil.NotFound(w, "not found")
		return
	}

	var in addImageRequest
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}

	if uploads.IsDataURL(in.URL) {
		stored, err := h.saver.SaveDataURL(r.Context(), in.URL)
		if err != nil {
			jsonutil.StoreError(w, err)
			return
		}
		in.URL = stored
	}

	_, _, userID, _ := authz.UserCtx(r)

	svc, err := h.store.AddImage(r.Context(), id, models.Image{URL: in.URL, Alt: in.Alt}, in.IsPrimary, &userID)
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}
	jsonutil.Created(w, svc)
}

// RemoveImageHandler handles DELETE /api/services/{id}/images/{imageID}.
// Removing the primary promotes the first remaining image.
func (h *Handler) RemoveImageHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		jsonutil.NotFound(w, "not found")
		return
	}
	imageID, ok := idParam(r, "imageID")
	if !ok {
		jsonutil.NotFound(w, "not found")
		return
	}

	_, _, userID, _ := authz.UserCtx(r)

	svc, err := h.store.RemoveImage(r.Context(), id, imageID, &userID)
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}
	jsonutil.OK(w, svc)
}

// SetPrimaryImageHandler handles PUT /api/services/{id}/images/{imageID}/primary.
func (h *Handler) SetPrimaryImageHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		jsonutil.NotFound(w, "not found")
		return
	}
	imageID, ok := idParam(r, "imageID")
	if !ok {
		jsonutil.NotFound(w, "not found")
		return
	}

	_, _, userID, _ := authz.UserCtx(r)

	svc, err := h.store.SetPrimaryImage(r.Context(), id, imageID, &userID)
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}
	jsonutil.OK(w, svc)
}
