// Package content provides the page content API endpoints.
//
// Endpoints:
//   - GET /api/content - All active page content (public)
//   - GET /api/content/{page} - One page's content (public)
//   - PUT /api/content - Upsert a page's content (admin)
//   - DELETE /api/content/{page} - Deactivate a page (admin)
//
// Each of the site's fixed pages (hero, about, contact, footer) has at most
// one document in the page_content collection.
package content

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	contentstore "github.com/dalemusser/stratacms/internal/app/store/content"
	"github.com/dalemusser/stratacms/internal/app/system/authz"
	"github.com/dalemusser/stratacms/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacms/internal/app/system/normalize"
	"github.com/dalemusser/stratacms/internal/domain/models"
)

// Handler handles page content API requests.
type Handler struct {
	store  *contentstore.Store
	logger *zap.Logger
}

// NewHandler creates a new content handler.
func NewHandler(store *contentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// ListHandler handles GET /api/content. It returns all active page content
// in canonical page order (hero, about, contact, footer).
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	pages, err := h.store.GetAllActive(r.Context())
	if err != nil {
		h.logger.Error("failed to list page content", zap.Error(err))
		jsonutil.StoreError(w, err)
		return
	}
	if pages == nil {
		pages = []models.PageContent{}
	}
	jsonutil.OK(w, pages)
}

// GetHandler handles GET /api/content/{page}. Inactive pages are hidden
// from the public site.
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	page := normalize.PageKey(chi.URLParam(r, "page"))
	if !models.IsValidPageKey(page) {
		jsonutil.NotFound(w, "unknown page")
		return
	}

	pc, err := h.store.GetByPage(r.Context(), page)
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}
	if !pc.Active {
		jsonutil.NotFound(w, "not found")
		return
	}
	jsonutil.OK(w, pc)
}

// upsertRequest is the body for PUT /api/content.
type upsertRequest struct {
	Page    string   `json:"page"`
	Title   string   `json:"title"`
	Content bson.M   `json:"content"`
	Images  []string `json:"images"`
	Active  *bool    `json:"active"`
}

// UpsertHandler handles PUT /api/content. It creates the page document on
// first write and merges into it afterwards. Responds 201 on create, 200 on
// update.
func (h *Handler) UpsertHandler(w http.ResponseWriter, r *http.Request) {
	var in upsertRequest
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}

	in.Page = normalize.PageKey(in.Page)
	if in.Content != nil {
		// The content shape must decode into this page's typed body.
		if _, err := models.DecodePageBody(in.Page, in.Content); err != nil {
			jsonutil.ValidationError(w, map[string]string{"content": "content does not match the page's shape"})
			return
		}
		sanitizeBody(in.Content)
	}

	_, _, userID, _ := authz.UserCtx(r)

	pc, created, err := h.store.Upsert(r.Context(), contentstore.UpsertInput{
		Page:        in.Page,
		Title:       in.Title,
		Content:     in.Content,
		Images:      in.Images,
		Active:      in.Active,
		UpdatedByID: &userID,
	})
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}

	h.logger.Debug("page content upserted",
		zap.String("page", in.Page),
		zap.Bool("created", created),
	)

	if created {
		jsonutil.Created(w, pc)
		return
	}
	jsonutil.OK(w, pc)
}

// DeactivateHandler handles DELETE /api/content/{page}. The document stays;
// only the active flag flips, so the page drops out of the public listing.
func (h *Handler) DeactivateHandler(w http.ResponseWriter, r *http.Request) {
	page := normalize.PageKey(chi.URLParam(r, "page"))

	_, _, userID, _ := authz.UserCtx(r)

	if err := h.store.SetActive(r.Context(), page, false, &userID); err != nil {
		jsonutil.StoreError(w, err)
		return
	}

	h.logger.Debug("page content deactivated", zap.String("page", page))
	jsonutil.NoContent(w)
}

// sanitizeBody runs the HTML-bearing content fields through the rich-text
// sanitizer in place.
func sanitizeBody(content bson.M) {
	for _, key := range []string{"body_html", "map_embed"} {
		if s, ok := content[key].(string); ok && s != "" {
			content[key] = htmlsanitize.Sanitize(s)
		}
	}
}
