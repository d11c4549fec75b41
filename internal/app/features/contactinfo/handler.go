// Package contactinfo serves the site contact information singleton.
package contactinfo

import (
	"net/http"

	"go.uber.org/zap"

	contactinfostore "github.com/dalemusser/stratacms/internal/app/store/contactinfo"
	"github.com/dalemusser/stratacms/internal/app/system/authz"
	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
)

// Handler handles contact info API requests.
type Handler struct {
	store  *contactinfostore.Store
	logger *zap.Logger
}

// NewHandler creates a new contact info handler.
func NewHandler(store *contactinfostore.Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// GetHandler handles GET /api/contact-info, the public contact details.
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	info, err := h.store.Get(r.Context())
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}
	jsonutil.OK(w, info)
}

// UpsertHandler handles PUT /api/admin/contact-info. The record is created
// on first write and replaced on every write after that.
func (h *Handler) UpsertHandler(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Address      string   `json:"address"`
		City         string   `json:"city"`
		Country      string   `json:"country"`
		Phones       []string `json:"phones"`
		Email        string   `json:"email"`
		WorkingHours string   `json:"working_hours"`
		MapURL       string   `json:"map_url"`
		Description  string   `json:"description"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}

	input := contactinfostore.UpsertInput{
		Address:      in.Address,
		City:         in.City,
		Country:      in.Country,
		Phones:       in.Phones,
		Email:        in.Email,
		WorkingHours: in.WorkingHours,
		MapURL:       in.MapURL,
		Description:  in.Description,
	}
	if _, _, userID, ok := authz.UserCtx(r); ok {
		input.UpdatedByID = &userID
	}

	info, err := h.store.Upsert(r.Context(), input)
	if err != nil {
		h.logger.Error("failed to upsert contact info", zap.Error(err))
		jsonutil.StoreError(w, err)
		return
	}

	h.logger.Debug("contact info updated", zap.String("id", info.ID.Hex()))
	jsonutil.OK(w, info)
}
