// Package contact provides the contact message API endpoints.
//
// The public site submits messages through POST /api/contact; admins list
// them, mark them read, reply (which also emails the sender), and delete
// them permanently.
package contact

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	contactmsgstore "github.com/dalemusser/stratacms/internal/app/store/contactmsg"
	"github.com/dalemusser/stratacms/internal/app/system/authz"
	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacms/internal/app/system/mailer"
	"github.com/dalemusser/stratacms/internal/domain/models"
)

// Handler handles contact message API requests.
type Handler struct {
	store   *contactmsgstore.Store
	mail    *mailer.Mailer
	appName string
	logger  *zap.Logger
}

// NewHandler creates a new contact handler. mail may be nil when SMTP is not
// configured; replies are then recorded without sending email.
func NewHandler(store *contactmsgstore.Store, mail *mailer.Mailer, appName string, logger *zap.Logger) *Handler {
	return &Handler{store: store, mail: mail, appName: appName, logger: logger}
}

func idParam(r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return id, err == nil
}

// CreateHandler handles POST /api/contact, the public contact form.
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}

	m, err := h.store.Create(r.Context(), contactmsgstore.CreateInput{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
	})
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}

	h.logger.Debug("contact message received", zap.String("id", m.ID.Hex()))
	jsonutil.Created(w, m)
}

// ListHandler handles GET /api/contact (admin). Newest first; ?unread=true
// restricts to unread messages.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	filter := contactmsgstore.ListFilter{
		UnreadOnly: r.URL.Query().Get("unread") == "true",
	}
	list, err := h.store.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list contact messages", zap.Error(err))
		jsonutil.StoreError(w, err)
		return
	}
	if list == nil {
		list = []models.ContactMessage{}
	}
	jsonutil.OK(w, list)
}

// GetHandler handles GET /api/contact/{id} (admin).
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

// MarkReadHandler handles PUT /api/contact/{id}/read (admin).
func (h *Handler) MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		jsonutil.NotFound(w, "not found")
		return
	}
	m, err := h.store.MarkRead(r.Context(), id)
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}
	jsonutil.OK(w, m)
}

// ReplyHandler handles POST /api/contact/{id}/reply (admin). The reply is
// recorded on the message and emailed to the sender. Email failure does not
// roll back the recorded reply; it is logged and surfaced in the response.
func (h *Handler) ReplyHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		jsonutil.NotFound(w, "not found")
		return
	}

	var in struct {
		Message string `json:"message"`
	}
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "invalid JSON payload")
		return
	}

	_, _, userID, _ := authz.UserCtx(r)

	m, err := h.store.Reply(r.Context(), id, in.Message, userID)
	if err != nil {
		jsonutil.StoreError(w, err)
		return
	}

	emailSent := false
	if h.mail != nil {
		textBody, htmlBody := mailer.ContactReplyEmail(mailer.ContactReplyEmailData{
			AppName:         h.appName,
			RecipientName:   m.Name,
			OriginalSubject: m.Subject,
			OriginalMessage: m.Message,
			ReplyMessage:    in.Message,
		})
		subject := "Re: " + m.Subject
		if m.Subject == "" {
			subject = "Reply from " + h.appName
		}
		if err := h.mail.Send(mailer.Email{
			To:       m.Email,
			Subject:  subject,
			TextBody: textBody,
			HTMLBody: htmlBody,
		}); err != nil {
			h.logger.Error("failed to send reply email",
				zap.String("id", id.Hex()),
				zap.String("to", m.Email),
				zap.Error(err),
			)
		} else {
			emailSent = true
		}
	}

	h.logger.Debug("contact message replied",
		zap.String("id", id.Hex()),
		zap.Bool("email_sent", emailSent),
	)
	jsonutil.OK(w, map[string]any{
		"message":    m,
		"email_sent": emailSent,
	})
}

// DeleteHandler handles DELETE /api/contact/{id} (admin). Hard delete.
func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		jsonutil.NotFound(w, "not found")
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		jsonutil.StoreError(w, err)
		return
	}
	jsonutil.NoContent(w)
}
