package contact

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	contactmsgstore "github.com/dalemusser/stratacms/internal/app/store/contactmsg"
	"github.com/dalemusser/stratacms/internal/app/system/auth"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"github.com/dalemusser/stratacms/internal/testutil"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewHandler(contactmsgstore.New(db), nil, "Test Site", zap.NewNop())
}

const testAdminID = "64b000000000000000000001"

func adminRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return auth.WithTestUser(req, &auth.SessionUser{
		ID:   testAdminID,
		Name: "Test Admin",
		Role: models.RoleAdmin,
	})
}

func submitMessage(t *testing.T, h *Handler, subject string) models.ContactMessage {
	t.Helper()
	body, _ := json.Marshal(map[string]any{
		"name":    "Jane Visitor",
		"email":   "jane@example.com",
		"subject": subject,
		"message": "Hello, I would like more information.",
	})
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	PublicRoutes(h).ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d. Body: %s", rec.Code, rec.Body.String())
	}
	var m models.ContactMessage
	json.NewDecoder(rec.Body).Decode(&m)
	return m
}

func TestCreate_Public(t *testing.T) {
	h := newTestHandler(t)
	m := submitMessage(t, h, "Pricing question")

	if m.ID.IsZero() {
		t.Error("ID not assigned")
	}
	if m.IsRead || m.IsReplied {
		t.Errorf("new message read=%v replied=%v, want both false", m.IsRead, m.IsReplied)
	}
}

func TestCreate_Validation(t *testing.T) {
	h := newTestHandler(t)

	body, _ := json.Marshal(map[string]any{
		"name":  "Jane",
		"email": "not-an-email",
	})
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	PublicRoutes(h).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestList_UnreadFilter(t *testing.T) {
	h := newTestHandler(t)
	first := submitMessage(t, h, "First")
	submitMessage(t, h, "Second")

	rec := httptest.NewRecorder()
	AdminRoutes(h).ServeHTTP(rec, adminRequest(http.MethodPut, "/"+first.ID.Hex()+"/read", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("mark read status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	AdminRoutes(h).ServeHTTP(rec, adminRequest(http.MethodGet, "/?unread=true", nil))
	var list []models.ContactMessage
	json.NewDecoder(rec.Body).Decode(&list)
	if len(list) != 1 || list[0].Subject != "Second" {
		t.Errorf("unread list = %+v, want only Second", list)
	}

	rec = httptest.NewRecorder()
	AdminRoutes(h).ServeHTTP(rec, adminRequest(http.MethodGet, "/", nil))
	list = nil
	json.NewDecoder(rec.Body).Decode(&list)
	if len(list) != 2 {
		t.Errorf("full list has %d messages, want 2", len(list))
	}
}

func TestReply(t *testing.T) {
	h := newTestHandler(t)
	m := submitMessage(t, h, "Reply me")

	body, _ := json.Marshal(map[string]string{"message": "Thanks for reaching out."})
	rec := httptest.NewRecorder()
	AdminRoutes(h).ServeHTTP(rec, adminRequest(http.MethodPost, "/"+m.ID.Hex()+"/reply", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("reply status = %d. Body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message   models.ContactMessage `json:"message"`
		EmailSent bool                  `json:"email_sent"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.EmailSent {
		t.Error("email_sent = true with no mailer configured")
	}
	if !resp.Message.IsReplied || !resp.Message.IsRead {
		t.Errorf("replied message read=%v replied=%v, want both true", resp.Message.IsRead, resp.Message.IsReplied)
	}
	adminID, _ := primitive.ObjectIDFromHex(testAdminID)
	if resp.Message.Reply == nil || resp.Message.Reply.RepliedBy != adminID {
		t.Errorf("reply = %+v, want replied_by = session user id %s", resp.Message.Reply, testAdminID)
	}
}

func TestReply_BlankMessage(t *testing.T) {
	h := newTestHandler(t)
	m := submitMessage(t, h, "Reply me")

	body, _ := json.Marshal(map[string]string{"message": "   "})
	rec := httptest.NewRecorder()
	AdminRoutes(h).ServeHTTP(rec, adminRequest(http.MethodPost, "/"+m.ID.Hex()+"/reply", body))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDelete(t *testing.T) {
	h := newTestHandler(t)
	m := submitMessage(t, h, "Delete me")

	rec := httptest.NewRecorder()
	AdminRoutes(h).ServeHTTP(rec, adminRequest(http.MethodDelete, "/"+m.ID.Hex(), nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	AdminRoutes(h).ServeHTTP(rec, adminRequest(http.MethodGet, "/"+m.ID.Hex(), nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestGet_MalformedID(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	AdminRoutes(h).ServeHTTP(rec, adminRequest(http.MethodGet, "/not-an-id", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
