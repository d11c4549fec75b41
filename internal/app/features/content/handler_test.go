package content

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	contentstore "github.com/dalemusser/stratacms/internal/app/store/content"
	"github.com/dalemusser/stratacms/internal/app/system/auth"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"github.com/dalemusser/stratacms/internal/testutil"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewHandler(contentstore.New(db), zap.NewNop())
}

func adminRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return auth.WithTestUser(req, &auth.SessionUser{
		ID:   "64b000000000000000000001",
		Name: "Test Admin",
		Role: models.RoleAdmin,
	})
}

func TestUpsertHandler(t *testing.T) {
	h := newTestHandler(t)

	t.Run("creates then updates", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{
			"page":  "hero",
			"title": "Welcome",
			"content": map[string]any{
				"heading":    "Leading with excellence",
				"subheading": "Your trusted partner",
			},
		})
		rec := httptest.NewRecorder()
		h.UpsertHandler(rec, adminRequest(http.MethodPut, "/api/content", body))

		if rec.Code != http.StatusCreated {
			t.Fatalf("first upsert status = %d, want 201. Body: %s", rec.Code, rec.Body.String())
		}
		var first models.PageContent
		if err := json.NewDecoder(rec.Body).Decode(&first); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if first.Page != "hero" || !first.Active {
			t.Errorf("created content = %+v", first)
		}

		rec = httptest.NewRecorder()
		h.UpsertHandler(rec, adminRequest(http.MethodPut, "/api/content", body))
		if rec.Code != http.StatusOK {
			t.Errorf("second upsert status = %d, want 200", rec.Code)
		}
		var second models.PageContent
		json.NewDecoder(rec.Body).Decode(&second)
		if second.ID != first.ID {
			t.Errorf("upsert created a second document: %s != %s", second.ID.Hex(), first.ID.Hex())
		}
	})

	t.Run("unknown page key", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{"page": "pricing", "title": "Nope"})
		rec := httptest.NewRecorder()
		h.UpsertHandler(rec, adminRequest(http.MethodPut, "/api/content", body))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.UpsertHandler(rec, adminRequest(http.MethodPut, "/api/content", []byte("{not json")))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("sanitizes html body", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{
			"page":  "about",
			"title": "About Us",
			"content": map[string]any{
				"intro":     "Who we are",
				"body_html": `<p>Fine</p><script>alert("x")</script>`,
			},
		})
		rec := httptest.NewRecorder()
		h.UpsertHandler(rec, adminRequest(http.MethodPut, "/api/content", body))
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201. Body: %s", rec.Code, rec.Body.String())
		}
		var pc models.PageContent
		json.NewDecoder(rec.Body).Decode(&pc)
		got, _ := pc.Content["body_html"].(string)
		if got != "<p>Fine</p>" {
			t.Errorf("body_html = %q, want script stripped", got)
		}
	})
}

func TestGetHandlers(t *testing.T) {
	h := newTestHandler(t)

	// Seed two pages through the handler.
	for _, page := range []string{"hero", "footer"} {
		body, _ := json.Marshal(map[string]any{"page": page, "title": page})
		rec := httptest.NewRecorder()
		h.UpsertHandler(rec, adminRequest(http.MethodPut, "/api/content", body))
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed %s status = %d", page, rec.Code)
		}
	}

	t.Run("list returns canonical order", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
		rec := httptest.NewRecorder()
		h.ListHandler(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var pages []models.PageContent
		json.NewDecoder(rec.Body).Decode(&pages)
		if len(pages) != 2 || pages[0].Page != "hero" || pages[1].Page != "footer" {
			t.Errorf("pages = %+v, want [hero footer]", pages)
		}
	})

	t.Run("get by page via router", func(t *testing.T) {
		srv := PublicRoutes(h)
		req := httptest.NewRequest(http.MethodGet, "/hero", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200. Body: %s", rec.Code, rec.Body.String())
		}
		var pc models.PageContent
		json.NewDecoder(rec.Body).Decode(&pc)
		if pc.Page != "hero" {
			t.Errorf("page = %q, want hero", pc.Page)
		}
	})

	t.Run("get unknown page", func(t *testing.T) {
		srv := PublicRoutes(h)
		req := httptest.NewRequest(http.MethodGet, "/pricing", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("deactivated page hidden", func(t *testing.T) {
		srv := AdminRoutes(h)
		req := adminRequest(http.MethodDelete, "/footer", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("deactivate status = %d, want 204", rec.Code)
		}

		pub := PublicRoutes(h)
		req = httptest.NewRequest(http.MethodGet, "/footer", nil)
		rec = httptest.NewRecorder()
		pub.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("get deactivated status = %d, want 404", rec.Code)
		}
	})
}
