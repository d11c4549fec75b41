package contentstore

import (
	"errors"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/dalemusser/stratacms/internal/app/system/apperr"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"github.com/dalemusser/stratacms/internal/testutil"
)

func TestUpsert_CreatesThenUpdates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	doc, created, err := store.Upsert(ctx, UpsertInput{
		Page:    models.PageHero,
		Title:   "Welcome",
		Content: bson.M{"heading": "Welcome", "subheading": "We build things"},
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if !created {
		t.Error("first Upsert() should report created=true")
	}
	if doc.Page != models.PageHero {
		t.Errorf("page = %q, want %q", doc.Page, models.PageHero)
	}
	if !doc.Active {
		t.Error("new document should default to active")
	}
	if doc.CreatedAt.IsZero() || doc.UpdatedAt.IsZero() {
		t.Error("timestamps should be set")
	}

	doc2, created, err := store.Upsert(ctx, UpsertInput{
		Page:    models.PageHero,
		Title:   "Welcome Back",
		Content: bson.M{"heading": "Welcome Back"},
	})
	if err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}
	if created {
		t.Error("second Upsert() should report created=false")
	}
	if doc2.ID != doc.ID {
		t.Error("second Upsert() should update the same document")
	}
	if doc2.Title != "Welcome Back" {
		t.Errorf("title = %q, want %q", doc2.Title, "Welcome Back")
	}
	if !doc2.CreatedAt.Equal(doc.CreatedAt) {
		t.Error("created_at should not change on update")
	}
}

func TestUpsert_OmittedFieldsPreserved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	_, _, err := store.Upsert(ctx, UpsertInput{
		Page:    models.PageHero,
		Title:   "Welcome",
		Content: bson.M{"heading": "Welcome", "subheading": "We build things"},
		Images:  []string{"hero.jpg"},
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	doc, _, err := store.Upsert(ctx, UpsertInput{
		Page:  models.PageHero,
		Title: "New Title",
	})
	if err != nil {
		t.Fatalf("title-only Upsert() error = %v", err)
	}
	if doc.Title != "New Title" {
		t.Errorf("title = %q, want %q", doc.Title, "New Title")
	}
	if doc.Content == nil || doc.Content["heading"] != "Welcome" {
		t.Errorf("content = %v, want prior content preserved", doc.Content)
	}
	if len(doc.Images) != 1 || doc.Images[0] != "hero.jpg" {
		t.Errorf("images = %v, want prior images preserved", doc.Images)
	}
}

func TestUpsert_NormalizesPageKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	if _, _, err := store.Upsert(ctx, UpsertInput{Page: " HERO ", Title: "T", Content: bson.M{}}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	doc, err := store.GetByPage(ctx, "hero")
	if err != nil {
		t.Fatalf("GetByPage() error = %v", err)
	}
	if doc.Page != "hero" {
		t.Errorf("stored page = %q, want %q", doc.Page, "hero")
	}
}

func TestUpsert_RejectsUnknownPageKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	_, _, err := store.Upsert(ctx, UpsertInput{Page: "pricing", Title: "T", Content: bson.M{}})
	if _, ok := apperr.IsValidation(err); !ok {
		t.Errorf("Upsert() error = %v, want validation error", err)
	}
}

func TestUpsert_RejectsEmptyTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	_, _, err := store.Upsert(ctx, UpsertInput{Page: models.PageAbout, Content: bson.M{}})
	if _, ok := apperr.IsValidation(err); !ok {
		t.Errorf("Upsert() error = %v, want validation error", err)
	}
}

func TestUpsert_PreservesActiveUnlessSet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	off := false
	if _, _, err := store.Upsert(ctx, UpsertInput{Page: models.PageFooter, Title: "F", Content: bson.M{}, Active: &off}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// Update without Active; the flag must stay false.
	doc, _, err := store.Upsert(ctx, UpsertInput{Page: models.PageFooter, Title: "F2", Content: bson.M{}})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if doc.Active {
		t.Error("Active should remain false when input leaves it nil")
	}
}

func TestGetByPage_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	_, err := store.GetByPage(ctx, models.PageContact)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetByPage() error = %v, want ErrNotFound", err)
	}
}

func TestGetAllActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	// Insert out of page key order and deactivate one.
	for _, page := range []string{models.PageFooter, models.PageHero, models.PageAbout} {
		if _, _, err := store.Upsert(ctx, UpsertInput{Page: page, Title: page, Content: bson.M{}}); err != nil {
			t.Fatalf("Upsert(%s) error = %v", page, err)
		}
	}
	if err := store.SetActive(ctx, models.PageAbout, false, nil); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}

	docs, err := store.GetAllActive(ctx)
	if err != nil {
		t.Fatalf("GetAllActive() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("len = %d, want 2", len(docs))
	}
	// Canonical page key order: hero before footer.
	if docs[0].Page != models.PageHero || docs[1].Page != models.PageFooter {
		t.Errorf("order = [%s, %s], want [hero, footer]", docs[0].Page, docs[1].Page)
	}
}

func TestSetActive_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	err := store.SetActive(ctx, models.PageHero, false, nil)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("SetActive() error = %v, want ErrNotFound", err)
	}
}

func TestExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	exists, err := store.Exists(ctx, models.PageHero)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if exists {
		t.Error("Exists() = true before any write")
	}

	if _, _, err := store.Upsert(ctx, UpsertInput{Page: models.PageHero, Title: "T", Content: bson.M{}}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	exists, err = store.Exists(ctx, models.PageHero)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false after Upsert")
	}
}

// TestUpsert_Concurrent drives parallel upserts against the same page key and
// verifies they converge on a single document.
func TestUpsert_Concurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = store.Upsert(ctx, UpsertInput{
				Page:    models.PageHero,
				Title:   "Welcome",
				Content: bson.M{"heading": "Welcome", "n": i},
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("goroutine %d: Upsert() error = %v", i, err)
		}
	}

	count, err := db.Collection("page_content").CountDocuments(ctx, bson.M{"page": models.PageHero})
	if err != nil {
		t.Fatalf("CountDocuments() error = %v", err)
	}
	if count != 1 {
		t.Errorf("document count = %d, want 1", count)
	}
}
