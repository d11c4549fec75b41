package userstore

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/dalemusser/stratacms/internal/app/system/apperr"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"github.com/dalemusser/stratacms/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := models.User{
		FullName: "Test User",
		LoginID:  "test@example.com",
		Role:     "admin",
	}

	created, err := store.Create(ctx, user)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Verify ID was assigned
	if created.ID.IsZero() {
		t.Error("Create() did not assign ID")
	}

	// Verify timestamps were set
	if created.CreatedAt.IsZero() {
		t.Error("Create() did not set CreatedAt")
	}
	if created.UpdatedAt.IsZero() {
		t.Error("Create() did not set UpdatedAt")
	}

	// Verify status defaulted to active
	if created.Status != "active" {
		t.Errorf("Create() Status = %q, want %q", created.Status, "active")
	}

	// Verify normalization
	if created.FullNameCI == "" {
		t.Error("Create() did not set FullNameCI")
	}
	if created.LoginIDCI == "" {
		t.Error("Create() did not set LoginIDCI")
	}
}

func TestStore_Create_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := models.User{
		FullName: "Test User",
		LoginID:  "test@example.com",
		Role:     "invalid_role",
	}

	_, err := store.Create(ctx, user)
	if _, ok := apperr.IsValidation(err); !ok {
		t.Errorf("Create() with invalid role error = %v, want validation error", err)
	}
}

func TestStore_Create_DuplicateLoginID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user1 := models.User{
		FullName: "User One",
		LoginID:  "duplicate@example.com",
		Role:     "admin",
	}

	_, err := store.Create(ctx, user1)
	if err != nil {
		t.Fatalf("Create() first user error = %v", err)
	}

	// Try to create second user with same login ID (different casing)
	user2 := models.User{
		FullName: "User Two",
		LoginID:  "DUPLICATE@example.com",
		Role:     "admin",
	}

	_, err = store.Create(ctx, user2)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("Create() duplicate error = %v, want ErrConflict", err)
	}
}

func TestStore_GetByLoginID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName: "Lookup User",
		LoginID:  "lookup@example.com",
		Role:     "editor",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Case-insensitive lookup
	got, err := store.GetByLoginID(ctx, "LOOKUP@Example.COM")
	if err != nil {
		t.Fatalf("GetByLoginID() error = %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("GetByLoginID() ID = %s, want %s", got.ID.Hex(), created.ID.Hex())
	}

	if _, err := store.GetByLoginID(ctx, "nobody@example.com"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetByLoginID() unknown error = %v, want ErrNotFound", err)
	}
}

func TestStore_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName: "Original Name",
		LoginID:  "update@example.com",
		Role:     "editor",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	name := "Updated Name"
	role := "admin"
	if err := store.Update(ctx, created.ID, UpdateInput{FullName: &name, Role: &role}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.FullName != "Updated Name" || got.Role != "admin" {
		t.Errorf("updated user = %+v", got)
	}
	// Untouched fields stay.
	if got.LoginID != "update@example.com" {
		t.Errorf("login_id = %q, want unchanged", got.LoginID)
	}

	badRole := "superuser"
	if err := store.Update(ctx, created.ID, UpdateInput{Role: &badRole}); err == nil {
		t.Error("Update() with bad role should fail")
	}

	if err := store.Update(ctx, primitive.NewObjectID(), UpdateInput{FullName: &name}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Update() unknown id error = %v, want ErrNotFound", err)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName: "Doomed User",
		LoginID:  "doomed@example.com",
		Role:     "editor",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, created.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
}

func TestStore_CountActiveAdmins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, u := range []models.User{
		{FullName: "Admin One", LoginID: "a1@example.com", Role: "admin"},
		{FullName: "Admin Two", LoginID: "a2@example.com", Role: "admin", Status: "disabled"},
		{FullName: "Editor", LoginID: "e1@example.com", Role: "editor"},
	} {
		if _, err := store.Create(ctx, u); err != nil {
			t.Fatalf("Create(%s) error = %v", u.LoginID, err)
		}
	}

	n, err := store.CountActiveAdmins(ctx)
	if err != nil {
		t.Fatalf("CountActiveAdmins() error = %v", err)
	}
	if n != 1 {
		t.Errorf("CountActiveAdmins() = %d, want 1", n)
	}
}

func TestFetcher_FetchUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		FullName: "Session User",
		LoginID:  "session@example.com",
		Role:     "admin",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	fetcher := NewFetcher(db, zap.NewNop())

	su := fetcher.FetchUser(ctx, created.ID.Hex())
	if su == nil {
		t.Fatal("FetchUser() = nil for active user")
	}
	if su.Name != "Session User" || su.Role != "admin" {
		t.Errorf("FetchUser() = %+v", su)
	}

	// Disabled users get no session.
	disabled := "disabled"
	if err := store.Update(ctx, created.ID, UpdateInput{Status: &disabled}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if su := fetcher.FetchUser(ctx, created.ID.Hex()); su != nil {
		t.Errorf("FetchUser() for disabled user = %+v, want nil", su)
	}

	// Malformed and unknown IDs.
	if su := fetcher.FetchUser(ctx, "not-a-hex-id"); su != nil {
		t.Error("FetchUser() with malformed ID should return nil")
	}
	if su := fetcher.FetchUser(ctx, primitive.NewObjectID().Hex()); su != nil {
		t.Error("FetchUser() with unknown ID should return nil")
	}
}
