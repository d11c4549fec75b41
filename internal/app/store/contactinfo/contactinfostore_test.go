package contactinfostore

import (
	"errors"
	"sync"
	"testing"

	"github.com/dalemusser/stratacms/internal/app/system/apperr"
	"github.com/dalemusser/stratacms/internal/testutil"
)

func TestGet_Unseeded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	if _, err := store.Get(ctx); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Get() on empty collection error = %v, want ErrNotFound", err)
	}

	ok, err := store.Exists(ctx)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if ok {
		t.Error("Exists() = true on empty collection")
	}
}

func TestUpsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	info, err := store.Upsert(ctx, UpsertInput{
		Address:      "Broad Street",
		City:         "Monrovia",
		Country:      "Liberia",
		Phones:       []string{" +231-555-0100 ", "", "+231-555-0101"},
		Email:        " INFO@example.com ",
		WorkingHours: "Mon-Fri 9-5",
	})
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if info.City != "Monrovia" || info.Email != "info@example.com" {
		t.Errorf("info = %+v", info)
	}
	if len(info.Phones) != 2 {
		t.Errorf("phones = %v, want blanks dropped", info.Phones)
	}

	// Second upsert replaces in place; same document ID.
	updated, err := store.Upsert(ctx, UpsertInput{
		Address: "New Address",
		City:    "Monrovia",
		Country: "Liberia",
		Email:   "info@example.com",
	})
	if err != nil {
		t.Fatalf("Upsert() second error = %v", err)
	}
	if updated.ID != info.ID {
		t.Errorf("document ID changed: %s -> %s", info.ID.Hex(), updated.ID.Hex())
	}
	if updated.Address != "New Address" {
		t.Errorf("address = %q", updated.Address)
	}
	if len(updated.Phones) != 0 {
		t.Errorf("phones = %v, want replaced with empty list", updated.Phones)
	}
}

func TestUpsert_Concurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Upsert(ctx, UpsertInput{City: "Monrovia", Country: "Liberia"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("concurrent Upsert() error = %v", err)
		}
	}

	n, err := store.c.CountDocuments(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("CountDocuments() error = %v", err)
	}
	if n != 1 {
		t.Errorf("document count = %d, want 1", n)
	}
}
