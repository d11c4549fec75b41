package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func img(url string, primary bool) Image {
	return Image{ID: primitive.NewObjectID(), URL: url, IsPrimary: primary}
}

// countPrimary returns how many entries have the primary flag set.
func countPrimary(list []Image) int {
	n := 0
	for _, i := range list {
		if i.IsPrimary {
			n++
		}
	}
	return n
}

// checkInvariant verifies "exactly one primary iff non-empty".
func checkInvariant(t *testing.T, list []Image) {
	t.Helper()
	want := 0
	if len(list) > 0 {
		want = 1
	}
	if got := countPrimary(list); got != want {
		t.Fatalf("primary count = %d, want %d (list size %d)", got, want, len(list))
	}
}

func TestAddImage_FirstIsAlwaysPrimary(t *testing.T) {
	added := AddImage(nil, img("a.jpg", false), false)
	if len(added) != 1 {
		t.Fatalf("len = %d, want 1", len(added))
	}
	if !added[0].IsPrimary {
		t.Error("first image added to an empty list must be primary even with makePrimary=false")
	}
	checkInvariant(t, added)
}

func TestAddImage_MakePrimaryClearsOthers(t *testing.T) {
	list := AddImage(nil, img("a.jpg", false), false)
	list = AddImage(list, img("b.jpg", false), false)
	list = AddImage(list, img("c.jpg", false), true)

	checkInvariant(t, list)
	if !list[2].IsPrimary {
		t.Error("newly added image with makePrimary=true should be primary")
	}
	if list[0].IsPrimary || list[1].IsPrimary {
		t.Error("existing images should have lost the primary flag")
	}
}

func TestAddImage_NonPrimaryKeepsExistingPrimary(t *testing.T) {
	list := AddImage(nil, img("a.jpg", false), false)
	list = AddImage(list, img("b.jpg", false), false)

	checkInvariant(t, list)
	if !list[0].IsPrimary {
		t.Error("adding a non-primary image must not move the primary flag")
	}
}

func TestAddImage_DoesNotMutateInput(t *testing.T) {
	list := AddImage(nil, img("a.jpg", false), false)
	AddImage(list, img("b.jpg", false), true)
	if !list[0].IsPrimary {
		t.Error("AddImage mutated its input slice")
	}
}

func TestRemoveImage_NotFound(t *testing.T) {
	list := AddImage(nil, img("a.jpg", false), false)
	if _, ok := RemoveImage(list, primitive.NewObjectID()); ok {
		t.Error("RemoveImage should report false for an unknown id")
	}
}

func TestRemoveImage_PromotesFirstRemaining(t *testing.T) {
	list := AddImage(nil, img("a.jpg", false), false)
	list = AddImage(list, img("b.jpg", false), false)
	list = AddImage(list, img("c.jpg", false), false)

	// a is primary; remove it and b (the first remaining in original order)
	// must be promoted.
	bID := list[1].ID
	out, ok := RemoveImage(list, list[0].ID)
	if !ok {
		t.Fatal("RemoveImage reported not found for a present id")
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	checkInvariant(t, out)
	if out[0].ID != bID || !out[0].IsPrimary {
		t.Errorf("expected %s (first remaining) to be promoted, got primary on %s", bID.Hex(), out[0].ID.Hex())
	}
}

func TestRemoveImage_NonPrimaryLeavesPrimary(t *testing.T) {
	list := AddImage(nil, img("a.jpg", false), false)
	list = AddImage(list, img("b.jpg", false), false)

	out, ok := RemoveImage(list, list[1].ID)
	if !ok {
		t.Fatal("RemoveImage reported not found for a present id")
	}
	checkInvariant(t, out)
	if !out[0].IsPrimary {
		t.Error("removing a non-primary image must not move the primary flag")
	}
}

func TestRemoveImage_LastImage(t *testing.T) {
	list := AddImage(nil, img("a.jpg", false), false)
	out, ok := RemoveImage(list, list[0].ID)
	if !ok {
		t.Fatal("RemoveImage reported not found for a present id")
	}
	if len(out) != 0 {
		t.Fatalf("len = %d, want 0", len(out))
	}
	checkInvariant(t, out)
}

func TestSetPrimaryImage(t *testing.T) {
	list := AddImage(nil, img("a.jpg", false), false)
	list = AddImage(list, img("b.jpg", false), false)
	list = AddImage(list, img("c.jpg", false), false)

	out, ok := SetPrimaryImage(list, list[2].ID)
	if !ok {
		t.Fatal("SetPrimaryImage reported not found for a present id")
	}
	checkInvariant(t, out)
	if !out[2].IsPrimary {
		t.Error("target image should be primary")
	}

	// Idempotent: applying again yields the same flags.
	again, ok := SetPrimaryImage(out, out[2].ID)
	if !ok {
		t.Fatal("SetPrimaryImage reported not found on second application")
	}
	for i := range again {
		if again[i].IsPrimary != out[i].IsPrimary {
			t.Errorf("index %d: flag changed on re-application", i)
		}
	}
}

func TestSetPrimaryImage_NotFound(t *testing.T) {
	list := AddImage(nil, img("a.jpg", false), false)
	if _, ok := SetPrimaryImage(list, primitive.NewObjectID()); ok {
		t.Error("SetPrimaryImage should report false for an unknown id")
	}
}

// TestImageOps_InvariantAcrossSequence drives a mixed sequence of operations
// and checks the single-primary invariant after every step.
func TestImageOps_InvariantAcrossSequence(t *testing.T) {
	var list []Image

	list = AddImage(list, img("a.jpg", false), false)
	checkInvariant(t, list)

	list = AddImage(list, img("b.jpg", false), true)
	checkInvariant(t, list)

	list = AddImage(list, img("c.jpg", false), false)
	checkInvariant(t, list)

	var ok bool
	list, ok = SetPrimaryImage(list, list[2].ID)
	if !ok {
		t.Fatal("SetPrimaryImage failed")
	}
	checkInvariant(t, list)

	list, ok = RemoveImage(list, list[2].ID)
	if !ok {
		t.Fatal("RemoveImage failed")
	}
	checkInvariant(t, list)

	list, ok = RemoveImage(list, list[0].ID)
	if !ok {
		t.Fatal("RemoveImage failed")
	}
	checkInvariant(t, list)

	list, ok = RemoveImage(list, list[0].ID)
	if !ok {
		t.Fatal("RemoveImage failed")
	}
	checkInvariant(t, list)
}

func TestPrimaryImage(t *testing.T) {
	var s Service
	if _, ok := s.PrimaryImage(); ok {
		t.Error("PrimaryImage on empty list should report false")
	}

	s.Images = AddImage(nil, img("a.jpg", false), false)
	s.Images = AddImage(s.Images, img("b.jpg", false), true)
	primary, ok := s.PrimaryImage()
	if !ok {
		t.Fatal("PrimaryImage should report true for a non-empty list")
	}
	if primary.URL != "b.jpg" {
		t.Errorf("primary URL = %q, want %q", primary.URL, "b.jpg")
	}
}
