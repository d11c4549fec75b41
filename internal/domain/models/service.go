// internal/domain/models/service.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxShortDescriptionLen bounds the short description shown in listings.
const MaxShortDescriptionLen = 200

// Image is an image record embedded in a Service.
//
// URL is opaque to this model: it is either a server path produced by the
// upload layer or an inline data payload. Exactly one image per service has
// IsPrimary set whenever the list is non-empty; the list operations below
// maintain that invariant.
type Image struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	URL       string             `bson:"url" json:"url"`
	Alt       string             `bson:"alt,omitempty" json:"alt,omitempty"`
	IsPrimary bool               `bson:"is_primary" json:"is_primary"`
}

// Service represents one service offered by the company.
type Service struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title            string             `bson:"title" json:"title"`
	Slug             string             `bson:"slug" json:"slug"` // Derived from Title; unique across services
	ShortDescription string             `bson:"short_description" json:"short_description"`
	FullDescription  string             `bson:"full_description" json:"full_description"` // Sanitized HTML
	Category         string             `bson:"category" json:"category"`
	Features         []string           `bson:"features,omitempty" json:"features,omitempty"`
	Images           []Image            `bson:"images,omitempty" json:"images,omitempty"`
	Active           bool               `bson:"active" json:"active"`
	Order            int                `bson:"order" json:"order"` // Listing sort: order asc, then created_at desc

	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
	UpdatedByID *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
}

// PrimaryImage returns the primary image, or false if the list is empty.
func (s *Service) PrimaryImage() (Image, bool) {
	for _, img := range s.Images {
		if img.IsPrimary {
			return img, true
		}
	}
	return Image{}, false
}

/* -------------------------------------------------------------------------- */
/* Image list operations                                                      */
/*                                                                            */
/* All three are pure: they return a new slice and never mutate their input.  */
/* The caller persists the result as a single $set on the owning service so   */
/* no partial state is ever visible to other readers.                         */
/* -------------------------------------------------------------------------- */

// AddImage appends img to list. If makePrimary is set, every existing entry
// loses its primary flag first. The first image added to an empty list is
// always primary regardless of makePrimary.
func AddImage(list []Image, img Image, makePrimary bool) []Image {
	out := make([]Image, 0, len(list)+1)
	for _, existing := range list {
		if makePrimary {
			existing.IsPrimary = false
		}
		out = append(out, existing)
	}

	img.IsPrimary = makePrimary
	if len(out) == 0 {
		img.IsPrimary = true
	}
	return append(out, img)
}

// RemoveImage filters the image with the given id out of list. If the removed
// image was primary and entries remain, the first remaining entry (in original
// order) is promoted. Returns false if id is not in the list.
func RemoveImage(list []Image, id primitive.ObjectID) ([]Image, bool) {
	out := make([]Image, 0, len(list))
	removedPrimary := false
	found := false
	for _, img := range list {
		if img.ID == id {
			found = true
			removedPrimary = img.IsPrimary
			continue
		}
		out = append(out, img)
	}
	if !found {
		return nil, false
	}
	if removedPrimary && len(out) > 0 {
		out[0].IsPrimary = true
	}
	return out, true
}

// SetPrimaryImage marks the image with the given id as primary and clears the
// flag on every other entry. The whole list is rewritten, so repeated calls
// with the same id are idempotent. Returns false if id is not in the list.
func SetPrimaryImage(list []Image, id primitive.ObjectID) ([]Image, bool) {
	out := make([]Image, 0, len(list))
	found := false
	for _, img := range list {
		img.IsPrimary = img.ID == id
		if img.IsPrimary {
			found = true
		}
		out = append(out, img)
	}
	if !found {
		return nil, false
	}
	return out, true
}
