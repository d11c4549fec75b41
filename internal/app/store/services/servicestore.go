// internal/app/store/services/servicestore.go
package servicestore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/stratacms/internal/app/system/apperr"
	"github.com/dalemusser/stratacms/internal/app/system/normalize"
	"github.com/dalemusser/stratacms/internal/app/system/slug"
	"github.com/dalemusser/stratacms/internal/domain/models"
)

// Store provides access to the services collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new service store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("services")}
}

// CreateInput holds the writable fields for a new service.
type CreateInput struct {
	Title            string
	ShortDescription string
	FullDescription  string
	Category         string
	Features         []string
	Images           []models.Image
	Order            int
	UpdatedByID      *primitive.ObjectID
}

// UpdateInput holds the writable fields for a service update. Nil fields
// are left untouched, so a partial update never disturbs the rest of the
// document. Images are deliberately absent; the image list changes only
// through AddImage, RemoveImage, and SetPrimaryImage.
type UpdateInput struct {
	Title            *string
	ShortDescription *string
	FullDescription  *string
	Category         *string
	Features         []string
	Order            *int
	Active           *bool
	UpdatedByID      *primitive.ObjectID
}

func validateCore(title, shortDesc string) error {
	ve := &apperr.ValidationError{Fields: map[string]string{}}
	if title == "" {
		ve.Fields["title"] = "required"
	} else if slug.Make(title) == "" {
		ve.Fields["title"] = "must contain at least one letter or digit"
	}
	if shortDesc == "" {
		ve.Fields["short_description"] = "required"
	} else if len(shortDesc) > models.MaxShortDescriptionLen {
		ve.Fields["short_description"] = "must be 200 characters or fewer"
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

// normalizeInlineImages reduces an inline image list to a single primary:
// the first image flagged primary wins; with no flags the first image is
// promoted. Missing IDs are assigned.
func normalizeInlineImages(list []models.Image) []models.Image {
	out := make([]models.Image, len(list))
	copy(out, list)

	primaryAt := -1
	for i := range out {
		if out[i].ID.IsZero() {
			out[i].ID = primitive.NewObjectID()
		}
		if out[i].IsPrimary && primaryAt == -1 {
			primaryAt = i
		}
		out[i].IsPrimary = false
	}
	if len(out) > 0 {
		if primaryAt == -1 {
			primaryAt = 0
		}
		out[primaryAt].IsPrimary = true
	}
	return out
}

// Create inserts a new service. The slug is derived from the title; a title
// whose slug collides with an existing service is rejected with ErrConflict.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.Service, error) {
	in.Title = normalize.Name(in.Title)
	if err := validateCore(in.Title, in.ShortDescription); err != nil {
		return models.Service{}, err
	}

	now := time.Now().UTC()
	svc := models.Service{
		ID:               primitive.NewObjectID(),
		Title:            in.Title,
		Slug:             slug.Make(in.Title),
		ShortDescription: in.ShortDescription,
		FullDescription:  in.FullDescription,
		Category:         normalize.Category(in.Category),
		Features:         in.Features,
		Images:           normalizeInlineImages(in.Images),
		Active:           true,
		Order:            in.Order,
		CreatedAt:        now,
		UpdatedAt:        now,
		UpdatedByID:      in.UpdatedByID,
	}

	if _, err := s.c.InsertOne(ctx, svc); err != nil {
		return models.Service{}, apperr.FromMongo(err)
	}
	return svc, nil
}

// Update merges a service's descriptive fields; nil fields stay as they
// are. A title change re-derives the slug, which may collide (ErrConflict).
// The slug of an untouched title never moves. The image list is untouched.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (models.Service, error) {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}

	if in.Title != nil {
		title := normalize.Name(*in.Title)
		sl := slug.Make(title)
		if title == "" {
			return models.Service{}, apperr.NewValidation("title", "required")
		}
		if sl == "" {
			return models.Service{}, apperr.NewValidation("title", "must contain at least one letter or digit")
		}
		set["title"] = title
		set["slug"] = sl
	}
	if in.ShortDescription != nil {
		if *in.ShortDescription == "" {
			return models.Service{}, apperr.NewValidation("short_description", "required")
		}
		if len(*in.ShortDescription) > models.MaxShortDescriptionLen {
			return models.Service{}, apperr.NewValidation("short_description", "must be 200 characters or fewer")
		}
		set["short_description"] = *in.ShortDescription
	}
	if in.FullDescription != nil {
		set["full_description"] = *in.FullDescription
	}
	if in.Category != nil {
		set["category"] = normalize.Category(*in.Category)
	}
	if in.Features != nil {
		set["features"] = in.Features
	}
	if in.Order != nil {
		set["order"] = *in.Order
	}
	if in.Active != nil {
		set["active"] = *in.Active
	}
	if in.UpdatedByID != nil {
		set["updated_by_id"] = *in.UpdatedByID
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return models.Service{}, apperr.FromMongo(err)
	}
	if res.MatchedCount == 0 {
		return models.Service{}, apperr.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// SoftDelete hides a service from public reads without removing the record.
func (s *Store) SoftDelete(ctx context.Context, id primitive.ObjectID, updatedByID *primitive.ObjectID) error {
	set := bson.M{
		"active":     false,
		"updated_at": time.Now().UTC(),
	}
	if updatedByID != nil {
		set["updated_by_id"] = *updatedByID
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return apperr.FromMongo(err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// GetByID returns a service regardless of its active flag (admin path).
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Service, error) {
	var svc models.Service
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&svc); err != nil {
		return models.Service{}, apperr.FromMongo(err)
	}
	return svc, nil
}

// GetBySlug returns an active service by slug (public path). Soft-deleted
// services are reported as not found.
func (s *Store) GetBySlug(ctx context.Context, sl string) (models.Service, error) {
	var svc models.Service
	if err := s.c.FindOne(ctx, bson.M{"slug": sl, "active": true}).Decode(&svc); err != nil {
		return models.Service{}, apperr.FromMongo(err)
	}
	return svc, nil
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Service, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "order", Value: 1},
		{Key: "created_at", Value: -1},
	})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.FromMongo(err)
	}
	defer cur.Close(ctx)

	var out []models.Service
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.FromMongo(err)
	}
	return out, nil
}

// ListActive returns active services sorted by order, newest first within
// the same order.
func (s *Store) ListActive(ctx context.Context) ([]models.Service, error) {
	return s.list(ctx, bson.M{"active": true})
}

// ListActiveByCategory returns active services in one category.
func (s *Store) ListActiveByCategory(ctx context.Context, category string) ([]models.Service, error) {
	return s.list(ctx, bson.M{"active": true, "category": normalize.Category(category)})
}

// ListAll returns every service including soft-deleted ones (admin path).
func (s *Store) ListAll(ctx context.Context) ([]models.Service, error) {
	return s.list(ctx, bson.M{})
}

// writeImages persists a rewritten image list in one $set.
func (s *Store) writeImages(ctx context.Context, id primitive.ObjectID, images []models.Image, updatedByID *primitive.ObjectID) (models.Service, error) {
	set := bson.M{
		"images":     images,
		"updated_at": time.Now().UTC(),
	}
	if updatedByID != nil {
		set["updated_by_id"] = *updatedByID
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return models.Service{}, apperr.FromMongo(err)
	}
	if res.MatchedCount == 0 {
		return models.Service{}, apperr.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// AddImage appends an image to a service. The first image of an empty list
// becomes primary regardless of makePrimary; makePrimary demotes any
// existing primary.
func (s *Store) AddImage(ctx context.Context, id primitive.ObjectID, img models.Image, makePrimary bool, updatedByID *primitive.ObjectID) (models.Service, error) {
	svc, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Service{}, err
	}
	if img.URL == "" {
		return models.Service{}, apperr.NewValidation("url", "required")
	}
	if img.ID.IsZero() {
		img.ID = primitive.NewObjectID()
	}
	return s.writeImages(ctx, id, models.AddImage(svc.Images, img, makePrimary), updatedByID)
}

// RemoveImage deletes one image. If the primary is removed and images
// remain, the first remaining image is promoted.
func (s *Store) RemoveImage(ctx context.Context, id, imageID primitive.ObjectID, updatedByID *primitive.ObjectID) (models.Service, error) {
	svc, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Service{}, err
	}
	images, ok := models.RemoveImage(svc.Images, imageID)
	if !ok {
		return models.Service{}, apperr.ErrNotFound
	}
	return s.writeImages(ctx, id, images, updatedByID)
}

// SetPrimaryImage makes one image primary and demotes the rest.
func (s *Store) SetPrimaryImage(ctx context.Context, id, imageID primitive.ObjectID, updatedByID *primitive.ObjectID) (models.Service, error) {
	svc, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Service{}, err
	}
	images, ok := models.SetPrimaryImage(svc.Images, imageID)
	if !ok {
		return models.Service{}, apperr.ErrNotFound
	}
	return s.writeImages(ctx, id, images, updatedByID)
}
