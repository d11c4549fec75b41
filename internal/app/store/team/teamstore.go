// Package teamstore persists team member profiles for the public
// "our team" section and the admin roster.
package teamstore

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/stratacms/internal/app/system/apperr"
	"github.com/dalemusser/stratacms/internal/app/system/normalize"
	"github.com/dalemusser/stratacms/internal/domain/models"
)

// Store provides team member operations backed by the team_members collection.
type Store struct {
	c *mongo.Collection
}

// New creates a team member store using the provided database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("team_members")}
}

// CreateInput carries the fields accepted when adding a team member.
type CreateInput struct {
	Name        string
	Position    string
	Bio         string
	Email       string
	Phone       string
	PhotoURL    string
	Order       int
	UpdatedByID *primitive.ObjectID
}

// UpdateInput carries the fields accepted when editing a team member.
// The photo is managed separately via SetPhoto.
type UpdateInput struct {
	Name        string
	Position    string
	Bio         string
	Email       string
	Phone       string
	Order       int
	UpdatedByID *primitive.ObjectID
}

func validateCore(name, position string) error {
	fields := map[string]string{}
	if name == "" {
		fields["name"] = "name is required"
	}
	if position == "" {
		fields["position"] = "position is required"
	}
	if len(fields) > 0 {
		return &apperr.ValidationError{Fields: fields}
	}
	return nil
}

// Create inserts a new team member. New members are active.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.TeamMember, error) {
	in.Name = normalize.Name(in.Name)
	in.Position = normalize.Name(in.Position)
	if err := validateCore(in.Name, in.Position); err != nil {
		return models.TeamMember{}, err
	}

	now := time.Now().UTC()
	m := models.TeamMember{
		ID:          primitive.NewObjectID(),
		Name:        in.Name,
		Position:    in.Position,
		Bio:         in.Bio,
		Email:       normalize.Email(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		PhotoURL:    strings.TrimSpace(in.PhotoURL),
		Active:      true,
		Order:       in.Order,
		CreatedAt:   now,
		UpdatedAt:   now,
		UpdatedByID: in.UpdatedByID,
	}

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.TeamMember{}, apperr.FromMongo(err)
	}
	return m, nil
}

// Update rewrites a team member's profile fields.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (models.TeamMember, error) {
	in.Name = normalize.Name(in.Name)
	in.Position = normalize.Name(in.Position)
	if err := validateCore(in.Name, in.Position); err != nil {
		return models.TeamMember{}, err
	}

	set := bson.M{
		"name":       in.Name,
		"position":   in.Position,
		"bio":        in.Bio,
		"email":      normalize.Email(in.Email),
		"phone":      strings.TrimSpace(in.Phone),
		"order":      in.Order,
		"updated_at": time.Now().UTC(),
	}
	if in.UpdatedByID != nil {
		set["updated_by_id"] = *in.UpdatedByID
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return models.TeamMember{}, apperr.FromMongo(err)
	}
	if res.MatchedCount == 0 {
		return models.TeamMember{}, apperr.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// SetPhoto records the stored photo URL for a team member. An empty URL
// clears the photo.
func (s *Store) SetPhoto(ctx context.Context, id primitive.ObjectID, photoURL string, updatedByID *primitive.ObjectID) (models.TeamMember, error) {
	set := bson.M{
		"photo_url":  strings.TrimSpace(photoURL),
		"updated_at": time.Now().UTC(),
	}
	if updatedByID != nil {
		set["updated_by_id"] = *updatedByID
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return models.TeamMember{}, apperr.FromMongo(err)
	}
	if res.MatchedCount == 0 {
		return models.TeamMember{}, apperr.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// SoftDelete deactivates a team member. The record remains for the admin
// roster but disappears from the public listing.
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

// GetByID returns a team member regardless of active state.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.TeamMember, error) {
	var m models.TeamMember
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		return models.TeamMember{}, apperr.FromMongo(err)
	}
	return m, nil
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.TeamMember, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "order", Value: 1},
		{Key: "name", Value: 1},
	})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.FromMongo(err)
	}
	defer cur.Close(ctx)

	var out []models.TeamMember
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.FromMongo(err)
	}
	return out, nil
}

// ListActive returns active team members in display order.
func (s *Store) ListActive(ctx context.Context) ([]models.TeamMember, error) {
	return s.list(ctx, bson.M{"active": true})
}

// ListAll returns every team member, active or not, in display order.
func (s *Store) ListAll(ctx context.Context) ([]models.TeamMember, error) {
	return s.list(ctx, bson.M{})
}
