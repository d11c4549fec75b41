// Package contactinfostore persists the site's single contact information
// record (address, phones, working hours).
package contactinfostore

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

// Store provides contact info operations backed by the contact_info
// collection. The collection holds at most one document, enforced by a
// unique index on the singleton marker.
type Store struct {
	c *mongo.Collection
}

// New creates a contact info store using the provided database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("contact_info")}
}

// UpsertInput carries the editable contact info fields.
type UpsertInput struct {
	Address      string
	City         string
	Country      string
	Phones       []string
	Email        string
	WorkingHours string
	MapURL       string
	Description  string
	UpdatedByID  *primitive.ObjectID
}

// Upsert creates or replaces the singleton contact info record.
func (s *Store) Upsert(ctx context.Context, in UpsertInput) (models.ContactInfo, error) {
	phones := make([]string, 0, len(in.Phones))
	for _, p := range in.Phones {
		if p = strings.TrimSpace(p); p != "" {
			phones = append(phones, p)
		}
	}

	set := bson.M{
		"address":       strings.TrimSpace(in.Address),
		"city":          strings.TrimSpace(in.City),
		"country":       strings.TrimSpace(in.Country),
		"phones":        phones,
		"email":         normalize.Email(in.Email),
		"working_hours": strings.TrimSpace(in.WorkingHours),
		"map_url":       strings.TrimSpace(in.MapURL),
		"description":   strings.TrimSpace(in.Description),
		"updated_at":    time.Now().UTC(),
	}
	if in.UpdatedByID != nil {
		set["updated_by_id"] = *in.UpdatedByID
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"singleton": true,
		},
	}

	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{"singleton": true}, update, opts)
	if err != nil {
		// Two concurrent first writes can both attempt the insert; the
		// loser hits the unique singleton index and retries as an update.
		if apperr.IsDuplicateKey(err) {
			if _, err = s.c.UpdateOne(ctx, bson.M{"singleton": true}, update, opts); err != nil {
				return models.ContactInfo{}, apperr.FromMongo(err)
			}
		} else {
			return models.ContactInfo{}, apperr.FromMongo(err)
		}
	}
	return s.Get(ctx)
}

// Get returns the contact info record, or ErrNotFound if it has never
// been set.
func (s *Store) Get(ctx context.Context) (models.ContactInfo, error) {
	var info models.ContactInfo
	if err := s.c.FindOne(ctx, bson.M{"singleton": true}).Decode(&info); err != nil {
		return models.ContactInfo{}, apperr.FromMongo(err)
	}
	return info, nil
}

// Exists reports whether contact info has been set.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"singleton": true}, options.Count().SetLimit(1))
	if err != nil {
		return false, apperr.FromMongo(err)
	}
	return n > 0, nil
}
