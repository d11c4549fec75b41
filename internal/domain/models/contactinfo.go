// internal/domain/models/contactinfo.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContactInfo is the site-wide contact information record.
//
// Exactly one document exists at most: the store keys it on a singleton
// marker field with a unique index and creates/updates it with the same
// upsert used for page content, rather than relying on find-without-filter.
type ContactInfo struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Singleton    bool               `bson:"singleton" json:"-"` // Always true; unique-indexed
	Address      string             `bson:"address" json:"address"`
	City         string             `bson:"city" json:"city"`
	Country      string             `bson:"country" json:"country"`
	Phones       []string           `bson:"phones,omitempty" json:"phones,omitempty"`
	Email        string             `bson:"email" json:"email"`
	WorkingHours string             `bson:"working_hours,omitempty" json:"working_hours,omitempty"`
	MapURL       string             `bson:"map_url,omitempty" json:"map_url,omitempty"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`

	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
	UpdatedByID *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
}
