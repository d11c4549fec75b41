// internal/domain/models/teammember.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TeamMember represents a person shown on the team page.
type TeamMember struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	Position string             `bson:"position" json:"position"`
	Bio      string             `bson:"bio,omitempty" json:"bio,omitempty"`
	Email    string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone    string             `bson:"phone,omitempty" json:"phone,omitempty"`
	PhotoURL string             `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Active   bool               `bson:"active" json:"active"`
	Order    int                `bson:"order" json:"order"`

	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
	UpdatedByID *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
}
