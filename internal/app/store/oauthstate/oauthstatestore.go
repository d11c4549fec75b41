// internal/app/store/oauthstate/oauthstatestore.go
package oauthstate

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// State represents an OAuth state token record used during the Google
// sign-in flow. A TTL index on expires_at reaps stale tokens.
type State struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	State     string             `bson:"state"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Store provides access to the oauth_states collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new OAuth state store.
func New(db *mongo.Database) *Store {
	return &Store{
		c: db.Collection("oauth_states"),
	}
}

// Create stores a new OAuth state token (expires in 10 minutes).
func (s *Store) Create(ctx context.Context, state string) error {
	now := time.Now()
	doc := State{
		ID:        primitive.NewObjectID(),
		State:     state,
		ExpiresAt: now.Add(10 * time.Minute),
		CreatedAt: now,
	}

	_, err := s.c.InsertOne(ctx, doc)
	return err
}

// Verify checks if a state token is valid and deletes it (single use).
// Returns true if the state was valid, false otherwise.
func (s *Store) Verify(ctx context.Context, state string) bool {
	filter := bson.M{
		"state":      state,
		"expires_at": bson.M{"$gt": time.Now()},
	}

	result := s.c.FindOneAndDelete(ctx, filter)
	return result.Err() == nil
}
