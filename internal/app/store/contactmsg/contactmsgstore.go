// Package contactmsgstore persists messages submitted through the public
// contact form and tracks their read/replied lifecycle.
package contactmsgstore

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

// Store provides contact message operations backed by the contact_messages
// collection.
type Store struct {
	c *mongo.Collection
}

// New creates a contact message store using the provided database.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("contact_messages")}
}

// CreateInput carries the public contact form fields.
type CreateInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// ListFilter narrows List results. The zero value lists everything.
type ListFilter struct {
	UnreadOnly bool
}

// Create records a new message from the public contact form. Messages start
// unread and unreplied.
func (s *Store) Create(ctx context.Context, in CreateInput) (models.ContactMessage, error) {
	in.Name = normalize.Name(in.Name)
	in.Email = normalize.Email(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)

	fields := map[string]string{}
	if in.Name == "" {
		fields["name"] = "name is required"
	}
	if in.Email == "" {
		fields["email"] = "email is required"
	} else if !strings.Contains(in.Email, "@") {
		fields["email"] = "email is invalid"
	}
	if in.Message == "" {
		fields["message"] = "message is required"
	}
	if len(fields) > 0 {
		return models.ContactMessage{}, &apperr.ValidationError{Fields: fields}
	}

	m := models.ContactMessage{
		ID:        primitive.NewObjectID(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     strings.TrimSpace(in.Phone),
		Subject:   in.Subject,
		Message:   in.Message,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.ContactMessage{}, apperr.FromMongo(err)
	}
	return m, nil
}

// List returns messages newest first, optionally restricted to unread ones.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]models.ContactMessage, error) {
	q := bson.M{}
	if filter.UnreadOnly {
		q["is_read"] = false
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, q, opts)
	if err != nil {
		return nil, apperr.FromMongo(err)
	}
	defer cur.Close(ctx)

	var out []models.ContactMessage
	if err := cur.All(ctx, &out); err != nil {
		return nil, apperr.FromMongo(err)
	}
	return out, nil
}

// CountUnread reports how many messages have not been read.
func (s *Store) CountUnread(ctx context.Context) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"is_read": false})
	if err != nil {
		return 0, apperr.FromMongo(err)
	}
	return n, nil
}

// GetByID returns a single message.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ContactMessage, error) {
	var m models.ContactMessage
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return models.ContactMessage{}, apperr.FromMongo(err)
	}
	return m, nil
}

// MarkRead flags a message as read. Marking an already-read message is a
// no-op that still succeeds.
func (s *Store) MarkRead(ctx context.Context, id primitive.ObjectID) (models.ContactMessage, error) {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"is_read": true}})
	if err != nil {
		return models.ContactMessage{}, apperr.FromMongo(err)
	}
	if res.MatchedCount == 0 {
		return models.ContactMessage{}, apperr.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Reply records a reply on a message and marks it read and replied. The
// reply text is required; repliedBy is the id of the admin who answered.
func (s *Store) Reply(ctx context.Context, id primitive.ObjectID, message string, repliedBy primitive.ObjectID) (models.ContactMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return models.ContactMessage{}, apperr.NewValidation("message", "reply message is required")
	}

	set := bson.M{
		"is_read":    true,
		"is_replied": true,
		"reply": models.Reply{
			Message:   message,
			RepliedBy: repliedBy,
			RepliedAt: time.Now().UTC(),
		},
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return models.ContactMessage{}, apperr.FromMongo(err)
	}
	if res.MatchedCount == 0 {
		return models.ContactMessage{}, apperr.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Delete removes a message permanently.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.FromMongo(err)
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
