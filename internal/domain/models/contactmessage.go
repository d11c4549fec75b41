// internal/domain/models/contactmessage.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reply is an admin's response to a contact message.
type Reply struct {
	Message   string             `bson:"message" json:"message"`
	RepliedBy primitive.ObjectID `bson:"replied_by" json:"replied_by"`
	RepliedAt time.Time          `bson:"replied_at" json:"replied_at"`
}

// ContactMessage is a message submitted through the public contact form.
//
// Lifecycle: created by the public form, then mutated by admin actions
// (mark read, reply) and finally hard-deleted by an admin. Unlike services
// and team members there is no soft-delete for messages.
type ContactMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Subject   string             `bson:"subject" json:"subject"`
	Message   string             `bson:"message" json:"message"`
	IsRead    bool               `bson:"is_read" json:"is_read"`
	IsReplied bool               `bson:"is_replied" json:"is_replied"`
	Reply     *Reply             `bson:"reply,omitempty" json:"reply,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
