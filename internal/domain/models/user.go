// internal/domain/models/user.go
package models

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string admins type to log in

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a CMS admin or editor account.
//
// Auth fields:
//   - LoginID: What the user types to identify themselves (stored lowercase)
//   - LoginIDCI: Case/diacritic-insensitive version for matching (folded)
//   - Email: Contact email, also used for Google sign-in matching (lowercase)
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped

	LoginID   string  `bson:"login_id" json:"login_id"`
	LoginIDCI string  `bson:"login_id_ci" json:"-"` // Folded for case/diacritic-insensitive matching
	Email     *string `bson:"email,omitempty" json:"email,omitempty"`

	PasswordHash string `bson:"password_hash" json:"-"` // bcrypt hash (never in JSON)

	Role   string `bson:"role" json:"role"`     // admin, editor
	Status string `bson:"status" json:"status"` // active, disabled

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// User roles
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// AllRoles returns all valid user roles.
func AllRoles() []string {
	return []string{
		RoleAdmin,
		RoleEditor,
	}
}

// IsValidRole checks if a role is valid.
func IsValidRole(role string) bool {
	for _, r := range AllRoles() {
		if r == role {
			return true
		}
	}
	return false
}
