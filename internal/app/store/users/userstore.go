// internal/app/store/users/userstore.go
package userstore

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string admins type to log in

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/stratacms/internal/app/system/apperr"
	"github.com/dalemusser/stratacms/internal/app/system/normalize"
	"github.com/dalemusser/stratacms/internal/app/system/status"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, apperr.FromMongo(err)
	}
	return &u, nil
}

// GetByLoginID looks up a user by case/diacritic-insensitive login_id.
func (s *Store) GetByLoginID(ctx context.Context, loginID string) (*models.User, error) {
	var u models.User
	folded := text.Fold(loginID)
	if err := s.c.FindOne(ctx, bson.M{"login_id_ci": folded}).Decode(&u); err != nil {
		return nil, apperr.FromMongo(err)
	}
	return &u, nil
}

// GetByEmail looks up a user by email address (case-insensitive).
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, apperr.FromMongo(err)
	}
	return &u, nil
}

// Create inserts a new user after normalizing and validating fields.
// A login_id that already exists is rejected with ErrConflict.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)

	u.LoginID = normalize.Email(u.LoginID) // lowercase
	u.LoginIDCI = text.Fold(u.LoginID)     // folded for case/diacritic-insensitive matching

	if u.Email != nil && *u.Email != "" {
		email := normalize.Email(*u.Email)
		u.Email = &email
	}

	fields := map[string]string{}
	if u.LoginID == "" {
		fields["login_id"] = "login ID is required"
	}
	if !models.IsValidRole(u.Role) {
		fields["role"] = `role must be "admin" or "editor"`
	}
	if u.Status == "" {
		u.Status = status.Default()
	} else if !status.IsValid(normalize.Status(u.Status)) {
		fields["status"] = `status must be "active" or "disabled"`
	}
	if len(fields) > 0 {
		return models.User{}, &apperr.ValidationError{Fields: fields}
	}

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		return models.User{}, apperr.FromMongo(err)
	}
	return u, nil
}

// UpdateInput holds the optional fields for updating a user.
// All fields are pointers - nil means "don't update this field".
type UpdateInput struct {
	FullName     *string
	LoginID      *string
	Email        *string
	Role         *string
	Status       *string
	PasswordHash *string
}

// Update updates a user using optional fields. Only non-nil fields are
// touched. A login_id collision with another user yields ErrConflict.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}

	if in.FullName != nil {
		name := normalize.Name(*in.FullName)
		set["full_name"] = name
		set["full_name_ci"] = text.Fold(name)
	}
	if in.LoginID != nil {
		loginID := normalize.Email(*in.LoginID)
		set["login_id"] = loginID
		set["login_id_ci"] = text.Fold(loginID)
	}
	if in.Email != nil {
		set["email"] = normalize.Email(*in.Email)
	}
	if in.Role != nil {
		if !models.IsValidRole(*in.Role) {
			return apperr.NewValidation("role", `role must be "admin" or "editor"`)
		}
		set["role"] = *in.Role
	}
	if in.Status != nil {
		st := normalize.Status(*in.Status)
		if !status.IsValid(st) {
			return apperr.NewValidation("status", `status must be "active" or "disabled"`)
		}
		set["status"] = st
	}
	if in.PasswordHash != nil {
		set["password_hash"] = *in.PasswordHash
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

// UpdatePassword replaces a user's password hash.
func (s *Store) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	set := bson.M{
		"password_hash": passwordHash,
		"updated_at":    time.Now().UTC(),
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

// Delete deletes a user by ID.
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

// ExistsByLoginID checks if a user with the given login_id exists.
func (s *Store) ExistsByLoginID(ctx context.Context, loginID string) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{
		"login_id_ci": text.Fold(loginID),
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, apperr.FromMongo(err)
	}
	return count > 0, nil
}

// CountActiveAdmins returns the number of users with role=admin and status=active.
func (s *Store) CountActiveAdmins(ctx context.Context) (int64, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"role":   models.RoleAdmin,
		"status": status.Active,
	})
	if err != nil {
		return 0, apperr.FromMongo(err)
	}
	return n, nil
}

// ListAll returns all users sorted by full_name.
func (s *Store) ListAll(ctx context.Context) ([]models.User, error) {
	opts := options.Find().SetSort(bson.M{"full_name_ci": 1})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, apperr.FromMongo(err)
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, apperr.FromMongo(err)
	}
	return users, nil
}
