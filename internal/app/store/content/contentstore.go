// internal/app/store/content/contentstore.go
package contentstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dalemusser/stratacms/internal/app/system/apperr"
	"github.com/dalemusser/stratacms/internal/app/system/normalize"
	"github.com/dalemusser/stratacms/internal/domain/models"
)

// Store provides access to the page_content collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new content store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("page_content")}
}

// UpsertInput holds the writable fields for a page content upsert.
type UpsertInput struct {
	Page        string
	Title       string
	Content     bson.M
	Images      []string
	Active      *bool // nil leaves the flag untouched (true on first insert)
	UpdatedByID *primitive.ObjectID
}

// Upsert creates or updates the document for a page key in one atomic write.
// The unique index on page guarantees concurrent upserts for the same key
// converge on a single document. Returns the post-write document and whether
// a new document was created.
func (s *Store) Upsert(ctx context.Context, in UpsertInput) (models.PageContent, bool, error) {
	page := normalize.PageKey(in.Page)
	if !models.IsValidPageKey(page) {
		return models.PageContent{}, false, apperr.NewValidation("page", "unknown page key")
	}
	if in.Title == "" {
		return models.PageContent{}, false, apperr.NewValidation("title", "required")
	}

	now := time.Now().UTC()

	// Merge semantics: fields the caller did not supply stay untouched.
	set := bson.M{
		"title":      in.Title,
		"updated_at": now,
	}
	if in.Content != nil {
		set["content"] = in.Content
	}
	if in.Images != nil {
		set["images"] = in.Images
	}
	if in.Active != nil {
		set["active"] = *in.Active
	}
	if in.UpdatedByID != nil {
		set["updated_by_id"] = *in.UpdatedByID
	}

	setOnInsert := bson.M{
		"_id":        primitive.NewObjectID(),
		"page":       page,
		"created_at": now,
	}
	if in.Active == nil {
		setOnInsert["active"] = true
	}

	opts := options.Update().SetUpsert(true)
	update := bson.M{
		"$set":         set,
		"$setOnInsert": setOnInsert,
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"page": page}, update, opts)
	if err != nil && apperr.IsDuplicateKey(err) {
		// Two racing upserts both took the insert path; the loser hits the
		// unique page index. Retry once, which now matches the winner's
		// document and turns into a plain update.
		res, err = s.c.UpdateOne(ctx, bson.M{"page": page}, update, opts)
	}
	if err != nil {
		return models.PageContent{}, false, apperr.FromMongo(err)
	}
	created := res.UpsertedCount == 1

	doc, err := s.GetByPage(ctx, page)
	if err != nil {
		return models.PageContent{}, created, err
	}
	return doc, created, nil
}

// GetByPage returns the content document for a page key.
func (s *Store) GetByPage(ctx context.Context, page string) (models.PageContent, error) {
	page = normalize.PageKey(page)
	var doc models.PageContent
	if err := s.c.FindOne(ctx, bson.M{"page": page}).Decode(&doc); err != nil {
		return models.PageContent{}, apperr.FromMongo(err)
	}
	return doc, nil
}

// GetAllActive returns the active content documents in page key order
// (hero, about, contact, footer). Pages never written are simply absent.
func (s *Store) GetAllActive(ctx context.Context) ([]models.PageContent, error) {
	cur, err := s.c.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, apperr.FromMongo(err)
	}
	defer cur.Close(ctx)

	var docs []models.PageContent
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperr.FromMongo(err)
	}

	byPage := make(map[string]models.PageContent, len(docs))
	for _, d := range docs {
		byPage[d.Page] = d
	}
	ordered := make([]models.PageContent, 0, len(docs))
	for _, key := range models.AllPageKeys() {
		if d, ok := byPage[key]; ok {
			ordered = append(ordered, d)
		}
	}
	return ordered, nil
}

// SetActive flips a page's visibility without touching its content.
func (s *Store) SetActive(ctx context.Context, page string, active bool, updatedByID *primitive.ObjectID) error {
	page = normalize.PageKey(page)
	set := bson.M{
		"active":     active,
		"updated_at": time.Now().UTC(),
	}
	if updatedByID != nil {
		set["updated_by_id"] = *updatedByID
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"page": page}, bson.M{"$set": set})
	if err != nil {
		return apperr.FromMongo(err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Exists checks if a document for the given page key exists.
func (s *Store) Exists(ctx context.Context, page string) (bool, error) {
	count, err := s.c.CountDocuments(ctx, bson.M{"page": normalize.PageKey(page)})
	if err != nil {
		return false, apperr.FromMongo(err)
	}
	return count > 0, nil
}
