// internal/domain/models/pagecontent.go
package models

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrUnknownPageKey is returned when a page key is not one of AllPageKeys.
var ErrUnknownPageKey = errors.New("unknown page key")

// PageContent holds the editable content for one of the site's fixed pages.
// There is at most one document per page key; the content store enforces this
// with an upsert against the unique page index.
type PageContent struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Page    string             `bson:"page" json:"page"`       // Page key: "hero", "about", "contact", "footer"
	Title   string             `bson:"title" json:"title"`     // Display title
	Content bson.M             `bson:"content" json:"content"` // Typed shape per page key; see DecodePageBody
	Images  []string           `bson:"images,omitempty" json:"images,omitempty"`
	Active  bool               `bson:"active" json:"active"`

	// Audit fields
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
	UpdatedByID *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
}

// Page keys
const (
	PageHero    = "hero"
	PageAbout   = "about"
	PageContact = "contact"
	PageFooter  = "footer"
)

// AllPageKeys returns all valid page keys.
func AllPageKeys() []string {
	return []string{
		PageHero,
		PageAbout,
		PageContact,
		PageFooter,
	}
}

// IsValidPageKey checks if a page key is valid.
func IsValidPageKey(page string) bool {
	for _, p := range AllPageKeys() {
		if p == page {
			return true
		}
	}
	return false
}

// HeroBody is the content shape for the "hero" page.
type HeroBody struct {
	Heading    string   `bson:"heading" json:"heading"`
	Subheading string   `bson:"subheading,omitempty" json:"subheading,omitempty"`
	CTALabel   string   `bson:"cta_label,omitempty" json:"cta_label,omitempty"`
	CTAURL     string   `bson:"cta_url,omitempty" json:"cta_url,omitempty"`
	Slides     []string `bson:"slides,omitempty" json:"slides,omitempty"`
}

// AboutBody is the content shape for the "about" page.
type AboutBody struct {
	Intro      string   `bson:"intro" json:"intro"`
	BodyHTML   string   `bson:"body_html,omitempty" json:"body_html,omitempty"`
	Highlights []string `bson:"highlights,omitempty" json:"highlights,omitempty"`
}

// ContactBody is the content shape for the "contact" page.
type ContactBody struct {
	Intro     string `bson:"intro" json:"intro"`
	FormTitle string `bson:"form_title,omitempty" json:"form_title,omitempty"`
	MapEmbed  string `bson:"map_embed,omitempty" json:"map_embed,omitempty"`
}

// FooterBody is the content shape for the "footer" page.
type FooterBody struct {
	Tagline   string            `bson:"tagline,omitempty" json:"tagline,omitempty"`
	Copyright string            `bson:"copyright" json:"copyright"`
	Links     map[string]string `bson:"links,omitempty" json:"links,omitempty"`
}

// allowedBodyKeys lists the recognized content fields per page key.
var allowedBodyKeys = map[string][]string{
	PageHero:    {"heading", "subheading", "cta_label", "cta_url", "slides"},
	PageAbout:   {"intro", "body_html", "highlights"},
	PageContact: {"intro", "form_title", "map_embed"},
	PageFooter:  {"tagline", "copyright", "links"},
}

// DecodePageBody decodes a raw content document into the typed shape for the
// given page key. Fields outside the page's shape are rejected, not dropped,
// so a mistyped field name surfaces as an error instead of vanishing.
// Unknown page keys return an error; callers should check IsValidPageKey
// first.
func DecodePageBody(page string, content bson.M) (any, error) {
	allowed, ok := allowedBodyKeys[page]
	if !ok {
		return nil, ErrUnknownPageKey
	}
	for key := range content {
		if !slices.Contains(allowed, key) {
			return nil, fmt.Errorf("unknown content field %q for page %q", key, page)
		}
	}

	raw, err := bson.Marshal(content)
	if err != nil {
		return nil, err
	}

	switch page {
	case PageHero:
		var b HeroBody
		err = bson.Unmarshal(raw, &b)
		return b, err
	case PageAbout:
		var b AboutBody
		err = bson.Unmarshal(raw, &b)
		return b, err
	case PageContact:
		var b ContactBody
		err = bson.Unmarshal(raw, &b)
		return b, err
	case PageFooter:
		var b FooterBody
		err = bson.Unmarshal(raw, &b)
		return b, err
	}
	return nil, ErrUnknownPageKey
}
