// internal/app/system/apperr/apperr.go
package apperr

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// Sentinel errors stores return; handlers map them to HTTP statuses.
var (
	// ErrNotFound: the record does not exist or is soft-deleted.
	ErrNotFound = errors.New("not found")

	// ErrConflict: a uniqueness constraint was violated (duplicate slug,
	// duplicate page key on first insert race).
	ErrConflict = errors.New("conflict")

	// ErrUnavailable: the database could not be reached.
	ErrUnavailable = errors.New("service unavailable")
)

// ValidationError carries per-field messages for a rejected input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidation builds a ValidationError for a single field.
func NewValidation(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// IsValidation reports whether err is (or wraps) a ValidationError and, if so,
// returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// FromMongo translates a driver error into the store taxonomy. Duplicate-key
// errors become ErrConflict, ErrNoDocuments becomes ErrNotFound, timeouts and
// server-selection failures become ErrUnavailable. Anything else passes
// through unchanged.
func FromMongo(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if IsDuplicateKey(err) {
		return ErrConflict
	}
	// Server-selection failures surface through IsTimeout/IsNetworkError;
	// the driver does not export the topology error type.
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return ErrUnavailable
	}
	return err
}

// IsDuplicateKey reports whether err is a Mongo duplicate key error. DocDB
// is not always faithful about error shapes, so we also match the message.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}
