// Package uploads ingests image uploads for services, team photos, and page
// content. It accepts either a multipart file or a Base64 data URL and
// writes the bytes to the configured storage backend (local disk or
// S3/CloudFront via waffle pantry/storage), returning an opaque URL string
// that callers store as-is.
package uploads

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dalemusser/stratacms/internal/app/system/apperr"
)

// MaxImageSize is the upload cap for a single image.
const MaxImageSize = 5 << 20 // 5MB

// extToContentType is the allowlist of accepted image extensions.
var extToContentType = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// contentTypeToExt maps accepted data-URL media types back to an extension.
var contentTypeToExt = map[string]string{
	"image/jpeg":    ".jpg",
	"image/png":     ".png",
	"image/gif":     ".gif",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

// Saver writes image uploads to a storage backend and hands back the URL
// under which they will be served.
type Saver struct {
	store   storage.Store
	baseURL string // public prefix, e.g. "/uploads" or a CloudFront origin
	logger  *zap.Logger
}

// NewSaver creates an image Saver. baseURL is the public prefix under which
// stored files are served (the local fileserver mount or a CDN origin).
func NewSaver(store storage.Store, baseURL string, logger *zap.Logger) *Saver {
	return &Saver{
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// storagePath builds a date-bucketed unique path: images/YYYY/MM/<uuid><ext>.
func storagePath(ext string) string {
	now := time.Now().UTC()
	return fmt.Sprintf("images/%04d/%02d/%s%s", now.Year(), int(now.Month()), uuid.New().String(), ext)
}

// SaveMultipart stores an uploaded image file and returns its public URL.
// Files over MaxImageSize or with an extension outside the image allowlist
// are rejected with a validation error.
func (s *Saver) SaveMultipart(ctx context.Context, f multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > MaxImageSize {
		return "", apperr.NewValidation("file", "image exceeds the 5 MB limit")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := extToContentType[ext]
	if !ok {
		return "", apperr.NewValidation("file", "unsupported image type")
	}

	path := storagePath(ext)
	if err := s.store.Put(ctx, path, f, &storage.PutOptions{ContentType: contentType}); err != nil {
		s.logger.Error("failed to store uploaded image",
			zap.String("path", path),
			zap.Error(err),
		)
		return "", err
	}

	s.logger.Debug("image stored",
		zap.String("path", path),
		zap.Int64("size", header.Size),
	)
	return s.baseURL + "/" + path, nil
}

// SaveDataURL decodes a Base64 data URL ("data:image/png;base64,...") and
// stores its payload, returning the public URL. Non-image media types and
// oversized payloads are rejected with a validation error.
func (s *Saver) SaveDataURL(ctx context.Context, dataURL string) (string, error) {
	contentType, payload, err := parseDataURL(dataURL)
	if err != nil {
		return "", err
	}

	ext, ok := contentTypeToExt[contentType]
	if !ok {
		return "", apperr.NewValidation("image", "unsupported image type")
	}
	if len(payload) > MaxImageSize {
		return "", apperr.NewValidation("image", "image exceeds the 5 MB limit")
	}

	path := storagePath(ext)
	if err := s.store.Put(ctx, path, bytes.NewReader(payload), &storage.PutOptions{ContentType: contentType}); err != nil {
		s.logger.Error("failed to store data-URL image",
			zap.String("path", path),
			zap.Error(err),
		)
		return "", err
	}

	s.logger.Debug("image stored",
		zap.String("path", path),
		zap.Int("size", len(payload)),
	)
	return s.baseURL + "/" + path, nil
}

// Delete removes a stored image given the URL previously returned by a Save
// call. URLs outside this saver's base prefix are ignored.
func (s *Saver) Delete(ctx context.Context, url string) error {
	path, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return nil
	}
	return s.store.Delete(ctx, path)
}

// IsDataURL reports whether the string looks like a Base64 data URL rather
// than a plain path or http(s) URL.
func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// parseDataURL splits "data:<mediatype>;base64,<payload>" into its media
// type and decoded payload.
func parseDataURL(dataURL string) (contentType string, payload []byte, err error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, apperr.NewValidation("image", "not a data URL")
	}

	meta, encoded, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, apperr.NewValidation("image", "malformed data URL")
	}

	contentType, enc, hasEnc := strings.Cut(meta, ";")
	if !hasEnc || enc != "base64" {
		return "", nil, apperr.NewValidation("image", "data URL must be base64-encoded")
	}

	payload, err = base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, apperr.NewValidation("image", "invalid base64 payload")
	}
	return contentType, payload, nil
}
