package services

import (
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultMaxImageBytes caps uploaded images at 5 MB.
const DefaultMaxImageBytes int64 = 5 * 1024 * 1024

const suffixAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// ImageStore is the blob store holding item pictures.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	// KeyFromURL maps a public URL produced by PublicURL back to its key.
	KeyFromURL(url string) (string, bool)
}

// UploadResult is returned to clients after a successful upload.
type UploadResult struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

type ImageUploader struct {
	store    ImageStore
	maxBytes int64
	logger   zerolog.Logger
	now      func() time.Time
}

func NewImageUploader(store ImageStore, maxBytes int64) *ImageUploader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &ImageUploader{
		store:    store,
		maxBytes: maxBytes,
		logger:   log.With().Str("service", "imageUploader").Logger(),
		now:      time.Now,
	}
}

func (u *ImageUploader) MaxBytes() int64 {
	return u.maxBytes
}

// Upload checks size and content type, then stores data under
// <owner>/<unix millis>-<random>.<ext>.
func (u *ImageUploader) Upload(ctx context.Context, ownerID, filename string, data []byte) (*UploadResult, error) {
	if ownerID == "" {
		return nil, errs.NewAuthRequiredError()
	}
	if int64(len(data)) > u.maxBytes {
		return nil, errs.NewMaxBodySizeExceededError(u.maxBytes)
	}
	if len(data) == 0 {
		return nil, errs.NewMissingRequiredFieldError("file")
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, errs.NewUnsupportedMediaTypeError(detected.String(), "image/*")
	}
	ext := imageExtension(filename, detected)

	suffix, err := gonanoid.Generate(suffixAlphabet, 11)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("generate image name", err)
	}
	key := fmt.Sprintf("%s/%d-%s.%s", ownerID, u.now().UnixMilli(), suffix, ext)

	if err := u.store.Put(ctx, key, detected.String(), data); err != nil {
		return nil, errs.NewStorageError("upload image", err)
	}
	u.logger.Info().Str("key", key).Int("bytes", len(data)).Msg("image uploaded")
	return &UploadResult{URL: u.store.PublicURL(key), Path: key}, nil
}

// imageExtension keeps the filename's extension only when it names the sniffed
// type, so "shirt.jpeg" stays .jpeg but "evil.html" holding a PNG becomes .png.
func imageExtension(filename string, detected *mimetype.MIME) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext != "" {
		if declared, _, _ := strings.Cut(mime.TypeByExtension(ext), ";"); declared != "" && detected.Is(declared) {
			return strings.TrimPrefix(ext, ".")
		}
	}
	return strings.TrimPrefix(detected.Extension(), ".")
}

// Delete removes an uploaded image. Only keys under the owner's prefix may be removed.
func (u *ImageUploader) Delete(ctx context.Context, ownerID, key string) error {
	if ownerID == "" {
		return errs.NewAuthRequiredError()
	}
	if !strings.HasPrefix(key, ownerID+"/") {
		return errs.NewNotFound("image")
	}
	if err := u.store.Delete(ctx, key); err != nil {
		return errs.NewStorageError("delete image", err)
	}
	return nil
}
