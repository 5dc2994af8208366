package services

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/rpupo63/virtual-closet-backend/database/memstore"
	"github.com/rpupo63/virtual-closet-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallest valid PNG header followed by padding is enough for content sniffing
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 64)...)

func TestImageUploader(t *testing.T) {
	ctx := context.Background()
	store := memstore.NewImageStore("https://cdn.test/clothing-images/")
	uploader := NewImageUploader(store, 1024)
	uploader.now = func() time.Time { return time.UnixMilli(1718323200000) }

	t.Run("stores under owner prefix", func(t *testing.T) {
		res, err := uploader.Upload(ctx, testOwner, "Shirt.PNG", pngBytes)
		require.NoError(t, err)

		assert.Regexp(t, regexp.MustCompile(`^user-1/1718323200000-[0-9a-z]{11}\.png$`), res.Path)
		assert.Equal(t, "https://cdn.test/clothing-images/"+res.Path, res.URL)

		obj, ok := store.Object(res.Path)
		require.True(t, ok)
		assert.Equal(t, "image/png", obj.ContentType)
	})

	t.Run("extension from content when filename has none", func(t *testing.T) {
		res, err := uploader.Upload(ctx, testOwner, "blob", pngBytes)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(res.Path, ".png"))
	})

	t.Run("mismatched filename extension is replaced by sniffed type", func(t *testing.T) {
		res, err := uploader.Upload(ctx, testOwner, "evil.html", pngBytes)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(res.Path, ".png"))
		assert.False(t, strings.Contains(res.Path, ".html"))

		obj, ok := store.Object(res.Path)
		require.True(t, ok)
		assert.Equal(t, "image/png", obj.ContentType)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := uploader.Upload(ctx, testOwner, "big.png", append(pngBytes, make([]byte, 1024)...))
		assert.True(t, errs.IsMaxBodySizeExceededError(err))
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := uploader.Upload(ctx, testOwner, "notes.png", []byte("just some text, definitely not a picture"))
		assert.True(t, errs.IsUnsupportedMediaTypeError(err))
	})

	t.Run("empty", func(t *testing.T) {
		_, err := uploader.Upload(ctx, testOwner, "empty.png", nil)
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("requires owner", func(t *testing.T) {
		_, err := uploader.Upload(ctx, "", "a.png", pngBytes)
		assert.True(t, errs.IsAuthRequired(err))
	})

	t.Run("delete is limited to own prefix", func(t *testing.T) {
		res, err := uploader.Upload(ctx, testOwner, "a.png", pngBytes)
		require.NoError(t, err)

		assert.Error(t, uploader.Delete(ctx, "user-2", res.Path))
		_, ok := store.Object(res.Path)
		assert.True(t, ok)

		require.NoError(t, uploader.Delete(ctx, testOwner, res.Path))
		_, ok = store.Object(res.Path)
		assert.False(t, ok)
	})
}

type brokenStore struct{ *memstore.ImageStore }

func (brokenStore) Put(context.Context, string, string, []byte) error {
	return errors.New("bucket unavailable")
}

func TestImageUploaderStorageFailure(t *testing.T) {
	uploader := NewImageUploader(brokenStore{memstore.NewImageStore("https://cdn.test")}, 0)
	_, err := uploader.Upload(context.Background(), testOwner, "a.png", pngBytes)
	assert.True(t, errs.IsStorage(err))
	assert.Equal(t, DefaultMaxImageBytes, uploader.MaxBytes())
}

func TestKeyFromPublicURL(t *testing.T) {
	key, ok := keyFromPublicURL("https://proj.supabase.co/storage/v1/object/public/clothing-images", "https://proj.supabase.co/storage/v1/object/public/clothing-images/user-1/a.png")
	require.True(t, ok)
	assert.Equal(t, "user-1/a.png", key)

	_, ok = keyFromPublicURL("https://cdn.test", "https://elsewhere.test/a.png")
	assert.False(t, ok)
}
