package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinioStore_Validate(t *testing.T) {
	ms := &minioStore{
		maxBytes: 100,
		allowed:  []string{"application/pdf"},
	}

	t.Run("accepts allowed type within size", func(t *testing.T) {
		err := ms.validate(UploadOptions{Size: 100, ContentType: "application/pdf"})
		assert.NoError(t, err)
	})

	t.Run("rejects oversized declared blob", func(t *testing.T) {
		err := ms.validate(UploadOptions{Size: 101, ContentType: "application/pdf"})
		assert.ErrorIs(t, err, ErrUploadRejected)
	})

	t.Run("rejects disallowed content type", func(t *testing.T) {
		err := ms.validate(UploadOptions{Size: 10, ContentType: "image/png"})
		assert.ErrorIs(t, err, ErrUploadRejected)
	})

	t.Run("empty allowlist accepts any type", func(t *testing.T) {
		open := &minioStore{maxBytes: 100}
		err := open.validate(UploadOptions{Size: 10, ContentType: "image/png"})
		assert.NoError(t, err)
	})

	t.Run("zero max disables size check", func(t *testing.T) {
		unbounded := &minioStore{allowed: []string{"application/pdf"}}
		err := unbounded.validate(UploadOptions{Size: 1 << 40, ContentType: "application/pdf"})
		assert.NoError(t, err)
	})
}

func TestMinioStore_UploadRejectsBeforeTouchingBackend(t *testing.T) {
	// client is nil: a rejection must happen before any backend call.
	ms := &minioStore{
		maxBytes: 10,
		allowed:  []string{"application/pdf"},
	}

	t.Run("declared size over limit", func(t *testing.T) {
		_, err := ms.Upload(context.Background(), strings.NewReader("x"), UploadOptions{
			Size:        11,
			ContentType: "application/pdf",
		})
		assert.ErrorIs(t, err, ErrUploadRejected)
	})

	t.Run("actual bytes over limit", func(t *testing.T) {
		// Declared size lies; the streamed byte count is what counts.
		_, err := ms.Upload(context.Background(), bytes.NewReader(make([]byte, 11)), UploadOptions{
			Size:        5,
			ContentType: "application/pdf",
		})
		assert.ErrorIs(t, err, ErrUploadRejected)
	})
}

func TestMinioStore_Location(t *testing.T) {
	ms := &minioStore{gateway: "https://gw.example.com"}

	id := sum256("hello")
	assert.Equal(t, "https://gw.example.com/"+id, ms.Location(id))
}

func sum256(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}
