// Package store wraps the external content-addressed object store. The
// engine treats it as a black box: upload yields a content id plus a
// dereferenceable location, list yields stored items with metadata. No
// ordering is guaranteed across List calls.
package store

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrStoreUnavailable marks transient store failures; safe to retry.
	ErrStoreUnavailable = errors.New("content store unavailable")
	// ErrUploadRejected marks uploads refused by policy (size, type);
	// retrying the same blob will fail again.
	ErrUploadRejected = errors.New("upload rejected")
)

// UploadOptions carries blob metadata supplied by the caller. Size must be
// the exact byte count when known; -1 means unknown and the adapter will
// measure while hashing.
type UploadOptions struct {
	Size        int64
	ContentType string
	Name        string
	UploadedBy  string
}

// ObjectRef identifies uploaded content: the content hash and a public
// gateway URL derived deterministically from it.
type ObjectRef struct {
	ContentID   string
	LocationRef string
}

// StoredObject is one item of a store listing.
type StoredObject struct {
	ContentID   string
	Name        string
	ContentType string
	Size        int64
	Owner       string
	StoredAt    time.Time
}

// ContentStore is the client-side contract against the external store.
type ContentStore interface {
	// Upload stores the blob under its content hash and returns the
	// resulting reference. Uploading identical content twice yields the
	// same ContentID without duplicating the object.
	Upload(ctx context.Context, r io.Reader, opt UploadOptions) (ObjectRef, error)

	// List returns every stored item with its metadata.
	List(ctx context.Context) ([]StoredObject, error)

	// Location derives the gateway URL for a content id.
	Location(contentID string) string
}
