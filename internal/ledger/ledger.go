// Package ledger wraps the external authoritative moderation ledger. The
// client addresses one target resolved once at construction; it never
// resolves per call. All four operations are keyed by content id.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"docreview/internal/model"
)

// ErrTargetUnresolved means no ledger target could be resolved from
// configuration. Construction fails closed: no operation is attempted
// against an unresolved target.
var ErrTargetUnresolved = errors.New("ledger target unresolved")

// TransportError marks a remote call whose outcome is unknown: the request
// may or may not have reached the ledger. Retryable for reads and for the
// idempotent register; moderation callers must re-read before retrying.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ledger %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RejectedError marks a call the ledger refused outright, such as a
// moderation action on an already-decided document. Not retryable.
type RejectedError struct {
	Op     string
	Status int
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("ledger %s rejected (%d): %s", e.Op, e.Status, e.Reason)
}

// Client is the client-side contract against the ledger.
type Client interface {
	// Register records new content with the ledger, entering it as
	// pending. Registering an id that is already known is treated as
	// success; the ledger deduplicates.
	Register(ctx context.Context, contentID string) error

	// GetStatus reads the authoritative status. Pure read, safe to call
	// concurrently and to abandon via ctx cancellation.
	GetStatus(ctx context.Context, contentID string) (model.Status, error)

	// Approve records an approval decision.
	Approve(ctx context.Context, contentID string) error

	// Deny records a denial decision.
	Deny(ctx context.Context, contentID string) error
}
