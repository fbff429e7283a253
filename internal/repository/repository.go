package repository

import (
	"context"

	"docreview/internal/model"
)

// SubmissionRepository persists the submission journal. Strictly data
// access; no business logic here. The journal is bookkeeping around the
// authoritative ledger: a row with registered=false is content that was
// stored but never acknowledged by the ledger.
type SubmissionRepository interface {
	// Create inserts a new journal row and returns the stored record.
	Create(ctx context.Context, sub *model.Submission) (*model.Submission, error)

	// MarkRegistered flips the registered flag for a content id.
	MarkRegistered(ctx context.Context, contentID string) error

	// FindByContentID returns the most recent journal row for a content id.
	FindByContentID(ctx context.Context, contentID string) (*model.Submission, error)

	// ListUnregistered returns journal rows whose registration never
	// succeeded, oldest first.
	ListUnregistered(ctx context.Context) ([]model.Submission, error)
}
