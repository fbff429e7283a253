package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"docreview/internal/ledger"
	"docreview/internal/model"
	"docreview/internal/repository"
	"docreview/internal/store"
)

var (
	ErrReaderNil          = errors.New("reader is nil")
	ErrSubmissionNotFound = errors.New("submission not found")
)

// SubmissionStage identifies which step of a submission failed.
type SubmissionStage string

const (
	StageUpload   SubmissionStage = "upload"
	StageRegister SubmissionStage = "register"
	StageJournal  SubmissionStage = "journal"
)

// SubmissionError reports a failed submission together with the stage that
// failed and, when the upload already succeeded, the obtained content id so
// the caller can retry registration without re-uploading.
type SubmissionError struct {
	Stage     SubmissionStage
	ContentID string
	Err       error
}

func (e *SubmissionError) Error() string {
	if e.ContentID != "" {
		return fmt.Sprintf("submission failed at %s stage (content %s): %v", e.Stage, e.ContentID, e.Err)
	}
	return fmt.Sprintf("submission failed at %s stage: %v", e.Stage, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// SubmissionService drives "upload then register" as one logical
// transaction from the caller's point of view. Exactly one attempt per
// call; a register failure leaves the content stored but unregistered,
// which the journal records for later retry.
type SubmissionService interface {
	// Submit uploads the blob to the content store and registers the
	// resulting content id with the ledger. The returned document is
	// pending: registration enters it into the ledger as such.
	Submit(ctx context.Context, r io.Reader, filename, contentType string, size int64, uploadedBy string) (*model.Document, error)

	// RetryRegister re-attempts registration for already-stored content.
	RetryRegister(ctx context.Context, contentID string) error

	// ListUnregistered returns journal rows for stored content the
	// ledger never acknowledged.
	ListUnregistered(ctx context.Context) ([]model.Submission, error)
}

type submissionService struct {
	store   store.ContentStore
	ledger  ledger.Client
	journal repository.SubmissionRepository
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(cs store.ContentStore, lc ledger.Client, journal repository.SubmissionRepository) SubmissionService {
	return &submissionService{store: cs, ledger: lc, journal: journal}
}

func (s *submissionService) Submit(ctx context.Context, r io.Reader, filename, contentType string, size int64, uploadedBy string) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	now := time.Now().UTC()

	ref, err := s.store.Upload(ctx, r, store.UploadOptions{
		Size:        size,
		ContentType: contentType,
		Name:        filename,
		UploadedBy:  uploadedBy,
	})
	if err != nil {
		return nil, &SubmissionError{Stage: StageUpload, Err: err}
	}

	// Journal the row before registering so a register failure is
	// visible as registered=false rather than lost entirely.
	if _, err := s.journal.Create(ctx, &model.Submission{
		ID:          uuid.New().String(),
		ContentID:   ref.ContentID,
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		Registered:  false,
		CreatedAt:   now,
	}); err != nil {
		return nil, &SubmissionError{Stage: StageJournal, ContentID: ref.ContentID, Err: err}
	}

	if err := s.ledger.Register(ctx, ref.ContentID); err != nil {
		return nil, &SubmissionError{Stage: StageRegister, ContentID: ref.ContentID, Err: err}
	}

	// Register is idempotent, so a failure here is recoverable by
	// retrying the register stage; the journal row stays unregistered
	// until that succeeds.
	if err := s.journal.MarkRegistered(ctx, ref.ContentID); err != nil {
		return nil, &SubmissionError{Stage: StageJournal, ContentID: ref.ContentID, Err: err}
	}

	return &model.Document{
		ID:          ref.ContentID,
		Name:        filename,
		MimeType:    contentType,
		Size:        size,
		UploadedBy:  uploadedBy,
		UploadedAt:  now,
		LocationRef: ref.LocationRef,
		Status:      model.StatusPending,
	}, nil
}

func (s *submissionService) RetryRegister(ctx context.Context, contentID string) error {
	// Only journaled content can be retried; an id the journal never saw
	// must not be pushed into the ledger.
	if _, err := s.journal.FindByContentID(ctx, contentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSubmissionNotFound
		}
		return &SubmissionError{Stage: StageJournal, ContentID: contentID, Err: err}
	}

	if err := s.ledger.Register(ctx, contentID); err != nil {
		return &SubmissionError{Stage: StageRegister, ContentID: contentID, Err: err}
	}
	if err := s.journal.MarkRegistered(ctx, contentID); err != nil {
		return &SubmissionError{Stage: StageJournal, ContentID: contentID, Err: err}
	}
	return nil
}

func (s *submissionService) ListUnregistered(ctx context.Context) ([]model.Submission, error) {
	return s.journal.ListUnregistered(ctx)
}
