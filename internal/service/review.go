package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"docreview/internal/ledger"
	"docreview/internal/model"
	"docreview/internal/store"
)

// ErrListingFailed marks a wholesale listing failure: the content store
// itself could not be listed. Per-item status failures never surface as
// this; they degrade the item to StatusUnknown instead.
var ErrListingFailed = errors.New("listing failed")

const defaultFanout = 16

// ModerationAction identifies which decision was being applied when a
// moderation call failed.
type ModerationAction string

const (
	ActionApprove ModerationAction = "approve"
	ActionDeny    ModerationAction = "deny"
)

// ModerationError reports a failed approve/deny. The local view is left at
// its pre-call value: a failed call means no authoritative change happened.
type ModerationError struct {
	Action ModerationAction
	Err    error
}

func (e *ModerationError) Error() string {
	return fmt.Sprintf("moderation %s failed: %v", e.Action, e.Err)
}

func (e *ModerationError) Unwrap() error { return e.Err }

// ReviewService reconciles the content store listing with the ledger's
// authoritative per-document status and applies moderation decisions.
type ReviewService interface {
	// ListWithStatus lists stored documents and resolves each one's
	// status from the ledger concurrently. A single item's status
	// failure never fails or blocks the others; such items carry
	// StatusUnknown. Fails wholesale only if the store listing fails
	// or ctx is cancelled.
	ListWithStatus(ctx context.Context) ([]model.Document, error)

	// Approve records an approval and, only after the ledger
	// acknowledges it, patches the cached view.
	Approve(ctx context.Context, contentID string) (*model.Document, error)

	// Deny records a denial, with the same commit semantics as Approve.
	Deny(ctx context.Context, contentID string) (*model.Document, error)
}

// reviewService keeps the last reconciled listing as a read-model cache.
// The cache is replaced wholesale by ListWithStatus and patched by id on
// acknowledged moderation; fan-out goroutines never touch it.
type reviewService struct {
	store  store.ContentStore
	ledger ledger.Client
	fanout int

	mu   sync.RWMutex
	view map[string]model.Document
}

// NewReviewService constructs a ReviewService. fanout bounds the number of
// concurrent status reads per listing; values <= 0 select the default.
func NewReviewService(cs store.ContentStore, lc ledger.Client, fanout int) ReviewService {
	if fanout <= 0 {
		fanout = defaultFanout
	}
	return &reviewService{
		store:  cs,
		ledger: lc,
		fanout: fanout,
		view:   make(map[string]model.Document),
	}
}

func (s *reviewService) ListWithStatus(ctx context.Context) ([]model.Document, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListingFailed, err)
	}

	distinct := dedupe(items)
	docs := make([]model.Document, len(distinct))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)

	for i, it := range distinct {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			status, err := s.ledger.GetStatus(gctx, it.ContentID)
			if err != nil {
				// Contained per-item failure: the document is
				// rendered with an unresolved status rather than
				// defaulting to pending or vanishing.
				status = model.StatusUnknown
			}

			docs[i] = model.Document{
				ID:          it.ContentID,
				Name:        it.Name,
				MimeType:    it.ContentType,
				Size:        it.Size,
				UploadedBy:  it.Owner,
				UploadedAt:  it.StoredAt,
				LocationRef: s.store.Location(it.ContentID),
				Status:      status,
			}
			return nil
		})
	}

	// Only caller cancellation can surface here; per-item status
	// failures are captured as values above.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := make(map[string]model.Document, len(docs))
	for _, d := range docs {
		view[d.ID] = d
	}
	s.mu.Lock()
	s.view = view
	s.mu.Unlock()

	return docs, nil
}

func (s *reviewService) Approve(ctx context.Context, contentID string) (*model.Document, error) {
	return s.moderate(ctx, contentID, ActionApprove)
}

func (s *reviewService) Deny(ctx context.Context, contentID string) (*model.Document, error) {
	return s.moderate(ctx, contentID, ActionDeny)
}

// moderate issues the ledger call and commits the optimistic view update
// strictly after a successful acknowledgment. On failure the view keeps
// its pre-call value; the next ListWithStatus reconciles either way.
func (s *reviewService) moderate(ctx context.Context, contentID string, action ModerationAction) (*model.Document, error) {
	var err error
	var target model.Status
	switch action {
	case ActionApprove:
		err = s.ledger.Approve(ctx, contentID)
		target = model.StatusApproved
	default:
		err = s.ledger.Deny(ctx, contentID)
		target = model.StatusDenied
	}
	if err != nil {
		return nil, &ModerationError{Action: action, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.view[contentID]
	if !ok {
		doc = model.Document{ID: contentID, LocationRef: s.store.Location(contentID)}
	}
	doc.Status = target
	s.view[contentID] = doc
	return &doc, nil
}

// dedupe drops repeated content ids, keeping first-seen metadata and the
// store's original order.
func dedupe(items []store.StoredObject) []store.StoredObject {
	distinct := make([]store.StoredObject, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ContentID]; dup {
			continue
		}
		seen[it.ContentID] = struct{}{}
		distinct = append(distinct, it)
	}
	return distinct
}
