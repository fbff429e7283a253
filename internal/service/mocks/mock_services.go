package mocks

import (
	"context"
	"io"

	"docreview/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Submit(ctx context.Context, r io.Reader, filename, contentType string, size int64, uploadedBy string) (*model.Document, error) {
	args := m.Called(ctx, r, filename, contentType, size, uploadedBy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockSubmissionService) RetryRegister(ctx context.Context, contentID string) error {
	args := m.Called(ctx, contentID)
	return args.Error(0)
}

func (m *MockSubmissionService) ListUnregistered(ctx context.Context) ([]model.Submission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Submission), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ListWithStatus(ctx context.Context) ([]model.Document, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockReviewService) Approve(ctx context.Context, contentID string) (*model.Document, error) {
	args := m.Called(ctx, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockReviewService) Deny(ctx context.Context, contentID string) (*model.Document, error) {
	args := m.Called(ctx, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}
