package mocks

import (
	"context"

	"docreview/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, sub *model.Submission) (*model.Submission, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) MarkRegistered(ctx context.Context, contentID string) error {
	args := m.Called(ctx, contentID)
	return args.Error(0)
}

func (m *MockSubmissionRepository) FindByContentID(ctx context.Context, contentID string) (*model.Submission, error) {
	args := m.Called(ctx, contentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) ListUnregistered(ctx context.Context) ([]model.Submission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Submission), args.Error(1)
}
