package mocks

import (
	"context"

	"docreview/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Register(ctx context.Context, contentID string) error {
	args := m.Called(ctx, contentID)
	return args.Error(0)
}

func (m *MockClient) GetStatus(ctx context.Context, contentID string) (model.Status, error) {
	args := m.Called(ctx, contentID)
	return args.Get(0).(model.Status), args.Error(1)
}

func (m *MockClient) Approve(ctx context.Context, contentID string) error {
	args := m.Called(ctx, contentID)
	return args.Error(0)
}

func (m *MockClient) Deny(ctx context.Context, contentID string) error {
	args := m.Called(ctx, contentID)
	return args.Error(0)
}
