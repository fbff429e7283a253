package mocks

import (
	"context"
	"io"

	"docreview/internal/store"

	"github.com/stretchr/testify/mock"
)

type MockContentStore struct {
	mock.Mock
}

func (m *MockContentStore) Upload(ctx context.Context, r io.Reader, opt store.UploadOptions) (store.ObjectRef, error) {
	args := m.Called(ctx, r, opt)
	return args.Get(0).(store.ObjectRef), args.Error(1)
}

func (m *MockContentStore) List(ctx context.Context) ([]store.StoredObject, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.StoredObject), args.Error(1)
}

func (m *MockContentStore) Location(contentID string) string {
	args := m.Called(contentID)
	return args.String(0)
}
