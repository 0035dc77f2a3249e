package mocks

import (
	"context"

	"github.com/riky007-ux/stylemingle-sub000/internal/model"
	"github.com/riky007-ux/stylemingle-sub000/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) IssueToken(ctx context.Context, userID, filename, contentType string) (*service.UploadTokenResult, error) {
	args := m.Called(ctx, userID, filename, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadTokenResult), args.Error(1)
}

func (m *MockUploadService) CompleteUpload(ctx context.Context, event *service.CompletionEvent) (*service.CompletionAck, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CompletionAck), args.Error(1)
}

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) Create(ctx context.Context, userID, imageURL string) (*model.WardrobeItem, error) {
	args := m.Called(ctx, userID, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WardrobeItem), args.Error(1)
}

func (m *MockItemService) List(ctx context.Context, userID string) ([]model.WardrobeItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WardrobeItem), args.Error(1)
}

func (m *MockItemService) Get(ctx context.Context, userID, id string) (*model.WardrobeItem, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WardrobeItem), args.Error(1)
}

func (m *MockItemService) UpdateMetadata(ctx context.Context, userID, id string, edit service.MetadataEdit) (*model.WardrobeItem, error) {
	args := m.Called(ctx, userID, id, edit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WardrobeItem), args.Error(1)
}

func (m *MockItemService) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type MockTaggingService struct {
	mock.Mock
}

func (m *MockTaggingService) TagItem(ctx context.Context, userID, itemID string, force bool) (*model.WardrobeItem, error) {
	args := m.Called(ctx, userID, itemID, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WardrobeItem), args.Error(1)
}

func (m *MockTaggingService) TagBatch(ctx context.Context, userID string, itemIDs []string, force bool) (*service.BatchTagResult, error) {
	args := m.Called(ctx, userID, itemIDs, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BatchTagResult), args.Error(1)
}
