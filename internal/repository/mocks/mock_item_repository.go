package mocks

import (
	"context"

	"github.com/riky007-ux/stylemingle-sub000/internal/model"
	"github.com/riky007-ux/stylemingle-sub000/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) Create(ctx context.Context, item *model.WardrobeItem) (*model.WardrobeItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WardrobeItem), args.Error(1)
}

func (m *MockItemRepository) FindByID(ctx context.Context, id, userID string) (*model.WardrobeItem, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WardrobeItem), args.Error(1)
}

func (m *MockItemRepository) ListByUser(ctx context.Context, userID string) ([]model.WardrobeItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WardrobeItem), args.Error(1)
}

func (m *MockItemRepository) UpdateMetadata(ctx context.Context, id, userID string, meta repository.MetadataUpdate) (*model.WardrobeItem, error) {
	args := m.Called(ctx, id, userID, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WardrobeItem), args.Error(1)
}

func (m *MockItemRepository) Delete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}
