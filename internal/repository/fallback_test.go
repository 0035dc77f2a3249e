package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/riky007-ux/stylemingle-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeRepo is a minimal testify mock local to this package; the shared mocks
// package cannot be imported here without an import cycle.
type fakeRepo struct {
	mock.Mock
}

func (m *fakeRepo) Create(ctx context.Context, item *model.WardrobeItem) (*model.WardrobeItem, error) {
	args := m.Called(ctx, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WardrobeItem), args.Error(1)
}

func (m *fakeRepo) FindByID(ctx context.Context, id, userID string) (*model.WardrobeItem, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WardrobeItem), args.Error(1)
}

func (m *fakeRepo) ListByUser(ctx context.Context, userID string) ([]model.WardrobeItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WardrobeItem), args.Error(1)
}

func (m *fakeRepo) UpdateMetadata(ctx context.Context, id, userID string, meta MetadataUpdate) (*model.WardrobeItem, error) {
	args := m.Called(ctx, id, userID, meta)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WardrobeItem), args.Error(1)
}

func (m *fakeRepo) Delete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func TestIsSchemaDrift(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"no such column", errors.New("no such column: category"), true},
		{"no such table", errors.New("no such table: wardrobe_items"), true},
		{"has no column named", errors.New("table wardrobe_items has no column named style_tag"), true},
		{"engine tag", errors.New("SQLITE_ERROR: something"), true},
		{"postgres undefined column", errors.New(`ERROR: column "category" does not exist (SQLSTATE 42703)`), true},
		{"postgres undefined table", errors.New(`ERROR: relation "wardrobe_items" does not exist`), true},
		{"unrelated error", errors.New("connection refused"), false},
		{"no rows", sql.ErrNoRows, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isSchemaDrift(tt.err))
		})
	}
}

func TestSchemaFallback_FindByID(t *testing.T) {
	ctx := context.Background()
	driftErr := errors.New(`column "category" does not exist`)

	t.Run("current layout succeeds, legacy untouched", func(t *testing.T) {
		current := new(fakeRepo)
		legacy := new(fakeRepo)
		want := &model.WardrobeItem{ID: "i1", UserID: "u1"}
		current.On("FindByID", ctx, "i1", "u1").Return(want, nil)

		got, err := NewSchemaFallback(current, legacy).FindByID(ctx, "i1", "u1")

		require.NoError(t, err)
		assert.Equal(t, want, got)
		legacy.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("drift falls back to legacy projection", func(t *testing.T) {
		current := new(fakeRepo)
		legacy := new(fakeRepo)
		color := "navy"
		style := "casual"
		current.On("FindByID", ctx, "i1", "u1").Return(nil, driftErr)
		legacy.On("FindByID", ctx, "i1", "u1").Return(&model.WardrobeItem{
			ID: "i1", UserID: "u1", PrimaryColor: &color, StyleTag: &style,
		}, nil)

		got, err := NewSchemaFallback(current, legacy).FindByID(ctx, "i1", "u1")

		require.NoError(t, err)
		assert.Nil(t, got.Category)
		assert.Equal(t, "navy", *got.PrimaryColor)
		assert.Equal(t, "casual", *got.StyleTag)
	})

	t.Run("both layouts drift", func(t *testing.T) {
		current := new(fakeRepo)
		legacy := new(fakeRepo)
		current.On("FindByID", ctx, "i1", "u1").Return(nil, driftErr)
		legacy.On("FindByID", ctx, "i1", "u1").Return(nil, errors.New("no such column: color"))

		_, err := NewSchemaFallback(current, legacy).FindByID(ctx, "i1", "u1")

		assert.ErrorIs(t, err, ErrMigrationRequired)
	})

	t.Run("no rows passes through both layers", func(t *testing.T) {
		current := new(fakeRepo)
		legacy := new(fakeRepo)
		current.On("FindByID", ctx, "i1", "u1").Return(nil, driftErr)
		legacy.On("FindByID", ctx, "i1", "u1").Return(nil, sql.ErrNoRows)

		_, err := NewSchemaFallback(current, legacy).FindByID(ctx, "i1", "u1")

		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("non-drift current error does not fall back", func(t *testing.T) {
		current := new(fakeRepo)
		legacy := new(fakeRepo)
		current.On("FindByID", ctx, "i1", "u1").Return(nil, errors.New("connection refused"))

		_, err := NewSchemaFallback(current, legacy).FindByID(ctx, "i1", "u1")

		assert.EqualError(t, err, "connection refused")
		legacy.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSchemaFallback_UpdateMetadata_BothLayoutsMissing(t *testing.T) {
	ctx := context.Background()
	current := new(fakeRepo)
	legacy := new(fakeRepo)
	meta := MetadataUpdate{}
	current.On("UpdateMetadata", ctx, "i1", "u1", meta).Return(nil, errors.New("no such column: style_tag"))
	legacy.On("UpdateMetadata", ctx, "i1", "u1", meta).Return(nil, errors.New("no such column: style"))

	_, err := NewSchemaFallback(current, legacy).UpdateMetadata(ctx, "i1", "u1", meta)

	assert.ErrorIs(t, err, ErrMigrationRequired)
}

func TestSchemaFallback_Create_FallsBack(t *testing.T) {
	ctx := context.Background()
	current := new(fakeRepo)
	legacy := new(fakeRepo)
	item := &model.WardrobeItem{ID: "i1", UserID: "u1", ImageURL: "http://blob/x"}
	current.On("Create", ctx, item).Return(nil, errors.New("no such column: primary_color"))
	legacy.On("Create", ctx, item).Return(item, nil)

	got, err := NewSchemaFallback(current, legacy).Create(ctx, item)

	require.NoError(t, err)
	assert.Equal(t, item, got)
}
