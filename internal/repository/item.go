package repository

import (
	"context"

	"github.com/riky007-ux/stylemingle-sub000/internal/model"
)

// ItemRepository defines data access for wardrobe items using SQL queries only.
// No business logic here — strictly persistence operations. Ownership is part of
// every lookup predicate: a row owned by another user behaves as if absent.
type ItemRepository interface {
	// Create inserts a new wardrobe item row and returns the stored record.
	Create(ctx context.Context, item *model.WardrobeItem) (*model.WardrobeItem, error)

	// FindByID returns an item by id, scoped to the owning user.
	FindByID(ctx context.Context, id, userID string) (*model.WardrobeItem, error)

	// ListByUser returns all items of one user, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.WardrobeItem, error)

	// UpdateMetadata overwrites the metadata triple of an item and returns the
	// updated record. A nil field clears the corresponding column.
	UpdateMetadata(ctx context.Context, id, userID string, meta MetadataUpdate) (*model.WardrobeItem, error)

	// Delete removes an item by id (hard delete, no tombstone). It returns nil
	// if the row was deleted or did not exist.
	Delete(ctx context.Context, id, userID string) error
}

// MetadataUpdate carries the full metadata triple for a write. Merge decisions
// (preserve vs. force) happen in the service layer; the repository writes what
// it is given.
type MetadataUpdate struct {
	Category     *string
	PrimaryColor *string
	StyleTag     *string
}
