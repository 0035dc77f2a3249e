package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/riky007-ux/stylemingle-sub000/internal/model"
	"github.com/riky007-ux/stylemingle-sub000/internal/repository"
	"github.com/riky007-ux/stylemingle-sub000/internal/storage"
)

// MetadataEdit carries a user-driven metadata change. Nil fields keep their
// current value; set fields must be vocabulary members.
type MetadataEdit struct {
	Category     *string `json:"category"`
	PrimaryColor *string `json:"primary_color"`
	StyleTag     *string `json:"style_tag"`
}

// ItemService defines the use cases for wardrobe items outside the upload and
// tagging flows.
type ItemService interface {
	// Create records an item directly from an image URL.
	Create(ctx context.Context, userID, imageURL string) (*model.WardrobeItem, error)

	// List returns all items of the user, newest first.
	List(ctx context.Context, userID string) ([]model.WardrobeItem, error)

	// Get returns a single item owned by the user.
	Get(ctx context.Context, userID, id string) (*model.WardrobeItem, error)

	// UpdateMetadata applies a user edit to the metadata triple.
	UpdateMetadata(ctx context.Context, userID, id string, edit MetadataEdit) (*model.WardrobeItem, error)

	// Delete removes the item row (hard delete) and best-effort removes its blob.
	Delete(ctx context.Context, userID, id string) error
}

type itemService struct {
	repo  repository.ItemRepository
	store storage.Storage
}

// NewItemService constructs an ItemService.
func NewItemService(repo repository.ItemRepository, store storage.Storage) ItemService {
	return &itemService{repo: repo, store: store}
}

func (s *itemService) Create(ctx context.Context, userID, imageURL string) (*model.WardrobeItem, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if imageURL == "" {
		return nil, fmt.Errorf("%w: image url is required", ErrInvalidRequest)
	}
	item := &model.WardrobeItem{
		ID:        uuid.New().String(),
		UserID:    userID,
		ImageURL:  imageURL,
		CreatedAt: time.Now().UTC(),
	}
	return s.repo.Create(ctx, item)
}

func (s *itemService) List(ctx context.Context, userID string) ([]model.WardrobeItem, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *itemService) Get(ctx context.Context, userID, id string) (*model.WardrobeItem, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidRequest)
	}
	item, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *itemService) UpdateMetadata(ctx context.Context, userID, id string, edit MetadataEdit) (*model.WardrobeItem, error) {
	if err := validateEdit(edit); err != nil {
		return nil, err
	}

	item, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	meta := repository.MetadataUpdate{
		Category:     item.Category,
		PrimaryColor: item.PrimaryColor,
		StyleTag:     item.StyleTag,
	}
	if edit.Category != nil {
		meta.Category = edit.Category
	}
	if edit.PrimaryColor != nil {
		meta.PrimaryColor = edit.PrimaryColor
	}
	if edit.StyleTag != nil {
		meta.StyleTag = edit.StyleTag
	}

	updated, err := s.repo.UpdateMetadata(ctx, id, userID, meta)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *itemService) Delete(ctx context.Context, userID, id string) error {
	item, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	// Blob removal is best effort: the row is gone either way, and an orphaned
	// blob is cheaper than a dangling item.
	if key := storageKeyFromURL(item.ImageURL); key != "" {
		if err := s.store.Delete(ctx, key); err != nil {
			logEvent(map[string]any{
				"component": "items",
				"event":     "blob_delete_failed",
				"key":       key,
				"error":     err.Error(),
			})
		}
	}
	return nil
}

func validateEdit(edit MetadataEdit) error {
	if edit.Category != nil && !model.ValidCategory(*edit.Category) {
		return fmt.Errorf("%w: invalid category %q", ErrInvalidRequest, *edit.Category)
	}
	if edit.PrimaryColor != nil && !model.ValidColor(*edit.PrimaryColor) {
		return fmt.Errorf("%w: invalid color %q", ErrInvalidRequest, *edit.PrimaryColor)
	}
	if edit.StyleTag != nil && !model.ValidStyle(*edit.StyleTag) {
		return fmt.Errorf("%w: invalid style %q", ErrInvalidRequest, *edit.StyleTag)
	}
	return nil
}

// storageKeyFromURL recovers the storage key from a blob URL by locating the
// wardrobe/ prefix uploads are written under. Returns "" for foreign URLs.
func storageKeyFromURL(imageURL string) string {
	u, err := url.Parse(imageURL)
	if err != nil {
		return ""
	}
	idx := strings.Index(u.Path, "wardrobe/")
	if idx < 0 {
		return ""
	}
	return u.Path[idx:]
}
