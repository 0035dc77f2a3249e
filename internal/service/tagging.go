package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/riky007-ux/stylemingle-sub000/internal/model"
	"github.com/riky007-ux/stylemingle-sub000/internal/repository"
	"github.com/riky007-ux/stylemingle-sub000/internal/vision"
)

// VisionTagger is the slice of the vision client the tagging service needs.
type VisionTagger interface {
	Tag(ctx context.Context, inputs []vision.TagInput) ([]vision.TagResult, error)
}

// BatchTagResult reports the outcome of a batch tagging run: items that were
// re-tagged and written, and item ids that were skipped without a model call.
type BatchTagResult struct {
	Updated []model.WardrobeItem `json:"updated"`
	Skipped []string             `json:"skipped"`
}

// TaggingService runs the vision model over wardrobe items and merges the
// results into their metadata.
type TaggingService interface {
	// TagItem tags a single item. The model is always consulted; existing
	// metadata fields survive unless force is set.
	TagItem(ctx context.Context, userID, itemID string, force bool) (*model.WardrobeItem, error)

	// TagBatch tags up to vision.MaxBatchSize items in one model call. Items
	// that are already fully tagged are skipped without a model call unless
	// force is set; ids the user does not own are skipped as well.
	TagBatch(ctx context.Context, userID string, itemIDs []string, force bool) (*BatchTagResult, error)
}

type taggingService struct {
	repo   repository.ItemRepository
	tagger VisionTagger
}

// NewTaggingService constructs a TaggingService. tagger may be nil when no
// model credential is configured; tagging operations then fail with
// ErrAiUnavailable.
func NewTaggingService(repo repository.ItemRepository, tagger VisionTagger) TaggingService {
	return &taggingService{repo: repo, tagger: tagger}
}

func (s *taggingService) TagItem(ctx context.Context, userID, itemID string, force bool) (*model.WardrobeItem, error) {
	if s.tagger == nil {
		return nil, ErrAiUnavailable
	}

	item, err := s.findItem(ctx, itemID, userID)
	if err != nil {
		return nil, err
	}

	results, err := s.tagger.Tag(ctx, []vision.TagInput{{ItemID: item.ID, ImageURL: item.ImageURL}})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTaggingFailed, err)
	}
	if len(results) != 1 {
		return nil, fmt.Errorf("%w: expected 1 result, got %d", ErrTaggingFailed, len(results))
	}

	updated, err := s.repo.UpdateMetadata(ctx, item.ID, userID, mergeTags(item, results[0], force))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *taggingService) TagBatch(ctx context.Context, userID string, itemIDs []string, force bool) (*BatchTagResult, error) {
	if s.tagger == nil {
		return nil, ErrAiUnavailable
	}
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("%w: no item ids given", ErrInvalidRequest)
	}
	if len(itemIDs) > vision.MaxBatchSize {
		return nil, fmt.Errorf("%w: batch of %d exceeds limit of %d", ErrInvalidRequest, len(itemIDs), vision.MaxBatchSize)
	}

	result := &BatchTagResult{Updated: []model.WardrobeItem{}, Skipped: []string{}}

	var candidates []*model.WardrobeItem
	var inputs []vision.TagInput
	for _, id := range itemIDs {
		item, err := s.findItem(ctx, id, userID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				result.Skipped = append(result.Skipped, id)
				continue
			}
			return nil, err
		}
		if item.FullyTagged() && !force {
			result.Skipped = append(result.Skipped, id)
			continue
		}
		candidates = append(candidates, item)
		inputs = append(inputs, vision.TagInput{ItemID: item.ID, ImageURL: item.ImageURL})
	}

	if len(candidates) == 0 {
		return result, nil
	}

	tagged, err := s.tagger.Tag(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTaggingFailed, err)
	}

	byID := make(map[string]vision.TagResult, len(tagged))
	for _, r := range tagged {
		byID[r.ItemID] = r
	}

	for _, item := range candidates {
		res, ok := byID[item.ID]
		if !ok {
			result.Skipped = append(result.Skipped, item.ID)
			continue
		}
		updated, err := s.repo.UpdateMetadata(ctx, item.ID, userID, mergeTags(item, res, force))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				result.Skipped = append(result.Skipped, item.ID)
				continue
			}
			return nil, err
		}
		result.Updated = append(result.Updated, *updated)
	}

	return result, nil
}

func (s *taggingService) findItem(ctx context.Context, id, userID string) (*model.WardrobeItem, error) {
	item, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// mergeTags folds a model result into the item's existing metadata. Fields the
// user (or a prior run) already filled win over the model; under force the
// fresh value always wins, "unknown" included.
func mergeTags(item *model.WardrobeItem, res vision.TagResult, force bool) repository.MetadataUpdate {
	return repository.MetadataUpdate{
		Category:     mergeField(item.Category, res.Category, force),
		PrimaryColor: mergeField(item.PrimaryColor, res.PrimaryColor, force),
		StyleTag:     mergeField(item.StyleTag, res.StyleTag, force),
	}
}

func mergeField(current *string, proposed string, force bool) *string {
	if force || current == nil {
		return &proposed
	}
	return current
}
