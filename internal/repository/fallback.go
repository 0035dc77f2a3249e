package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/riky007-ux/stylemingle-sub000/internal/model"
)

// ErrMigrationRequired signals that neither the current nor the legacy column
// layout matched the live database. Callers surface it as a distinct
// machine-readable condition ("try again shortly") instead of a generic failure.
var ErrMigrationRequired = errors.New("repository: schema migration required")

// driftMarkers is the fixed signature set for "missing column / missing table"
// failures. The driver exposes no structured error codes for this class, so
// detection is a contains-check over the error text, centralized here and
// nowhere else. Markers cover both engine spellings the store can land on.
var driftMarkers = []string{
	"no such column",
	"no such table",
	"has no column named",
	"sqlite_error",
	"does not exist",
}

func isSchemaDrift(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range driftMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// SchemaFallback decorates two generations of ItemRepository: every operation
// is attempted against the current layout first; on a recognized schema-drift
// error it is retried once against the legacy layout, which re-projects its
// columns back into the current shape. A drift failure on both layouts becomes
// ErrMigrationRequired.
type SchemaFallback struct {
	current ItemRepository
	legacy  ItemRepository
}

// NewSchemaFallback wires the decorator around the two layout implementations.
func NewSchemaFallback(current, legacy ItemRepository) *SchemaFallback {
	return &SchemaFallback{current: current, legacy: legacy}
}

var _ ItemRepository = (*SchemaFallback)(nil)

func (s *SchemaFallback) Create(ctx context.Context, item *model.WardrobeItem) (*model.WardrobeItem, error) {
	out, err := s.current.Create(ctx, item)
	if !isSchemaDrift(err) {
		return out, err
	}
	out, err = s.legacy.Create(ctx, item)
	return out, s.mapLegacyErr(err)
}

func (s *SchemaFallback) FindByID(ctx context.Context, id, userID string) (*model.WardrobeItem, error) {
	out, err := s.current.FindByID(ctx, id, userID)
	if !isSchemaDrift(err) {
		return out, err
	}
	out, err = s.legacy.FindByID(ctx, id, userID)
	return out, s.mapLegacyErr(err)
}

func (s *SchemaFallback) ListByUser(ctx context.Context, userID string) ([]model.WardrobeItem, error) {
	out, err := s.current.ListByUser(ctx, userID)
	if !isSchemaDrift(err) {
		return out, err
	}
	out, err = s.legacy.ListByUser(ctx, userID)
	return out, s.mapLegacyErr(err)
}

func (s *SchemaFallback) UpdateMetadata(ctx context.Context, id, userID string, meta MetadataUpdate) (*model.WardrobeItem, error) {
	out, err := s.current.UpdateMetadata(ctx, id, userID, meta)
	if !isSchemaDrift(err) {
		return out, err
	}
	out, err = s.legacy.UpdateMetadata(ctx, id, userID, meta)
	return out, s.mapLegacyErr(err)
}

func (s *SchemaFallback) Delete(ctx context.Context, id, userID string) error {
	err := s.current.Delete(ctx, id, userID)
	if !isSchemaDrift(err) {
		return err
	}
	return s.mapLegacyErr(s.legacy.Delete(ctx, id, userID))
}

// mapLegacyErr collapses a second drift failure into ErrMigrationRequired.
// Row-level outcomes (sql.ErrNoRows) pass through unchanged so callers keep
// their not-found semantics.
func (s *SchemaFallback) mapLegacyErr(err error) error {
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if isSchemaDrift(err) {
		return ErrMigrationRequired
	}
	return err
}
