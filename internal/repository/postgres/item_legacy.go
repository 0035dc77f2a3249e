package postgres

import (
	"context"
	"database/sql"

	"github.com/riky007-ux/stylemingle-sub000/internal/model"
	"github.com/riky007-ux/stylemingle-sub000/internal/repository"
)

// ItemPostgresLegacy speaks the pre-migration column layout: color and style
// text columns, no category column at all. Results are re-projected into the
// current shape (color → PrimaryColor, style → StyleTag, Category reads as
// unset) so callers never see the old names. Category writes are dropped —
// there is no column to hold them until the instance migrates.
type ItemPostgresLegacy struct {
	db *sql.DB
}

// NewItemPostgresLegacy creates a repository against the legacy column layout.
func NewItemPostgresLegacy(db *sql.DB) *ItemPostgresLegacy {
	return &ItemPostgresLegacy{db: db}
}

var _ repository.ItemRepository = (*ItemPostgresLegacy)(nil)

// Create inserts a new item row, persisting the color/style pair only.
func (r *ItemPostgresLegacy) Create(ctx context.Context, item *model.WardrobeItem) (*model.WardrobeItem, error) {
	const q = `
		INSERT INTO wardrobe_items (id, user_id, image_url, color, style, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, image_url, color, style, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		item.ID,
		item.UserID,
		item.ImageURL,
		item.PrimaryColor,
		item.StyleTag,
		item.CreatedAt,
	)
	return scanLegacyItem(row)
}

// FindByID fetches a single item scoped to its owner.
func (r *ItemPostgresLegacy) FindByID(ctx context.Context, id, userID string) (*model.WardrobeItem, error) {
	const q = `
		SELECT id, user_id, image_url, color, style, created_at
		FROM wardrobe_items
		WHERE id = $1 AND user_id = $2
	`
	return scanLegacyItem(r.db.QueryRowContext(ctx, q, id, userID))
}

// ListByUser returns all items of one user, newest first.
func (r *ItemPostgresLegacy) ListByUser(ctx context.Context, userID string) ([]model.WardrobeItem, error) {
	const q = `
		SELECT id, user_id, image_url, color, style, created_at
		FROM wardrobe_items
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.WardrobeItem, 0)
	for rows.Next() {
		var it model.WardrobeItem
		if err := rows.Scan(
			&it.ID,
			&it.UserID,
			&it.ImageURL,
			&it.PrimaryColor,
			&it.StyleTag,
			&it.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateMetadata writes the color/style pair; the category value has nowhere
// to go on this layout and is dropped.
func (r *ItemPostgresLegacy) UpdateMetadata(ctx context.Context, id, userID string, meta repository.MetadataUpdate) (*model.WardrobeItem, error) {
	const q = `
		UPDATE wardrobe_items
		SET color = $3, style = $4
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, image_url, color, style, created_at
	`
	row := r.db.QueryRowContext(ctx, q, id, userID, meta.PrimaryColor, meta.StyleTag)
	return scanLegacyItem(row)
}

// Delete removes an item row. It does not return an error if the row does not exist.
func (r *ItemPostgresLegacy) Delete(ctx context.Context, id, userID string) error {
	const q = `DELETE FROM wardrobe_items WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

func scanLegacyItem(row *sql.Row) (*model.WardrobeItem, error) {
	var it model.WardrobeItem
	if err := row.Scan(
		&it.ID,
		&it.UserID,
		&it.ImageURL,
		&it.PrimaryColor,
		&it.StyleTag,
		&it.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &it, nil
}
