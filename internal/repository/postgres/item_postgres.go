package postgres

import (
	"context"
	"database/sql"

	"github.com/riky007-ux/stylemingle-sub000/internal/model"
	"github.com/riky007-ux/stylemingle-sub000/internal/repository"
)

// ItemPostgres is the current-layout implementation of repository.ItemRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type ItemPostgres struct {
	db *sql.DB
}

// NewItemPostgres creates a repository against the current column layout
// (category, primary_color, style_tag).
func NewItemPostgres(db *sql.DB) *ItemPostgres {
	return &ItemPostgres{db: db}
}

var _ repository.ItemRepository = (*ItemPostgres)(nil)

// Create inserts a new item row and returns the stored record.
func (r *ItemPostgres) Create(ctx context.Context, item *model.WardrobeItem) (*model.WardrobeItem, error) {
	const q = `
		INSERT INTO wardrobe_items (id, user_id, image_url, category, primary_color, style_tag, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, image_url, category, primary_color, style_tag, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		item.ID,
		item.UserID,
		item.ImageURL,
		item.Category,
		item.PrimaryColor,
		item.StyleTag,
		item.CreatedAt,
	)
	return scanItem(row)
}

// FindByID fetches a single item scoped to its owner.
func (r *ItemPostgres) FindByID(ctx context.Context, id, userID string) (*model.WardrobeItem, error) {
	const q = `
		SELECT id, user_id, image_url, category, primary_color, style_tag, created_at
		FROM wardrobe_items
		WHERE id = $1 AND user_id = $2
	`
	return scanItem(r.db.QueryRowContext(ctx, q, id, userID))
}

// ListByUser returns all items of one user, newest first.
func (r *ItemPostgres) ListByUser(ctx context.Context, userID string) ([]model.WardrobeItem, error) {
	const q = `
		SELECT id, user_id, image_url, category, primary_color, style_tag, created_at
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
			&it.Category,
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

// UpdateMetadata overwrites the metadata triple and returns the updated row.
func (r *ItemPostgres) UpdateMetadata(ctx context.Context, id, userID string, meta repository.MetadataUpdate) (*model.WardrobeItem, error) {
	const q = `
		UPDATE wardrobe_items
		SET category = $3, primary_color = $4, style_tag = $5
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, image_url, category, primary_color, style_tag, created_at
	`
	row := r.db.QueryRowContext(ctx, q, id, userID, meta.Category, meta.PrimaryColor, meta.StyleTag)
	return scanItem(row)
}

// Delete removes an item row. It does not return an error if the row does not exist.
func (r *ItemPostgres) Delete(ctx context.Context, id, userID string) error {
	const q = `DELETE FROM wardrobe_items WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, q, id, userID)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

func scanItem(row *sql.Row) (*model.WardrobeItem, error) {
	var it model.WardrobeItem
	if err := row.Scan(
		&it.ID,
		&it.UserID,
		&it.ImageURL,
		&it.Category,
		&it.PrimaryColor,
		&it.StyleTag,
		&it.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &it, nil
}
