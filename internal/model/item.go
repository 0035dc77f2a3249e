package model

import "time"

// WardrobeItem represents one uploaded clothing photo and its tagged metadata.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
//
// Category, PrimaryColor and StyleTag are either nil (never tagged) or a member of
// the closed vocabulary for that field; the tagging pipeline never persists free text.
type WardrobeItem struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ImageURL     string    `json:"image_url"`
	Category     *string   `json:"category"`
	PrimaryColor *string   `json:"primary_color"`
	StyleTag     *string   `json:"style_tag"`
	CreatedAt    time.Time `json:"created_at"`
}

// FullyTagged reports whether all three metadata fields hold a value.
func (w *WardrobeItem) FullyTagged() bool {
	return w.Category != nil && w.PrimaryColor != nil && w.StyleTag != nil
}
