package service

import "errors"

// Sentinel errors shared by the wardrobe services. Handlers translate them to
// the machine-readable codes of the HTTP error envelope; repository.
// ErrMigrationRequired passes through untranslated.
var (
	// ErrUnauthorized means the caller presented no valid identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the upload token payload could not be recovered at
	// callback time — the only authorization check available at that stage.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidRequest means the request body or parameters are malformed.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound means the item is absent or not owned by the caller.
	ErrNotFound = errors.New("item not found")
	// ErrAiUnavailable means no vision model credential is configured.
	ErrAiUnavailable = errors.New("ai unavailable")
	// ErrTaggingFailed means the model call or its validation failed outright.
	ErrTaggingFailed = errors.New("tagging failed")
)
