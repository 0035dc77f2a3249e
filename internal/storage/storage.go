package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Package storage contains object storage abstractions for S3-compatible
// backends. Implementations must avoid using local disk and rely on streaming
// I/O only.

// ErrKeyExists is returned by Put when the key is already occupied and the
// caller did not request overwrite. Keys are immutable by default; the only
// sanctioned overwrite is the normalization pass rewriting an uploaded image
// in place under its original key.
var ErrKeyExists = errors.New("storage: key already exists")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and
// the implementation will buffer/chunk as supported by the backend.
// AllowOverwrite must be set explicitly for the one call that replaces an
// existing blob; all other writes fail with ErrKeyExists on key collision.
type PutObjectOptions struct {
	Size           int64
	ContentType    string
	Metadata       map[string]string
	AllowOverwrite bool
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is a reusable, S3-compatible object storage client interface.
// Methods use context and streaming readers/writers; no local disk is used.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL for downloading the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// PresignPut returns a time-limited URL that allows one direct client upload to the key.
	PresignPut(ctx context.Context, key string, expiry time.Duration) (string, error)
}
