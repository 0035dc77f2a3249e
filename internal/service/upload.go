package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/riky007-ux/stylemingle-sub000/internal/imageproc"
	"github.com/riky007-ux/stylemingle-sub000/internal/model"
	"github.com/riky007-ux/stylemingle-sub000/internal/repository"
	"github.com/riky007-ux/stylemingle-sub000/internal/storage"
	"github.com/riky007-ux/stylemingle-sub000/internal/upload"
)

// EventUploadCompleted is the event type the storage service sends to the
// completion callback.
const EventUploadCompleted = "blob.upload-completed"

// AllowedContentTypes is the allow-list every upload token is scoped to.
var AllowedContentTypes = []string{
	"image/jpeg", "image/png", "image/webp", "image/heic", "image/heif",
}

// UploadTokenResult is the response of the token issuance phase.
type UploadTokenResult struct {
	AllowedContentTypes []string `json:"allowedContentTypes"`
	TokenPayload        string   `json:"tokenPayload"`
	UploadURL           string   `json:"uploadUrl"`
	Pathname            string   `json:"pathname"`
}

// BlobInfo describes the uploaded blob as reported by the storage callback.
type BlobInfo struct {
	URL         string `json:"url"`
	Pathname    string `json:"pathname"`
	ContentType string `json:"contentType"`
}

// CompletionEvent is the callback body the storage service posts after a
// direct client upload finishes.
type CompletionEvent struct {
	Type    string `json:"type"`
	Payload struct {
		Blob         BlobInfo `json:"blob"`
		TokenPayload string   `json:"tokenPayload"`
	} `json:"payload"`
}

// CompletionAck is the callback response in the storage service's own shape.
type CompletionAck struct {
	OK       bool                `json:"ok"`
	Pathname string              `json:"pathname"`
	Item     *model.WardrobeItem `json:"item,omitempty"`
}

// UploadService drives the two-phase client upload protocol.
type UploadService interface {
	// IssueToken authorizes one upload attempt for an authenticated user and
	// returns a scoped, signed token plus a presigned destination URL.
	IssueToken(ctx context.Context, userID, filename, contentType string) (*UploadTokenResult, error)

	// CompleteUpload handles the storage service callback: recover the user
	// from the token payload, record the item, and normalize the blob in place
	// when the format calls for it.
	CompleteUpload(ctx context.Context, event *CompletionEvent) (*CompletionAck, error)
}

type uploadService struct {
	store         storage.Storage
	repo          repository.ItemRepository
	tokenSecret   string
	presignExpiry time.Duration
}

// NewUploadService constructs an UploadService over the given storage and store.
func NewUploadService(store storage.Storage, repo repository.ItemRepository, tokenSecret string, presignExpiry time.Duration) UploadService {
	return &uploadService{
		store:         store,
		repo:          repo,
		tokenSecret:   tokenSecret,
		presignExpiry: presignExpiry,
	}
}

func (s *uploadService) IssueToken(ctx context.Context, userID, filename, contentType string) (*UploadTokenResult, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if !contentTypeAllowed(contentType) {
		return nil, fmt.Errorf("%w: content type %q not allowed", ErrInvalidRequest, contentType)
	}

	ext := filepath.Ext(filename)
	pathname := path.Join("wardrobe", userID, uuid.New().String()+ext)

	tokenPayload, err := upload.Sign(s.tokenSecret, upload.TokenPayload{
		UserID:       userID,
		Pathname:     pathname,
		ContentTypes: AllowedContentTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("sign upload token: %w", err)
	}

	uploadURL, err := s.store.PresignPut(ctx, pathname, s.presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &UploadTokenResult{
		AllowedContentTypes: AllowedContentTypes,
		TokenPayload:        tokenPayload,
		UploadURL:           uploadURL,
		Pathname:            pathname,
	}, nil
}

func (s *uploadService) CompleteUpload(ctx context.Context, event *CompletionEvent) (*CompletionAck, error) {
	if event == nil || event.Type != EventUploadCompleted || event.Payload.Blob.Pathname == "" {
		return nil, fmt.Errorf("%w: unexpected completion event", ErrInvalidRequest)
	}

	// The callback comes from the storage service without a session; the token
	// payload is the only authorization evidence and its recovery is the gate.
	tok, err := upload.Recover(s.tokenSecret, event.Payload.TokenPayload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}

	// The token binds exactly one destination and a content-type scope. A
	// genuine signature over someone else's pathname is still a forgery from
	// this callback's point of view.
	blob := event.Payload.Blob
	if blob.Pathname != tok.Pathname {
		return nil, fmt.Errorf("%w: token is not bound to %q", ErrForbidden, blob.Pathname)
	}
	if blob.ContentType != "" && !typeInList(blob.ContentType, tok.ContentTypes) {
		return nil, fmt.Errorf("%w: content type %q outside token scope", ErrForbidden, blob.ContentType)
	}

	item := &model.WardrobeItem{
		ID:        uuid.New().String(),
		UserID:    tok.UserID,
		ImageURL:  blob.URL,
		CreatedAt: time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("record upload: %w", err)
	}

	// Normalization is a best-effort side effect: an un-normalized-but-stored
	// image beats a lost upload, so failures here are logged and swallowed and
	// the callback still succeeds.
	if imageproc.ShouldNormalize(blob.ContentType, blob.Pathname) {
		if err := s.normalizeInPlace(ctx, blob); err != nil {
			logEvent(map[string]any{
				"component": "upload",
				"event":     "normalize_failed",
				"pathname":  blob.Pathname,
				"error":     err.Error(),
			})
		}
	}

	return &CompletionAck{OK: true, Pathname: blob.Pathname, Item: stored}, nil
}

// normalizeInPlace fetches the just-uploaded bytes, re-encodes them to
// canonical JPEG, and overwrites the same storage key so every existing
// reference to the URL keeps working. The overwrite permission is requested
// explicitly for this one call.
func (s *uploadService) normalizeInPlace(ctx context.Context, blob BlobInfo) error {
	rc, _, err := s.store.Get(ctx, blob.Pathname)
	if err != nil {
		return fmt.Errorf("fetch uploaded blob: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("read uploaded blob: %w", err)
	}

	jpegBytes, err := imageproc.Normalize(data, imageproc.IsHEIC(blob.ContentType, blob.Pathname))
	if err != nil {
		return err
	}

	_, err = s.store.Put(ctx, blob.Pathname, bytes.NewReader(jpegBytes), storage.PutObjectOptions{
		Size:           int64(len(jpegBytes)),
		ContentType:    "image/jpeg",
		AllowOverwrite: true,
	})
	if err != nil {
		return fmt.Errorf("overwrite with canonical jpeg: %w", err)
	}
	return nil
}

func contentTypeAllowed(contentType string) bool {
	return typeInList(contentType, AllowedContentTypes)
}

func typeInList(contentType string, list []string) bool {
	for _, ct := range list {
		if ct == contentType {
			return true
		}
	}
	return false
}

// logEvent writes one JSON log line, matching the logging format used across
// the service.
func logEvent(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		data["level"] = "error"
	}
	if b, err := json.Marshal(data); err == nil {
		log.SetFlags(0)
		log.Println(string(b))
	}
}
