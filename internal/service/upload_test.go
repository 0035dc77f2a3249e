package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riky007-ux/stylemingle-sub000/internal/model"
	repomocks "github.com/riky007-ux/stylemingle-sub000/internal/repository/mocks"
	"github.com/riky007-ux/stylemingle-sub000/internal/storage"
	storagemocks "github.com/riky007-ux/stylemingle-sub000/internal/storage/mocks"
	"github.com/riky007-ux/stylemingle-sub000/internal/upload"
)

const testSecret = "test-secret"

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func signedToken(t *testing.T, userID, pathname string) string {
	t.Helper()
	tok, err := upload.Sign(testSecret, upload.TokenPayload{
		UserID:       userID,
		Pathname:     pathname,
		ContentTypes: AllowedContentTypes,
	})
	require.NoError(t, err)
	return tok
}

func completionEvent(tokenPayload, pathname, contentType string) *CompletionEvent {
	ev := &CompletionEvent{Type: EventUploadCompleted}
	ev.Payload.TokenPayload = tokenPayload
	ev.Payload.Blob = BlobInfo{
		URL:         "https://blob.test/" + pathname,
		Pathname:    pathname,
		ContentType: contentType,
	}
	return ev
}

func TestUploadService_IssueToken(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a recoverable token and presigned url", func(t *testing.T) {
		store := new(storagemocks.MockStorage)
		repo := new(repomocks.MockItemRepository)
		store.On("PresignPut", ctx, mock.AnythingOfType("string"), 10*time.Minute).
			Return("https://minio.test/put", nil)

		svc := NewUploadService(store, repo, testSecret, 10*time.Minute)
		res, err := svc.IssueToken(ctx, "u1", "photo.HEIC", "image/heic")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(res.Pathname, "wardrobe/u1/"))
		assert.True(t, strings.HasSuffix(res.Pathname, ".HEIC"))
		assert.Equal(t, "https://minio.test/put", res.UploadURL)
		assert.Equal(t, AllowedContentTypes, res.AllowedContentTypes)

		tok, err := upload.Recover(testSecret, res.TokenPayload)
		require.NoError(t, err)
		assert.Equal(t, "u1", tok.UserID)
		assert.Equal(t, res.Pathname, tok.Pathname)
		store.AssertExpectations(t)
	})

	t.Run("anonymous caller", func(t *testing.T) {
		svc := NewUploadService(new(storagemocks.MockStorage), new(repomocks.MockItemRepository), testSecret, time.Minute)
		_, err := svc.IssueToken(ctx, "", "a.jpg", "image/jpeg")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("disallowed content type", func(t *testing.T) {
		svc := NewUploadService(new(storagemocks.MockStorage), new(repomocks.MockItemRepository), testSecret, time.Minute)
		_, err := svc.IssueToken(ctx, "u1", "a.pdf", "application/pdf")
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestUploadService_CompleteUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("records item and normalizes in place", func(t *testing.T) {
		store := new(storagemocks.MockStorage)
		repo := new(repomocks.MockItemRepository)
		pathname := "wardrobe/u1/x.png"

		repo.On("Create", ctx, mock.AnythingOfType("*model.WardrobeItem")).
			Return(&model.WardrobeItem{ID: "i1", UserID: "u1", ImageURL: "https://blob.test/" + pathname}, nil)
		store.On("Get", ctx, pathname).
			Return(io.NopCloser(bytes.NewReader(pngBytes(t))), storage.ObjectInfo{Key: pathname}, nil)
		store.On("Put", ctx, pathname, mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
			return opt.AllowOverwrite && opt.ContentType == "image/jpeg"
		})).Return(storage.ObjectInfo{Key: pathname}, nil)

		svc := NewUploadService(store, repo, testSecret, time.Minute)
		ack, err := svc.CompleteUpload(ctx, completionEvent(signedToken(t, "u1", pathname), pathname, "image/png"))

		require.NoError(t, err)
		assert.True(t, ack.OK)
		assert.Equal(t, pathname, ack.Pathname)
		require.NotNil(t, ack.Item)
		assert.Equal(t, "u1", ack.Item.UserID)
		store.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("forged token records nothing", func(t *testing.T) {
		store := new(storagemocks.MockStorage)
		repo := new(repomocks.MockItemRepository)
		forged := signedToken(t, "u1", "wardrobe/u1/x.png") + "00"

		svc := NewUploadService(store, repo, testSecret, time.Minute)
		_, err := svc.CompleteUpload(ctx, completionEvent(forged, "wardrobe/u1/x.png", "image/png"))

		assert.ErrorIs(t, err, ErrForbidden)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("token bound to another pathname records nothing", func(t *testing.T) {
		store := new(storagemocks.MockStorage)
		repo := new(repomocks.MockItemRepository)
		// Genuine token for the caller's own key, callback naming someone else's.
		token := signedToken(t, "attacker", "wardrobe/attacker/own.png")

		svc := NewUploadService(store, repo, testSecret, time.Minute)
		_, err := svc.CompleteUpload(ctx, completionEvent(token, "wardrobe/victim/secret.png", "image/png"))

		assert.ErrorIs(t, err, ErrForbidden)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("content type outside token scope records nothing", func(t *testing.T) {
		store := new(storagemocks.MockStorage)
		repo := new(repomocks.MockItemRepository)
		pathname := "wardrobe/u1/x.png"

		svc := NewUploadService(store, repo, testSecret, time.Minute)
		_, err := svc.CompleteUpload(ctx, completionEvent(signedToken(t, "u1", pathname), pathname, "application/pdf"))

		assert.ErrorIs(t, err, ErrForbidden)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("wrong event type", func(t *testing.T) {
		svc := NewUploadService(new(storagemocks.MockStorage), new(repomocks.MockItemRepository), testSecret, time.Minute)
		ev := completionEvent(signedToken(t, "u1", "wardrobe/u1/x.png"), "wardrobe/u1/x.png", "image/png")
		ev.Type = "blob.deleted"
		_, err := svc.CompleteUpload(ctx, ev)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("normalization failure does not fail the callback", func(t *testing.T) {
		store := new(storagemocks.MockStorage)
		repo := new(repomocks.MockItemRepository)
		pathname := "wardrobe/u1/x.jpg"

		repo.On("Create", ctx, mock.Anything).
			Return(&model.WardrobeItem{ID: "i1", UserID: "u1"}, nil)
		store.On("Get", ctx, pathname).
			Return(nil, storage.ObjectInfo{}, errors.New("connection reset"))

		svc := NewUploadService(store, repo, testSecret, time.Minute)
		ack, err := svc.CompleteUpload(ctx, completionEvent(signedToken(t, "u1", pathname), pathname, "image/jpeg"))

		require.NoError(t, err)
		assert.True(t, ack.OK)
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-image blob skips normalization", func(t *testing.T) {
		store := new(storagemocks.MockStorage)
		repo := new(repomocks.MockItemRepository)
		pathname := "wardrobe/u1/notes.txt"

		repo.On("Create", ctx, mock.Anything).
			Return(&model.WardrobeItem{ID: "i1", UserID: "u1"}, nil)

		svc := NewUploadService(store, repo, testSecret, time.Minute)
		_, err := svc.CompleteUpload(ctx, completionEvent(signedToken(t, "u1", pathname), pathname, ""))

		require.NoError(t, err)
		store.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})
}
