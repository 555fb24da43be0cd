package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nopo_backend/internal/storage"
	"nopo_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFile struct {
	name string
	data []byte
}

// multipartFiles собирает multipart-запрос и возвращает заголовки файлов поля "images".
func multipartFiles(t *testing.T, files ...testFile) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := w.CreateFormFile("images", f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["images"]
}

func pngData(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestImageService_UploadReviewImages(t *testing.T) {
	store := storage.NewMemoryStorage("https://cdn.example.com")
	svc := NewImageService(store, &ImageConfig{MaxFileSize: 1 << 20, MaxFiles: 3, MaxImageEdge: 64})
	ctx := context.Background()

	files := multipartFiles(t,
		testFile{"a.png", pngData(t, 10, 10)},
		testFile{"b.png", pngData(t, 200, 100)},
	)
	urls, err := svc.UploadReviewImages(ctx, "u1", files)
	require.NoError(t, err)
	require.Len(t, urls, 2)
	for _, u := range urls {
		assert.True(t, strings.HasPrefix(u, "https://cdn.example.com/reviews/u1/"), u)
		assert.True(t, strings.HasSuffix(u, ".png"), u)
	}
	assert.Equal(t, 2, store.Len())

	require.NoError(t, svc.DeleteByURLs(ctx, "u1", urls))
	assert.Equal(t, 0, store.Len())
}

func TestImageService_UploadRejects(t *testing.T) {
	store := storage.NewMemoryStorage("")
	svc := NewImageService(store, &ImageConfig{MaxFileSize: 1024, MaxFiles: 1, AllowedTypes: []string{"image/png"}})
	ctx := context.Background()

	t.Run("too many files", func(t *testing.T) {
		_, err := svc.UploadReviewImages(ctx, "u1", multipartFiles(t,
			testFile{"a.png", pngData(t, 2, 2)},
			testFile{"b.png", pngData(t, 2, 2)},
		))
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := svc.UploadReviewImages(ctx, "u1", multipartFiles(t, testFile{"a.png", []byte("plain text, not png")}))
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnsupportedMediaType, appErr.HTTPCode)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := svc.UploadReviewImages(ctx, "u1", multipartFiles(t, testFile{"a.png", bytes.Repeat([]byte{0x89}, 2048)}))
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusRequestEntityTooLarge, appErr.HTTPCode)
	})

	assert.Equal(t, 0, store.Len())
}

func TestImageService_DeleteByURLs(t *testing.T) {
	store := storage.NewMemoryStorage("/files")
	svc := NewImageService(store, nil)
	ctx := context.Background()

	assert.NoError(t, svc.DeleteByURLs(ctx, "u1", nil))
	assert.NoError(t, svc.DeleteByURLs(ctx, "u1", []string{}))

	require.NoError(t, store.Save(ctx, "reviews/u1/x.jpg", strings.NewReader("x"), "image/jpeg"))
	require.NoError(t, store.Save(ctx, "reviews/u2/y.jpg", strings.NewReader("y"), "image/jpeg"))
	require.NoError(t, store.Save(ctx, "reviews/u10/z.jpg", strings.NewReader("z"), "image/jpeg"))
	err := svc.DeleteByURLs(ctx, "u1", []string{
		"/files/reviews/u1/x.jpg",
		"/files/reviews/u1/gone.jpg",
		"/files/reviews/u2/y.jpg",
		"/files/reviews/u10/z.jpg",
		"https://elsewhere.example.com/y.jpg",
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	ok, err := store.Exists(ctx, "reviews/u1/x.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, svc.DeleteByURLs(ctx, "", []string{"/files/reviews/u2/y.jpg"}))
	assert.Equal(t, 2, store.Len())
}

func TestImageService_CheckOwnership(t *testing.T) {
	svc := NewImageService(storage.NewMemoryStorage("/files"), nil)

	assert.NoError(t, svc.CheckOwnership("u1", nil))
	assert.NoError(t, svc.CheckOwnership("u1", []string{
		"/files/reviews/u1/a.jpg",
		"https://elsewhere.example.com/b.jpg",
	}))

	for _, url := range []string{
		"/files/reviews/u2/a.jpg",
		"/files/reviews/u10/a.jpg",
		"/files/avatars/u1/a.jpg",
	} {
		err := svc.CheckOwnership("u1", []string{url})
		require.Error(t, err, url)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusForbidden, appErr.HTTPCode)
		assert.True(t, errors.Is(err, apperrors.ErrImageNotOwned))
	}
}
