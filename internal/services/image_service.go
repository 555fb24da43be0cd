package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"nopo_backend/internal/imageprocessor"
	"nopo_backend/internal/logger"
	"nopo_backend/internal/storage"
	"nopo_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ImageService загружает картинки отзывов в storage и удаляет их по URL.
// Файлы пользователя лежат под reviews/<userID>/, удалять и прикреплять
// можно только их.
type ImageService interface {
	UploadReviewImages(ctx context.Context, userID string, files []*multipart.FileHeader) ([]string, error)
	CheckOwnership(userID string, urls []string) error
	DeleteByURLs(ctx context.Context, ownerID string, urls []string) error
}

// ImageConfig - ограничения на загружаемые картинки
type ImageConfig struct {
	MaxFileSize  int64
	MaxFiles     int
	AllowedTypes []string
	ImageQuality int
	MaxImageEdge int
}

func DefaultImageConfig() *ImageConfig {
	return &ImageConfig{
		MaxFileSize:  10 << 20,
		MaxFiles:     5,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
		ImageQuality: 85,
		MaxImageEdge: imageprocessor.DefaultMaxEdge,
	}
}

type imageService struct {
	storage   storage.Storage
	processor *imageprocessor.Processor
	config    *ImageConfig
}

func NewImageService(store storage.Storage, config *ImageConfig) ImageService {
	if config == nil {
		config = DefaultImageConfig()
	}
	return &imageService{
		storage:   store,
		processor: imageprocessor.NewProcessor(config.ImageQuality, config.MaxImageEdge),
		config:    config,
	}
}

// UploadReviewImages сохраняет файлы в порядке получения и возвращает их публичные URL.
// При ошибке уже сохраненные файлы удаляются.
func (s *imageService) UploadReviewImages(ctx context.Context, userID string, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return []string{}, nil
	}
	if s.config.MaxFiles > 0 && len(files) > s.config.MaxFiles {
		return nil, apperrors.ErrTooManyFiles.WithDetails(map[string]interface{}{
			"max_files": s.config.MaxFiles,
			"received":  len(files),
		})
	}

	saved := make([]string, 0, len(files))
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		key, url, err := s.saveOne(ctx, userID, fh)
		if err != nil {
			s.cleanup(ctx, saved)
			return nil, err
		}
		saved = append(saved, key)
		urls = append(urls, url)
	}

	logger.CtxInfo(ctx, "Review images uploaded", "user_id", userID, "count", len(urls))
	return urls, nil
}

func (s *imageService) saveOne(ctx context.Context, userID string, fh *multipart.FileHeader) (string, string, error) {
	if s.config.MaxFileSize > 0 && fh.Size > s.config.MaxFileSize {
		return "", "", apperrors.ErrFileTooLarge.WithDetails(map[string]interface{}{
			"file":     fh.Filename,
			"max_size": s.config.MaxFileSize,
		})
	}

	src, err := fh.Open()
	if err != nil {
		return "", "", apperrors.InternalError(fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", "", apperrors.InternalError(fmt.Errorf("failed to read uploaded file: %w", err))
	}
	// размер из заголовка может врать
	if s.config.MaxFileSize > 0 && int64(len(data)) > s.config.MaxFileSize {
		return "", "", apperrors.ErrFileTooLarge.WithDetails(map[string]interface{}{
			"file":     fh.Filename,
			"max_size": s.config.MaxFileSize,
		})
	}

	mtype := mimetype.Detect(data)
	if !s.isAllowed(mtype) {
		return "", "", apperrors.ErrInvalidFileType.WithDetails(map[string]interface{}{
			"file":      fh.Filename,
			"mime_type": mtype.String(),
		})
	}

	img, err := s.processor.Fit(data, mtype.String())
	if err != nil {
		return "", "", apperrors.ErrInvalidFileType.WithError(err)
	}
	if img.Resized {
		logger.CtxDebug(ctx, "Review image downscaled", "file", fh.Filename, "width", img.Width, "height", img.Height)
	}

	key := ownerPrefix(userID) + uuid.NewString() + extensionFor(img.ContentType, mtype)
	if err := s.storage.Save(ctx, key, bytes.NewReader(img.Data), img.ContentType); err != nil {
		return "", "", apperrors.InternalError(fmt.Errorf("failed to save file to storage: %w", err))
	}

	url, err := s.storage.GetURL(ctx, key)
	if err != nil {
		_ = s.storage.Delete(ctx, key)
		return "", "", apperrors.InternalError(err)
	}
	return key, url, nil
}

// CheckOwnership проверяет URL, которые клиент передал для отзыва.
// Внешние URL допустимы, а файлы нашего storage должны принадлежать userID.
func (s *imageService) CheckOwnership(userID string, urls []string) error {
	for _, url := range urls {
		key, ok := s.storage.PathFromURL(url)
		if !ok {
			continue
		}
		if !ownedBy(userID, key) {
			return apperrors.ErrImageNotOwned.WithDetails(map[string]interface{}{"url": url})
		}
	}
	return nil
}

// DeleteByURLs удаляет объекты ownerID по их публичным URL.
// Отсутствующие и чужие объекты пропускаются.
func (s *imageService) DeleteByURLs(ctx context.Context, ownerID string, urls []string) error {
	if len(urls) == 0 {
		return nil
	}

	var errs []error
	for _, url := range urls {
		key, ok := s.storage.PathFromURL(url)
		if !ok {
			logger.CtxWarn(ctx, "Image URL does not belong to storage, skipping", "url", url)
			continue
		}
		if !ownedBy(ownerID, key) {
			logger.CtxWarn(ctx, "Image belongs to another user, skipping", "key", key, "owner_id", ownerID)
			continue
		}

		exists, err := s.storage.Exists(ctx, key)
		if err != nil {
			errs = append(errs, fmt.Errorf("check %s: %w", key, err))
			continue
		}
		if !exists {
			logger.CtxWarn(ctx, "Image already absent in storage", "key", key)
			continue
		}

		if err := s.storage.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			errs = append(errs, fmt.Errorf("delete %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func ownerPrefix(userID string) string {
	return "reviews/" + userID + "/"
}

func ownedBy(userID, key string) bool {
	return userID != "" && strings.HasPrefix(key, ownerPrefix(userID))
}

func (s *imageService) cleanup(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil {
			logger.CtxWithError(ctx, "Failed to remove image after aborted upload", err, "key", key)
		}
	}
}

func (s *imageService) isAllowed(mtype *mimetype.MIME) bool {
	if len(s.config.AllowedTypes) == 0 {
		return strings.HasPrefix(mtype.String(), "image/")
	}
	for _, allowed := range s.config.AllowedTypes {
		if mtype.Is(allowed) {
			return true
		}
	}
	return false
}

func extensionFor(contentType string, detected *mimetype.MIME) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	return detected.Extension()
}
