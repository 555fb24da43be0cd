package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"nopo_backend/internal/logger"
	"nopo_backend/internal/models"
	"nopo_backend/internal/repositories"
	"nopo_backend/internal/services/dto"
	"nopo_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const regDateLayout = "2006-01-02"

type ReviewService interface {
	// Review lifecycle
	CreateReview(ctx context.Context, db *gorm.DB, userID string, req *dto.ReviewRequest, imageURLs []string) (string, error)
	GetReview(ctx context.Context, db *gorm.DB, reviewID string) (*dto.ReviewResponse, error)
	ModifyReview(ctx context.Context, db *gorm.DB, reviewID, userID string, req *dto.UpdateReviewRequest) error
	DeleteReview(ctx context.Context, db *gorm.DB, reviewID, userID string) error

	// Listing
	GetRestaurantReviews(ctx context.Context, db *gorm.DB, restaurantID string, page, pageSize int) (*dto.ReviewListResponse, error)
	GetUserReviews(ctx context.Context, db *gorm.DB, userID string, page, pageSize int) (*dto.ReviewListResponse, error)
	GetRestaurantRating(ctx context.Context, db *gorm.DB, restaurantID string) (*dto.RatingResponse, error)
	GetVisitedRestaurants(ctx context.Context, db *gorm.DB, userID string) ([]*dto.VisitedResponse, error)
}

type reviewService struct {
	reviewRepo     repositories.ReviewRepository
	userRepo       repositories.UserRepository
	restaurantRepo repositories.RestaurantRepository
	visitedRepo    repositories.VisitedRepository
	imageService   ImageService
	now            func() time.Time
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	userRepo repositories.UserRepository,
	restaurantRepo repositories.RestaurantRepository,
	visitedRepo repositories.VisitedRepository,
	imageService ImageService,
) ReviewService {
	return &reviewService{
		reviewRepo:     reviewRepo,
		userRepo:       userRepo,
		restaurantRepo: restaurantRepo,
		visitedRepo:    visitedRepo,
		imageService:   imageService,
		now:            time.Now,
	}
}

// ---------------- Review lifecycle ----------------

// CreateReview сохраняет отзыв, его картинки и отметку о посещении в одной транзакции.
func (s *reviewService) CreateReview(ctx context.Context, db *gorm.DB, userID string, req *dto.ReviewRequest, imageURLs []string) (string, error) {
	if s.imageService != nil {
		if err := s.imageService.CheckOwnership(userID, imageURLs); err != nil {
			logger.CtxWarn(ctx, "Review references foreign images", "user_id", userID)
			return "", err
		}
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return "", apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if _, err := s.userRepo.FindByID(tx, userID); err != nil {
		return "", handleReviewError(err)
	}
	if _, err := s.restaurantRepo.FindByID(tx, req.RestaurantID); err != nil {
		return "", handleReviewError(err)
	}

	// Ранний выход; окончательно дубликаты ловит уникальный индекс.
	_, err := s.reviewRepo.FindReviewByRestaurantAndUser(tx, req.RestaurantID, userID)
	switch {
	case err == nil:
		return "", apperrors.ErrDuplicateReview
	case !errors.Is(err, repositories.ErrReviewNotFound):
		return "", apperrors.InternalError(err)
	}

	review := &models.Review{
		UserID:       userID,
		RestaurantID: req.RestaurantID,
		Content:      req.Content,
		Rating:       req.Rating,
		RegDate:      s.now(),
	}
	if err := s.reviewRepo.CreateReview(tx, review); err != nil {
		return "", handleReviewError(err)
	}

	images := make([]models.ReviewImage, 0, len(imageURLs))
	for i, url := range imageURLs {
		if strings.TrimSpace(url) == "" {
			continue
		}
		images = append(images, models.ReviewImage{ReviewID: review.ID, URL: url, Position: i})
	}
	if err := s.reviewRepo.CreateImages(tx, images); err != nil {
		return "", apperrors.InternalError(err)
	}

	visited, err := s.visitedRepo.Exists(tx, req.RestaurantID, userID)
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	if !visited {
		if err := s.visitedRepo.Create(tx, &models.Visited{UserID: userID, RestaurantID: req.RestaurantID}); err != nil {
			return "", handleReviewError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		if repositories.IsDuplicateKey(err) {
			return "", apperrors.ErrDuplicateReview
		}
		return "", apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Review created",
		"review_id", review.ID,
		"restaurant_id", review.RestaurantID,
		"images", len(images),
	)
	return review.ID, nil
}

// GetReview читает отзыв и его картинки в одной транзакции.
func (s *reviewService) GetReview(ctx context.Context, db *gorm.DB, reviewID string) (*dto.ReviewResponse, error) {
	var resp *dto.ReviewResponse
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		review, err := s.reviewRepo.FindReviewByID(tx, reviewID)
		if err != nil {
			return err
		}
		images, err := s.reviewRepo.FindImagesByReview(tx, review.ID)
		if err != nil {
			return err
		}
		review.Images = images
		resp = buildReviewResponse(review)
		return nil
	})
	if err != nil {
		return nil, handleReviewError(err)
	}
	return resp, nil
}

// ModifyReview меняет текст и оценку. Менять может только автор.
func (s *reviewService) ModifyReview(ctx context.Context, db *gorm.DB, reviewID, userID string, req *dto.UpdateReviewRequest) error {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	review, err := s.reviewRepo.FindReviewByID(tx, reviewID)
	if err != nil {
		return handleReviewError(err)
	}
	if review.UserID != userID {
		logger.CtxWarn(ctx, "Review modification denied", "review_id", reviewID, "user_id", userID)
		return apperrors.ErrReviewUpdateForbidden
	}

	if err := s.reviewRepo.UpdateReviewContent(tx, reviewID, req.Content, req.Rating); err != nil {
		return handleReviewError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// DeleteReview удаляет отзыв автора. Строки удаляются в транзакции,
// файлы картинок после коммита и по возможности.
func (s *reviewService) DeleteReview(ctx context.Context, db *gorm.DB, reviewID, userID string) error {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	review, err := s.reviewRepo.FindReviewByID(tx, reviewID)
	if err != nil {
		return handleReviewError(err)
	}
	if review.UserID != userID {
		logger.CtxWarn(ctx, "Review deletion denied", "review_id", reviewID, "user_id", userID)
		return apperrors.ErrReviewDeleteForbidden
	}

	images, err := s.reviewRepo.FindImagesByReview(tx, reviewID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.reviewRepo.DeleteReview(tx, reviewID); err != nil {
		return handleReviewError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.InternalError(err)
	}

	s.deleteBlobs(ctx, userID, imageURLs(images))
	logger.CtxInfo(ctx, "Review deleted", "review_id", reviewID, "images", len(images))
	return nil
}

// ---------------- Listing ----------------

func (s *reviewService) GetRestaurantReviews(ctx context.Context, db *gorm.DB, restaurantID string, page, pageSize int) (*dto.ReviewListResponse, error) {
	db = db.WithContext(ctx)
	if _, err := s.restaurantRepo.FindByID(db, restaurantID); err != nil {
		return nil, handleReviewError(err)
	}

	reviews, total, err := s.reviewRepo.FindReviewsByRestaurant(db, restaurantID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildReviewListResponse(reviews, total, page, pageSize), nil
}

func (s *reviewService) GetUserReviews(ctx context.Context, db *gorm.DB, userID string, page, pageSize int) (*dto.ReviewListResponse, error) {
	reviews, total, err := s.reviewRepo.FindReviewsByUser(db.WithContext(ctx), userID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return buildReviewListResponse(reviews, total, page, pageSize), nil
}

func (s *reviewService) GetRestaurantRating(ctx context.Context, db *gorm.DB, restaurantID string) (*dto.RatingResponse, error) {
	db = db.WithContext(ctx)
	if _, err := s.restaurantRepo.FindByID(db, restaurantID); err != nil {
		return nil, handleReviewError(err)
	}

	stats, err := s.reviewRepo.GetRestaurantRatingStats(db, restaurantID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	breakdown := make(map[int]int, len(stats.RatingCounts))
	for rating, count := range stats.RatingCounts {
		breakdown[rating] = int(count)
	}
	return &dto.RatingResponse{
		AverageRating:   math.Round(stats.AverageRating*10) / 10,
		TotalReviews:    stats.TotalReviews,
		RatingBreakdown: breakdown,
	}, nil
}

func (s *reviewService) GetVisitedRestaurants(ctx context.Context, db *gorm.DB, userID string) ([]*dto.VisitedResponse, error) {
	visited, err := s.visitedRepo.FindByUser(db.WithContext(ctx), userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	responses := make([]*dto.VisitedResponse, 0, len(visited))
	for _, v := range visited {
		responses = append(responses, &dto.VisitedResponse{
			RestaurantID: v.RestaurantID,
			RestoName:    v.Restaurant.Name,
			Category:     v.Restaurant.Category,
			VisitedAt:    v.CreatedAt.Format(regDateLayout),
		})
	}
	return responses, nil
}

// ---------------- Helpers ----------------

func (s *reviewService) deleteBlobs(ctx context.Context, ownerID string, urls []string) {
	if len(urls) == 0 || s.imageService == nil {
		return
	}
	if err := s.imageService.DeleteByURLs(ctx, ownerID, urls); err != nil {
		logger.CtxWarn(ctx, "Failed to delete review images from storage", "error", err.Error(), "count", len(urls))
	}
}

func imageURLs(images []models.ReviewImage) []string {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, img.URL)
	}
	return urls
}

func buildReviewResponse(review *models.Review) *dto.ReviewResponse {
	return &dto.ReviewResponse{
		ReviewID:  review.ID,
		ImageURL:  imageURLs(review.Images),
		Content:   review.Content,
		Rating:    review.Rating,
		RegDate:   review.RegDate.Format(regDateLayout),
		Nickname:  review.User.Nickname,
		RestoName: review.Restaurant.Name,
	}
}

func buildReviewListResponse(reviews []models.Review, total int64, page, pageSize int) *dto.ReviewListResponse {
	responses := make([]*dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, buildReviewResponse(&reviews[i]))
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	}
	return &dto.ReviewListResponse{
		Reviews:    responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

func handleReviewError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	case errors.Is(err, repositories.ErrRestaurantNotFound):
		return apperrors.ErrRestaurantNotFound
	case errors.Is(err, repositories.ErrReviewNotFound):
		return apperrors.ErrReviewNotFound
	case errors.Is(err, repositories.ErrReviewAlreadyExists):
		return apperrors.ErrDuplicateReview
	case errors.Is(err, repositories.ErrVisitedAlreadyExists):
		// параллельный запрос успел создать запись
		return apperrors.ErrDuplicateReview
	}
	return apperrors.InternalError(err)
}
