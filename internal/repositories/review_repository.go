package repositories

import (
	"errors"

	"nopo_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	// Review operations
	CreateReview(db *gorm.DB, review *models.Review) error
	FindReviewByID(db *gorm.DB, id string) (*models.Review, error)
	FindReviewByRestaurantAndUser(db *gorm.DB, restaurantID, userID string) (*models.Review, error)
	UpdateReviewContent(db *gorm.DB, id, content string, rating int) error
	DeleteReview(db *gorm.DB, id string) error

	// Images
	CreateImages(db *gorm.DB, images []models.ReviewImage) error
	FindImagesByReview(db *gorm.DB, reviewID string) ([]models.ReviewImage, error)
	FindImageURLsByUser(db *gorm.DB, userID string) ([]string, error)

	// Listing
	FindReviewsByRestaurant(db *gorm.DB, restaurantID string, page, pageSize int) ([]models.Review, int64, error)
	FindReviewsByUser(db *gorm.DB, userID string, page, pageSize int) ([]models.Review, int64, error)
	GetRestaurantRatingStats(db *gorm.DB, restaurantID string) (*RatingStats, error)
	GetAverageRatings(db *gorm.DB, restaurantIDs []string) (map[string]RatingSummary, error)

	DeleteReviewsByUser(db *gorm.DB, userID string) error
}

// RatingStats - средняя оценка и распределение по звездам
type RatingStats struct {
	AverageRating float64       `json:"average_rating"`
	TotalReviews  int64         `json:"total_reviews"`
	RatingCounts  map[int]int64 `json:"rating_counts"`
}

// RatingSummary - средняя оценка и число отзывов одного ресторана
type RatingSummary struct {
	RestaurantID  string
	AverageRating float64
	TotalReviews  int64
}

type reviewRepository struct{}

func NewReviewRepository() ReviewRepository {
	return &reviewRepository{}
}

// Review operations

func (r *reviewRepository) CreateReview(db *gorm.DB, review *models.Review) error {
	if err := db.Omit(clause.Associations).Create(review).Error; err != nil {
		if IsDuplicateKey(err) {
			return ErrReviewAlreadyExists
		}
		return err
	}
	return nil
}

func (r *reviewRepository) FindReviewByID(db *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	err := db.Preload("User").Preload("Restaurant").
		First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindReviewByRestaurantAndUser(db *gorm.DB, restaurantID, userID string) (*models.Review, error) {
	var review models.Review
	err := db.Where("restaurant_id = ? AND user_id = ?", restaurantID, userID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

// UpdateReviewContent меняет только текст и оценку; дата, автор и ресторан не трогаются.
func (r *reviewRepository) UpdateReviewContent(db *gorm.DB, id, content string, rating int) error {
	result := db.Model(&models.Review{}).Where("id = ?", id).Updates(map[string]interface{}{
		"content": content,
		"rating":  rating,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}

// DeleteReview удаляет отзыв вместе с его изображениями.
// Картинки удаляются явно: не все диалекты включают каскад по FK.
func (r *reviewRepository) DeleteReview(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", id).Delete(&models.ReviewImage{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Review{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrReviewNotFound
		}
		return nil
	})
}

// Images

func (r *reviewRepository) CreateImages(db *gorm.DB, images []models.ReviewImage) error {
	if len(images) == 0 {
		return nil
	}
	return db.Create(&images).Error
}

func (r *reviewRepository) FindImagesByReview(db *gorm.DB, reviewID string) ([]models.ReviewImage, error) {
	var images []models.ReviewImage
	err := db.Where("review_id = ?", reviewID).
		Order("position ASC").
		Find(&images).Error
	return images, err
}

func (r *reviewRepository) FindImageURLsByUser(db *gorm.DB, userID string) ([]string, error) {
	var urls []string
	err := db.Model(&models.ReviewImage{}).
		Joins("JOIN reviews ON reviews.id = review_images.review_id").
		Where("reviews.user_id = ?", userID).
		Pluck("review_images.url", &urls).Error
	return urls, err
}

// Listing

func (r *reviewRepository) FindReviewsByRestaurant(db *gorm.DB, restaurantID string, page, pageSize int) ([]models.Review, int64, error) {
	return r.findPage(db, "restaurant_id", restaurantID, page, pageSize)
}

func (r *reviewRepository) FindReviewsByUser(db *gorm.DB, userID string, page, pageSize int) ([]models.Review, int64, error) {
	return r.findPage(db, "user_id", userID, page, pageSize)
}

func (r *reviewRepository) findPage(db *gorm.DB, column, value string, page, pageSize int) ([]models.Review, int64, error) {
	var total int64
	if err := db.Model(&models.Review{}).Where(column+" = ?", value).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reviews []models.Review
	err := db.Preload("User").Preload("Restaurant").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where(column+" = ?", value).
		Order("reg_date DESC").
		Limit(pageSize).
		Offset(offset(page, pageSize)).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) GetRestaurantRatingStats(db *gorm.DB, restaurantID string) (*RatingStats, error) {
	var rows []struct {
		Rating int
		Count  int64
	}
	err := db.Model(&models.Review{}).
		Select("rating, COUNT(*) AS count").
		Where("restaurant_id = ?", restaurantID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &RatingStats{RatingCounts: make(map[int]int64, 5)}
	var sum int64
	for _, row := range rows {
		stats.RatingCounts[row.Rating] = row.Count
		stats.TotalReviews += row.Count
		sum += int64(row.Rating) * row.Count
	}
	if stats.TotalReviews > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalReviews)
	}
	return stats, nil
}

// GetAverageRatings считает оценки сразу для нескольких ресторанов.
// Рестораны без отзывов в результат не попадают.
func (r *reviewRepository) GetAverageRatings(db *gorm.DB, restaurantIDs []string) (map[string]RatingSummary, error) {
	result := make(map[string]RatingSummary, len(restaurantIDs))
	if len(restaurantIDs) == 0 {
		return result, nil
	}

	var rows []RatingSummary
	err := db.Model(&models.Review{}).
		Select("restaurant_id, AVG(rating) AS average_rating, COUNT(*) AS total_reviews").
		Where("restaurant_id IN ?", restaurantIDs).
		Group("restaurant_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.RestaurantID] = row
	}
	return result, nil
}

func (r *reviewRepository) DeleteReviewsByUser(db *gorm.DB, userID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		sub := tx.Model(&models.Review{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("review_id IN (?)", sub).Delete(&models.ReviewImage{}).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).Delete(&models.Review{}).Error
	})
}
