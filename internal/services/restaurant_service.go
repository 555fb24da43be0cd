package services

import (
	"context"
	"encoding/json"
	"math"

	"nopo_backend/internal/logger"
	"nopo_backend/internal/models"
	"nopo_backend/internal/repositories"
	"nopo_backend/internal/services/dto"
	"nopo_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const (
	// LocationSearchDelta - полуширина квадрата поиска в градусах (~6 км по широте)
	LocationSearchDelta = 0.054
	// SimilarRestaurantsLimit - сколько похожих ресторанов отдавать
	SimilarRestaurantsLimit = 15
)

type RestaurantService interface {
	GetRestaurant(ctx context.Context, db *gorm.DB, restaurantID string) (*dto.RestaurantResponse, error)
	SearchByLocation(ctx context.Context, db *gorm.DB, x, y float64) (*dto.RestaurantListResponse, error)
	GetSimilarRestaurants(ctx context.Context, db *gorm.DB, restaurantID string) (*dto.RestaurantListResponse, error)
}

type restaurantService struct {
	restaurantRepo repositories.RestaurantRepository
	reviewRepo     repositories.ReviewRepository
}

func NewRestaurantService(restaurantRepo repositories.RestaurantRepository, reviewRepo repositories.ReviewRepository) RestaurantService {
	return &restaurantService{
		restaurantRepo: restaurantRepo,
		reviewRepo:     reviewRepo,
	}
}

func (s *restaurantService) GetRestaurant(ctx context.Context, db *gorm.DB, restaurantID string) (*dto.RestaurantResponse, error) {
	db = db.WithContext(ctx)

	restaurant, err := s.restaurantRepo.FindByID(db, restaurantID)
	if err != nil {
		return nil, handleReviewError(err)
	}

	stats, err := s.reviewRepo.GetRestaurantRatingStats(db, restaurantID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.RestaurantResponse{
		ID:            restaurant.ID,
		Name:          restaurant.Name,
		Address:       restaurant.Address,
		Category:      restaurant.Category,
		Phone:         restaurant.Phone,
		LocationX:     restaurant.LocationX,
		LocationY:     restaurant.LocationY,
		AverageRating: roundRating(stats.AverageRating),
		ReviewCount:   stats.TotalReviews,
	}
	if len(restaurant.Metadata) > 0 {
		resp.Metadata = json.RawMessage(restaurant.Metadata)
	}
	return resp, nil
}

// SearchByLocation возвращает рестораны внутри квадрата вокруг точки (x, y).
func (s *restaurantService) SearchByLocation(ctx context.Context, db *gorm.DB, x, y float64) (*dto.RestaurantListResponse, error) {
	db = db.WithContext(ctx)

	restaurants, err := s.restaurantRepo.FindInArea(db, repositories.AreaAround(x, y, LocationSearchDelta))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxDebug(ctx, "Location search", "x", x, "y", y, "found", len(restaurants))
	return s.buildList(db, restaurants, nil)
}

// GetSimilarRestaurants - рестораны, которым писали отзывы авторы отзывов restaurantID.
func (s *restaurantService) GetSimilarRestaurants(ctx context.Context, db *gorm.DB, restaurantID string) (*dto.RestaurantListResponse, error) {
	db = db.WithContext(ctx)

	if _, err := s.restaurantRepo.FindByID(db, restaurantID); err != nil {
		return nil, handleReviewError(err)
	}

	coReviewed, err := s.restaurantRepo.FindCoReviewed(db, restaurantID, SimilarRestaurantsLimit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	ids := make([]string, 0, len(coReviewed))
	shared := make(map[string]int64, len(coReviewed))
	for _, row := range coReviewed {
		ids = append(ids, row.RestaurantID)
		shared[row.RestaurantID] = row.SharedReviewers
	}

	restaurants, err := s.restaurantRepo.FindByIDs(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.buildList(db, restaurants, shared)
}

func (s *restaurantService) buildList(db *gorm.DB, restaurants []models.Restaurant, shared map[string]int64) (*dto.RestaurantListResponse, error) {
	ids := make([]string, 0, len(restaurants))
	for _, resto := range restaurants {
		ids = append(ids, resto.ID)
	}
	ratings, err := s.reviewRepo.GetAverageRatings(db, ids)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.RestaurantSummary, 0, len(restaurants))
	for _, resto := range restaurants {
		rating := ratings[resto.ID]
		items = append(items, &dto.RestaurantSummary{
			ID:              resto.ID,
			Name:            resto.Name,
			Address:         resto.Address,
			Category:        resto.Category,
			LocationX:       resto.LocationX,
			LocationY:       resto.LocationY,
			AverageRating:   roundRating(rating.AverageRating),
			ReviewCount:     rating.TotalReviews,
			SharedReviewers: shared[resto.ID],
		})
	}
	return &dto.RestaurantListResponse{Restaurants: items, Total: len(items)}, nil
}

func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}
