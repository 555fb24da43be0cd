package services

import (
	"time"

	"nopo_backend/internal/auth"
	"nopo_backend/internal/repositories"
	"nopo_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService       AuthService
	UserService       UserService
	ReviewService     ReviewService
	RestaurantService RestaurantService
	ImageService      ImageService
}

// Dependencies - внешние зависимости сервисов.
type Dependencies struct {
	Storage    storage.Storage
	Tokens     *auth.TokenManager
	RefreshTTL time.Duration
	Images     *ImageConfig
}

// NewServiceContainer собирает репозитории и сервисы.
// Репозитории не хранят состояние, *gorm.DB передается в каждый вызов.
func NewServiceContainer(deps Dependencies) *ServiceContainer {
	userRepo := repositories.NewUserRepository()
	restaurantRepo := repositories.NewRestaurantRepository()
	reviewRepo := repositories.NewReviewRepository()
	visitedRepo := repositories.NewVisitedRepository()
	refreshTokenRepo := repositories.NewRefreshTokenRepository()

	imageService := NewImageService(deps.Storage, deps.Images)
	authService := NewAuthService(userRepo, refreshTokenRepo, deps.Tokens, deps.RefreshTTL)

	return &ServiceContainer{
		AuthService:       authService,
		UserService:       NewUserService(userRepo, reviewRepo, visitedRepo, refreshTokenRepo, authService, imageService),
		ReviewService:     NewReviewService(reviewRepo, userRepo, restaurantRepo, visitedRepo, imageService),
		RestaurantService: NewRestaurantService(restaurantRepo, reviewRepo),
		ImageService:      imageService,
	}
}
