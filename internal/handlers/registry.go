package handlers

import (
	"nopo_backend/internal/services"
	"nopo_backend/internal/validator"
)

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler       *AuthHandler
	UserHandler       *UserHandler
	ReviewHandler     *ReviewHandler
	RestaurantHandler *RestaurantHandler
	HealthHandler     *HealthHandler
}

func NewAppHandlers(svc *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)
	return &AppHandlers{
		AuthHandler:       NewAuthHandler(base, svc.AuthService),
		UserHandler:       NewUserHandler(base, svc.UserService),
		ReviewHandler:     NewReviewHandler(base, svc.ReviewService, svc.ImageService),
		RestaurantHandler: NewRestaurantHandler(base, svc.RestaurantService, svc.ReviewService),
		HealthHandler:     NewHealthHandler(base),
	}
}
