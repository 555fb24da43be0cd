package handlers

import (
	"net/http"

	"nopo_backend/internal/services"
	"nopo_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type RestaurantHandler struct {
	*BaseHandler
	restaurantService services.RestaurantService
	reviewService     services.ReviewService
}

func NewRestaurantHandler(base *BaseHandler, restaurantService services.RestaurantService, reviewService services.ReviewService) *RestaurantHandler {
	return &RestaurantHandler{
		BaseHandler:       base,
		restaurantService: restaurantService,
		reviewService:     reviewService,
	}
}

func (h *RestaurantHandler) RegisterRoutes(r *gin.RouterGroup) {
	restaurants := r.Group("/restaurants")
	{
		restaurants.GET("", h.SearchByLocation)
		restaurants.GET("/:restoId", h.GetRestaurant)
		restaurants.GET("/:restoId/similar", h.GetSimilarRestaurants)
		restaurants.GET("/:restoId/reviews", h.GetRestaurantReviews)
		restaurants.GET("/:restoId/rating", h.GetRestaurantRating)
	}
}

// GetRestaurant godoc
// @Summary Ресторан с рейтингом
// @Tags restaurants
// @Produce json
// @Param restoId path string true "ID ресторана"
// @Success 200 {object} dto.RestaurantResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/v1/restaurants/{restoId} [get]
func (h *RestaurantHandler) GetRestaurant(c *gin.Context) {
	resto, err := h.restaurantService.GetRestaurant(c.Request.Context(), h.GetDB(c), c.Param("restoId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resto)
}

// SearchByLocation godoc
// @Summary Рестораны рядом с точкой
// @Tags restaurants
// @Produce json
// @Param x query number true "Долгота"
// @Param y query number true "Широта"
// @Success 200 {object} dto.RestaurantListResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /api/v1/restaurants [get]
func (h *RestaurantHandler) SearchByLocation(c *gin.Context) {
	var query dto.LocationQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	list, err := h.restaurantService.SearchByLocation(c.Request.Context(), h.GetDB(c), *query.X, *query.Y)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetSimilarRestaurants godoc
// @Summary Рестораны, которые оценивали те же пользователи
// @Tags restaurants
// @Produce json
// @Param restoId path string true "ID ресторана"
// @Success 200 {object} dto.RestaurantListResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/v1/restaurants/{restoId}/similar [get]
func (h *RestaurantHandler) GetSimilarRestaurants(c *gin.Context) {
	list, err := h.restaurantService.GetSimilarRestaurants(c.Request.Context(), h.GetDB(c), c.Param("restoId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetRestaurantReviews godoc
// @Summary Отзывы ресторана
// @Tags restaurants
// @Produce json
// @Param restoId path string true "ID ресторана"
// @Param page query int false "Страница"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} dto.ReviewListResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/v1/restaurants/{restoId}/reviews [get]
func (h *RestaurantHandler) GetRestaurantReviews(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	reviews, err := h.reviewService.GetRestaurantReviews(c.Request.Context(), h.GetDB(c), c.Param("restoId"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// GetRestaurantRating godoc
// @Summary Рейтинг ресторана
// @Tags restaurants
// @Produce json
// @Param restoId path string true "ID ресторана"
// @Success 200 {object} dto.RatingResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/v1/restaurants/{restoId}/rating [get]
func (h *RestaurantHandler) GetRestaurantRating(c *gin.Context) {
	rating, err := h.reviewService.GetRestaurantRating(c.Request.Context(), h.GetDB(c), c.Param("restoId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}
