package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"nopo_backend/internal/logger"
	"nopo_backend/internal/services"
	"nopo_backend/internal/services/dto"
	"nopo_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
	imageService  services.ImageService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService, imageService services.ImageService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
		imageService:  imageService,
	}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	// Public routes
	public := r.Group("/reviews")
	{
		public.GET("/:reviewId", h.GetReview)
	}

	// Protected routes
	reviews := r.Group("/reviews")
	reviews.Use(authMW)
	{
		reviews.POST("", h.CreateReview)
		reviews.POST("/images", h.UploadImages)
		reviews.PUT("/:reviewId", h.ModifyReview)
		reviews.DELETE("/:reviewId", h.DeleteReview)
	}

	me := r.Group("/users/me")
	me.Use(authMW)
	{
		me.GET("/reviews", h.GetMyReviews)
		me.GET("/visited", h.GetMyVisited)
	}
}

// CreateReview godoc
// @Summary Создать отзыв
// @Description JSON (картинки заранее загружены через /reviews/images) или multipart: часть "review" с JSON и файлы "images".
// @Tags reviews
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param review body dto.ReviewRequest true "Отзыв"
// @Success 201 {object} dto.CreateReviewResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse "Картинка загружена другим пользователем"
// @Failure 404 {object} apperrors.ErrorResponse "Пользователь или ресторан не найден"
// @Failure 409 {object} apperrors.ErrorResponse "Отзыв уже существует"
// @Router /api/v1/reviews [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req dto.ReviewRequest
	uploaded, ok := h.bindCreateRequest(c, userID, &req)
	if !ok {
		return
	}

	imageURLs := append(append([]string{}, req.ImageURLs...), uploaded...)
	reviewID, err := h.reviewService.CreateReview(ctx, h.GetDB(c), userID, &req, imageURLs)
	if err != nil {
		if len(uploaded) > 0 {
			// отзыв не создан - загруженные в этом запросе файлы не нужны
			if delErr := h.imageService.DeleteByURLs(ctx, userID, uploaded); delErr != nil {
				logger.CtxWarn(ctx, "Failed to remove images of rejected review", "error", delErr.Error())
			}
		}
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CreateReviewResponse{ReviewID: reviewID})
}

// bindCreateRequest читает запрос в JSON или multipart-форме и возвращает
// URL картинок, загруженных в рамках этого запроса.
func (h *ReviewHandler) bindCreateRequest(c *gin.Context, userID string, req *dto.ReviewRequest) ([]string, bool) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if !h.BindAndValidate_JSON(c, req) {
			return nil, false
		}
		return nil, true
	}

	form, err := c.MultipartForm()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid multipart form: "+err.Error()))
		return nil, false
	}
	if err := json.Unmarshal([]byte(c.PostForm("review")), req); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid review part: "+err.Error()))
		return nil, false
	}
	if !h.Validate(c, req) {
		return nil, false
	}

	files := form.File["images"]
	if len(files) == 0 {
		return nil, true
	}
	urls, err := h.imageService.UploadReviewImages(c.Request.Context(), userID, files)
	if err != nil {
		h.HandleServiceError(c, err)
		return nil, false
	}
	return urls, true
}

// UploadImages godoc
// @Summary Загрузить картинки для отзыва
// @Tags reviews
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param images formData file true "Картинки"
// @Success 201 {object} dto.ImageUploadResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 413 {object} apperrors.ErrorResponse
// @Failure 415 {object} apperrors.ErrorResponse
// @Router /api/v1/reviews/images [post]
func (h *ReviewHandler) UploadImages(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid multipart form: "+err.Error()))
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		apperrors.HandleError(c, apperrors.NewBadRequestError("At least one image is required"))
		return
	}

	urls, err := h.imageService.UploadReviewImages(c.Request.Context(), userID, files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ImageUploadResponse{ImageURLs: urls})
}

// GetReview godoc
// @Summary Получить отзыв
// @Tags reviews
// @Produce json
// @Param reviewId path string true "ID отзыва"
// @Success 200 {object} dto.ReviewResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/v1/reviews/{reviewId} [get]
func (h *ReviewHandler) GetReview(c *gin.Context) {
	review, err := h.reviewService.GetReview(c.Request.Context(), h.GetDB(c), c.Param("reviewId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// ModifyReview godoc
// @Summary Изменить отзыв (только автор)
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param reviewId path string true "ID отзыва"
// @Param review body dto.UpdateReviewRequest true "Новый текст и оценка"
// @Success 200 {object} map[string]string
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/v1/reviews/{reviewId} [put]
func (h *ReviewHandler) ModifyReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.reviewService.ModifyReview(c.Request.Context(), h.GetDB(c), c.Param("reviewId"), userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review updated successfully"})
}

// DeleteReview godoc
// @Summary Удалить отзыв (только автор)
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param reviewId path string true "ID отзыва"
// @Success 200 {object} map[string]string
// @Failure 403 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/v1/reviews/{reviewId} [delete]
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), h.GetDB(c), c.Param("reviewId"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

// GetMyReviews godoc
// @Summary Мои отзывы
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param page query int false "Страница"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} dto.ReviewListResponse
// @Router /api/v1/users/me/reviews [get]
func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	reviews, err := h.reviewService.GetUserReviews(c.Request.Context(), h.GetDB(c), userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// GetMyVisited godoc
// @Summary Рестораны, где я оставил отзыв
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.VisitedResponse
// @Router /api/v1/users/me/visited [get]
func (h *ReviewHandler) GetMyVisited(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	visited, err := h.reviewService.GetVisitedRestaurants(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, visited)
}
