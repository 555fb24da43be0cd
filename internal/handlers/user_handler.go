package handlers

import (
	"net/http"

	"nopo_backend/internal/logger"
	"nopo_backend/internal/services"
	"nopo_backend/internal/services/dto"
	"nopo_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// UserHandler обслуживает /user. Формат ответов сохранен для существующих клиентов:
// {"statusCode":..., "message":...}.
type UserHandler struct {
	*BaseHandler
	userService services.UserService
}

func NewUserHandler(base *BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		userService: userService,
	}
}

func (h *UserHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	user := r.Group("/user")
	{
		user.GET("/:userId", h.GetUserInfo)
		user.PATCH("", authMW, h.UpdateUser)
		user.DELETE("", authMW, h.DeleteUser)
	}
}

// GetUserInfo godoc
// @Summary Профиль пользователя
// @Tags user
// @Produce json
// @Param userId path string true "ID пользователя"
// @Success 200 {object} dto.UserInfoResponse
// @Failure 400 {object} dto.BaseResponse "Пользователь не найден"
// @Router /user/{userId} [get]
func (h *UserHandler) GetUserInfo(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userId")

	info, err := h.userService.GetUserInfo(ctx, h.GetDB(c), userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			logger.CtxInfo(ctx, "User info requested for unknown user", "target_user_id", userID)
			c.JSON(http.StatusBadRequest, dto.BaseResponse{StatusCode: http.StatusBadRequest, Message: "Fail"})
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, info)
}

// UpdateUser godoc
// @Summary Изменить профиль
// @Description Возвращает новую пару токенов.
// @Tags user
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body dto.UpdateUserRequest true "Поля профиля"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.BaseResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /user [patch]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	tokens, err := h.userService.UpdateUser(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok && appErr.HTTPCode < http.StatusInternalServerError {
			logger.CtxWarn(c.Request.Context(), "User update failed", "code", appErr.Code)
			c.JSON(http.StatusBadRequest, dto.BaseResponse{StatusCode: http.StatusBadRequest, Message: "Fail"})
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		StatusCode:   "200",
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// DeleteUser godoc
// @Summary Удалить аккаунт
// @Description Удаляет пользователя вместе с его отзывами и отметками о посещении.
// @Tags user
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.BaseResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /user [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), h.GetDB(c), userID); err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotFound) {
			// токен валиден, а пользователя уже нет
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("User no longer exists"))
			return
		}
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.BaseResponse{StatusCode: http.StatusOK, Message: "Success"})
}
