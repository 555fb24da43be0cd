package apperrors

import (
	"github.com/gin-gonic/gin"

	"nopo_backend/internal/logger"
)

// ErrorResponse - тело ответа с ошибкой
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// Debug: если true, текст внутренней ошибки попадает в details ответа.
var Debug = false

// HandleError пишет ошибку в ответ и прерывает цепочку хэндлеров.
// Ошибки не *AppError превращаются в 500.
func HandleError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= 500 {
		logger.CtxError(c.Request.Context(), "server error",
			"code", appErr.Code,
			"error", appErr.Error(),
			"path", c.Request.URL.Path,
		)
		if Debug && appErr.Err != nil && appErr.Details == nil {
			appErr = appErr.WithDetails(appErr.Err.Error())
		}
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

// AsAppError - пытается преобразовать error в *AppError
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
