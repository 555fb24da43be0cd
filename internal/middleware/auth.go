package middleware

import (
	"strings"

	"nopo_backend/internal/logger"
	"nopo_backend/pkg/apperrors"
	"nopo_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// UserIDKey - ключ gin.Context, под которым лежит ID аутентифицированного пользователя
const UserIDKey = contextkeys.GinUserID

// TokenParser проверяет access-токен и возвращает ID пользователя.
type TokenParser interface {
	ParseAccessToken(token string) (string, error)
}

// AuthMiddleware - middleware проверки JWT
func AuthMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			logger.CtxWarn(c.Request.Context(), "Authorization header missing or invalid", "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		userID, err := parser.ParseAccessToken(tokenStr)
		if err != nil {
			logger.CtxWarn(c.Request.Context(), "Invalid access token", "error", err.Error(), "path", c.Request.URL.Path)
			apperrors.HandleError(c, err)
			return
		}

		// Сохраняем userID в контекст
		c.Set(UserIDKey, userID)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	tokenStr, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || strings.TrimSpace(tokenStr) == "" {
		return "", false
	}
	return strings.TrimSpace(tokenStr), true
}

// GetUserID извлекает ID пользователя из контекста
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}

	return id
}
