package routes

import (
	"nopo_backend/internal/handlers"
	"nopo_backend/internal/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes регистрирует все HTTP маршруты.
// authMW проверяет bearer-токен; staticDir != "" включает раздачу локальных файлов по staticURL.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	authMW gin.HandlerFunc,
	staticURL, staticDir string,
) {
	ginRouter.GET("/health", appHandlers.HealthHandler.Health)
	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Регистрация HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.ReviewHandler.RegisterRoutes(api, authMW)
		appHandlers.RestaurantHandler.RegisterRoutes(api)
	}

	// /user без префикса - существующие клиенты
	appHandlers.UserHandler.RegisterRoutes(&ginRouter.RouterGroup, authMW)

	if staticDir != "" {
		ginRouter.Static(staticURL, staticDir)
		logger.Info("Serving uploaded files", "url", staticURL, "dir", staticDir)
	}
}
