package database

import (
	"fmt"

	"gorm.io/gorm"

	"nopo_backend/internal/logger"
	"nopo_backend/internal/models"
)

// AutoMigrate выполняет миграцию всех моделей.
// Порядок важен: таблицы с внешними ключами идут после родительских.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Restaurant{},
		&models.Review{},
		&models.ReviewImage{},
		&models.Visited{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	logger.Info("AutoMigrate completed")
	return nil
}
