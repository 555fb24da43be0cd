package repositories

import (
	"errors"

	"nopo_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VisitedRepository interface {
	Exists(db *gorm.DB, restaurantID, userID string) (bool, error)
	Create(db *gorm.DB, visited *models.Visited) error
	FindByUser(db *gorm.DB, userID string) ([]models.Visited, error)
	CountByUser(db *gorm.DB, userID string) (int64, error)
	DeleteByUser(db *gorm.DB, userID string) error
}

type visitedRepository struct{}

func NewVisitedRepository() VisitedRepository {
	return &visitedRepository{}
}

func (r *visitedRepository) Exists(db *gorm.DB, restaurantID, userID string) (bool, error) {
	var visited models.Visited
	err := db.Select("id").
		Where("restaurant_id = ? AND user_id = ?", restaurantID, userID).
		First(&visited).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *visitedRepository) Create(db *gorm.DB, visited *models.Visited) error {
	if err := db.Omit(clause.Associations).Create(visited).Error; err != nil {
		if IsDuplicateKey(err) {
			return ErrVisitedAlreadyExists
		}
		return err
	}
	return nil
}

func (r *visitedRepository) FindByUser(db *gorm.DB, userID string) ([]models.Visited, error) {
	var visited []models.Visited
	err := db.Preload("Restaurant").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&visited).Error
	return visited, err
}

func (r *visitedRepository) CountByUser(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Visited{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *visitedRepository) DeleteByUser(db *gorm.DB, userID string) error {
	return db.Where("user_id = ?", userID).Delete(&models.Visited{}).Error
}
