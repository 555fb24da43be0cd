package repositories

import (
	"errors"

	"nopo_backend/internal/models"

	"gorm.io/gorm"
)

type RestaurantRepository interface {
	FindByID(db *gorm.DB, id string) (*models.Restaurant, error)
	FindByIDs(db *gorm.DB, ids []string) ([]models.Restaurant, error)
	Create(db *gorm.DB, restaurant *models.Restaurant) error

	// Поиск
	FindInArea(db *gorm.DB, area Area) ([]models.Restaurant, error)
	FindCoReviewed(db *gorm.DB, restaurantID string, limit int) ([]CoReviewed, error)
}

// Area - прямоугольник координат, границы не включаются.
type Area struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// AreaAround строит квадрат со стороной 2*delta вокруг точки.
func AreaAround(x, y, delta float64) Area {
	return Area{MinX: x - delta, MaxX: x + delta, MinY: y - delta, MaxY: y + delta}
}

// CoReviewed - ресторан, которому оставили отзыв те же пользователи.
type CoReviewed struct {
	RestaurantID    string
	SharedReviewers int64
}

type restaurantRepository struct{}

func NewRestaurantRepository() RestaurantRepository {
	return &restaurantRepository{}
}

func (r *restaurantRepository) FindByID(db *gorm.DB, id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := db.First(&restaurant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return &restaurant, nil
}

// FindByIDs возвращает рестораны в порядке ids, отсутствующие пропускаются.
func (r *restaurantRepository) FindByIDs(db *gorm.DB, ids []string) ([]models.Restaurant, error) {
	if len(ids) == 0 {
		return []models.Restaurant{}, nil
	}

	var found []models.Restaurant
	if err := db.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[string]models.Restaurant, len(found))
	for _, resto := range found {
		byID[resto.ID] = resto
	}
	ordered := make([]models.Restaurant, 0, len(found))
	for _, id := range ids {
		if resto, ok := byID[id]; ok {
			ordered = append(ordered, resto)
		}
	}
	return ordered, nil
}

func (r *restaurantRepository) Create(db *gorm.DB, restaurant *models.Restaurant) error {
	return db.Create(restaurant).Error
}

func (r *restaurantRepository) FindInArea(db *gorm.DB, area Area) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	err := db.
		Where("location_x > ? AND location_x < ?", area.MinX, area.MaxX).
		Where("location_y > ? AND location_y < ?", area.MinY, area.MaxY).
		Order("name ASC").
		Find(&restaurants).Error
	return restaurants, err
}

// FindCoReviewed ищет рестораны, которым писали отзывы авторы отзывов restaurantID.
// Сортировка по числу общих авторов, затем по id.
func (r *restaurantRepository) FindCoReviewed(db *gorm.DB, restaurantID string, limit int) ([]CoReviewed, error) {
	reviewers := db.Model(&models.Review{}).Select("user_id").Where("restaurant_id = ?", restaurantID)

	var rows []CoReviewed
	query := db.Model(&models.Review{}).
		Select("restaurant_id, COUNT(DISTINCT user_id) AS shared_reviewers").
		Where("user_id IN (?)", reviewers).
		Where("restaurant_id <> ?", restaurantID).
		Group("restaurant_id").
		Order("shared_reviewers DESC, restaurant_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
