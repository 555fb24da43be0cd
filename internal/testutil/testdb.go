// Package testutil содержит общие хелперы для тестов: БД sqlite в памяти и фикстуры.
package testutil

import (
	"fmt"
	"io"
	"testing"

	"nopo_backend/database"
	"nopo_backend/internal/auth"
	"nopo_backend/internal/logger"
	"nopo_backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	// регистрация и логин в тестах не должны ждать полный bcrypt
	auth.PasswordCost = bcrypt.MinCost
}

// NewTestDB создает отдельную sqlite БД в памяти с примененными миграциями.
// Пул ограничен одним соединением: БД в памяти живет, пока живет соединение.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.InitWithWriter("test", io.Discard)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	dialector, err := database.Dialector("sqlite", dsn)
	require.NoError(t, err)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "не удалось открыть тестовую БД")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// CreateUser создает пользователя; пароль хешируется.
func CreateUser(t *testing.T, db *gorm.DB, nickname, email, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Nickname:     nickname,
	}
	require.NoError(t, db.Create(user).Error, "не удалось создать пользователя %s", email)
	return user
}

// CreateRestaurant создает ресторан.
func CreateRestaurant(t *testing.T, db *gorm.DB, name string) *models.Restaurant {
	t.Helper()
	restaurant := &models.Restaurant{
		Name:     name,
		Address:  "Seoul, Gangnam-gu",
		Category: "korean",
	}
	require.NoError(t, db.Create(restaurant).Error, "не удалось создать ресторан %s", name)
	return restaurant
}

// CreateRestaurantAt создает ресторан с координатами.
func CreateRestaurantAt(t *testing.T, db *gorm.DB, name string, x, y float64) *models.Restaurant {
	t.Helper()
	restaurant := &models.Restaurant{
		Name:      name,
		Address:   "Seoul",
		Category:  "korean",
		LocationX: x,
		LocationY: y,
	}
	require.NoError(t, db.Create(restaurant).Error, "не удалось создать ресторан %s", name)
	return restaurant
}

// Count возвращает число строк модели с условием.
func Count(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}
