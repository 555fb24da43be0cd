package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"nopo_backend/internal/logger"
	"nopo_backend/internal/models"
	"nopo_backend/internal/repositories"
)

type restaurantSeed struct {
	Name     string            `yaml:"name"`
	Address  string            `yaml:"address"`
	Category string            `yaml:"category"`
	Phone    string            `yaml:"phone"`
	Metadata map[string]string `yaml:"metadata"`
	X        float64           `yaml:"location_x"`
	Y        float64           `yaml:"location_y"`
}

// SeedRestaurants загружает рестораны из YAML-файла.
// Ресторан с тем же name+address пропускается, поэтому повторный запуск безопасен.
func SeedRestaurants(db *gorm.DB, path string) error {
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("Restaurant seed file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seeds []restaurantSeed
	if err := yaml.Unmarshal(raw, &seeds); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}

	repo := repositories.NewRestaurantRepository()
	created := 0

	err = db.Transaction(func(tx *gorm.DB) error {
		for _, s := range seeds {
			if s.Name == "" {
				continue
			}

			var existing models.Restaurant
			err := tx.Where("name = ? AND address = ?", s.Name, s.Address).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to check restaurant %q: %w", s.Name, err)
			}

			resto := &models.Restaurant{
				Name:      s.Name,
				Address:   s.Address,
				Category:  s.Category,
				Phone:     s.Phone,
				LocationX: s.X,
				LocationY: s.Y,
			}
			if len(s.Metadata) > 0 {
				meta, err := json.Marshal(s.Metadata)
				if err != nil {
					return fmt.Errorf("failed to encode metadata of %q: %w", s.Name, err)
				}
				resto.Metadata = datatypes.JSON(meta)
			}

			if err := repo.Create(tx, resto); err != nil {
				return fmt.Errorf("failed to create restaurant %q: %w", s.Name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Restaurants seeded", "created", created, "total_in_file", len(seeds))
	return nil
}
