package models

import "gorm.io/datatypes"

// Restaurant is read-only for the review flows.
type Restaurant struct {
	BaseModel
	Name     string `gorm:"type:varchar(100);not null;index"`
	Address  string
	Category string `gorm:"type:varchar(50);index"`
	Phone    string `gorm:"type:varchar(30)"`
	Metadata datatypes.JSON

	// координаты в градусах, x - долгота, y - широта
	LocationX float64 `gorm:"index:idx_restaurant_location,priority:1"`
	LocationY float64 `gorm:"index:idx_restaurant_location,priority:2"`
}
