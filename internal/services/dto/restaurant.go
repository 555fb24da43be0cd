package dto

import "encoding/json"

type RestaurantResponse struct {
	ID            string          `json:"restoId"`
	Name          string          `json:"restoName"`
	Address       string          `json:"address"`
	Category      string          `json:"category"`
	Phone         string          `json:"phone,omitempty"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	LocationX     float64         `json:"locationX"`
	LocationY     float64         `json:"locationY"`
	AverageRating float64         `json:"averageRating"`
	ReviewCount   int64           `json:"reviewCount"`
}

// LocationQuery - центр поиска, x - долгота, y - широта
type LocationQuery struct {
	X *float64 `form:"x" validate:"required,min=-180,max=180"`
	Y *float64 `form:"y" validate:"required,min=-90,max=90"`
}

// RestaurantSummary - строка списка ресторанов
type RestaurantSummary struct {
	ID              string  `json:"restoId"`
	Name            string  `json:"restoName"`
	Address         string  `json:"address"`
	Category        string  `json:"category"`
	LocationX       float64 `json:"locationX"`
	LocationY       float64 `json:"locationY"`
	AverageRating   float64 `json:"averageRating"`
	ReviewCount     int64   `json:"reviewCount"`
	SharedReviewers int64   `json:"sharedReviewers,omitempty"`
}

type RestaurantListResponse struct {
	Restaurants []*RestaurantSummary `json:"restaurants"`
	Total       int                  `json:"total"`
}
