package models

import "time"

type Review struct {
	BaseModel
	UserID       string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_review_user_restaurant,priority:1"`
	RestaurantID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_review_user_restaurant,priority:2;index"`
	Content      string    `gorm:"type:text;not null"`
	Rating       int       `gorm:"not null;check:chk_reviews_rating,rating >= 1 AND rating <= 5"`
	RegDate      time.Time `gorm:"not null;index"`

	// Relations
	User       User          `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Restaurant Restaurant    `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
	Images     []ReviewImage `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
}

// ReviewImage принадлежит отзыву и удаляется вместе с ним.
type ReviewImage struct {
	BaseModel
	ReviewID string `gorm:"type:varchar(36);not null;index"`
	URL      string `gorm:"type:varchar(1024);not null"`
	Position int    `gorm:"not null;default:0"`
}

// Visited - факт "пользователь оставил отзыв ресторану", создается один раз на пару.
type Visited struct {
	BaseModel
	UserID       string `gorm:"type:varchar(36);not null;uniqueIndex:idx_visited_user_restaurant,priority:1"`
	RestaurantID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_visited_user_restaurant,priority:2"`

	User       User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Restaurant Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE"`
}

func (Visited) TableName() string {
	return "visited"
}
