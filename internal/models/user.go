package models

import "time"

type User struct {
	BaseModel
	Email           string `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash    string `gorm:"not null"`
	Nickname        string `gorm:"type:varchar(50);not null"`
	Gender          string `gorm:"type:varchar(10)"`
	AgeRange        string `gorm:"type:varchar(20)"`
	Bio             string `gorm:"type:varchar(500)"`
	ProfileImageURL string

	// Relations
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"type:varchar(36);not null;index"`
	Token     string    `gorm:"type:varchar(128);not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
