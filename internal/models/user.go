package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:20;default:'CLIENT';index" json:"role"`
	Active       bool   `gorm:"default:true" json:"active"`

	Phone       string `gorm:"size:20" json:"phone"`
	Bio         string `gorm:"size:500" json:"bio"`
	Specialties string `gorm:"size:255" json:"specialties"`
	AvatarURL   string `gorm:"size:255" json:"avatarUrl"`

	// Email and GoogleID are unique among live rows only; see db.Migrate.
	GoogleID *string `gorm:"size:64" json:"-"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
