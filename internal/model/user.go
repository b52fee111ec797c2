package model

import (
	"time"

	"gorm.io/gorm"
)

// User is the identity record. Username and email are stored lowercased
// and unique. Password holds only the bcrypt hash. RefreshToken is the
// single active session slot: writing a new token invalidates the prior
// session by overwrite, NULL means logged out.
type User struct {
	gorm.Model
	FullName      string     `gorm:"column:full_name;not null"`
	Username      string     `gorm:"column:username;uniqueIndex;not null"`
	Email         string     `gorm:"column:email;uniqueIndex;not null"`
	Password      string     `gorm:"column:password;not null"`
	AvatarURL     string     `gorm:"column:avatar_url;not null"`
	CoverImageURL string     `gorm:"column:cover_image_url"`
	RefreshToken  *string    `gorm:"column:refresh_token;default:null"`
	LastLogin     *time.Time `gorm:"column:last_login"`
}
