// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account in the Gastronauta application.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Bio      string `json:"bio"`
	// Avatar is the relative path of the profile picture, e.g. "/api/users/avatars/<file>".
	Avatar string `json:"avatar"`

	// Password-reset code, stored as a SHA-256 hex digest. Cleared after use.
	ResetCodeHash      *string    `json:"-"`
	ResetCodeExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Recipes []Recipe `gorm:"foreignKey:UserID" json:"recipes,omitempty"`
}

// Profile is the public projection of a user, with follow-graph counts.
type Profile struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Avatar    string `json:"avatar"`
	Followers int64  `json:"followers"`
	Following int64  `json:"following"`
	// IsFollowing reports whether the requesting user follows this profile.
	IsFollowing bool `json:"is_following"`
}
