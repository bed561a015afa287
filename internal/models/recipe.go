package models

import (
	"time"

	"gorm.io/gorm"
)

// Recipe represents a posted recipe.
type Recipe struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	User        User   `gorm:"foreignKey:UserID" json:"user"`
	Dish        string `gorm:"not null" json:"dish"`
	Description string `gorm:"type:text" json:"description"`
	Ingredients string `gorm:"type:text;not null" json:"ingredients"`
	Steps       string `gorm:"type:text;not null" json:"steps"`
	PrepTime    string `json:"prep_time"`
	Difficulty  string `json:"difficulty"`
	Cost        string `json:"cost"`
	Yield       string `json:"yield"`
	CookTime    string `json:"cook_time"`
	// ImagePath is the relative path under the public root, e.g. "/uploads/<file>".
	ImagePath string `json:"image_path"`

	Tags []Tag `gorm:"many2many:recipe_tags" json:"tags"`

	// TotalLikes is not persisted; computed at query time
	TotalLikes int `gorm:"->" json:"total_likes"`
	// TotalRatings is not persisted; computed at query time
	TotalRatings int `gorm:"->" json:"total_ratings"`
	// AvgRating is computed at query time; nil when the recipe has no ratings.
	AvgRating *float64 `gorm:"->" json:"avg_rating"`
	// Liked indicates whether the current requesting user liked this recipe (computed)
	Liked bool `gorm:"->" json:"liked"`

	CreatedAt time.Time      `json:"posted_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Tag is a catalog entry recipes can be labeled with. Exclusive tags belong to
// a mutually-exclusive group enforced by the client.
type Tag struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"unique;not null" json:"name"`
	Exclusive bool   `json:"exclusive"`
	Color     string `json:"color"`
}

// Like marks a recipe as liked by a user. Presence of the row means "liked".
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_recipe" json:"user_id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_likes_user_recipe;index" json:"recipe_id"`
	CreatedAt time.Time `json:"created_at"`
}
