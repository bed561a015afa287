package models

import "time"

// Reaction kinds for rating reactions.
const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// Rating is a score plus optional comment a user leaves on a recipe.
// A user has at most one rating per recipe; a repeat submission updates it.
type Rating struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	RecipeID uint   `gorm:"not null;uniqueIndex:idx_ratings_user_recipe;index" json:"recipe_id"`
	UserID   uint   `gorm:"not null;uniqueIndex:idx_ratings_user_recipe" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	Score    int    `gorm:"not null" json:"score"`
	Comment  string `gorm:"type:text" json:"comment"`

	// Likes/Dislikes/MyReaction are not persisted; computed at query time.
	Likes      int     `gorm:"->" json:"likes"`
	Dislikes   int     `gorm:"->" json:"dislikes"`
	MyReaction *string `gorm:"->" json:"my_reaction"`

	Replies []RatingReply `gorm:"foreignKey:RatingID" json:"replies"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingReaction is a like or dislike on a rating. One per (user, rating);
// repeating the same kind removes it, the other kind replaces it.
type RatingReaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RatingID  uint      `gorm:"not null;uniqueIndex:idx_reactions_user_rating;index" json:"rating_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reactions_user_rating" json:"user_id"`
	Kind      string    `gorm:"not null" json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingReply is a threaded reply under a rating, append-only until deleted.
type RatingReply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RatingID  uint      `gorm:"not null;index" json:"rating_id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// RatingStats is the recipe-level aggregate returned with a rating list.
// AvgScore is unrounded and nil when the recipe has no ratings.
type RatingStats struct {
	TotalRatings int64    `json:"totalRatings"`
	AvgScore     *float64 `json:"avgScore"`
}
