package models

import "time"

// Follow is a directed edge in the follow graph: follower -> followed.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follows_pair;index" json:"follower_id"`
	FollowedID uint      `gorm:"not null;uniqueIndex:idx_follows_pair;index" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`
}
