package models

import (
	"time"
)

// Like represents a user's like on a post.
// The combination of PostID and UserID must be unique; the post's like count
// is always derived from the cardinality of this set.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_post_user" json:"post_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_post_user" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PostView records that a viewer has seen a post. At most one row exists per
// (post, viewer); repeat fetches never inflate the view count.
type PostView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_view_post_viewer" json:"post_id"`
	ViewerID  uint      `gorm:"not null;uniqueIndex:idx_view_post_viewer" json:"viewer_id"`
	CreatedAt time.Time `json:"created_at"`
}
