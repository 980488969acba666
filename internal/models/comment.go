// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Comment represents a comment on a post. Comments are moderated
// independently of their parent post.
type Comment struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	PostID     uint   `gorm:"not null;index" json:"post_id"`
	AuthorID   uint   `gorm:"not null" json:"author_id"`
	AuthorRole Role   `gorm:"not null;size:16" json:"author_role"`
	Content    string `gorm:"not null" json:"content"`

	Moderation ModerationRecord `gorm:"embedded;embeddedPrefix:moderation_" json:"moderation"`

	CreatedAt time.Time `json:"created_at"`
}

// Visible reports whether the comment passed moderation and may be shown.
func (c *Comment) Visible() bool {
	return c.Moderation.Flag == FlagGreen
}
