// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// PostStatus is the publication state of a post.
type PostStatus string

const (
	StatusPending  PostStatus = "pending"
	StatusApproved PostStatus = "approved"
	StatusFlagged  PostStatus = "flagged"
	StatusRejected PostStatus = "rejected"
)

// Moderation flag values stored on posts and comments.
const (
	FlagGreen = "green"
	FlagRed   = "red"
)

// ModerationRecord captures the outcome of the most recent moderation pass on
// a post or comment. The automated fields are written once per pass; the
// reviewer fields are filled only by a recorded human decision.
type ModerationRecord struct {
	Source      string     `gorm:"size:32" json:"source"`
	Flag        string     `gorm:"size:8;index" json:"flag"`
	Confidence  float64    `json:"confidence"`
	Reason      string     `json:"reason"`
	ModeratedAt *time.Time `json:"moderated_at,omitempty"`

	ReviewerID     *uint      `json:"reviewer_id,omitempty"`
	ReviewDecision string     `gorm:"size:16" json:"review_decision,omitempty"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
}

// Post represents a submission in the community feed.
type Post struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Permalink     string     `gorm:"uniqueIndex;not null;size:36" json:"permalink"`
	AuthorID      uint       `gorm:"not null;index" json:"author_id"`
	AuthorRole    Role       `gorm:"not null;size:16" json:"author_role"`
	InstitutionID uint       `gorm:"not null;index" json:"institution_id"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	MediaURL      string     `json:"media_url,omitempty"`
	MediaCaption  string     `json:"media_caption,omitempty"`
	Status        PostStatus `gorm:"not null;index;default:pending" json:"status"`

	Moderation ModerationRecord `gorm:"embedded;embeddedPrefix:moderation_" json:"moderation"`

	// Version guards concurrent status transitions; stale writers are rejected.
	Version uint `gorm:"not null;default:1" json:"version"`

	// LikeCount is not persisted; computed at query time from the likes set.
	LikeCount int `gorm:"->" json:"like_count"`
	// CommentCount is not persisted; counts visible comments only.
	CommentCount int `gorm:"->" json:"comment_count"`
	// ViewCount is not persisted; computed from the deduplicated views set.
	ViewCount int `gorm:"->" json:"view_count"`
	// Liked indicates whether the current requesting user liked this post (computed).
	Liked bool `gorm:"->" json:"liked"`
	// TrendScore is populated by trending queries only.
	TrendScore float64 `gorm:"->" json:"trend_score,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VisibleTo reports whether the post may be shown to the given viewer.
// Approved posts are public within the platform; anything else is visible
// only to its author and to reviewers of the owning institution.
func (p *Post) VisibleTo(a Author) bool {
	if p.Status == StatusApproved {
		return true
	}
	if a.Zero() {
		return false
	}
	return p.AuthorID == a.UserID || a.Reviewer(p.InstitutionID)
}
