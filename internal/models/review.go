package models

import (
	"time"
)

// Review decisions recorded by an institution reviewer.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// ReviewItem is an entry in an institution's review queue. One item exists
// per flagged post; enqueueing is idempotent and resolution happens exactly
// once.
type ReviewItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	PostID        uint      `gorm:"not null;uniqueIndex" json:"post_id"`
	InstitutionID uint      `gorm:"not null;index" json:"institution_id"`
	Emergency     bool      `gorm:"not null;default:false" json:"emergency"`
	CreatedAt     time.Time `json:"created_at"`

	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	ReviewerID *uint      `json:"reviewer_id,omitempty"`
	Decision   string     `gorm:"size:16" json:"decision,omitempty"`
	Reason     string     `json:"reason,omitempty"`
}

// Resolved reports whether a reviewer has already decided this item.
func (r *ReviewItem) Resolved() bool {
	return r.ResolvedAt != nil
}
