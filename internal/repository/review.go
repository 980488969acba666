// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"campus/internal/models"

	"gorm.io/gorm"
)

// ReviewRepository manages per-institution review queues of flagged posts.
type ReviewRepository interface {
	Enqueue(ctx context.Context, item *models.ReviewItem) error
	Pending(ctx context.Context, institutionID uint, limit, offset int) ([]*models.ReviewItem, error)
	GetByPostID(ctx context.Context, postID uint) (*models.ReviewItem, error)
	Resolve(ctx context.Context, postID, reviewerID uint, decision, reason string) error
	Remove(ctx context.Context, postID uint) error
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review queue repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Enqueue adds a post to its institution's queue. Re-flagging an already
// queued post is a no-op.
func (r *reviewRepository) Enqueue(ctx context.Context, item *models.ReviewItem) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO review_items (post_id, institution_id, emergency, created_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (post_id) DO NOTHING`,
		item.PostID, item.InstitutionID, item.Emergency,
	).Error
}

// Pending lists unresolved items, emergency flags first, oldest submissions
// next.
func (r *reviewRepository) Pending(ctx context.Context, institutionID uint, limit, offset int) ([]*models.ReviewItem, error) {
	var items []*models.ReviewItem
	err := r.db.WithContext(ctx).
		Where("institution_id = ? AND resolved_at IS NULL", institutionID).
		Order("emergency DESC, created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

func (r *reviewRepository) GetByPostID(ctx context.Context, postID uint) (*models.ReviewItem, error) {
	var item models.ReviewItem
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).First(&item).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("review item for post", postID)
		}
		return nil, err
	}
	return &item, nil
}

// Resolve records the reviewer's decision exactly once. The conditional
// UPDATE makes concurrent reviewers race on the resolved_at check: the loser
// updates zero rows and gets a Conflict.
func (r *reviewRepository) Resolve(ctx context.Context, postID, reviewerID uint, decision, reason string) error {
	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.ReviewItem{}).
		Where("post_id = ? AND resolved_at IS NULL", postID).
		Updates(map[string]any{
			"resolved_at": now,
			"reviewer_id": reviewerID,
			"decision":    decision,
			"reason":      reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := r.db.WithContext(ctx).Model(&models.ReviewItem{}).
			Where("post_id = ?", postID).
			Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return models.NewNotFoundError("review item for post", postID)
		}
		return models.NewConflictError("review item already resolved")
	}
	return nil
}

// Remove drops a queue entry without a decision; used when an edit resets a
// flagged post back through moderation or the post is deleted.
func (r *reviewRepository) Remove(ctx context.Context, postID uint) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.ReviewItem{}).Error
}
