// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"campus/internal/cache"
	"campus/internal/models"

	"gorm.io/gorm"
)

// EngagementRepository manages the like and view membership sets. Counts are
// always derived from set cardinality so concurrent retries cannot drift them.
type EngagementRepository interface {
	IsLiked(ctx context.Context, postID, userID uint) (bool, error)
	Like(ctx context.Context, postID, userID uint) error
	Unlike(ctx context.Context, postID, userID uint) error
	LikeCount(ctx context.Context, postID uint) (int64, error)
	RecordView(ctx context.Context, postID, viewerID uint) error
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new engagement repository.
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

func (r *engagementRepository) IsLiked(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *engagementRepository) Like(ctx context.Context, postID, userID uint) error {
	// INSERT ... ON CONFLICT DO NOTHING is atomic and keeps concurrent
	// retries from producing duplicate membership rows.
	err := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (post_id, user_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (post_id, user_id) DO NOTHING`,
		postID, userID,
	).Error
	if err == nil {
		cache.Invalidate(ctx, cache.PostKey(postID))
	}
	return err
}

func (r *engagementRepository) Unlike(ctx context.Context, postID, userID uint) error {
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{}).Error
	if err == nil {
		cache.Invalidate(ctx, cache.PostKey(postID))
	}
	return err
}

func (r *engagementRepository) LikeCount(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

// RecordView inserts the (post, viewer) pair at most once.
func (r *engagementRepository) RecordView(ctx context.Context, postID, viewerID uint) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO post_views (post_id, viewer_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (post_id, viewer_id) DO NOTHING`,
		postID, viewerID,
	).Error
}
