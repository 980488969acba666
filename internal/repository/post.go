// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campus/internal/cache"
	"campus/internal/models"

	"gorm.io/gorm"
)

// Trending weights are fixed design constants: a comment signals twice the
// engagement of a like, a view a tenth.
const (
	likeWeight    = 1.0
	commentWeight = 2.0
	viewWeight    = 0.1
)

// ErrDuplicatePermalink is returned when a freshly minted permalink collides
// with an existing one.
var ErrDuplicatePermalink = errors.New("permalink already exists")

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error)
	GetByPermalink(ctx context.Context, permalink string, viewerID uint) (*models.Post, error)
	Feed(ctx context.Context, institutionID, viewerID uint, limit, offset int) ([]*models.Post, error)
	Trending(ctx context.Context, since time.Time, limit int) ([]*models.Post, error)
	SaveModerated(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicatePermalink
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id uint, viewerID uint) (*models.Post, error) {
	var post models.Post
	err := r.applyCounts(r.db.WithContext(ctx), viewerID).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", id)
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByPermalink(ctx context.Context, permalink string, viewerID uint) (*models.Post, error) {
	var post models.Post
	err := r.applyCounts(r.db.WithContext(ctx), viewerID).
		Where("posts.permalink = ?", permalink).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", permalink)
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Feed(ctx context.Context, institutionID, viewerID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyCounts(r.db.WithContext(ctx), viewerID).
		Where("posts.status = ?", models.StatusApproved).
		Where("posts.institution_id = ?", institutionID).
		Where("posts.author_id <> ?", viewerID).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Trending(ctx context.Context, since time.Time, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	scoreExpr := fmt.Sprintf(
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) * %g + "+
			"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.moderation_flag = 'green') * %g + "+
			"(SELECT COUNT(*) FROM post_views WHERE post_views.post_id = posts.id) * %g AS trend_score",
		likeWeight, commentWeight, viewWeight)
	err := r.db.WithContext(ctx).
		Select(countsSelect+", false as liked, "+scoreExpr).
		Where("posts.status = ?", models.StatusApproved).
		Where("posts.created_at >= ?", since).
		Order("trend_score DESC, posts.created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// countsSelect derives every counter from the cardinality of its backing set
// in a single query; counters are never stored or incremented separately.
const countsSelect = "posts.*, " +
	"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as like_count, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.moderation_flag = 'green') as comment_count, " +
	"(SELECT COUNT(*) FROM post_views WHERE post_views.post_id = posts.id) as view_count"

func (r *postRepository) applyCounts(db *gorm.DB, viewerID uint) *gorm.DB {
	if viewerID != 0 {
		return db.Select(countsSelect+
			", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", viewerID)
	}
	return db.Select(countsSelect + ", false as liked")
}

// SaveModerated writes the post's content, status and moderation record
// guarded by an optimistic version check. A stale writer updates zero rows
// and gets a Conflict.
func (r *postRepository) SaveModerated(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("id = ? AND version = ?", post.ID, post.Version).
		Updates(map[string]any{
			"content":                    post.Content,
			"media_url":                  post.MediaURL,
			"media_caption":              post.MediaCaption,
			"status":                     post.Status,
			"moderation_source":          post.Moderation.Source,
			"moderation_flag":            post.Moderation.Flag,
			"moderation_confidence":      post.Moderation.Confidence,
			"moderation_reason":          post.Moderation.Reason,
			"moderation_moderated_at":    post.Moderation.ModeratedAt,
			"moderation_reviewer_id":     post.Moderation.ReviewerID,
			"moderation_review_decision": post.Moderation.ReviewDecision,
			"moderation_reviewed_at":     post.Moderation.ReviewedAt,
			"version":                    post.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewConflictError("post was modified concurrently")
	}
	post.Version++
	cache.Invalidate(ctx, cache.PostKey(post.ID))
	return nil
}

// Delete hard-deletes the post and cascades through its likes, views,
// comments and any review queue entry.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostView{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.ReviewItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err == nil {
		cache.Invalidate(ctx, cache.PostKey(id))
	}
	return err
}
