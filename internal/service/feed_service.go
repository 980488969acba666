package service

import (
	"context"
	"log/slog"
	"time"

	"campus/internal/cache"
	"campus/internal/models"
	"campus/internal/observability"
	"campus/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	trendingTopN    = 20

	// maxTrendingWindowDays caps caller-supplied windows so a single request
	// cannot force a full-table scan.
	maxTrendingWindowDays = 30
)

// FeedService serves the institution feed and the trending ranking.
type FeedService struct {
	postRepo           repository.PostRepository
	trendingWindowDays int
	logger             *slog.Logger
}

func NewFeedService(postRepo repository.PostRepository, trendingWindowDays int) *FeedService {
	if trendingWindowDays <= 0 {
		trendingWindowDays = 7
	}
	return &FeedService{
		postRepo:           postRepo,
		trendingWindowDays: trendingWindowDays,
		logger:             observability.Logger.With("component", "feed"),
	}
}

// GetFeed returns approved posts from the viewer's institution, newest first,
// excluding the viewer's own posts.
func (s *FeedService) GetFeed(ctx context.Context, viewer models.Author, page, pageSize int) ([]*models.Post, error) {
	if viewer.Zero() {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	limit, offset := pageBounds(page, pageSize)
	return s.postRepo.Feed(ctx, viewer.InstitutionID, viewer.UserID, limit, offset)
}

// GetTrending returns the platform-wide top posts of the recent window ranked
// by engagement score. windowDays <= 0 selects the configured default window.
// Results are served cache-aside with a short TTL; a cache outage degrades to
// a direct query.
func (s *FeedService) GetTrending(ctx context.Context, windowDays int) ([]*models.Post, error) {
	if windowDays <= 0 || windowDays > maxTrendingWindowDays {
		windowDays = s.trendingWindowDays
	}
	key := cache.TrendingKey(windowDays, trendingTopN)
	var posts []*models.Post
	err := cache.Aside(ctx, key, &posts, cache.TrendingTTL, func() error {
		since := time.Now().UTC().AddDate(0, 0, -windowDays)
		fetched, err := s.postRepo.Trending(ctx, since, trendingTopN)
		if err != nil {
			return err
		}
		posts = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func pageBounds(page, pageSize int) (limit, offset int) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return pageSize, (page - 1) * pageSize
}
