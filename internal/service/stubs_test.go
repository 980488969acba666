package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus/internal/moderation"
	"campus/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn         func(context.Context, *models.Post) error
	getByIDFn        func(context.Context, uint, uint) (*models.Post, error)
	getByPermalinkFn func(context.Context, string, uint) (*models.Post, error)
	feedFn           func(context.Context, uint, uint, int, int) ([]*models.Post, error)
	trendingFn       func(context.Context, time.Time, int) ([]*models.Post, error)
	saveModeratedFn  func(context.Context, *models.Post) error
	deleteFn         func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, viewerID)
}
func (s *postRepoStub) GetByPermalink(ctx context.Context, permalink string, viewerID uint) (*models.Post, error) {
	return s.getByPermalinkFn(ctx, permalink, viewerID)
}
func (s *postRepoStub) Feed(ctx context.Context, institutionID, viewerID uint, limit, offset int) ([]*models.Post, error) {
	return s.feedFn(ctx, institutionID, viewerID, limit, offset)
}
func (s *postRepoStub) Trending(ctx context.Context, since time.Time, limit int) ([]*models.Post, error) {
	return s.trendingFn(ctx, since, limit)
}
func (s *postRepoStub) SaveModerated(ctx context.Context, post *models.Post) error {
	return s.saveModeratedFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, post *models.Post) error {
			post.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, _, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1}, nil
		},
		getByPermalinkFn: func(_ context.Context, _ string, _ uint) (*models.Post, error) {
			return &models.Post{ID: 1}, nil
		},
		feedFn: func(_ context.Context, _, _ uint, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		trendingFn: func(_ context.Context, _ time.Time, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		saveModeratedFn: func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn func(context.Context, *models.Comment) error
	getFn    func(context.Context, uint) (*models.Comment, error)
	listFn   func(context.Context, uint, int, int) ([]*models.Comment, error)
	deleteFn func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getFn(ctx, id)
}
func (s *commentRepoStub) ListVisibleByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	return s.listFn(ctx, postID, limit, offset)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 1
			return nil
		},
		getFn: func(_ context.Context, _ uint) (*models.Comment, error) {
			return &models.Comment{ID: 1}, nil
		},
		listFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, error) {
			return nil, nil
		},
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// engagementRepoStub is a stub for repository.EngagementRepository.
type engagementRepoStub struct {
	isLikedFn    func(context.Context, uint, uint) (bool, error)
	likeFn       func(context.Context, uint, uint) error
	unlikeFn     func(context.Context, uint, uint) error
	likeCountFn  func(context.Context, uint) (int64, error)
	recordViewFn func(context.Context, uint, uint) error
}

func (s *engagementRepoStub) IsLiked(ctx context.Context, postID, userID uint) (bool, error) {
	return s.isLikedFn(ctx, postID, userID)
}
func (s *engagementRepoStub) Like(ctx context.Context, postID, userID uint) error {
	return s.likeFn(ctx, postID, userID)
}
func (s *engagementRepoStub) Unlike(ctx context.Context, postID, userID uint) error {
	return s.unlikeFn(ctx, postID, userID)
}
func (s *engagementRepoStub) LikeCount(ctx context.Context, postID uint) (int64, error) {
	return s.likeCountFn(ctx, postID)
}
func (s *engagementRepoStub) RecordView(ctx context.Context, postID, viewerID uint) error {
	return s.recordViewFn(ctx, postID, viewerID)
}

func noopEngagementRepo() *engagementRepoStub {
	return &engagementRepoStub{
		isLikedFn:    func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		likeFn:       func(_ context.Context, _, _ uint) error { return nil },
		unlikeFn:     func(_ context.Context, _, _ uint) error { return nil },
		likeCountFn:  func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		recordViewFn: func(_ context.Context, _, _ uint) error { return nil },
	}
}

// reviewRepoStub is a stub for repository.ReviewRepository.
type reviewRepoStub struct {
	enqueueFn     func(context.Context, *models.ReviewItem) error
	pendingFn     func(context.Context, uint, int, int) ([]*models.ReviewItem, error)
	getByPostIDFn func(context.Context, uint) (*models.ReviewItem, error)
	resolveFn     func(context.Context, uint, uint, string, string) error
	removeFn      func(context.Context, uint) error
}

func (s *reviewRepoStub) Enqueue(ctx context.Context, item *models.ReviewItem) error {
	return s.enqueueFn(ctx, item)
}
func (s *reviewRepoStub) Pending(ctx context.Context, institutionID uint, limit, offset int) ([]*models.ReviewItem, error) {
	return s.pendingFn(ctx, institutionID, limit, offset)
}
func (s *reviewRepoStub) GetByPostID(ctx context.Context, postID uint) (*models.ReviewItem, error) {
	return s.getByPostIDFn(ctx, postID)
}
func (s *reviewRepoStub) Resolve(ctx context.Context, postID, reviewerID uint, decision, reason string) error {
	return s.resolveFn(ctx, postID, reviewerID, decision, reason)
}
func (s *reviewRepoStub) Remove(ctx context.Context, postID uint) error {
	return s.removeFn(ctx, postID)
}

func noopReviewRepo() *reviewRepoStub {
	return &reviewRepoStub{
		enqueueFn: func(_ context.Context, _ *models.ReviewItem) error { return nil },
		pendingFn: func(_ context.Context, _ uint, _, _ int) ([]*models.ReviewItem, error) {
			return nil, nil
		},
		getByPostIDFn: func(_ context.Context, postID uint) (*models.ReviewItem, error) {
			return &models.ReviewItem{PostID: postID, InstitutionID: 1}, nil
		},
		resolveFn: func(_ context.Context, _, _ uint, _, _ string) error { return nil },
		removeFn:  func(_ context.Context, _ uint) error { return nil },
	}
}

// moderatorStub returns a fixed verdict for every classification.
type moderatorStub struct {
	verdict moderation.Verdict
	calls   int
}

func (s *moderatorStub) Classify(_ context.Context, _ string, _ models.Role) moderation.Verdict {
	s.calls++
	return s.verdict
}

func greenModerator() *moderatorStub {
	return &moderatorStub{verdict: moderation.Verdict{
		Flag:       moderation.Green,
		Confidence: 0.9,
		Reason:     "ok",
		Source:     moderation.SourceRules,
	}}
}

func redModerator() *moderatorStub {
	return &moderatorStub{verdict: moderation.Verdict{
		Flag:       moderation.Red,
		Confidence: 0.8,
		Reason:     "flagged",
		Source:     moderation.SourceRules,
	}}
}

// notifierRecorder captures notifications for assertions.
type notifierRecorder struct {
	sent []sentNotification
}

type sentNotification struct {
	RecipientID uint
	Type        string
}

func (n *notifierRecorder) NotifyAsync(recipientID uint, notifType, _ string, _ map[string]any) {
	n.sent = append(n.sent, sentNotification{RecipientID: recipientID, Type: notifType})
}

func student(userID, institutionID uint) models.Author {
	return models.Author{Role: models.RoleStudent, UserID: userID, InstitutionID: institutionID}
}

func reviewer(userID, institutionID uint) models.Author {
	return models.Author{Role: models.RoleInstitution, UserID: userID, InstitutionID: institutionID}
}

// assertCode asserts that err is an AppError with the given code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
