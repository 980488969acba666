package service

import (
	"context"
	"strings"
	"testing"

	"campus/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approvedPostRepo(authorID, institutionID uint) *postRepoStub {
	repo := noopPostRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{
			ID:            id,
			AuthorID:      authorID,
			InstitutionID: institutionID,
			Status:        models.StatusApproved,
		}, nil
	}
	return repo
}

func TestEngagementService_ToggleLike_FlipsMembership(t *testing.T) {
	t.Parallel()

	liked := false
	count := int64(0)
	engRepo := noopEngagementRepo()
	engRepo.isLikedFn = func(_ context.Context, _, _ uint) (bool, error) { return liked, nil }
	engRepo.likeFn = func(_ context.Context, _, _ uint) error {
		liked = true
		count++
		return nil
	}
	engRepo.unlikeFn = func(_ context.Context, _, _ uint) error {
		liked = false
		count--
		return nil
	}
	engRepo.likeCountFn = func(_ context.Context, _ uint) (int64, error) { return count, nil }

	svc := NewEngagementService(approvedPostRepo(7, 3), noopCommentRepo(), engRepo, greenModerator(), nil)
	actor := student(9, 3)

	// Odd number of toggles ends liked; repeating restores the prior state.
	res, err := svc.ToggleLike(context.Background(), 5, actor)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, int64(1), res.LikeCount)

	res, err = svc.ToggleLike(context.Background(), 5, actor)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, int64(0), res.LikeCount)

	res, err = svc.ToggleLike(context.Background(), 5, actor)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, int64(1), res.LikeCount)
}

func TestEngagementService_ToggleLike_NotifiesAuthorOnLikeOnly(t *testing.T) {
	t.Parallel()

	liked := false
	engRepo := noopEngagementRepo()
	engRepo.isLikedFn = func(_ context.Context, _, _ uint) (bool, error) { return liked, nil }
	engRepo.likeFn = func(_ context.Context, _, _ uint) error { liked = true; return nil }
	engRepo.unlikeFn = func(_ context.Context, _, _ uint) error { liked = false; return nil }

	notifier := &notifierRecorder{}
	svc := NewEngagementService(approvedPostRepo(7, 3), noopCommentRepo(), engRepo, greenModerator(), notifier)

	_, err := svc.ToggleLike(context.Background(), 5, student(9, 3))
	require.NoError(t, err)
	_, err = svc.ToggleLike(context.Background(), 5, student(9, 3))
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1, "unlike must not notify")
	assert.Equal(t, uint(7), notifier.sent[0].RecipientID)
	assert.Equal(t, "post_liked", notifier.sent[0].Type)
}

func TestEngagementService_ToggleLike_RequiresApprovedPost(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 9, InstitutionID: 3, Status: models.StatusFlagged}, nil
	}

	svc := NewEngagementService(postRepo, noopCommentRepo(), noopEngagementRepo(), greenModerator(), nil)

	// Even the author cannot like a post that is not published.
	_, err := svc.ToggleLike(context.Background(), 5, student(9, 3))
	assertCode(t, err, models.CodeNotFound)
}

func TestEngagementService_AddComment_Validation(t *testing.T) {
	t.Parallel()

	svc := NewEngagementService(approvedPostRepo(7, 3), noopCommentRepo(), noopEngagementRepo(), greenModerator(), nil)

	tests := []struct {
		name    string
		author  models.Author
		content string
		code    string
	}{
		{"anonymous", models.Author{}, "hi", models.CodeUnauthorized},
		{"empty", student(9, 3), "", models.CodeValidation},
		{"too long", student(9, 3), strings.Repeat("x", maxCommentLen+1), models.CodeValidation},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.AddComment(context.Background(), AddCommentInput{
				Author:  tt.author,
				PostID:  5,
				Content: tt.content,
			})
			assertCode(t, err, tt.code)
		})
	}
}

func TestEngagementService_AddComment_GreenIsVisibleAndNotifies(t *testing.T) {
	t.Parallel()

	notifier := &notifierRecorder{}
	svc := NewEngagementService(approvedPostRepo(7, 3), noopCommentRepo(), noopEngagementRepo(), greenModerator(), notifier)

	comment, err := svc.AddComment(context.Background(), AddCommentInput{
		Author:  student(9, 3),
		PostID:  5,
		Content: "great work",
	})
	require.NoError(t, err)

	assert.True(t, comment.Visible())
	assert.Equal(t, uint(9), comment.AuthorID)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "post_commented", notifier.sent[0].Type)
}

func TestEngagementService_AddComment_RedIsHiddenWithoutTouchingPost(t *testing.T) {
	t.Parallel()

	postRepo := approvedPostRepo(7, 3)
	saveCalled := false
	postRepo.saveModeratedFn = func(_ context.Context, _ *models.Post) error {
		saveCalled = true
		return nil
	}

	notifier := &notifierRecorder{}
	svc := NewEngagementService(postRepo, noopCommentRepo(), noopEngagementRepo(), redModerator(), notifier)

	comment, err := svc.AddComment(context.Background(), AddCommentInput{
		Author:  student(9, 3),
		PostID:  5,
		Content: "rude comment",
	})
	require.NoError(t, err, "a hidden comment is not an error for the commenter")

	assert.False(t, comment.Visible())
	assert.False(t, saveCalled, "the parent post's status must stay untouched")
	assert.Empty(t, notifier.sent, "hidden comments do not notify the author")
}

func TestEngagementService_AddComment_OwnPostDoesNotNotify(t *testing.T) {
	t.Parallel()

	notifier := &notifierRecorder{}
	svc := NewEngagementService(approvedPostRepo(9, 3), noopCommentRepo(), noopEngagementRepo(), greenModerator(), notifier)

	_, err := svc.AddComment(context.Background(), AddCommentInput{
		Author:  student(9, 3),
		PostID:  5,
		Content: "replying to myself",
	})
	require.NoError(t, err)
	assert.Empty(t, notifier.sent)
}

func TestEngagementService_ListComments_HiddenPostIsNotFound(t *testing.T) {
	t.Parallel()

	postRepo := noopPostRepo()
	postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
		return &models.Post{ID: id, AuthorID: 7, InstitutionID: 3, Status: models.StatusFlagged}, nil
	}

	svc := NewEngagementService(postRepo, noopCommentRepo(), noopEngagementRepo(), greenModerator(), nil)

	_, err := svc.ListComments(context.Background(), 5, student(8, 3), 20, 0)
	assertCode(t, err, models.CodeNotFound)

	// The author still sees their own held post's comments.
	_, err = svc.ListComments(context.Background(), 5, student(7, 3), 20, 0)
	require.NoError(t, err)
}
