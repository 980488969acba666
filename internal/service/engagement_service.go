package service

import (
	"context"
	"log/slog"
	"time"

	"campus/internal/models"
	"campus/internal/observability"
	"campus/internal/repository"
)

const maxCommentLen = 1000

// EngagementService handles likes, comments, and views on approved posts.
type EngagementService struct {
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	engagementRepo repository.EngagementRepository
	moderator      Moderator
	notifier       Notifier
	logger         *slog.Logger
}

type AddCommentInput struct {
	Author  models.Author
	PostID  uint
	Content string
}

// LikeResult reports the state after a toggle.
type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

func NewEngagementService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	engagementRepo repository.EngagementRepository,
	moderator Moderator,
	notifier Notifier,
) *EngagementService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &EngagementService{
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		engagementRepo: engagementRepo,
		moderator:      moderator,
		notifier:       notifier,
		logger:         observability.Logger.With("component", "engagement"),
	}
}

// ToggleLike flips the caller's like on a post. Repeating the call restores
// the previous state; the like count always equals the size of the like set.
func (s *EngagementService) ToggleLike(ctx context.Context, postID uint, actor models.Author) (*LikeResult, error) {
	if actor.Zero() {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	post, err := s.postRepo.GetByID(ctx, postID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !post.VisibleTo(actor) || post.Status != models.StatusApproved {
		return nil, models.NewNotFoundError("post", postID)
	}

	liked, err := s.engagementRepo.IsLiked(ctx, postID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if liked {
		err = s.engagementRepo.Unlike(ctx, postID, actor.UserID)
	} else {
		err = s.engagementRepo.Like(ctx, postID, actor.UserID)
	}
	if err != nil {
		return nil, err
	}

	count, err := s.engagementRepo.LikeCount(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !liked && post.AuthorID != actor.UserID {
		s.notifier.NotifyAsync(post.AuthorID, "post_liked",
			"Someone liked your post.",
			map[string]any{"post_id": postID, "user_id": actor.UserID})
	}

	return &LikeResult{Liked: !liked, LikeCount: count}, nil
}

// AddComment attaches a comment to an approved post. The comment is moderated
// independently; a red comment is hidden without touching the parent post's
// status.
func (s *EngagementService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	if in.Author.Zero() {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if err := validateContent(in.Content, maxCommentLen); err != nil {
		return nil, err
	}
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.Author.UserID)
	if err != nil {
		return nil, err
	}
	if !post.VisibleTo(in.Author) || post.Status != models.StatusApproved {
		return nil, models.NewNotFoundError("post", in.PostID)
	}

	verdict := s.moderator.Classify(ctx, in.Content, in.Author.Role)

	comment := &models.Comment{
		PostID:     in.PostID,
		AuthorID:   in.Author.UserID,
		AuthorRole: in.Author.Role,
		Content:    in.Content,
		Moderation: recordFromVerdict(verdict, time.Now().UTC()),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if comment.Visible() && post.AuthorID != in.Author.UserID {
		s.notifier.NotifyAsync(post.AuthorID, "post_commented",
			"Someone commented on your post.",
			map[string]any{"post_id": in.PostID, "comment_id": comment.ID})
	}

	return comment, nil
}

// ListComments returns the visible comments of a post, oldest first.
func (s *EngagementService) ListComments(ctx context.Context, postID uint, viewer models.Author, limit, offset int) ([]*models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID, viewer.UserID)
	if err != nil {
		return nil, err
	}
	if !post.VisibleTo(viewer) {
		return nil, models.NewNotFoundError("post", postID)
	}
	return s.commentRepo.ListVisibleByPost(ctx, postID, limit, offset)
}
