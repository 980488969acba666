package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"campus/internal/models"
	"campus/internal/observability"
	"campus/internal/repository"

	"github.com/google/uuid"
)

const maxPostLen = 5000

// PostService is the submission gate and publication state machine for posts.
type PostService struct {
	postRepo       repository.PostRepository
	reviewRepo     repository.ReviewRepository
	engagementRepo repository.EngagementRepository
	moderator      Moderator
	notifier       Notifier
	logger         *slog.Logger
}

type CreatePostInput struct {
	Author       models.Author
	Content      string
	MediaURL     string
	MediaCaption string
}

type UpdatePostInput struct {
	Author       models.Author
	PostID       uint
	Content      string
	MediaURL     string
	MediaCaption string
}

// NewPostService wires the post pipeline together.
func NewPostService(
	postRepo repository.PostRepository,
	reviewRepo repository.ReviewRepository,
	engagementRepo repository.EngagementRepository,
	moderator Moderator,
	notifier Notifier,
) *PostService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &PostService{
		postRepo:       postRepo,
		reviewRepo:     reviewRepo,
		engagementRepo: engagementRepo,
		moderator:      moderator,
		notifier:       notifier,
		logger:         observability.Logger.With("component", "posts"),
	}
}

// CreatePost validates a submission, runs moderation and publishes or holds
// the post. Every call ends in a definitive status: approved, flagged, or a
// validation error.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Author.Zero() {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if err := validateContent(in.Content, maxPostLen); err != nil {
		return nil, err
	}

	verdict := s.moderator.Classify(ctx, in.Content, in.Author.Role)
	now := time.Now().UTC()

	post := &models.Post{
		Permalink:     uuid.NewString(),
		AuthorID:      in.Author.UserID,
		AuthorRole:    in.Author.Role,
		InstitutionID: in.Author.InstitutionID,
		Content:       strings.TrimSpace(in.Content),
		MediaURL:      in.MediaURL,
		MediaCaption:  in.MediaCaption,
		Status:        statusForVerdict(verdict),
		Moderation:    recordFromVerdict(verdict, now),
		Version:       1,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		if err != repository.ErrDuplicatePermalink {
			return nil, err
		}
		// Regenerate once; a second collision surfaces as a server error.
		post.Permalink = uuid.NewString()
		if err := s.postRepo.Create(ctx, post); err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	if post.Status == models.StatusFlagged {
		if err := s.enqueueForReview(ctx, post, verdict.Emergency); err != nil {
			return nil, err
		}
	}

	return post, nil
}

// GetPost resolves a post by numeric ID or permalink, enforcing visibility.
// Fetching an approved post records a deduplicated view for authenticated
// viewers; anonymous fetches are never counted.
func (s *PostService) GetPost(ctx context.Context, idOrPermalink string, viewer models.Author) (*models.Post, error) {
	post, err := s.lookup(ctx, idOrPermalink, viewer.UserID)
	if err != nil {
		return nil, err
	}
	if !post.VisibleTo(viewer) {
		return nil, models.NewNotFoundError("post", idOrPermalink)
	}

	if post.Status == models.StatusApproved && !viewer.Zero() {
		if err := s.engagementRepo.RecordView(ctx, post.ID, viewer.UserID); err != nil {
			s.logger.WarnContext(ctx, "failed to record view", "post_id", post.ID, "err", err)
		} else {
			// Re-read so the returned counters reflect the new view set.
			return s.postRepo.GetByID(ctx, post.ID, viewer.UserID)
		}
	}
	return post, nil
}

// UpdatePost edits a post's content. Any edit resets the post to pending and
// re-runs moderation, closing the approve-then-edit loophole. A concurrent
// reviewer or editor on the same post loses with a Conflict.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.Author.UserID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != in.Author.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}
	if err := validateContent(in.Content, maxPostLen); err != nil {
		return nil, err
	}
	if !canTransition(post.Status, models.StatusPending) {
		return nil, models.NewConflictError("post cannot be edited in its current state")
	}

	wasFlagged := post.Status == models.StatusFlagged

	post.Content = strings.TrimSpace(in.Content)
	post.MediaURL = in.MediaURL
	post.MediaCaption = in.MediaCaption

	verdict := s.moderator.Classify(ctx, post.Content, in.Author.Role)
	post.Status = statusForVerdict(verdict)
	post.Moderation = recordFromVerdict(verdict, time.Now().UTC())

	if err := s.postRepo.SaveModerated(ctx, post); err != nil {
		return nil, err
	}

	// The old queue entry belongs to the pre-edit content.
	if wasFlagged {
		if err := s.reviewRepo.Remove(ctx, post.ID); err != nil {
			s.logger.WarnContext(ctx, "failed to drop stale review item", "post_id", post.ID, "err", err)
		}
	}
	if post.Status == models.StatusFlagged {
		if err := s.enqueueForReview(ctx, post, verdict.Emergency); err != nil {
			return nil, err
		}
	}

	return post, nil
}

// DeletePost hard-deletes a post. Authors may delete their own posts;
// institution reviewers may delete any post in their scope.
func (s *PostService) DeletePost(ctx context.Context, postID uint, actor models.Author) error {
	post, err := s.postRepo.GetByID(ctx, postID, actor.UserID)
	if err != nil {
		return err
	}
	if post.AuthorID != actor.UserID && !actor.Reviewer(post.InstitutionID) {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

func (s *PostService) enqueueForReview(ctx context.Context, post *models.Post, emergency bool) error {
	if err := s.reviewRepo.Enqueue(ctx, &models.ReviewItem{
		PostID:        post.ID,
		InstitutionID: post.InstitutionID,
		Emergency:     emergency,
	}); err != nil {
		return err
	}
	s.notifier.NotifyAsync(post.AuthorID, "post_held",
		"Your post was held for review by your school.",
		map[string]any{"post_id": post.ID})
	return nil
}

func (s *PostService) lookup(ctx context.Context, idOrPermalink string, viewerID uint) (*models.Post, error) {
	if id, err := strconv.ParseUint(idOrPermalink, 10, 64); err == nil {
		return s.postRepo.GetByID(ctx, uint(id), viewerID)
	}
	return s.postRepo.GetByPermalink(ctx, idOrPermalink, viewerID)
}

// validateContent enforces the submission gate bounds. Length is measured in
// characters, not bytes.
func validateContent(content string, maxLen int) error {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(trimmed) > maxLen {
		return models.NewValidationError("Content too long (max " + strconv.Itoa(maxLen) + " characters)")
	}
	return nil
}
