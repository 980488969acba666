package service

import (
	"context"
	"log/slog"
	"time"

	"campus/internal/models"
	"campus/internal/observability"
	"campus/internal/repository"
)

// ReviewService exposes the per-institution moderation queue to reviewers.
type ReviewService struct {
	postRepo   repository.PostRepository
	reviewRepo repository.ReviewRepository
	notifier   Notifier
	logger     *slog.Logger
}

type ResolveInput struct {
	Reviewer models.Author
	PostID   uint
	Decision string
	Reason   string
}

func NewReviewService(
	postRepo repository.PostRepository,
	reviewRepo repository.ReviewRepository,
	notifier Notifier,
) *ReviewService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &ReviewService{
		postRepo:   postRepo,
		reviewRepo: reviewRepo,
		notifier:   notifier,
		logger:     observability.Logger.With("component", "review"),
	}
}

// List returns the reviewer's pending queue, emergencies first, then oldest
// first.
func (s *ReviewService) List(ctx context.Context, reviewer models.Author, limit, offset int) ([]*models.ReviewItem, error) {
	if reviewer.Role != models.RoleInstitution {
		return nil, models.NewForbiddenError("Only institution accounts can review")
	}
	return s.reviewRepo.Pending(ctx, reviewer.InstitutionID, limit, offset)
}

// Resolve records a reviewer's decision on a held post. Each queue item
// resolves exactly once; a second resolver gets a Conflict. The decision is
// applied to the post and the author is notified.
func (s *ReviewService) Resolve(ctx context.Context, in ResolveInput) (*models.Post, error) {
	if in.Reviewer.Role != models.RoleInstitution {
		return nil, models.NewForbiddenError("Only institution accounts can review")
	}
	if in.Decision != models.DecisionApprove && in.Decision != models.DecisionReject {
		return nil, models.NewValidationError("Decision must be 'approve' or 'reject'")
	}

	item, err := s.reviewRepo.GetByPostID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if item.InstitutionID != in.Reviewer.InstitutionID {
		return nil, models.NewForbiddenError("Post belongs to another institution")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, in.Reviewer.UserID)
	if err != nil {
		return nil, err
	}

	target := models.StatusRejected
	if in.Decision == models.DecisionApprove {
		target = models.StatusApproved
	}
	if !canTransition(post.Status, target) {
		return nil, models.NewConflictError("post is no longer awaiting review")
	}

	// Claim the queue item first; losing this race means someone else already
	// resolved it.
	if err := s.reviewRepo.Resolve(ctx, in.PostID, in.Reviewer.UserID, in.Decision, in.Reason); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post.Status = target
	post.Moderation.Flag = flagForDecision(in.Decision)
	post.Moderation.Source = "review"
	post.Moderation.Confidence = 1.0
	if in.Reason != "" {
		post.Moderation.Reason = in.Reason
	}
	post.Moderation.ReviewerID = &in.Reviewer.UserID
	post.Moderation.ReviewDecision = in.Decision
	post.Moderation.ReviewedAt = &now

	if err := s.postRepo.SaveModerated(ctx, post); err != nil {
		return nil, err
	}

	observability.ReviewResolutions.WithLabelValues(in.Decision).Inc()

	message := "Your post was approved by your school."
	if in.Decision == models.DecisionReject {
		message = "Your post was rejected by your school."
	}
	s.notifier.NotifyAsync(post.AuthorID, "review_resolved", message,
		map[string]any{"post_id": post.ID, "decision": in.Decision})

	return post, nil
}

func flagForDecision(decision string) string {
	if decision == models.DecisionApprove {
		return models.FlagGreen
	}
	return models.FlagRed
}
