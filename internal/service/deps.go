// Package service implements the moderation-and-publication pipeline on top
// of the repository layer.
package service

import (
	"context"
	"time"

	"campus/internal/moderation"
	"campus/internal/models"
)

// Moderator produces a verdict for submitted content. It never fails; the
// moderation package absorbs classifier faults into safe-default verdicts.
type Moderator interface {
	Classify(ctx context.Context, content string, role models.Role) moderation.Verdict
}

// Notifier dispatches fire-and-forget notifications. Implementations must
// never block the caller or fail the triggering operation.
type Notifier interface {
	NotifyAsync(recipientID uint, notifType, message string, related map[string]any)
}

// noopNotifier is used when no notification sink is configured.
type noopNotifier struct{}

func (noopNotifier) NotifyAsync(uint, string, string, map[string]any) {}

// recordFromVerdict converts a moderation verdict into the persisted record
// for this automated pass. Reviewer fields stay empty until a human decides.
func recordFromVerdict(v moderation.Verdict, now time.Time) models.ModerationRecord {
	return models.ModerationRecord{
		Source:      v.Source,
		Flag:        string(v.Flag),
		Confidence:  v.Confidence,
		Reason:      v.Reason,
		ModeratedAt: &now,
	}
}

// statusForVerdict maps a verdict onto the publication state machine.
func statusForVerdict(v moderation.Verdict) models.PostStatus {
	if v.Flag == moderation.Green {
		return models.StatusApproved
	}
	return models.StatusFlagged
}
