package service

import (
	"campus/internal/models"
)

// allowedTransitions is the publication state machine. Automation moves a
// pending post to approved or flagged; only a recorded human decision moves a
// flagged post onward. The edges back to pending are the author-edit reset,
// which forces a fresh moderation pass. There is no automatic edge from
// approved to flagged. Deletion is a hard delete, not a state.
var allowedTransitions = map[models.PostStatus][]models.PostStatus{
	models.StatusPending:  {models.StatusApproved, models.StatusFlagged},
	models.StatusApproved: {models.StatusPending},
	models.StatusFlagged:  {models.StatusApproved, models.StatusRejected, models.StatusPending},
	models.StatusRejected: {models.StatusPending},
}

func canTransition(from, to models.PostStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
