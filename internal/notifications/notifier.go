// Package notifications provides fire-and-forget notification delivery over
// Redis pub/sub. Delivery is best-effort: a notification failure never fails
// the operation that produced it.
package notifications

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"campus/internal/observability"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "notifications:user:"

// Notification is the payload published to a user's channel.
type Notification struct {
	RecipientID uint           `json:"recipient_id"`
	Type        string         `json:"type"`
	Message     string         `json:"message"`
	Related     map[string]any `json:"related,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Notifier publishes notifications to per-user Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier wraps the given Redis client. A nil client yields a notifier
// that silently drops everything, which keeps callers unconditional.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Channel returns the pub/sub channel name for a user.
func Channel(userID uint) string {
	return channelPrefix + strconv.FormatUint(uint64(userID), 10)
}

// NotifyAsync publishes in a detached goroutine and returns immediately.
// The publish uses its own deadline so it cannot be cancelled by the request
// that triggered it.
func (n *Notifier) NotifyAsync(recipientID uint, notifType, message string, related map[string]any) {
	if n == nil || n.rdb == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		payload, err := json.Marshal(Notification{
			RecipientID: recipientID,
			Type:        notifType,
			Message:     message,
			Related:     related,
			CreatedAt:   time.Now().UTC(),
		})
		if err != nil {
			observability.Logger.Warn("failed to marshal notification", "type", notifType, "err", err)
			return
		}

		if err := n.rdb.Publish(ctx, Channel(recipientID), payload).Err(); err != nil {
			observability.RedisErrorRate.WithLabelValues("publish").Inc()
			observability.Logger.Warn("failed to publish notification",
				"recipient_id", recipientID, "type", notifType, "err", err)
		}
	}()
}
