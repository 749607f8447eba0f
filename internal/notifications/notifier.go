// Package notifications publishes notification events to Redis channels so
// interested consumers (a future websocket gateway, the web client's
// poller) can react without re-querying the inbox.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"campusboard/internal/models"

	"github.com/redis/go-redis/v9"
)

// Event is the wire shape published for every stored notification.
type Event struct {
	ID          uint      `json:"id"`
	RecipientID uint      `json:"recipient_id"`
	SenderID    uint      `json:"sender_id"`
	Type        string    `json:"type"`
	PostID      *uint     `json:"post_id,omitempty"`
	CommentID   *uint     `json:"comment_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Notifier provides helpers to publish notification events into Redis channels.
// All methods are nil-client safe: without Redis, publishing is a silent no-op
// because delivery is best-effort by contract.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// UserChannel returns the pub/sub channel for one recipient's events.
func UserChannel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// PublishNotification publishes the stored notification to its recipient's channel.
func (n *Notifier) PublishNotification(ctx context.Context, notif *models.Notification) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	payload, err := json.Marshal(Event{
		ID:          notif.ID,
		RecipientID: notif.RecipientID,
		SenderID:    notif.SenderID,
		Type:        notif.Type,
		PostID:      notif.PostID,
		CommentID:   notif.CommentID,
		CreatedAt:   notif.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}
	return n.rdb.Publish(ctx, UserChannel(notif.RecipientID), payload).Err()
}

// StartPatternSubscriber subscribes to `notifications:user:*` and calls
// onMessage for each incoming message. onMessage receives channel and payload.
func (n *Notifier) StartPatternSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n == nil || n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, "notifications:user:*")
	// Confirm the subscription before returning so events published after
	// this call cannot be missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							slog.Error("panic in notification subscriber",
								slog.Any("panic", r),
								slog.String("stack", string(debug.Stack())))
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}
