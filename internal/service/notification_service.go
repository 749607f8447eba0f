package service

import (
	"context"

	"campusboard/internal/models"
	"campusboard/internal/notifications"
	"campusboard/internal/observability"
	"campusboard/internal/repository"
)

// NotificationService owns the notification lifecycle: dispatch on user
// actions, inbox reads, and read-state transitions.
type NotificationService struct {
	notifRepo repository.NotificationRepository
	notifier  *notifications.Notifier
}

// DispatchInput describes one notification to record and publish.
type DispatchInput struct {
	RecipientID uint
	SenderID    uint
	Type        string
	PostID      *uint
	CommentID   *uint
}

// InboxView is one page of a user's inbox plus the unbounded unread count.
type InboxView struct {
	Notifications []*models.Notification `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}

func NewNotificationService(
	notifRepo repository.NotificationRepository,
	notifier *notifications.Notifier,
) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
		notifier:  notifier,
	}
}

// Dispatch records a notification and publishes it to the recipient's
// channel. Users never notify themselves: when recipient and sender match,
// nothing is written and no error is returned.
//
// Publishing is best-effort. A Redis failure after the row is stored is
// logged and counted, never propagated, so the action that triggered the
// notification cannot fail on delivery.
func (s *NotificationService) Dispatch(ctx context.Context, in DispatchInput) error {
	if in.RecipientID == in.SenderID {
		return nil
	}

	notification := &models.Notification{
		RecipientID: in.RecipientID,
		SenderID:    in.SenderID,
		Type:        in.Type,
		PostID:      in.PostID,
		CommentID:   in.CommentID,
	}
	if err := s.notifRepo.Create(ctx, notification); err != nil {
		observability.NotificationDispatchFailures.WithLabelValues(in.Type).Inc()
		return err
	}
	observability.NotificationsDispatched.WithLabelValues(in.Type).Inc()

	if err := s.notifier.PublishNotification(ctx, notification); err != nil {
		observability.LogAsyncOperationError(ctx, "notification_publish", err, map[string]interface{}{
			"notification_id": notification.ID,
			"recipient_id":    in.RecipientID,
			"type":            in.Type,
		})
	}
	return nil
}

// Inbox returns the recipient's most recent notifications alongside the
// total unread count. The count is computed over the whole inbox, not the
// returned page, so a badge can exceed the page size.
func (s *NotificationService) Inbox(ctx context.Context, recipientID uint) (*InboxView, error) {
	list, err := s.notifRepo.ListByRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifRepo.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	return &InboxView{Notifications: list, UnreadCount: unread}, nil
}

// MarkRead marks one of the caller's notifications read. Targeting a
// notification that does not exist or belongs to someone else is a silent
// no-op, so the endpoint leaks nothing about other users' inboxes.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID, notificationID uint) error {
	return s.notifRepo.MarkRead(ctx, notificationID, recipientID)
}

// MarkAllRead marks every unread notification of the caller read.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uint) error {
	return s.notifRepo.MarkAllRead(ctx, recipientID)
}

// logDispatchFailure records a swallowed dispatch error. The triggering
// write has already succeeded by the time dispatch runs, so callers log
// and move on.
func logDispatchFailure(ctx context.Context, trigger string, subjectID uint, err error) {
	observability.LogAsyncOperationError(ctx, "notification_dispatch", err, map[string]interface{}{
		"trigger":    trigger,
		"subject_id": subjectID,
	})
}
