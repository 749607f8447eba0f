package service

import (
	"context"
	"errors"
	"testing"

	"campusboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// notifRepoStub is a stub for repository.NotificationRepository.
type notifRepoStub struct {
	createFn          func(context.Context, *models.Notification) error
	listByRecipientFn func(context.Context, uint) ([]*models.Notification, error)
	countUnreadFn     func(context.Context, uint) (int64, error)
	markReadFn        func(context.Context, uint, uint) error
	markAllReadFn     func(context.Context, uint) error
}

func (s *notifRepoStub) Create(ctx context.Context, n *models.Notification) error {
	return s.createFn(ctx, n)
}
func (s *notifRepoStub) ListByRecipient(ctx context.Context, recipientID uint) ([]*models.Notification, error) {
	return s.listByRecipientFn(ctx, recipientID)
}
func (s *notifRepoStub) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	return s.countUnreadFn(ctx, recipientID)
}
func (s *notifRepoStub) MarkRead(ctx context.Context, id, recipientID uint) error {
	return s.markReadFn(ctx, id, recipientID)
}
func (s *notifRepoStub) MarkAllRead(ctx context.Context, recipientID uint) error {
	return s.markAllReadFn(ctx, recipientID)
}

func noopNotifRepo() *notifRepoStub {
	return &notifRepoStub{
		createFn: func(_ context.Context, n *models.Notification) error {
			n.ID = 1
			return nil
		},
		listByRecipientFn: func(_ context.Context, _ uint) ([]*models.Notification, error) { return nil, nil },
		countUnreadFn:     func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		markReadFn:        func(_ context.Context, _, _ uint) error { return nil },
		markAllReadFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

// recordingNotifService returns a notification service whose stored
// notifications are appended to the returned slice pointer.
func recordingNotifService() (*NotificationService, *[]*models.Notification) {
	var stored []*models.Notification
	repo := noopNotifRepo()
	repo.createFn = func(_ context.Context, n *models.Notification) error {
		n.ID = uint(len(stored) + 1)
		stored = append(stored, n)
		return nil
	}
	return NewNotificationService(repo, nil), &stored
}

func TestNotificationService_Dispatch_SelfSuppressed(t *testing.T) {
	t.Parallel()

	repo := noopNotifRepo()
	created := false
	repo.createFn = func(_ context.Context, _ *models.Notification) error {
		created = true
		return nil
	}
	svc := NewNotificationService(repo, nil)

	err := svc.Dispatch(context.Background(), DispatchInput{
		RecipientID: 7,
		SenderID:    7,
		Type:        models.NotificationComment,
	})
	require.NoError(t, err)
	assert.False(t, created, "self-notification must not be stored")
}

func TestNotificationService_Dispatch_Stores(t *testing.T) {
	t.Parallel()

	svc, stored := recordingNotifService()
	postID := uint(3)

	err := svc.Dispatch(context.Background(), DispatchInput{
		RecipientID: 1,
		SenderID:    2,
		Type:        models.NotificationUpvote,
		PostID:      &postID,
	})
	require.NoError(t, err)
	require.Len(t, *stored, 1)

	n := (*stored)[0]
	assert.Equal(t, uint(1), n.RecipientID)
	assert.Equal(t, uint(2), n.SenderID)
	assert.Equal(t, models.NotificationUpvote, n.Type)
	require.NotNil(t, n.PostID)
	assert.Equal(t, postID, *n.PostID)
	assert.False(t, n.Read)
}

func TestNotificationService_Dispatch_CreateErrorPropagates(t *testing.T) {
	t.Parallel()

	repoErr := errors.New("insert failed")
	repo := noopNotifRepo()
	repo.createFn = func(_ context.Context, _ *models.Notification) error { return repoErr }
	svc := NewNotificationService(repo, nil)

	err := svc.Dispatch(context.Background(), DispatchInput{RecipientID: 1, SenderID: 2, Type: models.NotificationReply})
	assert.ErrorIs(t, err, repoErr)
}

func TestNotificationService_Inbox(t *testing.T) {
	t.Parallel()

	repo := noopNotifRepo()
	repo.listByRecipientFn = func(_ context.Context, recipientID uint) ([]*models.Notification, error) {
		assert.Equal(t, uint(9), recipientID)
		return []*models.Notification{{ID: 5}, {ID: 4}}, nil
	}
	repo.countUnreadFn = func(_ context.Context, _ uint) (int64, error) { return 42, nil }
	svc := NewNotificationService(repo, nil)

	inbox, err := svc.Inbox(context.Background(), 9)
	require.NoError(t, err)
	assert.Len(t, inbox.Notifications, 2)
	// The badge count is independent of the returned page.
	assert.Equal(t, int64(42), inbox.UnreadCount)
}

func TestNotificationService_MarkRead_PassesRecipientScope(t *testing.T) {
	t.Parallel()

	repo := noopNotifRepo()
	var gotID, gotRecipient uint
	repo.markReadFn = func(_ context.Context, id, recipientID uint) error {
		gotID, gotRecipient = id, recipientID
		return nil
	}
	svc := NewNotificationService(repo, nil)

	require.NoError(t, svc.MarkRead(context.Background(), 7, 31))
	assert.Equal(t, uint(31), gotID)
	assert.Equal(t, uint(7), gotRecipient)
}
