package repository

import (
	"context"

	"campusboard/internal/models"
	"campusboard/internal/observability"

	"gorm.io/gorm"
)

// InboxLimit bounds how many notifications a single inbox fetch returns.
// The unread count deliberately ignores this bound.
const InboxLimit = 30

// NotificationRepository defines interface for notification operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID uint) ([]*models.Notification, error)
	CountUnread(ctx context.Context, recipientID uint) (int64, error)
	MarkRead(ctx context.Context, id, recipientID uint) error
	MarkAllRead(ctx context.Context, recipientID uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	defer observability.TrackQuery("create", "notifications")()
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uint) ([]*models.Notification, error) {
	var notifications []*models.Notification
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Preload("Post").
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(InboxLimit).
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flips the read flag for one notification, scoped to its
// recipient. Marking someone else's notification matches zero rows and is
// a silent no-op by contract.
func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		UpdateColumn("read", true).Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		UpdateColumn("read", true).Error
}
