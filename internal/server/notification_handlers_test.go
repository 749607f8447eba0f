package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"campusboard/internal/models"
	"campusboard/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotification(t *testing.T, s *Server, recipientID, senderID uint) *models.Notification {
	t.Helper()
	notif := &models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        models.NotificationUpvote,
	}
	require.NoError(t, s.db.Create(notif).Error)
	return notif
}

func TestGetNotificationsHandler(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	recipient := createUser(t, s.db, "recipient", models.RoleStudent)
	sender := createUser(t, s.db, "sender", models.RoleStudent)

	seedNotification(t, s, recipient.ID, sender.ID)
	seedNotification(t, s, recipient.ID, sender.ID)
	// Someone else's notification must not leak into this inbox.
	seedNotification(t, s, sender.ID, recipient.ID)

	app := fiber.New()
	app.Get("/notifications", asUser(recipient.ID), s.GetNotifications)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/notifications", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	inbox := decodeBody[service.InboxView](t, resp)
	assert.Len(t, inbox.Notifications, 2)
	assert.Equal(t, int64(2), inbox.UnreadCount)
}

func TestMarkNotificationReadHandler(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	recipient := createUser(t, s.db, "recipient", models.RoleStudent)
	sender := createUser(t, s.db, "sender", models.RoleStudent)
	notif := seedNotification(t, s, recipient.ID, sender.ID)

	markApp := func(userID uint) *fiber.App {
		app := fiber.New()
		app.Put("/notifications/:id/read", asUser(userID), s.MarkNotificationRead)
		return app
	}
	url := fmt.Sprintf("/notifications/%d/read", notif.ID)

	t.Run("someone else's mark is a silent no-op", func(t *testing.T) {
		resp, err := markApp(sender.ID).Test(httptest.NewRequest(http.MethodPut, url, nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var fresh models.Notification
		require.NoError(t, s.db.First(&fresh, notif.ID).Error)
		assert.False(t, fresh.Read)
	})

	t.Run("recipient marks read", func(t *testing.T) {
		resp, err := markApp(recipient.ID).Test(httptest.NewRequest(http.MethodPut, url, nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var fresh models.Notification
		require.NoError(t, s.db.First(&fresh, notif.ID).Error)
		assert.True(t, fresh.Read)
	})
}

func TestMarkAllNotificationsReadHandler(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	recipient := createUser(t, s.db, "recipient", models.RoleStudent)
	sender := createUser(t, s.db, "sender", models.RoleStudent)
	seedNotification(t, s, recipient.ID, sender.ID)
	seedNotification(t, s, recipient.ID, sender.ID)
	other := seedNotification(t, s, sender.ID, recipient.ID)

	app := fiber.New()
	app.Put("/notifications/read-all", asUser(recipient.ID), s.MarkAllNotificationsRead)

	resp, err := app.Test(httptest.NewRequest(http.MethodPut, "/notifications/read-all", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var unread int64
	s.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipient.ID, false).Count(&unread)
	assert.Equal(t, int64(0), unread)

	// The other user's backlog is untouched.
	var fresh models.Notification
	require.NoError(t, s.db.First(&fresh, other.ID).Error)
	assert.False(t, fresh.Read)
}
