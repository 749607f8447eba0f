package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetNotifications returns the newest page of the caller's inbox together
// with their total unread count (protected)
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	inbox, err := s.notificationService.Inbox(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(inbox)
}

// MarkNotificationRead marks one of the caller's notifications as read.
// Marking a notification that is not yours, already read, or missing is a
// silent no-op.
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	notificationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.notificationService.MarkRead(ctx, userID, notificationID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead clears the caller's entire unread backlog (protected)
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	if err := s.notificationService.MarkAllRead(ctx, userID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "All notifications marked as read"})
}
