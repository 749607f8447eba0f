package server

import (
	"campusboard/internal/models"
	"campusboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile returns the caller's profile with their authored posts (protected)
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	profile, err := s.userService.GetProfile(ctx, userID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// GetUserProfile returns another user's profile (public). A bearer token,
// when present, fills in the viewer's upvote state on the profile's posts.
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	currentUserID, _ := s.optionalUserID(c)

	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, svcErr := s.userService.GetProfile(ctx, userID, currentUserID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(profile)
}

// UpdateMyProfile updates the caller's display name and bio (protected)
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Name string  `json:"name"`
		Bio  *string `json:"bio"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(ctx, service.UpdateProfileInput{
		UserID: userID,
		Name:   req.Name,
		Bio:    req.Bio,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(user)
}

// ToggleBookmark flips the caller's bookmark on a post (protected)
func (s *Server) ToggleBookmark(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, svcErr := s.userService.ToggleBookmark(ctx, userID, postID)
	if svcErr != nil {
		return respondServiceError(c, svcErr)
	}

	return c.JSON(result)
}

// GetMyBookmarks returns the caller's bookmarked posts, newest bookmark first (protected)
func (s *Server) GetMyBookmarks(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	posts, err := s.userService.ListBookmarks(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}
