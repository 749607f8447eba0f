package server

import (
	"campusboard/internal/models"
	"campusboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment creates a comment on a post, optionally as a reply to
// another comment (protected)
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content         string `json:"content"`
		ParentCommentID *uint  `json:"parent_comment_id"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		UserID:          userID,
		PostID:          postID,
		ParentCommentID: req.ParentCommentID,
		Content:         req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments returns a post's comments as a nested tree (public)
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.UserContext()
	currentUserID, _ := s.optionalUserID(c)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID, currentUserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(service.BuildCommentTree(comments))
}

// DeleteComment removes a comment (author or admin)
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(ctx, service.DeleteCommentInput{
		UserID:    userID,
		CommentID: commentID,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Comment deleted"})
}

// ToggleCommentUpvote flips the caller's upvote on a comment (protected)
func (s *Server) ToggleCommentUpvote(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.commentService.ToggleCommentUpvote(ctx, userID, commentID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(result)
}
