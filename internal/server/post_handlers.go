package server

import (
	"campusboard/internal/models"
	"campusboard/internal/repository"
	"campusboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts returns one page of the post index (public). Anonymous viewers
// get Upvoted=false on every post; a valid bearer token fills in the
// viewer's own upvote state.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	currentUserID, _ := s.optionalUserID(c)

	pagination := parsePagination(c, 20)
	query := repository.ListPostsQuery{
		Search:   c.Query("search"),
		Category: uint(c.QueryInt("category", 0)),
		Tag:      c.Query("tag"),
		Limit:    pagination.Limit,
		Offset:   pagination.Offset,
	}

	page, err := s.postService.ListPosts(ctx, query, currentUserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(page)
}

// GetPost returns a post with its full comment tree (public) and counts the view.
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	currentUserID, _ := s.optionalUserID(c)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.postService.GetPostDetail(ctx, postID, currentUserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(detail)
}

// GetUserPosts returns a user's authored posts, newest first (public).
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	currentUserID, _ := s.optionalUserID(c)

	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	posts, err := s.postService.GetUserPosts(ctx, userID, currentUserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// CreatePost creates a new post (protected)
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Title      string   `json:"title"`
		Content    string   `json:"content"`
		CategoryID uint     `json:"category_id"`
		Tags       []string `json:"tags"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		UserID:     userID,
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		Tags:       req.Tags,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost updates a post's fields (author only)
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title      string   `json:"title"`
		Content    string   `json:"content"`
		CategoryID uint     `json:"category_id"`
		Tags       []string `json:"tags"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(ctx, service.UpdatePostInput{
		UserID:     userID,
		PostID:     postID,
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		Tags:       req.Tags,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// DeletePost removes a post (author or admin)
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(ctx, service.DeletePostInput{
		UserID: userID,
		PostID: postID,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// TogglePostUpvote flips the caller's upvote on a post (protected)
func (s *Server) TogglePostUpvote(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result, err := s.postService.TogglePostUpvote(ctx, userID, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(result)
}

// TogglePinned flips a post's pinned flag (admin only)
func (s *Server) TogglePinned(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.TogglePinned(ctx, userID, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// ToggleAcceptedAnswer marks or unmarks a comment as the post's accepted
// answer (post author only). Accepting the already-accepted comment clears
// the mark; accepting a different comment moves it.
func (s *Server) ToggleAcceptedAnswer(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	post, err := s.postService.ToggleAcceptedAnswer(ctx, userID, postID, commentID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}
