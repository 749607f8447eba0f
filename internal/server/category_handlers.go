package server

import (
	"campusboard/internal/models"
	"campusboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCategories returns all categories sorted by name (public)
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.ListCategories(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(categories)
}

// CreateCategory adds a new category (admin only)
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.CreateCategory(ctx, service.CreateCategoryInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

// DeleteCategory removes an empty category (admin only). Categories that
// still have posts filed under them are rejected with 409.
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	categoryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.categoryService.DeleteCategory(ctx, userID, categoryID); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Category deleted"})
}
