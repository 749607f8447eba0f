package service

import (
	"context"
	"errors"
	"strings"

	"campusboard/internal/models"
	"campusboard/internal/repository"

	"gorm.io/gorm"
)

const maxCategoryNameLen = 50

// CategoryService handles the category catalogue. Creation and deletion
// are admin operations; listing is public.
type CategoryService struct {
	categoryRepo repository.CategoryRepository
	postRepo     repository.PostRepository
	isAdmin      func(ctx context.Context, userID uint) (bool, error)
}

func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	postRepo repository.PostRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		postRepo:     postRepo,
		isAdmin:      isAdmin,
	}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx)
}

type CreateCategoryInput struct {
	UserID      uint
	Name        string
	Description string
}

// CreateCategory adds a category with a case-insensitively unique name.
func (s *CategoryService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	if err := s.requireAdmin(ctx, in.UserID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}
	if len(name) > maxCategoryNameLen {
		return nil, models.NewValidationError("Name too long (max 50 characters)")
	}

	if _, err := s.categoryRepo.FindByName(ctx, name); err == nil {
		return nil, models.NewConflictError("Category already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &models.Category{Name: name, Description: strings.TrimSpace(in.Description)}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Category already exists")
		}
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes an empty category. A category with posts still
// filed under it is rejected so no post is ever left pointing at a
// missing category.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, categoryID uint) error {
	if err := s.requireAdmin(ctx, userID); err != nil {
		return err
	}

	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Category", categoryID)
		}
		return err
	}

	count, err := s.postRepo.CountByCategory(ctx, categoryID)
	if err != nil {
		return err
	}
	if count > 0 {
		return models.NewConflictError("Category still has posts")
	}

	return s.categoryRepo.Delete(ctx, categoryID)
}

func (s *CategoryService) requireAdmin(ctx context.Context, userID uint) error {
	if s.isAdmin == nil {
		return models.NewUnauthorizedError("Admin access required")
	}
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewUnauthorizedError("Admin access required")
	}
	return nil
}
