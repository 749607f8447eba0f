package repository

import (
	"context"

	"campusboard/internal/cache"
	"campusboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	AddBookmark(ctx context.Context, userID, postID uint) (bool, error)
	RemoveBookmark(ctx context.Context, userID, postID uint) error
	ListBookmarkedPosts(ctx context.Context, userID uint) ([]*models.Post, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// AddBookmark inserts the bookmark row with ON CONFLICT DO NOTHING.
// Returns whether the row was actually added.
func (r *userRepository) AddBookmark(ctx context.Context, userID, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Bookmark{UserID: userID, PostID: postID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userRepository) RemoveBookmark(ctx context.Context, userID, postID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Bookmark{}).Error
}

// ListBookmarkedPosts returns the user's saved posts, most recently
// bookmarked first.
func (r *userRepository) ListBookmarkedPosts(ctx context.Context, userID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("posts.*").
		Joins("JOIN bookmarks ON bookmarks.post_id = posts.id").
		Where("bookmarks.user_id = ?", userID).
		Order("bookmarks.created_at DESC").
		Preload("User").
		Preload("Category").
		Find(&posts).Error
	return posts, err
}
