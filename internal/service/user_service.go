package service

import (
	"context"
	"errors"

	"campusboard/internal/models"
	"campusboard/internal/repository"

	"gorm.io/gorm"
)

const maxBioLen = 300

// UserService handles profiles and per-user surfaces like bookmarks.
type UserService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

type UpdateProfileInput struct {
	UserID uint
	Name   string
	Bio    *string
}

// Profile is a user together with their authored posts.
type Profile struct {
	User  *models.User   `json:"user"`
	Posts []*models.Post `json:"posts"`
}

// BookmarkResult reports the post-toggle bookmark state.
type BookmarkResult struct {
	Bookmarked bool `json:"bookmarked"`
}

func NewUserService(userRepo repository.UserRepository, postRepo repository.PostRepository) *UserService {
	return &UserService{userRepo: userRepo, postRepo: postRepo}
}

// GetProfile returns the user and their posts, with upvote state computed
// for the viewing user.
func (s *UserService) GetProfile(ctx context.Context, userID, currentUserID uint) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", userID)
		}
		return nil, err
	}

	posts, err := s.postRepo.GetByUserID(ctx, userID, currentUserID)
	if err != nil {
		return nil, err
	}

	return &Profile{User: user, Posts: posts}, nil
}

// UpdateProfile edits the caller's own name and bio.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", in.UserID)
		}
		return nil, err
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Bio != nil {
		if len(*in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 300 characters)")
		}
		user.Bio = *in.Bio
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ToggleBookmark saves the post for the caller, or removes it if already
// saved. Bookmarks are private; no notification is dispatched.
func (s *UserService) ToggleBookmark(ctx context.Context, userID, postID uint) (*BookmarkResult, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}

	added, err := s.userRepo.AddBookmark(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if !added {
		if err := s.userRepo.RemoveBookmark(ctx, userID, postID); err != nil {
			return nil, err
		}
	}
	return &BookmarkResult{Bookmarked: added}, nil
}

// ListBookmarks returns the caller's saved posts, most recently saved
// first.
func (s *UserService) ListBookmarks(ctx context.Context, userID uint) ([]*models.Post, error) {
	return s.userRepo.ListBookmarkedPosts(ctx, userID)
}
