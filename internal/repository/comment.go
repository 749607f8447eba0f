package repository

import (
	"context"

	"campusboard/internal/cache"
	"campusboard/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint, currentUserID uint) ([]*models.Comment, error)
	Delete(ctx context.Context, comment *models.Comment) error
	Upvote(ctx context.Context, userID, commentID uint) (bool, error)
	RemoveUpvote(ctx context.Context, userID, commentID uint) error
	CountUpvotes(ctx context.Context, commentID uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Create(comment).Error
	if err == nil {
		cache.InvalidatePost(ctx, comment.PostID)
	}
	return err
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost returns the post's comments in creation order, the order the
// tree builder relies on for sibling ordering.
func (r *commentRepository) ListByPost(
	ctx context.Context,
	postID uint,
	currentUserID uint,
) ([]*models.Comment, error) {
	selectQuery := "comments.*, " +
		"(SELECT COUNT(*) FROM comment_upvotes WHERE comment_upvotes.comment_id = comments.id) as upvotes_count"
	db := r.db.WithContext(ctx)
	if currentUserID != 0 {
		db = db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM comment_upvotes WHERE comment_upvotes.comment_id = comments.id AND comment_upvotes.user_id = ?) as upvoted",
			currentUserID)
	} else {
		db = db.Select(selectQuery + ", false as upvoted")
	}

	var comments []*models.Comment
	err := db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at asc, id asc").
		Find(&comments).Error
	return comments, err
}

// Delete removes the comment, its upvotes, and — when it was the post's
// accepted answer — clears the solved state, all in one transaction. The
// conditional UPDATE keyed on accepted_answer_id covers the accepted case
// without a separate read.
func (r *commentRepository) Delete(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", comment.ID).Delete(&models.CommentUpvote{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).
			Where("id = ? AND accepted_answer_id = ?", comment.PostID, comment.ID).
			UpdateColumns(map[string]interface{}{
				"solved":             false,
				"accepted_answer_id": nil,
			}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, comment.ID).Error
	})
	if err == nil {
		cache.InvalidatePost(ctx, comment.PostID)
	}
	return err
}

// Upvote inserts the membership row with ON CONFLICT DO NOTHING. Returns
// whether the row was actually added.
func (r *commentRepository) Upvote(ctx context.Context, userID, commentID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.CommentUpvote{UserID: userID, CommentID: commentID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *commentRepository) RemoveUpvote(ctx context.Context, userID, commentID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND comment_id = ?", userID, commentID).
		Delete(&models.CommentUpvote{}).Error
}

func (r *commentRepository) CountUpvotes(ctx context.Context, commentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CommentUpvote{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	return count, err
}
