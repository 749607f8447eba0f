// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"strings"

	"campusboard/internal/cache"
	"campusboard/internal/models"
	"campusboard/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListPostsQuery captures browse filters for the post index.
type ListPostsQuery struct {
	Search   string
	Category uint
	Tag      string
	Limit    int
	Offset   int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, currentUserID uint) ([]*models.Post, error)
	List(ctx context.Context, q ListPostsQuery, currentUserID uint) ([]*models.Post, int64, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	IncrementViews(ctx context.Context, id uint) error
	SetPinned(ctx context.Context, id uint, pinned bool) error
	SetAcceptedAnswer(ctx context.Context, id uint, commentID *uint) error
	Upvote(ctx context.Context, userID, postID uint) (bool, error)
	RemoveUpvote(ctx context.Context, userID, postID uint) error
	CountUpvotes(ctx context.Context, postID uint) (int64, error)
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	defer observability.TrackQuery("read", "posts")()

	var post models.Post

	// Anonymous reads share one cache entry; authenticated reads carry the
	// per-user Upvoted flag and bypass the cache.
	if currentUserID == 0 {
		err := cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
			return r.applyPostDetails(r.db.WithContext(ctx), 0).
				Preload("User").
				Preload("Category").
				First(&post, id).Error
		})
		if err != nil {
			return nil, err
		}
		return &post, nil
	}

	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Category").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Preload("Category").
		Where("posts.user_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) List(ctx context.Context, q ListPostsQuery, currentUserID uint) ([]*models.Post, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Post{})

	if q.Search != "" {
		like := "%" + q.Search + "%"
		base = base.Where("title LIKE ? OR content LIKE ?", like, like)
	}
	if q.Category != 0 {
		base = base.Where("category_id = ?", q.Category)
	}
	if q.Tag != "" {
		// Tags are a JSON array of lowercase strings; match the quoted element.
		base = base.Where("tags LIKE ?", "%\""+strings.ToLower(q.Tag)+"\"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err := r.applyPostDetails(base, currentUserID).
		Preload("User").
		Preload("Category").
		Order("created_at DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// applyPostDetails adds subqueries to fetch counts and upvoted status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) as comments_count, " +
		"(SELECT COUNT(*) FROM post_upvotes WHERE post_upvotes.post_id = posts.id) as upvotes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM post_upvotes WHERE post_upvotes.post_id = posts.id AND post_upvotes.user_id = ?) as upvoted",
			currentUserID)
	}

	return db.Select(selectQuery + ", false as upvoted")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// Delete removes the post and everything hanging off it in one transaction:
// upvotes of its comments, the comments themselves, the post's own upvotes
// and bookmarks, then the post row. A failure anywhere rolls the whole
// cascade back, so no orphan comments can survive a post delete.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id IN (?)",
			tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", id),
		).Delete(&models.CommentUpvote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostUpvote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) IncrementViews(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err == nil {
		cache.InvalidatePost(ctx, id)
	}
	return err
}

func (r *postRepository) SetPinned(ctx context.Context, id uint, pinned bool) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("pinned", pinned).Error
	if err == nil {
		cache.InvalidatePost(ctx, id)
	}
	return err
}

// SetAcceptedAnswer writes solved and accepted_answer_id in a single UPDATE
// so the pair can never be observed out of sync.
func (r *postRepository) SetAcceptedAnswer(ctx context.Context, id uint, commentID *uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"solved":             commentID != nil,
			"accepted_answer_id": commentID,
		}).Error
	if err == nil {
		cache.InvalidatePost(ctx, id)
	}
	return err
}

// Upvote inserts the membership row with ON CONFLICT DO NOTHING so two
// concurrent toggles by the same user cannot double-insert. Returns whether
// the row was actually added.
func (r *postRepository) Upvote(ctx context.Context, userID, postID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.PostUpvote{UserID: userID, PostID: postID})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		cache.InvalidatePost(ctx, postID)
	}
	return res.RowsAffected > 0, nil
}

func (r *postRepository) RemoveUpvote(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.PostUpvote{}).Error
	if err == nil {
		cache.InvalidatePost(ctx, postID)
	}
	return err
}

func (r *postRepository) CountUpvotes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PostUpvote{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *postRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}
