package service

import (
	"context"
	"errors"
	"strings"

	"campusboard/internal/models"
	"campusboard/internal/repository"

	"gorm.io/gorm"
)

const (
	maxTitleLen   = 300
	maxContentLen = 50000
	maxTags       = 5
)

// PostService handles the post lifecycle: creation, browsing, the detail
// view with its comment tree, and the moderation-adjacent toggles (upvote,
// pin, accepted answer).
type PostService struct {
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	categoryRepo repository.CategoryRepository
	notifSvc     *NotificationService
	isAdmin      func(ctx context.Context, userID uint) (bool, error)
}

type CreatePostInput struct {
	UserID     uint
	Title      string
	Content    string
	CategoryID uint
	Tags       []string
}

type UpdatePostInput struct {
	UserID     uint
	PostID     uint
	Title      string
	Content    string
	CategoryID uint
	Tags       []string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

// PostDetail is a post plus its full comment forest.
type PostDetail struct {
	Post     *models.Post          `json:"post"`
	Comments []*models.CommentNode `json:"comments"`
}

// PostPage is one page of the post index.
type PostPage struct {
	Posts []*models.Post `json:"posts"`
	Total int64          `json:"total"`
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	categoryRepo repository.CategoryRepository,
	notifSvc *NotificationService,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		categoryRepo: categoryRepo,
		notifSvc:     notifSvc,
		isAdmin:      isAdmin,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	if _, err := s.categoryRepo.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewValidationError("Category does not exist")
		}
		return nil, err
	}

	tags, err := normalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:      in.Title,
		Content:    in.Content,
		UserID:     in.UserID,
		CategoryID: in.CategoryID,
		Tags:       tags,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// ListPosts returns one page of the index with browse filters applied.
func (s *PostService) ListPosts(ctx context.Context, q repository.ListPostsQuery, currentUserID uint) (*PostPage, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	posts, total, err := s.postRepo.List(ctx, q, currentUserID)
	if err != nil {
		return nil, err
	}
	return &PostPage{Posts: posts, Total: total}, nil
}

// GetPostDetail loads the post, bumps its view counter, and assembles the
// full comment tree. The view increment is fire-and-forget relative to the
// returned snapshot: the counter the caller sees may lag by one.
func (s *PostService) GetPostDetail(ctx context.Context, postID, currentUserID uint) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, postID, currentUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}

	if err := s.postRepo.IncrementViews(ctx, postID); err != nil {
		return nil, err
	}
	post.Views++

	comments, err := s.commentRepo.ListByPost(ctx, postID, currentUserID)
	if err != nil {
		return nil, err
	}

	return &PostDetail{
		Post:     post,
		Comments: BuildCommentTree(comments),
	}, nil
}

func (s *PostService) GetUserPosts(ctx context.Context, userID, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.GetByUserID(ctx, userID, currentUserID)
}

// UpdatePost edits title, content, category, or tags. Only the author may
// edit; admins moderate through delete and pin, not silent rewrites.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, err
	}

	if post.UserID != in.UserID {
		if s.isAdmin == nil {
			return nil, models.NewUnauthorizedError("You can only update your own posts")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return nil, err
		}
		if !admin {
			return nil, models.NewUnauthorizedError("You can only update your own posts")
		}
	}

	if in.Title != "" {
		if len(in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 300 characters)")
		}
		post.Title = in.Title
	}
	if in.Content != "" {
		if len(in.Content) > maxContentLen {
			return nil, models.NewValidationError("Content too long (max 50000 characters)")
		}
		post.Content = in.Content
	}
	if in.CategoryID != 0 && in.CategoryID != post.CategoryID {
		if _, err := s.categoryRepo.GetByID(ctx, in.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewValidationError("Category does not exist")
			}
			return nil, err
		}
		post.CategoryID = in.CategoryID
	}
	if in.Tags != nil {
		tags, err := normalizeTags(in.Tags)
		if err != nil {
			return nil, err
		}
		post.Tags = tags
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, in.PostID, in.UserID)
}

// DeletePost removes a post and everything attached to it. Allowed for the
// author and for admins.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) error {
	post, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", in.PostID)
		}
		return err
	}

	if post.UserID != in.UserID {
		if s.isAdmin == nil {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
	}

	return s.postRepo.Delete(ctx, in.PostID)
}

// TogglePostUpvote adds or removes the caller's upvote and returns the
// resulting state. Adding an upvote notifies the post's author; removing
// one never does.
func (s *PostService) TogglePostUpvote(ctx context.Context, userID, postID uint) (*UpvoteResult, error) {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}

	added, err := s.postRepo.Upvote(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if !added {
		if err := s.postRepo.RemoveUpvote(ctx, userID, postID); err != nil {
			return nil, err
		}
	}

	count, err := s.postRepo.CountUpvotes(ctx, postID)
	if err != nil {
		return nil, err
	}

	if added {
		if err := s.notifSvc.Dispatch(ctx, DispatchInput{
			RecipientID: post.UserID,
			SenderID:    userID,
			Type:        models.NotificationUpvote,
			PostID:      &postID,
		}); err != nil {
			logDispatchFailure(ctx, "post_upvote", postID, err)
		}
	}

	return &UpvoteResult{UpvotesCount: count, Upvoted: added}, nil
}

// TogglePinned flips the pinned flag. Admin only.
func (s *PostService) TogglePinned(ctx context.Context, userID, postID uint) (*models.Post, error) {
	if s.isAdmin == nil {
		return nil, models.NewUnauthorizedError("Only admins can pin posts")
	}
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, models.NewUnauthorizedError("Only admins can pin posts")
	}

	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}

	if err := s.postRepo.SetPinned(ctx, postID, !post.Pinned); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, 0)
}

// ToggleAcceptedAnswer marks the comment as the post's accepted answer, or
// clears the accepted answer if the comment already holds that mark. Only
// the post's author decides; admin does not override here. The comment
// must belong to the post being solved.
func (s *PostService) ToggleAcceptedAnswer(ctx context.Context, userID, postID, commentID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}

	if post.UserID != userID {
		return nil, models.NewUnauthorizedError("Only the post author can accept an answer")
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", commentID)
		}
		return nil, err
	}
	if comment.PostID != postID {
		return nil, models.NewValidationError("Comment does not belong to this post")
	}

	if post.AcceptedAnswerID != nil && *post.AcceptedAnswerID == commentID {
		err = s.postRepo.SetAcceptedAnswer(ctx, postID, nil)
	} else {
		err = s.postRepo.SetAcceptedAnswer(ctx, postID, &commentID)
	}
	if err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, postID, 0)
}

// normalizeTags lowercases, trims, and dedups tags while preserving first
// occurrence order.
func normalizeTags(raw []string) (models.Tags, error) {
	if len(raw) > maxTags {
		return nil, models.NewValidationError("Too many tags (max 5)")
	}
	seen := make(map[string]bool, len(raw))
	tags := make(models.Tags, 0, len(raw))
	for _, t := range raw {
		tag := strings.ToLower(strings.TrimSpace(t))
		if tag == "" {
			continue
		}
		if len(tag) > 30 {
			return nil, models.NewValidationError("Tag too long (max 30 characters)")
		}
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags, nil
}
