package service

import (
	"context"
	"errors"

	"campusboard/internal/models"
	"campusboard/internal/repository"

	"gorm.io/gorm"
)

const maxCommentLen = 10000

// CommentService handles comment creation, deletion, and upvote toggling,
// plus the notification side effects those actions trigger.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	notifSvc    *NotificationService
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

type CreateCommentInput struct {
	UserID          uint
	PostID          uint
	ParentCommentID *uint
	Content         string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

// UpvoteResult is the post-toggle state returned to the caller.
type UpvoteResult struct {
	UpvotesCount int64 `json:"upvotes_count"`
	Upvoted      bool  `json:"upvoted"`
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	notifSvc *NotificationService,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		notifSvc:    notifSvc,
		isAdmin:     isAdmin,
	}
}

// CreateComment validates and stores a comment, then notifies whoever owns
// the thing being replied to: the parent comment's author for a reply, the
// post's author for a top-level comment. The notification is dispatched
// after the comment is durable, and a dispatch failure never fails the
// creation.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		return nil, err
	}

	// A reply must target a comment on the same post. The parent is loaded
	// up front so its author is known for the notification.
	var parent *models.Comment
	if in.ParentCommentID != nil {
		parent, err = s.commentRepo.GetByID(ctx, *in.ParentCommentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Parent comment", *in.ParentCommentID)
			}
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
	}

	comment := &models.Comment{
		Content:         in.Content,
		UserID:          in.UserID,
		PostID:          in.PostID,
		ParentCommentID: in.ParentCommentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	dispatch := DispatchInput{
		SenderID:  in.UserID,
		PostID:    &in.PostID,
		CommentID: &comment.ID,
	}
	if parent != nil {
		dispatch.RecipientID = parent.UserID
		dispatch.Type = models.NotificationReply
	} else {
		dispatch.RecipientID = post.UserID
		dispatch.Type = models.NotificationComment
	}
	if err := s.notifSvc.Dispatch(ctx, dispatch); err != nil {
		logDispatchFailure(ctx, "comment", comment.ID, err)
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment removes a comment if the caller authored it or is an
// admin. Replies to the deleted comment are kept; the tree builder
// re-roots them on the next read.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", in.CommentID)
		}
		return err
	}

	if comment.UserID != in.UserID {
		if s.isAdmin == nil {
			return models.NewUnauthorizedError("You can only delete your own comments")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own comments")
		}
	}

	return s.commentRepo.Delete(ctx, comment)
}

// ToggleCommentUpvote adds the caller's upvote if absent, removes it if
// present, and returns the resulting count and membership. The insert is
// the atomic arbiter under concurrency: if two toggles race, exactly one
// insert wins and the loser takes the remove branch.
func (s *CommentService) ToggleCommentUpvote(ctx context.Context, userID, commentID uint) (*UpvoteResult, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", commentID)
		}
		return nil, err
	}

	added, err := s.commentRepo.Upvote(ctx, userID, commentID)
	if err != nil {
		return nil, err
	}
	if !added {
		if err := s.commentRepo.RemoveUpvote(ctx, userID, commentID); err != nil {
			return nil, err
		}
	}

	// Unlike post upvotes, comment upvotes produce no notification.
	count, err := s.commentRepo.CountUpvotes(ctx, commentID)
	if err != nil {
		return nil, err
	}

	return &UpvoteResult{UpvotesCount: count, Upvoted: added}, nil
}
