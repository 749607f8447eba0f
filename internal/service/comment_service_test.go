package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"campusboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn       func(context.Context, *models.Comment) error
	getByIDFn      func(context.Context, uint) (*models.Comment, error)
	listByPostFn   func(context.Context, uint, uint) ([]*models.Comment, error)
	deleteFn       func(context.Context, *models.Comment) error
	upvoteFn       func(context.Context, uint, uint) (bool, error)
	removeUpvoteFn func(context.Context, uint, uint) error
	countUpvotesFn func(context.Context, uint) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID, currentUserID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID, currentUserID)
}
func (s *commentRepoStub) Delete(ctx context.Context, comment *models.Comment) error {
	return s.deleteFn(ctx, comment)
}
func (s *commentRepoStub) Upvote(ctx context.Context, userID, commentID uint) (bool, error) {
	return s.upvoteFn(ctx, userID, commentID)
}
func (s *commentRepoStub) RemoveUpvote(ctx context.Context, userID, commentID uint) error {
	return s.removeUpvoteFn(ctx, userID, commentID)
}
func (s *commentRepoStub) CountUpvotes(ctx context.Context, commentID uint) (int64, error) {
	return s.countUpvotesFn(ctx, commentID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 1, PostID: 1}, nil
		},
		listByPostFn:   func(_ context.Context, _, _ uint) ([]*models.Comment, error) { return nil, nil },
		deleteFn:       func(_ context.Context, _ *models.Comment) error { return nil },
		upvoteFn:       func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		removeUpvoteFn: func(_ context.Context, _, _ uint) error { return nil },
		countUpvotesFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

func newCommentService(commentRepo *commentRepoStub, postRepo *postRepoStub, isAdmin func(context.Context, uint) (bool, error)) (*CommentService, *[]*models.Notification) {
	notifSvc, stored := recordingNotifService()
	return NewCommentService(commentRepo, postRepo, notifSvc, isAdmin), stored
}

func TestCommentService_CreateComment_Validation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		svc, _ := newCommentService(noopCommentRepo(), noopPostRepo(), nil)
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1})
		assertValidationError(t, err)
	})

	t.Run("content too long", func(t *testing.T) {
		t.Parallel()
		svc, _ := newCommentService(noopCommentRepo(), noopPostRepo(), nil)
		_, err := svc.CreateComment(ctx, CreateCommentInput{
			UserID:  1,
			PostID:  1,
			Content: strings.Repeat("x", 10001),
		})
		assertValidationError(t, err)
	})

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc, _ := newCommentService(noopCommentRepo(), postRepo, nil)
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 99, Content: "hi"})
		assertNotFoundError(t, err)
	})

	t.Run("parent on a different post", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: 777}, nil
		}
		svc, _ := newCommentService(commentRepo, noopPostRepo(), nil)
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1, ParentCommentID: ptr(5), Content: "hi"})
		assertValidationError(t, err)
	})

	t.Run("missing parent", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc, _ := newCommentService(commentRepo, noopPostRepo(), nil)
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1, ParentCommentID: ptr(5), Content: "hi"})
		assertNotFoundError(t, err)
	})
}

func TestCommentService_CreateComment_Notifications(t *testing.T) {
	t.Parallel()

	t.Run("top-level comment notifies the post author", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 10}, nil
		}
		svc, stored := newCommentService(noopCommentRepo(), postRepo, nil)

		_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 2, PostID: 1, Content: "hello"})
		require.NoError(t, err)

		require.Len(t, *stored, 1)
		n := (*stored)[0]
		assert.Equal(t, models.NotificationComment, n.Type)
		assert.Equal(t, uint(10), n.RecipientID)
		assert.Equal(t, uint(2), n.SenderID)
	})

	t.Run("reply notifies the parent comment author, not the post author", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 10}, nil
		}
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: 1, UserID: 20, Content: "parent"}, nil
		}
		svc, stored := newCommentService(commentRepo, postRepo, nil)

		_, err := svc.CreateComment(context.Background(), CreateCommentInput{
			UserID: 2, PostID: 1, ParentCommentID: ptr(5), Content: "reply",
		})
		require.NoError(t, err)

		require.Len(t, *stored, 1)
		n := (*stored)[0]
		assert.Equal(t, models.NotificationReply, n.Type)
		assert.Equal(t, uint(20), n.RecipientID)
	})

	t.Run("commenting on your own post stays silent", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 2}, nil
		}
		svc, stored := newCommentService(noopCommentRepo(), postRepo, nil)

		_, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 2, PostID: 1, Content: "note to self"})
		require.NoError(t, err)
		assert.Empty(t, *stored)
	})

	t.Run("dispatch failure does not fail creation", func(t *testing.T) {
		t.Parallel()
		notifRepo := noopNotifRepo()
		notifRepo.createFn = func(_ context.Context, _ *models.Notification) error {
			return errors.New("notifications table unavailable")
		}
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Post, error) {
			return &models.Post{ID: id, UserID: 10}, nil
		}
		svc := NewCommentService(noopCommentRepo(), postRepo, NewNotificationService(notifRepo, nil), nil)

		comment, err := svc.CreateComment(context.Background(), CreateCommentInput{UserID: 2, PostID: 1, Content: "hello"})
		require.NoError(t, err)
		assert.NotNil(t, comment)
	})
}

func TestCommentService_DeleteComment_Ownership(t *testing.T) {
	t.Parallel()

	t.Run("owner can delete", func(t *testing.T) {
		t.Parallel()
		svc, _ := newCommentService(noopCommentRepo(), noopPostRepo(), nil)
		assert.NoError(t, svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: 1, CommentID: 1}))
	})

	t.Run("non-owner without isAdmin returns unauthorized", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 10, PostID: 1}, nil
		}
		svc, _ := newCommentService(commentRepo, noopPostRepo(), nil)
		err := svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: 1, CommentID: 1})
		assertUnauthorizedError(t, err)
	})

	t.Run("admin can delete another user's comment", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 10, PostID: 1}, nil
		}
		isAdmin := func(_ context.Context, _ uint) (bool, error) { return true, nil }
		svc, _ := newCommentService(commentRepo, noopPostRepo(), isAdmin)
		assert.NoError(t, svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: 1, CommentID: 1}))
	})

	t.Run("isAdmin error propagates", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 10, PostID: 1}, nil
		}
		adminErr := errors.New("admin check failed")
		isAdmin := func(_ context.Context, _ uint) (bool, error) { return false, adminErr }
		svc, _ := newCommentService(commentRepo, noopPostRepo(), isAdmin)
		err := svc.DeleteComment(context.Background(), DeleteCommentInput{UserID: 1, CommentID: 1})
		assert.ErrorIs(t, err, adminErr)
	})
}

func TestCommentService_ToggleCommentUpvote(t *testing.T) {
	t.Parallel()

	t.Run("add counts the vote without notifying", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 5, PostID: 1}, nil
		}
		commentRepo.countUpvotesFn = func(_ context.Context, _ uint) (int64, error) { return 3, nil }
		svc, stored := newCommentService(commentRepo, noopPostRepo(), nil)

		res, err := svc.ToggleCommentUpvote(context.Background(), 2, 7)
		require.NoError(t, err)
		assert.True(t, res.Upvoted)
		assert.Equal(t, int64(3), res.UpvotesCount)
		assert.Empty(t, *stored)
	})

	t.Run("second toggle removes and stays silent", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 5, PostID: 1}, nil
		}
		commentRepo.upvoteFn = func(_ context.Context, _, _ uint) (bool, error) { return false, nil }
		var removed bool
		commentRepo.removeUpvoteFn = func(_ context.Context, _, _ uint) error {
			removed = true
			return nil
		}
		svc, stored := newCommentService(commentRepo, noopPostRepo(), nil)

		res, err := svc.ToggleCommentUpvote(context.Background(), 2, 7)
		require.NoError(t, err)
		assert.False(t, res.Upvoted)
		assert.True(t, removed)
		assert.Empty(t, *stored)
	})

	t.Run("missing comment", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			return nil, gorm.ErrRecordNotFound
		}
		svc, _ := newCommentService(commentRepo, noopPostRepo(), nil)
		_, err := svc.ToggleCommentUpvote(context.Background(), 2, 404)
		assertNotFoundError(t, err)
	})
}
