package server

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"campusboard/internal/config"
	"campusboard/internal/database"
	"campusboard/internal/models"
	"campusboard/internal/repository"
	"campusboard/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var serverTestDBSeq atomic.Int64

const testJWTSecret = "server-test-secret"

// setupServerTestDB opens a per-test in-memory SQLite database with the full
// schema. Shared cache keeps all pooled connections on the same database.
func setupServerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:server_test_%d?mode=memory&cache=shared", serverTestDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

// newTestServer builds a Server over a fresh SQLite database, wired the same
// way NewServerWithDeps wires production dependencies but without Redis or
// the Prometheus middleware (the default registry rejects re-registration
// across tests).
func newTestServer(t *testing.T) *Server {
	t.Helper()

	db := setupServerTestDB(t)
	s := &Server{
		config:       &config.Config{JWTSecret: testJWTSecret, Env: "test"},
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		postRepo:     repository.NewPostRepository(db),
		commentRepo:  repository.NewCommentRepository(db),
		categoryRepo: repository.NewCategoryRepository(db),
		notifRepo:    repository.NewNotificationRepository(db),
		reportRepo:   repository.NewReportRepository(db),
	}

	s.notificationService = service.NewNotificationService(s.notifRepo, nil)
	s.postService = service.NewPostService(
		s.postRepo, s.commentRepo, s.categoryRepo, s.notificationService, s.isAdminByUserID)
	s.commentService = service.NewCommentService(
		s.commentRepo, s.postRepo, s.notificationService, s.isAdminByUserID)
	s.categoryService = service.NewCategoryService(s.categoryRepo, s.postRepo, s.isAdminByUserID)
	s.reportService = service.NewReportService(
		s.reportRepo, s.postRepo, s.commentRepo, s.isAdminByUserID)
	s.userService = service.NewUserService(s.userRepo, s.postRepo)

	return s
}

func createUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()
	user := &models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s-%d@campus.edu", name, serverTestDBSeq.Add(1)),
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createPost(t *testing.T, db *gorm.DB, userID, categoryID uint, title string) *models.Post {
	t.Helper()
	post := &models.Post{Title: title, Content: "content", UserID: userID, CategoryID: categoryID}
	require.NoError(t, db.Create(post).Error)
	return post
}

func createComment(t *testing.T, db *gorm.DB, userID, postID uint, parentID *uint) *models.Comment {
	t.Helper()
	comment := &models.Comment{Content: "a comment", UserID: userID, PostID: postID, ParentCommentID: parentID}
	require.NoError(t, db.Create(comment).Error)
	return comment
}

// asUser is a stand-in auth middleware for handler tests.
func asUser(userID uint) func(c *fiber.Ctx) error {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

// makeToken issues a JWT the way the campus SSO gateway would.
func makeToken(t *testing.T, userID uint, secret string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"iss": tokenIssuer,
		"aud": tokenAudience,
		"sub": fmt.Sprintf("%d", userID),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}
