package repository

import (
	"fmt"
	"sync/atomic"
	"testing"

	"campusboard/internal/database"
	"campusboard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

// setupTestDB opens a private in-memory sqlite database with the full
// schema migrated, so behavioral tests run against real SQL without an
// external Postgres.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repo_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

// setupFKTestDB is setupTestDB with sqlite foreign key enforcement
// switched on, so referential violations surface the way the constraints
// AutoMigrate creates on Postgres would surface them.
func setupFKTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repo_fk_test_%d?mode=memory&cache=shared&_foreign_keys=1", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: name + "@campus.edu", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()
	category := &models.Category{Name: name}
	require.NoError(t, db.Create(category).Error)
	return category
}

func seedPost(t *testing.T, db *gorm.DB, userID, categoryID uint, title string) *models.Post {
	t.Helper()
	post := &models.Post{Title: title, Content: "content of " + title, UserID: userID, CategoryID: categoryID}
	require.NoError(t, db.Create(post).Error)
	return post
}

func seedComment(t *testing.T, db *gorm.DB, userID, postID uint, parentID *uint, content string) *models.Comment {
	t.Helper()
	comment := &models.Comment{Content: content, UserID: userID, PostID: postID, ParentCommentID: parentID}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
