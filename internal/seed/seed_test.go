package seed

import (
	"fmt"
	"sync/atomic"
	"testing"

	"campusboard/internal/database"
	"campusboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seedTestDBSeq atomic.Int64

func setupSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:seed_test_%d?mode=memory&cache=shared", seedTestDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestSeed(t *testing.T) {
	db := setupSeedTestDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 5, NumPosts: 10}))

	var userCount, postCount, categoryCount int64
	db.Model(&models.User{}).Count(&userCount)
	db.Model(&models.Post{}).Count(&postCount)
	db.Model(&models.Category{}).Count(&categoryCount)

	assert.Equal(t, int64(6), userCount) // 5 students + 1 admin
	assert.Equal(t, int64(10), postCount)
	assert.Equal(t, int64(len(defaultCategories)), categoryCount)

	t.Run("admin account exists", func(t *testing.T) {
		var admin models.User
		require.NoError(t, db.Where("email = ?", "admin@campus.edu").First(&admin).Error)
		assert.Equal(t, models.RoleAdmin, admin.Role)
	})

	t.Run("notifications never target their own sender", func(t *testing.T) {
		var selfNotifs int64
		db.Model(&models.Notification{}).Where("recipient_id = sender_id").Count(&selfNotifs)
		assert.Equal(t, int64(0), selfNotifs)
	})

	t.Run("replies stay on their parent's post", func(t *testing.T) {
		var strays int64
		db.Model(&models.Comment{}).
			Joins("JOIN comments parents ON parents.id = comments.parent_comment_id").
			Where("parents.post_id != comments.post_id").
			Count(&strays)
		assert.Equal(t, int64(0), strays)
	})
}

func TestSeedClean(t *testing.T) {
	db := setupSeedTestDB(t)

	require.NoError(t, Seed(db, Options{NumUsers: 3, NumPosts: 5}))
	require.NoError(t, Seed(db, Options{NumUsers: 3, NumPosts: 5, ShouldClean: true}))

	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	assert.Equal(t, int64(4), userCount)
}
