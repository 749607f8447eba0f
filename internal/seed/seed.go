// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"campusboard/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Categories every campus board starts with.
var defaultCategories = []models.Category{
	{Name: "general", Description: "Anything campus related"},
	{Name: "housing", Description: "Sublets, roommates, dorm life"},
	{Name: "events", Description: "What's happening on campus"},
	{Name: "courses", Description: "Course questions and study groups"},
	{Name: "lost-and-found", Description: "Lost something? Found something?"},
	{Name: "marketplace", Description: "Buy, sell, trade"},
}

var postTags = []string{
	"sublet", "roommate", "free-food", "study-group", "ride-share",
	"tickets", "textbooks", "intramural", "club", "deadline",
}

// Seed populates the database with demo users, posts, comments, upvotes,
// and the notifications those actions would have produced.
func Seed(db *gorm.DB, opts Options) error {
	gofakeit.Seed(time.Now().UnixNano())

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			return fmt.Errorf("clear data: %w", err)
		}
	}

	categories, err := createCategories(db)
	if err != nil {
		return fmt.Errorf("create categories: %w", err)
	}

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("create users: %w", err)
	}

	posts, err := createPosts(db, users, categories, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("create posts: %w", err)
	}

	if err := createComments(db, users, posts); err != nil {
		return fmt.Errorf("create comments: %w", err)
	}

	if err := createUpvotes(db, users, posts); err != nil {
		return fmt.Errorf("create upvotes: %w", err)
	}

	if err := createBookmarks(db, users, posts); err != nil {
		return fmt.Errorf("create bookmarks: %w", err)
	}

	log.Printf("Seeded %d users, %d posts across %d categories", len(users), len(posts), len(categories))
	return nil
}

// clearData wipes all seedable tables, children first so foreign keys hold.
func clearData(db *gorm.DB) error {
	tables := []any{
		&models.Notification{},
		&models.Report{},
		&models.Bookmark{},
		&models.CommentUpvote{},
		&models.PostUpvote{},
		&models.Comment{},
		&models.Post{},
		&models.Category{},
		&models.User{},
	}
	for _, table := range tables {
		if err := db.Where("1 = 1").Delete(table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createCategories(db *gorm.DB) ([]models.Category, error) {
	categories := make([]models.Category, len(defaultCategories))
	copy(categories, defaultCategories)
	if err := db.Create(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func createUsers(db *gorm.DB, count int) ([]models.User, error) {
	if count <= 0 {
		count = 25
	}

	// One shared hash: bcrypt per user makes large seeds crawl.
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count+1)
	users = append(users, models.User{
		Name:         "Board Admin",
		Email:        "admin@campus.edu",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Bio:          "Keeping the board tidy.",
	})

	for i := 0; i < count; i++ {
		name := gofakeit.Name()
		email := fmt.Sprintf("%s%d@campus.edu",
			strings.ToLower(strings.ReplaceAll(name, " ", ".")), i)
		users = append(users, models.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(hash),
			Role:         models.RoleStudent,
			Bio:          gofakeit.Sentence(8),
		})
	}

	if err := db.CreateInBatches(&users, 100).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func createPosts(db *gorm.DB, users []models.User, categories []models.Category, count int) ([]models.Post, error) {
	if count <= 0 {
		count = 100
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		category := categories[r.Intn(len(categories))]

		tags := models.Tags{}
		for _, tag := range pickTags(r) {
			tags = append(tags, tag)
		}

		post := models.Post{
			Title:      strings.TrimSuffix(gofakeit.Sentence(6), "."),
			Content:    gofakeit.Paragraph(2, 4, 8, "\n\n"),
			UserID:     author.ID,
			CategoryID: category.ID,
			Tags:       tags,
			Views:      uint(r.Intn(500)),
			// Spread creation over the last 90 days so the index feels lived in.
			CreatedAt: time.Now().Add(-time.Duration(r.Intn(90*24)) * time.Hour),
		}
		posts = append(posts, post)
	}

	if err := db.CreateInBatches(&posts, 100).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func pickTags(r *rand.Rand) []string {
	n := r.Intn(4)
	seen := map[string]bool{}
	var tags []string
	for len(tags) < n {
		tag := postTags[r.Intn(len(postTags))]
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}

// createComments gives roughly two thirds of posts a small thread, with some
// replies nested one level deep, writing the notifications the live path
// would have produced.
func createComments(db *gorm.DB, users []models.User, posts []models.Post) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, post := range posts {
		if r.Intn(3) == 0 {
			continue
		}

		var topLevel []models.Comment
		for i := 0; i < 1+r.Intn(4); i++ {
			commenter := users[r.Intn(len(users))]
			comment := models.Comment{
				Content: gofakeit.Sentence(12),
				UserID:  commenter.ID,
				PostID:  post.ID,
			}
			if err := db.Create(&comment).Error; err != nil {
				return err
			}
			topLevel = append(topLevel, comment)

			if commenter.ID != post.UserID {
				if err := storeNotification(db, post.UserID, commenter.ID,
					models.NotificationComment, &post.ID, &comment.ID); err != nil {
					return err
				}
			}
		}

		for _, parent := range topLevel {
			if r.Intn(2) == 0 {
				continue
			}
			replier := users[r.Intn(len(users))]
			reply := models.Comment{
				Content:         gofakeit.Sentence(10),
				UserID:          replier.ID,
				PostID:          post.ID,
				ParentCommentID: &parent.ID,
			}
			if err := db.Create(&reply).Error; err != nil {
				return err
			}
			if replier.ID != parent.UserID {
				if err := storeNotification(db, parent.UserID, replier.ID,
					models.NotificationReply, &post.ID, &reply.ID); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func createUpvotes(db *gorm.DB, users []models.User, posts []models.Post) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, post := range posts {
		voters := r.Intn(8)
		seen := map[uint]bool{}
		for i := 0; i < voters; i++ {
			voter := users[r.Intn(len(users))]
			if voter.ID == post.UserID || seen[voter.ID] {
				continue
			}
			seen[voter.ID] = true
			if err := db.Create(&models.PostUpvote{UserID: voter.ID, PostID: post.ID}).Error; err != nil {
				return err
			}
			if err := storeNotification(db, post.UserID, voter.ID,
				models.NotificationUpvote, &post.ID, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func createBookmarks(db *gorm.DB, users []models.User, posts []models.Post) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, user := range users {
		seen := map[uint]bool{}
		for i := 0; i < r.Intn(5); i++ {
			post := posts[r.Intn(len(posts))]
			if seen[post.ID] {
				continue
			}
			seen[post.ID] = true
			if err := db.Create(&models.Bookmark{UserID: user.ID, PostID: post.ID}).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func storeNotification(db *gorm.DB, recipientID, senderID uint, notifType string, postID, commentID *uint) error {
	return db.Create(&models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        notifType,
		PostID:      postID,
		CommentID:   commentID,
		Read:        rand.Intn(2) == 0,
	}).Error
}
