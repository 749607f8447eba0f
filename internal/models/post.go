package models

import (
	"time"
)

// Post represents a top-level discussion unit under one category.
//
// Upvote membership lives in post_upvotes; comments live in their own
// table keyed by post_id. Both counts are selected as subqueries per
// request rather than stored, so there is no denormalized index to keep
// in sync on writes.
type Post struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	Title      string   `gorm:"not null" json:"title"`
	Content    string   `gorm:"type:text;not null" json:"content"`
	UserID     uint     `gorm:"not null;index" json:"user_id"`
	User       User     `gorm:"foreignKey:UserID" json:"user"`
	CategoryID uint     `gorm:"not null;index" json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"category"`
	Tags       Tags     `gorm:"serializer:json" json:"tags"`
	Views      uint     `gorm:"not null;default:0" json:"views"`
	Pinned     bool     `gorm:"not null;default:false" json:"pinned"`
	// Solved is true iff AcceptedAnswerID is non-null. Both fields are
	// written in the same UPDATE so the pair can never diverge.
	Solved           bool  `gorm:"not null;default:false" json:"solved"`
	AcceptedAnswerID *uint `json:"accepted_answer_id"`
	// UpvotesCount is not persisted; computed at query time
	UpvotesCount int `gorm:"->" json:"upvotes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Upvoted indicates whether the current requesting user upvoted this post (computed)
	Upvoted   bool      `gorm:"->" json:"upvoted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Tags is an ordered set of lowercase tag strings stored as a JSON column.
type Tags []string

// PostUpvote is one user's endorsement of a post. The composite unique
// index makes the toggle's insert and delete steps atomic set operations.
type PostUpvote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_upvote" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_upvote" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Bookmark marks a post saved by a user.
type Bookmark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_bookmark" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_bookmark" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
