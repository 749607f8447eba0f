package models

import (
	"time"
)

// Comment represents a reply attached to a post, optionally nested under
// another comment on the same post. PostID is immutable after creation;
// the same-post constraint on ParentCommentID is validated at create time
// since the storage layer cannot express it.
type Comment struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Content         string `gorm:"type:text;not null" json:"content"`
	UserID          uint   `gorm:"not null;index" json:"user_id"`
	User            User   `gorm:"foreignKey:UserID" json:"user"`
	PostID          uint   `gorm:"not null;index" json:"post_id"`
	ParentCommentID *uint  `gorm:"index" json:"parent_comment_id"`
	// UpvotesCount is not persisted; computed at query time
	UpvotesCount int `gorm:"->" json:"upvotes_count"`
	// Upvoted indicates whether the current requesting user upvoted this comment (computed)
	Upvoted   bool      `gorm:"->" json:"upvoted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CommentUpvote is one user's endorsement of a comment.
type CommentUpvote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_upvote" json:"user_id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_upvote" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentNode is a comment plus its direct replies, produced by the tree
// builder on every post-detail read. It is never persisted.
type CommentNode struct {
	Comment
	Replies []*CommentNode `json:"replies"`
}
