package models

import "time"

// Notification types. NotificationAccepted exists in the schema for
// forward compatibility but no code path dispatches it yet; the trigger
// conditions are undecided.
const (
	NotificationComment  = "comment"
	NotificationReply    = "reply"
	NotificationUpvote   = "upvote"
	NotificationAccepted = "accepted"
)

// Notification is a recipient-scoped record of another user's action on
// the recipient's content. Rows are only ever mutated through the Read
// flag and are retained indefinitely.
//
// The composite index mirrors the dominant query: unread notifications
// for one recipient, newest first.
type Notification struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	RecipientID uint     `gorm:"not null;index:idx_notif_inbox,priority:1" json:"recipient_id"`
	SenderID    uint     `gorm:"not null" json:"sender_id"`
	Sender      User     `gorm:"foreignKey:SenderID" json:"sender"`
	Type        string   `gorm:"not null" json:"type"`
	// Subject references outlive their subject: notifications are kept
	// when the post or comment is deleted, with the reference nulled.
	PostID    *uint    `json:"post_id"`
	Post      *Post    `gorm:"foreignKey:PostID;constraint:OnDelete:SET NULL" json:"post,omitempty"`
	CommentID *uint    `json:"comment_id"`
	Comment   *Comment `gorm:"foreignKey:CommentID;constraint:OnDelete:SET NULL" json:"comment,omitempty"`
	Read        bool     `gorm:"not null;default:false;index:idx_notif_inbox,priority:2" json:"read"`

	CreatedAt time.Time `gorm:"index:idx_notif_inbox,priority:3,sort:desc" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
