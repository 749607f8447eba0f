package models

import "time"

// Category groups posts by topic. Names are unique case-insensitively;
// the repository lowercases lookups before insert and the unique index
// backs the check against concurrent creates.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"unique;not null" json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
