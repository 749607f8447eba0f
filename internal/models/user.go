// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User roles. Every account is a student unless promoted.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User represents an account on the CampusBoard forum. Credential storage
// and session issuance live outside this service; the password hash column
// exists only so seeded development accounts can log in through the
// external auth collaborator.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"unique;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null;default:student" json:"role"`
	Bio          string    `gorm:"size:300" json:"bio"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Posts        []Post    `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
