package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the authorization level of a user
type Role string

const (
	// RoleUser is a regular registered user
	RoleUser Role = "user"
	// RoleAdmin may moderate advertisements
	RoleAdmin Role = "admin"
)

// User represents a registered user
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Role         Role           `gorm:"size:20;not null;default:'user'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Advertisements []Advertisement `gorm:"foreignKey:UserID" json:"advertisements,omitempty"`
	Favorites      []Favorite      `gorm:"foreignKey:UserID" json:"favorites,omitempty"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
