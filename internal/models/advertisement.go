package models

import (
	"time"
)

// Advertisement represents a vehicle listing with its moderation state.
//
// Two independent flags drive visibility: Verified gates every public and
// admin listing view, Blocked suppresses an otherwise verified listing from
// the public views and from users' favorites without removing it from the
// admin management view.
type Advertisement struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	Brand       string    `gorm:"size:50;not null" json:"brand"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"not null" json:"description"`
	Price       string    `gorm:"size:50;not null" json:"price"`
	PostedAt    time.Time `gorm:"not null" json:"posted_at"`
	ImageName   string    `gorm:"size:255;not null" json:"image_name"`
	ImageType   string    `gorm:"size:100;not null" json:"image_type"`
	Image       []byte    `gorm:"not null" json:"-"`
	Verified    bool      `gorm:"not null;default:false" json:"verified"`
	Blocked     bool      `gorm:"not null;default:false" json:"blocked"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Owner     User       `gorm:"foreignKey:UserID" json:"-"`
	Favorites []Favorite `gorm:"foreignKey:AdvertisementID" json:"-"`
}

// TableName specifies the table name for Advertisement model
func (Advertisement) TableName() string {
	return "advertisements"
}

// PubliclyVisible reports whether the listing appears in public views
func (a *Advertisement) PubliclyVisible() bool {
	return a.Verified && !a.Blocked
}
