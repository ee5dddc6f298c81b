package models

import "time"

// Favorite links a user to an advertisement they bookmarked.
//
// Uniqueness of the (user, advertisement) pair is enforced by an existence
// check in the service layer rather than a database constraint, so a repeated
// add stays an application-level no-op.
type Favorite struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	AdvertisementID uint      `gorm:"index;not null" json:"advertisement_id"`
	CreatedAt       time.Time `json:"created_at"`

	// Relations
	Owner         User          `gorm:"foreignKey:UserID" json:"-"`
	Advertisement Advertisement `gorm:"foreignKey:AdvertisementID" json:"advertisement"`
}

// TableName specifies the table name for Favorite model
func (Favorite) TableName() string {
	return "favorites"
}
