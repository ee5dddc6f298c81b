package repository

import (
	"errors"

	"github.com/carboard/internal/models"
	"gorm.io/gorm"
)

var (
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// FavoriteRepository handles favorite link data access
type FavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new FavoriteRepository
func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Create creates a new favorite link
func (r *FavoriteRepository) Create(fav *models.Favorite) error {
	return r.db.Create(fav).Error
}

// Exists checks whether the user already favorited the advertisement
func (r *FavoriteRepository) Exists(userID, adID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Favorite{}).
		Where("user_id = ? AND advertisement_id = ?", userID, adID).
		Count(&count).Error
	return count > 0, err
}

// ListVisibleByUser retrieves the user's favorite links with their
// advertisements preloaded, excluding links whose advertisement is blocked.
// The filter happens in SQL so callers never prune the slice themselves.
func (r *FavoriteRepository) ListVisibleByUser(userID uint) ([]models.Favorite, error) {
	var favs []models.Favorite
	result := r.db.
		Joins("JOIN advertisements ON advertisements.id = favorites.advertisement_id").
		Where("favorites.user_id = ? AND advertisements.blocked = ?", userID, false).
		Preload("Advertisement").
		Order("favorites.id ASC").
		Find(&favs)
	if result.Error != nil {
		return nil, result.Error
	}
	return favs, nil
}

// CountByAdvertisement counts favorite links referencing an advertisement
func (r *FavoriteRepository) CountByAdvertisement(adID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Favorite{}).
		Where("advertisement_id = ?", adID).
		Count(&count).Error
	return count, err
}

// DeleteByUserAndAdvertisement removes the link between a user and an
// advertisement. Returns ErrFavoriteNotFound when no such link exists.
func (r *FavoriteRepository) DeleteByUserAndAdvertisement(userID, adID uint) error {
	result := r.db.
		Where("user_id = ? AND advertisement_id = ?", userID, adID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}
