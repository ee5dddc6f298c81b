package repository

import (
	"errors"

	"github.com/carboard/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAdvertisementNotFound = errors.New("advertisement not found")
)

// AdvertisementRepository handles advertisement data access
type AdvertisementRepository struct {
	db *gorm.DB
}

// NewAdvertisementRepository creates a new AdvertisementRepository
func NewAdvertisementRepository(db *gorm.DB) *AdvertisementRepository {
	return &AdvertisementRepository{db: db}
}

// Create creates a new advertisement
func (r *AdvertisementRepository) Create(ad *models.Advertisement) error {
	return r.db.Create(ad).Error
}

// GetByID retrieves an advertisement by ID
func (r *AdvertisementRepository) GetByID(id uint) (*models.Advertisement, error) {
	var ad models.Advertisement
	result := r.db.First(&ad, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrAdvertisementNotFound
		}
		return nil, result.Error
	}
	return &ad, nil
}

// ListVerified retrieves verified, unblocked advertisements for the public
// listing, optionally narrowed to a brand. Ordered by id ascending.
func (r *AdvertisementRepository) ListVerified(brand string) ([]models.Advertisement, error) {
	var ads []models.Advertisement
	query := r.db.Where("verified = ? AND blocked = ?", true, false)
	if brand != "" {
		query = query.Where("brand = ?", brand)
	}
	result := query.Order("id ASC").Find(&ads)
	if result.Error != nil {
		return nil, result.Error
	}
	return ads, nil
}

// ListManaged retrieves every verified advertisement regardless of the
// blocked flag, for the admin management view.
func (r *AdvertisementRepository) ListManaged() ([]models.Advertisement, error) {
	var ads []models.Advertisement
	result := r.db.Where("verified = ?", true).Order("id ASC").Find(&ads)
	if result.Error != nil {
		return nil, result.Error
	}
	return ads, nil
}

// ListAll retrieves every advertisement in any state, for the admin
// confirmation queue.
func (r *AdvertisementRepository) ListAll() ([]models.Advertisement, error) {
	var ads []models.Advertisement
	result := r.db.Order("id ASC").Find(&ads)
	if result.Error != nil {
		return nil, result.Error
	}
	return ads, nil
}

// Update persists changes to an advertisement
func (r *AdvertisementRepository) Update(ad *models.Advertisement) error {
	return r.db.Save(ad).Error
}

// DeleteWithFavorites removes an advertisement and every favorite link
// referencing it, in one transaction. Favorites go first so that a partial
// failure can only leave orphaned favorite rows, never a listing whose
// favorites were silently dropped.
func (r *AdvertisementRepository) DeleteWithFavorites(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var ad models.Advertisement
		if err := tx.First(&ad, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAdvertisementNotFound
			}
			return err
		}
		if err := tx.Where("advertisement_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&ad).Error
	})
}
