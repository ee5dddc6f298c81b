package service

import (
	"errors"

	"github.com/carboard/internal/models"
	"github.com/carboard/internal/repository"
)

var (
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// FavoriteStatus is the tri-state answer to "has this viewer favorited the
// listing". Anonymous viewers get Unknown rather than a false negative so
// the client can hide the toggle entirely.
type FavoriteStatus int

const (
	FavoriteUnknown FavoriteStatus = iota
	FavoriteNo
	FavoriteYes
)

// FavoriteService manages the user-to-advertisement bookmark links
type FavoriteService struct {
	favRepo *repository.FavoriteRepository
	adRepo  *repository.AdvertisementRepository
}

// NewFavoriteService creates a new FavoriteService
func NewFavoriteService(favRepo *repository.FavoriteRepository, adRepo *repository.AdvertisementRepository) *FavoriteService {
	return &FavoriteService{
		favRepo: favRepo,
		adRepo:  adRepo,
	}
}

// Add links a listing to the user's favorites. Adding an already favorited
// listing is a no-op, so at most one link exists per (user, listing) pair.
func (s *FavoriteService) Add(userID, adID uint) error {
	exists, err := s.favRepo.Exists(userID, adID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if _, err := s.adRepo.GetByID(adID); err != nil {
		if errors.Is(err, repository.ErrAdvertisementNotFound) {
			return ErrListingNotFound
		}
		return err
	}

	return s.favRepo.Create(&models.Favorite{
		UserID:          userID,
		AdvertisementID: adID,
	})
}

// Remove deletes the user's favorite link to a listing
func (s *FavoriteService) Remove(userID, adID uint) error {
	err := s.favRepo.DeleteByUserAndAdvertisement(userID, adID)
	if errors.Is(err, repository.ErrFavoriteNotFound) {
		return ErrFavoriteNotFound
	}
	return err
}

// List returns the user's favorites with blocked listings filtered out.
// The link rows for blocked listings stay in place and reappear on unblock.
func (s *FavoriteService) List(userID uint) ([]models.Favorite, error) {
	return s.favRepo.ListVisibleByUser(userID)
}

// Status reports whether a viewer has favorited a listing. Pass a nil
// userID for anonymous viewers.
func (s *FavoriteService) Status(userID *uint, adID uint) (FavoriteStatus, error) {
	if userID == nil {
		return FavoriteUnknown, nil
	}
	exists, err := s.favRepo.Exists(*userID, adID)
	if err != nil {
		return FavoriteUnknown, err
	}
	if exists {
		return FavoriteYes, nil
	}
	return FavoriteNo, nil
}
