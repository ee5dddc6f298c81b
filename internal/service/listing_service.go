package service

import (
	"errors"
	"strings"
	"time"

	"github.com/carboard/internal/models"
	"github.com/carboard/internal/repository"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrMissingImage    = errors.New("listing image is missing or unreadable")
	ErrImageTooLarge   = errors.New("listing image exceeds the size limit")
)

// ImageUpload is a fully decoded uploaded image
type ImageUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

// Image is a stored listing image served back to clients
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// ListingService implements the advertisement lifecycle: submission by
// users, and the approve / block / unblock / delete moderation operations.
type ListingService struct {
	adRepo        *repository.AdvertisementRepository
	maxImageBytes int64
}

// NewListingService creates a new ListingService
func NewListingService(adRepo *repository.AdvertisementRepository, maxImageBytes int64) *ListingService {
	return &ListingService{
		adRepo:        adRepo,
		maxImageBytes: maxImageBytes,
	}
}

// CreateListingRequest represents a listing submission form
type CreateListingRequest struct {
	Brand       string `form:"brand" binding:"required,max=50"`
	Name        string `form:"name" binding:"required,max=100"`
	Description string `form:"description" binding:"required"`
	Price       string `form:"price" binding:"required,max=50"`
}

// Create persists a new listing. Every listing starts unverified and
// unblocked; only an admin approval makes it publicly visible.
func (s *ListingService) Create(ownerID uint, req *CreateListingRequest, image *ImageUpload) (*models.Advertisement, error) {
	if strings.TrimSpace(req.Brand) == "" || strings.TrimSpace(req.Name) == "" ||
		strings.TrimSpace(req.Description) == "" || strings.TrimSpace(req.Price) == "" {
		return nil, ErrEmptyField
	}
	if image == nil || len(image.Data) == 0 || image.Name == "" {
		return nil, ErrMissingImage
	}
	if s.maxImageBytes > 0 && int64(len(image.Data)) > s.maxImageBytes {
		return nil, ErrImageTooLarge
	}

	contentType := image.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ad := &models.Advertisement{
		UserID:      ownerID,
		Brand:       strings.TrimSpace(req.Brand),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       strings.TrimSpace(req.Price),
		PostedAt:    time.Now(),
		ImageName:   image.Name,
		ImageType:   contentType,
		Image:       image.Data,
		Verified:    false,
		Blocked:     false,
	}

	if err := s.adRepo.Create(ad); err != nil {
		return nil, err
	}
	return ad, nil
}

// Get retrieves a single listing by id
func (s *ListingService) Get(id uint) (*models.Advertisement, error) {
	ad, err := s.adRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrAdvertisementNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	return ad, nil
}

// ListPublic returns verified, unblocked listings, optionally filtered by brand
func (s *ListingService) ListPublic(brand string) ([]models.Advertisement, error) {
	return s.adRepo.ListVerified(strings.TrimSpace(brand))
}

// ListForManagement returns verified listings including blocked ones,
// so the admin can toggle the block flag either way.
func (s *ListingService) ListForManagement() ([]models.Advertisement, error) {
	return s.adRepo.ListManaged()
}

// ListAll returns every listing in any state for the admin confirmation queue
func (s *ListingService) ListAll() ([]models.Advertisement, error) {
	return s.adRepo.ListAll()
}

// Approve marks a listing verified. Idempotent.
func (s *ListingService) Approve(id uint) (*models.Advertisement, error) {
	ad, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if ad.Verified {
		return ad, nil
	}
	ad.Verified = true
	if err := s.adRepo.Update(ad); err != nil {
		return nil, err
	}
	return ad, nil
}

// Block suppresses a listing from public and favorites views
func (s *ListingService) Block(id uint) (*models.Advertisement, error) {
	return s.setBlocked(id, true)
}

// Unblock reverses Block
func (s *ListingService) Unblock(id uint) (*models.Advertisement, error) {
	return s.setBlocked(id, false)
}

func (s *ListingService) setBlocked(id uint, blocked bool) (*models.Advertisement, error) {
	ad, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if ad.Blocked == blocked {
		return ad, nil
	}
	ad.Blocked = blocked
	if err := s.adRepo.Update(ad); err != nil {
		return nil, err
	}
	return ad, nil
}

// Delete removes a listing in any state. Favorite links referencing it are
// removed in the same transaction so no dangling links survive.
func (s *ListingService) Delete(id uint) error {
	err := s.adRepo.DeleteWithFavorites(id)
	if errors.Is(err, repository.ErrAdvertisementNotFound) {
		return ErrListingNotFound
	}
	return err
}

// Image returns the stored image of a listing. The public variant serves
// only verified, unblocked listings; the admin variant serves any state.
func (s *ListingService) Image(id uint, adminView bool) (*Image, error) {
	ad, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !adminView && !ad.PubliclyVisible() {
		return nil, ErrListingNotFound
	}
	return &Image{
		Name:        ad.ImageName,
		ContentType: ad.ImageType,
		Data:        ad.Image,
	}, nil
}
