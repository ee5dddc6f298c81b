package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/carboard/internal/middleware"
	"github.com/carboard/internal/models"
	"github.com/carboard/internal/service"
	"github.com/carboard/pkg/response"
	"github.com/gin-gonic/gin"
)

// ListingHandler handles the public listing API and listing submission
type ListingHandler struct {
	listingService  *service.ListingService
	favoriteService *service.FavoriteService
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(listingService *service.ListingService, favoriteService *service.FavoriteService) *ListingHandler {
	return &ListingHandler{
		listingService:  listingService,
		favoriteService: favoriteService,
	}
}

// ListingResponse is the public shape of a listing; the image bytes are
// served by the separate image endpoint.
type ListingResponse struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	Brand       string    `json:"brand"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	PostedAt    time.Time `json:"posted_at"`
	ImageName   string    `json:"image_name"`
	Verified    bool      `json:"verified"`
	Blocked     bool      `json:"blocked"`
}

// ListingDetailResponse adds the viewer's favorite state to a listing.
// Favorited is null for anonymous viewers so clients can hide the toggle.
type ListingDetailResponse struct {
	ListingResponse
	Favorited *bool `json:"favorited"`
}

func toListingResponse(ad *models.Advertisement) ListingResponse {
	return ListingResponse{
		ID:          ad.ID,
		UserID:      ad.UserID,
		Brand:       ad.Brand,
		Name:        ad.Name,
		Description: ad.Description,
		Price:       ad.Price,
		PostedAt:    ad.PostedAt,
		ImageName:   ad.ImageName,
		Verified:    ad.Verified,
		Blocked:     ad.Blocked,
	}
}

func toListingResponses(ads []models.Advertisement) []ListingResponse {
	out := make([]ListingResponse, 0, len(ads))
	for i := range ads {
		out = append(out, toListingResponse(&ads[i]))
	}
	return out
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.NotFound(c, "not found")
		return 0, false
	}
	return uint(id), true
}

// List returns the public browse view, optionally filtered by brand
// GET /api/v1/listings?brand=Toyota
func (h *ListingHandler) List(c *gin.Context) {
	ads, err := h.listingService.ListPublic(c.Query("brand"))
	if err != nil {
		response.InternalError(c, "failed to list listings")
		return
	}
	response.Success(c, toListingResponses(ads))
}

// Get returns a single listing with the viewer's favorite state
// GET /api/v1/listings/:id
func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ad, err := h.listingService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			response.NotFound(c, "listing not found")
			return
		}
		response.InternalError(c, "failed to load listing")
		return
	}

	status, err := h.favoriteService.Status(middleware.CurrentUserID(c), id)
	if err != nil {
		response.InternalError(c, "failed to load listing")
		return
	}

	detail := ListingDetailResponse{ListingResponse: toListingResponse(ad)}
	switch status {
	case service.FavoriteYes:
		v := true
		detail.Favorited = &v
	case service.FavoriteNo:
		v := false
		detail.Favorited = &v
	}

	response.Success(c, detail)
}

// Image serves the stored image of a publicly visible listing
// GET /api/v1/listings/:id/image
func (h *ListingHandler) Image(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	img, err := h.listingService.Image(id, false)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			response.NotFound(c, "listing not found")
			return
		}
		response.InternalError(c, "failed to load image")
		return
	}

	c.Data(http.StatusOK, img.ContentType, img.Data)
}

// Create handles a listing submission with a multipart image upload
// POST /api/v1/listings
func (h *ListingHandler) Create(c *gin.Context) {
	var req service.CreateListingRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "listing image is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "listing image is unreadable")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "listing image is unreadable")
		return
	}

	image := &service.ImageUpload{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}

	ad, err := h.listingService.Create(middleware.GetUserID(c), &req, image)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyField):
			response.BadRequest(c, "required field is empty")
		case errors.Is(err, service.ErrMissingImage):
			response.BadRequest(c, "listing image is missing or unreadable")
		case errors.Is(err, service.ErrImageTooLarge):
			response.BadRequest(c, "listing image exceeds the size limit")
		default:
			response.InternalError(c, "failed to create listing")
		}
		return
	}

	response.Created(c, toListingResponse(ad))
}

// Contact is the static contact page stub
// GET /api/v1/contact
func (h *ListingHandler) Contact(c *gin.Context) {
	response.Success(c, gin.H{
		"message": "Reach the carboard team at support@carboard.example",
	})
}

// RegisterRoutes registers the public listing routes and the
// authenticated submission route
func (h *ListingHandler) RegisterRoutes(rg *gin.RouterGroup, optionalAuth, authRequired gin.HandlerFunc) {
	listings := rg.Group("/listings")
	{
		listings.GET("", h.List)
		listings.GET("/:id", optionalAuth, h.Get)
		listings.GET("/:id/image", h.Image)
		listings.POST("", authRequired, h.Create)
	}
	rg.GET("/contact", h.Contact)
}
