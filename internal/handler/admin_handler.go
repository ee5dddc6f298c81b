package handler

import (
	"errors"
	"net/http"

	"github.com/carboard/internal/models"
	"github.com/carboard/internal/service"
	"github.com/carboard/pkg/response"
	"github.com/gin-gonic/gin"
)

// AdminHandler handles the moderation API. Every route is behind the admin
// gate, which answers 404 to anyone else.
type AdminHandler struct {
	listingService *service.ListingService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(listingService *service.ListingService) *AdminHandler {
	return &AdminHandler{
		listingService: listingService,
	}
}

// Queue returns every listing in any state, the admin confirmation view
// GET /api/v1/admin/listings
func (h *AdminHandler) Queue(c *gin.Context) {
	ads, err := h.listingService.ListAll()
	if err != nil {
		response.InternalError(c, "failed to list listings")
		return
	}
	response.Success(c, toListingResponses(ads))
}

// Managed returns verified listings, blocked ones included, so the block
// flag can be toggled in both directions
// GET /api/v1/admin/listings/managed
func (h *AdminHandler) Managed(c *gin.Context) {
	ads, err := h.listingService.ListForManagement()
	if err != nil {
		response.InternalError(c, "failed to list listings")
		return
	}
	response.Success(c, toListingResponses(ads))
}

// Approve marks a listing verified
// POST /api/v1/admin/listings/:id/approve
func (h *AdminHandler) Approve(c *gin.Context) {
	h.moderate(c, h.listingService.Approve)
}

// Block suppresses a listing from the public and favorites views
// POST /api/v1/admin/listings/:id/block
func (h *AdminHandler) Block(c *gin.Context) {
	h.moderate(c, h.listingService.Block)
}

// Unblock reverses Block
// POST /api/v1/admin/listings/:id/unblock
func (h *AdminHandler) Unblock(c *gin.Context) {
	h.moderate(c, h.listingService.Unblock)
}

// Delete removes a listing and cascades its favorite links
// DELETE /api/v1/admin/listings/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.listingService.Delete(id); err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			response.NotFound(c, "listing not found")
			return
		}
		response.InternalError(c, "failed to delete listing")
		return
	}

	response.Success(c, gin.H{"message": "deleted"})
}

// Image serves the stored image of a listing in any moderation state
// GET /api/v1/admin/listings/:id/image
func (h *AdminHandler) Image(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	img, err := h.listingService.Image(id, true)
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

func (h *AdminHandler) moderate(c *gin.Context, op func(uint) (*models.Advertisement, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ad, err := op(id)
	if err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			response.NotFound(c, "listing not found")
			return
		}
		response.InternalError(c, "moderation failed")
		return
	}

	response.Success(c, toListingResponse(ad))
}

// RegisterRoutes registers admin moderation routes
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	admin := rg.Group("/admin")
	admin.Use(adminOnly)
	{
		admin.GET("/listings", h.Queue)
		admin.GET("/listings/managed", h.Managed)
		admin.POST("/listings/:id/approve", h.Approve)
		admin.POST("/listings/:id/block", h.Block)
		admin.POST("/listings/:id/unblock", h.Unblock)
		admin.DELETE("/listings/:id", h.Delete)
		admin.GET("/listings/:id/image", h.Image)
	}
}
