package handler

import (
	"errors"
	"time"

	"github.com/carboard/internal/middleware"
	"github.com/carboard/internal/models"
	"github.com/carboard/internal/service"
	"github.com/carboard/pkg/response"
	"github.com/gin-gonic/gin"
)

// FavoriteHandler handles the favorites API
type FavoriteHandler struct {
	favoriteService *service.FavoriteService
}

// NewFavoriteHandler creates a new FavoriteHandler
func NewFavoriteHandler(favoriteService *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{
		favoriteService: favoriteService,
	}
}

// FavoriteResponse is one favorite link with its listing
type FavoriteResponse struct {
	ID      uint            `json:"id"`
	AddedAt time.Time       `json:"added_at"`
	Listing ListingResponse `json:"listing"`
}

func toFavoriteResponses(favs []models.Favorite) []FavoriteResponse {
	out := make([]FavoriteResponse, 0, len(favs))
	for i := range favs {
		out = append(out, FavoriteResponse{
			ID:      favs[i].ID,
			AddedAt: favs[i].CreatedAt,
			Listing: toListingResponse(&favs[i].Advertisement),
		})
	}
	return out
}

// List returns the user's favorites, with blocked listings filtered out
// GET /api/v1/favorites
func (h *FavoriteHandler) List(c *gin.Context) {
	favs, err := h.favoriteService.List(middleware.GetUserID(c))
	if err != nil {
		response.InternalError(c, "failed to list favorites")
		return
	}
	response.Success(c, toFavoriteResponses(favs))
}

// Add favorites a listing for the user; repeating the call is a no-op
// PUT /api/v1/favorites/:id
func (h *FavoriteHandler) Add(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.favoriteService.Add(middleware.GetUserID(c), id); err != nil {
		if errors.Is(err, service.ErrListingNotFound) {
			response.NotFound(c, "listing not found")
			return
		}
		response.InternalError(c, "failed to add favorite")
		return
	}

	response.Success(c, gin.H{"message": "favorited"})
}

// Remove unfavorites a listing for the user
// DELETE /api/v1/favorites/:id
func (h *FavoriteHandler) Remove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.favoriteService.Remove(middleware.GetUserID(c), id); err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			response.NotFound(c, "favorite not found")
			return
		}
		response.InternalError(c, "failed to remove favorite")
		return
	}

	response.Success(c, gin.H{"message": "removed"})
}

// RegisterRoutes registers favorites routes
func (h *FavoriteHandler) RegisterRoutes(rg *gin.RouterGroup, authRequired gin.HandlerFunc) {
	favorites := rg.Group("/favorites")
	favorites.Use(authRequired)
	{
		favorites.GET("", h.List)
		favorites.PUT("/:id", h.Add)
		favorites.DELETE("/:id", h.Remove)
	}
}
