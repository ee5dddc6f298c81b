package handler

import (
	"errors"
	"net/http"

	"github.com/carboard/internal/middleware"
	"github.com/carboard/internal/models"
	"github.com/carboard/internal/service"
	"github.com/carboard/pkg/response"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication API requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// UserResponse is the public shape of a user
type UserResponse struct {
	ID       uint        `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     models.Role `json:"role"`
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, token, err := h.authService.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserExists):
			// Same message for a username or email collision.
			response.BadRequest(c, "user already exists")
		case errors.Is(err, service.ErrPasswordMismatch):
			response.BadRequest(c, "passwords do not match")
		case errors.Is(err, service.ErrEmptyField):
			response.BadRequest(c, "required field is empty")
		default:
			response.InternalError(c, "failed to register user")
		}
		return
	}

	h.setSessionCookie(c, token.AccessToken, token.ExpiresIn)

	response.Created(c, gin.H{
		"user": UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		},
		"token": token,
	})
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, token, err := h.authService.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotExist):
			response.Unauthorized(c, "user does not exist")
		case errors.Is(err, service.ErrWrongPassword):
			response.Unauthorized(c, "wrong password")
		case errors.Is(err, service.ErrEmptyField):
			response.BadRequest(c, "required field is empty")
		default:
			response.InternalError(c, "failed to login")
		}
		return
	}

	h.setSessionCookie(c, token.AccessToken, token.ExpiresIn)

	response.Success(c, gin.H{
		"user": UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		},
		"token": token,
	})
}

// Logout revokes the current session
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Unauthorized(c, "authentication required")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c, "failed to logout")
		return
	}

	h.setSessionCookie(c, "", -1)

	response.Success(c, gin.H{"message": "logged out"})
}

// Me returns the current session's user
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.GetUser(middleware.GetUserID(c))
	if err != nil {
		response.Unauthorized(c, "authentication required")
		return
	}

	response.Success(c, gin.H{
		"user": UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		},
	})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup, anonOnly, authRequired gin.HandlerFunc) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", anonOnly, h.Register)
		auth.POST("/login", anonOnly, h.Login)
		auth.POST("/logout", authRequired, h.Logout)
		auth.GET("/me", authRequired, h.Me)
	}
}
