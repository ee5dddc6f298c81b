package middleware

import (
	"strings"

	"github.com/carboard/internal/models"
	"github.com/carboard/internal/service"
	"github.com/carboard/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	// ContextKeyUserID is the key for user ID in gin context
	ContextKeyUserID = "user_id"
	// ContextKeyUsername is the key for username in gin context
	ContextKeyUsername = "username"
	// ContextKeyRole is the key for the user role in gin context
	ContextKeyRole = "role"
	// ContextKeyClaims is the key for the raw session claims in gin context
	ContextKeyClaims = "claims"

	// SessionCookieName is the cookie carrying the session token
	SessionCookieName = "token"
)

// sessionClaims resolves the request's session token, from the session
// cookie or a Bearer Authorization header, and validates it.
func sessionClaims(c *gin.Context, authService *service.AuthService) (*service.SessionClaims, bool) {
	tokenString := ""

	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		tokenString = cookie
	} else if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			tokenString = parts[1]
		}
	}

	if tokenString == "" {
		return nil, false
	}

	claims, err := authService.ValidateToken(c.Request.Context(), tokenString)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func setSession(c *gin.Context, claims *service.SessionClaims) {
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyUsername, claims.Username)
	c.Set(ContextKeyRole, claims.Role)
	c.Set(ContextKeyClaims, claims)
}

// RequireAuth admits only requests carrying a valid, unrevoked session
func RequireAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := sessionClaims(c, authService)
		if !ok {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		setSession(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches the session to the context when one is present but
// never rejects the request. Anonymous viewers pass through untouched.
func OptionalAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := sessionClaims(c, authService); ok {
			setSession(c, claims)
		}
		c.Next()
	}
}

// RequireAnonymous admits only requests without an active session. The
// route answers "not found" to logged-in callers instead of "forbidden" so
// its existence is not confirmed to them.
func RequireAnonymous(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := sessionClaims(c, authService); ok {
			response.NotFound(c, "not found")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin admits only sessions holding the admin role. Missing or
// insufficient sessions get the same "not found" answer as a bogus URL.
func RequireAdmin(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := sessionClaims(c, authService)
		if !ok || claims.Role != models.RoleAdmin {
			response.NotFound(c, "not found")
			c.Abort()
			return
		}
		setSession(c, claims)
		c.Next()
	}
}

// GetUserID gets the user ID from the gin context
func GetUserID(c *gin.Context) uint {
	userID, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0
	}
	return userID.(uint)
}

// CurrentUserID returns the session's user ID, or nil for anonymous requests
func CurrentUserID(c *gin.Context) *uint {
	userID, exists := c.Get(ContextKeyUserID)
	if !exists {
		return nil
	}
	id := userID.(uint)
	return &id
}

// GetUsername gets the username from the gin context
func GetUsername(c *gin.Context) string {
	username, exists := c.Get(ContextKeyUsername)
	if !exists {
		return ""
	}
	return username.(string)
}

// GetClaims gets the session claims from the gin context
func GetClaims(c *gin.Context) *service.SessionClaims {
	claims, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil
	}
	return claims.(*service.SessionClaims)
}
