package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/carboard/internal/config"
	"github.com/carboard/internal/models"
	"github.com/carboard/internal/repository"
	"github.com/carboard/pkg/crypto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrUserExists is deliberately shared by username and email collisions
	// so registration never reveals which field collided.
	ErrUserExists       = errors.New("user already exists")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrEmptyField       = errors.New("required field is empty")
	ErrUserNotExist     = errors.New("user does not exist")
	ErrWrongPassword    = errors.New("wrong password")
	ErrInvalidToken     = errors.New("invalid token")
)

// AuthService handles registration, login and session tokens
type AuthService struct {
	userRepo  *repository.UserRepository
	sessions  SessionStore
	jwtConfig config.JWTConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo *repository.UserRepository, sessions SessionStore, jwtConfig config.JWTConfig) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		sessions:  sessions,
		jwtConfig: jwtConfig,
	}
}

// RegisterRequest represents the registration request
type RegisterRequest struct {
	Username        string `json:"username" binding:"required,min=3,max=50"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6,max=100"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents the session token response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// SessionClaims represents the JWT claims of a session token
type SessionClaims struct {
	UserID   uint        `json:"user_id"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Register creates a new user and opens a session for it
func (s *AuthService) Register(req *RegisterRequest) (*models.User, *TokenResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if username == "" || email == "" || req.Password == "" {
		return nil, nil, ErrEmptyField
	}
	if req.Password != req.ConfirmPassword {
		return nil, nil, ErrPasswordMismatch
	}

	exists, err := s.userRepo.ExistsByUsername(username)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrUserExists
	}

	exists, err = s.userRepo.ExistsByEmail(email)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrUserExists
	}

	passwordHash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, nil, err
	}

	return user, token, nil
}

// Login authenticates a user and returns a session token. "No such user"
// and "wrong password" stay distinct messages, matching the login form.
func (s *AuthService) Login(req *LoginRequest) (*models.User, *TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, nil, ErrEmptyField
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil, ErrUserNotExist
		}
		return nil, nil, err
	}

	if !crypto.CheckPassword(req.Password, user.PasswordHash) {
		return nil, nil, ErrWrongPassword
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, nil, err
	}

	return user, token, nil
}

// Logout revokes the session token carrying the given claims
func (s *AuthService) Logout(ctx context.Context, claims *SessionClaims) error {
	ttl := time.Until(claims.ExpiresAt.Time)
	return s.sessions.Revoke(ctx, claims.ID, ttl)
}

// ValidateToken validates a session token and returns its claims,
// rejecting tokens revoked by logout.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.jwtConfig.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GetUser retrieves a user by id
func (s *AuthService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotExist
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin seeds the administrator account described by cfg if no admin
// exists yet. Admin rights are a role on the user row, never a magic id.
func (s *AuthService) EnsureAdmin(cfg config.AdminConfig) (*models.User, error) {
	count, err := s.userRepo.CountByRole(models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}
	if cfg.Username == "" || cfg.Email == "" || cfg.Password == "" {
		return nil, ErrEmptyField
	}

	passwordHash, err := crypto.HashPassword(cfg.Password)
	if err != nil {
		return nil, err
	}

	admin := &models.User{
		Username:     cfg.Username,
		Email:        strings.ToLower(cfg.Email),
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	}
	if err := s.userRepo.Create(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// TokenLifetime returns the configured session token lifetime
func (s *AuthService) TokenLifetime() time.Duration {
	return time.Duration(s.jwtConfig.ExpireHours) * time.Hour
}

func (s *AuthService) generateToken(user *models.User) (*TokenResponse, error) {
	lifetime := s.TokenLifetime()
	now := time.Now()

	claims := SessionClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(lifetime.Seconds()),
	}, nil
}
