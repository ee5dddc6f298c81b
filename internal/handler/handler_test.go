package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/carboard/internal/config"
	"github.com/carboard/internal/handler"
	"github.com/carboard/internal/middleware"
	"github.com/carboard/internal/models"
	"github.com/carboard/internal/repository"
	"github.com/carboard/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router *gin.Engine
}

// newTestApp wires the full API against an in-memory database, mirroring
// the wiring in cmd/server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Advertisement{},
		&models.Favorite{},
	))

	userRepo := repository.NewUserRepository(db)
	adRepo := repository.NewAdvertisementRepository(db)
	favRepo := repository.NewFavoriteRepository(db)

	authService := service.NewAuthService(userRepo, service.NewMemorySessionStore(),
		config.JWTConfig{Secret: "test-secret", ExpireHours: 1})
	listingService := service.NewListingService(adRepo, 1<<20)
	favoriteService := service.NewFavoriteService(favRepo, adRepo)

	_, err = authService.EnsureAdmin(config.AdminConfig{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "adminpass",
	})
	require.NoError(t, err)

	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		anonOnly := middleware.RequireAnonymous(authService)
		authRequired := middleware.RequireAuth(authService)
		optionalAuth := middleware.OptionalAuth(authService)
		adminOnly := middleware.RequireAdmin(authService)

		handler.NewAuthHandler(authService).RegisterRoutes(v1, anonOnly, authRequired)
		handler.NewListingHandler(listingService, favoriteService).RegisterRoutes(v1, optionalAuth, authRequired)
		handler.NewFavoriteHandler(favoriteService).RegisterRoutes(v1, authRequired)
		handler.NewAdminHandler(listingService).RegisterRoutes(v1, adminOnly)
	}

	return &testApp{router: router}
}

func (a *testApp) do(t *testing.T, method, path, token string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) doJSON(t *testing.T, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	return a.do(t, method, path, token, body, "application/json")
}

// registerUser registers a user through the API and returns their token
func (a *testApp) registerUser(t *testing.T, username string) string {
	t.Helper()

	w := a.doJSON(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username":         username,
		"email":            username + "@example.com",
		"password":         "pw123456",
		"confirm_password": "pw123456",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return extractToken(t, w)
}

// loginAdmin logs in the seeded admin and returns their token
func (a *testApp) loginAdmin(t *testing.T) string {
	t.Helper()

	w := a.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email":    "admin@example.com",
		"password": "adminpass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return extractToken(t, w)
}

func extractToken(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var envelope struct {
		Data struct {
			Token struct {
				AccessToken string `json:"access_token"`
			} `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Token.AccessToken)
	return envelope.Data.Token.AccessToken
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

// submitListing uploads a listing with a small fake JPEG via multipart form
func (a *testApp) submitListing(t *testing.T, token, brand string) uint {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("brand", brand))
	require.NoError(t, mw.WriteField("name", brand+" Corolla"))
	require.NoError(t, mw.WriteField("description", "one owner"))
	require.NoError(t, mw.WriteField("price", "5000"))

	fw, err := mw.CreateFormFile("image", "corolla.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte{0xff, 0xd8, 0xff, 0xe0})
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := a.do(t, http.MethodPost, "/api/v1/listings", token, buf.Bytes(), mw.FormDataContentType())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID uint `json:"id"`
	}
	decodeData(t, w, &created)
	require.NotZero(t, created.ID)
	return created.ID
}

func adPath(id uint, suffix string) string {
	if suffix == "" {
		return fmt.Sprintf("/api/v1/listings/%d", id)
	}
	return fmt.Sprintf("/api/v1/listings/%d/%s", id, suffix)
}

func adminListingPath(id uint, action string) string {
	if action == "" {
		return fmt.Sprintf("/api/v1/admin/listings/%d", id)
	}
	return fmt.Sprintf("/api/v1/admin/listings/%d/%s", id, action)
}
