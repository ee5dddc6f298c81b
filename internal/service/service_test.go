package service_test

import (
	"testing"

	"github.com/carboard/internal/config"
	"github.com/carboard/internal/models"
	"github.com/carboard/internal/repository"
	"github.com/carboard/internal/service"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db        *gorm.DB
	auth      *service.AuthService
	listings  *service.ListingService
	favorites *service.FavoriteService
}

func newTestEnv(t *testing.T) *testEnv {
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

	jwtCfg := config.JWTConfig{Secret: "test-secret", ExpireHours: 1}

	return &testEnv{
		db:        db,
		auth:      service.NewAuthService(userRepo, service.NewMemorySessionStore(), jwtCfg),
		listings:  service.NewListingService(adRepo, 1<<20),
		favorites: service.NewFavoriteService(favRepo, adRepo),
	}
}

func (e *testEnv) register(t *testing.T, username string) *models.User {
	t.Helper()

	user, _, err := e.auth.Register(&service.RegisterRequest{
		Username:        username,
		Email:           username + "@example.com",
		Password:        "pw123456",
		ConfirmPassword: "pw123456",
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) submitListing(t *testing.T, ownerID uint, brand string) *models.Advertisement {
	t.Helper()

	ad, err := e.listings.Create(ownerID, &service.CreateListingRequest{
		Brand:       brand,
		Name:        brand + " Corolla",
		Description: "one owner, garage kept",
		Price:       "5000",
	}, &service.ImageUpload{
		Name:        "corolla.jpg",
		ContentType: "image/jpeg",
		Data:        []byte{0xff, 0xd8, 0xff, 0xe0},
	})
	require.NoError(t, err)
	return ad
}
