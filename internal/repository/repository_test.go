package repository_test

import (
	"testing"

	"github.com/carboard/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database migrated with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pool would hand every connection its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Advertisement{},
		&models.Favorite{},
	))

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Role:         models.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createAd(t *testing.T, db *gorm.DB, ownerID uint, brand string, verified, blocked bool) *models.Advertisement {
	t.Helper()

	ad := &models.Advertisement{
		UserID:      ownerID,
		Brand:       brand,
		Name:        brand + " test car",
		Description: "well kept",
		Price:       "5000",
		ImageName:   "car.jpg",
		ImageType:   "image/jpeg",
		Image:       []byte{0xff, 0xd8, 0xff},
		Verified:    verified,
		Blocked:     blocked,
	}
	require.NoError(t, db.Create(ad).Error)
	return ad
}
