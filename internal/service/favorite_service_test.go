package service_test

import (
	"testing"

	"github.com/carboard/internal/models"
	"github.com/carboard/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteService_Add_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	seller := env.register(t, "seller")
	fan := env.register(t, "fan")
	ad := env.submitListing(t, seller.ID, "Toyota")

	require.NoError(t, env.favorites.Add(fan.ID, ad.ID))
	require.NoError(t, env.favorites.Add(fan.ID, ad.ID))

	var count int64
	require.NoError(t, env.db.Model(&models.Favorite{}).
		Where("user_id = ? AND advertisement_id = ?", fan.ID, ad.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count, "adding twice leaves exactly one link")
}

func TestFavoriteService_Add_MissingListing(t *testing.T) {
	env := newTestEnv(t)
	fan := env.register(t, "fan")

	err := env.favorites.Add(fan.ID, 999)
	assert.ErrorIs(t, err, service.ErrListingNotFound)
}

func TestFavoriteService_RemoveRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	seller := env.register(t, "seller")
	fan := env.register(t, "fan")
	ad := env.submitListing(t, seller.ID, "Toyota")

	err := env.favorites.Remove(fan.ID, ad.ID)
	assert.ErrorIs(t, err, service.ErrFavoriteNotFound)

	require.NoError(t, env.favorites.Add(fan.ID, ad.ID))
	require.NoError(t, env.favorites.Remove(fan.ID, ad.ID))

	status, err := env.favorites.Status(&fan.ID, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, service.FavoriteNo, status)
}

func TestFavoriteService_Status_TriState(t *testing.T) {
	env := newTestEnv(t)
	seller := env.register(t, "seller")
	fan := env.register(t, "fan")
	ad := env.submitListing(t, seller.ID, "Toyota")

	// Anonymous viewers get "unknown", not "no".
	status, err := env.favorites.Status(nil, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, service.FavoriteUnknown, status)

	status, err = env.favorites.Status(&fan.ID, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, service.FavoriteNo, status)

	require.NoError(t, env.favorites.Add(fan.ID, ad.ID))

	status, err = env.favorites.Status(&fan.ID, ad.ID)
	require.NoError(t, err)
	assert.Equal(t, service.FavoriteYes, status)
}
