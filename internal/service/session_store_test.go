package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/carboard/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore(t *testing.T) {
	store := service.NewMemorySessionStore()
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Revoking an already expired token is a no-op.
	require.NoError(t, store.Revoke(ctx, "jti-2", -time.Second))
	revoked, err = store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}
