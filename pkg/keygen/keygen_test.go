package keygen_test

import (
	"testing"

	"github.com/carboard/pkg/keygen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	s1, err := keygen.GenerateSecret(32)
	require.NoError(t, err)
	s2, err := keygen.GenerateSecret(32)
	require.NoError(t, err)

	assert.NotEmpty(t, s1)
	assert.NotEqual(t, s1, s2)
}

func TestRandomString(t *testing.T) {
	s, err := keygen.RandomString(16)
	require.NoError(t, err)
	assert.Len(t, s, 16)
}
