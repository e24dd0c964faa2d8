package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/storefront-api/internal/utils"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := utils.HashPassword("pw123", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "pw123", hash)
	assert.True(t, utils.VerifyPassword(hash, "pw123"))
	assert.False(t, utils.VerifyPassword(hash, "pw124"))
	assert.False(t, utils.VerifyPassword(hash, ""))
}

func TestHashPassword_SaltUniqueness(t *testing.T) {
	h1, err := utils.HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)
	h2, err := utils.HashPassword("same-password", bcrypt.MinCost)
	require.NoError(t, err)

	// bcrypt salts per call, so equal passwords never share a hash.
	assert.NotEqual(t, h1, h2)
	assert.True(t, utils.VerifyPassword(h1, "same-password"))
	assert.True(t, utils.VerifyPassword(h2, "same-password"))
}
