package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/storefront-api/internal/utils"
)

const (
	accessSecret  = "test-access-secret"
	refreshSecret = "test-refresh-secret"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := utils.NewAccessToken(accessSecret, "64f0c0ffee0000000000aaaa", 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Value)

	sub, err := utils.ParseToken(accessSecret, tok.Value, utils.KindAccess)
	require.NoError(t, err)
	assert.Equal(t, "64f0c0ffee0000000000aaaa", sub)
}

func TestParseToken_Expired(t *testing.T) {
	// Negative TTL puts the expiry in the past.
	tok, err := utils.NewAccessToken(accessSecret, "u1", -1)
	require.NoError(t, err)

	_, err = utils.ParseToken(accessSecret, tok.Value, utils.KindAccess)
	assert.ErrorIs(t, err, utils.ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken(accessSecret, "u1", 15)
	require.NoError(t, err)

	_, err = utils.ParseToken("some-other-secret", tok.Value, utils.KindAccess)
	assert.ErrorIs(t, err, utils.ErrSignatureInvalid)
}

func TestParseToken_Malformed(t *testing.T) {
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		_, err := utils.ParseToken(accessSecret, raw, utils.KindAccess)
		assert.ErrorIs(t, err, utils.ErrTokenMalformed, "raw=%q", raw)
	}
}

func TestParseToken_KindMismatch(t *testing.T) {
	refresh, err := utils.NewRefreshToken(refreshSecret, "u1", 7)
	require.NoError(t, err)

	// A refresh token must never pass where an access token is expected,
	// even when verified against its own secret.
	_, err = utils.ParseToken(refreshSecret, refresh.Value, utils.KindAccess)
	assert.ErrorIs(t, err, utils.ErrWrongTokenKind)

	sub, err := utils.ParseToken(refreshSecret, refresh.Value, utils.KindRefresh)
	require.NoError(t, err)
	assert.Equal(t, "u1", sub)
}

func TestParseToken_DistinctSecrets(t *testing.T) {
	// Tokens signed with the access secret do not verify under the
	// refresh secret; leaking one secret must not compromise the other
	// token class.
	tok, err := utils.NewAccessToken(accessSecret, "u1", 15)
	require.NoError(t, err)

	_, err = utils.ParseToken(refreshSecret, tok.Value, utils.KindAccess)
	assert.ErrorIs(t, err, utils.ErrSignatureInvalid)
}
