package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/job-board/internal/utils"
)

const (
	testAccessSecret  = "access-secret-for-tests"
	testRefreshSecret = "refresh-secret-for-tests"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := utils.NewAccessToken(testAccessSecret, 42, "RECRUITER", 30)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), tok.Exp, 5*time.Second)

	claims, err := utils.ParseToken(tok.Token, testAccessSecret)
	require.NoError(t, err)

	uid, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)
	assert.Equal(t, "RECRUITER", claims.Role)
	assert.Equal(t, utils.TokenTypeAccess, claims.TokenType)
	assert.Empty(t, claims.TokenID)
}

func TestRefreshTokenCarriesTokenID(t *testing.T) {
	tok, err := utils.NewRefreshToken(testRefreshSecret, 7, "CANDIDATE", 20)
	require.NoError(t, err)
	require.NotEmpty(t, tok.TokenID)

	claims, err := utils.ParseToken(tok.Token, testRefreshSecret)
	require.NoError(t, err)
	assert.Equal(t, utils.TokenTypeRefresh, claims.TokenType)
	assert.Equal(t, tok.TokenID, claims.TokenID)

	// Every issued refresh token gets a fresh identifier.
	tok2, err := utils.NewRefreshToken(testRefreshSecret, 7, "CANDIDATE", 20)
	require.NoError(t, err)
	assert.NotEqual(t, tok.TokenID, tok2.TokenID)
}

func TestParseTokenExpired(t *testing.T) {
	// A negative TTL produces a token that is already expired.
	tok, err := utils.NewAccessToken(testAccessSecret, 1, "ADMIN", -1)
	require.NoError(t, err)

	_, err = utils.ParseToken(tok.Token, testAccessSecret)
	assert.ErrorIs(t, err, utils.ErrTokenExpired)
}

func TestParseTokenWrongSecret(t *testing.T) {
	// An access token verified with the refresh secret must fail on the
	// signature, which is how the two token classes stay separate.
	tok, err := utils.NewAccessToken(testAccessSecret, 1, "ADMIN", 5)
	require.NoError(t, err)

	_, err = utils.ParseToken(tok.Token, testRefreshSecret)
	assert.ErrorIs(t, err, utils.ErrTokenSignature)
}

func TestParseTokenMalformed(t *testing.T) {
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := utils.ParseToken(raw, testAccessSecret)
		assert.ErrorIs(t, err, utils.ErrTokenMalformed, "input %q", raw)
	}
}

func TestClaimsUserIDRejectsBadSubject(t *testing.T) {
	c := &utils.Claims{}
	_, err := c.UserID()
	assert.ErrorIs(t, err, utils.ErrTokenMalformed)

	c.Subject = "abc"
	_, err = c.UserID()
	assert.ErrorIs(t, err, utils.ErrTokenMalformed)
}
