package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("topsecret", 42, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	uid, err := ParseAccessToken("topsecret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("topsecret", 42, time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken("othersecret", tok.Token)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestParseAccessTokenExpired(t *testing.T) {
	tok, err := NewAccessToken("topsecret", 42, -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken("topsecret", tok.Token)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestParseAccessTokenGarbage(t *testing.T) {
	_, err := ParseAccessToken("topsecret", "not.a.jwt")
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestNewRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(time.Hour)
	require.NoError(t, err)
	b, err := NewRefreshToken(time.Hour)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), a.Exp, 5*time.Second)
}

func TestHashRefreshRaw(t *testing.T) {
	h := HashRefreshRaw("abc")
	assert.Len(t, h, 64)
	// Deterministic: same input, same hash.
	assert.Equal(t, h, HashRefreshRaw("abc"))
	assert.NotEqual(t, h, HashRefreshRaw("abd"))
}

func TestNewOrderHash(t *testing.T) {
	a, err := NewOrderHash()
	require.NoError(t, err)
	b, err := NewOrderHash()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
