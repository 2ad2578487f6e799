package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superpizzeria/order-service/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}, "X-Custom": {"a", "b"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, `{"ok":true}`, string(body))
}

func TestDecodePayloadRejectsTruncated(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{0, 0})
	assert.False(t, ok)
	// Header length pointing past the buffer must not panic.
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 0, 99, 'x'})
	assert.False(t, ok)
}

func TestCacheKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/menu?lang=en", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/menu")

	base := config.CacheConfig{Prefix: "cache", KeyStrategy: "route"}
	withQuery := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	// Same route, different strategy: the query must change the key
	// only when the strategy includes it.
	assert.NotEqual(t, cacheKeyFrom(base, c), cacheKeyFrom(withQuery, c))

	req2 := httptest.NewRequest(http.MethodGet, "/menu?lang=fi", nil)
	c2 := e.NewContext(req2, httptest.NewRecorder())
	c2.SetPath("/menu")
	assert.Equal(t, cacheKeyFrom(base, c), cacheKeyFrom(base, c2))
	assert.NotEqual(t, cacheKeyFrom(withQuery, c), cacheKeyFrom(withQuery, c2))
}

func TestCacheDisabledPassesThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(func(c echo.Context) error {
		return c.String(http.StatusOK, "fresh")
	})(c)
	require.NoError(t, err)

	assert.Equal(t, "fresh", rec.Body.String())
	assert.Empty(t, rec.Header().Get("X-Cache"))
}
