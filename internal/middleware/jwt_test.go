package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superpizzeria/order-service/internal/utils"
)

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/me/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	next := func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}
	require.NoError(t, JWTAuth("mw-secret")(next)(c))
	return rec, called
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken("mw-secret", 9, time.Minute)
	require.NoError(t, err)

	rec, called := runJWT(t, "Bearer "+tok.Token)
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthRejections(t *testing.T) {
	expired, err := utils.NewAccessToken("mw-secret", 9, -time.Minute)
	require.NoError(t, err)
	foreign, err := utils.NewAccessToken("other-secret", 9, time.Minute)
	require.NoError(t, err)

	cases := map[string]string{
		"missing header":  "",
		"no bearer":       "Token abc",
		"garbage token":   "Bearer not.a.jwt",
		"expired token":   "Bearer " + expired.Token,
		"wrong signature": "Bearer " + foreign.Token,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec, called := runJWT(t, header)
			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "not authenticated")
		})
	}
}
