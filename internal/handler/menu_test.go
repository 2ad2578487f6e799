package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMenu(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, GetMenu(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	for _, name := range []string{"Margherita", "Pepperoni", "Hawaiian", "Four Cheese"} {
		assert.Contains(t, rec.Body.String(), name)
	}
}

func TestHealth(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, Health(e.NewContext(req, rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
