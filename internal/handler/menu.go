package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/superpizzeria/order-service/internal/model"
)

// GetMenu handles GET /menu and returns the static pizza catalog.
// The response is a natural target for the Redis response cache.
func GetMenu(c echo.Context) error {
	return c.JSON(http.StatusOK, model.Menu())
}
