// Package middleware provides shared request processing for handlers.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/superpizzeria/order-service/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and stores the subject user ID in the request context under
// "user_id". Missing, malformed, badly signed and expired tokens are
// all rejected with the same 401 body so callers cannot tell which
// check failed.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")
			uid, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
			}
			c.Set("user_id", uid)
			return next(c)
		}
	}
}
