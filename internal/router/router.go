// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/superpizzeria/order-service/internal/config"
	"github.com/superpizzeria/order-service/internal/handler"
	"github.com/superpizzeria/order-service/internal/middleware"
)

// Register wires every route of the service onto the Echo instance.
//
// Public surface: registration, the password and refresh token
// exchanges, the static menu, the by-hash tracking lookup and a
// health check. The auth routes sit behind the Redis token bucket so
// credential stuffing is throttled; the static menu goes through the
// response cache.
//
// Protected surface (Bearer token): current user profile, order
// creation and listing, and the item decrement cascade.
func Register(e *echo.Echo, a *handler.AuthHandler, o *handler.OrderHandler, cfg config.Config, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e.GET("/healthz", handler.Health)

	e.POST("/register", a.Register, limiter)
	e.POST("/token", a.Token, limiter)
	e.POST("/refresh-token", a.Refresh, limiter)

	e.GET("/menu", handler.GetMenu, cache)
	// Tracking responses are keyed by a path parameter the cache key
	// strategy does not include, so the lookup stays uncached.
	e.GET("/v1/orders/track/:hash", o.Track)

	auth := e.Group("", middleware.JWTAuth(cfg.JWTSecret))
	auth.GET("/users/me/", a.Me)
	auth.POST("/orders/", o.Create)
	auth.GET("/orders/", o.List)
	auth.DELETE("/order-items/:id", o.DeleteItem)
}
