// Package router wires the HTTP routes to their handlers and attaches
// the cross-cutting middleware: JWT auth on everything that mutates
// seat state, the Redis response cache on the public reads, and the
// token-bucket limiter on the contended hold and checkout writes.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/rajat290/cinex-booking/internal/config"
	"github.com/rajat290/cinex-booking/internal/handler"
	"github.com/rajat290/cinex-booking/internal/middleware"
)

// Register mounts every route on the Echo instance.  rdb may be nil, in
// which case the cache and rate limiter middleware become pass-throughs.
func Register(
	e *echo.Echo,
	cfg config.Config,
	rdb *redis.Client,
	shows *handler.ShowHandler,
	holds *handler.HoldHandler,
	bookings *handler.BookingHandler,
) {
	e.GET("/healthz", handler.Health)

	auth := middleware.JWTAuth(cfg.JWTSecret)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	v1 := e.Group("/v1")

	// Public reads.  Eventually consistent: both go through the cache.
	v1.GET("/shows", shows.List, cache)
	v1.GET("/shows/:id/seats", shows.SeatMap, cache)

	// Show registration is an admin action performed by the catalog.
	v1.POST("/shows", shows.Create, auth, middleware.RequireRole("admin"))

	// Seat claims.  The limiter runs after auth so buckets are keyed by
	// holder, not just by IP.
	v1.POST("/shows/:id/hold", holds.Hold, auth, limiter)
	v1.POST("/shows/:id/release", holds.Release, auth, limiter)

	// Checkout and the payment-gateway callbacks.
	v1.POST("/bookings", bookings.Checkout, auth, limiter)
	v1.POST("/bookings/:id/confirm", bookings.Confirm, auth)
	v1.POST("/bookings/:id/fail", bookings.Fail, auth)
	v1.GET("/bookings/:id", bookings.Get, auth)
	v1.GET("/my-bookings", bookings.ListMine, auth)
}
