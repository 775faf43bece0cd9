// Package router wires HTTP routes to their handlers and middleware.
package router

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/GitRE41187/lab-reservation/internal/config"
    "github.com/GitRE41187/lab-reservation/internal/handler"
    "github.com/GitRE41187/lab-reservation/internal/middleware"
)

// Handlers collects every handler the router mounts.
type Handlers struct {
    Auth      *handler.AuthHandler
    Labs      *handler.LabHandler
    Bookings  *handler.BookingHandler
    Robot     *handler.RobotHandler
    History   *handler.HistoryHandler
    Dashboard *handler.DashboardHandler
}

// Register mounts all routes on the Echo instance.  Unauthenticated
// operations live under /v1/auth, everything else under /v1 behind JWT,
// role and rate-limit middleware.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
    e.GET("/healthz", handler.Health)

    g := e.Group("/v1/auth")
    g.POST("/register", h.Auth.Register)
    g.POST("/login", h.Auth.Login)
    g.POST("/refresh", h.Auth.Refresh)
    g.POST("/refresh-access", h.Auth.RefreshAccess)
    g.POST("/logout", h.Auth.Logout)

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(cfg.JWTSecret))
    auth.Use(middleware.RequireRole("STUDENT", "ADMIN"))
    auth.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

    auth.GET("/me", h.Auth.Me)

    // Labs listing is hot and read-only, so it sits behind the response
    // cache.
    auth.GET("/labs", h.Labs.List, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

    auth.POST("/bookings", h.Bookings.Create)
    auth.GET("/my-bookings", h.Bookings.MyBookings)

    auth.POST("/robot/control", h.Robot.Control)
    auth.POST("/robot/execute", h.Robot.Execute)
    auth.POST("/robot/stop", h.Robot.Stop)
    auth.GET("/robot/status", h.Robot.Status)
    auth.GET("/robot/sensors", h.Robot.Sensors)

    auth.GET("/history", h.History.List)
    auth.GET("/dashboard/stats", h.Dashboard.Stats)
}
