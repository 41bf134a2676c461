package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-reservation/internal/handler"
	"github.com/iliyamo/hotel-reservation/internal/middleware"
	"github.com/iliyamo/hotel-reservation/internal/model"
)

// Handlers bundles everything the router mounts.  Cache and RateLimit
// may be nil; they are then skipped.
type Handlers struct {
	Auth         *handler.AuthHandler
	Reservations *handler.ReservationHandler
	Catalogue    *handler.CatalogueHandler
	Ready        echo.HandlerFunc
	Metrics      echo.HandlerFunc

	JWTSecret string
	Cache     echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

// RegisterRoutes registers unauthenticated operational endpoints.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/healthz", handler.Health)
	if h.Ready != nil {
		e.GET("/readyz", h.Ready)
	}
	if h.Metrics != nil {
		e.GET("/metrics", h.Metrics)
	}
}

// RegisterAuth mounts login, refresh and logout under /v1/auth and the
// identity endpoint under /v1.
func RegisterAuth(e *echo.Echo, h Handlers) {
	g := e.Group("/v1/auth", optional(h.RateLimit)...)
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/logout", h.Auth.Logout)

	e.POST("/v1/logout", h.Auth.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(h.JWTSecret))
	auth.GET("/me", h.Auth.Me)
}

// RegisterStaff mounts the reservation desk endpoints.  Reception and
// admin share them; catalogue writes and statistics are admin only.
func RegisterStaff(e *echo.Echo, h Handlers) {
	mw := append([]echo.MiddlewareFunc{
		middleware.JWTAuth(h.JWTSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleReception),
	}, optional(h.RateLimit)...)
	g := e.Group("/v1", mw...)

	cached := optional(h.Cache)
	g.GET("/rooms", h.Catalogue.ListRooms, cached...)
	g.GET("/services", h.Catalogue.ListServices, cached...)
	g.GET("/rooms/available", h.Reservations.AvailableRooms)

	g.GET("/dashboard", h.Reservations.Dashboard)
	g.POST("/reservations", h.Reservations.Create)
	g.GET("/reservations/:id", h.Reservations.Get)
	g.PUT("/reservations/:id", h.Reservations.Update)
	g.DELETE("/reservations/:id", h.Reservations.Cancel)
	g.GET("/calendar", h.Reservations.Calendar)
	g.DELETE("/calendar/messages", h.Reservations.ClearWarnings)

	admin := middleware.RequireRole(model.RoleAdmin)
	g.POST("/rooms", h.Catalogue.CreateRoom, admin)
	g.POST("/services", h.Catalogue.CreateService, admin)
	g.GET("/statistics", h.Reservations.Statistics, admin)
}

// Register mounts all route groups.
func Register(e *echo.Echo, h Handlers) {
	RegisterRoutes(e, h)
	RegisterAuth(e, h)
	RegisterStaff(e, h)
}

func optional(mw echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if mw == nil {
		return nil
	}
	return []echo.MiddlewareFunc{mw}
}
