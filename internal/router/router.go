// Package router registers the HTTP routes of the booking API.
package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-reservation/internal/handler"
    "github.com/iliyamo/hotel-reservation/internal/middleware"
    "github.com/iliyamo/hotel-reservation/internal/model"
)

// Deps carries what the routes need besides the handler.
type Deps struct {
    JWTSecret string
    // RoomCache wraps the catalog; RateLimit wraps booking creation.
    RoomCache echo.MiddlewareFunc
    RateLimit echo.MiddlewareFunc
}

// RegisterRoutes exposes the health check.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the guest facing endpoints.  Bookings carry
// guest contact details, so listing them is only available to admins.
func RegisterPublic(e *echo.Echo, h *handler.BookingHandler, d Deps) {
    api := e.Group("/api")
    api.GET("/rooms", h.ListRooms, optional(d.RoomCache)...)
    api.POST("/booking", h.CreateBooking, optional(d.RateLimit)...)
}

// RegisterAdmin registers booking administration under /api/admin.  Every
// route requires a valid token carrying the ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.BookingHandler, d Deps) {
    g := e.Group(
        "/api/admin",
        middleware.JWTAuth(d.JWTSecret),
        middleware.RequireRole(model.RoleAdmin),
    )
    g.GET("/bookings", h.ListBookings)
    g.GET("/bookings/:id", h.GetBooking)
    g.PUT("/bookings/:id/status", h.UpdateStatus)
}

func optional(m echo.MiddlewareFunc) []echo.MiddlewareFunc {
    if m == nil {
        return nil
    }
    return []echo.MiddlewareFunc{m}
}
