package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-booking/internal/handler"
	"github.com/iliyamo/activity-booking/internal/middleware"
)

// RegisterVendor registers VENDOR-scoped endpoints under /v1/vendor.
// All routes require a valid JWT and the VENDOR role.  Vendors
// publish activities with their pricing structure and work the
// approval queue for bookings on those activities.
func RegisterVendor(e *echo.Echo, activities *handler.VendorActivityHandler, bookings *handler.VendorBookingHandler, jwtSecret string, mw ...echo.MiddlewareFunc) {
	g := e.Group(
		"/v1/vendor",
		append([]echo.MiddlewareFunc{
			middleware.JWTAuth(jwtSecret),
			middleware.RequireRole("VENDOR"),
		}, mw...)...,
	)

	// ---- Activities ----
	g.POST("/activities", activities.Create)
	g.GET("/activities", activities.List)

	// ---- Bookings ----
	g.GET("/bookings", bookings.List)
	g.GET("/bookings/:id", bookings.Get)
	g.POST("/bookings/:id/approve", bookings.Approve)
	g.POST("/bookings/:id/reject", bookings.Reject)
	g.POST("/bookings/:id/checkin", bookings.CheckIn)
	g.POST("/bookings/:id/cancel", bookings.Cancel)
}
