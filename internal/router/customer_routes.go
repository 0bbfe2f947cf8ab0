package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-booking/internal/handler"
	"github.com/iliyamo/activity-booking/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.
// All routes require a valid JWT and the CUSTOMER role.  Customers
// maintain a cart, convert it at checkout and manage their own
// bookings.  Extra middleware (the rate limiter) applies to the whole
// group.
func RegisterCustomer(e *echo.Echo, cart *handler.CartHandler, checkout *handler.CheckoutHandler, bookings *handler.CustomerBookingHandler, jwtSecret string, mw ...echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		append([]echo.MiddlewareFunc{
			middleware.JWTAuth(jwtSecret),
			middleware.RequireRole("CUSTOMER"),
		}, mw...)...,
	)

	// ---- Cart ----
	g.GET("/cart", cart.List)
	g.POST("/cart", cart.Add)
	g.PUT("/cart/:id", cart.Update)
	g.DELETE("/cart/:id", cart.Remove)

	// ---- Checkout ----
	g.POST("/checkout", checkout.Create)

	// ---- Bookings ----
	g.GET("/bookings", bookings.List)
	g.GET("/bookings/:id", bookings.Get)
	g.GET("/bookings/:id/timeline", bookings.Timeline)
	g.POST("/bookings/:id/cancel", bookings.Cancel)
}
