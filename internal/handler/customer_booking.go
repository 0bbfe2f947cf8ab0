package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-booking/internal/model"
	"github.com/iliyamo/activity-booking/internal/repository"
	"github.com/iliyamo/activity-booking/internal/service"
)

// CustomerBookingHandler serves a customer's own bookings: listing,
// detail, the projected order timeline and cancellation.
type CustomerBookingHandler struct {
	Bookings *service.BookingService
	Repo     *repository.BookingRepo
}

func NewCustomerBookingHandler(bookings *service.BookingService, repo *repository.BookingRepo) *CustomerBookingHandler {
	return &CustomerBookingHandler{Bookings: bookings, Repo: repo}
}

// statusFilter parses an optional ?status= query parameter.  The
// legacy "pending" value is accepted as an alias.
func statusFilter(c echo.Context) (*model.BookingStatus, bool) {
	raw := c.QueryParam("status")
	if raw == "" {
		return nil, true
	}
	s, err := model.ParseBookingStatus(raw)
	if err != nil {
		return nil, false
	}
	return &s, true
}

// List returns the customer's bookings, newest first.
func (h *CustomerBookingHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	status, ok := statusFilter(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	bookings, err := h.Repo.ListByCustomer(c.Request().Context(), uid, status)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": newBookingViews(bookings)})
}

// Get returns one booking the customer owns.
func (h *CustomerBookingHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Bookings.GetForCustomer(c.Request().Context(), id, uid)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, newBookingView(b))
}

// Timeline returns the ordered display steps for a booking.
func (h *CustomerBookingHandler) Timeline(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	steps, err := h.Bookings.Timeline(c.Request().Context(), id, uid)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"steps": steps})
}

// Cancel cancels the customer's booking.  Legal while pending or
// confirmed; a capped slot's spot is handed back.
func (h *CustomerBookingHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Bookings.Cancel(c.Request().Context(), id, uid)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, newBookingView(b))
}
