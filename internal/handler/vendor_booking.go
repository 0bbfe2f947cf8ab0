package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-booking/internal/repository"
	"github.com/iliyamo/activity-booking/internal/service"
)

// VendorBookingHandler serves the vendor side of the booking
// lifecycle: the approval queue, approve/reject decisions and day-of
// check-in.  Every action is guarded by vendor ownership of the
// booked activity.
type VendorBookingHandler struct {
	Bookings *service.BookingService
	Repo     *repository.BookingRepo
}

func NewVendorBookingHandler(bookings *service.BookingService, repo *repository.BookingRepo) *VendorBookingHandler {
	return &VendorBookingHandler{Bookings: bookings, Repo: repo}
}

// List returns bookings on the vendor's activities, with optional
// ?status= and ?date= filters for the approval queue and calendar.
func (h *VendorBookingHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	status, ok := statusFilter(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}
	var date *string
	if d := c.QueryParam("date"); d != "" {
		date = &d
	}
	bookings, err := h.Repo.ListByVendor(c.Request().Context(), uid, status, date)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": newBookingViews(bookings)})
}

// Get returns one booking on the vendor's activities.
func (h *VendorBookingHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Bookings.GetForVendor(c.Request().Context(), id, uid)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, newBookingView(b))
}

// Approve confirms a pending booking.
func (h *VendorBookingHandler) Approve(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Bookings.Approve(c.Request().Context(), id, uid)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, newBookingView(b))
}

type rejectReq struct {
	Reason string `json:"reason"`
}

// Reject declines a pending booking.  The reason is mandatory and is
// returned to the customer on their timeline.
func (h *VendorBookingHandler) Reject(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req rejectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	b, err := h.Bookings.Reject(c.Request().Context(), id, uid, req.Reason)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, newBookingView(b))
}

// Cancel cancels a booking on the vendor's activity.
func (h *VendorBookingHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Bookings.CancelByVendor(c.Request().Context(), id, uid)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, newBookingView(b))
}

// CheckIn records day-of attendance on a confirmed booking.  The
// status stays confirmed; completion belongs to the sweep.
func (h *VendorBookingHandler) CheckIn(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	b, err := h.Bookings.CheckIn(c.Request().Context(), id, uid)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, newBookingView(b))
}
