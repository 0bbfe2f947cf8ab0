// Package handler exposes the HTTP layer.  Handlers bind and validate
// request bodies, call into services or repositories, and translate
// domain errors into JSON responses.  No business rules live here.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-booking/internal/lifecycle"
	"github.com/iliyamo/activity-booking/internal/model"
	"github.com/iliyamo/activity-booking/internal/repository"
)

// getUserID extracts the authenticated user's ID placed in the context
// by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// writeDomainErr maps domain errors onto HTTP responses.  Validation
// failures return the full field list; every other sentinel gets a
// stable status so clients can branch on it.
func writeDomainErr(c echo.Context, err error) error {
	var v *model.ValidationError
	if errors.As(err, &v) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": v.Fields})
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking was modified concurrently, reload and retry"})
	case errors.Is(err, repository.ErrCapacity):
		return c.JSON(http.StatusConflict, echo.Map{"error": "time slot is sold out for the selected date"})
	case errors.Is(err, lifecycle.ErrIllegalTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking status does not allow this action"})
	case errors.Is(err, lifecycle.ErrDateNotArrived):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking date has not arrived"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// bookingView is the JSON shape of a booking in API responses.
type bookingView struct {
	ID                  uint64               `json:"id"`
	Reference           string               `json:"reference"`
	Status              string               `json:"status"`
	ActivityID          uint64               `json:"activity_id"`
	Selection           model.Selection      `json:"selection"`
	Price               model.PriceBreakdown `json:"price"`
	DisplayTotal        string               `json:"display_total"`
	Currency            string               `json:"currency"`
	Customer            model.CustomerInfo   `json:"customer"`
	SpecialRequirements *string              `json:"special_requirements,omitempty"`
	RejectionReason     *string              `json:"rejection_reason,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
	ConfirmedAt         *time.Time           `json:"confirmed_at,omitempty"`
	VendorApprovedAt    *time.Time           `json:"vendor_approved_at,omitempty"`
	VendorRejectedAt    *time.Time           `json:"vendor_rejected_at,omitempty"`
	CancelledAt         *time.Time           `json:"cancelled_at,omitempty"`
	CompletedAt         *time.Time           `json:"completed_at,omitempty"`
	CheckedInAt         *time.Time           `json:"checked_in_at,omitempty"`
}

func newBookingView(b *model.Booking) bookingView {
	return bookingView{
		ID:                  b.ID,
		Reference:           b.Reference,
		Status:              string(b.Status),
		ActivityID:          b.ActivityID,
		Selection:           b.Selection,
		Price:               b.Price,
		DisplayTotal:        b.Price.DisplayTotal().StringFixed(2),
		Currency:            b.Currency,
		Customer:            b.Customer,
		SpecialRequirements: b.SpecialRequirements,
		RejectionReason:     b.RejectionReason,
		CreatedAt:           b.CreatedAt,
		ConfirmedAt:         b.ConfirmedAt,
		VendorApprovedAt:    b.VendorApprovedAt,
		VendorRejectedAt:    b.VendorRejectedAt,
		CancelledAt:         b.CancelledAt,
		CompletedAt:         b.CompletedAt,
		CheckedInAt:         b.CheckedInAt,
	}
}

func newBookingViews(bs []*model.Booking) []bookingView {
	out := make([]bookingView, 0, len(bs))
	for _, b := range bs {
		out = append(out, newBookingView(b))
	}
	return out
}

// cartLineView is the JSON shape of a cart line in API responses.
type cartLineView struct {
	ID           uint64               `json:"id"`
	Selection    model.Selection      `json:"selection"`
	Price        model.PriceBreakdown `json:"price"`
	DisplayTotal string               `json:"display_total"`
	Currency     string               `json:"currency"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

func newCartLineView(l *model.CartLine) cartLineView {
	return cartLineView{
		ID:           l.ID,
		Selection:    l.Selection,
		Price:        l.Price,
		DisplayTotal: l.Price.DisplayTotal().StringFixed(2),
		Currency:     l.Currency,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}
