package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-booking/internal/model"
	"github.com/iliyamo/activity-booking/internal/service"
)

// CheckoutHandler converts cart lines into bookings.
type CheckoutHandler struct {
	Checkout *service.CheckoutService
}

func NewCheckoutHandler(checkout *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{Checkout: checkout}
}

type checkoutReq struct {
	CartLineIDs         []uint64           `json:"cart_line_ids"`
	Customer            model.CustomerInfo `json:"customer"`
	SpecialRequirements string             `json:"special_requirements"`
}

type checkoutResp struct {
	Succeeded []bookingView        `json:"succeeded"`
	Failed    []service.FailedLine `json:"failed"`
}

// Create runs checkout for the authenticated customer.  The response
// always enumerates every requested line: converted bookings under
// "succeeded", the rest under "failed" with a reason.  The status is
// 201 as soon as at least one line converted, 409 when none did.
func (h *CheckoutHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	var special *string
	if s := strings.TrimSpace(req.SpecialRequirements); s != "" {
		special = &s
	}

	result, err := h.Checkout.Checkout(c.Request().Context(), uid, req.CartLineIDs, req.Customer, special)
	if err != nil {
		return writeDomainErr(c, err)
	}

	resp := checkoutResp{Succeeded: newBookingViews(result.Succeeded), Failed: result.Failed}
	status := http.StatusCreated
	if len(result.Succeeded) == 0 {
		status = http.StatusConflict
	}
	return c.JSON(status, resp)
}
