package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-booking/internal/model"
	"github.com/iliyamo/activity-booking/internal/service"
)

// CartHandler exposes the customer's cart.  All routes are mounted
// behind the JWT middleware with the CUSTOMER role.
type CartHandler struct {
	Cart *service.CartService
}

func NewCartHandler(cart *service.CartService) *CartHandler {
	return &CartHandler{Cart: cart}
}

// selectionReq is the request shape shared by add and update.
type selectionReq struct {
	ActivityID      uint64            `json:"activity_id"`
	Date            string            `json:"date"`
	TimeSlotID      *uint64           `json:"time_slot_id"`
	TierID          *uint64           `json:"tier_id"`
	Adults          uint32            `json:"adults"`
	Children        uint32            `json:"children"`
	AddOnQuantities map[uint64]uint32 `json:"add_on_quantities"`
}

func (r selectionReq) selection() model.Selection {
	return model.Selection{
		ActivityID:      r.ActivityID,
		Date:            r.Date,
		TimeSlotID:      r.TimeSlotID,
		TierID:          r.TierID,
		Adults:          r.Adults,
		Children:        r.Children,
		AddOnQuantities: r.AddOnQuantities,
	}
}

// List returns the owner's cart lines with their cached prices.
func (h *CartHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	lines, err := h.Cart.List(c.Request().Context(), uid)
	if err != nil {
		return writeDomainErr(c, err)
	}
	views := make([]cartLineView, 0, len(lines))
	for _, l := range lines {
		views = append(views, newCartLineView(l))
	}
	return c.JSON(http.StatusOK, echo.Map{"lines": views})
}

// Add prices a selection and adds it to the cart, merging into an
// existing line for the same activity, date and slot.
func (h *CartHandler) Add(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req selectionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	line, err := h.Cart.AddLine(c.Request().Context(), uid, req.selection())
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, newCartLineView(line))
}

// Update replaces a line's selection and reprices it.
func (h *CartHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req selectionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	line, err := h.Cart.UpdateLine(c.Request().Context(), uid, id, req.selection())
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, newCartLineView(line))
}

// Remove deletes a cart line.
func (h *CartHandler) Remove(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Cart.RemoveLine(c.Request().Context(), uid, id); err != nil {
		return writeDomainErr(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
