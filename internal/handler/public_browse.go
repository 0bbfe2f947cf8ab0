// This file defines handlers for the public browsing API.  These
// routes let unauthenticated users browse active activities and their
// pricing catalogs.  Vendor-internal fields are filtered from
// responses; list and detail routes sit behind the response cache.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/activity-booking/internal/model"
	"github.com/iliyamo/activity-booking/internal/repository"
)

// PublicHandler serves unauthenticated browsing.
type PublicHandler struct {
	Activities *repository.ActivityRepo
}

func NewPublicHandler(activities *repository.ActivityRepo) *PublicHandler {
	return &PublicHandler{Activities: activities}
}

// activityView is an activity in list responses.
type activityView struct {
	ID                  uint64  `json:"id"`
	Title               string  `json:"title"`
	Slug                string  `json:"slug"`
	Description         *string `json:"description,omitempty"`
	BasePriceAdult      string  `json:"base_price_adult"`
	BasePriceChild      string  `json:"base_price_child"`
	Currency            string  `json:"currency"`
	InstantConfirmation bool    `json:"instant_confirmation"`
	IsActive            bool    `json:"is_active"`
}

func newActivityView(a *model.Activity) activityView {
	return activityView{
		ID:                  a.ID,
		Title:               a.Title,
		Slug:                a.Slug,
		Description:         a.Description,
		BasePriceAdult:      a.BasePriceAdult.String(),
		BasePriceChild:      a.BasePriceChild.String(),
		Currency:            a.Currency,
		InstantConfirmation: a.InstantConfirmation,
		IsActive:            a.IsActive,
	}
}

type tierView struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	PriceAdult  string  `json:"price_adult"`
	PriceChild  *string `json:"price_child,omitempty"`
	Description *string `json:"description,omitempty"`
}

type slotView struct {
	ID              uint64  `json:"id"`
	Label           string  `json:"label"`
	StartTime       string  `json:"start_time"`
	PriceAdjustment string  `json:"price_adjustment"`
	MaxCapacity     *uint32 `json:"max_capacity,omitempty"`
}

type addOnView struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	UnitPrice  string `json:"unit_price"`
	IsOptional bool   `json:"is_optional"`
}

// catalogView is the full bookable shape of one activity.
type catalogView struct {
	Activity  activityView `json:"activity"`
	Tiers     []tierView   `json:"tiers"`
	TimeSlots []slotView   `json:"time_slots"`
	AddOns    []addOnView  `json:"add_ons"`
}

func newCatalogView(c *model.PricingCatalog) catalogView {
	view := catalogView{
		Activity:  newActivityView(&c.Activity),
		Tiers:     []tierView{},
		TimeSlots: []slotView{},
		AddOns:    []addOnView{},
	}
	for _, t := range c.Tiers {
		tv := tierView{ID: t.ID, Name: t.Name, PriceAdult: t.PriceAdult.String(), Description: t.Description}
		if t.PriceChild != nil {
			s := t.PriceChild.String()
			tv.PriceChild = &s
		}
		view.Tiers = append(view.Tiers, tv)
	}
	for _, s := range c.TimeSlots {
		view.TimeSlots = append(view.TimeSlots, slotView{
			ID:              s.ID,
			Label:           s.Label,
			StartTime:       s.StartTime,
			PriceAdjustment: s.PriceAdjustment.String(),
			MaxCapacity:     s.MaxCapacity,
		})
	}
	for _, ao := range c.AddOns {
		view.AddOns = append(view.AddOns, addOnView{
			ID:         ao.ID,
			Name:       ao.Name,
			UnitPrice:  ao.UnitPrice.String(),
			IsOptional: ao.IsOptional,
		})
	}
	return view
}

// ListActivities returns every active activity.
func (h *PublicHandler) ListActivities(c echo.Context) error {
	activities, err := h.Activities.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	views := make([]activityView, 0, len(activities))
	for i := range activities {
		views = append(views, newActivityView(&activities[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"activities": views})
}

// GetActivity returns one activity's full catalog.  Inactive
// activities stay browsable by direct link; they just cannot be added
// to a cart.
func (h *PublicHandler) GetActivity(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	catalog, err := h.Activities.GetCatalog(c.Request().Context(), id)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, newCatalogView(catalog))
}
