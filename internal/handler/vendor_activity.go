package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/activity-booking/internal/model"
	"github.com/iliyamo/activity-booking/internal/repository"
)

// VendorActivityHandler lets vendors publish and list their
// activities with the pricing structure in one request: tiers, time
// slots and add-ons are created together with the activity.
type VendorActivityHandler struct {
	Activities *repository.ActivityRepo
}

func NewVendorActivityHandler(activities *repository.ActivityRepo) *VendorActivityHandler {
	return &VendorActivityHandler{Activities: activities}
}

type tierReq struct {
	Name        string  `json:"name"`
	PriceAdult  string  `json:"price_adult"`
	PriceChild  *string `json:"price_child"`
	Description *string `json:"description"`
}

type slotReq struct {
	Label           string  `json:"label"`
	StartTime       string  `json:"start_time"`
	PriceAdjustment string  `json:"price_adjustment"`
	MaxCapacity     *uint32 `json:"max_capacity"`
}

type addOnReq struct {
	Name       string `json:"name"`
	UnitPrice  string `json:"unit_price"`
	IsOptional *bool  `json:"is_optional"`
}

type createActivityReq struct {
	Title               string     `json:"title"`
	Slug                string     `json:"slug"`
	Description         *string    `json:"description"`
	BasePriceAdult      string     `json:"base_price_adult"`
	BasePriceChild      string     `json:"base_price_child"`
	Currency            string     `json:"currency"`
	InstantConfirmation bool       `json:"instant_confirmation"`
	Tiers               []tierReq  `json:"tiers"`
	TimeSlots           []slotReq  `json:"time_slots"`
	AddOns              []addOnReq `json:"add_ons"`
}

// parsePrice parses a decimal request field, collecting a violation
// when the value is missing or not a number.
func parsePrice(v *model.ValidationError, field, raw string, required bool) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			v.Add(field, "is required")
		}
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		v.Add(field, "must be a decimal number")
		return decimal.Zero
	}
	return d
}

func (r createActivityReq) toModel(vendorID uint64) (model.Activity, []model.PricingTier, []model.TimeSlot, []model.AddOn, error) {
	v := &model.ValidationError{}
	if strings.TrimSpace(r.Title) == "" {
		v.Add("title", "is required")
	}
	if strings.TrimSpace(r.Slug) == "" {
		v.Add("slug", "is required")
	}
	currency := strings.ToUpper(strings.TrimSpace(r.Currency))
	if len(currency) != 3 {
		v.Add("currency", "must be a 3-letter code")
	}

	a := model.Activity{
		VendorID:            vendorID,
		Title:               strings.TrimSpace(r.Title),
		Slug:                strings.TrimSpace(r.Slug),
		Description:         r.Description,
		BasePriceAdult:      parsePrice(v, "base_price_adult", r.BasePriceAdult, true),
		BasePriceChild:      parsePrice(v, "base_price_child", r.BasePriceChild, false),
		Currency:            currency,
		InstantConfirmation: r.InstantConfirmation,
		IsActive:            true,
	}
	if a.BasePriceAdult.IsNegative() {
		v.Add("base_price_adult", "must not be negative")
	}
	if a.BasePriceChild.IsNegative() {
		v.Add("base_price_child", "must not be negative")
	}

	tiers := make([]model.PricingTier, 0, len(r.Tiers))
	for _, t := range r.Tiers {
		if strings.TrimSpace(t.Name) == "" {
			v.Add("tiers.name", "is required")
		}
		tier := model.PricingTier{
			Name:        strings.TrimSpace(t.Name),
			PriceAdult:  parsePrice(v, "tiers.price_adult", t.PriceAdult, true),
			Description: t.Description,
		}
		if tier.PriceAdult.IsNegative() {
			v.Add("tiers.price_adult", "must not be negative")
		}
		if t.PriceChild != nil {
			pc := parsePrice(v, "tiers.price_child", *t.PriceChild, true)
			if pc.IsNegative() {
				v.Add("tiers.price_child", "must not be negative")
			}
			tier.PriceChild = &pc
		}
		tiers = append(tiers, tier)
	}

	slots := make([]model.TimeSlot, 0, len(r.TimeSlots))
	for _, s := range r.TimeSlots {
		if strings.TrimSpace(s.Label) == "" {
			v.Add("time_slots.label", "is required")
		}
		slots = append(slots, model.TimeSlot{
			Label:           strings.TrimSpace(s.Label),
			StartTime:       strings.TrimSpace(s.StartTime),
			PriceAdjustment: parsePrice(v, "time_slots.price_adjustment", s.PriceAdjustment, false),
			MaxCapacity:     s.MaxCapacity,
		})
	}

	addOns := make([]model.AddOn, 0, len(r.AddOns))
	for _, ao := range r.AddOns {
		if strings.TrimSpace(ao.Name) == "" {
			v.Add("add_ons.name", "is required")
		}
		price := parsePrice(v, "add_ons.unit_price", ao.UnitPrice, true)
		if price.IsNegative() {
			v.Add("add_ons.unit_price", "must not be negative")
		}
		optional := true
		if ao.IsOptional != nil {
			optional = *ao.IsOptional
		}
		addOns = append(addOns, model.AddOn{
			Name:       strings.TrimSpace(ao.Name),
			UnitPrice:  price,
			IsOptional: optional,
		})
	}

	if err := v.ErrOrNil(); err != nil {
		return model.Activity{}, nil, nil, nil, err
	}
	return a, tiers, slots, addOns, nil
}

// Create publishes a new activity with its full pricing structure.
func (h *VendorActivityHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createActivityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	a, tiers, slots, addOns, err := req.toModel(uid)
	if err != nil {
		return writeDomainErr(c, err)
	}
	if err := h.Activities.Create(c.Request().Context(), &a, tiers, slots, addOns); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create activity failed"})
	}
	catalog, err := h.Activities.GetCatalog(c.Request().Context(), a.ID)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, newCatalogView(catalog))
}

// List returns the vendor's own activities, active or not.
func (h *VendorActivityHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	activities, err := h.Activities.ListByVendor(c.Request().Context(), uid)
	if err != nil {
		return writeDomainErr(c, err)
	}
	views := make([]activityView, 0, len(activities))
	for i := range activities {
		views = append(views, newActivityView(&activities[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"activities": views})
}
