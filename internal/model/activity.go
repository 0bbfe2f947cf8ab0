package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Activity represents a bookable travel activity published by a
// vendor.  The base prices on the activity are the default per-person
// rates; pricing tiers, time slots and add-ons refine them.  Prices
// are exact decimals; arithmetic on them never rounds.
//
// Fields:
//  ID                  – primary key identifier.
//  VendorID            – user ID of the owning vendor.
//  Title               – display title of the activity.
//  Slug                – unique URL-friendly identifier.
//  Description         – optional long description.
//  BasePriceAdult      – default price per adult.
//  BasePriceChild      – default price per child (zero when children
//                        are free or not priced separately).
//  Currency            – ISO 4217 code carried on every price figure.
//  InstantConfirmation – when true, new bookings start confirmed and
//                        skip vendor approval.
//  IsActive            – whether the activity is open for booking.
//  CreatedAt           – creation timestamp.
//  UpdatedAt           – last update timestamp.
type Activity struct {
	ID                  uint64          // activities.id
	VendorID            uint64          // activities.vendor_id
	Title               string          // activities.title
	Slug                string          // activities.slug
	Description         *string         // activities.description (nullable)
	BasePriceAdult      decimal.Decimal // activities.base_price_adult
	BasePriceChild      decimal.Decimal // activities.base_price_child
	Currency            string          // activities.currency
	InstantConfirmation bool            // activities.instant_confirmation
	IsActive            bool            // activities.is_active
	CreatedAt           time.Time       // activities.created_at
	UpdatedAt           time.Time       // activities.updated_at
}

// PricingTier is a named alternative price point for an activity
// (e.g. Standard/VIP).  When selected it replaces the activity's base
// adult/child prices entirely; a tier without a child price means
// children at this tier are priced at zero.
//
// Fields:
//  ID          – primary key identifier.
//  ActivityID  – owning activity.
//  Name        – tier label shown to customers.
//  PriceAdult  – adult price for this tier.
//  PriceChild  – child price for this tier (nil when omitted).
//  Description – optional marketing copy.
type PricingTier struct {
	ID          uint64           // activity_pricing_tiers.id
	ActivityID  uint64           // activity_pricing_tiers.activity_id
	Name        string           // activity_pricing_tiers.tier_name
	PriceAdult  decimal.Decimal  // activity_pricing_tiers.price_adult
	PriceChild  *decimal.Decimal // activity_pricing_tiers.price_child (nullable)
	Description *string          // activity_pricing_tiers.description (nullable)
}

// TimeSlot is a bookable time-of-day option.  Its price adjustment is
// signed and applies per person to both the adult and the child unit
// price.  MaxCapacity, when set, caps how many bookings the slot
// accepts per date; nil means unlimited.
//
// Fields:
//  ID              – primary key identifier.
//  ActivityID      – owning activity.
//  Label           – slot label (e.g. "Morning").
//  StartTime       – time of day in HH:MM, informational.
//  PriceAdjustment – signed per-person adjustment.
//  MaxCapacity     – optional per-date booking cap.
type TimeSlot struct {
	ID              uint64          // activity_time_slots.id
	ActivityID      uint64          // activity_time_slots.activity_id
	Label           string          // activity_time_slots.slot_label
	StartTime       string          // activity_time_slots.slot_time
	PriceAdjustment decimal.Decimal // activity_time_slots.price_adjustment
	MaxCapacity     *uint32         // activity_time_slots.max_capacity (nullable)
}

// AddOn is an extra purchasable alongside the activity at a flat
// per-unit price.  Required add-ons (IsOptional = false) must appear
// in every selection with a quantity of at least one.
//
// Fields:
//  ID         – primary key identifier.
//  ActivityID – owning activity.
//  Name       – add-on label shown to customers.
//  UnitPrice  – non-negative price per unit.
//  IsOptional – whether the add-on may be skipped.
type AddOn struct {
	ID         uint64          // activity_add_ons.id
	ActivityID uint64          // activity_add_ons.activity_id
	Name       string          // activity_add_ons.name
	UnitPrice  decimal.Decimal // activity_add_ons.unit_price
	IsOptional bool            // activity_add_ons.is_optional
}

// PricingCatalog bundles an activity with its tiers, time slots and
// add-ons.  It is the read-only price source for the composer; the
// catalog must be re-read fresh at checkout rather than trusted from
// a cached cart line.
type PricingCatalog struct {
	Activity  Activity
	Tiers     []PricingTier
	TimeSlots []TimeSlot
	AddOns    []AddOn
}

// Tier returns the tier with the given ID, or nil when the catalog
// has no such tier.
func (c *PricingCatalog) Tier(id uint64) *PricingTier {
	for i := range c.Tiers {
		if c.Tiers[i].ID == id {
			return &c.Tiers[i]
		}
	}
	return nil
}

// Slot returns the time slot with the given ID, or nil when the
// catalog has no such slot.
func (c *PricingCatalog) Slot(id uint64) *TimeSlot {
	for i := range c.TimeSlots {
		if c.TimeSlots[i].ID == id {
			return &c.TimeSlots[i]
		}
	}
	return nil
}

// AddOnByID returns the add-on with the given ID, or nil when the
// catalog has no such add-on.
func (c *PricingCatalog) AddOnByID(id uint64) *AddOn {
	for i := range c.AddOns {
		if c.AddOns[i].ID == id {
			return &c.AddOns[i]
		}
	}
	return nil
}
