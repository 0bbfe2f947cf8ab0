// Package pricing implements the deterministic price composition
// engine.  Compose is a pure function from a catalog and a selection
// to a price breakdown: same inputs, bit-identical output, no hidden
// state and no rounding of intermediate values.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/activity-booking/internal/model"
)

// Compose resolves a selection against a pricing catalog and returns
// the resulting breakdown.  Resolution order is fixed for
// auditability:
//
//  1. unit prices from the tier when one is selected (tier replaces
//     base; a tier without a child price means child price zero),
//     otherwise from the activity's base prices;
//  2. the time slot's signed adjustment added to both unit prices
//     (per person, not per booking);
//  3. participants subtotal from unit prices and counts;
//  4. add-ons subtotal from catalog unit prices and quantities;
//  5. total as the exact sum of both subtotals.
//
// All structural problems with the selection (unknown tier, slot or
// add-on IDs, zero adults, a required add-on missing or with zero
// quantity, a malformed date) are collected into one
// *model.ValidationError listing every violated field.
func Compose(catalog *model.PricingCatalog, sel model.Selection) (model.PriceBreakdown, error) {
	v := &model.ValidationError{}

	if sel.ActivityID != catalog.Activity.ID {
		v.Add("activity_id", "selection does not belong to this catalog")
	}
	if sel.Adults == 0 {
		v.Add("adults", "at least one adult is required")
	}
	if _, ok := sel.BookingDate(); !ok {
		v.Add("date", "must be a valid date in YYYY-MM-DD format")
	}

	// Step 1: resolve unit prices, tier replacing base entirely.
	unitAdult := catalog.Activity.BasePriceAdult
	unitChild := catalog.Activity.BasePriceChild
	var breakdown model.PriceBreakdown
	if sel.TierID != nil {
		tier := catalog.Tier(*sel.TierID)
		if tier == nil {
			v.Add("tier_id", fmt.Sprintf("unknown pricing tier %d", *sel.TierID))
		} else {
			unitAdult = tier.PriceAdult
			if tier.PriceChild != nil {
				unitChild = *tier.PriceChild
			} else {
				unitChild = decimal.Zero
			}
			id := tier.ID
			breakdown.TierID = &id
		}
	}

	// Step 2: slot adjustment applies to both unit prices equally.
	if sel.TimeSlotID != nil {
		slot := catalog.Slot(*sel.TimeSlotID)
		if slot == nil {
			v.Add("time_slot_id", fmt.Sprintf("unknown time slot %d", *sel.TimeSlotID))
		} else {
			unitAdult = unitAdult.Add(slot.PriceAdjustment)
			unitChild = unitChild.Add(slot.PriceAdjustment)
			id := slot.ID
			breakdown.TimeSlotID = &id
		}
	}

	// Step 4 validation: every requested add-on must exist, and every
	// required add-on must be requested with quantity >= 1.
	addOnsSubtotal := decimal.Zero
	for id, qty := range sel.AddOnQuantities {
		addOn := catalog.AddOnByID(id)
		if addOn == nil {
			v.Add("add_on_quantities", fmt.Sprintf("unknown add-on %d", id))
			continue
		}
		if !addOn.IsOptional && qty == 0 {
			v.Add("add_on_quantities", fmt.Sprintf("add-on %d (%s) is required", id, addOn.Name))
			continue
		}
		addOnsSubtotal = addOnsSubtotal.Add(addOn.UnitPrice.Mul(decimal.NewFromInt(int64(qty))))
	}
	for _, addOn := range catalog.AddOns {
		if addOn.IsOptional {
			continue
		}
		if _, present := sel.AddOnQuantities[addOn.ID]; !present {
			v.Add("add_on_quantities", fmt.Sprintf("add-on %d (%s) is required", addOn.ID, addOn.Name))
		}
	}

	if err := v.ErrOrNil(); err != nil {
		return model.PriceBreakdown{}, err
	}

	// Steps 3 and 5: exact sums, no rounding.
	breakdown.UnitPriceAdult = unitAdult
	breakdown.UnitPriceChild = unitChild
	breakdown.ParticipantsSubtotal = unitAdult.Mul(decimal.NewFromInt(int64(sel.Adults))).
		Add(unitChild.Mul(decimal.NewFromInt(int64(sel.Children))))
	breakdown.AddOnsSubtotal = addOnsSubtotal
	breakdown.Total = breakdown.ParticipantsSubtotal.Add(breakdown.AddOnsSubtotal)
	return breakdown, nil
}
