package model

import "github.com/shopspring/decimal"

// PriceBreakdown is the deterministic result of composing a selection
// against a pricing catalog.  It is derived data: recomputed on every
// cart mutation, and persisted only as the frozen snapshot on a
// booking.  All figures are exact decimals; rounding happens at
// presentation time only, never here and never in storage.
//
// Fields:
//  UnitPriceAdult       – resolved per-adult price (tier or base, plus
//                         any slot adjustment).
//  UnitPriceChild       – resolved per-child price.
//  ParticipantsSubtotal – UnitPriceAdult*adults + UnitPriceChild*children.
//  AddOnsSubtotal       – sum of add-on unit price times quantity.
//  Total                – ParticipantsSubtotal + AddOnsSubtotal.
//  TierID               – tier the unit prices were resolved from, for
//                         auditability (nil when base pricing applied).
//  TimeSlotID           – slot whose adjustment was applied (nil when
//                         no slot was selected).
type PriceBreakdown struct {
	UnitPriceAdult       decimal.Decimal `json:"unit_price_adult"`
	UnitPriceChild       decimal.Decimal `json:"unit_price_child"`
	ParticipantsSubtotal decimal.Decimal `json:"participants_subtotal"`
	AddOnsSubtotal       decimal.Decimal `json:"add_ons_subtotal"`
	Total                decimal.Decimal `json:"total"`
	TierID               *uint64         `json:"tier_id,omitempty"`
	TimeSlotID           *uint64         `json:"time_slot_id,omitempty"`
}

// DisplayTotal rounds the total half-up to the currency minor unit.
// This is the only place rounding is allowed; stored and compared
// values always use the exact figures.
func (b PriceBreakdown) DisplayTotal() decimal.Decimal {
	return b.Total.Round(2)
}
