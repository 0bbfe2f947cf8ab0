package model

import "time"

// BookingDateLayout is the wire and storage format for booking dates.
// Dates are calendar days without a time component; time-of-day comes
// from the chosen slot.
const BookingDateLayout = "2006-01-02"

// Selection captures a customer's booking choices for one activity:
// the date, the optional time slot and pricing tier, the participant
// counts and the add-on quantities.  It is the single validated value
// type that flows from the API boundary into pricing. Freeform
// client state is rejected at binding, never trusted downstream.
//
// Fields:
//  ActivityID      – activity being booked.
//  Date            – booking date, YYYY-MM-DD.
//  TimeSlotID      – chosen time slot (nil when the activity has none).
//  TierID          – chosen pricing tier (nil for base pricing).
//  Adults          – number of adults, at least one.
//  Children        – number of children, zero or more.
//  AddOnQuantities – add-on ID to quantity.  Every required add-on
//                    must appear with quantity >= 1; absence is a
//                    validation error, not a zero default.
type Selection struct {
	ActivityID      uint64            `json:"activity_id"`
	Date            string            `json:"date"`
	TimeSlotID      *uint64           `json:"time_slot_id,omitempty"`
	TierID          *uint64           `json:"tier_id,omitempty"`
	Adults          uint32            `json:"adults"`
	Children        uint32            `json:"children"`
	AddOnQuantities map[uint64]uint32 `json:"add_on_quantities,omitempty"`
}

// BookingDate parses the selection's date.  The second return value
// is false when the date is missing or malformed.
func (s Selection) BookingDate() (time.Time, bool) {
	t, err := time.Parse(BookingDateLayout, s.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
