package model

// CapacityKey identifies one capacity ledger entry.  Capacity is
// tracked per activity, date and time slot; only slots that declare a
// max_capacity have ledger rows, everything else is unlimited.
//
// Fields:
//  ActivityID – activity being booked.
//  Date       – booking date, YYYY-MM-DD.
//  TimeSlotID – slot whose capacity is capped.
type CapacityKey struct {
	ActivityID uint64 // capacity_ledger.activity_id
	Date       string // capacity_ledger.booking_date
	TimeSlotID uint64 // capacity_ledger.time_slot_id
}
