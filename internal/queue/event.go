// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types published to the booking.events queue.
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
)

// BookingEvent is published when a booking is created or transitions
// to a new status.  It carries enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.  Prices travel as exact decimal strings.
type BookingEvent struct {
	Type           string `json:"type"`
	BookingID      uint64 `json:"booking_id"`
	Reference      string `json:"reference"`
	CustomerID     uint64 `json:"customer_id"`
	ActivityID     uint64 `json:"activity_id"`
	VendorID       uint64 `json:"vendor_id"`
	BookingDate    string `json:"booking_date"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status,omitempty"`
	Reason         string `json:"reason,omitempty"`
	Total          string `json:"total"`
	Currency       string `json:"currency"`
	OccurredAt     string `json:"occurred_at"`
}
