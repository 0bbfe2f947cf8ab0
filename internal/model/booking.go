package model

import (
	"fmt"
	"time"
)

// BookingStatus enumerates the lifecycle states of a booking.  The
// set is closed: transitions between states are governed exclusively
// by the lifecycle package's transition table, never by ad-hoc string
// comparisons.
type BookingStatus string

const (
	// StatusPendingVendorApproval is the initial state of bookings on
	// activities that require vendor approval.
	StatusPendingVendorApproval BookingStatus = "pending_vendor_approval"
	// StatusConfirmed is the initial state for instant-confirmation
	// activities and the state after vendor approval.
	StatusConfirmed BookingStatus = "confirmed"
	// StatusRejected is terminal; reached when the vendor rejects a
	// pending booking.  Always carries a reason.
	StatusRejected BookingStatus = "rejected"
	// StatusCancelled is terminal; reached when the customer or the
	// vendor cancels before completion.
	StatusCancelled BookingStatus = "cancelled"
	// StatusCompleted is terminal; reached by the completion sweep
	// once the activity date has passed without cancellation.
	StatusCompleted BookingStatus = "completed"
)

// legacyStatusPending is a historical alias of pending_vendor_approval
// written by instant-confirmation bookings before their first
// transition.  It is accepted on read so old records stay parseable;
// it is never written for new records.
const legacyStatusPending = "pending"

// ParseBookingStatus converts a stored status string into a
// BookingStatus, mapping the legacy "pending" alias onto
// pending_vendor_approval.  Unknown strings are an error.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case StatusPendingVendorApproval, StatusConfirmed, StatusRejected, StatusCancelled, StatusCompleted:
		return BookingStatus(s), nil
	}
	if s == legacyStatusPending {
		return StatusPendingVendorApproval, nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}

// Terminal reports whether the status accepts no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusCompleted
}

// CustomerInfo is the contact block captured at checkout.  It is part
// of the immutable booking record, not a reference to the user row,
// so later account edits do not rewrite history.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Booking is an order record created exactly once at checkout.  The
// price breakdown and selection are frozen snapshots, immune to
// later catalog changes, and everything except the status, its
// transition timestamps and the check-in annotation is immutable
// after creation.  Version supports optimistic concurrency: every
// status write increments it and is conditional on the value read.
//
// Fields:
//  ID                  – primary key identifier.
//  Reference           – unique, externally shown booking code.
//  CustomerID          – user who placed the booking.
//  ActivityID          – booked activity.
//  VendorID            – vendor owning the activity, denormalized for
//                        approval guards and vendor listings.
//  Selection           – frozen selection snapshot.
//  Price               – frozen price breakdown.
//  Currency            – currency of every price figure.
//  Status              – lifecycle state.
//  Version             – optimistic concurrency counter.
//  Customer            – contact block captured at checkout.
//  SpecialRequirements – optional free-text requests.
//  RejectionReason     – reason recorded on rejection (required then).
//  CreatedAt           – when the booking was placed.
//  ConfirmedAt         – when it became confirmed.
//  VendorApprovedAt    – when the vendor approved (nil for instant
//                        confirmation bookings).
//  VendorRejectedAt    – when the vendor rejected.
//  CancelledAt         – when it was cancelled.
//  CompletedAt         – when the sweep completed it.
//  CheckedInAt         – vendor check-in annotation; not a status.
type Booking struct {
	ID                  uint64         // bookings.id
	Reference           string         // bookings.reference
	CustomerID          uint64         // bookings.customer_id
	ActivityID          uint64         // bookings.activity_id
	VendorID            uint64         // bookings.vendor_id
	Selection           Selection      // bookings.selection (JSON)
	Price               PriceBreakdown // bookings.unit_price_adult .. bookings.total
	Currency            string         // bookings.currency
	Status              BookingStatus  // bookings.status
	Version             uint64         // bookings.version
	Customer            CustomerInfo   // bookings.customer_name/email/phone
	SpecialRequirements *string        // bookings.special_requirements (nullable)
	RejectionReason     *string        // bookings.rejection_reason (nullable)
	CreatedAt           time.Time      // bookings.created_at
	ConfirmedAt         *time.Time     // bookings.confirmed_at (nullable)
	VendorApprovedAt    *time.Time     // bookings.vendor_approved_at (nullable)
	VendorRejectedAt    *time.Time     // bookings.vendor_rejected_at (nullable)
	CancelledAt         *time.Time     // bookings.cancelled_at (nullable)
	CompletedAt         *time.Time     // bookings.completed_at (nullable)
	CheckedInAt         *time.Time     // bookings.checked_in_at (nullable)
}

// BookingDate parses the frozen selection's date.  Bookings are only
// created from validated selections, so a malformed date indicates a
// corrupted record.
func (b *Booking) BookingDate() (time.Time, bool) {
	return b.Selection.BookingDate()
}
