// Package timeline projects a booking's status and timestamps into
// the ordered list of lifecycle steps shown on order pages.  Project
// is a pure function with no side effects; it is safe to call
// repeatedly and concurrently.
package timeline

import (
	"time"

	"github.com/iliyamo/activity-booking/internal/lifecycle"
	"github.com/iliyamo/activity-booking/internal/model"
)

// StepState describes how a timeline step is rendered.
type StepState string

const (
	StateCompleted StepState = "completed"
	StateCurrent   StepState = "current"
	StatePending   StepState = "pending"
	StateRejected  StepState = "rejected"
	StateCancelled StepState = "cancelled"
)

// Step is one entry in the projected timeline.
type Step struct {
	Label     string     `json:"label"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	State     StepState  `json:"state"`
	Detail    string     `json:"detail,omitempty"`
}

// Project maps a booking into its display timeline.  The sequence
// always opens with "Order Placed" and then branches on status:
// cancelled and rejected bookings end immediately, pending bookings
// show an unresolved confirmation, and confirmed bookings continue
// through the activity date to completion.  The approval step only
// appears for bookings that actually went through vendor approval.
func Project(b *model.Booking, now time.Time) []Step {
	placed := b.CreatedAt
	steps := []Step{{Label: "Order Placed", Timestamp: &placed, State: StateCompleted}}

	switch b.Status {
	case model.StatusCancelled:
		steps = append(steps, Step{Label: "Order Cancelled", Timestamp: b.CancelledAt, State: StateCancelled})
		return steps

	case model.StatusRejected:
		steps = append(steps,
			Step{Label: "Awaiting Vendor Approval", Timestamp: b.VendorRejectedAt, State: StateCompleted},
			Step{Label: "Booking Rejected", Timestamp: b.VendorRejectedAt, State: StateRejected, Detail: rejectionReason(b)},
		)
		return steps

	case model.StatusPendingVendorApproval:
		steps = append(steps,
			Step{Label: "Awaiting Vendor Approval", State: StateCurrent},
			Step{Label: "Booking Confirmed", State: StatePending},
		)
		return steps
	}

	// Confirmed or completed from here on.
	if b.VendorApprovedAt != nil {
		steps = append(steps, Step{Label: "Awaiting Vendor Approval", Timestamp: b.VendorApprovedAt, State: StateCompleted})
	}
	steps = append(steps, Step{Label: "Booking Confirmed", Timestamp: b.ConfirmedAt, State: StateCompleted})

	if b.Status == model.StatusCompleted {
		steps = append(steps, Step{Label: "Activity Completed", Timestamp: b.CompletedAt, State: StateCompleted})
		return steps
	}

	dateState := StatePending
	if lifecycle.DueForCompletion(b, now) {
		// Date has passed but the sweep has not promoted it yet.
		dateState = StateCompleted
	}
	steps = append(steps, Step{Label: "Activity Date", Timestamp: activityDate(b), State: dateState})
	return steps
}

func rejectionReason(b *model.Booking) string {
	if b.RejectionReason != nil {
		return *b.RejectionReason
	}
	return ""
}

func activityDate(b *model.Booking) *time.Time {
	if d, ok := b.BookingDate(); ok {
		return &d
	}
	return nil
}
