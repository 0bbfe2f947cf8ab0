// Package lifecycle implements the booking state machine.  The Apply
// functions are pure: they take a booking value, check the transition
// against the exhaustive table, and mutate status and timestamps on
// the copy.  Persistence, and therefore the optimistic-concurrency
// version check, is the caller's concern.
package lifecycle

import (
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/activity-booking/internal/model"
)

// ErrIllegalTransition is returned for any transition attempted from
// a state that does not allow it, including every attempt out of a
// terminal state.  Callers translate it into a conflict response;
// it is never silently ignored.
var ErrIllegalTransition = errors.New("illegal booking status transition")

// ErrDateNotArrived is returned when a vendor attempts to check in a
// booking before its activity date.
var ErrDateNotArrived = errors.New("booking date has not arrived")

// Action identifies a transition trigger.  Actions are driven by the
// customer (cancel), the vendor (approve, reject, check-in) or time
// (complete, applied by the sweep).
type Action string

const (
	ActionApprove  Action = "vendor_approve"
	ActionReject   Action = "vendor_reject"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

// transitions is the exhaustive table of legal status changes.
// Check-in does not appear: it annotates a confirmed booking without
// changing its status.
var transitions = map[model.BookingStatus]map[Action]model.BookingStatus{
	model.StatusPendingVendorApproval: {
		ActionApprove: model.StatusConfirmed,
		ActionReject:  model.StatusRejected,
		ActionCancel:  model.StatusCancelled,
	},
	model.StatusConfirmed: {
		ActionCancel:   model.StatusCancelled,
		ActionComplete: model.StatusCompleted,
	},
}

// Initial returns the state a new booking starts in: confirmed for
// instant-confirmation activities, pending vendor approval otherwise.
func Initial(instantConfirmation bool) model.BookingStatus {
	if instantConfirmation {
		return model.StatusConfirmed
	}
	return model.StatusPendingVendorApproval
}

// Next resolves the target state for an action from the given state,
// or ErrIllegalTransition when the table has no such edge.
func Next(from model.BookingStatus, action Action) (model.BookingStatus, error) {
	if to, ok := transitions[from][action]; ok {
		return to, nil
	}
	return "", ErrIllegalTransition
}

// ReleasesCapacity reports whether moving to the given status hands
// the reserved spot back to the ledger.  Completion never releases
// capacity: the spot was consumed.
func ReleasesCapacity(to model.BookingStatus) bool {
	return to == model.StatusCancelled || to == model.StatusRejected
}

// Approve applies the vendor-approval transition.  Ownership of the
// booking by the acting vendor must be checked by the caller before
// the booking is handed here.
func Approve(b *model.Booking, now time.Time) error {
	next, err := Next(b.Status, ActionApprove)
	if err != nil {
		return err
	}
	b.Status = next
	t := now.UTC()
	b.VendorApprovedAt = &t
	b.ConfirmedAt = &t
	return nil
}

// Reject applies the vendor-rejection transition.  A reason is
// mandatory: an empty or blank reason is a validation failure and no
// transition is applied.
func Reject(b *model.Booking, reason string, now time.Time) error {
	if strings.TrimSpace(reason) == "" {
		v := &model.ValidationError{}
		v.Add("reason", "rejection reason must not be empty")
		return v
	}
	next, err := Next(b.Status, ActionReject)
	if err != nil {
		return err
	}
	b.Status = next
	t := now.UTC()
	b.VendorRejectedAt = &t
	r := reason
	b.RejectionReason = &r
	return nil
}

// Cancel applies the cancellation transition, legal from pending and
// from confirmed states only.
func Cancel(b *model.Booking, now time.Time) error {
	next, err := Next(b.Status, ActionCancel)
	if err != nil {
		return err
	}
	b.Status = next
	t := now.UTC()
	b.CancelledAt = &t
	return nil
}

// Complete applies the time-driven completion transition used by the
// periodic sweep once the activity date has passed.
func Complete(b *model.Booking, now time.Time) error {
	next, err := Next(b.Status, ActionComplete)
	if err != nil {
		return err
	}
	b.Status = next
	t := now.UTC()
	b.CompletedAt = &t
	return nil
}

// CheckIn records the vendor's check-in annotation on a confirmed
// booking.  The status does not change; the booking date must have
// arrived.  Re-checking in refreshes the timestamp rather than
// erroring, since the annotation is idempotent in intent.
func CheckIn(b *model.Booking, now time.Time) error {
	if b.Status != model.StatusConfirmed {
		return ErrIllegalTransition
	}
	date, ok := b.BookingDate()
	if !ok {
		return ErrIllegalTransition
	}
	today := now.UTC().Truncate(24 * time.Hour)
	if today.Before(date) {
		return ErrDateNotArrived
	}
	t := now.UTC()
	b.CheckedInAt = &t
	return nil
}

// DueForCompletion reports whether a booking should be promoted to
// completed: confirmed, with an activity date strictly before today.
func DueForCompletion(b *model.Booking, now time.Time) bool {
	if b.Status != model.StatusConfirmed {
		return false
	}
	date, ok := b.BookingDate()
	if !ok {
		return false
	}
	today := now.UTC().Truncate(24 * time.Hour)
	return date.Before(today)
}
