package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/activity-booking/internal/model"
)

var now = time.Date(2026, 9, 20, 12, 0, 0, 0, time.UTC)

func ts(day int) *time.Time {
	t := time.Date(2026, 9, day, 10, 0, 0, 0, time.UTC)
	return &t
}

func base(status model.BookingStatus, date string) *model.Booking {
	return &model.Booking{
		ID:        1,
		Status:    status,
		CreatedAt: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC),
		Selection: model.Selection{ActivityID: 1, Date: date, Adults: 1},
	}
}

func labels(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Label
	}
	return out
}

func TestProjectAlwaysStartsWithOrderPlaced(t *testing.T) {
	for _, status := range []model.BookingStatus{
		model.StatusPendingVendorApproval, model.StatusConfirmed,
		model.StatusRejected, model.StatusCancelled, model.StatusCompleted,
	} {
		steps := Project(base(status, "2026-09-25"), now)
		require.NotEmpty(t, steps)
		assert.Equal(t, "Order Placed", steps[0].Label)
		assert.Equal(t, StateCompleted, steps[0].State)
	}
}

func TestProjectCancelled(t *testing.T) {
	b := base(model.StatusCancelled, "2026-09-25")
	b.CancelledAt = ts(2)
	steps := Project(b, now)
	assert.Equal(t, []string{"Order Placed", "Order Cancelled"}, labels(steps))
	assert.Equal(t, StateCancelled, steps[1].State)
	assert.Equal(t, ts(2), steps[1].Timestamp)
}

func TestProjectRejectedCarriesReason(t *testing.T) {
	b := base(model.StatusRejected, "2026-09-25")
	b.VendorRejectedAt = ts(3)
	reason := "no availability"
	b.RejectionReason = &reason
	steps := Project(b, now)
	assert.Equal(t, []string{"Order Placed", "Awaiting Vendor Approval", "Booking Rejected"}, labels(steps))
	assert.Equal(t, StateCompleted, steps[1].State)
	assert.Equal(t, StateRejected, steps[2].State)
	assert.Equal(t, "no availability", steps[2].Detail)
}

func TestProjectPendingShowsUnresolvedConfirmation(t *testing.T) {
	steps := Project(base(model.StatusPendingVendorApproval, "2026-09-25"), now)
	assert.Equal(t, []string{"Order Placed", "Awaiting Vendor Approval", "Booking Confirmed"}, labels(steps))
	assert.Equal(t, StateCurrent, steps[1].State)
	assert.Equal(t, StatePending, steps[2].State)
}

func TestProjectConfirmedInstant(t *testing.T) {
	// Instant confirmation: no approval step appears.
	b := base(model.StatusConfirmed, "2026-09-25")
	b.ConfirmedAt = ts(1)
	steps := Project(b, now)
	assert.Equal(t, []string{"Order Placed", "Booking Confirmed", "Activity Date"}, labels(steps))
	assert.Equal(t, StatePending, steps[2].State)
}

func TestProjectConfirmedAfterApproval(t *testing.T) {
	b := base(model.StatusConfirmed, "2026-09-25")
	b.VendorApprovedAt = ts(2)
	b.ConfirmedAt = ts(2)
	steps := Project(b, now)
	assert.Equal(t, []string{"Order Placed", "Awaiting Vendor Approval", "Booking Confirmed", "Activity Date"}, labels(steps))
	assert.Equal(t, StateCompleted, steps[1].State)
}

func TestProjectConfirmedPastDateAwaitingSweep(t *testing.T) {
	b := base(model.StatusConfirmed, "2026-09-15")
	b.ConfirmedAt = ts(1)
	steps := Project(b, now)
	last := steps[len(steps)-1]
	assert.Equal(t, "Activity Date", last.Label)
	assert.Equal(t, StateCompleted, last.State)
}

func TestProjectCompleted(t *testing.T) {
	b := base(model.StatusCompleted, "2026-09-15")
	b.VendorApprovedAt = ts(2)
	b.ConfirmedAt = ts(2)
	b.CompletedAt = ts(16)
	steps := Project(b, now)
	assert.Equal(t, []string{"Order Placed", "Awaiting Vendor Approval", "Booking Confirmed", "Activity Completed"}, labels(steps))
	assert.Equal(t, StateCompleted, steps[3].State)
}

func TestProjectIsSideEffectFree(t *testing.T) {
	b := base(model.StatusConfirmed, "2026-09-25")
	before := *b
	_ = Project(b, now)
	_ = Project(b, now)
	assert.Equal(t, before, *b)
}
