package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/activity-booking/internal/model"
)

var now = time.Date(2026, 9, 20, 12, 0, 0, 0, time.UTC)

func booking(status model.BookingStatus, date string) *model.Booking {
	return &model.Booking{
		ID:        1,
		Status:    status,
		Selection: model.Selection{ActivityID: 1, Date: date, Adults: 2},
	}
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, model.StatusConfirmed, Initial(true))
	assert.Equal(t, model.StatusPendingVendorApproval, Initial(false))
}

func TestApproveFromPending(t *testing.T) {
	b := booking(model.StatusPendingVendorApproval, "2026-09-25")
	require.NoError(t, Approve(b, now))
	assert.Equal(t, model.StatusConfirmed, b.Status)
	require.NotNil(t, b.VendorApprovedAt)
	require.NotNil(t, b.ConfirmedAt)
}

func TestRejectRequiresReason(t *testing.T) {
	b := booking(model.StatusPendingVendorApproval, "2026-09-25")
	err := Reject(b, "   ", now)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "reason", verr.Fields[0].Field)
	// No transition was applied.
	assert.Equal(t, model.StatusPendingVendorApproval, b.Status)
	assert.Nil(t, b.VendorRejectedAt)
}

func TestRejectFromPending(t *testing.T) {
	b := booking(model.StatusPendingVendorApproval, "2026-09-25")
	require.NoError(t, Reject(b, "fully booked that day", now))
	assert.Equal(t, model.StatusRejected, b.Status)
	require.NotNil(t, b.RejectionReason)
	assert.Equal(t, "fully booked that day", *b.RejectionReason)
	require.NotNil(t, b.VendorRejectedAt)
}

func TestRejectConfirmedIsConflict(t *testing.T) {
	b := booking(model.StatusConfirmed, "2026-09-25")
	err := Reject(b, "too late", now)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, model.StatusConfirmed, b.Status)
}

func TestCancelFromPendingAndConfirmed(t *testing.T) {
	for _, from := range []model.BookingStatus{model.StatusPendingVendorApproval, model.StatusConfirmed} {
		b := booking(from, "2026-09-25")
		require.NoError(t, Cancel(b, now))
		assert.Equal(t, model.StatusCancelled, b.Status)
		require.NotNil(t, b.CancelledAt)
	}
}

func TestTerminalStatesAcceptNothing(t *testing.T) {
	terminals := []model.BookingStatus{model.StatusRejected, model.StatusCancelled, model.StatusCompleted}
	for _, status := range terminals {
		t.Run(string(status), func(t *testing.T) {
			b := booking(status, "2026-09-10")
			assert.ErrorIs(t, Approve(b, now), ErrIllegalTransition)
			assert.ErrorIs(t, Reject(b, "reason", now), ErrIllegalTransition)
			assert.ErrorIs(t, Cancel(b, now), ErrIllegalTransition)
			assert.ErrorIs(t, Complete(b, now), ErrIllegalTransition)
			assert.ErrorIs(t, CheckIn(b, now), ErrIllegalTransition)
			// Record unchanged throughout.
			assert.Equal(t, status, b.Status)
			assert.Nil(t, b.CheckedInAt)
		})
	}
}

func TestCheckInKeepsStatusConfirmed(t *testing.T) {
	b := booking(model.StatusConfirmed, "2026-09-20")
	require.NoError(t, CheckIn(b, now))
	assert.Equal(t, model.StatusConfirmed, b.Status)
	require.NotNil(t, b.CheckedInAt)
}

func TestCheckInBeforeDateRejected(t *testing.T) {
	b := booking(model.StatusConfirmed, "2026-09-25")
	assert.ErrorIs(t, CheckIn(b, now), ErrDateNotArrived)
	assert.Nil(t, b.CheckedInAt)
}

func TestCompleteFromConfirmed(t *testing.T) {
	b := booking(model.StatusConfirmed, "2026-09-10")
	require.NoError(t, Complete(b, now))
	assert.Equal(t, model.StatusCompleted, b.Status)
	require.NotNil(t, b.CompletedAt)
}

func TestDueForCompletion(t *testing.T) {
	assert.True(t, DueForCompletion(booking(model.StatusConfirmed, "2026-09-19"), now))
	// Same-day bookings are not yet due.
	assert.False(t, DueForCompletion(booking(model.StatusConfirmed, "2026-09-20"), now))
	assert.False(t, DueForCompletion(booking(model.StatusPendingVendorApproval, "2026-09-01"), now))
	assert.False(t, DueForCompletion(booking(model.StatusCancelled, "2026-09-01"), now))
}

func TestReleasesCapacity(t *testing.T) {
	assert.True(t, ReleasesCapacity(model.StatusCancelled))
	assert.True(t, ReleasesCapacity(model.StatusRejected))
	assert.False(t, ReleasesCapacity(model.StatusCompleted))
	assert.False(t, ReleasesCapacity(model.StatusConfirmed))
}

func TestParseBookingStatusLegacyAlias(t *testing.T) {
	s, err := model.ParseBookingStatus("pending")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPendingVendorApproval, s)

	_, err = model.ParseBookingStatus("shipped")
	assert.Error(t, err)
}
