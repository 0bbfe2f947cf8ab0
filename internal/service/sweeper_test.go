package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/activity-booking/internal/model"
	"github.com/iliyamo/activity-booking/internal/queue"
)

func newTestSweeper() (*CompletionSweeper, *fakeBookingStore, *fakeEvents) {
	bookings := newFakeBookingStore()
	events := &fakeEvents{}
	sw := NewCompletionSweeper(bookings, events, time.Hour)
	sw.Now = func() time.Time { return time.Date(2026, 9, 1, 3, 0, 0, 0, time.UTC) }
	return sw, bookings, events
}

func TestSweepCompletesPastConfirmed(t *testing.T) {
	sw, store, events := newTestSweeper()
	past := seedBooking(t, store, model.StatusConfirmed, "2026-08-30")
	today := seedBooking(t, store, model.StatusConfirmed, "2026-09-01")
	pendingPast := seedBooking(t, store, model.StatusPendingVendorApproval, "2026-08-30")
	cancelled := seedBooking(t, store, model.StatusCancelled, "2026-08-30")

	n, err := sw.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	b, _ := store.GetByID(context.Background(), past.ID)
	assert.Equal(t, model.StatusCompleted, b.Status)
	assert.NotNil(t, b.CompletedAt)

	// Same-day bookings are not due; only strictly past dates are.
	b, _ = store.GetByID(context.Background(), today.ID)
	assert.Equal(t, model.StatusConfirmed, b.Status)

	// Pending bookings never auto-complete, even past their date.
	b, _ = store.GetByID(context.Background(), pendingPast.ID)
	assert.Equal(t, model.StatusPendingVendorApproval, b.Status)

	b, _ = store.GetByID(context.Background(), cancelled.ID)
	assert.Equal(t, model.StatusCancelled, b.Status)

	evs := events.all()
	require.Len(t, evs, 1)
	assert.Equal(t, queue.EventBookingStatusChanged, evs[0].Type)
	assert.Equal(t, string(model.StatusCompleted), evs[0].Status)
}

func TestSweepIsIdempotent(t *testing.T) {
	sw, store, _ := newTestSweeper()
	b := seedBooking(t, store, model.StatusConfirmed, "2026-08-30")

	n, err := sw.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	first, _ := store.GetByID(context.Background(), b.ID)

	n, err = sw.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	second, _ := store.GetByID(context.Background(), b.ID)
	assert.Equal(t, first.CompletedAt, second.CompletedAt)
	assert.Equal(t, first.Version, second.Version)
}

func TestSweepSkipsConflicts(t *testing.T) {
	sw, store, events := newTestSweeper()
	seedBooking(t, store, model.StatusConfirmed, "2026-08-30")
	seedBooking(t, store, model.StatusConfirmed, "2026-08-29")
	store.conflictNext = true

	// The first update loses its version race; the sweep moves on and
	// still completes the second booking.
	n, err := sw.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, events.all(), 1)
}
