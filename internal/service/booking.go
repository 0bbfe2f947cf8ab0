package service

import (
	"context"
	"time"

	"github.com/iliyamo/activity-booking/internal/lifecycle"
	"github.com/iliyamo/activity-booking/internal/model"
	"github.com/iliyamo/activity-booking/internal/repository"
	"github.com/iliyamo/activity-booking/internal/timeline"
)

// BookingStore reads and transitions booking records.  Update is
// version-conditional: it returns repository.ErrConflict when the row
// moved on since the read.  Satisfied by repository.BookingRepo.
type BookingStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	Update(ctx context.Context, b *model.Booking, expectedVersion uint64) error
}

// BookingService applies lifecycle transitions on behalf of customers
// and vendors.  Every transition follows the same shape: load, guard
// ownership, apply the pure lifecycle function, write under the
// version read, then release capacity and publish an event.  A
// conflicting concurrent writer surfaces as repository.ErrConflict and
// nothing is retried here.
type BookingService struct {
	Bookings BookingStore
	Capacity CapacityLedger
	Events   EventSink

	Now func() time.Time
}

// NewBookingService wires a BookingService to its stores.
func NewBookingService(bookings BookingStore, capacity CapacityLedger, events EventSink) *BookingService {
	return &BookingService{Bookings: bookings, Capacity: capacity, Events: events, Now: time.Now}
}

// GetForCustomer returns a booking the given customer owns.
func (s *BookingService) GetForCustomer(ctx context.Context, id, customerID uint64) (*model.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, repository.ErrForbidden
	}
	return b, nil
}

// GetForVendor returns a booking on one of the given vendor's
// activities.
func (s *BookingService) GetForVendor(ctx context.Context, id, vendorID uint64) (*model.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.VendorID != vendorID {
		return nil, repository.ErrForbidden
	}
	return b, nil
}

// Timeline projects the customer-facing order timeline for a booking
// the customer owns.
func (s *BookingService) Timeline(ctx context.Context, id, customerID uint64) ([]timeline.Step, error) {
	b, err := s.GetForCustomer(ctx, id, customerID)
	if err != nil {
		return nil, err
	}
	return timeline.Project(b, s.Now()), nil
}

// transition persists an applied lifecycle change and runs its side
// effects.  The booking passed in has already been mutated by a pure
// lifecycle function; expectedVersion is the version read before that.
func (s *BookingService) transition(ctx context.Context, b *model.Booking, expectedVersion uint64, previous model.BookingStatus, reason string) error {
	if err := s.Bookings.Update(ctx, b, expectedVersion); err != nil {
		return err
	}
	if lifecycle.ReleasesCapacity(b.Status) && b.Selection.TimeSlotID != nil {
		// Release no-ops for uncapped slots; the ledger has no row.
		_ = s.Capacity.Release(ctx, model.CapacityKey{
			ActivityID: b.ActivityID,
			Date:       b.Selection.Date,
			TimeSlotID: *b.Selection.TimeSlotID,
		})
	}
	if s.Events != nil {
		_ = s.Events.Publish(ctx, statusEvent(b, previous, reason))
	}
	return nil
}

// Approve confirms a pending booking on behalf of its vendor.
func (s *BookingService) Approve(ctx context.Context, id, vendorID uint64) (*model.Booking, error) {
	b, err := s.GetForVendor(ctx, id, vendorID)
	if err != nil {
		return nil, err
	}
	previous, version := b.Status, b.Version
	if err := lifecycle.Approve(b, s.Now()); err != nil {
		return nil, err
	}
	if err := s.transition(ctx, b, version, previous, ""); err != nil {
		return nil, err
	}
	return b, nil
}

// Reject declines a pending booking on behalf of its vendor.  The
// reason is mandatory and is recorded on the booking.
func (s *BookingService) Reject(ctx context.Context, id, vendorID uint64, reason string) (*model.Booking, error) {
	b, err := s.GetForVendor(ctx, id, vendorID)
	if err != nil {
		return nil, err
	}
	previous, version := b.Status, b.Version
	if err := lifecycle.Reject(b, reason, s.Now()); err != nil {
		return nil, err
	}
	if err := s.transition(ctx, b, version, previous, reason); err != nil {
		return nil, err
	}
	return b, nil
}

// Cancel cancels a booking on behalf of its customer.  Legal from the
// pending and confirmed states only.
func (s *BookingService) Cancel(ctx context.Context, id, customerID uint64) (*model.Booking, error) {
	b, err := s.GetForCustomer(ctx, id, customerID)
	if err != nil {
		return nil, err
	}
	previous, version := b.Status, b.Version
	if err := lifecycle.Cancel(b, s.Now()); err != nil {
		return nil, err
	}
	if err := s.transition(ctx, b, version, previous, ""); err != nil {
		return nil, err
	}
	return b, nil
}

// CancelByVendor cancels a booking on behalf of the vendor owning the
// activity, e.g. when the activity is called off for that day.
func (s *BookingService) CancelByVendor(ctx context.Context, id, vendorID uint64) (*model.Booking, error) {
	b, err := s.GetForVendor(ctx, id, vendorID)
	if err != nil {
		return nil, err
	}
	previous, version := b.Status, b.Version
	if err := lifecycle.Cancel(b, s.Now()); err != nil {
		return nil, err
	}
	if err := s.transition(ctx, b, version, previous, ""); err != nil {
		return nil, err
	}
	return b, nil
}

// CheckIn records the vendor's check-in annotation on a confirmed
// booking whose date has arrived.  The status does not change, so no
// event is published and no capacity moves; the write is still
// version-guarded.
func (s *BookingService) CheckIn(ctx context.Context, id, vendorID uint64) (*model.Booking, error) {
	b, err := s.GetForVendor(ctx, id, vendorID)
	if err != nil {
		return nil, err
	}
	version := b.Version
	if err := lifecycle.CheckIn(b, s.Now()); err != nil {
		return nil, err
	}
	if err := s.Bookings.Update(ctx, b, version); err != nil {
		return nil, err
	}
	return b, nil
}
