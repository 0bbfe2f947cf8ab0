package service

import (
	"context"
	"strings"
	"time"

	"github.com/iliyamo/activity-booking/internal/lifecycle"
	"github.com/iliyamo/activity-booking/internal/model"
	"github.com/iliyamo/activity-booking/internal/pricing"
	"github.com/iliyamo/activity-booking/internal/queue"
	"github.com/iliyamo/activity-booking/internal/repository"
	"github.com/iliyamo/activity-booking/internal/utils"
)

// CapacityLedger reserves and releases per-date slot capacity.
// Satisfied by repository.CapacityRepo.
type CapacityLedger interface {
	Reserve(ctx context.Context, key model.CapacityKey, total uint32) error
	Release(ctx context.Context, key model.CapacityKey) error
}

// BookingCreator inserts new booking records.  Satisfied by
// repository.BookingRepo.
type BookingCreator interface {
	Create(ctx context.Context, b *model.Booking) error
}

// FailedLine reports why one cart line could not be converted.
type FailedLine struct {
	CartLineID uint64 `json:"cart_line_id"`
	Reason     string `json:"reason"`
}

// CheckoutResult is the per-line outcome of a checkout.  Lines are
// independent: some may convert while siblings fail.
type CheckoutResult struct {
	Succeeded []*model.Booking
	Failed    []FailedLine
}

// CheckoutService converts cart lines into bookings.  Each line is
// repriced from the live catalog, reserves slot capacity with a single
// conditional decrement, and becomes a booking with the recomputed
// price frozen in.  Lines succeed or fail independently; a sold-out
// slot on one line never rolls back a sibling.
type CheckoutService struct {
	Catalog  CatalogSource
	Cart     CartStore
	Capacity CapacityLedger
	Bookings BookingCreator
	Events   EventSink

	// NewReference and Now are injectable for tests.
	NewReference func() string
	Now          func() time.Time
}

// NewCheckoutService wires a CheckoutService to its stores.
func NewCheckoutService(catalog CatalogSource, cart CartStore, capacity CapacityLedger, bookings BookingCreator, events EventSink) *CheckoutService {
	return &CheckoutService{
		Catalog:      catalog,
		Cart:         cart,
		Capacity:     capacity,
		Bookings:     bookings,
		Events:       events,
		NewReference: utils.NewBookingReference,
		Now:          time.Now,
	}
}

func validateCustomer(customer model.CustomerInfo) error {
	v := &model.ValidationError{}
	if strings.TrimSpace(customer.Name) == "" {
		v.Add("customer.name", "name is required")
	}
	if strings.TrimSpace(customer.Email) == "" {
		v.Add("customer.email", "email is required")
	} else if !strings.Contains(customer.Email, "@") {
		v.Add("customer.email", "email is invalid")
	}
	return v.ErrOrNil()
}

// Checkout converts the given cart lines for the owner.  The customer
// contact block is validated once up front; each line is then
// converted independently and the caller receives a per-line result
// set.  Duplicate line IDs are collapsed.
func (s *CheckoutService) Checkout(ctx context.Context, ownerID uint64, lineIDs []uint64, customer model.CustomerInfo, specialRequirements *string) (*CheckoutResult, error) {
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}
	if len(lineIDs) == 0 {
		v := &model.ValidationError{}
		v.Add("cart_line_ids", "at least one cart line is required")
		return nil, v
	}

	seen := make(map[uint64]bool, len(lineIDs))
	result := &CheckoutResult{Succeeded: []*model.Booking{}, Failed: []FailedLine{}}
	for _, id := range lineIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		booking, reason := s.convertLine(ctx, ownerID, id, customer, specialRequirements)
		if reason != "" {
			result.Failed = append(result.Failed, FailedLine{CartLineID: id, Reason: reason})
			continue
		}
		result.Succeeded = append(result.Succeeded, booking)
	}
	return result, nil
}

// convertLine performs one line's conversion.  A non-empty reason
// means the line failed and nothing of it was kept: a reserved spot is
// handed back when the booking insert fails.
func (s *CheckoutService) convertLine(ctx context.Context, ownerID, lineID uint64, customer model.CustomerInfo, specialRequirements *string) (*model.Booking, string) {
	line, err := s.Cart.GetForOwner(ctx, lineID, ownerID)
	if err == repository.ErrNotFound {
		return nil, "cart line not found"
	}
	if err != nil {
		return nil, "cart line could not be loaded"
	}

	// Always reprice from the live catalog; the cached line price may
	// be stale.
	catalog, err := s.Catalog.GetCatalog(ctx, line.Selection.ActivityID)
	if err == repository.ErrNotFound {
		return nil, "activity no longer exists"
	}
	if err != nil {
		return nil, "activity could not be loaded"
	}
	if !catalog.Activity.IsActive {
		return nil, "activity is no longer open for booking"
	}
	breakdown, err := pricing.Compose(catalog, line.Selection)
	if err != nil {
		return nil, "selection is no longer valid: " + err.Error()
	}

	reserved := false
	var key model.CapacityKey
	if line.Selection.TimeSlotID != nil {
		if slot := catalog.Slot(*line.Selection.TimeSlotID); slot != nil && slot.MaxCapacity != nil {
			key = model.CapacityKey{
				ActivityID: line.Selection.ActivityID,
				Date:       line.Selection.Date,
				TimeSlotID: *line.Selection.TimeSlotID,
			}
			err := s.Capacity.Reserve(ctx, key, *slot.MaxCapacity)
			if err == repository.ErrCapacity {
				return nil, "time slot is sold out for the selected date"
			}
			if err != nil {
				return nil, "capacity could not be reserved"
			}
			reserved = true
		}
	}

	now := s.Now().UTC()
	booking := &model.Booking{
		Reference:           s.NewReference(),
		CustomerID:          ownerID,
		ActivityID:          catalog.Activity.ID,
		VendorID:            catalog.Activity.VendorID,
		Selection:           line.Selection,
		Price:               breakdown,
		Currency:            catalog.Activity.Currency,
		Status:              lifecycle.Initial(catalog.Activity.InstantConfirmation),
		Customer:            customer,
		SpecialRequirements: specialRequirements,
	}
	if booking.Status == model.StatusConfirmed {
		booking.ConfirmedAt = &now
	}
	if err := s.Bookings.Create(ctx, booking); err != nil {
		if reserved {
			_ = s.Capacity.Release(ctx, key)
		}
		return nil, "booking could not be created"
	}

	// The line served its purpose; a concurrent removal is fine.
	if err := s.Cart.Delete(ctx, lineID, ownerID); err != nil && err != repository.ErrNotFound {
		return booking, ""
	}

	if s.Events != nil {
		_ = s.Events.Publish(ctx, createdEvent(booking))
	}
	return booking, ""
}

func createdEvent(b *model.Booking) queue.BookingEvent {
	return queue.BookingEvent{
		Type:        queue.EventBookingCreated,
		BookingID:   b.ID,
		Reference:   b.Reference,
		CustomerID:  b.CustomerID,
		ActivityID:  b.ActivityID,
		VendorID:    b.VendorID,
		BookingDate: b.Selection.Date,
		Status:      string(b.Status),
		Total:       b.Price.Total.String(),
		Currency:    b.Currency,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}
}

func statusEvent(b *model.Booking, previous model.BookingStatus, reason string) queue.BookingEvent {
	return queue.BookingEvent{
		Type:           queue.EventBookingStatusChanged,
		BookingID:      b.ID,
		Reference:      b.Reference,
		CustomerID:     b.CustomerID,
		ActivityID:     b.ActivityID,
		VendorID:       b.VendorID,
		BookingDate:    b.Selection.Date,
		Status:         string(b.Status),
		PreviousStatus: string(previous),
		Reason:         reason,
		Total:          b.Price.Total.String(),
		Currency:       b.Currency,
		OccurredAt:     time.Now().UTC().Format(time.RFC3339),
	}
}
