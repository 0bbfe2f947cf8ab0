package service

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/activity-booking/internal/model"
	"github.com/iliyamo/activity-booking/internal/queue"
	"github.com/iliyamo/activity-booking/internal/repository"
)

// In-memory fakes for the store interfaces.  The capacity fake mirrors
// the SQL ledger's semantics exactly: seed on first reserve, single
// conditional decrement under a lock, release capped at the total.

type fakeCatalog struct {
	catalogs map[uint64]*model.PricingCatalog
}

func (f *fakeCatalog) GetCatalog(_ context.Context, activityID uint64) (*model.PricingCatalog, error) {
	c, ok := f.catalogs[activityID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

type fakeCartStore struct {
	mu     sync.Mutex
	nextID uint64
	lines  map[uint64]*model.CartLine
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{lines: map[uint64]*model.CartLine{}}
}

func (f *fakeCartStore) FindMatch(_ context.Context, ownerID uint64, sel model.Selection) (*model.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.lines {
		if l.OwnerID != ownerID || l.Selection.ActivityID != sel.ActivityID || l.Selection.Date != sel.Date {
			continue
		}
		if (l.Selection.TimeSlotID == nil) != (sel.TimeSlotID == nil) {
			continue
		}
		if sel.TimeSlotID != nil && *l.Selection.TimeSlotID != *sel.TimeSlotID {
			continue
		}
		cp := *l
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCartStore) Create(_ context.Context, line *model.CartLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	line.ID = f.nextID
	cp := *line
	f.lines[line.ID] = &cp
	return nil
}

func (f *fakeCartStore) Update(_ context.Context, line *model.CartLine) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lines[line.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *line
	f.lines[line.ID] = &cp
	return nil
}

func (f *fakeCartStore) GetForOwner(_ context.Context, id, ownerID uint64) (*model.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lines[id]
	if !ok || l.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeCartStore) ListByOwner(_ context.Context, ownerID uint64) ([]*model.CartLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.CartLine{}
	for id := uint64(1); id <= f.nextID; id++ {
		if l, ok := f.lines[id]; ok && l.OwnerID == ownerID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeCartStore) Delete(_ context.Context, id, ownerID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lines[id]
	if !ok || l.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(f.lines, id)
	return nil
}

type fakeCapacity struct {
	mu        sync.Mutex
	remaining map[model.CapacityKey]uint32
	totals    map[model.CapacityKey]uint32
}

func newFakeCapacity() *fakeCapacity {
	return &fakeCapacity{
		remaining: map[model.CapacityKey]uint32{},
		totals:    map[model.CapacityKey]uint32{},
	}
}

func (f *fakeCapacity) Reserve(_ context.Context, key model.CapacityKey, total uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.totals[key]; !ok {
		f.totals[key] = total
		f.remaining[key] = total
	}
	if f.remaining[key] == 0 {
		return repository.ErrCapacity
	}
	f.remaining[key]--
	return nil
}

func (f *fakeCapacity) Release(_ context.Context, key model.CapacityKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.totals[key]; !ok {
		return nil
	}
	if f.remaining[key] < f.totals[key] {
		f.remaining[key]++
	}
	return nil
}

type fakeBookingStore struct {
	mu           sync.Mutex
	nextID       uint64
	bookings     map[uint64]*model.Booking
	failCreate   bool
	conflictNext bool
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: map[uint64]*model.Booking{}}
}

func (f *fakeBookingStore) Create(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return errors.New("insert failed")
	}
	f.nextID++
	b.ID = f.nextID
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeBookingStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) Update(_ context.Context, b *model.Booking, expectedVersion uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conflictNext {
		f.conflictNext = false
		return repository.ErrConflict
	}
	stored, ok := f.bookings[b.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Version != expectedVersion {
		return repository.ErrConflict
	}
	cp := *b
	cp.Version = expectedVersion + 1
	f.bookings[b.ID] = &cp
	b.Version = cp.Version
	return nil
}

func (f *fakeBookingStore) ListDueForCompletion(_ context.Context, today string, limit int) ([]*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*model.Booking{}
	for id := uint64(1); id <= f.nextID; id++ {
		b, ok := f.bookings[id]
		if !ok || b.Status != model.StatusConfirmed || b.Selection.Date >= today {
			continue
		}
		cp := *b
		out = append(out, &cp)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []queue.BookingEvent
}

func (f *fakeEvents) Publish(_ context.Context, ev queue.BookingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeEvents) all() []queue.BookingEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]queue.BookingEvent{}, f.events...)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func u64(v uint64) *uint64 { return &v }

func u32(v uint32) *uint32 { return &v }
