package service

import (
	"context"
	"log"
	"time"

	"github.com/iliyamo/activity-booking/internal/lifecycle"
	"github.com/iliyamo/activity-booking/internal/model"
	"github.com/iliyamo/activity-booking/internal/repository"
)

// CompletionStore lists and transitions bookings due for completion.
// Satisfied by repository.BookingRepo.
type CompletionStore interface {
	ListDueForCompletion(ctx context.Context, today string, limit int) ([]*model.Booking, error)
	Update(ctx context.Context, b *model.Booking, expectedVersion uint64) error
}

// CompletionSweeper promotes confirmed bookings whose date has passed
// to completed.  The sweep is idempotent: a booking already moved on
// by a concurrent transition fails its version check and is skipped,
// and a second run finds nothing left to promote.
type CompletionSweeper struct {
	Bookings CompletionStore
	Events   EventSink

	Interval  time.Duration
	BatchSize int
	Now       func() time.Time
}

// NewCompletionSweeper builds a sweeper with the given interval.
func NewCompletionSweeper(bookings CompletionStore, events EventSink, interval time.Duration) *CompletionSweeper {
	return &CompletionSweeper{
		Bookings:  bookings,
		Events:    events,
		Interval:  interval,
		BatchSize: 500,
		Now:       time.Now,
	}
}

// SweepOnce promotes one batch of due bookings and reports how many
// were completed.  Version conflicts are skipped, not retried; the
// next run picks up whatever is still due.
func (s *CompletionSweeper) SweepOnce(ctx context.Context) (int, error) {
	now := s.Now()
	today := now.UTC().Format(model.BookingDateLayout)
	due, err := s.Bookings.ListDueForCompletion(ctx, today, s.BatchSize)
	if err != nil {
		return 0, err
	}
	completed := 0
	for _, b := range due {
		if !lifecycle.DueForCompletion(b, now) {
			continue
		}
		previous, version := b.Status, b.Version
		if err := lifecycle.Complete(b, now); err != nil {
			continue
		}
		err := s.Bookings.Update(ctx, b, version)
		if err == repository.ErrConflict {
			continue
		}
		if err != nil {
			return completed, err
		}
		completed++
		if s.Events != nil {
			_ = s.Events.Publish(ctx, statusEvent(b, previous, ""))
		}
	}
	return completed, nil
}

// Run sweeps immediately and then on every interval tick until the
// context is cancelled.
func (s *CompletionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		if n, err := s.SweepOnce(ctx); err != nil {
			log.Printf("completion-sweep: %v", err)
		} else if n > 0 {
			log.Printf("completion-sweep: completed %d bookings", n)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
