package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/activity-booking/internal/model"
)

// CapacityRepo is the authoritative remaining-availability ledger,
// one row per (activity, date, time slot).  Rows exist only for slots
// that declare a max_capacity and are seeded lazily on the first
// reservation for that date.  Reserve and Release are each a single
// conditional statement, so concurrent checkouts can never take the
// same last spot: there is no separate check-then-decrement window.
type CapacityRepo struct {
	db *sql.DB
}

// NewCapacityRepo returns a new CapacityRepo bound to the given database.
func NewCapacityRepo(db *sql.DB) *CapacityRepo { return &CapacityRepo{db: db} }

// Reserve takes one spot for the key, seeding the ledger row from the
// slot's total on first use.  When the slot is sold out for that date
// the conditional decrement affects no row and ErrCapacity is
// returned.
func (r *CapacityRepo) Reserve(ctx context.Context, key model.CapacityKey, total uint32) error {
	// Seed the row if this is the first reservation for the key.
	// INSERT IGNORE keeps this idempotent under concurrency.
	if _, err := r.db.ExecContext(ctx,
		`INSERT IGNORE INTO capacity_ledger (activity_id, booking_date, time_slot_id, remaining, total)
		 VALUES (?, ?, ?, ?, ?)`,
		key.ActivityID, key.Date, key.TimeSlotID, total, total); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE capacity_ledger SET remaining = remaining - 1
		 WHERE activity_id = ? AND booking_date = ? AND time_slot_id = ? AND remaining > 0`,
		key.ActivityID, key.Date, key.TimeSlotID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCapacity
	}
	return nil
}

// Release hands one spot back after a cancellation or rejection.
// LEAST caps the counter at the slot total so repeated releases can
// never mint capacity.  A missing row means the slot never had a cap;
// that is not an error.
func (r *CapacityRepo) Release(ctx context.Context, key model.CapacityKey) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE capacity_ledger SET remaining = LEAST(remaining + 1, total)
		 WHERE activity_id = ? AND booking_date = ? AND time_slot_id = ?`,
		key.ActivityID, key.Date, key.TimeSlotID)
	return err
}

// Remaining reports the spots left for a key.  When no ledger row
// exists the slot is uncapped and ok is false.
func (r *CapacityRepo) Remaining(ctx context.Context, key model.CapacityKey) (uint32, bool, error) {
	var remaining uint32
	err := r.db.QueryRowContext(ctx,
		`SELECT remaining FROM capacity_ledger WHERE activity_id = ? AND booking_date = ? AND time_slot_id = ?`,
		key.ActivityID, key.Date, key.TimeSlotID).Scan(&remaining)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return remaining, true, nil
}
