package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/iliyamo/activity-booking/internal/model"
)

// BookingRepo provides access to the bookings table.  A booking row
// is written once at checkout; afterwards only the status, its
// transition timestamps and the check-in annotation change, and every
// such write is guarded by the version column: the UPDATE is
// conditional on the version read, so a losing writer affects zero
// rows and receives ErrConflict instead of silently overwriting the
// winner.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, reference, customer_id, activity_id, vendor_id, booking_date, selection,
	   unit_price_adult, unit_price_child, participants_subtotal, add_ons_subtotal, total, currency,
	   status, version, customer_name, customer_email, customer_phone, special_requirements, rejection_reason,
	   created_at, confirmed_at, vendor_approved_at, vendor_rejected_at, cancelled_at, completed_at, checked_in_at`

func scanBooking(row interface{ Scan(...interface{}) error }) (*model.Booking, error) {
	var (
		b         model.Booking
		date      time.Time
		selection []byte
		status    string
		special   sql.NullString
		reason    sql.NullString
		confirmed, approved, rejected, cancelled, completed, checkedIn sql.NullTime
	)
	err := row.Scan(&b.ID, &b.Reference, &b.CustomerID, &b.ActivityID, &b.VendorID, &date, &selection,
		&b.Price.UnitPriceAdult, &b.Price.UnitPriceChild, &b.Price.ParticipantsSubtotal,
		&b.Price.AddOnsSubtotal, &b.Price.Total, &b.Currency,
		&status, &b.Version, &b.Customer.Name, &b.Customer.Email, &b.Customer.Phone, &special, &reason,
		&b.CreatedAt, &confirmed, &approved, &rejected, &cancelled, &completed, &checkedIn)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(selection, &b.Selection); err != nil {
		return nil, err
	}
	// Historical records may carry the legacy "pending" status.
	b.Status, err = model.ParseBookingStatus(status)
	if err != nil {
		return nil, err
	}
	// The frozen audit references live on the breakdown too.
	b.Price.TierID = b.Selection.TierID
	b.Price.TimeSlotID = b.Selection.TimeSlotID
	if special.Valid {
		s := special.String
		b.SpecialRequirements = &s
	}
	if reason.Valid {
		s := reason.String
		b.RejectionReason = &s
	}
	for dst, src := range map[**time.Time]sql.NullTime{
		&b.ConfirmedAt:      confirmed,
		&b.VendorApprovedAt: approved,
		&b.VendorRejectedAt: rejected,
		&b.CancelledAt:      cancelled,
		&b.CompletedAt:      completed,
		&b.CheckedInAt:      checkedIn,
	} {
		if src.Valid {
			t := src.Time
			*dst = &t
		}
	}
	return &b, nil
}

// Create inserts a new booking and populates its generated ID and the
// DB-assigned creation timestamp.  Version starts at zero.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	selection, err := json.Marshal(b.Selection)
	if err != nil {
		return err
	}
	var confirmedAt interface{}
	if b.ConfirmedAt != nil {
		confirmedAt = b.ConfirmedAt.UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (reference, customer_id, activity_id, vendor_id, booking_date, selection,
							   unit_price_adult, unit_price_child, participants_subtotal, add_ons_subtotal, total, currency,
							   status, version, customer_name, customer_email, customer_phone, special_requirements, confirmed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?, ?)`,
		b.Reference, b.CustomerID, b.ActivityID, b.VendorID, b.Selection.Date, selection,
		b.Price.UnitPriceAdult, b.Price.UnitPriceChild, b.Price.ParticipantsSubtotal,
		b.Price.AddOnsSubtotal, b.Price.Total, b.Currency,
		string(b.Status), b.Customer.Name, b.Customer.Email, b.Customer.Phone, b.SpecialRequirements, confirmedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	refreshed, err := r.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	*b = *refreshed
	return nil
}

// GetByID returns one booking.  ErrNotFound when absent.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return b, err
}

// GetByReference returns one booking by its external code.
func (r *BookingRepo) GetByReference(ctx context.Context, reference string) (*model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE reference = ?`, reference))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return b, err
}

// Update persists a transitioned booking under optimistic concurrency.
// The write is conditional on the version the caller read; when the
// row has moved on since, zero rows match and ErrConflict is
// returned; the caller must re-read before retrying.  On success the
// booking's version is bumped to match the stored row.
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking, expectedVersion uint64) error {
	var approved, rejected, cancelled, completed, checkedIn, confirmed interface{}
	if b.VendorApprovedAt != nil {
		approved = b.VendorApprovedAt.UTC()
	}
	if b.VendorRejectedAt != nil {
		rejected = b.VendorRejectedAt.UTC()
	}
	if b.CancelledAt != nil {
		cancelled = b.CancelledAt.UTC()
	}
	if b.CompletedAt != nil {
		completed = b.CompletedAt.UTC()
	}
	if b.CheckedInAt != nil {
		checkedIn = b.CheckedInAt.UTC()
	}
	if b.ConfirmedAt != nil {
		confirmed = b.ConfirmedAt.UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings
		 SET status = ?, version = version + 1, rejection_reason = ?,
			 confirmed_at = ?, vendor_approved_at = ?, vendor_rejected_at = ?,
			 cancelled_at = ?, completed_at = ?, checked_in_at = ?
		 WHERE id = ? AND version = ?`,
		string(b.Status), b.RejectionReason,
		confirmed, approved, rejected, cancelled, completed, checkedIn,
		b.ID, expectedVersion)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	b.Version = expectedVersion + 1
	return nil
}

func (r *BookingRepo) list(ctx context.Context, query string, args ...interface{}) ([]*model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListByCustomer returns a customer's bookings, newest first, with an
// optional status filter.
func (r *BookingRepo) ListByCustomer(ctx context.Context, customerID uint64, status *model.BookingStatus) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE customer_id = ?`
	args := []interface{}{customerID}
	if status != nil {
		query += ` AND status = ?`
		args = append(args, string(*status))
	}
	return r.list(ctx, query+` ORDER BY created_at DESC`, args...)
}

// ListByVendor returns a vendor's bookings, newest first, with
// optional status and booking-date filters for calendar views.
func (r *BookingRepo) ListByVendor(ctx context.Context, vendorID uint64, status *model.BookingStatus, date *string) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE vendor_id = ?`
	args := []interface{}{vendorID}
	if status != nil {
		query += ` AND status = ?`
		args = append(args, string(*status))
	}
	if date != nil {
		query += ` AND booking_date = ?`
		args = append(args, *date)
	}
	return r.list(ctx, query+` ORDER BY created_at DESC`, args...)
}

// ListDueForCompletion returns confirmed bookings whose date is
// strictly before the given day.  Used by the completion sweep.
func (r *BookingRepo) ListDueForCompletion(ctx context.Context, today string, limit int) ([]*model.Booking, error) {
	return r.list(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE status = ? AND booking_date < ? ORDER BY booking_date LIMIT ?`,
		string(model.StatusConfirmed), today, limit)
}
