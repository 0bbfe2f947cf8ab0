package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/iliyamo/activity-booking/internal/model"
)

// CartRepo provides access to cart_lines.  A line is user-scoped: all
// reads and writes are filtered by owner so one user can never touch
// another's cart.  The cached price columns are display data only:
// checkout recomputes from the live catalog and never trusts them.
type CartRepo struct {
	db *sql.DB
}

// NewCartRepo returns a new CartRepo bound to the given database.
func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{db: db} }

const cartColumns = `id, owner_id, activity_id, booking_date, time_slot_id, tier_id, adults, children, add_on_quantities,
	   unit_price_adult, unit_price_child, participants_subtotal, add_ons_subtotal, total, currency, created_at, updated_at`

func scanCartLine(row interface{ Scan(...interface{}) error }) (*model.CartLine, error) {
	var (
		line    model.CartLine
		date    time.Time // DATE column, parseTime=true
		slotID  sql.NullInt64
		tierID  sql.NullInt64
		addOns  sql.NullString
	)
	err := row.Scan(&line.ID, &line.OwnerID, &line.Selection.ActivityID, &date,
		&slotID, &tierID, &line.Selection.Adults, &line.Selection.Children, &addOns,
		&line.Price.UnitPriceAdult, &line.Price.UnitPriceChild, &line.Price.ParticipantsSubtotal,
		&line.Price.AddOnsSubtotal, &line.Price.Total, &line.Currency,
		&line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		return nil, err
	}
	line.Selection.Date = date.Format(model.BookingDateLayout)
	if slotID.Valid {
		id := uint64(slotID.Int64)
		line.Selection.TimeSlotID = &id
		line.Price.TimeSlotID = &id
	}
	if tierID.Valid {
		id := uint64(tierID.Int64)
		line.Selection.TierID = &id
		line.Price.TierID = &id
	}
	if addOns.Valid && addOns.String != "" {
		if err := json.Unmarshal([]byte(addOns.String), &line.Selection.AddOnQuantities); err != nil {
			return nil, err
		}
	}
	return &line, nil
}

func cartLineArgs(line *model.CartLine) ([]interface{}, error) {
	var addOns interface{}
	if len(line.Selection.AddOnQuantities) > 0 {
		raw, err := json.Marshal(line.Selection.AddOnQuantities)
		if err != nil {
			return nil, err
		}
		addOns = string(raw)
	}
	var slotID, tierID interface{}
	if line.Selection.TimeSlotID != nil {
		slotID = *line.Selection.TimeSlotID
	}
	if line.Selection.TierID != nil {
		tierID = *line.Selection.TierID
	}
	return []interface{}{
		line.Selection.ActivityID, line.Selection.Date, slotID, tierID,
		line.Selection.Adults, line.Selection.Children, addOns,
		line.Price.UnitPriceAdult, line.Price.UnitPriceChild, line.Price.ParticipantsSubtotal,
		line.Price.AddOnsSubtotal, line.Price.Total, line.Currency,
	}, nil
}

// FindMatch returns the owner's existing line for the same activity,
// date and time slot, or ErrNotFound.  Add-to-cart merges into a
// matching line instead of stacking duplicates.
func (r *CartRepo) FindMatch(ctx context.Context, ownerID uint64, sel model.Selection) (*model.CartLine, error) {
	query := `SELECT ` + cartColumns + ` FROM cart_lines WHERE owner_id = ? AND activity_id = ? AND booking_date = ?`
	args := []interface{}{ownerID, sel.ActivityID, sel.Date}
	if sel.TimeSlotID != nil {
		query += ` AND time_slot_id = ?`
		args = append(args, *sel.TimeSlotID)
	} else {
		query += ` AND time_slot_id IS NULL`
	}
	line, err := scanCartLine(r.db.QueryRowContext(ctx, query+` LIMIT 1`, args...))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return line, err
}

// Create inserts a new cart line and populates its generated ID plus
// the DB-assigned timestamps.
func (r *CartRepo) Create(ctx context.Context, line *model.CartLine) error {
	args, err := cartLineArgs(line)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cart_lines (owner_id, activity_id, booking_date, time_slot_id, tier_id, adults, children, add_on_quantities,
								 unit_price_adult, unit_price_child, participants_subtotal, add_ons_subtotal, total, currency)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		append([]interface{}{line.OwnerID}, args...)...)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	line.ID = uint64(id)
	refreshed, err := r.GetForOwner(ctx, line.ID, line.OwnerID)
	if err != nil {
		return err
	}
	*line = *refreshed
	return nil
}

// Update rewrites an existing line's selection and recomputed price.
// The owner filter makes cross-user writes impossible; a zero row
// count means the line vanished (or never belonged to this owner).
func (r *CartRepo) Update(ctx context.Context, line *model.CartLine) error {
	args, err := cartLineArgs(line)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE cart_lines SET activity_id = ?, booking_date = ?, time_slot_id = ?, tier_id = ?, adults = ?, children = ?, add_on_quantities = ?,
				unit_price_adult = ?, unit_price_child = ?, participants_subtotal = ?, add_ons_subtotal = ?, total = ?, currency = ?
		 WHERE id = ? AND owner_id = ?`,
		append(args, line.ID, line.OwnerID)...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	refreshed, err := r.GetForOwner(ctx, line.ID, line.OwnerID)
	if err != nil {
		return err
	}
	*line = *refreshed
	return nil
}

// GetForOwner returns one cart line scoped to its owner.
func (r *CartRepo) GetForOwner(ctx context.Context, id, ownerID uint64) (*model.CartLine, error) {
	line, err := scanCartLine(r.db.QueryRowContext(ctx,
		`SELECT `+cartColumns+` FROM cart_lines WHERE id = ? AND owner_id = ?`, id, ownerID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return line, err
}

// ListByOwner returns all of a user's cart lines, oldest first so the
// cart renders in the order items were added.
func (r *CartRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.CartLine, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cartColumns+` FROM cart_lines WHERE owner_id = ? ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	lines := make([]*model.CartLine, 0)
	for rows.Next() {
		line, err := scanCartLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// Delete removes a cart line, scoped to its owner.  Deleting a line
// that is already gone returns ErrNotFound.
func (r *CartRepo) Delete(ctx context.Context, id, ownerID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_lines WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
