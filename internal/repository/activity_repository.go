package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/activity-booking/internal/model"
)

// ActivityRepo provides access to activities and their pricing
// catalog rows (tiers, time slots, add-ons).  The catalog is written
// only through vendor management; the booking core treats it as
// read-only and always re-reads it fresh at checkout instead of
// trusting cached cart prices.
type ActivityRepo struct {
	db *sql.DB
}

// NewActivityRepo returns a new ActivityRepo bound to the given database.
func NewActivityRepo(db *sql.DB) *ActivityRepo { return &ActivityRepo{db: db} }

// Create inserts an activity together with its tiers, slots and
// add-ons in a single transaction.  Child rows are inserted with one
// multi-row statement each.  The generated IDs are populated on the
// passed structs.
func (r *ActivityRepo) Create(ctx context.Context, a *model.Activity, tiers []model.PricingTier, slots []model.TimeSlot, addOns []model.AddOn) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO activities (vendor_id, title, slug, description, base_price_adult, base_price_child, currency, instant_confirmation, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.VendorID, a.Title, a.Slug, a.Description,
		a.BasePriceAdult, a.BasePriceChild, a.Currency, a.InstantConfirmation, a.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)

	if len(tiers) > 0 {
		query := `INSERT INTO activity_pricing_tiers (activity_id, tier_name, price_adult, price_child, description) VALUES `
		args := make([]interface{}, 0, len(tiers)*5)
		for i := range tiers {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?)"
			var child interface{}
			if tiers[i].PriceChild != nil {
				child = *tiers[i].PriceChild
			}
			args = append(args, a.ID, tiers[i].Name, tiers[i].PriceAdult, child, tiers[i].Description)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if len(slots) > 0 {
		query := `INSERT INTO activity_time_slots (activity_id, slot_label, slot_time, price_adjustment, max_capacity) VALUES `
		args := make([]interface{}, 0, len(slots)*5)
		for i := range slots {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?)"
			var maxCap interface{}
			if slots[i].MaxCapacity != nil {
				maxCap = *slots[i].MaxCapacity
			}
			args = append(args, a.ID, slots[i].Label, slots[i].StartTime, slots[i].PriceAdjustment, maxCap)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}
	if len(addOns) > 0 {
		query := `INSERT INTO activity_add_ons (activity_id, name, unit_price, is_optional) VALUES `
		args := make([]interface{}, 0, len(addOns)*4)
		for i := range addOns {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?)"
			args = append(args, a.ID, addOns[i].Name, addOns[i].UnitPrice, addOns[i].IsOptional)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

const activityColumns = `id, vendor_id, title, slug, description, base_price_adult, base_price_child, currency, instant_confirmation, is_active, created_at, updated_at`

func scanActivity(row interface{ Scan(...interface{}) error }) (model.Activity, error) {
	var a model.Activity
	var desc sql.NullString
	err := row.Scan(&a.ID, &a.VendorID, &a.Title, &a.Slug, &desc,
		&a.BasePriceAdult, &a.BasePriceChild, &a.Currency,
		&a.InstantConfirmation, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return model.Activity{}, err
	}
	if desc.Valid {
		d := desc.String
		a.Description = &d
	}
	return a, nil
}

// GetByID returns a single activity.  ErrNotFound when absent.
func (r *ActivityRepo) GetByID(ctx context.Context, id uint64) (model.Activity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE id = ?`, id)
	a, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return model.Activity{}, ErrNotFound
	}
	return a, err
}

// GetCatalog loads an activity with all of its pricing rows.  It is
// the authoritative price source for cart recomputation and checkout.
func (r *ActivityRepo) GetCatalog(ctx context.Context, activityID uint64) (*model.PricingCatalog, error) {
	activity, err := r.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	catalog := &model.PricingCatalog{Activity: activity}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, activity_id, tier_name, price_adult, price_child, description
		 FROM activity_pricing_tiers WHERE activity_id = ? ORDER BY id`, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var t model.PricingTier
		var child decimal.NullDecimal
		var desc sql.NullString
		if err := rows.Scan(&t.ID, &t.ActivityID, &t.Name, &t.PriceAdult, &child, &desc); err != nil {
			return nil, err
		}
		if child.Valid {
			c := child.Decimal
			t.PriceChild = &c
		}
		if desc.Valid {
			d := desc.String
			t.Description = &d
		}
		catalog.Tiers = append(catalog.Tiers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	srows, err := r.db.QueryContext(ctx,
		`SELECT id, activity_id, slot_label, slot_time, price_adjustment, max_capacity
		 FROM activity_time_slots WHERE activity_id = ? ORDER BY slot_time, id`, activityID)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var s model.TimeSlot
		var maxCap sql.NullInt64
		if err := srows.Scan(&s.ID, &s.ActivityID, &s.Label, &s.StartTime, &s.PriceAdjustment, &maxCap); err != nil {
			return nil, err
		}
		if maxCap.Valid {
			c := uint32(maxCap.Int64)
			s.MaxCapacity = &c
		}
		catalog.TimeSlots = append(catalog.TimeSlots, s)
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}

	arows, err := r.db.QueryContext(ctx,
		`SELECT id, activity_id, name, unit_price, is_optional
		 FROM activity_add_ons WHERE activity_id = ? ORDER BY id`, activityID)
	if err != nil {
		return nil, err
	}
	defer arows.Close()
	for arows.Next() {
		var a model.AddOn
		if err := arows.Scan(&a.ID, &a.ActivityID, &a.Name, &a.UnitPrice, &a.IsOptional); err != nil {
			return nil, err
		}
		catalog.AddOns = append(catalog.AddOns, a)
	}
	if err := arows.Err(); err != nil {
		return nil, err
	}
	return catalog, nil
}

// ListActive returns all bookable activities, newest first.
func (r *ActivityRepo) ListActive(ctx context.Context) ([]model.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE is_active = 1 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListByVendor returns all activities owned by a vendor, newest first.
func (r *ActivityRepo) ListByVendor(ctx context.Context, vendorID uint64) ([]model.Activity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE vendor_id = ? ORDER BY created_at DESC`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Activity, 0)
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
