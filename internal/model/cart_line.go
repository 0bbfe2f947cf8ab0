package model

import "time"

// CartLine is a mutable, user-scoped pre-booking selection.  The
// cached price is denormalized for display and recomputed from the
// live catalog on every mutation. It is never hand-edited, and it is
// never trusted at checkout, where the price is composed afresh.
// Lines are deleted on removal or successful checkout; they carry no
// expiry.
//
// Fields:
//  ID        – primary key identifier.
//  OwnerID   – user owning the line; only the owner may mutate it.
//  Selection – current booking choices.
//  Price     – cached breakdown from the last recompute.
//  Currency  – currency of the cached figures.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last mutation timestamp.
type CartLine struct {
	ID        uint64         // cart_lines.id
	OwnerID   uint64         // cart_lines.owner_id
	Selection Selection      // cart_lines selection columns + add_on_quantities JSON
	Price     PriceBreakdown // cart_lines cached price columns
	Currency  string         // cart_lines.currency
	CreatedAt time.Time      // cart_lines.created_at
	UpdatedAt time.Time      // cart_lines.updated_at
}
