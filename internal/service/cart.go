package service

import (
	"context"

	"github.com/iliyamo/activity-booking/internal/model"
	"github.com/iliyamo/activity-booking/internal/pricing"
	"github.com/iliyamo/activity-booking/internal/repository"
)

// CatalogSource yields the live pricing catalog for an activity.
// Satisfied by repository.ActivityRepo.
type CatalogSource interface {
	GetCatalog(ctx context.Context, activityID uint64) (*model.PricingCatalog, error)
}

// CartStore persists user-scoped cart lines.  Satisfied by
// repository.CartRepo.
type CartStore interface {
	FindMatch(ctx context.Context, ownerID uint64, sel model.Selection) (*model.CartLine, error)
	Create(ctx context.Context, line *model.CartLine) error
	Update(ctx context.Context, line *model.CartLine) error
	GetForOwner(ctx context.Context, id, ownerID uint64) (*model.CartLine, error)
	ListByOwner(ctx context.Context, ownerID uint64) ([]*model.CartLine, error)
	Delete(ctx context.Context, id, ownerID uint64) error
}

// CartService maintains a user's cart lines.  Every mutation reprices
// the line against the live catalog; the stored price is a display
// cache, never an input to checkout.
type CartService struct {
	Catalog CatalogSource
	Cart    CartStore
}

// NewCartService wires a CartService to its stores.
func NewCartService(catalog CatalogSource, cart CartStore) *CartService {
	return &CartService{Catalog: catalog, Cart: cart}
}

// price validates the selection against the live catalog and composes
// its breakdown.  Inactive activities are rejected here so a closed
// activity can never enter a cart.
func (s *CartService) price(ctx context.Context, sel model.Selection) (model.PriceBreakdown, string, error) {
	catalog, err := s.Catalog.GetCatalog(ctx, sel.ActivityID)
	if err != nil {
		return model.PriceBreakdown{}, "", err
	}
	if !catalog.Activity.IsActive {
		v := &model.ValidationError{}
		v.Add("activity_id", "activity is not open for booking")
		return model.PriceBreakdown{}, "", v
	}
	breakdown, err := pricing.Compose(catalog, sel)
	if err != nil {
		return model.PriceBreakdown{}, "", err
	}
	return breakdown, catalog.Activity.Currency, nil
}

// AddLine adds a selection to the owner's cart.  When a line for the
// same activity, date and time slot already exists it is updated in
// place instead of duplicated.  The returned line carries the freshly
// composed price.
func (s *CartService) AddLine(ctx context.Context, ownerID uint64, sel model.Selection) (*model.CartLine, error) {
	breakdown, currency, err := s.price(ctx, sel)
	if err != nil {
		return nil, err
	}
	line, err := s.Cart.FindMatch(ctx, ownerID, sel)
	switch err {
	case nil:
		line.Selection = sel
		line.Price = breakdown
		line.Currency = currency
		if err := s.Cart.Update(ctx, line); err != nil {
			return nil, err
		}
		return line, nil
	case repository.ErrNotFound:
		line = &model.CartLine{OwnerID: ownerID, Selection: sel, Price: breakdown, Currency: currency}
		if err := s.Cart.Create(ctx, line); err != nil {
			return nil, err
		}
		return line, nil
	default:
		return nil, err
	}
}

// UpdateLine replaces an existing line's selection and reprices it.
func (s *CartService) UpdateLine(ctx context.Context, ownerID, id uint64, sel model.Selection) (*model.CartLine, error) {
	line, err := s.Cart.GetForOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	breakdown, currency, err := s.price(ctx, sel)
	if err != nil {
		return nil, err
	}
	line.Selection = sel
	line.Price = breakdown
	line.Currency = currency
	if err := s.Cart.Update(ctx, line); err != nil {
		return nil, err
	}
	return line, nil
}

// List returns the owner's cart lines in insertion order.
func (s *CartService) List(ctx context.Context, ownerID uint64) ([]*model.CartLine, error) {
	return s.Cart.ListByOwner(ctx, ownerID)
}

// RemoveLine deletes one of the owner's cart lines.
func (s *CartService) RemoveLine(ctx context.Context, ownerID, id uint64) error {
	return s.Cart.Delete(ctx, id, ownerID)
}
