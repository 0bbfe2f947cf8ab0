package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/activity-booking/internal/model"
	"github.com/iliyamo/activity-booking/internal/repository"
)

func newTestCart(catalogs ...*model.PricingCatalog) (*CartService, *fakeCartStore) {
	byID := map[uint64]*model.PricingCatalog{}
	for _, c := range catalogs {
		byID[c.Activity.ID] = c
	}
	cart := newFakeCartStore()
	return NewCartService(&fakeCatalog{catalogs: byID}, cart), cart
}

func TestAddLineComposesPrice(t *testing.T) {
	svc, _ := newTestCart(trekCatalog())

	line, err := svc.AddLine(context.Background(), 42, model.Selection{ActivityID: 2, Date: testDate, Adults: 2, Children: 1})
	require.NoError(t, err)
	assert.NotZero(t, line.ID)
	assert.True(t, line.Price.Total.Equal(dec("300.00")), "got %s", line.Price.Total)
	assert.Equal(t, "USD", line.Currency)
}

func TestAddLineMergesMatchingSelection(t *testing.T) {
	svc, cart := newTestCart(trekCatalog())

	first, err := svc.AddLine(context.Background(), 42, model.Selection{ActivityID: 2, Date: testDate, Adults: 1})
	require.NoError(t, err)
	second, err := svc.AddLine(context.Background(), 42, model.Selection{ActivityID: 2, Date: testDate, Adults: 3})
	require.NoError(t, err)

	// Same activity, date and slot: the line is updated, not duplicated.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, uint32(3), second.Selection.Adults)
	assert.True(t, second.Price.Total.Equal(dec("360.00")))

	lines, err := cart.ListByOwner(context.Background(), 42)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestAddLineDistinctDatesStayApart(t *testing.T) {
	svc, cart := newTestCart(trekCatalog())

	_, err := svc.AddLine(context.Background(), 42, model.Selection{ActivityID: 2, Date: "2026-10-01", Adults: 1})
	require.NoError(t, err)
	_, err = svc.AddLine(context.Background(), 42, model.Selection{ActivityID: 2, Date: "2026-10-02", Adults: 1})
	require.NoError(t, err)

	lines, err := cart.ListByOwner(context.Background(), 42)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestAddLineRejectsInactiveActivity(t *testing.T) {
	catalog := trekCatalog()
	catalog.Activity.IsActive = false
	svc, _ := newTestCart(catalog)

	_, err := svc.AddLine(context.Background(), 42, model.Selection{ActivityID: 2, Date: testDate, Adults: 1})
	var v *model.ValidationError
	require.ErrorAs(t, err, &v)
}

func TestAddLineRejectsInvalidSelection(t *testing.T) {
	svc, _ := newTestCart(kayakCatalog())

	_, err := svc.AddLine(context.Background(), 42, model.Selection{
		ActivityID: 1,
		Date:       "not-a-date",
		TimeSlotID: u64(999),
		Adults:     0,
	})
	var v *model.ValidationError
	require.ErrorAs(t, err, &v)
	assert.Len(t, v.Fields, 3)
}

func TestUpdateLineReprices(t *testing.T) {
	svc, _ := newTestCart(kayakCatalog())

	line, err := svc.AddLine(context.Background(), 42, model.Selection{ActivityID: 1, Date: testDate, Adults: 1})
	require.NoError(t, err)
	require.True(t, line.Price.Total.Equal(dec("50.00")))

	updated, err := svc.UpdateLine(context.Background(), 42, line.ID, model.Selection{
		ActivityID: 1,
		Date:       testDate,
		TimeSlotID: u64(11),
		Adults:     2,
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Total.Equal(dec("110.00")), "got %s", updated.Price.Total)
}

func TestUpdateLineOwnerScoped(t *testing.T) {
	svc, _ := newTestCart(kayakCatalog())

	line, err := svc.AddLine(context.Background(), 42, model.Selection{ActivityID: 1, Date: testDate, Adults: 1})
	require.NoError(t, err)

	_, err = svc.UpdateLine(context.Background(), 999, line.ID, line.Selection)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRemoveLine(t *testing.T) {
	svc, cart := newTestCart(kayakCatalog())

	line, err := svc.AddLine(context.Background(), 42, model.Selection{ActivityID: 1, Date: testDate, Adults: 1})
	require.NoError(t, err)
	require.NoError(t, svc.RemoveLine(context.Background(), 42, line.ID))

	lines, err := cart.ListByOwner(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, lines)

	assert.ErrorIs(t, svc.RemoveLine(context.Background(), 42, line.ID), repository.ErrNotFound)
}
