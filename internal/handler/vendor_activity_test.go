package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/activity-booking/internal/model"
)

func validActivityReq() createActivityReq {
	child := "25.00"
	return createActivityReq{
		Title:          "Sunset Kayak Tour",
		Slug:           "sunset-kayak-tour",
		BasePriceAdult: "50.00",
		BasePriceChild: "25.00",
		Currency:       "eur",
		Tiers:          []tierReq{{Name: "VIP", PriceAdult: "80.00", PriceChild: &child}},
		TimeSlots:      []slotReq{{Label: "Early", StartTime: "06:30", PriceAdjustment: "-5.00"}},
		AddOns:         []addOnReq{{Name: "photos", UnitPrice: "12.50"}},
	}
}

func TestCreateActivityRequestValid(t *testing.T) {
	a, tiers, slots, addOns, err := validActivityReq().toModel(7)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), a.VendorID)
	assert.Equal(t, "EUR", a.Currency)
	assert.Len(t, tiers, 1)
	assert.Len(t, slots, 1)
	assert.Len(t, addOns, 1)
}

func TestCreateActivityRejectsNegativePrices(t *testing.T) {
	child := "-1.00"
	req := validActivityReq()
	req.BasePriceAdult = "-10.00"
	req.BasePriceChild = "-0.50"
	req.Tiers = []tierReq{{Name: "VIP", PriceAdult: "-50.00", PriceChild: &child}}
	req.AddOns = []addOnReq{{Name: "photos", UnitPrice: "-12.50"}}

	_, _, _, _, err := req.toModel(7)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)

	fields := make(map[string]int)
	for _, f := range verr.Fields {
		fields[f.Field]++
	}
	assert.Equal(t, 1, fields["base_price_adult"])
	assert.Equal(t, 1, fields["base_price_child"])
	assert.Equal(t, 1, fields["tiers.price_adult"])
	assert.Equal(t, 1, fields["tiers.price_child"])
	assert.Equal(t, 1, fields["add_ons.unit_price"])
}

func TestCreateActivityAllowsNegativeSlotAdjustment(t *testing.T) {
	// Slot adjustments are signed discounts, unlike prices.
	_, _, slots, _, err := validActivityReq().toModel(7)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.True(t, slots[0].PriceAdjustment.IsNegative())
}
