package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/activity-booking/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func u64(v uint64) *uint64 { return &v }

// testCatalog builds a catalog with one tier, one slot and two
// add-ons (one required headset, one optional photos).
func testCatalog() *model.PricingCatalog {
	return &model.PricingCatalog{
		Activity: model.Activity{
			ID:             1,
			VendorID:       7,
			BasePriceAdult: dec("50"),
			BasePriceChild: dec("0"),
			Currency:       "EUR",
		},
		Tiers: []model.PricingTier{
			{ID: 10, ActivityID: 1, Name: "VIP", PriceAdult: dec("80")},
			{ID: 11, ActivityID: 1, Name: "Family", PriceAdult: dec("45"), PriceChild: decPtr("20")},
		},
		TimeSlots: []model.TimeSlot{
			{ID: 20, ActivityID: 1, Label: "Sunset", PriceAdjustment: dec("10")},
			{ID: 21, ActivityID: 1, Label: "Early", PriceAdjustment: dec("-5")},
		},
		AddOns: []model.AddOn{
			{ID: 30, ActivityID: 1, Name: "headset", UnitPrice: dec("5"), IsOptional: false},
			{ID: 31, ActivityID: 1, Name: "photos", UnitPrice: dec("12.50"), IsOptional: true},
		},
	}
}

func TestComposeBasePriceWithRequiredAddOn(t *testing.T) {
	// Base adult 50, child 0, required headset x1, 2 adults + 1 child.
	sel := model.Selection{
		ActivityID:      1,
		Date:            "2026-09-15",
		Adults:          2,
		Children:        1,
		AddOnQuantities: map[uint64]uint32{30: 1},
	}
	b, err := Compose(testCatalog(), sel)
	require.NoError(t, err)
	assert.True(t, b.UnitPriceAdult.Equal(dec("50")))
	assert.True(t, b.UnitPriceChild.Equal(dec("0")))
	assert.True(t, b.ParticipantsSubtotal.Equal(dec("100")))
	assert.True(t, b.AddOnsSubtotal.Equal(dec("5")))
	assert.True(t, b.Total.Equal(dec("105")))
	assert.Nil(t, b.TierID)
	assert.Nil(t, b.TimeSlotID)
}

func TestComposeTierPlusSlotAdjustment(t *testing.T) {
	// VIP tier 80 plus +10 slot adjustment resolves to 90 per adult.
	sel := model.Selection{
		ActivityID:      1,
		Date:            "2026-09-15",
		TierID:          u64(10),
		TimeSlotID:      u64(20),
		Adults:          1,
		AddOnQuantities: map[uint64]uint32{30: 1},
	}
	b, err := Compose(testCatalog(), sel)
	require.NoError(t, err)
	assert.True(t, b.UnitPriceAdult.Equal(dec("90")))
	assert.True(t, b.ParticipantsSubtotal.Equal(dec("90")))
	assert.True(t, b.Total.Equal(dec("95")))
	require.NotNil(t, b.TierID)
	assert.Equal(t, uint64(10), *b.TierID)
	require.NotNil(t, b.TimeSlotID)
	assert.Equal(t, uint64(20), *b.TimeSlotID)
}

func TestComposeTierReplacesBaseNeverAdds(t *testing.T) {
	sel := model.Selection{
		ActivityID:      1,
		Date:            "2026-09-15",
		TierID:          u64(11),
		Adults:          2,
		Children:        2,
		AddOnQuantities: map[uint64]uint32{30: 1},
	}
	b, err := Compose(testCatalog(), sel)
	require.NoError(t, err)
	// Family tier: adult 45 (not 50+45), child 20 (not 0+20).
	assert.True(t, b.UnitPriceAdult.Equal(dec("45")))
	assert.True(t, b.UnitPriceChild.Equal(dec("20")))
	assert.True(t, b.ParticipantsSubtotal.Equal(dec("130")))
}

func TestComposeTierWithoutChildPriceZeroesChild(t *testing.T) {
	sel := model.Selection{
		ActivityID:      1,
		Date:            "2026-09-15",
		TierID:          u64(10),
		Adults:          1,
		Children:        3,
		AddOnQuantities: map[uint64]uint32{30: 1},
	}
	b, err := Compose(testCatalog(), sel)
	require.NoError(t, err)
	assert.True(t, b.UnitPriceChild.Equal(dec("0")))
	assert.True(t, b.ParticipantsSubtotal.Equal(dec("80")))
}

func TestComposeSlotAdjustmentAppliesToBothPrices(t *testing.T) {
	sel := model.Selection{
		ActivityID:      1,
		Date:            "2026-09-15",
		TierID:          u64(11),
		TimeSlotID:      u64(21),
		Adults:          1,
		Children:        1,
		AddOnQuantities: map[uint64]uint32{30: 1},
	}
	b, err := Compose(testCatalog(), sel)
	require.NoError(t, err)
	// Early slot -5 on both: adult 40, child 15.
	assert.True(t, b.UnitPriceAdult.Equal(dec("40")))
	assert.True(t, b.UnitPriceChild.Equal(dec("15")))
	assert.True(t, b.Total.Equal(dec("60")))
}

func TestComposeExactDecimalArithmetic(t *testing.T) {
	catalog := testCatalog()
	catalog.Activity.BasePriceAdult = dec("10.10")
	catalog.AddOns[0].UnitPrice = dec("0.30")
	sel := model.Selection{
		ActivityID:      1,
		Date:            "2026-09-15",
		Adults:          3,
		AddOnQuantities: map[uint64]uint32{30: 3},
	}
	b, err := Compose(catalog, sel)
	require.NoError(t, err)
	// 10.10*3 + 0.30*3 = 31.20 exactly; float64 would drift here.
	assert.True(t, b.Total.Equal(dec("31.20")))
	assert.True(t, b.Total.Equal(b.ParticipantsSubtotal.Add(b.AddOnsSubtotal)))
}

func TestComposeIsDeterministic(t *testing.T) {
	sel := model.Selection{
		ActivityID:      1,
		Date:            "2026-09-15",
		TierID:          u64(10),
		TimeSlotID:      u64(20),
		Adults:          2,
		Children:        1,
		AddOnQuantities: map[uint64]uint32{30: 2, 31: 1},
	}
	first, err := Compose(testCatalog(), sel)
	require.NoError(t, err)
	second, err := Compose(testCatalog(), sel)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComposeCollectsEveryViolation(t *testing.T) {
	sel := model.Selection{
		ActivityID: 1,
		Date:       "15/09/2026",
		TierID:     u64(999),
		TimeSlotID: u64(888),
		Adults:     0,
		AddOnQuantities: map[uint64]uint32{
			777: 1, // unknown add-on
			30:  0, // required add-on with zero quantity
		},
	}
	_, err := Compose(testCatalog(), sel)
	require.Error(t, err)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)

	fields := make(map[string]int)
	for _, f := range verr.Fields {
		fields[f.Field]++
	}
	assert.Equal(t, 1, fields["adults"])
	assert.Equal(t, 1, fields["date"])
	assert.Equal(t, 1, fields["tier_id"])
	assert.Equal(t, 1, fields["time_slot_id"])
	assert.Equal(t, 2, fields["add_on_quantities"])
}

func TestComposeRequiredAddOnAbsentIsAnError(t *testing.T) {
	sel := model.Selection{
		ActivityID: 1,
		Date:       "2026-09-15",
		Adults:     1,
		// headset (required) missing entirely
	}
	_, err := Compose(testCatalog(), sel)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "add_on_quantities", verr.Fields[0].Field)
}

func TestComposeWrongActivityRejected(t *testing.T) {
	sel := model.Selection{
		ActivityID:      2,
		Date:            "2026-09-15",
		Adults:          1,
		AddOnQuantities: map[uint64]uint32{30: 1},
	}
	_, err := Compose(testCatalog(), sel)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "activity_id", verr.Fields[0].Field)
}

func TestDisplayTotalRoundsHalfUp(t *testing.T) {
	b := model.PriceBreakdown{Total: dec("10.005")}
	assert.True(t, b.DisplayTotal().Equal(dec("10.01")))
}
