package service

import (
	"testing"
	"time"

	"dormitory-be-svc/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func testRateConfig() *ResolvedRateConfig {
	return &ResolvedRateConfig{
		Config: &models.RateConfig{
			DormitoryID: 1,
			FloorRates: models.FloorRates{
				"2": decPtr("200"),
				"3": nil,
			},
			FeeItems: models.FeeItems{
				{ID: "svc-internet", Name: "Internet", Amount: dec("200")},
				{ID: "svc-parking", Name: "Parking", Amount: dec("300")},
			},
			ElectricUnitPrice: decPtr("8"),
		},
		RoomTypes: map[uint]*models.RoomType{
			10: {ID: 10, Name: "Standard", BasePrice: dec("3000")},
		},
	}
}

func testRoom() *models.Room {
	return &models.Room{
		ID:                   1,
		DormitoryID:          1,
		Number:               "201",
		Floor:                2,
		RoomTypeID:           10,
		Status:               models.RoomStatusOccupied,
		AdditionalServiceIDs: models.ServiceIDs{"svc-internet"},
	}
}

func testElectricReading(units string) *models.MeterReading {
	return &models.MeterReading{
		ID:        7,
		RoomID:    1,
		Type:      models.MeterTypeElectric,
		UnitsUsed: dec(units),
	}
}

func TestComputeCharges_FullBreakdown(t *testing.T) {
	room := testRoom()
	tenant := &models.Tenant{ID: 5, RoomID: 1, NumberOfResidents: 2}
	cfg := testRateConfig()

	breakdown, err := ComputeCharges(room, tenant, cfg, 3, 2026, testElectricReading("50"))
	require.NoError(t, err)

	// rent 3000 + floor 200 + internet 200 + electric 50*8 = 3800
	assert.True(t, dec("3800").Equal(breakdown.TotalAmount), "total was %s", breakdown.TotalAmount)
	assert.Len(t, breakdown.Items, 4)
	assert.Equal(t, models.BillItemRent, breakdown.Items[0].Type)
	assert.Equal(t, models.BillItemFloorRate, breakdown.Items[1].Type)
	assert.Equal(t, models.BillItemAdditionalFee, breakdown.Items[2].Type)
	assert.Equal(t, models.BillItemUtility, breakdown.Items[3].Type)
	assert.Equal(t, []uint{7}, breakdown.ConsumedReadingIDs)
	assert.Equal(t, uint(5), breakdown.TenantID)
}

func TestComputeCharges_FloorSurchargeOmitted(t *testing.T) {
	tests := []struct {
		name  string
		floor int
	}{
		{"nil entry", 3},
		{"missing entry", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room := testRoom()
			room.Floor = tt.floor

			breakdown, err := ComputeCharges(room, nil, testRateConfig(), 3, 2026, nil)
			require.NoError(t, err)

			for _, item := range breakdown.Items {
				assert.NotEqual(t, models.BillItemFloorRate, item.Type)
			}
		})
	}
}

func TestComputeCharges_RemovedFeeSkipped(t *testing.T) {
	room := testRoom()
	room.AdditionalServiceIDs = models.ServiceIDs{"svc-internet", "svc-gone", "svc-parking"}

	breakdown, err := ComputeCharges(room, nil, testRateConfig(), 3, 2026, nil)
	require.NoError(t, err)

	var fees []string
	for _, item := range breakdown.Items {
		if item.Type == models.BillItemAdditionalFee {
			fees = append(fees, item.Name)
		}
	}
	assert.Equal(t, []string{"Internet", "Parking"}, fees)
}

func TestComputeCharges_SpecialItems(t *testing.T) {
	consumedAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	tenant := &models.Tenant{
		ID:     5,
		RoomID: 1,
		SpecialItems: models.SpecialItems{
			{ID: "si-deposit", Name: "Deposit", Amount: dec("500"), Once: true},
			{ID: "si-used", Name: "Key replacement", Amount: dec("100"), Once: true, ConsumedAt: &consumedAt},
			{ID: "si-fridge", Name: "Fridge rental", Amount: dec("150"), RemainingBillingCycles: 2},
			{ID: "si-done", Name: "Old installment", Amount: dec("250"), RemainingBillingCycles: 0},
		},
	}

	breakdown, err := ComputeCharges(testRoom(), tenant, testRateConfig(), 3, 2026, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"si-deposit", "si-fridge"}, breakdown.ConsumedSpecialItemIDs)

	var others []string
	for _, item := range breakdown.Items {
		if item.Type == models.BillItemOther {
			others = append(others, item.Name)
		}
	}
	assert.Equal(t, []string{"Deposit", "Fridge rental"}, others)
}

func TestComputeCharges_WaterPerPerson(t *testing.T) {
	cfg := testRateConfig()
	cfg.Config.WaterPerPerson = decPtr("100")
	tenant := &models.Tenant{ID: 5, RoomID: 1, NumberOfResidents: 3}

	breakdown, err := ComputeCharges(testRoom(), tenant, cfg, 3, 2026, nil)
	require.NoError(t, err)

	var water *models.BillItem
	for i := range breakdown.Items {
		if breakdown.Items[i].Name == "Water" {
			water = &breakdown.Items[i]
		}
	}
	require.NotNil(t, water)
	assert.True(t, dec("300").Equal(water.Amount))
	require.NotNil(t, water.Quantity)
	assert.True(t, dec("3").Equal(*water.Quantity))
}

func TestComputeCharges_UnknownRoomType(t *testing.T) {
	room := testRoom()
	room.RoomTypeID = 99

	_, err := ComputeCharges(room, nil, testRateConfig(), 3, 2026, nil)
	assert.ErrorIs(t, err, ErrUnknownRoomType)
}

func TestComputeCharges_ElectricRateMissing(t *testing.T) {
	cfg := testRateConfig()
	cfg.Config.ElectricUnitPrice = nil

	// a pending reading with no configured rate is a blocking error
	_, err := ComputeCharges(testRoom(), nil, cfg, 3, 2026, testElectricReading("50"))
	assert.ErrorIs(t, err, ErrUtilityRateMissing)

	// no reading means the missing rate simply produces no charge
	breakdown, err := ComputeCharges(testRoom(), nil, cfg, 3, 2026, nil)
	require.NoError(t, err)
	for _, item := range breakdown.Items {
		assert.NotEqual(t, models.BillItemUtility, item.Type)
	}
}

func TestComputeCharges_Deterministic(t *testing.T) {
	room := testRoom()
	tenant := &models.Tenant{
		ID:     5,
		RoomID: 1,
		SpecialItems: models.SpecialItems{
			{ID: "si-deposit", Name: "Deposit", Amount: dec("500"), Once: true},
		},
	}
	cfg := testRateConfig()
	reading := testElectricReading("50")

	first, err := ComputeCharges(room, tenant, cfg, 3, 2026, reading)
	require.NoError(t, err)
	second, err := ComputeCharges(room, tenant, cfg, 3, 2026, reading)
	require.NoError(t, err)

	assert.True(t, first.TotalAmount.Equal(second.TotalAmount))
	assert.Equal(t, first.Items, second.Items)

	// inputs stay untouched; consumption happens at finalization
	assert.Nil(t, tenant.SpecialItems[0].ConsumedAt)
	assert.False(t, reading.IsBilled)
}
