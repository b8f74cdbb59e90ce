package service

import (
	"strconv"

	"dormitory-be-svc/internal/models"

	"github.com/shopspring/decimal"
)

// ChargeBreakdown is the itemized result of computing a room's monthly
// charges. ConsumedReadingIDs and ConsumedSpecialItemIDs record which
// inputs a bill created from this breakdown must consume on finalization.
type ChargeBreakdown struct {
	RoomID                 uint              `json:"room_id"`
	TenantID               uint              `json:"tenant_id"`
	Month                  int               `json:"month"`
	Year                   int               `json:"year"`
	Items                  []models.BillItem `json:"items"`
	TotalAmount            decimal.Decimal   `json:"total_amount"`
	ConsumedReadingIDs     []uint            `json:"-"`
	ConsumedSpecialItemIDs []string          `json:"-"`
}

// ComputeCharges produces the itemized charge breakdown for a room, its
// tenant and a resolved rate configuration over one billing period. The
// electricReading argument is the room's pending unbilled electric reading,
// or nil when none exists.
//
// The function is pure: it never touches the store and never mutates its
// inputs, so identical inputs always yield an identical breakdown. Special
// item cycle accounting happens at bill finalization, not here.
func ComputeCharges(room *models.Room, tenant *models.Tenant, cfg *ResolvedRateConfig, month, year int, electricReading *models.MeterReading) (*ChargeBreakdown, error) {
	breakdown := &ChargeBreakdown{
		RoomID: room.ID,
		Month:  month,
		Year:   year,
	}
	if tenant != nil {
		breakdown.TenantID = tenant.ID
	}

	// 1. Base rent from the room type catalog
	roomType, ok := cfg.RoomTypes[room.RoomTypeID]
	if !ok {
		return nil, ErrUnknownRoomType
	}
	breakdown.Items = append(breakdown.Items, models.BillItem{
		Name:   roomType.Name,
		Type:   models.BillItemRent,
		Amount: roomType.BasePrice,
	})

	// 2. Floor surcharge; a missing, nil or zero entry produces no line item
	if surcharge, ok := cfg.Config.FloorRates[strconv.Itoa(room.Floor)]; ok && surcharge != nil && !surcharge.IsZero() {
		breakdown.Items = append(breakdown.Items, models.BillItem{
			Name:   "Floor " + strconv.Itoa(room.Floor) + " surcharge",
			Type:   models.BillItemFloorRate,
			Amount: *surcharge,
		})
	}

	// 3. Additional fees selected on the room. Ids no longer in the catalog
	// are skipped: the admin removed the fee definition and existing rooms
	// must keep billing without it.
	feeCatalog := make(map[string]models.FeeItem, len(cfg.Config.FeeItems))
	for _, fee := range cfg.Config.FeeItems {
		feeCatalog[fee.ID] = fee
	}
	for _, serviceID := range room.AdditionalServiceIDs {
		fee, ok := feeCatalog[serviceID]
		if !ok {
			continue
		}
		breakdown.Items = append(breakdown.Items, models.BillItem{
			Name:   fee.Name,
			Type:   models.BillItemAdditionalFee,
			Amount: fee.Amount,
		})
	}

	// 4. Tenant special items active for this period
	if tenant != nil {
		for _, item := range tenant.SpecialItems {
			if !item.ActiveForBilling() {
				continue
			}
			breakdown.Items = append(breakdown.Items, models.BillItem{
				Name:   item.Name,
				Type:   models.BillItemOther,
				Amount: item.Amount,
			})
			breakdown.ConsumedSpecialItemIDs = append(breakdown.ConsumedSpecialItemIDs, item.ID)
		}
	}

	// 5a. Water: flat per-person rate, not metered
	if cfg.Config.WaterPerPerson != nil && tenant != nil {
		residents := decimal.NewFromInt(int64(tenant.NumberOfResidents))
		perPerson := *cfg.Config.WaterPerPerson
		breakdown.Items = append(breakdown.Items, models.BillItem{
			Name:      "Water",
			Type:      models.BillItemUtility,
			Amount:    perPerson.Mul(residents),
			Quantity:  &residents,
			UnitPrice: cfg.Config.WaterPerPerson,
		})
	}

	// 5b. Electric: metered from the pending unbilled reading. A reading
	// without a configured unit price is a blocking configuration error.
	if electricReading != nil {
		if cfg.Config.ElectricUnitPrice == nil {
			return nil, ErrUtilityRateMissing
		}
		unitPrice := *cfg.Config.ElectricUnitPrice
		units := electricReading.UnitsUsed
		readingID := electricReading.ID
		breakdown.Items = append(breakdown.Items, models.BillItem{
			Name:           "Electricity",
			Type:           models.BillItemUtility,
			Amount:         unitPrice.Mul(units),
			Quantity:       &units,
			UnitPrice:      cfg.Config.ElectricUnitPrice,
			MeterReadingID: &readingID,
			UnitsUsed:      &units,
		})
		breakdown.ConsumedReadingIDs = append(breakdown.ConsumedReadingIDs, readingID)
	}

	breakdown.TotalAmount = models.BillItems(breakdown.Items).Total()

	return breakdown, nil
}
