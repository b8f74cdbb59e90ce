package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// FeeItem is an optional fee from the dormitory's fee catalog
type FeeItem struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// FeeItems is an ordered fee catalog stored as JSONB
type FeeItems []FeeItem

// Value implements driver.Valuer interface for GORM to store as JSONB
func (f FeeItems) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	return json.Marshal(f)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (f *FeeItems) Scan(value interface{}) error {
	return scanJSON(value, f, func() { *f = FeeItems{} })
}

// FloorRates maps a floor number to its surcharge, stored as JSONB.
// A missing or nil entry means the floor carries no surcharge; negative
// values are discounts.
type FloorRates map[string]*decimal.Decimal

// Value implements driver.Valuer interface for GORM to store as JSONB
func (f FloorRates) Value() (driver.Value, error) {
	if f == nil {
		return "{}", nil
	}
	return json.Marshal(f)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (f *FloorRates) Scan(value interface{}) error {
	return scanJSON(value, f, func() { *f = FloorRates{} })
}

// RateConfig represents the rate_configs table. One row per dormitory,
// mutated only through configuration edits and read-only to the engine.
// Nil utility rates mean "not charged", never zero.
type RateConfig struct {
	ID                uint             `json:"id" gorm:"primarykey"`
	DormitoryID       uint             `json:"dormitory_id" gorm:"column:dormitory_id;uniqueIndex"`
	FloorRates        FloorRates       `json:"floor_rates" gorm:"column:floor_rates;type:jsonb"`
	FeeItems          FeeItems         `json:"fee_items" gorm:"column:fee_items;type:jsonb"`
	WaterPerPerson    *decimal.Decimal `json:"water_per_person" gorm:"column:water_per_person;type:numeric(12,2)"`
	ElectricUnitPrice *decimal.Decimal `json:"electric_unit_price" gorm:"column:electric_unit_price;type:numeric(12,4)"`
	CreatedAt         *time.Time       `json:"created_at"`
	UpdatedAt         *time.Time       `json:"updated_at"`
}

// TableName sets the insert table name for RateConfig
func (RateConfig) TableName() string {
	return "rate_configs"
}

// scanJSON reads a JSONB column value into dst; empty reads as the zero value
func scanJSON(value interface{}, dst interface{}, reset func()) error {
	if value == nil {
		reset()
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan JSONB column: unsupported type")
	}

	if len(bytes) == 0 {
		reset()
		return nil
	}

	return json.Unmarshal(bytes, dst)
}
