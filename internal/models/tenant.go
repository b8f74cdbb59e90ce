package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SpecialItem is a tenant-specific recurring or one-off charge outside the
// standard rate schedule. One-shot items are consumed by the next finalized
// bill; recurring items count down RemainingBillingCycles per finalized bill.
type SpecialItem struct {
	ID                     string          `json:"id"`
	Name                   string          `json:"name"`
	Amount                 decimal.Decimal `json:"amount"`
	Once                   bool            `json:"once"`
	TotalCycles            int             `json:"total_cycles,omitempty"`
	RemainingBillingCycles int             `json:"remaining_billing_cycles"`
	StartDate              *time.Time      `json:"start_date,omitempty"`
	ConsumedAt             *time.Time      `json:"consumed_at,omitempty"`
}

// ActiveForBilling reports whether the item should be charged on the next
// bill: a one-shot item applies until it has been consumed once, a recurring
// item applies while it has remaining cycles.
func (si SpecialItem) ActiveForBilling() bool {
	if si.Once {
		return si.ConsumedAt == nil
	}
	return si.RemainingBillingCycles > 0
}

// SpecialItems is the tenant's special-item list stored as JSONB
type SpecialItems []SpecialItem

// Value implements driver.Valuer interface for GORM to store as JSONB
func (s SpecialItems) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (s *SpecialItems) Scan(value interface{}) error {
	return scanJSON(value, s, func() { *s = SpecialItems{} })
}

// Tenant represents the tenants table
type Tenant struct {
	ID                uint         `json:"id" gorm:"primarykey"`
	DocumentID        *string      `json:"document_id" gorm:"column:document_id"`
	RoomID            uint         `json:"room_id" gorm:"column:room_id;index"`
	RoomNumber        string       `json:"room_number" gorm:"column:room_number"`
	Name              string       `json:"name" gorm:"column:name"`
	NumberOfResidents int          `json:"number_of_residents" gorm:"column:number_of_residents"`
	SpecialItems      SpecialItems `json:"special_items" gorm:"column:special_items;type:jsonb"`
	CreatedAt         *time.Time   `json:"created_at"`
	UpdatedAt         *time.Time   `json:"updated_at"`
}

// TableName sets the insert table name for Tenant
func (Tenant) TableName() string {
	return "tenants"
}
