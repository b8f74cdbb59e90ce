package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus represents the payment status of a bill
type BillStatus string

const (
	BillStatusPending       BillStatus = "pending"
	BillStatusPartiallyPaid BillStatus = "partially_paid"
	BillStatusPaid          BillStatus = "paid"
	BillStatusOverdue       BillStatus = "overdue"
	BillStatusCancelled     BillStatus = "cancelled"
)

// IsValid checks if the status is a valid BillStatus
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusPending, BillStatusPartiallyPaid, BillStatusPaid,
		BillStatusOverdue, BillStatusCancelled:
		return true
	}
	return false
}

// CanAcceptPayment returns true if payments can be applied in this status
func (s BillStatus) CanAcceptPayment() bool {
	switch s {
	case BillStatusPending, BillStatusPartiallyPaid, BillStatusOverdue:
		return true
	}
	return false
}

// BillItemType tags the kind of a bill line item
type BillItemType string

const (
	BillItemRent          BillItemType = "rent"
	BillItemFloorRate     BillItemType = "floor_rate"
	BillItemAdditionalFee BillItemType = "additional_fee"
	BillItemUtility       BillItemType = "utility"
	BillItemOther         BillItemType = "other"
)

// BillItem is a single line on a bill. Quantity, UnitPrice and the meter
// snapshot fields are only set for the item kinds that use them.
type BillItem struct {
	Name           string           `json:"name"`
	Type           BillItemType     `json:"type"`
	Amount         decimal.Decimal  `json:"amount"`
	Quantity       *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice      *decimal.Decimal `json:"unit_price,omitempty"`
	MeterReadingID *uint            `json:"meter_reading_id,omitempty"`
	UnitsUsed      *decimal.Decimal `json:"units_used,omitempty"`
}

// BillItems is the ordered line-item list stored as JSONB
type BillItems []BillItem

// Value implements driver.Valuer interface for GORM to store as JSONB
func (b BillItems) Value() (driver.Value, error) {
	if b == nil {
		return "[]", nil
	}
	return json.Marshal(b)
}

// Scan implements sql.Scanner interface for GORM to read from JSONB
func (b *BillItems) Scan(value interface{}) error {
	return scanJSON(value, b, func() { *b = BillItems{} })
}

// Total sums the line item amounts
func (b BillItems) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range b {
		total = total.Add(item.Amount)
	}
	return total
}

// Bill represents the bills table. One non-cancelled bill exists per room
// and billing period; items are frozen once any payment exists. Version is
// the optimistic-concurrency counter bumped on every update.
type Bill struct {
	ID              uint            `json:"id" gorm:"primarykey"`
	DocumentID      *string         `json:"document_id" gorm:"column:document_id"`
	DormitoryID     uint            `json:"dormitory_id" gorm:"column:dormitory_id;index"`
	RoomID          uint            `json:"room_id" gorm:"column:room_id;index:idx_bills_room_period"`
	TenantID        uint            `json:"tenant_id" gorm:"column:tenant_id"`
	Month           int             `json:"month" gorm:"column:month;index:idx_bills_room_period"`
	Year            int             `json:"year" gorm:"column:year;index:idx_bills_room_period"`
	Items           BillItems       `json:"items" gorm:"column:items;type:jsonb"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"column:total_amount;type:numeric(12,2)"`
	PaidAmount      decimal.Decimal `json:"paid_amount" gorm:"column:paid_amount;type:numeric(12,2)"`
	RemainingAmount decimal.Decimal `json:"remaining_amount" gorm:"column:remaining_amount;type:numeric(12,2)"`
	Status          BillStatus      `json:"status" gorm:"column:status;index"`
	DueDate         time.Time       `json:"due_date" gorm:"column:due_date"`
	Version         int             `json:"version" gorm:"column:version"`
	CreatedAt       *time.Time      `json:"created_at"`
	UpdatedAt       *time.Time      `json:"updated_at"`
}

// TableName sets the insert table name for Bill
func (Bill) TableName() string {
	return "bills"
}
