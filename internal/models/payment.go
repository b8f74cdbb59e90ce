package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a payment was made
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodPromptPay    PaymentMethod = "promptpay"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodPromptPay:
		return true
	}
	return false
}

// RequiresReference returns true when a transaction reference is mandatory
func (m PaymentMethod) RequiresReference() bool {
	return m != PaymentMethodCash
}

// PaymentStatusCompleted is the only status a stored payment can carry;
// corrections are new payments or explicit reversals, never in-place edits.
const PaymentStatusCompleted = "completed"

// Payment represents the payments table. DocumentID is the payment identity
// used for idempotent application; rows are immutable once created.
type Payment struct {
	ID         uint            `json:"id" gorm:"primarykey"`
	DocumentID string          `json:"document_id" gorm:"column:document_id;uniqueIndex"`
	BillID     uint            `json:"bill_id" gorm:"column:bill_id;index"`
	TenantID   uint            `json:"tenant_id" gorm:"column:tenant_id"`
	Amount     decimal.Decimal `json:"amount" gorm:"column:amount;type:numeric(12,2)"`
	Method     PaymentMethod   `json:"method" gorm:"column:method"`
	Reference  *string         `json:"reference" gorm:"column:reference"`
	PaidAt     time.Time       `json:"paid_at" gorm:"column:paid_at"`
	Status     string          `json:"status" gorm:"column:status"`
	CreatedAt  *time.Time      `json:"created_at"`
}

// TableName sets the insert table name for Payment
func (Payment) TableName() string {
	return "payments"
}
