package repository

import (
	"errors"

	"dormitory-be-svc/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	GetPaymentByDocumentID(documentID string) (*models.Payment, error)
	ListPaymentsByBill(billID uint) ([]*models.Payment, error)
}

// paymentRepository implements PaymentRepository
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{
		db: db,
	}
}

// GetPaymentByDocumentID retrieves a payment by its idempotency identity,
// or nil when no payment with that identity exists
func (r *paymentRepository) GetPaymentByDocumentID(documentID string) (*models.Payment, error) {
	var payment models.Payment

	err := r.db.Where("document_id = ?", documentID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &payment, nil
}

// ListPaymentsByBill retrieves all payments recorded against a bill
func (r *paymentRepository) ListPaymentsByBill(billID uint) ([]*models.Payment, error) {
	var payments []*models.Payment

	err := r.db.Where("bill_id = ?", billID).Order("paid_at, id").Find(&payments).Error
	if err != nil {
		return nil, err
	}

	return payments, nil
}
