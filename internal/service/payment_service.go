package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dormitory-be-svc/internal/models"
	"dormitory-be-svc/internal/repository"
	"dormitory-be-svc/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentEventPublisher receives a notification whenever a payment has been
// recorded. Delivery (LINE, email) is a downstream concern; the engine only
// emits the event.
type PaymentEventPublisher interface {
	PaymentRecorded(bill *models.Bill, payment *models.Payment)
}

// logPaymentEventPublisher emits payment events to the structured log
type logPaymentEventPublisher struct {
	logger *logger.Logger
}

// NewLogPaymentEventPublisher creates a publisher that logs payment events
func NewLogPaymentEventPublisher(logger *logger.Logger) PaymentEventPublisher {
	return &logPaymentEventPublisher{logger: logger}
}

// PaymentRecorded logs the payment-recorded event
func (p *logPaymentEventPublisher) PaymentRecorded(bill *models.Bill, payment *models.Payment) {
	p.logger.WithFields(map[string]interface{}{
		"event":       "payment_recorded",
		"bill_id":     bill.ID,
		"payment_id":  payment.DocumentID,
		"amount":      payment.Amount.String(),
		"method":      string(payment.Method),
		"bill_status": string(bill.Status),
		"remaining":   bill.RemainingAmount.String(),
	}).Info("Payment recorded")
}

// ApplyPaymentInput carries the caller's payment submission. PaymentID is
// the idempotency identity; retried submissions must reuse it. When empty a
// fresh identity is generated.
type ApplyPaymentInput struct {
	BillID    uint
	PaymentID string
	Amount    decimal.Decimal
	Method    models.PaymentMethod
	Reference *string
	PaidAt    time.Time
}

// PaymentService defines the interface for payment operations
type PaymentService interface {
	ApplyPayment(input ApplyPaymentInput) (*models.Bill, error)
	ListPaymentsByBill(billID uint) ([]*models.Payment, error)
}

// paymentService implements PaymentService
type paymentService struct {
	billRepo    repository.BillRepository
	paymentRepo repository.PaymentRepository
	publisher   PaymentEventPublisher
	logger      *logger.Logger
}

// NewPaymentService creates a new instance of PaymentService
func NewPaymentService(
	billRepo repository.BillRepository,
	paymentRepo repository.PaymentRepository,
	publisher PaymentEventPublisher,
	logger *logger.Logger,
) PaymentService {
	return &paymentService{
		billRepo:    billRepo,
		paymentRepo: paymentRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// ApplyPayment records a payment against a bill and transitions its status.
// Applying the same payment identity twice is a no-op that returns the bill
// unchanged. A lost optimistic write is retried once with a fresh read.
func (s *paymentService) ApplyPayment(input ApplyPaymentInput) (*models.Bill, error) {
	if input.PaymentID == "" {
		input.PaymentID = "pay-" + uuid.New().String()
	}

	if !input.Method.IsValid() {
		return nil, fmt.Errorf("invalid payment method %q", input.Method)
	}
	if input.Method.RequiresReference() && (input.Reference == nil || strings.TrimSpace(*input.Reference) == "") {
		return nil, ErrMissingReference
	}

	for attempt := 0; ; attempt++ {
		bill, err := s.applyOnce(input)
		if err == nil {
			return bill, nil
		}
		if !isConflict(err) || attempt >= 1 {
			return nil, err
		}

		s.logger.WithFields(map[string]interface{}{
			"bill_id":    input.BillID,
			"payment_id": input.PaymentID,
		}).Warn("Conflicting write detected, retrying payment with a fresh read")
	}
}

func (s *paymentService) applyOnce(input ApplyPaymentInput) (*models.Bill, error) {
	bill, err := s.billRepo.GetBillByID(input.BillID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	// Idempotency: an already-applied payment identity is a no-op
	existing, err := s.paymentRepo.GetPaymentByDocumentID(input.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check payment identity: %w", err)
	}
	if existing != nil && existing.BillID == bill.ID {
		return bill, nil
	}

	payments, err := s.paymentRepo.ListPaymentsByBill(bill.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bill payments: %w", err)
	}

	paidSoFar := decimal.Zero
	seen := make(map[string]bool, len(payments))
	for _, p := range payments {
		if !seen[p.DocumentID] {
			seen[p.DocumentID] = true
			paidSoFar = paidSoFar.Add(p.Amount)
		}
	}

	if !bill.Status.CanAcceptPayment() {
		return nil, ErrBillNotPayable
	}
	if !input.Amount.IsPositive() {
		return nil, ErrOverpaymentRejected
	}

	newPaid := paidSoFar.Add(input.Amount)
	if newPaid.GreaterThan(bill.TotalAmount) {
		return nil, ErrOverpaymentRejected
	}

	now := time.Now()
	payment := &models.Payment{
		DocumentID: input.PaymentID,
		BillID:     bill.ID,
		TenantID:   bill.TenantID,
		Amount:     input.Amount,
		Method:     input.Method,
		Reference:  input.Reference,
		PaidAt:     input.PaidAt,
		Status:     models.PaymentStatusCompleted,
		CreatedAt:  &now,
	}

	bill.PaidAmount = newPaid
	bill.RemainingAmount = bill.TotalAmount.Sub(newPaid)
	applyPaymentTransition(bill)

	if err := s.billRepo.SavePaymentAndBill(payment, bill); err != nil {
		return nil, err
	}

	s.publisher.PaymentRecorded(bill, payment)

	return bill, nil
}

// ListPaymentsByBill retrieves all payments recorded against a bill
func (s *paymentService) ListPaymentsByBill(billID uint) ([]*models.Payment, error) {
	return s.paymentRepo.ListPaymentsByBill(billID)
}

// isConflict reports whether the error is a transient write conflict: a
// lost optimistic update, or a duplicate-key insert from a concurrent
// submission of the same payment identity (the retry's fresh read then
// resolves it as an idempotent no-op).
func isConflict(err error) bool {
	return errors.Is(err, repository.ErrVersionConflict) ||
		errors.Is(err, gorm.ErrDuplicatedKey)
}
