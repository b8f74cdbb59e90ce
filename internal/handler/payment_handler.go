package handler

import (
	"strconv"
	"time"

	"dormitory-be-svc/internal/models"
	"dormitory-be-svc/internal/service"
	"dormitory-be-svc/pkg/logger"
	"dormitory-be-svc/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ApplyPaymentRequest represents a payment submission. PaymentID is the
// caller's idempotency identity; resubmitting with the same id is a no-op.
type ApplyPaymentRequest struct {
	BillID    uint            `json:"bill_id" binding:"required"`
	PaymentID string          `json:"payment_id,omitempty"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required"`
	Reference *string         `json:"reference,omitempty"`
	PaidAt    *time.Time      `json:"paid_at,omitempty"`
}

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *logger.Logger
}

// NewPaymentHandler creates a new PaymentHandler instance
func NewPaymentHandler(paymentService service.PaymentService, logger *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// ApplyPayment records a payment against a bill
// @Summary Apply a payment
// @Description Record a payment against a bill and transition the bill status. Submissions reusing a payment id are idempotent no-ops.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body ApplyPaymentRequest true "Payment submission"
// @Success 200 {object} utils.APIResponse{data=models.Bill} "Bill after the payment"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "Bill not found"
// @Failure 409 {object} utils.APIResponse "Write conflict, retry the request"
// @Failure 422 {object} utils.APIResponse "Payment rejected"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/payments [post]
func (h *PaymentHandler) ApplyPayment(c *gin.Context) {
	var req ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid request body")
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	bill, err := h.paymentService.ApplyPayment(service.ApplyPaymentInput{
		BillID:    req.BillID,
		PaymentID: req.PaymentID,
		Amount:    req.Amount,
		Method:    models.PaymentMethod(req.Method),
		Reference: req.Reference,
		PaidAt:    paidAt,
	})
	if err != nil {
		respondServiceError(c, h.logger, "Failed to apply payment", err)
		return
	}

	utils.SuccessResponse(c, "Payment applied successfully", bill)
}

// ListPaymentsByBill retrieves all payments recorded against a bill
// @Summary List payments for a bill
// @Description List every payment applied to one bill in submission order.
// @Tags payments
// @Produce json
// @Param id path int true "Bill ID"
// @Success 200 {object} utils.APIResponse{data=[]models.Payment} "Payments retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid bill ID"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/billings/{id}/payments [get]
func (h *PaymentHandler) ListPaymentsByBill(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Bill ID must be numeric", err)
		return
	}

	payments, err := h.paymentService.ListPaymentsByBill(uint(id))
	if err != nil {
		respondServiceError(c, h.logger, "Failed to list payments", err)
		return
	}

	utils.SuccessResponse(c, "Payments retrieved successfully", payments)
}
