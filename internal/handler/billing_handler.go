package handler

import (
	"fmt"
	"strconv"
	"time"

	"dormitory-be-svc/internal/models"
	"dormitory-be-svc/internal/repository"
	"dormitory-be-svc/internal/service"
	"dormitory-be-svc/pkg/logger"
	"dormitory-be-svc/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ComputeChargesRequest represents the request for a charge preview
type ComputeChargesRequest struct {
	RoomID uint `json:"room_id" binding:"required"`
	Month  int  `json:"month" binding:"required,min=1,max=12"`
	Year   int  `json:"year" binding:"required,min=2020,max=2100"`
}

// CreateBillRequest represents the request for bill creation
type CreateBillRequest struct {
	RoomID  uint       `json:"room_id" binding:"required"`
	Month   int        `json:"month" binding:"required,min=1,max=12"`
	Year    int        `json:"year" binding:"required,min=2020,max=2100"`
	DueDate *time.Time `json:"due_date,omitempty"` // Defaults to the configured due day next month
}

// BulkMonthlyBillingRequest represents the request for bulk bill creation
type BulkMonthlyBillingRequest struct {
	DormitoryID uint       `json:"dormitory_id" binding:"required"`
	Month       int        `json:"month" binding:"required,min=1,max=12"`
	Year        int        `json:"year" binding:"required,min=2020,max=2100"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// BillingHandler handles billing-related HTTP requests
type BillingHandler struct {
	billingService service.BillingService
	logger         *logger.Logger
}

// NewBillingHandler creates a new BillingHandler instance
func NewBillingHandler(billingService service.BillingService, logger *logger.Logger) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		logger:         logger,
	}
}

// ComputeCharges previews the itemized charges for a room and period
// @Summary Compute charge breakdown
// @Description Compute the itemized monthly charges for a room without creating a bill.
// @Tags billings
// @Accept json
// @Produce json
// @Param request body ComputeChargesRequest true "Room and billing period"
// @Success 200 {object} utils.APIResponse{data=service.ChargeBreakdown} "Charge breakdown"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 422 {object} utils.APIResponse "Configuration error"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/billings/compute [post]
func (h *BillingHandler) ComputeCharges(c *gin.Context) {
	var req ComputeChargesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid request body")
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	breakdown, err := h.billingService.ComputeCharges(req.RoomID, req.Month, req.Year)
	if err != nil {
		respondServiceError(c, h.logger, "Failed to compute charges", err)
		return
	}

	utils.SuccessResponse(c, "Charges computed successfully", breakdown)
}

// CreateBill creates a bill for a room and billing period
// @Summary Create a bill
// @Description Create and finalize a bill for one room and billing period. Consumes the room's pending meter readings and the tenant's active special items.
// @Tags billings
// @Accept json
// @Produce json
// @Param request body CreateBillRequest true "Bill creation request"
// @Success 201 {object} utils.APIResponse{data=models.Bill} "Created bill"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 409 {object} utils.APIResponse "Duplicate bill for room and period"
// @Failure 422 {object} utils.APIResponse "Configuration error"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/billings [post]
func (h *BillingHandler) CreateBill(c *gin.Context) {
	var req CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid request body")
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	bill, err := h.billingService.CreateBill(req.RoomID, req.Month, req.Year, req.DueDate)
	if err != nil {
		respondServiceError(c, h.logger, "Failed to create bill", err)
		return
	}

	utils.CreatedResponse(c, "Bill created successfully", bill)
}

// CreateMonthlyBills creates bills for every occupied room in a dormitory
// @Summary Create bulk monthly bills
// @Description Create bills for all occupied rooms in a dormitory for one billing period. Rooms with an existing bill are skipped.
// @Tags billings
// @Accept json
// @Produce json
// @Param request body BulkMonthlyBillingRequest true "Bulk billing request"
// @Success 200 {object} utils.APIResponse{data=service.BulkBillingResponse} "Bulk billing result"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 422 {object} utils.APIResponse "Configuration error"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/billings/bulk-monthly [post]
func (h *BillingHandler) CreateMonthlyBills(c *gin.Context) {
	var req BulkMonthlyBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid request body")
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	response, err := h.billingService.CreateMonthlyBills(req.DormitoryID, req.Month, req.Year, req.DueDate)
	if err != nil {
		respondServiceError(c, h.logger, "Failed to create monthly bills", err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"total_rooms":   response.TotalRooms,
		"success_count": response.SuccessCount,
		"skipped_count": response.SkippedCount,
		"failed_count":  response.FailedCount,
	}).Info("Bulk monthly bills created")

	utils.SuccessResponse(c, "Bulk monthly bills created", response)
}

// ListBills retrieves bills with optional filters and pagination
// @Summary List bills
// @Description List bills filtered by dormitory, room, period or status. Supports pagination.
// @Tags billings
// @Produce json
// @Param dormitory_id query int false "Dormitory ID"
// @Param room_id query int false "Room ID"
// @Param month query int false "Billing month"
// @Param year query int false "Billing year"
// @Param status query string false "Bill status"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} utils.PaginatedResponse{data=[]models.Bill} "Bills retrieved successfully"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/billings [get]
func (h *BillingHandler) ListBills(c *gin.Context) {
	filters := parseBillFilters(c)
	page := parseIntQuery(c, "page", 1)
	perPage := parseIntQuery(c, "per_page", 20)

	bills, total, err := h.billingService.ListBills(filters, page, perPage)
	if err != nil {
		respondServiceError(c, h.logger, "Failed to list bills", err)
		return
	}

	utils.PaginatedSuccessResponse(c, "Bills retrieved successfully", bills, total, page, perPage)
}

// GetBill retrieves a single bill by ID
// @Summary Get a bill
// @Description Get a bill with its itemized charges and payment state.
// @Tags billings
// @Produce json
// @Param id path int true "Bill ID"
// @Success 200 {object} utils.APIResponse{data=models.Bill} "Bill retrieved successfully"
// @Failure 404 {object} utils.APIResponse "Bill not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/billings/{id} [get]
func (h *BillingHandler) GetBill(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Bill ID must be numeric", err)
		return
	}

	bill, err := h.billingService.GetBill(uint(id))
	if err != nil {
		respondServiceError(c, h.logger, "Failed to get bill", err)
		return
	}

	utils.SuccessResponse(c, "Bill retrieved successfully", bill)
}

// MarkOverdue checks one bill against the current time and marks it overdue
// @Summary Mark a bill overdue if due
// @Description Transition a bill to overdue when its due date has passed without full payment. Idempotent.
// @Tags billings
// @Produce json
// @Param id path int true "Bill ID"
// @Success 200 {object} utils.APIResponse{data=models.Bill} "Bill after the check"
// @Failure 404 {object} utils.APIResponse "Bill not found"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/billings/{id}/overdue-check [post]
func (h *BillingHandler) MarkOverdue(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Bill ID must be numeric", err)
		return
	}

	bill, err := h.billingService.MarkOverdueIfDue(uint(id), time.Now())
	if err != nil {
		respondServiceError(c, h.logger, "Failed to run overdue check", err)
		return
	}

	utils.SuccessResponse(c, "Overdue check completed", bill)
}

// ExportBills exports bills matching the filters to an Excel file
// @Summary Export bills to Excel
// @Description Export bills filtered by dormitory, room, period or status as an .xlsx download.
// @Tags billings
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param dormitory_id query int false "Dormitory ID"
// @Param room_id query int false "Room ID"
// @Param month query int false "Billing month"
// @Param year query int false "Billing year"
// @Param status query string false "Bill status"
// @Success 200 {file} binary "Excel file"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/billings/export [get]
func (h *BillingHandler) ExportBills(c *gin.Context) {
	filters := parseBillFilters(c)

	content, filename, err := h.billingService.ExportBillsToExcel(filters)
	if err != nil {
		respondServiceError(c, h.logger, "Failed to export bills", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

// parseBillFilters reads the optional bill listing filters from the query
func parseBillFilters(c *gin.Context) repository.BillFilters {
	var filters repository.BillFilters

	if v := c.Query("dormitory_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			dormitoryID := uint(id)
			filters.DormitoryID = &dormitoryID
		}
	}
	if v := c.Query("room_id"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			roomID := uint(id)
			filters.RoomID = &roomID
		}
	}
	if v := c.Query("month"); v != "" {
		if month, err := strconv.Atoi(v); err == nil {
			filters.Month = &month
		}
	}
	if v := c.Query("year"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			filters.Year = &year
		}
	}
	if v := c.Query("status"); v != "" {
		status := models.BillStatus(v)
		if status.IsValid() {
			filters.Status = &status
		}
	}

	return filters
}

// parseIntQuery reads a positive integer query parameter with a fallback
func parseIntQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
