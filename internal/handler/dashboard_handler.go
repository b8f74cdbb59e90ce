package handler

import (
	"strconv"

	"dormitory-be-svc/internal/service"
	"dormitory-be-svc/pkg/logger"
	"dormitory-be-svc/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *logger.Logger
}

// NewDashboardHandler creates a new DashboardHandler instance
func NewDashboardHandler(dashboardService service.DashboardService, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetBillingStatistics retrieves aggregated billing figures for a dormitory
// @Summary Get billing statistics
// @Description Get bill counts by status and collected versus outstanding totals for a dormitory, optionally scoped to one billing period.
// @Tags dashboard
// @Produce json
// @Param dormitory_id query int true "Dormitory ID"
// @Param month query int false "Billing month"
// @Param year query int false "Billing year"
// @Success 200 {object} utils.APIResponse{data=repository.BillingStatistics} "Statistics retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/dashboard/statistics [get]
func (h *DashboardHandler) GetBillingStatistics(c *gin.Context) {
	dormitoryID, err := strconv.ParseUint(c.Query("dormitory_id"), 10, 64)
	if err != nil || dormitoryID == 0 {
		utils.BadRequestResponse(c, "dormitory_id query parameter is required", err)
		return
	}

	var month, year *int
	if v := c.Query("month"); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = &m
		} else {
			utils.BadRequestResponse(c, "month must be between 1 and 12", err)
			return
		}
	}
	if v := c.Query("year"); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = &y
		} else {
			utils.BadRequestResponse(c, "year must be numeric", err)
			return
		}
	}

	stats, err := h.dashboardService.GetBillingStatistics(uint(dormitoryID), month, year)
	if err != nil {
		respondServiceError(c, h.logger, "Failed to get billing statistics", err)
		return
	}

	utils.SuccessResponse(c, "Billing statistics retrieved successfully", stats)
}
